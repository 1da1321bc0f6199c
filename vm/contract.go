// Copyright 2024 The go-evmone/baseline Authors
// This file is part of the baseline library.
//
// The baseline library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The baseline library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the baseline library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var contractPool = sync.Pool{
	New: func() interface{} { return &Contract{} },
}

// Contract is the execution state of a single call frame: the code being
// run, the gas it has left, and the message that invoked it. It is the
// "ExecutionState" the dispatcher advances one opcode at a time.
type Contract struct {
	CallerAddress common.Address
	Address       common.Address
	caller        common.Address

	value *uint256.Int
	Input []byte

	Gas uint64

	code    []byte
	jumpdest *JumpdestMap

	IsStatic bool
}

// GetContract returns a pooled Contract configured for one call frame. The
// JumpdestMap is computed eagerly: spec.md requires the pre-scan run once
// per distinct piece of code before any JUMP/JUMPI can be validated.
func GetContract(caller, addr common.Address, value *uint256.Int, gas uint64, code []byte, static bool) *Contract {
	c := contractPool.Get().(*Contract)
	c.CallerAddress = caller
	c.caller = caller
	c.Address = addr
	c.value = value
	c.Gas = gas
	c.code = code
	c.jumpdest = newJumpdestMap(code)
	c.IsStatic = static
	c.Input = nil
	return c
}

// ReturnContract returns c to the pool. Callers must not use c afterwards.
func ReturnContract(c *Contract) {
	c.Input = nil
	c.code = nil
	c.jumpdest = nil
	contractPool.Put(c)
}

// Value returns the wei value attached to the call that created this frame.
func (c *Contract) Value() *uint256.Int { return c.value }

// Code returns the live code slice. Callers must not modify it.
func (c *Contract) Code() []byte { return c.code }

// CodeSize returns len(Code()).
func (c *Contract) CodeSize() int { return len(c.code) }

// GetOp returns the opcode at n, or STOP if n is past the end of the code
// (the EVM treats code as implicitly padded with STOP).
func (c *Contract) GetOp(n uint64) OpCode {
	if n < uint64(len(c.code)) {
		return OpCode(c.code[n])
	}
	return STOP
}

// validJumpdest reports whether dst is a valid JUMP/JUMPI target in this
// contract's code.
func (c *Contract) validJumpdest(dst *uint256.Int) bool {
	udst := dst.Uint64()
	if dst.BitLen() > 63 || udst >= uint64(len(c.code)) {
		return false
	}
	return c.jumpdest.valid(udst)
}

// UseGas deducts amount from the frame's remaining gas, reporting whether
// there was enough. It never permits gas to go negative.
func (c *Contract) UseGas(amount uint64) bool {
	if c.Gas < amount {
		return false
	}
	c.Gas -= amount
	return true
}

// ScopeContext bundles everything an opcode implementation function needs
// to reach: its operand stack, its memory, and the frame it is executing
// in.
type ScopeContext struct {
	Memory   *Memory
	Stack    *Stack
	Contract *Contract
}
