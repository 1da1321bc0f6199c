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
	"math/big"

	"github.com/holiman/uint256"
)

// EVMInterpreter runs a single call frame's code to completion against a
// Host. It holds no world state itself: every side effect and every piece
// of ambient context (balances, storage, block/tx data) is read through
// host.
type EVMInterpreter struct {
	host     Host
	table    JumpTable
	revision Revision
	chainID  *uint256.Int

	depth      int
	returnData []byte
	gasRefund  uint64

	// callGasTemp holds the gas a CALL-family dynamic-gas function computed
	// via callGas (the EIP-150 63/64 rule applied to the stack's gas
	// operand). The opcode function reads it instead of the raw stack
	// value, since the stack operand is only a requested ceiling.
	callGasTemp uint64
}

// NewEVMInterpreter builds an interpreter bound to host, running at rev,
// at call depth depth. chainID is exposed to the CHAINID opcode (Istanbul
// and later); the jump table is built once here rather than per opcode,
// and cfg's ExtraEips/NoBaseFee are patched onto it at construction time.
func NewEVMInterpreter(host Host, rev Revision, chainID *big.Int, depth int, cfg Config) *EVMInterpreter {
	var cid uint256.Int
	if chainID != nil {
		cid.SetFromBig(chainID)
	}
	tbl := newInstructionSet(rev)
	applyExtraEips(&tbl, cfg)
	applyNoBaseFee(&tbl, cfg)
	return &EVMInterpreter{
		host:     host,
		table:    tbl,
		revision: rev,
		chainID:  &cid,
		depth:    depth,
	}
}

// Run executes contract's code from offset 0 against the interpreter's
// Host, one opcode at a time: validate stack bounds, charge constant and
// dynamic gas, grow memory, dispatch. It returns the output bytes (for
// RETURN/REVERT) and an error that is nil on success, ErrExecutionReverted
// on REVERT, or one of the halting errors in errors.go otherwise.
func (in *EVMInterpreter) Run(contract *Contract, input []byte) ([]byte, error) {
	contract.Input = input

	stack := newstack()
	defer returnStack(stack)
	mem := NewMemory()
	defer mem.Free()
	scope := &ScopeContext{Memory: mem, Stack: stack, Contract: contract}

	var (
		pc  = uint64(0)
		op  OpCode
		res []byte
		err error
	)

	for {
		op = contract.GetOp(pc)
		operation := in.table[op]
		if operation == nil || operation.undefined {
			return nil, &ErrInvalidOpCode{opcode: op}
		}

		if sLen := stack.len(); sLen < operation.minStack {
			return nil, &ErrStackUnderflow{stackLen: sLen, required: operation.minStack}
		} else if sLen > operation.maxStack {
			return nil, &ErrStackOverflow{stackLen: sLen, limit: operation.maxStack}
		}

		if !contract.UseGas(operation.constantGas) {
			return nil, ErrOutOfGas
		}

		var memorySize uint64
		if operation.memorySize != nil {
			var overflow bool
			memorySize, overflow = operation.memorySize(stack)
			if overflow {
				return nil, ErrGasUintOverflow
			}
			if memorySize, overflow = toWordSizeChecked(memorySize); overflow {
				return nil, ErrGasUintOverflow
			}
			memorySize *= 32
		}

		if operation.dynamicGas != nil {
			cost, err := operation.dynamicGas(in, scope, memorySize)
			if err != nil {
				return nil, err
			}
			if !contract.UseGas(cost) {
				return nil, ErrOutOfGas
			}
		}
		if memorySize > 0 {
			mem.Resize(memorySize)
		}

		res, err = operation.execute(&pc, in, scope)
		if err != nil {
			break
		}
		// JUMP/JUMPI set pc to their target themselves; PUSHn advances pc
		// past its immediate data itself. Every other opcode is one byte.
		if op != JUMP && op != JUMPI && !op.IsPush() {
			pc++
		}
	}

	if err == errStopToken {
		err = nil
	}
	return res, err
}

// Execute is the package's entry point: run msg's code to completion
// against host at revision rev and return a single Result, translating
// internal halting errors into the StatusCode taxonomy.
func Execute(host Host, rev Revision, chainID *big.Int, msg *Message, code []byte, cfg Config) Result {
	if msg.Depth > 1024 {
		return Result{Status: InvalidInstruction}
	}
	interp := NewEVMInterpreter(host, rev, chainID, msg.Depth, cfg)

	value := msg.Value
	if value == nil {
		value = new(uint256.Int)
	}
	contract := GetContract(msg.Sender, msg.Recipient, value, msg.Gas, code, msg.Static)
	defer ReturnContract(contract)

	output, err := interp.Run(contract, msg.Input)

	result := Result{
		GasLeft:   contract.Gas,
		GasRefund: interp.gasRefund,
		Output:    output,
	}
	switch err {
	case nil:
		result.Status = Success
	case ErrExecutionReverted:
		result.Status = Revert
		result.GasRefund = 0
	case ErrOutOfGas, ErrGasUintOverflow:
		result.Status = OutOfGas
		result.GasLeft = 0
		result.GasRefund = 0
		result.Output = nil
	case ErrInvalidJump:
		result.Status = BadJumpDestination
		result.GasLeft = 0
		result.GasRefund = 0
		result.Output = nil
	case ErrWriteProtection:
		result.Status = StaticModeViolation
		result.GasLeft = 0
		result.GasRefund = 0
		result.Output = nil
	case ErrReturnDataOutOfBounds:
		result.Status = InvalidMemoryAccess
		result.GasLeft = 0
		result.GasRefund = 0
		result.Output = nil
	case ErrInvalidInstruction:
		result.Status = InvalidInstruction
		result.GasLeft = 0
		result.GasRefund = 0
		result.Output = nil
	default:
		switch err.(type) {
		case *ErrStackUnderflow:
			result.Status = StackUnderflow
		case *ErrStackOverflow:
			result.Status = StackOverflow
		case *ErrInvalidOpCode:
			result.Status = UndefinedInstruction
		default:
			result.Status = InvalidInstruction
		}
		result.GasLeft = 0
		result.GasRefund = 0
		result.Output = nil
	}
	return result
}
