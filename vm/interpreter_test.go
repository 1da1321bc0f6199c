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
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func runCode(t *testing.T, code []byte, static bool, gas uint64) Result {
	t.Helper()
	host := newTestHost()
	msg := &Message{
		Kind:      CallKindCall,
		Sender:    common.HexToAddress("0x1"),
		Recipient: common.HexToAddress("0x2"),
		Value:     new(uint256.Int),
		Gas:       gas,
		Static:    static,
	}
	return Execute(host, Cancun, big.NewInt(1), msg, code, Config{})
}

func TestAddAndReturn(t *testing.T) {
	// PUSH1 3, PUSH1 4, ADD, PUSH1 0, MSTORE, PUSH1 32, PUSH1 0, RETURN
	code := []byte{
		0x60, 0x03,
		0x60, 0x04,
		0x01,
		0x60, 0x00,
		0x52,
		0x60, 0x20,
		0x60, 0x00,
		0xf3,
	}
	res := runCode(t, code, false, 100_000)
	require.Equal(t, Success, res.Status)
	var got uint256.Int
	got.SetBytes(res.Output)
	require.Equal(t, uint64(7), got.Uint64())
}

func TestDivisionByZeroYieldsZero(t *testing.T) {
	// PUSH1 0, PUSH1 5, DIV, PUSH1 0, MSTORE, PUSH1 32, PUSH1 0, RETURN
	code := []byte{
		0x60, 0x00,
		0x60, 0x05,
		0x04,
		0x60, 0x00,
		0x52,
		0x60, 0x20,
		0x60, 0x00,
		0xf3,
	}
	res := runCode(t, code, false, 100_000)
	require.Equal(t, Success, res.Status)
	var got uint256.Int
	got.SetBytes(res.Output)
	require.True(t, got.IsZero())
}

func TestGoodJump(t *testing.T) {
	// PUSH1 4, JUMP, STOP, JUMPDEST, STOP
	code := []byte{0x60, 0x04, 0x56, 0x00, 0x5b, 0x00}
	res := runCode(t, code, false, 100_000)
	require.Equal(t, Success, res.Status)
}

func TestBadJump(t *testing.T) {
	// PUSH1 3, JUMP, STOP, JUMPDEST, STOP -- target 3 is the STOP, not a
	// JUMPDEST.
	code := []byte{0x60, 0x03, 0x56, 0x00, 0x5b, 0x00}
	res := runCode(t, code, false, 100_000)
	require.Equal(t, BadJumpDestination, res.Status)
}

func TestJumpIntoPushImmediateIsInvalid(t *testing.T) {
	// PUSH2 0x5b5b (data happens to equal JUMPDEST's opcode byte twice),
	// then jump to offset 1, which is inside the PUSH2 immediate.
	code := []byte{0x61, 0x5b, 0x5b, 0x60, 0x01, 0x56}
	res := runCode(t, code, false, 100_000)
	require.Equal(t, BadJumpDestination, res.Status)
}

func TestRevertWithData(t *testing.T) {
	// PUSH1 42, PUSH1 0, MSTORE, PUSH1 32, PUSH1 0, REVERT
	code := []byte{
		0x60, 0x2a,
		0x60, 0x00,
		0x52,
		0x60, 0x20,
		0x60, 0x00,
		0xfd,
	}
	res := runCode(t, code, false, 100_000)
	require.Equal(t, Revert, res.Status)
	var got uint256.Int
	got.SetBytes(res.Output)
	require.Equal(t, uint64(42), got.Uint64())
	require.Equal(t, uint64(0), res.GasRefund)
}

func TestStackOverflow(t *testing.T) {
	code := make([]byte, 0, 2*1025)
	for i := 0; i < 1025; i++ {
		code = append(code, 0x60, 0x00) // PUSH1 0
	}
	res := runCode(t, code, false, 10_000_000)
	require.Equal(t, StackOverflow, res.Status)
}

func TestStackUnderflow(t *testing.T) {
	code := []byte{0x01} // ADD with an empty stack
	res := runCode(t, code, false, 100_000)
	require.Equal(t, StackUnderflow, res.Status)
}

func TestStaticModeViolation(t *testing.T) {
	// PUSH1 0, PUSH1 0, SSTORE
	code := []byte{0x60, 0x00, 0x60, 0x00, 0x55}
	res := runCode(t, code, true, 100_000)
	require.Equal(t, StaticModeViolation, res.Status)
}

func TestUndefinedInstruction(t *testing.T) {
	code := []byte{0x0c} // 0x0c is unassigned in every revision
	res := runCode(t, code, false, 100_000)
	require.Equal(t, UndefinedInstruction, res.Status)
}

func TestOutOfGas(t *testing.T) {
	code := []byte{0x60, 0x01, 0x60, 0x02, 0x01} // PUSH1 1, PUSH1 2, ADD
	res := runCode(t, code, false, 1)
	require.Equal(t, OutOfGas, res.Status)
}

func TestFallOffEndIsSuccess(t *testing.T) {
	// Code with no explicit STOP; the interpreter must treat running past
	// the end of code as an implicit STOP, not an error.
	code := []byte{0x60, 0x01} // PUSH1 1
	res := runCode(t, code, false, 100_000)
	require.Equal(t, Success, res.Status)
}
