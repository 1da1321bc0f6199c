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
	"errors"
	"fmt"
)

// List of evaluation halting errors. Every error here other than
// ErrExecutionReverted and errStopToken is a halting error: the frame
// consumes all remaining gas and returns an empty output.
var (
	ErrOutOfGas                 = errors.New("out of gas")
	ErrCodeStoreOutOfGas        = errors.New("contract creation code storage out of gas")
	ErrDepth                    = errors.New("max call depth exceeded")
	ErrInsufficientBalance      = errors.New("insufficient balance for transfer")
	ErrContractAddressCollision = errors.New("contract address collision")
	ErrExecutionReverted        = errors.New("execution reverted")
	ErrMaxInitCodeSizeExceeded  = errors.New("max initcode size exceeded")
	ErrMaxCodeSizeExceeded      = errors.New("max code size exceeded")
	ErrInvalidJump              = errors.New("invalid jump destination")
	ErrWriteProtection          = errors.New("write protection")
	ErrReturnDataOutOfBounds    = errors.New("return data out of bounds")
	ErrGasUintOverflow          = errors.New("gas uint64 overflow")
	ErrInvalidCode              = errors.New("invalid code")
	ErrNonceUintOverflow        = errors.New("nonce uint64 overflow")

	// ErrInvalidInstruction is returned for the literal INVALID opcode
	// (0xFE), distinct from ErrInvalidOpCode's "no instruction defined for
	// this byte" case.
	ErrInvalidInstruction = errors.New("invalid instruction")

	// errStopToken is an internal sentinel returned by op*/STOP-family
	// instructions to signal a successful, non-reverting end of the frame.
	// It never escapes Run.
	errStopToken = errors.New("stop token")
)

// ErrStackUnderflow is returned when an opcode's minStack requirement is
// not met by the current stack height.
type ErrStackUnderflow struct {
	stackLen int
	required int
}

func (e *ErrStackUnderflow) Error() string {
	return fmt.Sprintf("stack underflow (%d <=> %d)", e.stackLen, e.required)
}

// ErrStackOverflow is returned when executing an opcode would push the
// stack past its 1024-item limit.
type ErrStackOverflow struct {
	stackLen int
	limit    int
}

func (e *ErrStackOverflow) Error() string {
	return fmt.Sprintf("stack limit reached %d (%d)", e.stackLen, e.limit)
}

// ErrInvalidOpCode is returned for bytes that carry no defined instruction
// at the active revision.
type ErrInvalidOpCode struct {
	opcode OpCode
}

func (e *ErrInvalidOpCode) Error() string { return fmt.Sprintf("invalid opcode: %s", e.opcode) }
