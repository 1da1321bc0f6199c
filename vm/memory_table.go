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

import "github.com/holiman/uint256"

// memorySizeFunc computes the memory size (in bytes) that an opcode needs,
// given its already-validated stack. It runs before the opcode executes, so
// the dispatcher can price the expansion and only then grow Memory.
type memorySizeFunc func(*Stack) (size uint64, overflow bool)

func memorySize1(stack *Stack, posIdx, sizeIdx int) (uint64, bool) {
	if stack.Back(sizeIdx).IsZero() {
		return 0, false
	}
	pos := stack.Back(posIdx)
	var end uint256.Int
	if end.Add(pos, stack.Back(sizeIdx)); !end.IsUint64() {
		return 0, true
	}
	return end.Uint64(), false
}

func memoryKeccak256(stack *Stack) (uint64, bool) {
	return memorySize1(stack, 0, 1)
}

func memoryCallDataCopy(stack *Stack) (uint64, bool) {
	return memorySize1(stack, 0, 2)
}

func memoryReturnDataCopy(stack *Stack) (uint64, bool) {
	return memorySize1(stack, 0, 2)
}

func memoryCodeCopy(stack *Stack) (uint64, bool) {
	return memorySize1(stack, 0, 2)
}

func memoryExtCodeCopy(stack *Stack) (uint64, bool) {
	return memorySize1(stack, 1, 3)
}

func memoryMLoad(stack *Stack) (uint64, bool) {
	var sz uint256.Int
	sz.SetUint64(32)
	pos := stack.Back(0)
	var end uint256.Int
	if end.Add(pos, &sz); !end.IsUint64() {
		return 0, true
	}
	return end.Uint64(), false
}

func memoryMStore(stack *Stack) (uint64, bool) {
	return memoryMLoad(stack)
}

func memoryMStore8(stack *Stack) (uint64, bool) {
	var sz uint256.Int
	sz.SetUint64(1)
	pos := stack.Back(0)
	var end uint256.Int
	if end.Add(pos, &sz); !end.IsUint64() {
		return 0, true
	}
	return end.Uint64(), false
}

func memoryMCopy(stack *Stack) (uint64, bool) {
	a, overflow := memorySize1(stack, 0, 2)
	if overflow {
		return 0, true
	}
	b, overflow := memorySize1(stack, 1, 2)
	if overflow {
		return 0, true
	}
	if a > b {
		return a, false
	}
	return b, false
}

func memoryCreate(stack *Stack) (uint64, bool) {
	return memorySize1(stack, 1, 2)
}

func memoryCreate2(stack *Stack) (uint64, bool) {
	return memorySize1(stack, 1, 2)
}

func memoryCall(stack *Stack) (uint64, bool) {
	x, overflow := memorySize1(stack, 5, 6)
	if overflow {
		return 0, true
	}
	y, overflow := memorySize1(stack, 3, 4)
	if overflow {
		return 0, true
	}
	if x > y {
		return x, false
	}
	return y, false
}

func memoryCallCode(stack *Stack) (uint64, bool) {
	return memoryCall(stack)
}

func memoryDelegateCall(stack *Stack) (uint64, bool) {
	x, overflow := memorySize1(stack, 4, 5)
	if overflow {
		return 0, true
	}
	y, overflow := memorySize1(stack, 2, 3)
	if overflow {
		return 0, true
	}
	if x > y {
		return x, false
	}
	return y, false
}

func memoryStaticCall(stack *Stack) (uint64, bool) {
	return memoryDelegateCall(stack)
}

func memoryReturn(stack *Stack) (uint64, bool) {
	return memorySize1(stack, 0, 1)
}

func memoryRevert(stack *Stack) (uint64, bool) {
	return memorySize1(stack, 0, 1)
}

func memoryLog(stack *Stack) (uint64, bool) {
	return memorySize1(stack, 0, 1)
}
