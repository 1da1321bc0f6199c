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

	"github.com/holiman/uint256"
)

// stackLimit is the maximum number of items the stack may hold at once, per
// the Yellow Paper.
const stackLimit = 1024

var stackPool = sync.Pool{
	New: func() interface{} {
		return &Stack{data: make([]uint256.Int, 0, 16)}
	},
}

// Stack is a bounded LIFO of 256-bit words. The dispatcher validates bounds
// against the active jump table entry before every push/pop; Stack itself
// never checks capacity, matching the EVM's "validate, then execute"
// discipline (spec.md §3: "push on full stack and pop on empty stack are
// never invoked").
type Stack struct {
	data []uint256.Int
}

func newstack() *Stack {
	return stackPool.Get().(*Stack)
}

func returnStack(s *Stack) {
	s.data = s.data[:0]
	stackPool.Put(s)
}

// Data returns the live backing slice, top-last. Callers must not retain or
// mutate it beyond the current opcode.
func (st *Stack) Data() []uint256.Int {
	return st.data
}

func (st *Stack) push(d *uint256.Int) {
	st.data = append(st.data, *d)
}

func (st *Stack) pop() (ret uint256.Int) {
	ret = st.data[len(st.data)-1]
	st.data = st.data[:len(st.data)-1]
	return
}

// pop2 pops the top two items, returning the top first and the
// second-from-top second, so callers can write `a, b := stack.pop2()` for a
// two-operand opcode whose first operand is the top of the stack.
func (st *Stack) pop2() (uint256.Int, uint256.Int) {
	return st.pop(), st.pop()
}

func (st *Stack) len() int {
	return len(st.data)
}

// swap exchanges the top item with the item n positions below it (SWAPn).
func (st *Stack) swap(n int) {
	st.data[st.len()-n-1], st.data[st.len()-1] = st.data[st.len()-1], st.data[st.len()-n-1]
}

func (st *Stack) dup(n int) {
	st.push(&st.data[st.len()-n])
}

// peek returns a pointer to the top stack item, which the caller may
// overwrite in place (used by one-operand opcodes such as ISZERO and NOT,
// and by ADDMOD/MULMOD, which pop two operands and write the result over
// the third).
func (st *Stack) peek() *uint256.Int {
	return &st.data[st.len()-1]
}

// Back returns the n'th item from the top, 0-indexed, without popping.
func (st *Stack) Back(n int) *uint256.Int {
	return &st.data[st.len()-n-1]
}
