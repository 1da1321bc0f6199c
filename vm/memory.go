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

var memoryPool = sync.Pool{
	New: func() interface{} {
		return &Memory{}
	},
}

// Memory is a linear, byte-addressed buffer that only ever grows, in
// 32-byte words, for the lifetime of a single call frame. Growth is priced
// by the dispatcher via memoryGasCost (gas.go) before the buffer is
// resized; Memory itself performs no gas accounting.
type Memory struct {
	store       []byte
	lastGasCost uint64 // cumulative quadratic cost already charged, for gas.go's incremental pricing
}

// NewMemory returns an empty Memory, pulled from a pool of reusable
// buffers to avoid a fresh allocation on every call frame.
func NewMemory() *Memory {
	return memoryPool.Get().(*Memory)
}

// Free returns m's backing buffer to the pool. Callers must not use m
// afterwards.
func (m *Memory) Free() {
	// Only reuse reasonably small buffers; a call that grew memory to a
	// huge size would otherwise pin that allocation in the pool forever.
	if cap(m.store) <= 16*1024 {
		m.store = m.store[:0]
		m.lastGasCost = 0
		memoryPool.Put(m)
	}
}

// Set copies value into m at offset. The caller must have already grown m
// to cover [offset, offset+len(value)) via Resize.
func (m *Memory) Set(offset, size uint64, value []byte) {
	if size == 0 {
		return
	}
	if offset+size > uint64(len(m.store)) {
		panic("invalid memory: store empty")
	}
	copy(m.store[offset:offset+size], value)
}

// Set32 writes val as a 32-byte big-endian word starting at offset.
func (m *Memory) Set32(offset uint64, val *uint256.Int) {
	if offset+32 > uint64(len(m.store)) {
		panic("invalid memory: store empty")
	}
	// Clear first, in case val has fewer than 32 significant bytes.
	dst := m.store[offset : offset+32]
	for i := range dst {
		dst[i] = 0
	}
	val.WriteToSlice(dst)
}

// Resize grows m to at least size bytes, zero-extending the new region.
// size must already be a multiple of 32 (gas.go computes it that way); if
// m is already at least that large, Resize is a no-op.
func (m *Memory) Resize(size uint64) {
	if uint64(m.Len()) < size {
		m.store = append(m.store, make([]byte, size-uint64(m.Len()))...)
	}
}

// GetCopy returns an owned copy of the size bytes at offset, or nil if
// size is 0.
func (m *Memory) GetCopy(offset, size uint64) (cpy []byte) {
	if size == 0 {
		return nil
	}
	if len(m.store) > int(offset) {
		cpy = make([]byte, size)
		copy(cpy, m.store[offset:offset+size])
		return
	}
	return
}

// GetPtr returns a slice aliasing m's backing buffer; callers must not
// retain it past the current opcode or mutate it unless explicitly writing
// through it.
func (m *Memory) GetPtr(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	if len(m.store) > int(offset) {
		return m.store[offset : offset+size]
	}
	return nil
}

// Copy moves length bytes within m's own buffer from src to dst, handling
// overlap the way Go's builtin copy does (MCOPY, EIP-5656).
func (m *Memory) Copy(dst, src, length uint64) {
	if length == 0 {
		return
	}
	copy(m.store[dst:dst+length], m.store[src:src+length])
}

// Len returns the current size of m in bytes; always a multiple of 32.
func (m *Memory) Len() int { return len(m.store) }

// Data returns the live backing slice. Callers must not modify it.
func (m *Memory) Data() []byte { return m.store }

// toWordSize rounds size up to the next multiple of 32, returning the word
// count (not the byte count).
func toWordSize(size uint64) uint64 {
	if size > 0xFFFFFFFFE0 { // guards against (size+31) overflowing uint64
		return 0xFFFFFFFFFFFFFFFF / 32
	}
	return (size + 31) / 32
}
