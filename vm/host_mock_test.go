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
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// testHost is a minimal in-memory Host for exercising the interpreter in
// isolation, without a real state trie or block context. Every account is
// implicitly warm after its first access, matching a fresh transaction's
// EIP-2929 access list.
type testHost struct {
	balances map[common.Address]*uint256.Int
	storage  map[common.Address]map[common.Hash]common.Hash
	code     map[common.Address][]byte
	warmAcct map[common.Address]bool
	warmSlot map[common.Address]map[common.Hash]bool
	logs     []testLog
	blockCtx BlockContext
	txCtx    TxContext
	nextCallResult CallResult
	lastCallMsg    *Message
}

type testLog struct {
	addr   common.Address
	topics []common.Hash
	data   []byte
}

func newTestHost() *testHost {
	return &testHost{
		balances: make(map[common.Address]*uint256.Int),
		storage:  make(map[common.Address]map[common.Hash]common.Hash),
		code:     make(map[common.Address][]byte),
		warmAcct: make(map[common.Address]bool),
		warmSlot: make(map[common.Address]map[common.Hash]bool),
	}
}

func (h *testHost) AccountExists(addr common.Address) bool {
	_, ok := h.balances[addr]
	return ok
}

func (h *testHost) GetStorage(addr common.Address, key common.Hash) common.Hash {
	if m, ok := h.storage[addr]; ok {
		return m[key]
	}
	return common.Hash{}
}

func (h *testHost) SetStorage(addr common.Address, key, value common.Hash) StorageStatus {
	m, ok := h.storage[addr]
	if !ok {
		m = make(map[common.Hash]common.Hash)
		h.storage[addr] = m
	}
	current := m[key]
	m[key] = value
	switch {
	case current == value:
		return StorageUnchanged
	case value == (common.Hash{}):
		return StorageDeleted
	case current == (common.Hash{}):
		return StorageAdded
	default:
		return StorageModified
	}
}

func (h *testHost) GetBalance(addr common.Address) *uint256.Int {
	if b, ok := h.balances[addr]; ok {
		return b
	}
	return new(uint256.Int)
}

func (h *testHost) GetCodeSize(addr common.Address) int { return len(h.code[addr]) }

func (h *testHost) GetCodeHash(addr common.Address) common.Hash {
	return common.BytesToHash([]byte("codehash"))
}

func (h *testHost) CopyCode(addr common.Address, offset uint64, dst []byte) int {
	code := h.code[addr]
	if offset >= uint64(len(code)) {
		return 0
	}
	return copy(dst, code[offset:])
}

func (h *testHost) Selfdestruct(addr, beneficiary common.Address) bool {
	delete(h.balances, addr)
	return true
}

func (h *testHost) Call(msg *Message) CallResult {
	h.lastCallMsg = msg
	return h.nextCallResult
}

func (h *testHost) GetTxContext() TxContext { return h.txCtx }

func (h *testHost) GetBlockContext() BlockContext { return h.blockCtx }

func (h *testHost) GetBlockHash(number uint64) common.Hash { return common.Hash{} }

func (h *testHost) EmitLog(addr common.Address, topics []common.Hash, data []byte) {
	h.logs = append(h.logs, testLog{addr: addr, topics: topics, data: data})
}

func (h *testHost) AccessAccount(addr common.Address) AccessStatus {
	if h.warmAcct[addr] {
		return WarmAccess
	}
	h.warmAcct[addr] = true
	return ColdAccess
}

func (h *testHost) AccessStorage(addr common.Address, key common.Hash) AccessStatus {
	m, ok := h.warmSlot[addr]
	if !ok {
		m = make(map[common.Hash]bool)
		h.warmSlot[addr] = m
	}
	if m[key] {
		return WarmAccess
	}
	m[key] = true
	return ColdAccess
}
