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

// Package vm implements a baseline EVM interpreter: no intermediate
// representation, no superinstruction fusion, a single linear pre-scan for
// JUMPDEST validity, and a dense per-opcode dispatch table. The interpreter
// never touches world state directly; every side effect crosses the Host
// boundary defined in this file, modeled on evmc's host interface.
package vm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// CallKind identifies the flavor of a sub-message, mirroring CALL/CALLCODE/
// DELEGATECALL/STATICCALL/CREATE/CREATE2.
type CallKind int

const (
	CallKindCall CallKind = iota
	CallKindDelegateCall
	CallKindCallCode
	CallKindStaticCall
	CallKindCreate
	CallKindCreate2
)

// StorageStatus classifies the effect an SSTORE had on a storage slot,
// which sstoreRefund (gas.go) maps to the SSTORE refund. The SSTORE gas
// cost is computed before the write and does not depend on it.
type StorageStatus int

const (
	StorageUnchanged StorageStatus = iota
	StorageModified
	StorageModifiedAgain
	StorageAdded
	StorageDeleted
)

// AccessStatus reports whether an address or storage slot was already in
// the EIP-2929 access list before the current access, i.e. whether the
// access is "cold" (first touch this transaction, pays the higher price)
// or "warm".
type AccessStatus int

const (
	ColdAccess AccessStatus = iota
	WarmAccess
)

// BlockContext carries the block-scoped values exposed to BLOCKHASH,
// COINBASE, TIMESTAMP, NUMBER, DIFFICULTY/PREVRANDAO, GASLIMIT, BASEFEE,
// and BLOBBASEFEE. It does not change across calls within one block.
type BlockContext struct {
	Coinbase    common.Address
	GasLimit    uint64
	BlockNumber *big.Int
	Time        uint64
	Difficulty  *big.Int // pre-Merge PoW difficulty
	Random      *common.Hash // post-Merge PREVRANDAO, nil pre-Merge
	BaseFee     *big.Int     // nil pre-London
	BlobBaseFee *big.Int     // nil pre-Cancun
}

// TxContext carries the transaction-scoped values exposed to ORIGIN,
// GASPRICE, and BLOBHASH.
type TxContext struct {
	Origin     common.Address
	GasPrice   *big.Int
	BlobHashes []common.Hash
	BlobFeeCap *big.Int
}

// Message describes one call frame's inputs: the data a CALL/CREATE family
// opcode, or the top-level transaction, hands to the callee.
type Message struct {
	Kind          CallKind
	Sender        common.Address
	Recipient     common.Address // ignored for CallKindCreate/CallKindCreate2
	Value         *uint256.Int
	Input         []byte
	Gas           uint64
	Depth         int
	Static        bool // true under STATICCALL or an ancestor's static flag
	Salt          *uint256.Int // CallKindCreate2 only
	CodeAddress   common.Address // code executed; differs from Recipient under DELEGATECALL/CALLCODE
}

// CallResult is what a Host.Call returns to the opcode that invoked it.
type CallResult struct {
	Status       StatusCode
	GasLeft      uint64
	GasRefund    uint64
	Output       []byte
	CreateAddress common.Address // CallKindCreate/CallKindCreate2 only
}

// Host is the complete set of capabilities the interpreter core needs from
// the surrounding world-state/client, matching the host capability table:
// account existence and balance, storage reads/writes and their EIP-2929
// warm/cold status, code retrieval, sub-calls, log emission, and the
// ambient block/transaction context. The interpreter never reaches around
// this interface into any concrete state implementation.
type Host interface {
	// AccountExists reports whether addr has a non-empty EIP-161 account
	// (nonzero nonce, code, or balance).
	AccountExists(addr common.Address) bool

	// GetStorage returns the current value of a storage slot.
	GetStorage(addr common.Address, key common.Hash) common.Hash

	// SetStorage writes value to a storage slot and reports the transition
	// so the interpreter can apply the SSTORE refund.
	SetStorage(addr common.Address, key, value common.Hash) StorageStatus

	// GetBalance returns addr's current balance.
	GetBalance(addr common.Address) *uint256.Int

	// GetCodeSize returns the length of addr's code.
	GetCodeSize(addr common.Address) int

	// GetCodeHash returns the keccak256 hash of addr's code, or the empty
	// hash if addr does not exist.
	GetCodeHash(addr common.Address) common.Hash

	// CopyCode copies min(len(code)-offset, len(dst)) bytes of addr's code
	// starting at offset into dst, zero-padding any remainder, and returns
	// the number of bytes copied.
	CopyCode(addr common.Address, offset uint64, dst []byte) int

	// Selfdestruct records that addr is to be destroyed at the end of the
	// transaction, sending its balance to beneficiary. Returns whether this
	// is the first SELFDESTRUCT for addr this transaction (for gas/refund
	// purposes).
	Selfdestruct(addr, beneficiary common.Address) bool

	// Call dispatches a sub-message (CALL/CALLCODE/DELEGATECALL/
	// STATICCALL/CREATE/CREATE2) and runs it to completion.
	Call(msg *Message) CallResult

	// GetTxContext returns the active transaction context.
	GetTxContext() TxContext

	// GetBlockContext returns the active block context.
	GetBlockContext() BlockContext

	// GetBlockHash returns the hash of the ancestor block at number, or
	// the zero hash if number is out of the last-256-blocks window.
	GetBlockHash(number uint64) common.Hash

	// EmitLog appends a LOG0..LOG4 record for the executing contract.
	EmitLog(addr common.Address, topics []common.Hash, data []byte)

	// AccessAccount marks addr as touched for EIP-2929 purposes and
	// reports whether it was already warm before this call.
	AccessAccount(addr common.Address) AccessStatus

	// AccessStorage marks a storage slot as touched for EIP-2929 purposes
	// and reports whether it was already warm before this call.
	AccessStorage(addr common.Address, key common.Hash) AccessStatus
}
