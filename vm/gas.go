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
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// gasFunc computes an opcode's dynamic gas component, on top of its
// constantGas. It runs after memorySize has been priced but before Memory
// is actually grown, so it may still observe the stack in its
// pre-execution state.
type gasFunc func(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error)

// memoryGasCost prices growing Memory to newMemSize bytes, charging only
// the incremental cost over what has already been paid for this frame
// (spec.md: quadratic cost 3w + w^2/512, charged incrementally).
func memoryGasCost(mem *Memory, newMemSize uint64) (uint64, error) {
	if newMemSize == 0 {
		return 0, nil
	}
	if newMemSize > 0xFFFFFFFFE0 {
		return 0, ErrGasUintOverflow
	}
	newMemSizeWords := toWordSize(newMemSize)
	newMemSize = newMemSizeWords * 32

	if newMemSize > uint64(mem.Len()) {
		square := newMemSizeWords * newMemSizeWords
		linCoef := newMemSizeWords * params.MemoryGas
		quadCoef := square / params.QuadCoeffDiv
		newTotalFee := linCoef + quadCoef

		fee := newTotalFee - mem.lastGasCost
		mem.lastGasCost = newTotalFee
		return fee, nil
	}
	return 0, nil
}

func memoryCopierGas(stackSizeIdx int) gasFunc {
	return func(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
		gas, err := memoryGasCost(scope.Memory, memorySize)
		if err != nil {
			return 0, err
		}
		var overflow bool
		words, overflow := toWordSizeChecked(scope.Stack.Back(stackSizeIdx).Uint64())
		if overflow {
			return 0, ErrGasUintOverflow
		}
		if gas, overflow = addUint64(gas, words*params.CopyGas); overflow {
			return 0, ErrGasUintOverflow
		}
		return gas, nil
	}
}

func toWordSizeChecked(size uint64) (uint64, bool) {
	if size > 0xFFFFFFFFE0 {
		return 0, true
	}
	return toWordSize(size), false
}

// addUint64/mulUint64 wrap common/math's overflow-checked helpers, which
// every dynamic gas function in this file uses instead of raw uint64
// arithmetic to avoid silently wrapping on adversarial gas inputs.
func addUint64(a, b uint64) (uint64, bool) {
	return math.SafeAdd(a, b)
}

var (
	gasCallDataCopy     = memoryCopierGas(2)
	gasCodeCopy         = memoryCopierGas(2)
	gasExtCodeCopy      = memoryCopierGas(3)
	gasReturnDataCopy   = memoryCopierGas(2)
)

func gasKeccak256(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(scope.Memory, memorySize)
	if err != nil {
		return 0, err
	}
	words, overflow := toWordSizeChecked(scope.Stack.Back(1).Uint64())
	if overflow {
		return 0, ErrGasUintOverflow
	}
	if gas, overflow = addUint64(gas, words*params.Keccak256WordGas); overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

func gasMCopy(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(scope.Memory, memorySize)
	if err != nil {
		return 0, err
	}
	words, overflow := toWordSizeChecked(scope.Stack.Back(2).Uint64())
	if overflow {
		return 0, ErrGasUintOverflow
	}
	if gas, overflow = addUint64(gas, words*params.CopyGas); overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

// gasSLoad prices SLOAD under Berlin's EIP-2929 access lists: a cold slot
// costs ColdSloadCostEIP2929, a warm one WarmStorageReadCostEIP2929.
func gasSLoad(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	loc := scope.Stack.peek()
	slot := common.Hash(loc.Bytes32())
	if interp.host.AccessStorage(scope.Contract.Address, slot) == ColdAccess {
		return params.ColdSloadCostEIP2929, nil
	}
	return params.WarmStorageReadCostEIP2929, nil
}

// gasSStore prices SSTORE from Istanbul on, with EIP-2200's sentry-gas
// check and cost schedule, and from Berlin on adds EIP-2929's cold/warm
// surcharge. The cost keys only off the slot's current value (read with
// GetStorage) versus the new value; the slot's original (pre-transaction)
// value is not consulted, so a slot already changed earlier in the
// transaction is priced as if its current value were its original one.
// Refunds are applied separately by opSstore from SetStorage's
// StorageStatus (see sstoreRefund).
func gasSStore(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	if scope.Contract.Gas <= params.SstoreSentryGasEIP2200 {
		return 0, ErrOutOfGas
	}
	loc := scope.Stack.Back(0)
	val := scope.Stack.Back(1)
	slot := common.Hash(loc.Bytes32())

	berlin := interp.revision.AtLeast(Berlin)
	var cost uint64
	if berlin && interp.host.AccessStorage(scope.Contract.Address, slot) == ColdAccess {
		cost = params.ColdSloadCostEIP2929
	}

	current := interp.host.GetStorage(scope.Contract.Address, slot)
	newVal := common.Hash(val.Bytes32())
	if current == newVal {
		if !berlin {
			return params.SloadGasEIP2200, nil
		}
		return cost + params.WarmStorageReadCostEIP2929, nil
	}
	// The Host tracks the original (pre-transaction) value internally for
	// refund bookkeeping; here we only need the cost schedule, which keys
	// off current-vs-new and leaves refunds to SetStorage's status.
	if current == (common.Hash{}) {
		return cost + params.SstoreSetGasEIP2200, nil
	}
	if !berlin {
		return params.SstoreResetGasEIP2200, nil
	}
	return cost + (params.SstoreResetGasEIP2200 - params.ColdSloadCostEIP2929), nil
}

// gasSStoreLegacy prices SSTORE under the pre-Istanbul flat schedule: a
// fixed cost keyed only on whether the slot is being set, cleared, or
// rewritten, with no sentry-gas check and no EIP-2929 surcharge.
func gasSStoreLegacy(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	loc := scope.Stack.Back(0)
	val := scope.Stack.Back(1)
	slot := common.Hash(loc.Bytes32())
	current := interp.host.GetStorage(scope.Contract.Address, slot)
	newVal := common.Hash(val.Bytes32())

	switch {
	case current == (common.Hash{}) && newVal != (common.Hash{}):
		return params.SstoreSetGasEIP2200, nil
	case current != (common.Hash{}) && newVal == (common.Hash{}):
		return params.SstoreClearGas, nil
	default:
		return params.SstoreResetGasEIP2200, nil
	}
}

// sstoreRefund converts a StorageStatus returned by Host.SetStorage into
// the EIP-2200 refund delta to apply.
func sstoreRefund(status StorageStatus) uint64 {
	switch status {
	case StorageDeleted:
		return params.SstoreClearsScheduleRefundEIP2200
	case StorageModifiedAgain:
		return 0
	default:
		return 0
	}
}

func makeGasLog(n uint64) gasFunc {
	return func(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
		requestedSize := scope.Stack.Back(1).Uint64()

		gas, err := memoryGasCost(scope.Memory, memorySize)
		if err != nil {
			return 0, err
		}
		var overflow bool
		if gas, overflow = addUint64(gas, params.LogGas); overflow {
			return 0, ErrGasUintOverflow
		}
		if gas, overflow = addUint64(gas, n*params.LogTopicGas); overflow {
			return 0, ErrGasUintOverflow
		}
		var memorySizeGas uint64
		if memorySizeGas, overflow = mulUint64(requestedSize, params.LogDataGas); overflow {
			return 0, ErrGasUintOverflow
		}
		if gas, overflow = addUint64(gas, memorySizeGas); overflow {
			return 0, ErrGasUintOverflow
		}
		return gas, nil
	}
}

func mulUint64(a, b uint64) (uint64, bool) {
	return math.SafeMul(a, b)
}

func gasExpFrontier(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	expByteLen := uint64((scope.Stack.Back(1).BitLen() + 7) / 8)
	gas, overflow := mulUint64(expByteLen, params.ExpByteFrontier)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	if gas, overflow = addUint64(gas, params.ExpGas); overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

func gasExpEIP158(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	expByteLen := uint64((scope.Stack.Back(1).BitLen() + 7) / 8)
	gas, overflow := mulUint64(expByteLen, params.ExpByteEIP158)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	if gas, overflow = addUint64(gas, params.ExpGas); overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

func gasCreate(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	return memoryGasCost(scope.Memory, memorySize)
}

// gasCreateEip3860 additionally prices the EIP-3860 per-word cost of
// init-code, and rejects init-code over MaxInitCodeSize.
func gasCreateEip3860(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	size := scope.Stack.Back(2).Uint64()
	if size > params.MaxInitCodeSize {
		return 0, ErrMaxInitCodeSizeExceeded
	}
	gas, err := memoryGasCost(scope.Memory, memorySize)
	if err != nil {
		return 0, err
	}
	words, overflow := toWordSizeChecked(size)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	if gas, overflow = addUint64(gas, words*params.InitCodeWordGas); overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

func gasCreate2(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(scope.Memory, memorySize)
	if err != nil {
		return 0, err
	}
	words, overflow := toWordSizeChecked(scope.Stack.Back(2).Uint64())
	if overflow {
		return 0, ErrGasUintOverflow
	}
	if gas, overflow = addUint64(gas, words*params.Keccak256WordGas); overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

func gasCreate2Eip3860(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	size := scope.Stack.Back(2).Uint64()
	if size > params.MaxInitCodeSize {
		return 0, ErrMaxInitCodeSizeExceeded
	}
	gas, err := gasCreate2(interp, scope, memorySize)
	if err != nil {
		return 0, err
	}
	words, overflow := toWordSizeChecked(size)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	if gas, overflow = addUint64(gas, words*params.InitCodeWordGas); overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

// addressFromStack reads the operand at idx as an address without popping
// it, for gas functions that price an opcode before it executes.
func addressFromStack(stack *Stack, idx int) common.Address {
	return common.Address(stack.Back(idx).Bytes20())
}

// callAccessGas applies the EIP-2929 cold/warm surcharge to any CALL-family
// opcode's base cost. Before Berlin it adds nothing.
func callAccessGas(interp *EVMInterpreter, addr common.Address) uint64 {
	if !interp.revision.AtLeast(Berlin) {
		return 0
	}
	if interp.host.AccessAccount(addr) == ColdAccess {
		return params.ColdAccountAccessCostEIP2929
	}
	return params.WarmStorageReadCostEIP2929
}

func gasCall(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(scope.Memory, memorySize)
	if err != nil {
		return 0, err
	}
	addr := common.Address(scope.Stack.Back(1).Bytes20())
	var overflow bool
	if gas, overflow = addUint64(gas, callAccessGas(interp, addr)); overflow {
		return 0, ErrGasUintOverflow
	}
	if !scope.Stack.Back(2).IsZero() {
		if gas, overflow = addUint64(gas, params.CallValueTransferGas); overflow {
			return 0, ErrGasUintOverflow
		}
		if !interp.host.AccountExists(addr) {
			if gas, overflow = addUint64(gas, params.CallNewAccountGas); overflow {
				return 0, ErrGasUintOverflow
			}
		}
	}
	return addCallGasTemp(interp, scope, gas)
}

func gasCallCode(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(scope.Memory, memorySize)
	if err != nil {
		return 0, err
	}
	addr := common.Address(scope.Stack.Back(1).Bytes20())
	var overflow bool
	if gas, overflow = addUint64(gas, callAccessGas(interp, addr)); overflow {
		return 0, ErrGasUintOverflow
	}
	if !scope.Stack.Back(2).IsZero() {
		if gas, overflow = addUint64(gas, params.CallValueTransferGas); overflow {
			return 0, ErrGasUintOverflow
		}
	}
	return addCallGasTemp(interp, scope, gas)
}

func gasDelegateCall(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(scope.Memory, memorySize)
	if err != nil {
		return 0, err
	}
	addr := common.Address(scope.Stack.Back(1).Bytes20())
	var overflow bool
	if gas, overflow = addUint64(gas, callAccessGas(interp, addr)); overflow {
		return 0, ErrGasUintOverflow
	}
	return addCallGasTemp(interp, scope, gas)
}

func gasStaticCall(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	return gasDelegateCall(interp, scope, memorySize)
}

// addCallGasTemp computes the gas forwarded to a CALL-family sub-call via
// callGas, stashes it on the interpreter for the opcode function to read
// (the stack's own gas operand is merely a ceiling, not the actual amount:
// see callGas), and folds it into the total dynamic gas charged to the
// caller so the forwarded amount is actually deducted from contract.Gas.
func addCallGasTemp(interp *EVMInterpreter, scope *ScopeContext, gas uint64) (uint64, error) {
	callCost := scope.Stack.Back(0)
	forwarded, err := callGas(interp.revision.AtLeast(TangerineWhistle), scope.Contract.Gas, gas, callCost)
	if err != nil {
		return 0, err
	}
	interp.callGasTemp = forwarded
	total, overflow := addUint64(gas, forwarded)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return total, nil
}

// callGas computes the gas actually forwarded to a CALL-family sub-call,
// applying the EIP-150 63/64 rule: at most 63/64 of the gas remaining after
// base is charged, capped by whatever the stack itself requested.
func callGas(isEip150 bool, availableGas, base uint64, callCost *uint256.Int) (uint64, error) {
	if isEip150 {
		if availableGas < base {
			return 0, nil
		}
		availableGas -= base
		gas := availableGas - availableGas/64
		if !callCost.IsUint64() || gas < callCost.Uint64() {
			return gas, nil
		}
	}
	if !callCost.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	return callCost.Uint64(), nil
}

func gasSelfdestruct(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	var gas uint64
	beneficiary := common.Address(scope.Stack.Back(0).Bytes20())
	if interp.revision.AtLeast(TangerineWhistle) {
		if interp.revision.AtLeast(SpuriousDragon) {
			if interp.host.GetBalance(scope.Contract.Address).Sign() != 0 && !interp.host.AccountExists(beneficiary) {
				gas += params.CreateBySelfdestructGas
			}
		} else if !interp.host.AccountExists(beneficiary) {
			gas += params.CreateBySelfdestructGas
		}
		gas += params.SelfdestructGasEIP150
	}
	if interp.revision.AtLeast(Berlin) {
		if interp.host.AccessAccount(beneficiary) == ColdAccess {
			gas += params.ColdAccountAccessCostEIP2929
		}
	}
	return gas, nil
}
