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
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// executionFunc is the semantic body of a single opcode: given the
// program counter, the running interpreter, and the active scope, it
// mutates stack/memory/contract state in place and optionally returns
// output bytes (RETURN/REVERT) or a halting error.
type executionFunc func(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error)

func opAdd(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop2()
	y.Add(&x, &y)
	scope.Stack.push(&y)
	return nil, nil
}

func opSub(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop2()
	y.Sub(&x, &y)
	scope.Stack.push(&y)
	return nil, nil
}

func opMul(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop2()
	y.Mul(&x, &y)
	scope.Stack.push(&y)
	return nil, nil
}

func opDiv(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop2()
	y.Div(&x, &y)
	scope.Stack.push(&y)
	return nil, nil
}

func opSdiv(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop2()
	y.SDiv(&x, &y)
	scope.Stack.push(&y)
	return nil, nil
}

func opMod(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop2()
	y.Mod(&x, &y)
	scope.Stack.push(&y)
	return nil, nil
}

func opSmod(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop2()
	y.SMod(&x, &y)
	scope.Stack.push(&y)
	return nil, nil
}

func opExp(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	base, exponent := scope.Stack.pop2()
	exponent.Exp(&base, &exponent)
	scope.Stack.push(&exponent)
	return nil, nil
}

func opSignExtend(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	back, num := scope.Stack.pop2()
	num.ExtendSign(&num, &back)
	scope.Stack.push(&num)
	return nil, nil
}

func opAddmod(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.pop()
	y := scope.Stack.pop()
	z := scope.Stack.peek()
	if z.IsZero() {
		z.Clear()
	} else {
		z.AddMod(&x, &y, z)
	}
	return nil, nil
}

func opMulmod(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.pop()
	y := scope.Stack.pop()
	z := scope.Stack.peek()
	z.MulMod(&x, &y, z)
	return nil, nil
}

func opLt(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop2()
	if x.Lt(&y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	scope.Stack.push(&y)
	return nil, nil
}

func opGt(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop2()
	if x.Gt(&y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	scope.Stack.push(&y)
	return nil, nil
}

func opSlt(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop2()
	if x.Slt(&y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	scope.Stack.push(&y)
	return nil, nil
}

func opSgt(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop2()
	if x.Sgt(&y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	scope.Stack.push(&y)
	return nil, nil
}

func opEq(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop2()
	if x.Eq(&y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	scope.Stack.push(&y)
	return nil, nil
}

func opIszero(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, nil
}

func opAnd(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop2()
	y.And(&x, &y)
	scope.Stack.push(&y)
	return nil, nil
}

func opOr(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop2()
	y.Or(&x, &y)
	scope.Stack.push(&y)
	return nil, nil
}

func opXor(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.pop2()
	y.Xor(&x, &y)
	scope.Stack.push(&y)
	return nil, nil
}

func opNot(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.peek()
	x.Not(x)
	return nil, nil
}

func opByte(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	th, val := scope.Stack.pop2()
	val.Byte(&th)
	scope.Stack.push(&val)
	return nil, nil
}

func opShl(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	shift, value := scope.Stack.pop2()
	if shift.LtUint64(256) {
		value.Lsh(&value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	scope.Stack.push(&value)
	return nil, nil
}

func opShr(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	shift, value := scope.Stack.pop2()
	if shift.LtUint64(256) {
		value.Rsh(&value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	scope.Stack.push(&value)
	return nil, nil
}

func opSar(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	shift, value := scope.Stack.pop2()
	if shift.GtUint64(255) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			value.SetAllOne()
		}
		scope.Stack.push(&value)
		return nil, nil
	}
	n := uint(shift.Uint64())
	value.SRsh(&value, n)
	scope.Stack.push(&value)
	return nil, nil
}

func opKeccak256(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.pop2()
	data := scope.Memory.GetPtr(offset.Uint64(), size.Uint64())
	hash := crypto.Keccak256(data)
	var result uint256.Int
	result.SetBytes(hash)
	scope.Stack.push(&result)
	return nil, nil
}

func opAddress(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetBytes(scope.Contract.Address.Bytes())
	scope.Stack.push(&v)
	return nil, nil
}

func opBalance(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.peek()
	addr := common.Address(slot.Bytes20())
	slot.Set(interp.host.GetBalance(addr))
	return nil, nil
}

func opOrigin(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetBytes(interp.host.GetTxContext().Origin.Bytes())
	scope.Stack.push(&v)
	return nil, nil
}

func opCaller(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetBytes(scope.Contract.CallerAddress.Bytes())
	scope.Stack.push(&v)
	return nil, nil
}

func opCallValue(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := scope.Contract.Value()
	var cp uint256.Int
	cp.Set(v)
	scope.Stack.push(&cp)
	return nil, nil
}

func opCallDataLoad(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.peek()
	if offset, overflow := x.Uint64WithOverflow(); !overflow {
		data := getData(scope.Contract.Input, offset, 32)
		x.SetBytes(data)
	} else {
		x.Clear()
	}
	return nil, nil
}

func opCallDataSize(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetUint64(uint64(len(scope.Contract.Input)))
	scope.Stack.push(&v)
	return nil, nil
}

func opCallDataCopy(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	memOffset, dataOffset, length := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	dataOffset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		dataOffset64 = 0xffffffffffffffff
	}
	data := getData(scope.Contract.Input, dataOffset64, length.Uint64())
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opCodeSize(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetUint64(uint64(scope.Contract.CodeSize()))
	scope.Stack.push(&v)
	return nil, nil
}

func opCodeCopy(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	memOffset, codeOffset, length := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	codeOffset64, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		codeOffset64 = 0xffffffffffffffff
	}
	data := getData(scope.Contract.Code(), codeOffset64, length.Uint64())
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opGasprice(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetFromBig(interp.host.GetTxContext().GasPrice)
	scope.Stack.push(&v)
	return nil, nil
}

func opExtCodeSize(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.peek()
	addr := common.Address(slot.Bytes20())
	slot.SetUint64(uint64(interp.host.GetCodeSize(addr)))
	return nil, nil
}

func opExtCodeCopy(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	addrInt, memOffset, codeOffset, length := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	addr := common.Address(addrInt.Bytes20())
	codeOffset64, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		codeOffset64 = 0xffffffffffffffff
	}
	dst := make([]byte, length.Uint64())
	interp.host.CopyCode(addr, codeOffset64, dst)
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), dst)
	return nil, nil
}

func opReturnDataSize(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetUint64(uint64(len(interp.returnData)))
	scope.Stack.push(&v)
	return nil, nil
}

func opReturnDataCopy(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	memOffset, dataOffset, length := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	offset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		return nil, ErrReturnDataOutOfBounds
	}
	end := new(uint256.Int).Add(&dataOffset, &length)
	end64, overflow := end.Uint64WithOverflow()
	if overflow || uint64(len(interp.returnData)) < end64 {
		return nil, ErrReturnDataOutOfBounds
	}
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), interp.returnData[offset64:end64])
	return nil, nil
}

func opExtCodeHash(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.peek()
	addr := common.Address(slot.Bytes20())
	if !interp.host.AccountExists(addr) {
		slot.Clear()
		return nil, nil
	}
	slot.SetBytes(interp.host.GetCodeHash(addr).Bytes())
	return nil, nil
}

func opBlockhash(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	num := scope.Stack.peek()
	num64, overflow := num.Uint64WithOverflow()
	if overflow {
		num.Clear()
		return nil, nil
	}
	num.SetBytes(interp.host.GetBlockHash(num64).Bytes())
	return nil, nil
}

func opCoinbase(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetBytes(interp.host.GetBlockContext().Coinbase.Bytes())
	scope.Stack.push(&v)
	return nil, nil
}

func opTimestamp(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetUint64(interp.host.GetBlockContext().Time)
	scope.Stack.push(&v)
	return nil, nil
}

func opNumber(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetFromBig(interp.host.GetBlockContext().BlockNumber)
	scope.Stack.push(&v)
	return nil, nil
}

func opDifficulty(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	bc := interp.host.GetBlockContext()
	if interp.revision.AtLeast(Merge) && bc.Random != nil {
		v.SetBytes(bc.Random.Bytes())
	} else {
		v.SetFromBig(bc.Difficulty)
	}
	scope.Stack.push(&v)
	return nil, nil
}

func opGasLimit(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetUint64(interp.host.GetBlockContext().GasLimit)
	scope.Stack.push(&v)
	return nil, nil
}

func opChainID(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.Set(interp.chainID)
	scope.Stack.push(&v)
	return nil, nil
}

func opSelfBalance(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.Set(interp.host.GetBalance(scope.Contract.Address))
	scope.Stack.push(&v)
	return nil, nil
}

func opBaseFee(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetFromBig(interp.host.GetBlockContext().BaseFee)
	scope.Stack.push(&v)
	return nil, nil
}

func opBlobHash(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	idx := scope.Stack.peek()
	hashes := interp.host.GetTxContext().BlobHashes
	if idx.LtUint64(uint64(len(hashes))) {
		idx.SetBytes(hashes[idx.Uint64()].Bytes())
	} else {
		idx.Clear()
	}
	return nil, nil
}

func opBlobBaseFee(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetFromBig(interp.host.GetBlockContext().BlobBaseFee)
	scope.Stack.push(&v)
	return nil, nil
}

func opPop(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.pop()
	return nil, nil
}

func opMload(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := scope.Stack.peek()
	offset := v.Uint64()
	v.SetBytes(scope.Memory.GetPtr(offset, 32))
	return nil, nil
}

func opMstore(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	mStart, val := scope.Stack.pop2()
	scope.Memory.Set32(mStart.Uint64(), &val)
	return nil, nil
}

func opMstore8(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	off, val := scope.Stack.pop2()
	scope.Memory.store[off.Uint64()] = byte(val.Uint64())
	return nil, nil
}

func opMcopy(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	dst, src, length := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	scope.Memory.Copy(dst.Uint64(), src.Uint64(), length.Uint64())
	return nil, nil
}

func opSload(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	loc := scope.Stack.peek()
	hash := common.Hash(loc.Bytes32())
	val := interp.host.GetStorage(scope.Contract.Address, hash)
	loc.SetBytes(val.Bytes())
	return nil, nil
}

func opSstore(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	if scope.Contract.IsStatic {
		return nil, ErrWriteProtection
	}
	loc, val := scope.Stack.pop2()
	status := interp.host.SetStorage(scope.Contract.Address, common.Hash(loc.Bytes32()), common.Hash(val.Bytes32()))
	interp.gasRefund += sstoreRefund(status)
	return nil, nil
}

func opTload(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	loc := scope.Stack.peek()
	hash := common.Hash(loc.Bytes32())
	val := interp.host.GetStorage(scope.Contract.Address, hash)
	loc.SetBytes(val.Bytes())
	return nil, nil
}

func opTstore(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	if scope.Contract.IsStatic {
		return nil, ErrWriteProtection
	}
	loc, val := scope.Stack.pop2()
	interp.host.SetStorage(scope.Contract.Address, common.Hash(loc.Bytes32()), common.Hash(val.Bytes32()))
	return nil, nil
}

func opJump(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	pos := scope.Stack.pop()
	if !scope.Contract.validJumpdest(&pos) {
		return nil, ErrInvalidJump
	}
	*pc = pos.Uint64()
	return nil, nil
}

func opJumpi(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	pos, cond := scope.Stack.pop2()
	if !cond.IsZero() {
		if !scope.Contract.validJumpdest(&pos) {
			return nil, ErrInvalidJump
		}
		*pc = pos.Uint64()
	} else {
		*pc++
	}
	return nil, nil
}

func opJumpdest(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return nil, nil
}

func opPc(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetUint64(*pc)
	scope.Stack.push(&v)
	return nil, nil
}

func opMsize(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetUint64(uint64(scope.Memory.Len()))
	scope.Stack.push(&v)
	return nil, nil
}

func opGas(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	v.SetUint64(scope.Contract.Gas)
	scope.Stack.push(&v)
	return nil, nil
}

func opCreate(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return opCreateCommon(pc, interp, scope, CallKindCreate)
}

func opCreate2(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return opCreateCommon(pc, interp, scope, CallKindCreate2)
}

func opCreateCommon(pc *uint64, interp *EVMInterpreter, scope *ScopeContext, kind CallKind) ([]byte, error) {
	if scope.Contract.IsStatic {
		return nil, ErrWriteProtection
	}
	value := scope.Stack.pop()
	offset, size := scope.Stack.pop(), scope.Stack.pop()
	var salt *uint256.Int
	if kind == CallKindCreate2 {
		s := scope.Stack.pop()
		salt = &s
	}
	input := scope.Memory.GetCopy(offset.Uint64(), size.Uint64())

	msg := &Message{
		Kind:   kind,
		Sender: scope.Contract.Address,
		Value:  &value,
		Input:  input,
		Gas:    scope.Contract.Gas,
		Depth:  interp.depth + 1,
		Static: scope.Contract.IsStatic,
		Salt:   salt,
	}
	scope.Contract.UseGas(scope.Contract.Gas)
	result := interp.host.Call(msg)
	scope.Contract.Gas += result.GasLeft
	interp.gasRefund += result.GasRefund

	var ret uint256.Int
	if result.Status == Success {
		ret.SetBytes(result.CreateAddress.Bytes())
	}
	scope.Stack.push(&ret)
	if result.Status == Revert {
		interp.returnData = result.Output
		return result.Output, nil
	}
	interp.returnData = nil
	return nil, nil
}

func opCall(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return opCallCommon(pc, interp, scope, CallKindCall)
}

func opCallCode(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return opCallCommon(pc, interp, scope, CallKindCallCode)
}

func opDelegateCall(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return opCallCommon(pc, interp, scope, CallKindDelegateCall)
}

func opStaticCall(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return opCallCommon(pc, interp, scope, CallKindStaticCall)
}

func opCallCommon(pc *uint64, interp *EVMInterpreter, scope *ScopeContext, kind CallKind) ([]byte, error) {
	// The gas operand was already read (without popping) by the dynamic-gas
	// function to compute interp.callGasTemp under the 63/64 rule; pop it
	// here only to keep the stack in sync.
	scope.Stack.pop()
	addrInt := scope.Stack.pop()
	addr := common.Address(addrInt.Bytes20())

	var value uint256.Int
	if kind == CallKindCall || kind == CallKindCallCode {
		value = scope.Stack.pop()
	}
	if kind == CallKindCall && scope.Contract.IsStatic && !value.IsZero() {
		return nil, ErrWriteProtection
	}

	inOffset, inSize := scope.Stack.pop(), scope.Stack.pop()
	retOffset, retSize := scope.Stack.pop(), scope.Stack.pop()

	input := scope.Memory.GetCopy(inOffset.Uint64(), inSize.Uint64())

	static := scope.Contract.IsStatic || kind == CallKindStaticCall
	sender := scope.Contract.Address
	if kind == CallKindDelegateCall {
		sender = scope.Contract.CallerAddress
	}

	// callGasTemp was already charged against scope.Contract.Gas as part of
	// this opcode's dynamic gas (see addCallGasTemp in gas.go); the stipend
	// is additional gas handed to the callee at no cost to the caller.
	gas := interp.callGasTemp
	if (kind == CallKindCall || kind == CallKindCallCode) && !value.IsZero() {
		gas += params.CallStipend
	}

	msg := &Message{
		Kind:        kind,
		Sender:      sender,
		Recipient:   addr,
		CodeAddress: addr,
		Value:       &value,
		Input:       input,
		Gas:         gas,
		Depth:       interp.depth + 1,
		Static:      static,
	}
	if kind == CallKindDelegateCall {
		msg.Recipient = scope.Contract.Address
		msg.Value = scope.Contract.Value()
	}

	result := interp.host.Call(msg)
	scope.Contract.Gas += result.GasLeft
	interp.gasRefund += result.GasRefund
	interp.returnData = result.Output

	scope.Memory.Set(retOffset.Uint64(), minUint64(retSize.Uint64(), uint64(len(result.Output))), result.Output)

	var success uint256.Int
	if result.Status == Success {
		success.SetOne()
	}
	scope.Stack.push(&success)
	return nil, nil
}

func minUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func opReturn(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.pop2()
	ret := scope.Memory.GetCopy(offset.Uint64(), size.Uint64())
	return ret, errStopToken
}

func opRevert(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.pop2()
	ret := scope.Memory.GetCopy(offset.Uint64(), size.Uint64())
	return ret, ErrExecutionReverted
}

func opStop(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return nil, errStopToken
}

func opInvalid(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return nil, ErrInvalidInstruction
}

func opUndefined(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return nil, &ErrInvalidOpCode{opcode: OpCode(scope.Contract.GetOp(*pc))}
}

func opSelfdestruct(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	if scope.Contract.IsStatic {
		return nil, ErrWriteProtection
	}
	beneficiary := scope.Stack.pop()
	first := interp.host.Selfdestruct(scope.Contract.Address, common.Address(beneficiary.Bytes20()))
	if first && !interp.revision.AtLeast(London) {
		interp.gasRefund += params_SelfdestructRefundGas
	}
	return nil, errStopToken
}

// params_SelfdestructRefundGas is the pre-EIP-3529 (London) SELFDESTRUCT
// refund. Not exposed by params after London removed it, so it is kept
// locally for the older revisions that still grant it.
const params_SelfdestructRefundGas = 24000

func makeLog(size int) executionFunc {
	return func(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
		if scope.Contract.IsStatic {
			return nil, ErrWriteProtection
		}
		topics := make([]common.Hash, size)
		mStart, mSize := scope.Stack.pop(), scope.Stack.pop()
		for i := 0; i < size; i++ {
			addr := scope.Stack.pop()
			topics[i] = common.Hash(addr.Bytes32())
		}
		data := scope.Memory.GetCopy(mStart.Uint64(), mSize.Uint64())
		interp.host.EmitLog(scope.Contract.Address, topics, data)
		return nil, nil
	}
}

func opPush0(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	scope.Stack.push(&v)
	return nil, nil
}

func makePush(size uint64, pushByteSize int) executionFunc {
	return func(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
		codeLen := len(scope.Contract.Code())
		startMin := codeLen
		if int(*pc+1) < startMin {
			startMin = int(*pc + 1)
		}
		endMin := codeLen
		if startMin+pushByteSize < endMin {
			endMin = startMin + pushByteSize
		}
		var v uint256.Int
		v.SetBytes(common.RightPadBytes(scope.Contract.Code()[startMin:endMin], pushByteSize))
		scope.Stack.push(&v)
		*pc += size
		return nil, nil
	}
}

func makeDup(n int64) executionFunc {
	return func(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
		scope.Stack.dup(int(n))
		return nil, nil
	}
}

func makeSwap(n int64) executionFunc {
	return func(pc *uint64, interp *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
		scope.Stack.swap(int(n))
		return nil, nil
	}
}

// getData returns len bytes of data starting at offset, zero-padding any
// portion past the end of data. It never panics on out-of-range offsets.
func getData(data []byte, offset, size uint64) []byte {
	if offset > uint64(len(data)) {
		offset = uint64(len(data))
	}
	end := offset + size
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	result := make([]byte, size)
	copy(result, data[offset:end])
	return result
}
