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
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func newScope() (*Stack, *Memory, *Contract, *ScopeContext) {
	st := newstack()
	mem := NewMemory()
	c := GetContract(common.Address{}, common.Address{}, new(uint256.Int), 1_000_000, nil, false)
	return st, mem, c, &ScopeContext{Stack: st, Memory: mem, Contract: c}
}

func TestOpAdd(t *testing.T) {
	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)

	st.push(uint256.NewInt(1))
	st.push(uint256.NewInt(2))
	_, err := opAdd(new(uint64), nil, scope)
	require.NoError(t, err)
	got := st.pop()
	require.Equal(t, uint64(3), got.Uint64())
}

func TestOpDivByZero(t *testing.T) {
	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)

	st.push(uint256.NewInt(0))
	st.push(uint256.NewInt(10))
	_, err := opDiv(new(uint64), nil, scope)
	require.NoError(t, err)
	got := st.pop()
	require.True(t, got.IsZero())
}

func TestOpSignExtend(t *testing.T) {
	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)

	// signextend(0, 0xff) == all-ones (sign bit of the low byte was set).
	st.push(uint256.NewInt(0xff))
	st.push(uint256.NewInt(0))
	_, err := opSignExtend(new(uint64), nil, scope)
	require.NoError(t, err)
	got := st.pop()
	want := new(uint256.Int).Not(uint256.NewInt(0))
	require.True(t, got.Eq(want))
}

func TestOpShlShr(t *testing.T) {
	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)

	st.push(uint256.NewInt(1))
	st.push(uint256.NewInt(4))
	_, err := opShl(new(uint64), nil, scope)
	require.NoError(t, err)
	got := st.pop()
	require.Equal(t, uint64(16), got.Uint64())

	st.push(uint256.NewInt(16))
	st.push(uint256.NewInt(4))
	_, err = opShr(new(uint64), nil, scope)
	require.NoError(t, err)
	got = st.pop()
	require.Equal(t, uint64(1), got.Uint64())
}

func TestOpByteLSB(t *testing.T) {
	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)

	var val uint256.Int
	val.SetBytes([]byte{0xAB})
	st.push(&val)
	st.push(uint256.NewInt(31)) // least-significant byte index
	_, err := opByte(new(uint64), nil, scope)
	require.NoError(t, err)
	got := st.pop()
	require.Equal(t, uint64(0xAB), got.Uint64())
}

func TestMakePushReadsImmediate(t *testing.T) {
	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)

	c.code = []byte{0x60, 0x2a} // PUSH1 42
	pc := uint64(0)
	push1 := makePush(2, 1)
	_, err := push1(&pc, nil, scope)
	require.NoError(t, err)
	got := st.pop()
	require.Equal(t, uint64(42), got.Uint64())
	require.Equal(t, uint64(2), pc)
}

func TestMakePushPastEndOfCodeZeroPads(t *testing.T) {
	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)

	c.code = []byte{0x7f} // PUSH32 with no immediate bytes at all
	pc := uint64(0)
	push32 := makePush(33, 32)
	_, err := push32(&pc, nil, scope)
	require.NoError(t, err)
	got := st.pop()
	require.True(t, got.IsZero())
}

func TestOpJumpRejectsInvalidDestination(t *testing.T) {
	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)

	c.code = []byte{0x00}
	c.jumpdest = newJumpdestMap(c.code)
	st.push(uint256.NewInt(5))
	pc := uint64(0)
	_, err := opJump(&pc, nil, scope)
	require.ErrorIs(t, err, ErrInvalidJump)
}

func TestGetDataZeroPadsPastEnd(t *testing.T) {
	got := getData([]byte{1, 2, 3}, 1, 5)
	require.Equal(t, []byte{2, 3, 0, 0, 0}, got)
}

func TestGetDataOffsetPastEnd(t *testing.T) {
	got := getData([]byte{1, 2, 3}, 10, 4)
	require.Equal(t, []byte{0, 0, 0, 0}, got)
}

func TestMakePushPastEndOfCodeLeftAlignsAvailableBytes(t *testing.T) {
	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)

	// PUSH32 with only 2 immediate bytes (0xAB, 0xCD) available before the
	// code ends: they must land in the two highest-order bytes of the
	// pushed word, not the two lowest.
	c.code = []byte{0x7f, 0xAB, 0xCD}
	pc := uint64(0)
	push32 := makePush(33, 32)
	_, err := push32(&pc, nil, scope)
	require.NoError(t, err)
	got := st.pop()
	want := new(uint256.Int).Lsh(uint256.NewInt(0xABCD), 240) // top 2 of 32 bytes
	require.True(t, got.Eq(want))
}

func TestOpCallForwardsCallGasTempWithStipend(t *testing.T) {
	host := newTestHost()
	host.nextCallResult = CallResult{Status: Success, GasLeft: 1_000}
	interp := &EVMInterpreter{host: host, revision: Cancun}

	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)
	c.Gas = 50_000
	interp.callGasTemp = 5_000

	// Stack order (bottom to top, so top is popped first): retSize,
	// retOffset, argsSize, argsOffset, value, addr, gas.
	st.push(uint256.NewInt(0))           // retSize
	st.push(uint256.NewInt(0))           // retOffset
	st.push(uint256.NewInt(0))           // argsSize
	st.push(uint256.NewInt(0))           // argsOffset
	st.push(uint256.NewInt(1))           // value (nonzero -> stipend applies)
	st.push(uint256.NewInt(0xCAFE))      // addr
	st.push(uint256.NewInt(999_999_999)) // gas stack arg, must be ignored

	pc := uint64(0)
	_, err := opCallCommon(&pc, interp, scope, CallKindCall)
	require.NoError(t, err)

	require.NotNil(t, host.lastCallMsg)
	require.Equal(t, interp.callGasTemp+params.CallStipend, host.lastCallMsg.Gas)
	require.Equal(t, uint64(1_000), c.Gas-50_000) // GasLeft credited back
	got := st.pop()
	require.Equal(t, uint64(1), got.Uint64()) // success flag
}

func TestOpStaticCallHasNoStipendAndIsReadOnly(t *testing.T) {
	host := newTestHost()
	host.nextCallResult = CallResult{Status: Success}
	interp := &EVMInterpreter{host: host, revision: Cancun}

	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)
	interp.callGasTemp = 2_500

	st.push(uint256.NewInt(0))           // retSize
	st.push(uint256.NewInt(0))           // retOffset
	st.push(uint256.NewInt(0))           // argsSize
	st.push(uint256.NewInt(0))           // argsOffset
	st.push(uint256.NewInt(0xCAFE))      // addr
	st.push(uint256.NewInt(999_999_999)) // gas stack arg

	pc := uint64(0)
	_, err := opCallCommon(&pc, interp, scope, CallKindStaticCall)
	require.NoError(t, err)

	require.Equal(t, interp.callGasTemp, host.lastCallMsg.Gas)
	require.True(t, host.lastCallMsg.Static)
}

func TestOpDelegateCallUsesCallerAndContractValue(t *testing.T) {
	host := newTestHost()
	host.nextCallResult = CallResult{Status: Success}
	interp := &EVMInterpreter{host: host, revision: Cancun}

	caller := common.HexToAddress("0x1")
	self := common.HexToAddress("0x2")
	st := newstack()
	defer returnStack(st)
	mem := NewMemory()
	defer mem.Free()
	c := GetContract(caller, self, uint256.NewInt(7), 1_000_000, nil, false)
	defer ReturnContract(c)
	scope := &ScopeContext{Stack: st, Memory: mem, Contract: c}
	interp.callGasTemp = 1_000

	st.push(uint256.NewInt(0))           // retSize
	st.push(uint256.NewInt(0))           // retOffset
	st.push(uint256.NewInt(0))           // argsSize
	st.push(uint256.NewInt(0))           // argsOffset
	st.push(uint256.NewInt(0xCAFE))      // addr
	st.push(uint256.NewInt(999_999_999)) // gas stack arg

	pc := uint64(0)
	_, err := opCallCommon(&pc, interp, scope, CallKindDelegateCall)
	require.NoError(t, err)

	require.Equal(t, interp.callGasTemp, host.lastCallMsg.Gas) // no stipend
	require.Equal(t, caller, host.lastCallMsg.Sender)
	require.Equal(t, self, host.lastCallMsg.Recipient)
	require.Equal(t, uint64(7), host.lastCallMsg.Value.Uint64())
}

func TestOpCreateForwardsAllRemainingGas(t *testing.T) {
	created := common.HexToAddress("0xD00D")
	host := newTestHost()
	host.nextCallResult = CallResult{Status: Success, CreateAddress: created}
	interp := &EVMInterpreter{host: host, revision: Cancun}

	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)
	c.Gas = 80_000

	st.push(uint256.NewInt(0)) // size
	st.push(uint256.NewInt(0)) // offset
	st.push(uint256.NewInt(0)) // value

	pc := uint64(0)
	_, err := opCreateCommon(&pc, interp, scope, CallKindCreate)
	require.NoError(t, err)

	require.Equal(t, uint64(80_000), host.lastCallMsg.Gas)
	require.Equal(t, uint64(0), c.Gas)
	got := st.pop()
	gotAddr := got.Bytes20()
	require.Equal(t, created, common.Address(gotAddr))
}

func TestOpSelfdestructRefundsOnlyBeforeLondon(t *testing.T) {
	host := newTestHost()
	interp := &EVMInterpreter{host: host, revision: Istanbul}

	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)

	st.push(uint256.NewInt(0xBEEF))
	pc := uint64(0)
	_, err := opSelfdestruct(&pc, interp, scope)
	require.ErrorIs(t, err, errStopToken)
	require.Equal(t, uint64(params_SelfdestructRefundGas), interp.gasRefund)

	interp.revision = London
	interp.gasRefund = 0
	host2 := newTestHost()
	interp.host = host2
	st.push(uint256.NewInt(0xBEEF))
	_, err = opSelfdestruct(&pc, interp, scope)
	require.ErrorIs(t, err, errStopToken)
	require.Equal(t, uint64(0), interp.gasRefund)
}

func TestMakeLogEmitsToHost(t *testing.T) {
	host := newTestHost()
	interp := &EVMInterpreter{host: host, revision: Cancun}

	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)

	mem.Resize(32)
	mem.Set(0, 4, []byte{1, 2, 3, 4})
	st.push(uint256.NewInt(0xAAAA)) // topic0
	st.push(uint256.NewInt(4))      // size
	st.push(uint256.NewInt(0))      // offset

	log1 := makeLog(1)
	pc := uint64(0)
	_, err := log1(&pc, interp, scope)
	require.NoError(t, err)

	require.Len(t, host.logs, 1)
	require.Equal(t, []byte{1, 2, 3, 4}, host.logs[0].data)
	require.Len(t, host.logs[0].topics, 1)
}
