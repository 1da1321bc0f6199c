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
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestMemoryGasCostQuadratic(t *testing.T) {
	m := NewMemory()
	defer m.Free()

	cost1, err := memoryGasCost(m, 32)
	require.NoError(t, err)
	require.Equal(t, uint64(3), cost1) // one word: 3*1 + 1^2/512 == 3
	m.Resize(32)

	// Charging again for the same size must be free: it's already paid for.
	cost2, err := memoryGasCost(m, 32)
	require.NoError(t, err)
	require.Equal(t, uint64(0), cost2)

	cost3, err := memoryGasCost(m, 64)
	require.NoError(t, err)
	require.Equal(t, uint64(3), cost3) // total for 2 words is 6+4/512==6, minus the 3 already paid
}

func TestMemoryGasCostZeroSize(t *testing.T) {
	m := NewMemory()
	defer m.Free()
	cost, err := memoryGasCost(m, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), cost)
}

func TestGasSLoadColdThenWarm(t *testing.T) {
	host := newTestHost()
	interp := &EVMInterpreter{host: host, revision: Berlin}
	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)

	st.push(new(uint256.Int)) // slot 0
	cost, err := gasSLoad(interp, scope, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(2100), cost) // ColdSloadCostEIP2929

	cost, err = gasSLoad(interp, scope, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(100), cost) // WarmStorageReadCostEIP2929
}

func TestGasSelfdestructNewAccountSurcharge(t *testing.T) {
	host := newTestHost()
	host.balances[common.Address{1}] = uint256.NewInt(1)
	interp := &EVMInterpreter{host: host, revision: Istanbul}
	st, mem, c, scope := newScope()
	defer returnStack(st)
	defer mem.Free()
	defer ReturnContract(c)
	c.Address = common.Address{1}

	beneficiary := new(uint256.Int)
	beneficiary.SetBytes(common.Address{2}.Bytes())
	st.push(beneficiary)

	cost, err := gasSelfdestruct(interp, scope, 0)
	require.NoError(t, err)
	require.True(t, cost > 0)
}

func TestToWordSizeCheckedOverflow(t *testing.T) {
	_, overflow := toWordSizeChecked(0xFFFFFFFFFFFFFFFF)
	require.True(t, overflow)
}
