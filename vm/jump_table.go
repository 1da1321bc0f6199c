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

import "github.com/ethereum/go-ethereum/params"

// operation is one entry of a JumpTable: the opcode's semantic body, its
// fixed gas cost, an optional dynamic gas add-on, an optional memory-size
// pre-computation, and the stack-height bounds the dispatcher validates
// before calling execute.
type operation struct {
	execute     executionFunc
	constantGas uint64
	dynamicGas  gasFunc
	minStack    int
	maxStack    int
	memorySize  memorySizeFunc
	undefined   bool
}

// JumpTable is the dense, per-revision dispatch table: 256 entries, one
// per possible opcode byte.
type JumpTable [256]*operation

func minSwapStack(n int) int { return minStack(n, n) }
func maxSwapStack(n int) int { return maxStack(n, n) }
func minDupStack(n int) int  { return minStack(n, n) }
func maxDupStack(n int) int  { return maxStack(n, n+1) }

func minStack(pops, push int) int { return pops }
func maxStack(pops, push int) int { return stackLimit + pops - push }

func undefinedOp() *operation {
	return &operation{execute: opUndefined, maxStack: maxStack(0, 0), undefined: true}
}

// newFrontierInstructionSet returns the instruction set as of the original
// launch, the root every later revision is derived from by copy-and-patch.
func newFrontierInstructionSet() JumpTable {
	tbl := JumpTable{}
	for i := range tbl {
		tbl[i] = undefinedOp()
	}
	set := map[OpCode]*operation{
		STOP:       {execute: opStop, constantGas: 0, minStack: minStack(0, 0), maxStack: maxStack(0, 0)},
		ADD:        {execute: opAdd, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		MUL:        {execute: opMul, constantGas: GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		SUB:        {execute: opSub, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		DIV:        {execute: opDiv, constantGas: GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		SDIV:       {execute: opSdiv, constantGas: GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		MOD:        {execute: opMod, constantGas: GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		SMOD:       {execute: opSmod, constantGas: GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		ADDMOD:     {execute: opAddmod, constantGas: GasMidStep, minStack: minStack(3, 1), maxStack: maxStack(3, 1)},
		MULMOD:     {execute: opMulmod, constantGas: GasMidStep, minStack: minStack(3, 1), maxStack: maxStack(3, 1)},
		EXP:        {execute: opExp, dynamicGas: gasExpFrontier, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		SIGNEXTEND: {execute: opSignExtend, constantGas: GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},

		LT:     {execute: opLt, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		GT:     {execute: opGt, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		SLT:    {execute: opSlt, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		SGT:    {execute: opSgt, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		EQ:     {execute: opEq, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		ISZERO: {execute: opIszero, constantGas: GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		AND:    {execute: opAnd, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		OR:     {execute: opOr, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		XOR:    {execute: opXor, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		NOT:    {execute: opNot, constantGas: GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		BYTE:   {execute: opByte, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},

		KECCAK256: {execute: opKeccak256, constantGas: params.Keccak256Gas, dynamicGas: gasKeccak256, minStack: minStack(2, 1), maxStack: maxStack(2, 1), memorySize: memoryKeccak256},

		ADDRESS:      {execute: opAddress, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		BALANCE:      {execute: opBalance, constantGas: params.BalanceGasFrontier, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		ORIGIN:       {execute: opOrigin, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		CALLER:       {execute: opCaller, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		CALLVALUE:    {execute: opCallValue, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		CALLDATALOAD: {execute: opCallDataLoad, constantGas: GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		CALLDATASIZE: {execute: opCallDataSize, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		CALLDATACOPY: {execute: opCallDataCopy, constantGas: GasFastestStep, dynamicGas: gasCallDataCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0), memorySize: memoryCallDataCopy},
		CODESIZE:     {execute: opCodeSize, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		CODECOPY:     {execute: opCodeCopy, constantGas: GasFastestStep, dynamicGas: gasCodeCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0), memorySize: memoryCodeCopy},
		GASPRICE:     {execute: opGasprice, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		EXTCODESIZE:  {execute: opExtCodeSize, constantGas: params.ExtcodeSizeGasFrontier, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		EXTCODECOPY:  {execute: opExtCodeCopy, constantGas: params.ExtcodeCopyBaseFrontier, dynamicGas: gasExtCodeCopy, minStack: minStack(4, 0), maxStack: maxStack(4, 0), memorySize: memoryExtCodeCopy},

		BLOCKHASH: {execute: opBlockhash, constantGas: GasExtStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		COINBASE:  {execute: opCoinbase, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		TIMESTAMP: {execute: opTimestamp, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		NUMBER:    {execute: opNumber, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		DIFFICULTY: {execute: opDifficulty, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		GASLIMIT:  {execute: opGasLimit, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},

		POP:      {execute: opPop, constantGas: GasQuickStep, minStack: minStack(1, 0), maxStack: maxStack(1, 0)},
		MLOAD:    {execute: opMload, constantGas: GasFastestStep, dynamicGas: pureMemoryGas, minStack: minStack(1, 1), maxStack: maxStack(1, 1), memorySize: memoryMLoad},
		MSTORE:   {execute: opMstore, constantGas: GasFastestStep, dynamicGas: pureMemoryGas, minStack: minStack(2, 0), maxStack: maxStack(2, 0), memorySize: memoryMStore},
		MSTORE8:  {execute: opMstore8, constantGas: GasFastestStep, dynamicGas: pureMemoryGas, minStack: minStack(2, 0), maxStack: maxStack(2, 0), memorySize: memoryMStore8},
		SLOAD:    {execute: opSload, constantGas: params.SloadGasFrontier, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		SSTORE:   {execute: opSstore, dynamicGas: gasSStoreLegacy, minStack: minStack(2, 0), maxStack: maxStack(2, 0)},
		JUMP:     {execute: opJump, constantGas: GasMidStep, minStack: minStack(1, 0), maxStack: maxStack(1, 0)},
		JUMPI:    {execute: opJumpi, constantGas: GasSlowStep, minStack: minStack(2, 0), maxStack: maxStack(2, 0)},
		PC:       {execute: opPc, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		MSIZE:    {execute: opMsize, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		GAS:      {execute: opGas, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		JUMPDEST: {execute: opJumpdest, constantGas: params.JumpdestGas, minStack: minStack(0, 0), maxStack: maxStack(0, 0)},

		LOG0: {execute: makeLog(0), dynamicGas: makeGasLog(0), minStack: minStack(2, 0), maxStack: maxStack(2, 0), memorySize: memoryLog},
		LOG1: {execute: makeLog(1), dynamicGas: makeGasLog(1), minStack: minStack(3, 0), maxStack: maxStack(3, 0), memorySize: memoryLog},
		LOG2: {execute: makeLog(2), dynamicGas: makeGasLog(2), minStack: minStack(4, 0), maxStack: maxStack(4, 0), memorySize: memoryLog},
		LOG3: {execute: makeLog(3), dynamicGas: makeGasLog(3), minStack: minStack(5, 0), maxStack: maxStack(5, 0), memorySize: memoryLog},
		LOG4: {execute: makeLog(4), dynamicGas: makeGasLog(4), minStack: minStack(6, 0), maxStack: maxStack(6, 0), memorySize: memoryLog},

		CREATE:       {execute: opCreate, constantGas: params.CreateGas, dynamicGas: gasCreate, minStack: minStack(3, 1), maxStack: maxStack(3, 1), memorySize: memoryCreate},
		CALL:         {execute: opCall, constantGas: params.CallGasFrontier, dynamicGas: gasCall, minStack: minStack(7, 1), maxStack: maxStack(7, 1), memorySize: memoryCall},
		CALLCODE:     {execute: opCallCode, constantGas: params.CallGasFrontier, dynamicGas: gasCallCode, minStack: minStack(7, 1), maxStack: maxStack(7, 1), memorySize: memoryCallCode},
		RETURN:       {execute: opReturn, dynamicGas: pureMemoryGas, minStack: minStack(2, 0), maxStack: maxStack(2, 0), memorySize: memoryReturn},
		INVALID:      {execute: opInvalid, minStack: minStack(0, 0), maxStack: maxStack(0, 0)},
		SELFDESTRUCT: {execute: opSelfdestruct, minStack: minStack(1, 0), maxStack: maxStack(1, 0)},
	}
	for op, inst := range set {
		tbl[op] = inst
	}
	for n := 1; n <= 32; n++ {
		op := PUSH1 + OpCode(n-1)
		tbl[op] = &operation{execute: makePush(uint64(n+1), n), constantGas: GasFastestStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	}
	for n := 1; n <= 16; n++ {
		op := DUP1 + OpCode(n-1)
		tbl[op] = &operation{execute: makeDup(int64(n)), constantGas: GasFastestStep, minStack: minDupStack(n), maxStack: maxDupStack(n)}
	}
	for n := 1; n <= 16; n++ {
		op := SWAP1 + OpCode(n-1)
		tbl[op] = &operation{execute: makeSwap(int64(n)), constantGas: GasFastestStep, minStack: minSwapStack(n + 1), maxStack: maxSwapStack(n + 1)}
	}
	return tbl
}

func pureMemoryGas(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
	return memoryGasCost(scope.Memory, memorySize)
}

func copyJumpTable(src JumpTable) JumpTable {
	var dst JumpTable
	for i, op := range src {
		if op == nil {
			continue
		}
		opCopy := *op
		dst[i] = &opCopy
	}
	return dst
}

func newHomesteadInstructionSet() JumpTable {
	tbl := newFrontierInstructionSet()
	tbl[DELEGATECALL] = &operation{execute: opDelegateCall, constantGas: params.CallGasFrontier, dynamicGas: gasDelegateCall, minStack: minStack(6, 1), maxStack: maxStack(6, 1), memorySize: memoryDelegateCall}
	return tbl
}

func newTangerineWhistleInstructionSet() JumpTable {
	tbl := newHomesteadInstructionSet()
	tbl[BALANCE].constantGas = params.BalanceGasEIP150
	tbl[EXTCODESIZE].constantGas = params.ExtcodeSizeGasEIP150
	tbl[SLOAD].constantGas = params.SloadGasEIP150
	tbl[EXTCODECOPY].constantGas = params.ExtcodeCopyBaseEIP150
	tbl[CALL].constantGas = params.CallGasEIP150
	tbl[CALLCODE].constantGas = params.CallGasEIP150
	tbl[DELEGATECALL].constantGas = params.CallGasEIP150
	tbl[SELFDESTRUCT].dynamicGas = gasSelfdestruct
	return tbl
}

func newSpuriousDragonInstructionSet() JumpTable {
	tbl := newTangerineWhistleInstructionSet()
	tbl[EXP].dynamicGas = gasExpEIP158
	return tbl
}

func newByzantiumInstructionSet() JumpTable {
	tbl := newSpuriousDragonInstructionSet()
	tbl[REVERT] = &operation{execute: opRevert, dynamicGas: pureMemoryGas, minStack: minStack(2, 0), maxStack: maxStack(2, 0), memorySize: memoryRevert}
	tbl[STATICCALL] = &operation{execute: opStaticCall, constantGas: params.CallGasEIP150, dynamicGas: gasStaticCall, minStack: minStack(6, 1), maxStack: maxStack(6, 1), memorySize: memoryStaticCall}
	tbl[RETURNDATASIZE] = &operation{execute: opReturnDataSize, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[RETURNDATACOPY] = &operation{execute: opReturnDataCopy, constantGas: GasFastestStep, dynamicGas: gasReturnDataCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0), memorySize: memoryReturnDataCopy}
	return tbl
}

func newConstantinopleInstructionSet() JumpTable {
	tbl := newByzantiumInstructionSet()
	tbl[SHL] = &operation{execute: opShl, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[SHR] = &operation{execute: opShr, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[SAR] = &operation{execute: opSar, constantGas: GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)}
	tbl[EXTCODEHASH] = &operation{execute: opExtCodeHash, constantGas: params.ExtcodeHashGasConstantinople, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[CREATE2] = &operation{execute: opCreate2, constantGas: params.CreateGas, dynamicGas: gasCreate2, minStack: minStack(4, 1), maxStack: maxStack(4, 1), memorySize: memoryCreate2}
	return tbl
}

func newIstanbulInstructionSet() JumpTable {
	tbl := newConstantinopleInstructionSet()
	tbl[CHAINID] = &operation{execute: opChainID, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[SELFBALANCE] = &operation{execute: opSelfBalance, constantGas: GasFastStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[SLOAD].constantGas = params.SloadGasEIP1884
	tbl[SSTORE].dynamicGas = gasSStore
	return tbl
}

func newBerlinInstructionSet() JumpTable {
	tbl := newIstanbulInstructionSet()
	tbl[SLOAD] = &operation{execute: opSload, dynamicGas: gasSLoad, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[EXTCODESIZE] = &operation{execute: opExtCodeSize, constantGas: params.WarmStorageReadCostEIP2929, dynamicGas: accessAccountGas(1), minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[EXTCODECOPY] = &operation{execute: opExtCodeCopy, constantGas: params.WarmStorageReadCostEIP2929, dynamicGas: combine(accessAccountGas(1), gasExtCodeCopy), minStack: minStack(4, 0), maxStack: maxStack(4, 0), memorySize: memoryExtCodeCopy}
	tbl[EXTCODEHASH] = &operation{execute: opExtCodeHash, constantGas: params.WarmStorageReadCostEIP2929, dynamicGas: accessAccountGas(1), minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[BALANCE] = &operation{execute: opBalance, constantGas: params.WarmStorageReadCostEIP2929, dynamicGas: accessAccountGas(1), minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	// CALL-family constantGas drops to 0: gasCall/gasCallCode/gasDelegateCall/
	// gasStaticCall now compute the full cold-or-warm access cost themselves
	// via callAccessGas, rather than a fixed pre-2929 base plus a surcharge.
	tbl[CALL].constantGas = 0
	tbl[CALLCODE].constantGas = 0
	tbl[DELEGATECALL].constantGas = 0
	tbl[STATICCALL].constantGas = 0
	tbl[SELFDESTRUCT].dynamicGas = gasSelfdestruct
	return tbl
}

// accessAccountGas wraps an EIP-2929 account-touch surcharge as a gasFunc,
// for opcodes whose sole dynamic cost is the cold/warm check on stack
// operand idx.
func accessAccountGas(idx int) gasFunc {
	return func(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
		addr := addressFromStack(scope.Stack, idx)
		if interp.host.AccessAccount(addr) == ColdAccess {
			return params.ColdAccountAccessCostEIP2929 - params.WarmStorageReadCostEIP2929, nil
		}
		return 0, nil
	}
}

func combine(a, b gasFunc) gasFunc {
	return func(interp *EVMInterpreter, scope *ScopeContext, memorySize uint64) (uint64, error) {
		x, err := a(interp, scope, memorySize)
		if err != nil {
			return 0, err
		}
		y, err := b(interp, scope, memorySize)
		if err != nil {
			return 0, err
		}
		sum, overflow := addUint64(x, y)
		if overflow {
			return 0, ErrGasUintOverflow
		}
		return sum, nil
	}
}

func newLondonInstructionSet() JumpTable {
	tbl := newBerlinInstructionSet()
	tbl[BASEFEE] = &operation{execute: opBaseFee, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[SELFDESTRUCT].dynamicGas = gasSelfdestruct
	tbl[CREATE].dynamicGas = gasCreateEip3860
	tbl[CREATE2].dynamicGas = gasCreate2Eip3860
	return tbl
}

func newMergeInstructionSet() JumpTable {
	tbl := newLondonInstructionSet()
	return tbl
}

func newShanghaiInstructionSet() JumpTable {
	tbl := newMergeInstructionSet()
	tbl[PUSH0] = &operation{execute: opPush0, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[CREATE].dynamicGas = gasCreateEip3860
	tbl[CREATE2].dynamicGas = gasCreate2Eip3860
	return tbl
}

func newCancunInstructionSet() JumpTable {
	tbl := newShanghaiInstructionSet()
	tbl[TLOAD] = &operation{execute: opTload, constantGas: params.WarmStorageReadCostEIP2929, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[TSTORE] = &operation{execute: opTstore, constantGas: params.WarmStorageReadCostEIP2929, minStack: minStack(2, 0), maxStack: maxStack(2, 0)}
	tbl[MCOPY] = &operation{execute: opMcopy, constantGas: GasFastestStep, dynamicGas: gasMCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0), memorySize: memoryMCopy}
	tbl[BLOBHASH] = &operation{execute: opBlobHash, constantGas: GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)}
	tbl[BLOBBASEFEE] = &operation{execute: opBlobBaseFee, constantGas: GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	return tbl
}

// newInstructionSet dispatches to the correct per-revision table. A table
// is built once per EVMInterpreter, at construction, not per opcode; since
// Execute constructs a new interpreter for every call, each call builds its
// own table.
func newInstructionSet(rev Revision) JumpTable {
	switch rev {
	case Frontier:
		return newFrontierInstructionSet()
	case Homestead:
		return newHomesteadInstructionSet()
	case TangerineWhistle:
		return newTangerineWhistleInstructionSet()
	case SpuriousDragon:
		return newSpuriousDragonInstructionSet()
	case Byzantium:
		return newByzantiumInstructionSet()
	case Constantinople:
		return newConstantinopleInstructionSet()
	case Istanbul:
		return newIstanbulInstructionSet()
	case Berlin:
		return newBerlinInstructionSet()
	case London:
		return newLondonInstructionSet()
	case Merge:
		return newMergeInstructionSet()
	case Shanghai:
		return newShanghaiInstructionSet()
	case Cancun:
		return newCancunInstructionSet()
	default:
		return newCancunInstructionSet()
	}
}

// Gas-cost constants for the handful of opcodes whose price is a fixed
// step cost rather than a named params constant (the Yellow Paper's
// W_verylow/W_low/W_mid/W_high step classes).
const (
	GasQuickStep   uint64 = 2
	GasFastestStep uint64 = 3
	GasFastStep    uint64 = 5
	GasMidStep     uint64 = 8
	GasSlowStep    uint64 = 10
	GasExtStep     uint64 = 20
)
