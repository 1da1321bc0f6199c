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

// Package vm implements a baseline Ethereum Virtual Machine interpreter: a
// dispatch loop that runs a stream of EVM bytecode to completion against an
// external Host, after a single linear pre-scan that locates valid jump
// destinations.
//
// The interpreter is "baseline" in the sense of evmone's baseline_execute:
// it does not build an intermediate representation of the code and does not
// fuse sequences of opcodes into superinstructions. It dispatches one
// opcode at a time from a dense per-revision jump table.
//
// The package owns the stack, memory, jump-destination analysis, the
// instruction tables, the per-opcode semantics, and the dispatch loop. It
// does not own world state: accounts, storage, logs, and sub-call execution
// are all reached through the Host interface defined in host.go. Callers
// supply a Host implementation; this package only consumes it.
package vm
