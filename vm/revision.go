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

// Revision selects which fork's instruction set and gas schedule the
// interpreter runs. Revisions are ordered: a later revision is always a
// superset of an earlier one's semantics. Verkle, Prague, and EOF are out
// of scope; Cancun is the newest revision supported.
type Revision int

const (
	Frontier Revision = iota
	Homestead
	TangerineWhistle
	SpuriousDragon
	Byzantium
	Constantinople
	Istanbul
	Berlin
	London
	Merge
	Shanghai
	Cancun
)

var revisionNames = [...]string{
	Frontier:         "Frontier",
	Homestead:        "Homestead",
	TangerineWhistle: "TangerineWhistle",
	SpuriousDragon:   "SpuriousDragon",
	Byzantium:        "Byzantium",
	Constantinople:   "Constantinople",
	Istanbul:         "Istanbul",
	Berlin:           "Berlin",
	London:           "London",
	Merge:            "Merge",
	Shanghai:         "Shanghai",
	Cancun:           "Cancun",
}

func (r Revision) String() string {
	if int(r) < 0 || int(r) >= len(revisionNames) {
		return "Unknown"
	}
	return revisionNames[r]
}

// AtLeast reports whether r is at least as new as other.
func (r Revision) AtLeast(other Revision) bool {
	return r >= other
}
