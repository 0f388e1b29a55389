// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"github.com/n42blockchain/evmflow/internal/bytecode"
	"github.com/n42blockchain/evmflow/internal/word"
)

// Storage models SLOAD/SSTORE as an untracked stub returning a
// zero-initialized value for every key: no jump target in the core
// control-flow-recovery path ever depends on a storage read, and other
// contracts' storage and balances are out of scope here, so storage is
// never threaded through Flow or Environment.
func storageLoad(key word.Word, pc bytecode.PC) StackElement {
	return StackElement{Value: word.Zero, Origin: pc, Size: 1}
}

func storageStore(key word.Word, value StackElement) {
	// intentionally discarded — see package doc above
}
