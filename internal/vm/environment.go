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

// Environment is the read-only configuration consulted by CALLDATALOAD,
// CALLDATASIZE and CALLVALUE. It is built once before analysis begins and
// passed by value down the interpreter call chain, rather than threading
// calldata/callvalue as mutable process-wide singletons.
type Environment struct {
	Calldata  []byte
	Callvalue *StackElement
	CodeLen   int
}

// CalldataSize returns calldata length in bytes as a StackElement.
func (e Environment) CalldataSize(pc bytecode.PC) StackElement {
	return StackElement{Value: word.FromUint64(uint64(len(e.Calldata))), Origin: pc, Size: 32}
}

// CalldataLoad returns a 32-byte, zero-padded, big-endian window into
// calldata starting at offset. If Calldata is unset, it returns the zero
// element CALLDATALOAD produces when no calldata was configured.
func (e Environment) CalldataLoad(offset word.Word, pc bytecode.PC) StackElement {
	if e.Calldata == nil {
		return StackElement{Value: word.Zero, Origin: pc, Size: 1}
	}
	off := offsetToInt(offset)
	var window [32]byte
	for i := 0; i < 32; i++ {
		if off+i < len(e.Calldata) {
			window[i] = e.Calldata[off+i]
		}
	}
	return StackElement{Value: word.FromBytes(window[:]), Origin: pc, Size: 32}
}

// CallvalueOrDefault returns the configured call value, or the
// {value=0, size=1} default the CALLVALUE opcode spec mandates when none
// was configured.
func (e Environment) CallvalueOrDefault(pc bytecode.PC) StackElement {
	if e.Callvalue != nil {
		return *e.Callvalue
	}
	return StackElement{Value: word.Zero, Origin: pc, Size: 1}
}
