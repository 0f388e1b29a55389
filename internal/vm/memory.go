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
	"fmt"

	"github.com/n42blockchain/evmflow/internal/bytecode"
	"github.com/n42blockchain/evmflow/internal/word"
)

// maxMemory bounds how far a single MSTORE/MLOAD may grow memory. EVM bounds
// memory growth by gas, which this analyzer does not model; this cap exists
// purely so a malformed or adversarial offset can't make the analyzer
// allocate unbounded memory.
const maxMemory = 1 << 20 // 1 MiB

// MemoryCell is a single byte of symbolic memory plus the PC of the
// instruction that last wrote it, or nil if it has never been written.
type MemoryCell struct {
	Byte   byte
	Origin *bytecode.PC
}

// Memory is a byte-addressed, zero-extending vector mutated only inside a
// single block-parse.
type Memory struct {
	cells []MemoryCell
}

// NewMemory returns an empty memory.
func NewMemory() *Memory { return &Memory{} }

// Len returns the current memory length in bytes.
func (m *Memory) Len() int { return len(m.cells) }

// grow extends memory to at least `size` bytes, in 32-byte strides, padding
// with zero cells with no origin.
func (m *Memory) grow(size int) error {
	if size <= len(m.cells) {
		return nil
	}
	strided := ((size + 31) / 32) * 32
	if strided > maxMemory {
		return fmt.Errorf("vm: memory growth to %d bytes exceeds the %d-byte analysis cap", strided, maxMemory)
	}
	extra := make([]MemoryCell, strided-len(m.cells))
	m.cells = append(m.cells, extra...)
	return nil
}

// MStore writes value's big-endian 32-byte representation into the slot
// beginning at offset: the low Size bytes occupy the high offsets of the
// slot (trailing bytes), the leading 32-Size bytes are zero, with origin
// set to storePC for the zero bytes and to value.Origin for the value
// bytes.
func (m *Memory) MStore(value StackElement, offset word.Word, storePC bytecode.PC) error {
	off := offsetToInt(offset)
	if err := m.grow(off + 32); err != nil {
		return err
	}
	bytes32 := value.Value.Bytes32()
	zeroLen := 32 - value.Size
	if zeroLen < 0 {
		zeroLen = 0
	}
	for i := 0; i < 32; i++ {
		cell := MemoryCell{Byte: bytes32[i]}
		if i < zeroLen {
			pc := storePC
			cell.Origin = &pc
		} else {
			pc := value.Origin
			cell.Origin = &pc
		}
		m.cells[off+i] = cell
	}
	return nil
}

// MStore8 writes the low byte of value at offset, per EVM's MSTORE8.
func (m *Memory) MStore8(value StackElement, offset word.Word, storePC bytecode.PC) error {
	off := offsetToInt(offset)
	if err := m.grow(off + 1); err != nil {
		return err
	}
	bytes32 := value.Value.Bytes32()
	pc := storePC
	m.cells[off] = MemoryCell{Byte: bytes32[31], Origin: &pc}
	return nil
}

// MLoad reads 32 bytes big-endian from offset, growing memory if needed,
// and returns them as a StackElement with Size=32 and Origin set to the
// last non-nil origin among the 32 cells, or loadPC if all cells are
// virgin.
func (m *Memory) MLoad(offset word.Word, loadPC bytecode.PC) (StackElement, error) {
	off := offsetToInt(offset)
	if err := m.grow(off + 32); err != nil {
		return StackElement{}, err
	}
	var raw [32]byte
	origin := loadPC
	for i := 0; i < 32; i++ {
		cell := m.cells[off+i]
		raw[i] = cell.Byte
		if cell.Origin != nil {
			origin = *cell.Origin
		}
	}
	return StackElement{Value: word.FromBytes(raw[:]), Origin: origin, Size: 32}, nil
}

// bytes returns the raw byte contents of memory, ignoring provenance. Used
// by the block-parse memoization key, which must distinguish two calls that
// share an (entry, stack) pair but differ in memory contents.
func (m *Memory) bytes() []byte {
	out := make([]byte, len(m.cells))
	for i, c := range m.cells {
		out[i] = c.Byte
	}
	return out
}

// Clone returns a deep copy of memory, used when a flow forks and each
// branch needs its own mutable copy.
func (m *Memory) Clone() *Memory {
	cp := make([]MemoryCell, len(m.cells))
	copy(cp, m.cells)
	return &Memory{cells: cp}
}

func offsetToInt(w word.Word) int {
	v := w.Uint64()
	if v > uint64(maxMemory) {
		return maxMemory
	}
	return int(v)
}
