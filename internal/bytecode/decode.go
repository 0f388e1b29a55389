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

// Package bytecode decodes raw EVM runtime bytecode into an indexed
// instruction stream, stripping the Solidity CBOR metadata trailer before
// decoding.
package bytecode

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// PC is a program counter: a byte offset into the bytecode.
type PC int

// Instruction is a single decoded opcode plus its immediate bytes, keyed at
// the PC of its opcode byte.
type Instruction struct {
	Index      PC
	Opcode     OpCode
	Immediates []byte
}

// InstructionMap maps PC to Instruction. Immediate bytes never get their
// own entry — PCs are monotonic but not contiguous.
type InstructionMap map[PC]Instruction

// DecodeError reports a fatal decode failure: an unknown opcode byte, or a
// PUSH whose immediate tail runs past the end of the input.
type DecodeError struct {
	PC     PC
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bytecode: decode error at pc=%d: %s", e.PC, e.Reason)
}

// cborMarker is the byte sequence Solidity's CBOR metadata trailer begins
// with: the 2-byte CBOR map header for "ipfs" followed by its key bytes.
var cborMarker = []byte{0xa2, 0x64, 0x69, 0x70, 0x66, 0x73}

// StripCBORTrailer returns the prefix of code up to (not including) the
// first occurrence of the CBOR "ipfs" marker, or code unchanged if the
// marker is not present.
func StripCBORTrailer(code []byte) []byte {
	for i := 0; i+len(cborMarker) <= len(code); i++ {
		match := true
		for j, b := range cborMarker {
			if code[i+j] != b {
				match = false
				break
			}
		}
		if match {
			return code[:i]
		}
	}
	return code
}

// Decode performs a linear scan: at each PC, classify the opcode byte,
// consume its immediate bytes, and advance. The CBOR trailer is stripped
// first.
func Decode(code []byte) (InstructionMap, error) {
	code = StripCBORTrailer(code)

	instrs := make(InstructionMap, len(code))

	i := 0
	for i < len(code) {
		pc := PC(i)
		op := OpCode(code[i])
		if !Known(op) {
			return nil, &DecodeError{PC: pc, Reason: fmt.Sprintf("unknown opcode byte 0x%02x", byte(op))}
		}

		immCount := ImmediateBytes(op)
		if i+1+immCount > len(code) {
			return nil, &DecodeError{PC: pc, Reason: fmt.Sprintf("truncated immediate for %s: need %d bytes, have %d", Name(op), immCount, len(code)-i-1)}
		}

		imm := make([]byte, immCount)
		copy(imm, code[i+1:i+1+immCount])
		instrs[pc] = Instruction{Index: pc, Opcode: op, Immediates: imm}

		i += 1 + immCount
	}
	return instrs, nil
}

// JumpDests returns the set of PCs at which a JUMPDEST instruction was
// decoded — the only legal targets of JUMP/JUMPI.
func JumpDests(instrs InstructionMap) mapset.Set[PC] {
	set := mapset.NewThreadUnsafeSet[PC]()
	for pc, instr := range instrs {
		if instr.Opcode == JUMPDEST {
			set.Add(pc)
		}
	}
	return set
}
