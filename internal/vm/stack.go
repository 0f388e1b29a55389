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
	"github.com/n42blockchain/evmflow/pkg/errors"
)

// StackElement is a single symbolic value on the EVM stack: its resolved
// value, the PC of the instruction that produced it (for provenance), and
// the byte width it occupied when pushed (e.g. PUSH1 -> 1). Size is always
// in [1, 32].
type StackElement struct {
	Value  word.Word
	Origin bytecode.PC
	Size   int
}

// Stack is a LIFO of StackElement, mutated only inside a single
// block-parse.
type Stack struct {
	elems []StackElement
}

// NewStack returns an empty stack.
func NewStack() *Stack { return &Stack{} }

// Len returns the number of elements currently on the stack.
func (s *Stack) Len() int { return len(s.elems) }

// Push appends e to the top of the stack.
func (s *Stack) Push(e StackElement) { s.elems = append(s.elems, e) }

// Pop removes and returns the top element. ok is false on an empty stack.
func (s *Stack) Pop() (StackElement, bool) {
	if len(s.elems) == 0 {
		return StackElement{}, false
	}
	top := s.elems[len(s.elems)-1]
	s.elems = s.elems[:len(s.elems)-1]
	return top, true
}

// PeekDepth returns the element at depth d from the top, 0-indexed (depth 0
// is the current top), without removing it.
func (s *Stack) PeekDepth(d int) (StackElement, bool) {
	idx := len(s.elems) - 1 - d
	if idx < 0 || idx >= len(s.elems) {
		return StackElement{}, false
	}
	return s.elems[idx], true
}

// Dup duplicates the element at depth n-1 from the top (EVM's 1-indexed
// DUPn convention: DUP1 duplicates the current top) and pushes the copy.
func (s *Stack) Dup(n int, pc bytecode.PC) error {
	e, ok := s.PeekDepth(n - 1)
	if !ok {
		return &errors.StackUnderflow{PC: int(pc), Opcode: fmt.Sprintf("DUP%d", n), Required: n, Have: s.Len()}
	}
	s.Push(e)
	return nil
}

// Swap exchanges the top of the stack with the element n below it.
func (s *Stack) Swap(n int, pc bytecode.PC) error {
	if s.Len() < n+1 {
		return &errors.StackUnderflow{PC: int(pc), Opcode: fmt.Sprintf("SWAP%d", n), Required: n + 1, Have: s.Len()}
	}
	top := len(s.elems) - 1
	below := top - n
	s.elems[top], s.elems[below] = s.elems[below], s.elems[top]
	return nil
}

// PopN pops n elements in LIFO order (first returned was popped first, i.e.
// was the top of stack), returning a StackUnderflow error tagged with op if
// fewer than n elements are present.
func (s *Stack) PopN(n int, pc bytecode.PC, op string) ([]StackElement, error) {
	if s.Len() < n {
		return nil, &errors.StackUnderflow{PC: int(pc), Opcode: op, Required: n, Have: s.Len()}
	}
	out := make([]StackElement, n)
	for i := 0; i < n; i++ {
		e, _ := s.Pop()
		out[i] = e
	}
	return out, nil
}

// Clone returns a deep copy of the stack, used when a flow forks at a
// conditional jump and each branch needs its own mutable copy.
func (s *Stack) Clone() *Stack {
	cp := make([]StackElement, len(s.elems))
	copy(cp, s.elems)
	return &Stack{elems: cp}
}

// Elements returns a read-only view of the stack contents, bottom first.
func (s *Stack) Elements() []StackElement { return s.elems }
