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
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n42blockchain/evmflow/internal/word"
	"github.com/n42blockchain/evmflow/pkg/errors"
)

func pushN(s *Stack, values ...uint64) {
	for _, v := range values {
		s.Push(StackElement{Value: word.FromUint64(v), Size: 32})
	}
}

func TestDupCopiesElementAtDepthNMinus1(t *testing.T) {
	s := NewStack()
	pushN(s, 1, 2, 3) // top is 3

	require.NoError(t, s.Dup(1, 0)) // DUP1 duplicates the current top (3)
	top, ok := s.PeekDepth(0)
	require.True(t, ok)
	require.Equal(t, uint64(3), top.Value.Uint64())

	require.NoError(t, s.Dup(3, 0)) // DUP3 duplicates the element 2 below the (new) top
	top, ok = s.PeekDepth(0)
	require.True(t, ok)
	require.Equal(t, uint64(2), top.Value.Uint64())
}

func TestDupUnderflowsWhenStackTooShort(t *testing.T) {
	s := NewStack()
	pushN(s, 1)
	err := s.Dup(2, 5)
	var underflow *errors.StackUnderflow
	require.True(t, stderrors.As(err, &underflow))
	require.Equal(t, "DUP2", underflow.Opcode)
	require.Equal(t, 5, underflow.PC)
}

func TestSwapExchangesTopWithElementNBelow(t *testing.T) {
	s := NewStack()
	pushN(s, 1, 2, 3, 4) // top is 4, SWAP1 target is 3

	require.NoError(t, s.Swap(1, 0))
	top, _ := s.PeekDepth(0)
	below, _ := s.PeekDepth(1)
	require.Equal(t, uint64(3), top.Value.Uint64())
	require.Equal(t, uint64(4), below.Value.Uint64())
}

func TestSwapTwiceIsIdentity(t *testing.T) {
	s := NewStack()
	pushN(s, 1, 2, 3, 4)
	before := append([]StackElement(nil), s.Elements()...)

	require.NoError(t, s.Swap(2, 0))
	require.NoError(t, s.Swap(2, 0))

	require.Equal(t, before, s.Elements())
}

func TestSwapUnderflowsWhenStackTooShort(t *testing.T) {
	s := NewStack()
	pushN(s, 1, 2)
	err := s.Swap(3, 9)
	var underflow *errors.StackUnderflow
	require.True(t, stderrors.As(err, &underflow))
	require.Equal(t, "SWAP3", underflow.Opcode)
	require.Equal(t, 4, underflow.Required)
	require.Equal(t, 2, underflow.Have)
}
