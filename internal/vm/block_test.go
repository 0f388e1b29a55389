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
	"testing"

	"github.com/n42blockchain/evmflow/internal/bytecode"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, hex []byte) bytecode.InstructionMap {
	t.Helper()
	instrs, err := bytecode.Decode(hex)
	require.NoError(t, err)
	return instrs
}

func TestParseBlockHaltsOnStop(t *testing.T) {
	// PUSH1 0x03, JUMPDEST, STOP
	instrs := mustDecode(t, []byte{0x60, 0x03, 0x5b, 0x00})
	blocks, err := ParseBlock(instrs, 0, NewStack(), NewMemory(), nil, Environment{})
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.NotNil(t, blocks[0].Halt)
	require.Equal(t, HaltStop, *blocks[0].Halt)
	require.Equal(t, bytecode.PC(3), blocks[0].End)
}

func TestParseBlockEmitsOnUnconditionalJump(t *testing.T) {
	// PUSH1 0x04, JUMP, JUMPDEST, STOP
	instrs := mustDecode(t, []byte{0x60, 0x04, 0x56, 0x5b, 0x00})
	blocks, err := ParseBlock(instrs, 0, NewStack(), NewMemory(), nil, Environment{})
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.NotNil(t, blocks[0].Jump)
	require.Equal(t, JumpUnconditional, blocks[0].Jump.Kind)
	require.True(t, blocks[0].Target.Value.Uint64() == 4)
}

func TestParseBlockContinuesPastJumpI(t *testing.T) {
	// PUSH1 0x06, PUSH1 0x01, JUMPI, PUSH1 0x00, STOP, JUMPDEST, STOP
	instrs := mustDecode(t, []byte{0x60, 0x06, 0x60, 0x01, 0x57, 0x60, 0x00, 0x00, 0x5b, 0x00})
	blocks, err := ParseBlock(instrs, 0, NewStack(), NewMemory(), nil, Environment{})
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	require.NotNil(t, blocks[0].Jump)
	require.Equal(t, JumpConditional, blocks[0].Jump.Kind)
	require.NotNil(t, blocks[1].Halt)
	require.Equal(t, HaltStop, *blocks[1].Halt)
}

func TestParseBlockStackUnderflowPropagates(t *testing.T) {
	// ADD with nothing on the stack
	instrs := mustDecode(t, []byte{0x01})
	_, err := ParseBlock(instrs, 0, NewStack(), NewMemory(), nil, Environment{})
	require.Error(t, err)
}

func TestParseBlockCapsAtEndPC(t *testing.T) {
	instrs := mustDecode(t, []byte{0x5b, 0x5b, 0x5b, 0x00})
	end := bytecode.PC(1)
	blocks, err := ParseBlock(instrs, 0, NewStack(), NewMemory(), &end, Environment{})
	require.NoError(t, err)
	require.Empty(t, blocks)
}
