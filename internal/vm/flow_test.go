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
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n42blockchain/evmflow/pkg/errors"
)

func TestExploreSingleStraightLineFlow(t *testing.T) {
	// PUSH1 0x00, PUSH1 0x00, RETURN
	instrs := mustDecode(t, []byte{0x60, 0x00, 0x60, 0x00, 0xf3})
	result, err := Explore(context.Background(), instrs, 0, Environment{}, ExploreOptions{})
	require.NoError(t, err)
	require.Len(t, result.Flows, 1)
	require.False(t, result.Flows[0].Capped)
	require.NotNil(t, result.Flows[0].Blocks[len(result.Flows[0].Blocks)-1].Halt)
}

func TestExploreForksAtConditionalJump(t *testing.T) {
	// pc0: PUSH1 0x01 (cond), pc2: PUSH1 0x08 (dest, on top), pc4: JUMPI,
	// pc5: PUSH1 0x00, pc7: STOP, pc8: JUMPDEST, pc9: STOP
	instrs := mustDecode(t, []byte{0x60, 0x01, 0x60, 0x08, 0x57, 0x60, 0x00, 0x00, 0x5b, 0x00})
	result, err := Explore(context.Background(), instrs, 0, Environment{}, ExploreOptions{})
	require.NoError(t, err)
	// the fallthrough path and the taken-jump path both complete as flows
	require.Len(t, result.Flows, 2)
	require.True(t, result.UniqueTargets.Contains(8))
}

func TestExploreCapsOnCyclicJump(t *testing.T) {
	// pc0: JUMPDEST, pc1: PUSH1 0x00 (target), pc3: JUMP (back to pc0) -- infinite loop
	instrs := mustDecode(t, []byte{0x5b, 0x60, 0x00, 0x56})
	result, err := Explore(context.Background(), instrs, 0, Environment{}, ExploreOptions{MaxDepth: 3})
	require.NoError(t, err)
	require.NotEmpty(t, result.Flows)
	cappedFlow := result.Flows[len(result.Flows)-1]
	require.True(t, cappedFlow.Capped)

	var capErr *errors.ExplorationCap
	require.True(t, stderrors.As(result.Errors[len(result.Errors)-1], &capErr))
	require.Equal(t, cappedFlow.ID.String(), capErr.FlowID)
	require.Equal(t, 3, capErr.BlockCap)
}

func TestExploreRecordsBlockParseErrorsWithoutFailing(t *testing.T) {
	// ADD with empty stack: underflow error on the very first block.
	instrs := mustDecode(t, []byte{0x01})
	result, err := Explore(context.Background(), instrs, 0, Environment{}, ExploreOptions{})
	require.NoError(t, err)
	require.Empty(t, result.Flows)
	require.Len(t, result.Errors, 1)
}

func TestExploreRejectsJumpToNonJumpdest(t *testing.T) {
	// PUSH1 0x05 (not a JUMPDEST), JUMP, then STOP at pc5.
	instrs := mustDecode(t, []byte{0x60, 0x05, 0x56, 0x00, 0x00, 0x00})
	result, err := Explore(context.Background(), instrs, 0, Environment{}, ExploreOptions{})
	require.NoError(t, err)
	require.Empty(t, result.Flows)
	require.Len(t, result.Errors, 1)
}

func TestExploreHonorsCancelledContext(t *testing.T) {
	instrs := mustDecode(t, []byte{0x00})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Explore(ctx, instrs, 0, Environment{}, ExploreOptions{})
	require.Error(t, err)
}
