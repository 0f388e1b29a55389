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

package cfgexport

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/n42blockchain/evmflow/internal/vm"
)

func TestRenderIncludesBlockAndHaltNodes(t *testing.T) {
	stop := vm.HaltStop
	flow := vm.Flow{
		ID: uuid.New(),
		Blocks: []vm.ParsedBlock{
			{Start: 0, End: 4, Halt: &stop},
		},
	}
	out := Render([]vm.Flow{flow})
	require.Contains(t, out, "digraph")
	require.Contains(t, out, "b_0_4")
	require.Contains(t, out, "STOP")
}

func TestRenderMarksCappedFlows(t *testing.T) {
	target := vm.StackElement{}
	event := vm.JumpEvent{Kind: vm.JumpUnconditional, Target: target}
	flow := vm.Flow{
		ID:     uuid.New(),
		Blocks: []vm.ParsedBlock{{Start: 0, End: 3, Jump: &event, Target: &target}},
		Capped: true,
	}
	out := Render([]vm.Flow{flow})
	require.True(t, strings.Contains(out, "exploration cap reached"))
}
