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

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/n42blockchain/evmflow/internal/vm"
)

// jsonBlock and jsonFlow are the wire shapes for --json output: ParsedBlock
// carries interpreter-internal state (ExitStack, ExitMemory) that has no
// business leaving the process, so this is a deliberate projection
// rather than a direct marshal of vm.Flow.
type jsonBlock struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Halt   string `json:"halt,omitempty"`
	Jump   string `json:"jump,omitempty"`
	Target string `json:"target,omitempty"`
}

type jsonFlow struct {
	ID     string      `json:"id"`
	Capped bool        `json:"capped"`
	Blocks []jsonBlock `json:"blocks"`
}

func toJSONFlows(flows []vm.Flow) []jsonFlow {
	out := make([]jsonFlow, 0, len(flows))
	for _, f := range flows {
		jf := jsonFlow{ID: f.ID.String(), Capped: f.Capped}
		for _, b := range f.Blocks {
			jb := jsonBlock{Start: int(b.Start), End: int(b.End)}
			if b.Halt != nil {
				jb.Halt = b.Halt.String()
			}
			if b.Jump != nil {
				jb.Jump = b.Jump.Kind.String()
				jb.Target = b.Target.Value.Hex()
			}
			jf.Blocks = append(jf.Blocks, jb)
		}
		out = append(out, jf)
	}
	return out
}

func printJSON(result *vm.ExploreResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	errStrings := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		errStrings = append(errStrings, e.Error())
	}
	return enc.Encode(struct {
		Flows  []jsonFlow `json:"flows"`
		Errors []string   `json:"errors,omitempty"`
	}{Flows: toJSONFlows(result.Flows), Errors: errStrings})
}

func printSummary(result *vm.ExploreResult) {
	capped := 0
	for _, f := range result.Flows {
		if f.Capped {
			capped++
		}
	}
	fmt.Printf("flows explored: %d (%d capped)\n", len(result.Flows), capped)
	fmt.Printf("resolved jump targets: %d\n", result.UniqueTargets.Cardinality())
	if len(result.Errors) > 0 {
		fmt.Printf("abandoned paths: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e.Error())
		}
	}
}
