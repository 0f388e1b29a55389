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
)

// ParsedBlock is one emitted basic-block record from a block parse. Target
// is the resolved jump destination when Jump is set; both are nil for a
// block that halted.
type ParsedBlock struct {
	Start      bytecode.PC
	End        bytecode.PC
	ExitStack  *Stack
	ExitMemory *Memory
	Jump       *JumpEvent
	Target     *StackElement
	Halt       *HaltReason
}

// ParseBlock runs a linear symbolic execution starting at entry with the
// given stack/memory, interpreting instructions until a terminator and
// returning every ParsedBlock emitted along the way. JUMPI does not stop
// parsing — it emits a ParsedBlock and continues into the fallthrough, so
// the returned slice can contain multiple blocks sharing Start==entry.
//
// If endPC is non-nil, parsing stops (with no further emission) once pc
// exceeds it — used by rescans that refine a block's exit state from a
// caller's context.
func ParseBlock(instrs bytecode.InstructionMap, entry bytecode.PC, initialStack *Stack, initialMemory *Memory, endPC *bytecode.PC, env Environment) ([]ParsedBlock, error) {
	stack := initialStack.Clone()
	mem := initialMemory.Clone()
	pc := entry

	var blocks []ParsedBlock
	for {
		if endPC != nil && pc > *endPC {
			return blocks, nil
		}
		instr, ok := instrs[pc]
		if !ok {
			return blocks, fmt.Errorf("vm: pc=%d does not address a decoded instruction (landed inside an immediate, or past end of code)", pc)
		}

		result, err := Step(instr, stack, mem, &pc, env)
		if err != nil {
			return blocks, err
		}

		if result.Continue() {
			pc++
			continue
		}

		if reason, ok := result.Halt(); ok {
			blocks = append(blocks, ParsedBlock{
				Start: entry, End: pc,
				ExitStack: stack.Clone(), ExitMemory: mem.Clone(),
				Halt: &reason,
			})
			return blocks, nil
		}

		if event, ok := result.Jump(); ok {
			target := event.Target
			blocks = append(blocks, ParsedBlock{
				Start: entry, End: pc,
				ExitStack: stack.Clone(), ExitMemory: mem.Clone(),
				Jump: &event, Target: &target,
			})
			return blocks, nil
		}

		if event, ok := result.JumpI(); ok {
			target := event.Target
			blocks = append(blocks, ParsedBlock{
				Start: entry, End: pc,
				ExitStack: stack.Clone(), ExitMemory: mem.Clone(),
				Jump: &event, Target: &target,
			})
			pc++
			continue
		}
	}
}
