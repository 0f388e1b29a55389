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

// Package vm implements the symbolic stack/memory model, the per-opcode
// interpreter, the basic-block parser, and the flow explorer — the core of
// evmflow.
package vm

import (
	"github.com/n42blockchain/evmflow/internal/bytecode"
	"github.com/n42blockchain/evmflow/internal/word"
	"github.com/n42blockchain/evmflow/pkg/errors"
)

// Step interprets a single instruction, mutating stack, memory and pc in
// place and returning how the block parser should proceed. pc is advanced
// here only for PUSH's immediate bytes; the opcode byte itself is
// accounted for by the block parser's own +1 on Continue, since by the
// time Step returns, PC has already been adjusted for any PUSH immediate.
func Step(instr bytecode.Instruction, stack *Stack, mem *Memory, pc *bytecode.PC, env Environment) (StepResult, error) {
	op := instr.Opcode
	name := bytecode.Name(op)

	switch {
	case bytecode.IsPush(op):
		n := bytecode.PushSize(op)
		var v word.Word
		if n > 0 {
			v = word.FromBytes(instr.Immediates)
		}
		stack.Push(StackElement{Value: v, Origin: instr.Index, Size: maxInt(n, 1)})
		*pc += bytecode.PC(n)
		return cont(), nil

	case bytecode.IsDup(op):
		if err := stack.Dup(bytecode.DupDepth(op), instr.Index); err != nil {
			return StepResult{}, err
		}
		return cont(), nil

	case bytecode.IsSwap(op):
		if err := stack.Swap(bytecode.SwapDepth(op), instr.Index); err != nil {
			return StepResult{}, err
		}
		return cont(), nil

	case bytecode.IsLog(op):
		n := 2 + (int(op) - int(bytecode.LOG0))
		if _, err := stack.PopN(n, instr.Index, name); err != nil {
			return StepResult{}, err
		}
		return cont(), nil
	}

	if result, handled, err := arithmeticStep(op, instr.Index, stack); handled {
		return result, err
	}

	switch op {
	case bytecode.STOP:
		return halt(HaltStop), nil
	case bytecode.RETURN:
		if _, err := stack.PopN(2, instr.Index, name); err != nil {
			return StepResult{}, err
		}
		return halt(HaltReturn), nil
	case bytecode.REVERT:
		if _, err := stack.PopN(2, instr.Index, name); err != nil {
			return StepResult{}, err
		}
		return halt(HaltRevert), nil
	case bytecode.INVALID:
		return halt(HaltInvalid), nil
	case bytecode.SELFDESTRUCT:
		if _, err := stack.PopN(1, instr.Index, name); err != nil {
			return StepResult{}, err
		}
		return halt(HaltSelfdestruct), nil

	case bytecode.JUMP:
		args, err := stack.PopN(1, instr.Index, name)
		if err != nil {
			return StepResult{}, err
		}
		return jump(JumpEvent{Kind: JumpUnconditional, Target: args[0], SourcePC: instr.Index}), nil

	case bytecode.JUMPI:
		args, err := stack.PopN(2, instr.Index, name)
		if err != nil {
			return StepResult{}, err
		}
		target, cond := args[0], args[1]
		return jumpI(JumpEvent{Kind: JumpConditional, Target: target, Condition: &cond, SourcePC: instr.Index}), nil

	case bytecode.JUMPDEST:
		return cont(), nil

	case bytecode.POP:
		if _, err := stack.PopN(1, instr.Index, name); err != nil {
			return StepResult{}, err
		}
		return cont(), nil

	case bytecode.PC:
		stack.Push(StackElement{Value: word.FromUint64(uint64(instr.Index)), Origin: instr.Index, Size: 1})
		return cont(), nil

	case bytecode.MSIZE:
		stack.Push(StackElement{Value: word.FromUint64(uint64(mem.Len())), Origin: instr.Index, Size: 1})
		return cont(), nil

	case bytecode.GAS:
		return pushPlaceholder(stack, instr.Index), nil

	case bytecode.MLOAD:
		args, err := stack.PopN(1, instr.Index, name)
		if err != nil {
			return StepResult{}, err
		}
		e, err := mem.MLoad(args[0].Value, instr.Index)
		if err != nil {
			return StepResult{}, err
		}
		stack.Push(e)
		return cont(), nil

	case bytecode.MSTORE:
		args, err := stack.PopN(2, instr.Index, name)
		if err != nil {
			return StepResult{}, err
		}
		offset, value := args[0], args[1]
		if err := mem.MStore(value, offset.Value, instr.Index); err != nil {
			return StepResult{}, err
		}
		return cont(), nil

	case bytecode.MSTORE8:
		args, err := stack.PopN(2, instr.Index, name)
		if err != nil {
			return StepResult{}, err
		}
		offset, value := args[0], args[1]
		if err := mem.MStore8(value, offset.Value, instr.Index); err != nil {
			return StepResult{}, err
		}
		return cont(), nil

	case bytecode.MCOPY:
		if _, err := stack.PopN(3, instr.Index, name); err != nil {
			return StepResult{}, err
		}
		return cont(), nil

	case bytecode.SLOAD:
		args, err := stack.PopN(1, instr.Index, name)
		if err != nil {
			return StepResult{}, err
		}
		stack.Push(storageLoad(args[0].Value, instr.Index))
		return cont(), nil

	case bytecode.SSTORE:
		args, err := stack.PopN(2, instr.Index, name)
		if err != nil {
			return StepResult{}, err
		}
		storageStore(args[0].Value, args[1])
		return cont(), nil

	case bytecode.TLOAD:
		if _, err := stack.PopN(1, instr.Index, name); err != nil {
			return StepResult{}, err
		}
		stack.Push(StackElement{Value: word.Zero, Origin: instr.Index, Size: 1})
		return cont(), nil

	case bytecode.TSTORE:
		if _, err := stack.PopN(2, instr.Index, name); err != nil {
			return StepResult{}, err
		}
		return cont(), nil

	case bytecode.CALLVALUE:
		stack.Push(env.CallvalueOrDefault(instr.Index))
		return cont(), nil

	case bytecode.CALLDATALOAD:
		args, err := stack.PopN(1, instr.Index, name)
		if err != nil {
			return StepResult{}, err
		}
		stack.Push(env.CalldataLoad(args[0].Value, instr.Index))
		return cont(), nil

	case bytecode.CALLDATASIZE:
		stack.Push(env.CalldataSize(instr.Index))
		return cont(), nil

	case bytecode.CALLDATACOPY:
		if _, err := stack.PopN(3, instr.Index, name); err != nil {
			return StepResult{}, err
		}
		return cont(), nil

	case bytecode.CODESIZE:
		stack.Push(StackElement{Value: word.FromUint64(uint64(env.CodeLen)), Origin: instr.Index, Size: 32})
		return cont(), nil
	}

	if in, out, ok := bytecode.StackInOut(op); ok {
		return placeholderStep(stack, instr.Index, name, in, out)
	}
	return StepResult{}, &errors.Unsupported{PC: int(instr.Index), Opcode: name}
}

// placeholderStep handles every opcode not meaningfully interpreted above
// (arithmetic/comparison/bitwise are handled by arithmeticStep in arithmetic.go;
// this covers environment/external opcodes like BALANCE, SHA3, CALL,
// CREATE, EXTCODESIZE, ...): it consumes the opcode's documented stack
// input and, if it produces a value, pushes a symbolic placeholder
// {value=0, size=1, origin=pc} so analysis can proceed past opcodes
// outside the control-flow-recovery core.
func placeholderStep(stack *Stack, pc bytecode.PC, name string, in, out int) (StepResult, error) {
	if _, err := stack.PopN(in, pc, name); err != nil {
		return StepResult{}, err
	}
	for i := 0; i < out; i++ {
		stack.Push(StackElement{Value: word.Zero, Origin: pc, Size: 1})
	}
	return cont(), nil
}

func pushPlaceholder(stack *Stack, pc bytecode.PC) StepResult {
	stack.Push(StackElement{Value: word.Zero, Origin: pc, Size: 1})
	return cont()
}

func cont() StepResult   { return StepResult{kind: outcomeContinue} }
func halt(r HaltReason) StepResult { return StepResult{kind: outcomeHalt, halt: r} }
func jump(e JumpEvent) StepResult  { return StepResult{kind: outcomeJump, jump: e} }
func jumpI(e JumpEvent) StepResult { return StepResult{kind: outcomeJumpI, jump: e} }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
