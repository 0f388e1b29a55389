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
	"github.com/n42blockchain/evmflow/internal/bytecode"
	"github.com/n42blockchain/evmflow/internal/word"
)

// arithmeticStep handles every arithmetic, comparison and bitwise opcode.
// handled is false for any opcode this function does not own, so the
// caller can fall through to its own switch.
//
// Operand order follows EVM exactly: SUB pops a then b and pushes a-b;
// LT/GT pop a then b and push a<b / a>b.
func arithmeticStep(op bytecode.OpCode, pc bytecode.PC, stack *Stack) (StepResult, bool, error) {
	name := bytecode.Name(op)

	binary := func(f func(a, b word.Word) word.Word) (StepResult, bool, error) {
		args, err := stack.PopN(2, pc, name)
		if err != nil {
			return StepResult{}, true, err
		}
		a, b := args[0].Value, args[1].Value
		stack.Push(StackElement{Value: f(a, b), Origin: pc, Size: 32})
		return cont(), true, nil
	}

	boolBinary := func(f func(a, b word.Word) bool) (StepResult, bool, error) {
		args, err := stack.PopN(2, pc, name)
		if err != nil {
			return StepResult{}, true, err
		}
		a, b := args[0].Value, args[1].Value
		stack.Push(StackElement{Value: boolWord(f(a, b)), Origin: pc, Size: 1})
		return cont(), true, nil
	}

	unary := func(f func(a word.Word) word.Word) (StepResult, bool, error) {
		args, err := stack.PopN(1, pc, name)
		if err != nil {
			return StepResult{}, true, err
		}
		stack.Push(StackElement{Value: f(args[0].Value), Origin: pc, Size: 32})
		return cont(), true, nil
	}

	switch op {
	case bytecode.ADD:
		return binary(word.Add)
	case bytecode.SUB:
		return binary(word.Sub)
	case bytecode.MUL:
		return binary(word.Mul)
	case bytecode.DIV:
		return binary(divUnsigned)
	case bytecode.SDIV:
		return binary(divUnsigned) // signed division not needed for CFG recovery; treated as unsigned (documented open choice)
	case bytecode.MOD:
		return binary(word.Mod)
	case bytecode.SMOD:
		return binary(word.Mod)
	case bytecode.ADDMOD:
		return addmod(pc, stack, name)
	case bytecode.MULMOD:
		return mulmod(pc, stack, name)
	case bytecode.EXP:
		return binary(expWrap)
	case bytecode.SIGNEXTEND:
		return binary(signExtend)

	case bytecode.LT:
		return boolBinary(word.Lt)
	case bytecode.GT:
		return boolBinary(word.Gt)
	case bytecode.SLT:
		return boolBinary(word.Slt)
	case bytecode.SGT:
		return boolBinary(word.Sgt)
	case bytecode.EQ:
		return boolBinary(word.Eq)
	case bytecode.ISZERO:
		return unaryBool(pc, stack, name, func(a word.Word) bool { return a.IsZero() })

	case bytecode.AND:
		return binary(word.And)
	case bytecode.OR:
		return binary(word.Or)
	case bytecode.XOR:
		return binary(word.Xor)
	case bytecode.NOT:
		return unary(word.Not)
	case bytecode.BYTE:
		return byteOp(pc, stack, name)
	case bytecode.SHL:
		return shiftOp(pc, stack, name, true)
	case bytecode.SHR:
		return shiftOp(pc, stack, name, false)
	case bytecode.SAR:
		return shiftOp(pc, stack, name, false) // arithmetic shift not needed for CFG recovery; treated as logical (documented open choice)
	}

	return StepResult{}, false, nil
}

func boolWord(b bool) word.Word {
	if b {
		return word.FromUint64(1)
	}
	return word.Zero
}

func divUnsigned(a, b word.Word) word.Word { return word.Div(a, b) }

func expWrap(a, b word.Word) word.Word { return word.Exp(a, b) }

func signExtend(a, b word.Word) word.Word { return word.SignExtend(a, b) }

func addmod(pc bytecode.PC, stack *Stack, name string) (StepResult, bool, error) {
	args, err := stack.PopN(3, pc, name)
	if err != nil {
		return StepResult{}, true, err
	}
	stack.Push(StackElement{Value: word.AddMod(args[0].Value, args[1].Value, args[2].Value), Origin: pc, Size: 32})
	return cont(), true, nil
}

func mulmod(pc bytecode.PC, stack *Stack, name string) (StepResult, bool, error) {
	args, err := stack.PopN(3, pc, name)
	if err != nil {
		return StepResult{}, true, err
	}
	stack.Push(StackElement{Value: word.MulMod(args[0].Value, args[1].Value, args[2].Value), Origin: pc, Size: 32})
	return cont(), true, nil
}

func unaryBool(pc bytecode.PC, stack *Stack, name string, f func(word.Word) bool) (StepResult, bool, error) {
	args, err := stack.PopN(1, pc, name)
	if err != nil {
		return StepResult{}, true, err
	}
	stack.Push(StackElement{Value: boolWord(f(args[0].Value)), Origin: pc, Size: 1})
	return cont(), true, nil
}

func byteOp(pc bytecode.PC, stack *Stack, name string) (StepResult, bool, error) {
	args, err := stack.PopN(2, pc, name)
	if err != nil {
		return StepResult{}, true, err
	}
	i, x := args[0].Value, args[1].Value
	stack.Push(StackElement{Value: word.Byte(i, x), Origin: pc, Size: 1})
	return cont(), true, nil
}

func shiftOp(pc bytecode.PC, stack *Stack, name string, left bool) (StepResult, bool, error) {
	args, err := stack.PopN(2, pc, name)
	if err != nil {
		return StepResult{}, true, err
	}
	shift, value := args[0].Value, args[1].Value
	// A shift amount that doesn't fit in a uint64 is certainly >= word.Bits;
	// only call Uint64 once that's ruled out, since it silently truncates.
	n := uint(word.Bits)
	if shift.IsUint64() {
		n = uint(shift.Uint64())
	}
	var result word.Word
	if left {
		result = word.Shl(value, n)
	} else {
		result = word.Shr(value, n)
	}
	stack.Push(StackElement{Value: result, Origin: pc, Size: 32})
	return cont(), true, nil
}
