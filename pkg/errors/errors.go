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

// Package errors defines the error kinds used throughout evmflow. This
// package provides a centralized location for error definitions to ensure
// consistency and avoid duplication across packages, following the same
// grouped-sentinel-error convention the rest of the codebase uses.
package errors

import (
	"errors"
	"fmt"
)

// =====================
// Input & decode errors
// =====================
//
// These terminate the program with a diagnostic: the input could not be
// turned into bytecode at all.

var (
	// ErrEmptyInput is returned when no hex characters were supplied.
	ErrEmptyInput = errors.New("input: empty bytecode")

	// ErrNoSource is returned when neither --input nor --filename was given.
	ErrNoSource = errors.New("input: no source specified (use --input or --filename)")

	// ErrNonHexChar is returned when the input string contains a byte
	// outside [0-9a-fA-F].
	ErrNonHexChar = errors.New("input: non-hex character in bytecode string")

	// ErrOddLength is returned when the hex string has an odd number of
	// digits (cannot pair into whole bytes).
	ErrOddLength = errors.New("input: odd-length hex string")

	// ErrFileUnreadable is returned when --filename names a path that
	// cannot be opened or read.
	ErrFileUnreadable = errors.New("input: file not readable")

	// ErrInvalidDecimal is returned when --callvalue is not a non-negative
	// base-10 integer.
	ErrInvalidDecimal = errors.New("input: invalid decimal call value")
)

// InputError wraps one of the sentinel errors above with the offending
// detail.
type InputError struct {
	Err     error
	Context string
}

func (e *InputError) Error() string {
	if e.Context == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Context)
}

func (e *InputError) Unwrap() error { return e.Err }

// NewInputError wraps one of the sentinel input errors with a free-text
// detail (e.g. the file path, or the offending byte's position).
func NewInputError(sentinel error, context string) *InputError {
	return &InputError{Err: sentinel, Context: context}
}

// =====================
// Flow-exploration errors
// =====================
//
// These terminate only the containing flow branch; other flows continue
// to be explored.

// StackUnderflow is returned when an opcode requires more stack elements
// than are present.
type StackUnderflow struct {
	PC       int
	Opcode   string
	Required int
	Have     int
}

func (e *StackUnderflow) Error() string {
	return fmt.Sprintf("stack underflow at pc=%d (%s): need %d element(s), have %d", e.PC, e.Opcode, e.Required, e.Have)
}

// MalformedJumpTarget is returned when a resolved jump target does not
// point to a JUMPDEST instruction.
type MalformedJumpTarget struct {
	PC     int
	Target string
}

func (e *MalformedJumpTarget) Error() string {
	return fmt.Sprintf("malformed jump target at pc=%d: 0x%s is not a JUMPDEST", e.PC, e.Target)
}

// Unsupported is returned when Step encounters a decoded opcode with no
// case in the interpreter and no entry in the stack-arity table, so even a
// placeholder push/pop can't be synthesized for it.
type Unsupported struct {
	PC     int
	Opcode string
}

func (e *Unsupported) Error() string {
	return fmt.Sprintf("unsupported opcode %s at pc=%d", e.Opcode, e.PC)
}

// ExplorationCap is not an error in the program-termination sense — it is
// a warning carried alongside a partial Flow, not a reason to discard it.
// It is still a typed value so callers can log/count it uniformly with the
// errors above.
type ExplorationCap struct {
	FlowID    string
	BlockCap  int
}

func (e *ExplorationCap) Error() string {
	return fmt.Sprintf("flow %s exceeded the %d-block exploration cap", e.FlowID, e.BlockCap)
}
