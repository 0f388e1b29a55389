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

// Package word implements the fixed-width unsigned integer used for every
// value that lives on the EVM stack or in EVM memory: wrapping 256-bit
// arithmetic, logical shifts, and the hex parsing/formatting the decoder and
// CLI need.
package word

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Bits is the width of a Word in bits: the full 256-bit EVM word width,
// carried via holiman/uint256 rather than a narrower approximation.
const Bits = 256

// Bytes is the width of a Word in bytes.
const Bytes = 32

// Word is an unsigned 256-bit integer with wrapping arithmetic, matching the
// semantics EVM opcodes expect from stack values.
type Word struct {
	inner uint256.Int
}

// Zero is the additive identity.
var Zero = Word{}

// FromUint64 builds a Word from a machine-native unsigned integer.
func FromUint64(v uint64) Word {
	var w Word
	w.inner.SetUint64(v)
	return w
}

// FromBytes interprets bytes as a big-endian unsigned integer. Inputs wider
// than 32 bytes are truncated to their low 32 bytes, matching EVM's
// byte-addressed memory semantics for oversized reads.
func FromBytes(b []byte) Word {
	var w Word
	w.inner.SetBytes(b)
	return w
}

// FromHex parses a "0x"-optional hex string into a Word. Returns an error
// for non-hex characters or a value wider than 256 bits.
func FromHex(s string) (Word, error) {
	inner, err := uint256.FromHex(normalizeHex(s))
	if err != nil {
		return Word{}, fmt.Errorf("word: invalid hex %q: %w", s, err)
	}
	return Word{inner: *inner}, nil
}

func normalizeHex(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	// uint256.FromHex rejects leading zero digits; drop them, keeping one
	// digit so an all-zero string still parses as 0.
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return "0x" + s
}

// Add returns a+b, wrapping modulo 2^256.
func Add(a, b Word) Word {
	var z Word
	z.inner.Add(&a.inner, &b.inner)
	return z
}

// Sub returns a-b, wrapping modulo 2^256. EVM's SUB pops a then b and
// computes a-b; callers must preserve that operand order.
func Sub(a, b Word) Word {
	var z Word
	z.inner.Sub(&a.inner, &b.inner)
	return z
}

// Mul returns a*b, wrapping modulo 2^256.
func Mul(a, b Word) Word {
	var z Word
	z.inner.Mul(&a.inner, &b.inner)
	return z
}

// Mod returns a%b, or 0 if b is zero (EVM semantics for MOD/SMOD on a
// zero modulus).
func Mod(a, b Word) Word {
	var z Word
	z.inner.Mod(&a.inner, &b.inner)
	return z
}

// Shl returns a<<n (logical). A shift amount of Bits or more yields 0.
func Shl(a Word, n uint) Word {
	if n >= Bits {
		return Zero
	}
	var z Word
	z.inner.Lsh(&a.inner, n)
	return z
}

// Shr returns a>>n (logical, zero-filling). A shift amount of Bits or more
// yields 0.
func Shr(a Word, n uint) Word {
	if n >= Bits {
		return Zero
	}
	var z Word
	z.inner.Rsh(&a.inner, n)
	return z
}

// And returns the bitwise AND of a and b.
func And(a, b Word) Word {
	var z Word
	z.inner.And(&a.inner, &b.inner)
	return z
}

// Or returns the bitwise OR of a and b.
func Or(a, b Word) Word {
	var z Word
	z.inner.Or(&a.inner, &b.inner)
	return z
}

// Xor returns the bitwise XOR of a and b.
func Xor(a, b Word) Word {
	var z Word
	z.inner.Xor(&a.inner, &b.inner)
	return z
}

// Div returns a/b, unsigned integer division. Division by zero yields 0
// (EVM semantics for DIV/SDIV).
func Div(a, b Word) Word {
	if b.IsZero() {
		return Zero
	}
	var z Word
	z.inner.Div(&a.inner, &b.inner)
	return z
}

// Exp returns a**b, wrapping modulo 2^256.
func Exp(a, b Word) Word {
	var z Word
	z.inner.Exp(&a.inner, &b.inner)
	return z
}

// AddMod returns (a+b) mod m, with unbounded-width intermediate addition
// (no overflow between a+b and the mod), or 0 if m is zero.
func AddMod(a, b, m Word) Word {
	var z Word
	z.inner.AddMod(&a.inner, &b.inner, &m.inner)
	return z
}

// MulMod returns (a*b) mod m, with unbounded-width intermediate
// multiplication, or 0 if m is zero.
func MulMod(a, b, m Word) Word {
	var z Word
	z.inner.MulMod(&a.inner, &b.inner, &m.inner)
	return z
}

// SignExtend implements EVM's SIGNEXTEND(b, x): treats x as having b+1
// significant bytes and sign-extends it to the full width. b values of 31
// or greater leave x unchanged.
func SignExtend(b, x Word) Word {
	var z Word
	z.inner.ExtendSign(&x.inner, &b.inner)
	return z
}

// Byte returns the i-th byte of x, counting from the most significant byte
// (byte 0), or 0 if i >= 32.
func Byte(i, x Word) Word {
	if !i.inner.IsUint64() || i.inner.Uint64() >= 32 {
		return Zero
	}
	b := x.Bytes32()
	return FromUint64(uint64(b[i.inner.Uint64()]))
}

// Not returns the bitwise complement of a.
func Not(a Word) Word {
	var z Word
	z.inner.Not(&a.inner)
	return z
}

// Eq reports whether a equals b.
func Eq(a, b Word) bool { return a.inner.Eq(&b.inner) }

// Lt reports whether a < b, unsigned.
func Lt(a, b Word) bool { return a.inner.Lt(&b.inner) }

// Gt reports whether a > b, unsigned.
func Gt(a, b Word) bool { return a.inner.Gt(&b.inner) }

// Slt reports whether a < b, treating both as two's-complement signed
// 256-bit integers (MSB-based sign).
func Slt(a, b Word) bool { return a.inner.Slt(&b.inner) }

// Sgt reports whether a > b, signed.
func Sgt(a, b Word) bool { return a.inner.Sgt(&b.inner) }

// IsZero reports whether w is the zero word.
func (w Word) IsZero() bool { return w.inner.IsZero() }

// IsUint64 reports whether w fits in a uint64 (no bits set above bit 63).
// Callers must check this before calling Uint64 on a value that might be
// used as a shift amount or index, since Uint64 silently truncates.
func (w Word) IsUint64() bool { return w.inner.IsUint64() }

// Uint64 returns the low 64 bits of w.
func (w Word) Uint64() uint64 { return w.inner.Uint64() }

// Bytes32 returns the big-endian 32-byte representation of w.
func (w Word) Bytes32() [32]byte { return w.inner.Bytes32() }

// Bytes returns the big-endian representation of w with leading zero bytes
// stripped (empty slice for zero).
func (w Word) Bytes() []byte { return w.inner.Bytes() }

// Hex formats w as a fixed-width, zero-padded "0x"-prefixed 64-hex-digit
// string.
func (w Word) Hex() string {
	b := w.Bytes32()
	return "0x" + fmt.Sprintf("%x", b[:])
}

// String implements fmt.Stringer using the fixed-width hex form.
func (w Word) String() string { return w.Hex() }
