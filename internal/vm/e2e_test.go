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

package vm_test

import (
	"context"
	stderrors "errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/n42blockchain/evmflow/internal/bytecode"
	"github.com/n42blockchain/evmflow/internal/vm"
	vmerrors "github.com/n42blockchain/evmflow/pkg/errors"
)

func decodeOrPanic(raw []byte) bytecode.InstructionMap {
	instrs, err := bytecode.Decode(raw)
	Expect(err).NotTo(HaveOccurred())
	return instrs
}

func totalBlocks(flows []vm.Flow) int {
	n := 0
	for _, f := range flows {
		n += len(f.Blocks)
	}
	return n
}

var _ = Describe("end-to-end bytecode scenarios", func() {
	It("scenario 1: PUSH1 3; JUMP; JUMPDEST; STOP resolves to one flow, two blocks", func() {
		instrs := decodeOrPanic([]byte{0x60, 0x03, 0x56, 0x5b, 0x00})
		result, err := vm.Explore(context.Background(), instrs, 0, vm.Environment{}, vm.ExploreOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Flows).To(HaveLen(1))
		Expect(totalBlocks(result.Flows)).To(Equal(2))
		first := result.Flows[0].Blocks[0]
		Expect(first.Target).NotTo(BeNil())
		Expect(first.Target.Value.Uint64()).To(Equal(uint64(3)))
		last := result.Flows[0].Blocks[len(result.Flows[0].Blocks)-1]
		Expect(last.Halt).NotTo(BeNil())
	})

	It("scenario 2: a chain of three unconditional jumps forms a single four-block flow", func() {
		instrs := decodeOrPanic([]byte{0x60, 0x0b, 0x60, 0x09, 0x60, 0x07, 0x56, 0x5b, 0x56, 0x5b, 0x56, 0x5b, 0x00})
		result, err := vm.Explore(context.Background(), instrs, 0, vm.Environment{}, vm.ExploreOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Flows).To(HaveLen(1))
		Expect(result.Flows[0].Blocks).To(HaveLen(4))
		last := result.Flows[0].Blocks[3]
		Expect(last.Halt).NotTo(BeNil())
	})

	It("scenario 3: a single JUMPI forks into exactly two four-block flows", func() {
		instrs := decodeOrPanic([]byte{0x60, 0x0e, 0x60, 0x0c, 0x60, 0x01, 0x60, 0x0a, 0x57, 0x56, 0x5b, 0x56, 0x5b, 0x56, 0x5b, 0x00})
		result, err := vm.Explore(context.Background(), instrs, 0, vm.Environment{}, vm.ExploreOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Flows).To(HaveLen(2))
		for _, f := range result.Flows {
			Expect(f.Blocks).To(HaveLen(4))
		}
	})

	It("scenario 5: a CBOR metadata trailer is excluded from the instruction map", func() {
		code := append([]byte{0x60, 0x01, 0x00}, []byte{0xa2, 0x64, 0x69, 0x70, 0x66, 0x73, 0x58, 0x22, 0xde, 0xad}...)
		instrs, err := bytecode.Decode(code)
		Expect(err).NotTo(HaveOccurred())
		for pc := range instrs {
			Expect(int(pc)).To(BeNumerically("<", 3))
		}
	})

	It("scenario 4: CALLVALUE guard with REVERT on both arms resolves to one completed flow and one stack-underflow error", func() {
		// PUSH1 0x40; PUSH1 0x60; MSTORE; CALLVALUE; DUP1; ISZERO;
		// PUSH2 0x0010; JUMPI; PUSH1 0x00; DUP1; REVERT; JUMPDEST; REVERT
		//
		// Under this interpreter's strict stack-underflow checking, REVERT
		// always pops (offset, size). The fallthrough arm stacks a fresh
		// (0, 0) pair before its REVERT and completes normally. The
		// taken-jump arm lands on JUMPDEST with only the callvalue itself
		// live on the stack, so its REVERT underflows rather than producing
		// a second completed flow.
		code := []byte{0x60, 0x40, 0x60, 0x60, 0x52, 0x34, 0x80, 0x15, 0x61, 0x00, 0x10, 0x57, 0x60, 0x00, 0x80, 0xfd, 0x5b, 0xfd}
		instrs := decodeOrPanic(code)
		result, err := vm.Explore(context.Background(), instrs, 0, vm.Environment{}, vm.ExploreOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Flows).To(HaveLen(1))
		Expect(result.Errors).To(HaveLen(1))

		var underflow *vmerrors.StackUnderflow
		Expect(stderrors.As(result.Errors[0], &underflow)).To(BeTrue())
		Expect(underflow.Opcode).To(Equal("REVERT"))
		Expect(underflow.Have).To(Equal(1))
	})
})
