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
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/n42blockchain/evmflow/internal/bytecode"
)

// blockMemoCapacity is the entry count of the parsed-block memoization
// cache: re-entering the same jump destination with the same incoming stack
// shape (a common pattern for dispatcher-style blocks reached from many call
// sites with identical argument layouts) reuses the prior parse instead of
// re-running the interpreter over it.
const blockMemoCapacity = 1024

// blockMemo is one Explore call's parsed-block cache. It is scoped per call
// (not process-wide) because its key does not capture env or the
// instruction map being explored, both of which are fixed within a single
// Explore call but can legitimately differ between two calls that happen to
// share an (entry, stack) pair.
type blockMemo struct {
	cache *lru.Cache[string, []ParsedBlock]
}

func newBlockMemo() *blockMemo {
	cache, _ := lru.New[string, []ParsedBlock](blockMemoCapacity)
	return &blockMemo{cache: cache}
}

// fingerprint derives the memoization key from the entry PC, each stack
// element's value/origin/size, and the full contents of memory (each cell's
// byte and origin, since MLOAD results and exit memory carry origins). A parse's
// result can depend on memory (an MLOAD's value can resolve a jump target or
// feed arithmetic that does), so two calls sharing an (entry, stack) pair
// but differing in memory are not guaranteed to reparse identically and
// must not collide in the cache.
func fingerprint(entry bytecode.PC, stack *Stack, mem *Memory) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(entry)))
	for _, e := range stack.Elements() {
		b.WriteByte('|')
		b.WriteString(e.Value.Hex())
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(int(e.Origin)))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(e.Size))
	}
	b.WriteByte(';')
	b.Write(mem.bytes())
	for _, c := range mem.cells {
		b.WriteByte(',')
		if c.Origin != nil {
			b.WriteString(strconv.Itoa(int(*c.Origin)))
		}
	}
	return b.String()
}

// parseBlockMemoized wraps ParseBlock with m's cache. It never changes
// ParseBlock's observable behavior, only whether the interpreter actually
// runs for a given (entry, stack, memory) tuple within this Explore call.
func (m *blockMemo) parseBlockMemoized(instrs bytecode.InstructionMap, entry bytecode.PC, stack *Stack, mem *Memory, env Environment) ([]ParsedBlock, error) {
	key := fingerprint(entry, stack, mem)
	if cached, ok := m.cache.Get(key); ok {
		return cached, nil
	}
	blocks, err := ParseBlock(instrs, entry, stack, mem, nil, env)
	if err != nil {
		return nil, err
	}
	m.cache.Add(key, blocks)
	return blocks, nil
}
