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
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/VictoriaMetrics/metrics"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/paulbellamy/ratecounter"

	"github.com/n42blockchain/evmflow/internal/bytecode"
	"github.com/n42blockchain/evmflow/log"
	"github.com/n42blockchain/evmflow/pkg/errors"
)

// DefaultExplorationDepth is the per-flow cap on successive block
// extensions — the actual cycle-termination mechanism. A contract with a
// loop whose jump target is resolvable would otherwise make exploration
// diverge; the cap is what actually bounds it, not the block-revisit
// bitmap below.
const DefaultExplorationDepth = 25

// DefaultMaxFlows bounds the total number of completed+capped flows a single
// Explore call will record. Fork-at-JUMPI branching is exponential in the
// worst case; this is this analyzer's own backstop against that blowup, not
// part of the cycle-termination story above.
const DefaultMaxFlows = 100_000

// Flow is one explored path through the program, a sequence of ParsedBlocks
// chained end to end. Capped marks a flow whose last block forks into a
// jump target that was never parsed because the depth cap was reached.
type Flow struct {
	ID     uuid.UUID
	Blocks []ParsedBlock
	Capped bool
}

// ExploreOptions configures a single Explore call. MaxDepth and MaxFlows
// fall back to their Default* constants when zero.
type ExploreOptions struct {
	MaxDepth int
	MaxFlows int
}

// ExploreResult collects everything an Explore call produced: the completed
// (or capped) flows, any block-parse errors encountered along abandoned
// paths, and the set of jump target PCs resolved across all of them. A
// target is recorded before it is checked, so one that turned out not to be
// a JUMPDEST is included as well.
type ExploreResult struct {
	Flows         []Flow
	Errors        []error
	UniqueTargets mapset.Set[bytecode.PC]
}

var (
	metricBlocksParsed  = metrics.NewCounter("evmflow_blocks_parsed_total")
	metricFlowsComplete = metrics.NewCounter("evmflow_flows_completed_total")
	metricCapHits       = metrics.NewCounter("evmflow_exploration_cap_hits_total")
)

type explorer struct {
	instrs  bytecode.InstructionMap
	env     Environment
	opts    ExploreOptions
	ctx     context.Context
	logger  log.Logger
	rate    *ratecounter.RateCounter
	revisit *roaring.Bitmap
	memo    *blockMemo

	result ExploreResult
}

// Explore performs depth-first exploration starting at entry with empty
// stack and memory: it repeatedly parses blocks, following every resolved
// jump target as a new continuation and forking a sibling flow at every
// conditional jump encountered along the way.
func Explore(ctx context.Context, instrs bytecode.InstructionMap, entry bytecode.PC, env Environment, opts ExploreOptions) (*ExploreResult, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultExplorationDepth
	}
	if opts.MaxFlows <= 0 {
		opts.MaxFlows = DefaultMaxFlows
	}

	e := &explorer{
		instrs:  instrs,
		env:     env,
		opts:    opts,
		ctx:     ctx,
		logger:  log.New("component", "explorer"),
		rate:    ratecounter.NewRateCounter(1 * time.Second),
		revisit: roaring.New(),
		memo:    newBlockMemo(),
		result: ExploreResult{
			UniqueTargets: mapset.NewThreadUnsafeSet[bytecode.PC](),
		},
	}

	if err := e.extend(entry, NewStack(), NewMemory(), 0, nil); err != nil {
		return &e.result, err
	}
	e.logger.Info("exploration finished", "flows", len(e.result.Flows), "errors", len(e.result.Errors))
	return &e.result, nil
}

// extend parses one block run starting at pc and appends its blocks to
// prefix, finalizing a Flow on halt, forking a sibling exploration at every
// jump encountered, and capping further extension once depth exceeds the
// configured limit.
func (e *explorer) extend(pc bytecode.PC, stack *Stack, mem *Memory, depth int, prefix []ParsedBlock) error {
	if err := e.ctx.Err(); err != nil {
		return err
	}
	if len(e.result.Flows) >= e.opts.MaxFlows {
		return nil
	}

	if e.revisit.Contains(uint32(pc)) {
		e.logger.Debug("re-entering previously visited block entry", "pc", pc, "depth", depth)
	}
	e.revisit.Add(uint32(pc))

	if depth > 0 {
		if instr, ok := e.instrs[pc]; !ok || instr.Opcode != bytecode.JUMPDEST {
			e.result.Errors = append(e.result.Errors, &errors.MalformedJumpTarget{PC: int(pc), Target: fmt.Sprintf("%x", pc)})
			return nil
		}
	}

	blocks, err := e.memo.parseBlockMemoized(e.instrs, pc, stack, mem, e.env)
	if err != nil {
		e.result.Errors = append(e.result.Errors, err)
		return nil
	}
	metricBlocksParsed.Add(len(blocks))
	e.rate.Incr(int64(len(blocks)))

	acc := make([]ParsedBlock, len(prefix), len(prefix)+len(blocks))
	copy(acc, prefix)

	for _, blk := range blocks {
		acc = append(acc, blk)

		if blk.Target != nil {
			e.result.UniqueTargets.Add(bytecode.PC(blk.Target.Value.Uint64()))
		}

		if blk.Halt != nil {
			e.finalize(acc, false)
			return nil
		}

		if blk.Jump != nil {
			if depth+1 > e.opts.MaxDepth {
				metricCapHits.Inc()
				id := e.finalize(append([]ParsedBlock(nil), acc...), true)
				e.result.Errors = append(e.result.Errors, &errors.ExplorationCap{FlowID: id.String(), BlockCap: e.opts.MaxDepth})
				continue
			}
			target := bytecode.PC(blk.Target.Value.Uint64())
			branch := append([]ParsedBlock(nil), acc...)
			if err := e.extend(target, blk.ExitStack.Clone(), blk.ExitMemory.Clone(), depth+1, branch); err != nil {
				return err
			}
		}
	}
	return nil
}

// finalize records a completed (or capped) Flow and returns its ID, so a
// capped branch's caller can tag the accompanying ExplorationCap with the
// same identifier.
func (e *explorer) finalize(blocks []ParsedBlock, capped bool) uuid.UUID {
	id := uuid.New()
	e.result.Flows = append(e.result.Flows, Flow{ID: id, Blocks: blocks, Capped: capped})
	metricFlowsComplete.Inc()
	if capped {
		e.logger.Warn("flow capped by exploration depth", "blocks", len(blocks))
	}
	return id
}
