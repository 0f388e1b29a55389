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

// Package cfgexport renders explored Flows as Graphviz DOT source, the
// human-inspectable counterpart to the JSON Flow output.
package cfgexport

import (
	"fmt"

	"github.com/emicklei/dot"

	"github.com/n42blockchain/evmflow/internal/bytecode"
	"github.com/n42blockchain/evmflow/internal/vm"
)

// Render builds one Graphviz graph covering every flow in flows: one node
// per ParsedBlock (labelled with its PC range and terminator), one edge per
// resolved jump, and a distinct annotation node for a capped flow's last
// block, which has no successor to draw an edge to.
func Render(flows []vm.Flow) string {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "TB")

	nodes := make(map[string]dot.Node)

	nodeFor := func(blk vm.ParsedBlock) dot.Node {
		id := blockID(blk)
		if n, ok := nodes[id]; ok {
			return n
		}
		n := g.Node(id).Label(blockLabel(blk))
		if blk.Halt != nil {
			n.Attr("shape", "doublecircle")
		} else {
			n.Attr("shape", "box")
		}
		nodes[id] = n
		return n
	}

	for _, flow := range flows {
		var prev dot.Node
		havePrev := false
		for _, blk := range flow.Blocks {
			n := nodeFor(blk)
			if havePrev {
				g.Edge(prev, n)
			}
			prev = n
			havePrev = true
		}
		if flow.Capped && len(flow.Blocks) > 0 {
			last := flow.Blocks[len(flow.Blocks)-1]
			n := nodeFor(last)
			cap := g.Node(fmt.Sprintf("%s_capped", blockID(last))).Label("exploration cap reached")
			cap.Attr("shape", "none")
			cap.Attr("fontcolor", "red")
			g.Edge(n, cap).Attr("style", "dashed")
		}
	}

	for _, flow := range flows {
		for _, blk := range flow.Blocks {
			if blk.Target == nil {
				continue
			}
			from := nodeFor(blk)
			targetPC := bytecode.PC(blk.Target.Value.Uint64())
			if to, ok := nodeAtPC(nodes, targetPC); ok {
				edge := g.Edge(from, to)
				if blk.Jump.Kind == vm.JumpConditional {
					edge.Attr("color", "blue").Attr("label", "taken")
				} else {
					edge.Attr("color", "black")
				}
			}
		}
	}

	return g.String()
}

func blockID(blk vm.ParsedBlock) string {
	return fmt.Sprintf("b_%d_%d", blk.Start, blk.End)
}

func blockLabel(blk vm.ParsedBlock) string {
	switch {
	case blk.Halt != nil:
		return fmt.Sprintf("[%d,%d]\\n%s", blk.Start, blk.End, blk.Halt.String())
	case blk.Jump != nil:
		return fmt.Sprintf("[%d,%d]\\n%s", blk.Start, blk.End, blk.Jump.Kind.String())
	default:
		return fmt.Sprintf("[%d,%d]", blk.Start, blk.End)
	}
}

func nodeAtPC(nodes map[string]dot.Node, pc bytecode.PC) (dot.Node, bool) {
	for id, n := range nodes {
		var start, end int
		if _, err := fmt.Sscanf(id, "b_%d_%d", &start, &end); err == nil && bytecode.PC(start) == pc {
			return n, true
		}
	}
	return dot.Node{}, false
}
