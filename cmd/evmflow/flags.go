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
	"github.com/urfave/cli/v2"

	"github.com/n42blockchain/evmflow/internal/vm"
)

// =============================================================================
// default values
// =============================================================================

const (
	DefaultMaxBlocks = vm.DefaultExplorationDepth
)

var (
	inputFlag = &cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "hex-encoded runtime bytecode (overrides --filename)",
	}
	filenameFlag = &cli.StringFlag{
		Name:    "filename",
		Aliases: []string{"f"},
		Usage:   "path to a file whose last non-empty line is hex-encoded runtime bytecode",
	}
	callvalueFlag = &cli.StringFlag{
		Name:  "callvalue",
		Usage: "decimal call value made available to CALLVALUE",
	}
	calldataFlag = &cli.StringFlag{
		Name:  "calldata",
		Usage: "hex-encoded calldata made available to CALLDATALOAD/CALLDATASIZE",
	}
	maxBlocksFlag = &cli.IntFlag{
		Name:  "max-blocks",
		Usage: "per-flow exploration depth cap",
		Value: DefaultMaxBlocks,
	}
	dotFlag = &cli.StringFlag{
		Name:  "dot",
		Usage: "write the explored control-flow graph as Graphviz DOT to this path",
	}
	metricsFlag = &cli.BoolFlag{
		Name:  "metrics",
		Usage: "dump Prometheus-format exploration metrics to stderr on exit",
	}
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "emit explored flows as JSON instead of a human-readable summary",
	}
)

func allFlags() []cli.Flag {
	return []cli.Flag{
		inputFlag,
		filenameFlag,
		callvalueFlag,
		calldataFlag,
		maxBlocksFlag,
		dotFlag,
		metricsFlag,
		jsonFlag,
	}
}
