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
	"bufio"
	"context"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/VictoriaMetrics/metrics"
	"github.com/urfave/cli/v2"

	"github.com/n42blockchain/evmflow/internal/bytecode"
	"github.com/n42blockchain/evmflow/internal/cfgexport"
	"github.com/n42blockchain/evmflow/internal/vm"
	"github.com/n42blockchain/evmflow/internal/word"
	"github.com/n42blockchain/evmflow/log"
	"github.com/n42blockchain/evmflow/params"
	"github.com/n42blockchain/evmflow/pkg/errors"
)

const usageText = `evmflow [options]

Recover a control-flow graph from EVM runtime bytecode by symbolically
executing it and exploring every resolvable jump target.

  evmflow --input 6001600101...       analyze an inline hex string
  evmflow --filename contract.hex     analyze the last line of a file
  evmflow --filename c.hex --dot c.dot --json`

func main() {
	log.Init()

	app := &cli.App{
		Name:      "evmflow",
		Usage:     "recover control-flow graphs from EVM runtime bytecode",
		UsageText: usageText,
		Version:   params.VersionWithCommit(params.GitCommit),
		Flags:     allFlags(),
		Action:    run,
		Copyright: "Copyright 2022-2026 The N42 Authors",
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("evmflow failed", "err", err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	var inputErr *errors.InputError
	if stderrors.As(err, &inputErr) {
		return 2
	}
	return 1
}

func run(c *cli.Context) error {
	raw, err := readSource(c)
	if err != nil {
		return err
	}

	code, err := decodeHex(raw)
	if err != nil {
		return err
	}

	instrs, err := bytecode.Decode(code)
	if err != nil {
		return err
	}

	env, err := buildEnvironment(c, len(code))
	if err != nil {
		return err
	}

	opts := vm.ExploreOptions{MaxDepth: c.Int(maxBlocksFlag.Name)}
	result, err := vm.Explore(context.Background(), instrs, 0, env, opts)
	if err != nil {
		return err
	}

	if c.String(dotFlag.Name) != "" {
		if err := os.WriteFile(c.String(dotFlag.Name), []byte(cfgexport.Render(result.Flows)), 0o644); err != nil {
			return fmt.Errorf("writing dot output: %w", err)
		}
	}

	if c.Bool(jsonFlag.Name) {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printSummary(result)
	}

	if c.Bool(metricsFlag.Name) {
		metrics.WritePrometheus(os.Stderr, true)
	}

	return nil
}

// readSource resolves the bytecode source: an inline --input string wins
// over --filename, whose last non-empty line is taken as the hex string to
// decode.
func readSource(c *cli.Context) (string, error) {
	if s := c.String(inputFlag.Name); s != "" {
		return s, nil
	}
	path := c.String(filenameFlag.Name)
	if path == "" {
		return "", errors.NewInputError(errors.ErrNoSource, "")
	}
	f, err := os.Open(path)
	if err != nil {
		return "", errors.NewInputError(errors.ErrFileUnreadable, path)
	}
	defer f.Close()

	var last string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = line
		}
	}
	if err := scanner.Err(); err != nil {
		return "", errors.NewInputError(errors.ErrFileUnreadable, path)
	}
	return last, nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, errors.NewInputError(errors.ErrEmptyInput, "")
	}
	if len(s)%2 != 0 {
		return nil, errors.NewInputError(errors.ErrOddLength, fmt.Sprintf("length=%d", len(s)))
	}
	for i, r := range s {
		if !isHexDigit(r) {
			return nil, errors.NewInputError(errors.ErrNonHexChar, fmt.Sprintf("byte %d: %q", i, r))
		}
	}
	return hex.DecodeString(s)
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func buildEnvironment(c *cli.Context, codeLen int) (vm.Environment, error) {
	env := vm.Environment{CodeLen: codeLen}

	if s := c.String(calldataFlag.Name); s != "" {
		data, err := decodeHex(s)
		if err != nil {
			return vm.Environment{}, err
		}
		env.Calldata = data
	}

	if s := c.String(callvalueFlag.Name); s != "" {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok || n.Sign() < 0 {
			return vm.Environment{}, errors.NewInputError(errors.ErrInvalidDecimal, s)
		}
		v := vm.StackElement{Value: word.FromBytes(n.Bytes()), Size: 32}
		env.Callvalue = &v
	}

	return env, nil
}
