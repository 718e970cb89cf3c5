// Copyright 2025 The Bitlayout Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dump implements the "dump" subcommand: decode one or more raw
// data files against a layout and print their JSON form.
package dump

import (
	"context"
	"fmt"
	"os"

	"github.com/stoewer/go-strcase"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/bitlayout/bitlayout"
	"github.com/bitlayout/bitlayout/cmd/bitlayout-dump/internal/fileio"
)

// Command is the CLI command for dump.
var Command = &cli.Command{
	Name:      "dump",
	Usage:     "decode raw data against a layout and print it as JSON",
	ArgsUsage: "--layout FILE DATA...",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "layout",
			Required: true,
			Usage:    "path to a YAML layout document",
		},
		&cli.BoolFlag{
			Name:  "wide",
			Usage: "label each dumped file with its strcase-normalized name, for terminals wide enough to show it",
		},
	},
	Action: action,
}

func action(ctx context.Context, cmd *cli.Command) error {
	typ, err := fileio.LoadLayout(cmd.String("layout"))
	if err != nil {
		return err
	}
	root := bitlayout.Instantiate(typ)

	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("dump: at least one data file is required")
	}

	results := make([]string, len(paths))
	group, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		group.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			cell, err := fileio.LoadCell(p, typ)
			if err != nil {
				return err
			}
			view := bitlayout.Bind(root, cell)
			text, err := view.JSON()
			if err != nil {
				return fmt.Errorf("decoding %s: %w", p, err)
			}
			results[i] = text
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	wide := cmd.Bool("wide")
	width, _, _ := term.GetSize(int(os.Stdout.Fd()))
	for i, p := range paths {
		if wide && width > 0 {
			fmt.Printf("%s:\n", strcase.UpperCamelCase(p))
		}
		fmt.Println(results[i])
	}
	return nil
}
