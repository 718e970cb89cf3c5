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

// Package diff implements the "diff" subcommand: decode two data files
// against the same layout and print a text diff of their JSON forms.
package diff

import (
	"context"
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/bitlayout/bitlayout"
	"github.com/bitlayout/bitlayout/cmd/bitlayout-dump/internal/fileio"
)

// Command is the CLI command for diff.
var Command = &cli.Command{
	Name:      "diff",
	Usage:     "diff the decoded JSON of two data files sharing a layout",
	ArgsUsage: "--layout FILE A B",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "layout",
			Required: true,
			Usage:    "path to a YAML layout document",
		},
	},
	Action: action,
}

func action(ctx context.Context, cmd *cli.Command) error {
	typ, err := fileio.LoadLayout(cmd.String("layout"))
	if err != nil {
		return err
	}
	args := cmd.Args().Slice()
	if len(args) != 2 {
		return fmt.Errorf("diff: exactly two data files are required, got %d", len(args))
	}

	root := bitlayout.Instantiate(typ)
	texts := make([]string, 2)
	group, _ := errgroup.WithContext(ctx)
	for i, p := range args {
		i, p := i, p
		group.Go(func() error {
			cell, err := fileio.LoadCell(p, typ)
			if err != nil {
				return err
			}
			text, err := bitlayout.Bind(root, cell).JSON()
			if err != nil {
				return fmt.Errorf("decoding %s: %w", p, err)
			}
			texts[i] = text
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(texts[0], texts[1], false)
	fmt.Println(dmp.DiffPrettyText(diffs))
	return nil
}
