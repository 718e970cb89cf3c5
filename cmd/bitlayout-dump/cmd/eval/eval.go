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

// Package eval implements the "eval" subcommand: lower a field reference
// to a shift-and expression and print its rendered source.
package eval

import (
	"context"
	"fmt"

	"github.com/stoewer/go-strcase"
	"github.com/urfave/cli/v3"

	"github.com/bitlayout/bitlayout"
	"github.com/bitlayout/bitlayout/cmd/bitlayout-dump/internal/fileio"
)

// Command is the CLI command for eval.
var Command = &cli.Command{
	Name:      "eval",
	Usage:     "render a field's shift-and expression against a symbolic word",
	ArgsUsage: "--layout FILE PATH",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "layout",
			Required: true,
			Usage:    "path to a YAML layout document",
		},
		&cli.StringFlag{
			Name:  "symbol",
			Value: "x",
			Usage: "name of the symbolic raw word in the rendered expression",
		},
		&cli.IntFlag{
			Name:  "word-width",
			Value: 0,
			Usage: "lower to word-indexed shift-ands of this bit width, 0 for a single unsubscripted symbol",
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

	path := cmd.Args().First()
	field, err := root.Get(path)
	if err != nil {
		return suggestClosest(root, path, err)
	}

	sym := bitlayout.NewSymbolic(field)
	ir, err := bitlayout.Lower(sym.Ref(), bitlayout.LowerOptions{WordWidth: cmd.Int("word-width")})
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	fmt.Println(bitlayout.Render(ir, bitlayout.RenderOptions{Symbol: cmd.String("symbol")}))
	return nil
}

// suggestClosest enriches a field-lookup error with the nearest sibling
// name under strcase-normalized (kebab-insensitive) comparison, since a
// typo'd path is the most common reason eval fails to resolve.
func suggestClosest(root *bitlayout.Field, path string, cause error) error {
	want := strcase.KebabCase(path)
	best := ""
	for _, child := range root.Children() {
		if strcase.KebabCase(child.Name()) == want {
			best = child.Name()
			break
		}
	}
	if best != "" {
		return fmt.Errorf("eval: %w (did you mean %q?)", cause, best)
	}
	return fmt.Errorf("eval: %w", cause)
}
