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

package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/urfave/cli/v3"

	"github.com/bitlayout/bitlayout/cmd/bitlayout-dump/cmd/diff"
	"github.com/bitlayout/bitlayout/cmd/bitlayout-dump/cmd/dump"
	"github.com/bitlayout/bitlayout/cmd/bitlayout-dump/cmd/eval"
)

var version = "(none)"

func init() {
	build, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if build.Main.Version != "" {
		version = build.Main.Version
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "bitlayout-dump",
		Usage: "inspect bit-aligned binary interfaces described by a bitlayout YAML document",
		Commands: []*cli.Command{
			dump.Command,
			eval.Command,
			diff.Command,
		},
		Version: version,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "bitlayout-dump: %v\n", err)
		os.Exit(1)
	}
}
