// SPDX-License-Identifier: MIT

// Command kinfit fits decay candidates described in YAML files with the
// refit reference fitter.
//
//	kinfit fit testdata/bs.yaml --group JPsi --mass 3.0969
//	kinfit fit a.yaml b.yaml --json --parallel 4
//	kinfit validate *.yaml
package main

import (
	"context"
	"fmt"
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	root, a := newRootCmd()
	if err := execute(context.Background(), root, a); err != nil {
		fmt.Fprintln(os.Stderr, "kinfit:", err)
		os.Exit(1)
	}
}
