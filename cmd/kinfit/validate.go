// SPDX-License-Identifier: MIT
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/kinfit/config"
)

var errInvalidFiles = errors.New("invalid decay files")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check decay description files without fitting",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bad := 0
			for _, path := range args {
				if _, err := config.Load(path); err != nil {
					bad++
					fmt.Fprintln(cmd.OutOrStdout(), "FAIL", err)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ok  ", path)
			}
			if bad > 0 {
				return fmt.Errorf("%w: %d of %d", errInvalidFiles, bad, len(args))
			}
			return nil
		},
	}
}
