// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/protobridge/protobridge/internal/config"
)

const defaultConfigName = "protobridge.yaml"

type initOptions struct {
	naming       string
	packRepeated bool
	force        bool
}

func registerInitCmd(parent *cobra.Command) {
	opts := &initOptions{}
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default protobridge.yaml configuration file",
		Example: `  protobridge init
  protobridge init --naming proto conf/protobridge.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigName
			if len(args) == 1 {
				path = args[0]
			}
			return runInit(cmd, opts, path)
		},
	}
	cmd.Flags().StringVar(&opts.naming, "naming", config.NamingJSON, "Field naming for decoded JSON (json or proto)")
	cmd.Flags().BoolVar(&opts.packRepeated, "pack-repeated", false, "Pack repeated scalar fields when encoding")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing file")
	parent.AddCommand(cmd)
}

func runInit(cmd *cobra.Command, opts *initOptions, path string) error {
	if !opts.force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists; use --force to overwrite", path)
		}
	}
	cfg := config.Default()
	cfg.Naming = opts.naming
	cfg.PackRepeated = opts.packRepeated
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
