// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package internal contains the main application logic for the CLI.
package internal

import (
	"context"

	"github.com/protobridge/protobridge/internal/commands"
)

// Run executes the command line args. It is separate from main for
// testability.
func Run(ctx context.Context, args []string) error {
	rootCmd := commands.NewRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
