// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

func isStdin(name string) bool { return name == "" || name == "-" }

// readInput reads the named file, or the command's input if name is empty
// or "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if isStdin(name) {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name) //nolint:gosec // path is provided by the user
}

// writeOutput writes b to the named file, or to the command's output if name
// is empty or "-".
func writeOutput(cmd *cobra.Command, name string, b []byte) error {
	if name == "" || name == "-" {
		_, err := cmd.OutOrStdout().Write(b)
		return err
	}
	return os.WriteFile(name, b, 0o644) //nolint:gosec // output is not secret
}
