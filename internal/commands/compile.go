// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protobridge/protobridge/compiler"
)

type compileOptions struct {
	importPaths []string
	output      string
}

func registerCompileCmd(parent *cobra.Command) {
	opts := &compileOptions{}
	cmd := &cobra.Command{
		Use:   "compile <file.proto>...",
		Short: "Compile .proto files into a FileDescriptorSet",
		Example: `  # Compile a schema found under ./protos
  protobridge compile -I protos events/event.proto -o schema.pb`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, opts, args)
		},
	}
	cmd.Flags().StringSliceVarP(&opts.importPaths, "import-path", "I", []string{"."}, "Directories searched for imports")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default stdout)")
	parent.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, opts *compileOptions, roots []string) error {
	files := make(map[string]string)
	for _, dir := range opts.importPaths {
		if err := collectProtos(dir, files); err != nil {
			return err
		}
	}
	for i, root := range roots {
		roots[i] = filepath.ToSlash(root)
		if _, ok := files[roots[i]]; !ok {
			b, err := os.ReadFile(root) //nolint:gosec // path is provided by the user
			if err != nil {
				return err
			}
			files[roots[i]] = string(b)
		}
	}

	set, errs := compiler.Compile(cmd.Context(), files, roots...)
	if len(errs) > 0 {
		return fmt.Errorf("compilation failed:\n%s", strings.Join(errs, "\n"))
	}
	return writeOutput(cmd, opts.output, set)
}

// collectProtos adds every .proto file below dir to files, keyed by its
// slash-separated path relative to dir.
func collectProtos(dir string, files map[string]string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".proto" {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if _, ok := files[rel]; ok {
			return nil // earlier import paths win
		}
		b, err := os.ReadFile(path) //nolint:gosec // path comes from a directory walk
		if err != nil {
			return err
		}
		files[rel] = string(b)
		return nil
	})
}
