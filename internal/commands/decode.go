// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/protobridge/protobridge/encoding/jsontree"
	"github.com/protobridge/protobridge/internal/encoding/wire"
)

const (
	formatJSON    = "json"
	formatMsgpack = "msgpack"
)

type decodeOptions struct {
	schema    string
	typeName  string
	delimited bool
	format    string
	indent    string
	output    string
	jobs      int
}

func registerDecodeCmd(parent *cobra.Command, root *rootOptions) {
	opts := &decodeOptions{}
	cmd := &cobra.Command{
		Use:   "decode [in.bin]...",
		Short: "Decode protobuf binary messages as JSON",
		Long: `Decode protobuf binary messages as JSON.

With several inputs, the messages are decoded concurrently and written in
argument order, one per line. Without inputs, a single message is read from
standard input.`,
		Example: `  protobridge decode --schema schema.pb --type pkg.Event a.bin b.bin
  protobridge decode --schema schema.pb --type pkg.Event --format msgpack a.bin > a.msgpack`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, root, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.schema, "schema", "s", "", "Serialized FileDescriptorSet")
	cmd.Flags().StringVarP(&opts.typeName, "type", "t", "", "Fully-qualified message type")
	cmd.Flags().BoolVar(&opts.delimited, "delimited", false, "Inputs carry a varint length prefix")
	cmd.Flags().StringVar(&opts.format, "format", formatJSON, "Output format (json, msgpack)")
	cmd.Flags().StringVar(&opts.indent, "indent", "", "Indent JSON output with this string")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 8, "Maximum concurrent decodes")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("type")
	parent.AddCommand(cmd)
}

func runDecode(cmd *cobra.Command, root *rootOptions, opts *decodeOptions, inputs []string) error {
	switch opts.format {
	case formatJSON, formatMsgpack:
	default:
		return fmt.Errorf("unknown format %q, want %s or %s", opts.format, formatJSON, formatMsgpack)
	}
	if opts.jobs < 1 {
		return fmt.Errorf("--jobs must be at least 1")
	}
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	stdin := 0
	for _, in := range inputs {
		if isStdin(in) {
			stdin++
		}
	}
	if stdin > 1 {
		return fmt.Errorf("standard input given %d times, want at most once", stdin)
	}

	s, err := root.open()
	if err != nil {
		return err
	}
	defer s.close()

	schemaBytes, err := os.ReadFile(opts.schema)
	if err != nil {
		return err
	}

	results := make([][]byte, len(inputs))
	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(opts.jobs)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			b, err := readInput(cmd, in)
			if err != nil {
				return err
			}
			if opts.delimited {
				if b, err = wire.ConsumeLengthPrefix(b); err != nil {
					return fmt.Errorf("%s: %w", in, err)
				}
			}
			v, err := s.conv.BinaryToTree(schemaBytes, opts.typeName, b)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			out, err := render(v, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	s.log.Debug("decoded messages", zap.String("type", opts.typeName), zap.Int("count", len(inputs)))

	var buf bytes.Buffer
	for _, r := range results {
		buf.Write(r)
		if opts.format == formatJSON {
			buf.WriteByte('\n')
		}
	}
	return writeOutput(cmd, opts.output, buf.Bytes())
}

func render(v jsontree.Value, opts *decodeOptions) ([]byte, error) {
	if opts.format == formatMsgpack {
		return jsontree.MarshalMsgpack(v)
	}
	if opts.indent != "" {
		return jsontree.MarshalIndent(v, opts.indent)
	}
	return jsontree.Marshal(v)
}
