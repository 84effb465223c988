// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type encodeOptions struct {
	schema    string
	typeName  string
	delimited bool
	output    string
}

func registerEncodeCmd(parent *cobra.Command, root *rootOptions) {
	opts := &encodeOptions{}
	cmd := &cobra.Command{
		Use:   "encode [in.json]",
		Short: "Encode a JSON message as protobuf binary",
		Example: `  protobridge encode --schema schema.pb --type pkg.Event event.json -o event.bin
  echo '{"numbers":[1,2,3]}' | protobridge encode --schema schema.pb --type pkg.Event --delimited`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in string
			if len(args) > 0 {
				in = args[0]
			}
			return runEncode(cmd, root, opts, in)
		},
	}
	cmd.Flags().StringVarP(&opts.schema, "schema", "s", "", "Serialized FileDescriptorSet")
	cmd.Flags().StringVarP(&opts.typeName, "type", "t", "", "Fully-qualified message type")
	cmd.Flags().BoolVar(&opts.delimited, "delimited", false, "Prefix the output with its varint length")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default stdout)")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("type")
	parent.AddCommand(cmd)
}

func runEncode(cmd *cobra.Command, root *rootOptions, opts *encodeOptions, in string) error {
	s, err := root.open()
	if err != nil {
		return err
	}
	defer s.close()

	schemaBytes, err := os.ReadFile(opts.schema)
	if err != nil {
		return err
	}
	jsonText, err := readInput(cmd, in)
	if err != nil {
		return err
	}

	convert := s.conv.JSONToBinary
	if opts.delimited {
		convert = s.conv.JSONToDelimitedBinary
	}
	b, err := convert(schemaBytes, opts.typeName, jsonText)
	if err != nil {
		return err
	}
	s.log.Debug("encoded message",
		zap.String("type", opts.typeName),
		zap.Int("json_bytes", len(jsonText)),
		zap.Int("binary_bytes", len(b)))
	return writeOutput(cmd, opts.output, b)
}
