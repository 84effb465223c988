// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/protobridge/protobridge/reflect/schema"
)

func registerTypesCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "types <schema.pb>",
		Short: "List the message types of a compiled schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			d, err := schema.Parse(b)
			if err != nil {
				return err
			}
			idx, err := d.Index()
			if err != nil {
				return err
			}
			for _, name := range idx.MessageNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	parent.AddCommand(cmd)
}
