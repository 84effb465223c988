// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command protobridge converts messages between proto3 JSON and the protobuf
// binary format using a compiled schema.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/protobridge/protobridge/cmd/protobridge/internal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := internal.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
