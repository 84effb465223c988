// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commands contains all CLI command definitions.
package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/protobridge/protobridge"
	"github.com/protobridge/protobridge/internal/config"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "protobridge",
		Short:         "Convert between proto3 JSON and protobuf binary",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a protobridge.yaml configuration file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable development logging to stderr")

	registerCompileCmd(rootCmd)
	registerEncodeCmd(rootCmd, opts)
	registerDecodeCmd(rootCmd, opts)
	registerTypesCmd(rootCmd)
	registerInitCmd(rootCmd)

	return rootCmd
}

// session holds what a conversion command needs.
type session struct {
	log  *zap.Logger
	conv *protobridge.Converter
}

// open loads the configuration and creates the converter.
func (o *rootOptions) open() (*session, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := newLogger(cfg, o.verbose)
	if err != nil {
		return nil, err
	}
	protobridge.SetLogger(log)

	opts := cfg.Options()
	opts.Logger = log
	conv, err := protobridge.New(opts)
	if err != nil {
		return nil, err
	}
	return &session{log: log, conv: conv}, nil
}

func (s *session) close() {
	s.conv.Close()
	_ = s.log.Sync()
}

func newLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	return zc.Build()
}
