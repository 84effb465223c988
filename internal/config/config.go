// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config handles the protobridge YAML configuration file.
package config

import (
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/protobridge/protobridge"
	"github.com/protobridge/protobridge/encoding/protodyn"
	"github.com/protobridge/protobridge/reflect/schemacache"
)

// CurrentVersion is the current version of the config file format.
const CurrentVersion = 1

// Naming values.
const (
	NamingJSON  = "json"
	NamingProto = "proto"
)

// Config represents a protobridge.yaml file.
type Config struct {
	Version         int    `yaml:"version"`
	Cache           Cache  `yaml:"cache"`
	Naming          string `yaml:"naming"`
	AcceptBothNames bool   `yaml:"accept_both_names"`
	CanonicalInt64  bool   `yaml:"canonical_int64"`
	PackRepeated    bool   `yaml:"pack_repeated"`
	LogLevel        string `yaml:"log_level,omitempty"`
}

// Cache holds the schema cache settings.
type Cache struct {
	MaxEntries int `yaml:"max_entries"`
}

// Default returns the configuration matching protobridge.DefaultOptions.
func Default() *Config {
	return &Config{
		Version:         CurrentVersion,
		Cache:           Cache{MaxEntries: schemacache.DefaultMaxEntries},
		Naming:          NamingJSON,
		AcceptBothNames: true,
		LogLevel:        "info",
	}
}

// Load reads a Config from a file path. Settings absent from the file keep
// their Default values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	cfg := Default()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks the configuration for supported versions and values.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version %d", c.Version)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative, got %d", c.Cache.MaxEntries)
	}
	if _, err := c.naming(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) naming() (protodyn.FieldNaming, error) {
	switch c.Naming {
	case NamingJSON, "":
		return protodyn.JSONName, nil
	case NamingProto:
		return protodyn.ProtoName, nil
	}
	return 0, fmt.Errorf("unknown naming %q, want %q or %q", c.Naming, NamingJSON, NamingProto)
}

// Level returns the configured log level. An empty level is info.
func (c *Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	l, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("invalid log_level: %w", err)
	}
	return l, nil
}

// Options returns the converter options described by c. c must be valid.
func (c *Config) Options() protobridge.Options {
	naming, _ := c.naming()
	return protobridge.Options{
		MaxCacheEntries: c.Cache.MaxEntries,
		Naming:          naming,
		AcceptBothNames: c.AcceptBothNames,
		CanonicalInt64:  c.CanonicalInt64,
		PackRepeated:    c.PackRepeated,
	}
}
