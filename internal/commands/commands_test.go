// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/protobridge/protobridge"
	"github.com/protobridge/protobridge/internal/config"
	"github.com/protobridge/protobridge/internal/testprotos"
)

const eventType = testprotos.Package + ".Event"

// execute runs the root command with args and stdin, returning its output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// compileSchema writes test.proto below a temporary import path and compiles
// it with the compile command.
func compileSchema(t *testing.T) (dir, schemaPath string) {
	t.Helper()
	dir = t.TempDir()
	protos := filepath.Join(dir, "protos", "test")
	require.NoError(t, os.MkdirAll(protos, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(protos, "test.proto"), []byte(testprotos.Source), 0o600))

	schemaPath = filepath.Join(dir, "schema.pb")
	_, err := execute(t, "", "compile", "-I", filepath.Join(dir, "protos"), "test/test.proto", "-o", schemaPath)
	require.NoError(t, err)
	return dir, schemaPath
}

func TestCompileAndTypes(t *testing.T) {
	_, schemaPath := compileSchema(t)

	out, err := execute(t, "", "types", schemaPath)
	require.NoError(t, err)
	names := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, names, eventType)
	assert.Contains(t, names, testprotos.Package+".Scalars")
	assert.Contains(t, names, "google.protobuf.Timestamp")
}

func TestCompileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.proto")
	require.NoError(t, os.WriteFile(bad, []byte(`syntax = "proto3"; message M { Missing m = 1; }`), 0o600))

	_, err := execute(t, "", "compile", "-I", dir, "bad.proto")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compilation failed")

	_, err = execute(t, "", "compile", "-I", dir, "absent.proto")
	assert.Error(t, err)

	_, err = execute(t, "", "compile")
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	dir, schemaPath := compileSchema(t)

	out, err := execute(t, `{"numbers":[1,2,3]}`, "encode", "--schema", schemaPath, "--type", eventType)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x08, 0x01, 0x08, 0x02, 0x08, 0x03}, []byte(out))

	out, err = execute(t, `{"numbers":[1,2,3]}`, "encode", "-s", schemaPath, "-t", eventType, "--delimited")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x06, 0x08, 0x01, 0x08, 0x02, 0x08, 0x03}, []byte(out))

	in := filepath.Join(dir, "event.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"settings":{"k":"v"}}`), 0o600))
	binPath := filepath.Join(dir, "event.bin")
	_, err = execute(t, "", "encode", "-s", schemaPath, "-t", eventType, in, "-o", binPath)
	require.NoError(t, err)
	got, err := os.ReadFile(binPath)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x06, 0x0a, 0x01, 'k', 0x12, 0x01, 'v'}, got)
}

func TestEncodeWithConfig(t *testing.T) {
	dir, schemaPath := compileSchema(t)
	cfgPath := filepath.Join(dir, "protobridge.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("version: 1\npack_repeated: true\nlog_level: error\n"), 0o600))

	out, err := execute(t, `{"numbers":[1,2,3]}`, "--config", cfgPath, "encode", "-s", schemaPath, "-t", eventType)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0x03, 0x01, 0x02, 0x03}, []byte(out))

	require.NoError(t, os.WriteFile(cfgPath, []byte("version: 7\n"), 0o600))
	_, err = execute(t, `{}`, "--config", cfgPath, "encode", "-s", schemaPath, "-t", eventType)
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	dir, schemaPath := compileSchema(t)
	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")
	require.NoError(t, os.WriteFile(a, []byte{0x08, 0x01, 0x08, 0x02, 0x08, 0x03}, 0o600))
	require.NoError(t, os.WriteFile(b, []byte{0x0a, 0x01, 0x04}, 0o600))

	out, err := execute(t, "", "decode", "-s", schemaPath, "-t", eventType, a, b)
	require.NoError(t, err)
	assert.Equal(t, "{\"numbers\":[1,2,3]}\n{\"numbers\":[4]}\n", out)

	out, err = execute(t, "\x03\x0a\x01\x04", "decode", "-s", schemaPath, "-t", eventType, "--delimited")
	require.NoError(t, err)
	assert.Equal(t, "{\"numbers\":[4]}\n", out)

	out, err = execute(t, "", "decode", "-s", schemaPath, "-t", eventType, "--indent", "  ", b)
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"numbers\"")
}

func TestDecodeMsgpack(t *testing.T) {
	dir, schemaPath := compileSchema(t)
	in := filepath.Join(dir, "a.bin")
	require.NoError(t, os.WriteFile(in, []byte{0x08, 0x01, 0x08, 0x02, 0x12, 0x06, 0x0a, 0x01, 'k', 0x12, 0x01, 'v'}, 0o600))

	out, err := execute(t, "", "decode", "-s", schemaPath, "-t", eventType, "--format", "msgpack", in)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, msgpack.Unmarshal([]byte(out), &got))
	assert.Len(t, got["numbers"], 2)
	assert.Equal(t, map[string]interface{}{"k": "v"}, got["settings"])
}

func TestDecodeErrors(t *testing.T) {
	dir, schemaPath := compileSchema(t)
	in := filepath.Join(dir, "a.bin")
	require.NoError(t, os.WriteFile(in, []byte{0x08, 0x01}, 0o600))

	_, err := execute(t, "", "decode", "-s", schemaPath, "-t", eventType, "--format", "xml", in)
	assert.ErrorContains(t, err, "unknown format")

	_, err = execute(t, "", "decode", "-s", schemaPath, "-t", eventType, "--jobs", "0", in)
	assert.Error(t, err)

	_, err = execute(t, "", "decode", "-s", schemaPath, "-t", testprotos.Package+".Absent", in)
	assert.ErrorIs(t, err, protobridge.ErrTypeNotFound)

	_, err = execute(t, "", "decode", "-s", schemaPath, "-t", eventType, "--delimited", in)
	assert.ErrorIs(t, err, protobridge.ErrFraming)

	_, err = execute(t, "", "decode", "-s", schemaPath, in)
	assert.Error(t, err, "missing --type")

	_, err = execute(t, "", "decode", "-s", filepath.Join(dir, "absent.pb"), "-t", eventType, in)
	assert.Error(t, err)
}

func TestDecodeStdinOnce(t *testing.T) {
	dir, schemaPath := compileSchema(t)
	in := filepath.Join(dir, "a.bin")
	require.NoError(t, os.WriteFile(in, []byte{0x0a, 0x01, 0x04}, 0o600))

	_, err := execute(t, "\x08\x01", "decode", "-s", schemaPath, "-t", eventType, "-", in, "-")
	assert.ErrorContains(t, err, "standard input given 2 times")

	out, err := execute(t, "\x08\x01", "decode", "-s", schemaPath, "-t", eventType, in, "-")
	require.NoError(t, err)
	assert.Equal(t, "{\"numbers\":[4]}\n{\"numbers\":[1]}\n", out)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "protobridge.yaml")

	out, err := execute(t, "", "init", "--naming", "proto", "--pack-repeated", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.NamingProto, cfg.Naming)
	assert.True(t, cfg.PackRepeated)
	assert.Equal(t, config.CurrentVersion, cfg.Version)

	_, err = execute(t, "", "init", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "", "init", "--force", path)
	require.NoError(t, err)
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.NamingJSON, cfg.Naming)

	_, err = execute(t, "", "init", "--force", "--naming", "camel", path)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestInitThenEncode(t *testing.T) {
	dir, schemaPath := compileSchema(t)
	cfgPath := filepath.Join(dir, "protobridge.yaml")
	_, err := execute(t, "", "init", "--pack-repeated", cfgPath)
	require.NoError(t, err)

	out, err := execute(t, `{"numbers":[1,2]}`, "--config", cfgPath, "encode", "-s", schemaPath, "-t", eventType)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0x02, 0x01, 0x02}, []byte(out))
}
