package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaladdle/rcopy/internal/config"
	"github.com/shaladdle/rcopy/internal/engine"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "rcopy dev\n", stdout)
}

func TestRun_RequiresTwoArgs(t *testing.T) {
	code, _, stderr := runCLI(t, "only-one")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "accepts 2 arg(s)")
}

func TestRun_CopiesTree(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a", "b", "f.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "top.txt"), []byte("top"), 0o644))

	code, stdout, stderr := runCLI(t, "--chunk-size", "2", "--verify", src, dst)
	require.Equal(t, 0, code, stderr)

	got, err := os.ReadFile(filepath.Join(dst, "a", "b", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
	assert.Contains(t, stdout, "[ 5/5 ] "+filepath.Join("a", "b", "f.txt"))
	assert.Contains(t, stderr, "done ✓")
	assert.Contains(t, stderr, "verified 2")

	// A second run skips everything.
	code, stdout, _ = runCLI(t, src, dst)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "top.txt (skipped)")
}

func TestRun_QuietPrintsNothing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	code, stdout, stderr := runCLI(t, "-q", src, filepath.Join(dir, "g"))
	require.Equal(t, 0, code)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}

func TestRun_MissingSourceIsTotalFailure(t *testing.T) {
	dir := t.TempDir()
	code, _, stderr := runCLI(t, filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "copy failed")
}

func TestRun_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b", "c.txt"), []byte("c"), 0o644))
	require.NoError(t, os.MkdirAll(dst, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "b"), []byte("blocker"), 0o644))

	code, _, stderr := runCLI(t, src, dst)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, engine.ErrDirConflict.Error())
}

func TestRun_InvalidChunkSize(t *testing.T) {
	for _, size := range []string{"0", "2G", "16G"} {
		t.Run(size, func(t *testing.T) {
			code, _, stderr := runCLI(t, "--chunk-size", size, "a", "b")
			assert.Equal(t, 2, code)
			assert.Contains(t, stderr, "chunk-size")
		})
	}
}

func TestRun_DryRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "f"), []byte("data"), 0o644))

	code, stdout, _ := runCLI(t, "--dry-run", src, filepath.Join(dir, "dst"))
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "would copy: f")
	_, err := os.Stat(filepath.Join(dir, "dst"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_LogFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "f")
	logPath := filepath.Join(dir, "run.log")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0o644))

	code, _, _ := runCLI(t, "--log", logPath, src, filepath.Join(dir, "g"))
	require.Equal(t, 0, code)

	logData, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logData), `"msg":"rcopy.event"`)
	assert.Contains(t, string(logData), `"type":"FileCompleted"`)
}

func TestRun_Daemon(t *testing.T) {
	code, _, stderr := runCLI(t, "daemon", "--listen", "127.0.0.1:0")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "not implemented")

	code, _, stderr = runCLI(t, "daemon", "--listen", "bad address")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "resolve listen address")
}

func TestRun_GenDocs(t *testing.T) {
	out := t.TempDir()
	code, _, stderr := runCLI(t, "gen-docs", "--format", "markdown", "--dir", out)
	require.Equal(t, 0, code, stderr)
	_, err := os.Stat(filepath.Join(out, "rcopy.md"))
	assert.NoError(t, err)

	code, _, _ = runCLI(t, "gen-docs", "--format", "pdf", "--dir", out)
	assert.Equal(t, 2, code)
}

func TestApplyConfigDefaults(t *testing.T) {
	newCmd := func(args ...string) (*cobra.Command, *options) {
		var stdout, stderr bytes.Buffer
		cmd := newRootCmd(&stdout, &stderr)
		require.NoError(t, cmd.ParseFlags(args))
		opts := &options{maxWait: engine.DefaultMaxWait, chunkSize: engine.DefaultChunkSize}
		return cmd, opts
	}
	yes := true
	wait := "10s"
	chunk := "1M"
	bw := "2M"
	defaults := config.DefaultsConfig{Verify: &yes, Sync: &yes, MaxWait: &wait, ChunkSize: &chunk, BWLimit: &bw}

	cmd, opts := newCmd()
	require.NoError(t, applyConfigDefaults(cmd, defaults, opts))
	assert.True(t, opts.verify)
	assert.True(t, opts.syncData)
	assert.Equal(t, 10*time.Second, opts.maxWait)
	assert.Equal(t, config.Size(1<<20), opts.chunkSize)
	assert.Equal(t, config.Size(2<<20), opts.bwLimit)

	// Explicit flags win over the config file.
	cmd, opts = newCmd("--max-wait", "1s", "--chunk-size", "4K")
	opts.maxWait = time.Second
	opts.chunkSize = 4 << 10
	require.NoError(t, applyConfigDefaults(cmd, defaults, opts))
	assert.Equal(t, time.Second, opts.maxWait)
	assert.Equal(t, config.Size(4<<10), opts.chunkSize)
}

func TestRun_ConfigFileDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rcopy.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[defaults]\nverify = true\n"), 0o644))
	src := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0o644))

	code, _, stderr := runCLI(t, "--config", cfgPath, src, filepath.Join(dir, "g"))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "verified 1")

	code, _, stderr = runCLI(t, "--config", filepath.Join(dir, "missing.toml"), src, filepath.Join(dir, "h"))
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "config file")
}
