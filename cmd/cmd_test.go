package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/nlc/internal/config"
)

// run executes the root command with fresh flag values. Commands share
// package level flags, so these tests do not run in parallel.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cfgFile, verbose, timeout = "", false, defaultTimeout
	inputFile, inputDir, outPath, jsonOutput = "", "", "", false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nlc.yaml")
	_, _, err := run(t, "init", "--config", path)
	require.NoError(t, err)
	return path
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nlc.yaml")
	stdout, _, err := run(t, "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, config.Default(), cfg)
}

func TestCompileArgs(t *testing.T) {
	cfg := writeConfig(t)

	stdout, _, err := run(t, "--config", cfg, "compile", "Print", "numbers", "from", "1", "to", "10")
	require.NoError(t, err)
	assert.Equal(t, "for i in range(1, 11):\n    print(i)\n", stdout)

	// bare words behave like the compile subcommand
	stdout, _, err = run(t, "--config", cfg, "Print", "numbers", "from", "1", "to", "10")
	require.NoError(t, err)
	assert.Equal(t, "for i in range(1, 11):\n    print(i)\n", stdout)
}

func TestCompileFailure(t *testing.T) {
	cfg := writeConfig(t)

	stdout, stderr, err := run(t, "--config", cfg, "compile", "Plot a graph of a sine wave")
	assert.ErrorIs(t, err, errFailed)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "error: match")
	assert.Contains(t, stderr, "<args>:1")
}

func TestCompileFileJSON(t *testing.T) {
	cfg := writeConfig(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "batch.nl")
	require.NoError(t, os.WriteFile(input, []byte("# batch\nWrite a function to check if a number is prime\nPlot a graph of a sine wave\n"), 0o644))
	out := filepath.Join(dir, "out.json")

	_, _, err := run(t, "--config", cfg, "compile", "-f", input, "--json", "-o", out)
	assert.ErrorIs(t, err, errFailed)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var got []jsonOutcome
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)

	assert.Equal(t, 2, got[0].Line)
	require.NotNil(t, got[0].Result)
	assert.Equal(t, "prime_check", got[0].Result.Idiom)
	assert.Equal(t, "FunctionDef", got[0].Result.Intent)

	assert.Equal(t, 3, got[1].Line)
	assert.Nil(t, got[1].Result)
	assert.Contains(t, got[1].Error, "match")
}

func TestCompileDir(t *testing.T) {
	cfg := writeConfig(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.nl"), []byte("Print numbers from 1 to 3\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("Create a class called Stack\n"), 0o644))

	stdout, _, err := run(t, "--config", cfg, "compile", "-d", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "# "+filepath.Join(dir, "a.nl")+":1: Print numbers from 1 to 3\nfor i in range(1, 4):\n")
	assert.Contains(t, stdout, "class Stack:")
}

func TestCompileNoInput(t *testing.T) {
	_, _, err := run(t, "compile")
	assert.Error(t, err)
}

func TestRulesAndIdioms(t *testing.T) {
	cfg := writeConfig(t)

	stdout, _, err := run(t, "--config", cfg, "rules")
	require.NoError(t, err)
	assert.Contains(t, stdout, "PRIORITY")
	assert.Contains(t, stdout, "class-definition")
	assert.Contains(t, stdout, "ClassDef")

	stdout, _, err = run(t, "--config", cfg, "idioms")
	require.NoError(t, err)
	assert.Contains(t, stdout, "prime_check")
	assert.Contains(t, stdout, "class")
}

func TestTokens(t *testing.T) {
	cfg := writeConfig(t)

	stdout, _, err := run(t, "--config", cfg, "tokens", "Write", "a", "function")
	require.NoError(t, err)
	assert.Contains(t, stdout, "CATEGORY")
	assert.Contains(t, stdout, "function")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.py")
	bad := filepath.Join(dir, "bad.py")
	require.NoError(t, os.WriteFile(good, []byte("def f(x):\n    return x\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("def f(x)\n    return x\n"), 0o644))

	stdout, _, err := run(t, "check", good)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	stdout, _, err = run(t, "check", good, bad)
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, stdout, bad+":")
}

func TestFingerprints(t *testing.T) {
	assert.Equal(t, "{check, prime} {prime}", fingerprints([][]string{{"check", "prime"}, {"prime"}}))
	assert.Empty(t, fingerprints(nil))
}
