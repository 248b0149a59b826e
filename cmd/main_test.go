package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/smarthome-go/defscript/defscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func writeProgram(t *testing.T, program string) string {
	path := filepath.Join(t.TempDir(), "main.def")
	require.NoError(t, os.WriteFile(path, []byte(program), 0o644))
	return path
}

func runApp(t *testing.T, args ...string) (stdout string, stderr string, err error) {
	state := &appState{
		logger:  slog.New(slog.DiscardHandler),
		cleanup: make([]func(), 0),
	}

	var out, errOut bytes.Buffer
	app := newApp(state)
	app.Writer = &out
	app.ErrWriter = &errOut

	err = app.Run(append([]string{programName, "--color", "never"}, args...))
	return out.String(), errOut.String(), err
}

func TestEvalText(t *testing.T) {
	path := writeProgram(t, "total = a + b; a = 1; b = 2; total * 2")

	stdout, _, err := runApp(t, "eval", path)
	require.NoError(t, err)
	assert.Equal(t, "a = 1\nb = 2\ntotal = 3\n6\n", stdout)
}

func TestEvalSelect(t *testing.T) {
	path := writeProgram(t, "total_price = 1; total_count = 2; other = 3;")

	stdout, _, err := runApp(t, "eval", "--select", "tot", path)
	require.NoError(t, err)
	assert.Equal(t, "total_price = 1\ntotal_count = 2\n", stdout)
}

func TestEvalJSON(t *testing.T) {
	path := writeProgram(t, "a = 1; b = [1.5, 'x', null]; r = 1..=3;")

	stdout, _, err := runApp(t, "eval", "--format", "json", path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.Equal(t, []any{"a", "b", "r"}, decoded["order"])
	assert.Equal(t, map[string]any{
		"a": 1.0,
		"b": []any{1.5, "x", nil},
		"r": map[string]any{"start": 1.0, "end": 3.0, "inclusive": true},
	}, decoded["values"])
}

func TestEvalYAML(t *testing.T) {
	path := writeProgram(t, "b = 2; a = 'x';")

	stdout, _, err := runApp(t, "eval", "--format", "yaml", path)
	require.NoError(t, err)
	// names keep the evaluation order
	assert.Contains(t, stdout, "values:\n  b: 2\n  a: x\n")
}

func TestEvalDiagnostics(t *testing.T) {
	path := writeProgram(t, "x = y + 1;")

	_, stderr, err := runApp(t, "eval", path)
	require.Error(t, err)

	exitErr, ok := err.(cli.ExitCoder)
	require.True(t, ok)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, stderr, "Error[ReferenceError] at "+path+":1:5")
	assert.Contains(t, stderr, "`y` is not defined")
}

func TestEvalInvalidFormat(t *testing.T) {
	path := writeProgram(t, "a = 1;")

	_, _, err := runApp(t, "eval", "--format", "xml", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid output format `xml`")
}

func TestCheck(t *testing.T) {
	path := writeProgram(t, "c = a+b; a = b = 1;")

	stdout, _, err := runApp(t, "check", path)
	require.NoError(t, err)
	assert.Equal(
		t,
		"Evaluation order (2 rounds):\n  1. a\n  2. b\n  3. c\n\na = b = 1;\nc = a + b;\n",
		stdout,
	)
}

func TestCheckRecursion(t *testing.T) {
	path := writeProgram(t, "a = b; b = a;")

	_, stderr, err := runApp(t, "check", path)
	require.Error(t, err)
	assert.Contains(t, stderr, "Circular dependency: a -> b -> a")
}

func TestTokens(t *testing.T) {
	path := writeProgram(t, "a = 1;")

	stdout, _, err := runApp(t, "tokens", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1:1-1:2      identifier   a\n")
	assert.Contains(t, stdout, "1:5-1:6      number       1\n")
}

func TestAst(t *testing.T) {
	path := writeProgram(t, "a = 1;")

	stdout, _, err := runApp(t, "ast", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "AssignExpression")
	assert.Contains(t, stdout, "NumberLiteralExpression")
}

func TestMissingArgument(t *testing.T) {
	_, _, err := runApp(t, "eval")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected exactly one argument <file>")
}

func TestSelectNames(t *testing.T) {
	names := []string{"alpha", "beta", "alphabet", "gamma"}
	assert.Equal(t, names, selectNames(names, ""))
	assert.Equal(t, []string{"alpha", "alphabet"}, selectNames(names, "alp"))
	assert.Empty(t, selectNames(names, "zzz"))
}

func TestWriteResultExpressions(t *testing.T) {
	result, errs := defscript.Run("1 + 1; 'a' * 2")
	require.Empty(t, errs)

	var buffer bytes.Buffer
	require.NoError(t, writeResult(&buffer, result, result.Order, "yaml"))
	assert.Contains(t, buffer.String(), "expressions:\n- 2\n- aa\n")
}

func TestColorEnabled(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "output")
	require.NoError(t, err)
	defer file.Close()

	enabled, err := colorEnabled("auto", file)
	require.NoError(t, err)
	assert.False(t, enabled)

	enabled, err = colorEnabled("always", file)
	require.NoError(t, err)
	assert.True(t, enabled)

	_, err = colorEnabled("sometimes", file)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "defscript.log")

	var stderr bytes.Buffer
	logger, closeLog, err := newLogger("info", logFile, &stderr)
	require.NoError(t, err)

	logger.Debug("only in file")
	logger.Info("everywhere")
	closeLog()

	assert.NotContains(t, stderr.String(), "only in file")
	assert.Contains(t, stderr.String(), "everywhere")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"only in file"`)
	assert.Contains(t, string(content), `"msg":"everywhere"`)

	_, _, err = newLogger("loud", "", &stderr)
	assert.Error(t, err)
}

func TestStartProfile(t *testing.T) {
	stop, err := startProfile("", "")
	require.NoError(t, err)
	stop()

	_, err = startProfile("gpu", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid modes are cpu, mem")
}
