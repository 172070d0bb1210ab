package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prdeck/internal/domain/port/driven"
)

// run executes the CLI against buffers and returns the exit code plus
// captured output.
func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := executeWith(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestExecute_NoArgsIsUsageError(t *testing.T) {
	code, _, errOut := run(t)

	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "accepts 1 arg")
}

func TestExecute_BadRefIsUsageError(t *testing.T) {
	code, _, errOut := run(t, "not-a-ref")

	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "cannot parse pull request reference")
}

func TestExecute_UnknownFlagIsUsageError(t *testing.T) {
	code, _, errOut := run(t, "--frobnicate", "1")

	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "unknown flag")
}

func TestExecute_MalformedConfigIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("diff: [not: a: mapping"), 0o644))

	code, _, errOut := run(t, "--config", path, "7")

	assert.Equal(t, ExitFatal, code)
	assert.Contains(t, errOut, "parsing config")
}

// The reference is validated before the config file is even opened, so a
// botched invocation stays a usage error.
func TestExecute_RefParsedBeforeConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("diff: [not: a: mapping"), 0o644))

	code, _, _ := run(t, "--config", path, "not-a-ref")

	assert.Equal(t, ExitUsage, code)
}

func TestExecute_HelpSucceeds(t *testing.T) {
	code, out, _ := run(t, "--help")

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "interactive review session")
	assert.Contains(t, out, "--cached")
}

func TestExecute_VersionSucceeds(t *testing.T) {
	code, out, _ := run(t, "--version")

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, version)
}

func TestConfigInit_WritesAnnotatedDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	code, out, _ := run(t, "config", "init", "--config", path)

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "keybindings:")
	assert.Contains(t, string(data), "renderer: builtin")
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor: nano\n"), 0o644))

	code, _, errOut := run(t, "config", "init", "--config", path)

	assert.Equal(t, ExitFatal, code)
	assert.Contains(t, errOut, "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "editor: nano\n", string(data))
}

func TestExitError_Unwraps(t *testing.T) {
	inner := errors.New("boom")
	xe := &exitError{code: ExitFatal, err: inner}

	assert.Equal(t, "boom", xe.Error())
	assert.ErrorIs(t, xe, inner)
}

func TestOfflineWriter_RejectsSubmission(t *testing.T) {
	w := offlineWriter{err: driven.ErrAuthRequired}

	err := w.SubmitReview(context.Background(), "octocat/hello-world", 1, driven.ReviewRequest{})

	assert.ErrorIs(t, err, driven.ErrAuthRequired)
}
