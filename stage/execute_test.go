package stage

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/file-or-pattern/fop/fop"
	"github.com/file-or-pattern/fop/stamp"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestExecuteRunsExecutableAndCapturesStdout(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "ok.sh", "echo hello\n")

	e := NewExecute(false, true)
	out, err := e.ProcessOne(context.Background(), fop.Fop{FileOrPattern: path, Filename: &path})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Nil(t, out[0].Err)
	require.NotNil(t, out[0].Executable)
	assert.True(t, *out[0].Executable)
	require.NotNil(t, out[0].Content)
	assert.Equal(t, "hello\n", out[0].Content.Text)
}

func TestExecuteNonExecutableWithoutExpectationPassesThrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	require.NoError(t, writeFileHelper(path, "not a script"))

	e := NewExecute(false, true)
	out, err := e.ProcessOne(context.Background(), fop.Fop{FileOrPattern: path, Filename: &path})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Err)
	assert.Nil(t, out[0].Content)
}

func TestExecuteNonExecutableWithExpectationAttachesError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	require.NoError(t, writeFileHelper(path, "not a script"))

	e := NewExecute(true, true)
	out, err := e.ProcessOne(context.Background(), fop.Fop{FileOrPattern: path, Filename: &path})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Err)
	assert.Equal(t, fop.ErrNotExecutable, out[0].Err.Kind)
}

func TestExecuteNonZeroExitAttachesExecFailed(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "fail.sh", "exit 3\n")

	e := NewExecute(false, true)
	out, err := e.ProcessOne(context.Background(), fop.Fop{FileOrPattern: path, Filename: &path})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Err)
	assert.Equal(t, fop.ErrExecFailed, out[0].Err.Kind)
}

func TestExecuteCustomFailCheckerOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "fail.sh", "exit 3\n")

	alwaysPass := func(_ *os.ProcessState, _ []byte) error { return nil }
	e := NewExecute(false, true, WithFailChecker(alwaysPass))
	out, err := e.ProcessOne(context.Background(), fop.Fop{FileOrPattern: path, Filename: &path})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Err)
}

func TestExecuteStamperRecordsTiming(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "ok.sh", "echo hi\n")

	e := NewExecute(false, true, WithExecutionStamper(stamp.NewHiRes(), "exec"))
	out, err := e.ProcessOne(context.Background(), fop.Fop{FileOrPattern: path, Filename: &path})
	require.NoError(t, err)
	require.Len(t, out, 1)
	wantName := "exec:" + path
	rec, ok := out[0].Timestamp["exec"]
	require.True(t, ok)
	assert.Equal(t, wantName, rec.Name)
}
