package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestExecRunnerRunSuccess(t *testing.T) {
	script := writeScript(t, "echo out\necho err >&2\n")

	var stdout, stderr bytes.Buffer
	code, err := ExecRunner{}.Run(context.Background(), Command{
		Name:   script,
		Stdout: &stdout,
		Stderr: &stderr,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "out\n", stdout.String())
	assert.Equal(t, "err\n", stderr.String())
}

func TestExecRunnerRunPropagatesExitStatus(t *testing.T) {
	script := writeScript(t, "exit 2\n")

	code, err := ExecRunner{}.Run(context.Background(), Command{Name: script})
	require.Error(t, err)
	assert.Equal(t, 2, code)
}

func TestExecRunnerRunPassesArgs(t *testing.T) {
	script := writeScript(t, `echo "$1-$2"`+"\n")

	var stdout bytes.Buffer
	_, err := ExecRunner{}.Run(context.Background(), Command{
		Name:   script,
		Args:   []string{"a", "b"},
		Stdout: &stdout,
	})
	require.NoError(t, err)
	assert.Equal(t, "a-b\n", stdout.String())
}

func TestExecRunnerMissingExecutable(t *testing.T) {
	code, err := ExecRunner{}.Run(context.Background(), Command{Name: "devtask-definitely-not-installed"})
	require.Error(t, err)
	assert.Equal(t, ExitNotFound, code)

	code, err = ExecRunner{}.Run(context.Background(), Command{Name: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.Equal(t, ExitNotFound, code)
}

func TestExecRunnerNotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	code, err := ExecRunner{}.Run(context.Background(), Command{Name: path})
	require.Error(t, err)
	assert.Equal(t, ExitNotExecutable, code)
}

func TestExecRunnerOutput(t *testing.T) {
	script := writeScript(t, "echo 41943047\n")

	out, code, err := ExecRunner{}.Output(context.Background(), nil, script)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "41943047\n", string(out))
}

func TestExecRunnerOutputFailure(t *testing.T) {
	script := writeScript(t, "echo partial\nexit 1\n")

	out, code, err := ExecRunner{}.Output(context.Background(), nil, script)
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, "partial\n", string(out))
}

func TestExecRunnerOutputForwardsStderr(t *testing.T) {
	script := writeScript(t, "echo 'XGetWindowProperty[_NET_ACTIVE_WINDOW] failed' >&2\nexit 1\n")

	var stderr bytes.Buffer
	out, code, err := ExecRunner{}.Output(context.Background(), &stderr, script)
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Equal(t, "XGetWindowProperty[_NET_ACTIVE_WINDOW] failed\n", stderr.String())
}

func TestExecRunnerRunKilledBySignal(t *testing.T) {
	script := writeScript(t, "kill -TERM $$\n")

	code, err := ExecRunner{}.Run(context.Background(), Command{Name: script})
	require.Error(t, err)
	assert.Equal(t, ExitSignalBase+15, code)
}

func TestExitCodeNil(t *testing.T) {
	code, err := ExitCode(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestSleepFunc(t *testing.T) {
	var got time.Duration
	var s Sleeper = SleepFunc(func(d time.Duration) { got = d })
	s.Sleep(5 * time.Second)
	assert.Equal(t, 5*time.Second, got)
}
