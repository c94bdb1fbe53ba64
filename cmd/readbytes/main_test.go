package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bytereader "github.com/usherasnick/readbytes/byte-reader"
)

func run(t *testing.T, args []string, opts ...bytereader.Option) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd, err := newRootCmd(&out, opts...)
	require.NoError(t, err)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func TestRootCmd(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "version.py")
	require.NoError(t, os.WriteFile(fn, []byte("VERSION = '1.0'\n"), 0644))

	out, err := run(t, []string{"--path", fn})
	assert.NoError(t, err)
	assert.Equal(t, "The bytes: [86, 69, 82, 83, 73, 79, 78, 32, 61, 32]\n", out)

	out, err = run(t, []string{"--path", fn, "--mode", "full"})
	assert.NoError(t, err)
	assert.Equal(t, "The bytes: [86, 69, 82, 83, 73, 79, 78, 32, 61, 32]\n", out)
}

func TestRootCmdEnv(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "tiny")
	require.NoError(t, os.WriteFile(fn, []byte{1, 2}, 0644))
	t.Setenv("READBYTES_PATH", fn)

	out, err := run(t, nil)
	assert.NoError(t, err)
	assert.Equal(t, "The bytes: [1, 2]\n", out)
}

func TestRootCmdReadErrorIsDiscarded(t *testing.T) {
	out, err := run(t, []string{"--path", t.TempDir()})
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestRootCmdOpenFailure(t *testing.T) {
	var failed bool
	out, err := run(t, []string{"--path", filepath.Join(t.TempDir(), "missing")},
		bytereader.WithOpenFailureHandler(func(*bytereader.OpenError) { failed = true }))
	var oe *bytereader.OpenError
	assert.True(t, errors.As(err, &oe))
	assert.True(t, failed)
	assert.Empty(t, out)
}

func TestRootCmdBadFlags(t *testing.T) {
	_, err := run(t, []string{"--mode", "loop"})
	assert.Error(t, err)

	_, err = run(t, []string{"--log-level", "loud"})
	assert.Error(t, err)

	_, err = run(t, []string{"extra"})
	assert.Error(t, err)
}

// 子进程里跑真正的main, 检查默认的打开失败处理
func TestMainOpenFailureExits(t *testing.T) {
	if os.Getenv("READBYTES_RUN_MAIN") == "1" {
		os.Args = []string{"readbytes"}
		main()
		return
	}

	missing := filepath.Join(t.TempDir(), "missing", "version.py")
	for _, lvl := range []string{"info", "fatal", "panic"} {
		t.Run(lvl, func(t *testing.T) {
			cmd := exec.Command(os.Args[0], "-test.run=^TestMainOpenFailureExits$")
			cmd.Env = append(os.Environ(),
				"READBYTES_RUN_MAIN=1",
				"READBYTES_PATH="+missing,
				"READBYTES_LOG_LEVEL="+lvl,
			)
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			err := cmd.Run()
			var ee *exec.ExitError
			require.True(t, errors.As(err, &ee), "expected non-zero exit, got %v", err)
			assert.NotEqual(t, 0, ee.ExitCode())
			assert.Empty(t, stdout.String())
			assert.Contains(t, stderr.String(), missing)
		})
	}
}

func TestMainSuccessExitsZero(t *testing.T) {
	if os.Getenv("READBYTES_RUN_MAIN") == "1" {
		return
	}
	fn := filepath.Join(t.TempDir(), "version.py")
	require.NoError(t, os.WriteFile(fn, []byte("v1"), 0644))

	cmd := exec.Command(os.Args[0], "-test.run=^TestMainOpenFailureExits$")
	cmd.Env = append(os.Environ(), "READBYTES_RUN_MAIN=1", "READBYTES_PATH="+fn, "READBYTES_LOG_LEVEL=panic")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())
	assert.Contains(t, stdout.String(), "The bytes: [118, 49]\n")
}
