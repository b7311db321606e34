package command

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

// testEnv runs the application against a temporary data directory with
// no user configuration in reach.
type testEnv struct {
	t       *testing.T
	dataDir string
	global  []string
}

func newTestEnv(t *testing.T, global ...string) *testEnv {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	return &testEnv{t: t, dataDir: t.TempDir(), global: global}
}

// runInput runs one command line with stdin and returns stdout.
func (e *testEnv) runInput(stdin io.Reader, args ...string) (string, error) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp(stdin, &stdout, &stderr)
	full := append([]string{"tdsettings", "--data-dir", e.dataDir}, e.global...)
	full = append(full, args...)
	err := app.RunContext(context.Background(), full)
	return stdout.String(), err
}

func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	return e.runInput(strings.NewReader(""), args...)
}

// must runs args and fails the test on error.
func (e *testEnv) must(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("%v: %v", args, err)
	}
	return out
}
