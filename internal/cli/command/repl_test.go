package command

import (
	"strings"
	"testing"
)

func TestREPL_LiveSession(t *testing.T) {
	env := newTestEnv(t)

	input := strings.Join([]string{
		"set archive_collapsed true",
		"set support_switch previous",
		"get archive_collapsed",
		`sound set msg "/tmp/with space.mp3"`,
		"nonsense",
		"repl",
		"exit",
	}, "\n") + "\n"

	out, err := env.runInput(strings.NewReader(input), "repl", "--no-history")
	if err != nil {
		t.Fatalf("repl: %v\n%s", err, out)
	}
	for _, want := range []string{
		"account main",
		"* archive_collapsed changed",
		"* support_switch changed",
		"* sound_overrides changed",
		"error: already in the repl",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("repl output missing %q:\n%s", want, out)
		}
	}

	// Leaving the shell flushes the debounced save.
	if got := env.must("get", "archive_collapsed"); got != "true\n" {
		t.Errorf("archive_collapsed after repl = %q", got)
	}
	if got := env.must("sound", "get", "msg"); got != "/tmp/with space.mp3\n" {
		t.Errorf("sound after repl = %q", got)
	}
}

func TestREPL_EOF(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.runInput(strings.NewReader(""), "repl", "--no-history"); err != nil {
		t.Fatalf("repl: %v", err)
	}
}
