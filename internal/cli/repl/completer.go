package repl

import (
	"sort"
	"strings"
)

// Completer suggests command phrases for a typed prefix.
type Completer struct {
	phrases []string
}

// NewCompleter creates a completer over phrases plus the shell builtins.
func NewCompleter(phrases ...string) *Completer {
	seen := make(map[string]struct{}, len(phrases)+3)
	c := &Completer{}
	for _, p := range append(phrases, "exit", "quit", "history") {
		p = strings.Join(strings.Fields(p), " ")
		if _, dup := seen[p]; dup || p == "" {
			continue
		}
		seen[p] = struct{}{}
		c.phrases = append(c.phrases, p)
	}
	sort.Strings(c.phrases)
	return c
}

// Complete returns the phrases starting with prefix, sorted. Runs of
// whitespace in prefix match a single space.
func (c *Completer) Complete(prefix string) []string {
	norm := strings.Join(strings.Fields(prefix), " ")
	if strings.HasSuffix(prefix, " ") && norm != "" {
		norm += " "
	}
	var out []string
	for _, p := range c.phrases {
		if strings.HasPrefix(p, norm) {
			out = append(out, p)
		}
	}
	return out
}
