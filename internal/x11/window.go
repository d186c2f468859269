// Package x11 wraps the external window-query and capture tools that
// talk to the device's X session. Like the probe layer, every failure
// mode collapses to a not-found / no-image result.
package x11

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Env is the display/auth context appended to each tool invocation.
type Env struct {
	Display    string
	Xauthority string
}

func (e Env) vars() []string {
	return []string{
		"DISPLAY=" + e.Display,
		"XAUTHORITY=" + e.Xauthority,
	}
}

// Locator resolves window IDs from name-substring patterns via the
// window-search tool.
type Locator struct {
	Env     Env
	Timeout time.Duration

	// SearchCmd is the window-search binary; tests point it at a fake.
	SearchCmd string
}

func NewLocator(env Env, timeout time.Duration) *Locator {
	return &Locator{Env: env, Timeout: timeout, SearchCmd: "xdotool"}
}

// Find returns the first window whose name matches pattern. Missing
// tool, timeout and empty output all report not found.
func (l *Locator) Find(ctx context.Context, pattern string) (string, bool) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, l.SearchCmd, "search", "--name", pattern)
	cmd.Env = append(os.Environ(), l.Env.vars()...)
	cmd.WaitDelay = time.Second

	out, err := cmd.Output()
	if err != nil || cctx.Err() != nil {
		return "", false
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return "", false
	}
	return strings.TrimSpace(lines[0]), true
}
