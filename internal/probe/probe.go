// Package probe runs the external status checks behind /status. Every
// checker collapses tool errors, non-zero exits and timeouts to a
// negative result; nothing here returns an error to its caller.
package probe

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Second

// SystemdChecker asks the service manager whether a unit is active.
type SystemdChecker struct {
	Timeout time.Duration
}

func NewSystemdChecker(timeout time.Duration) *SystemdChecker {
	return &SystemdChecker{Timeout: timeout}
}

func (c *SystemdChecker) Active(ctx context.Context, unit string) bool {
	out, err := run(ctx, c.timeout(), "systemctl", "is-active", unit)
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) == "active"
}

func (c *SystemdChecker) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

// PgrepChecker matches running processes against a name pattern.
type PgrepChecker struct {
	Timeout time.Duration
}

func NewPgrepChecker(timeout time.Duration) *PgrepChecker {
	return &PgrepChecker{Timeout: timeout}
}

// Running reports whether any process matches pattern. pgrep exits 0
// only when the match set is non-empty.
func (c *PgrepChecker) Running(ctx context.Context, pattern string) bool {
	_, err := run(ctx, c.timeout(), "pgrep", "-f", pattern)
	return err == nil
}

func (c *PgrepChecker) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

func run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, name, args...)
	cmd.WaitDelay = time.Second

	b, err := cmd.CombinedOutput()
	if cctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%s timeout", name)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %v: %s", name, err, strings.TrimSpace(string(b)))
	}
	return string(b), nil
}
