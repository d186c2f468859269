package x11

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Capturer shells out to the capture tools and returns raw PNG bytes.
// A temp file is created and removed on every call; the capture tools
// refuse to overwrite an existing file, so the path is pre-cleared.
type Capturer struct {
	Env     Env
	Timeout time.Duration

	// ScreenCmd is the full-screen wrapper script, invoked as
	// "ScreenCmd <path>". WindowCmd captures a single window, invoked
	// as "WindowCmd -window <id> <path>".
	ScreenCmd string
	WindowCmd string

	// TempDir overrides os.TempDir for tests.
	TempDir string

	log *zap.Logger
}

func NewCapturer(env Env, screenCmd string, timeout time.Duration, log *zap.Logger) *Capturer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Capturer{
		Env:       env,
		Timeout:   timeout,
		ScreenCmd: screenCmd,
		WindowCmd: "import",
		log:       log,
	}
}

// Capture grabs the window with the given ID, or the whole screen when
// windowID is empty. Failures are logged with the tool's exit code and
// output, never returned.
func (c *Capturer) Capture(ctx context.Context, windowID string) ([]byte, bool) {
	dir := c.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("capture-%d-%d.png", os.Getpid(), time.Now().UnixNano()))
	_ = os.Remove(path)
	defer os.Remove(path)

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var cmd *exec.Cmd
	if windowID != "" {
		cmd = exec.CommandContext(cctx, c.WindowCmd, "-window", windowID, path)
		cmd.Env = append(os.Environ(), c.Env.vars()...)
	} else {
		cmd = exec.CommandContext(cctx, c.ScreenCmd, path)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Don't let an orphaned grandchild holding the pipes stall Wait
	// past the deadline.
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if cctx.Err() == context.DeadlineExceeded {
		c.log.Warn("capture timed out",
			zap.String("window", windowID),
			zap.Duration("timeout", timeout))
		return nil, false
	}

	if err == nil {
		data, rerr := os.ReadFile(path)
		if rerr == nil && len(data) > 0 {
			return data, true
		}
	}

	exit := -1
	if cmd.ProcessState != nil {
		exit = cmd.ProcessState.ExitCode()
	}
	c.log.Warn("capture failed",
		zap.String("window", windowID),
		zap.Int("exit_code", exit),
		zap.String("stderr", strings.TrimSpace(stderr.String())),
		zap.String("stdout", strings.TrimSpace(stdout.String())),
		zap.Error(err))
	return nil, false
}
