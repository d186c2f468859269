package x11

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertNoLeftovers(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		t.Errorf("leftover temp file: %s", e.Name())
	}
}

func TestLocatorFindFirstLine(t *testing.T) {
	l := NewLocator(Env{Display: ":0"}, time.Second)
	l.SearchCmd = writeScript(t, `printf '12345678\n87654321\n'`)

	id, ok := l.Find(context.Background(), "Chromium")
	if !ok {
		t.Fatal("expected window to be found")
	}
	if id != "12345678" {
		t.Fatalf("window id = %q; want first line", id)
	}
}

func TestLocatorNotFound(t *testing.T) {
	cases := []struct {
		name   string
		script string
	}{
		{"empty output", `exit 0`},
		{"non-zero exit", `exit 1`},
		{"blank line", `printf '\n'`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLocator(Env{}, time.Second)
			l.SearchCmd = writeScript(t, tc.script)
			if _, ok := l.Find(context.Background(), "x"); ok {
				t.Fatal("expected not found")
			}
		})
	}
}

func TestLocatorMissingTool(t *testing.T) {
	l := NewLocator(Env{}, time.Second)
	l.SearchCmd = filepath.Join(t.TempDir(), "no-such-tool")
	if _, ok := l.Find(context.Background(), "x"); ok {
		t.Fatal("expected not found for missing tool")
	}
}

func TestCaptureFullScreen(t *testing.T) {
	tmp := t.TempDir()
	c := NewCapturer(Env{Display: ":0"}, writeScript(t, `printf 'fake-png-bytes' > "$1"`), time.Second, nil)
	c.TempDir = tmp

	data, ok := c.Capture(context.Background(), "")
	if !ok {
		t.Fatal("expected capture to succeed")
	}
	if string(data) != "fake-png-bytes" {
		t.Fatalf("capture bytes = %q", data)
	}
	assertNoLeftovers(t, tmp)
}

func TestCaptureWindow(t *testing.T) {
	tmp := t.TempDir()
	c := NewCapturer(Env{Display: ":0"}, "/bin/false", time.Second, nil)
	c.TempDir = tmp
	// Invoked as: WindowCmd -window <id> <path>
	c.WindowCmd = writeScript(t, `[ "$1" = "-window" ] || exit 2
printf 'window-%s' "$2" > "$3"`)

	data, ok := c.Capture(context.Background(), "12345")
	if !ok {
		t.Fatal("expected window capture to succeed")
	}
	if string(data) != "window-12345" {
		t.Fatalf("capture bytes = %q", data)
	}
	assertNoLeftovers(t, tmp)
}

func TestCaptureToolFails(t *testing.T) {
	tmp := t.TempDir()
	c := NewCapturer(Env{}, writeScript(t, `echo boom >&2; exit 1`), time.Second, nil)
	c.TempDir = tmp

	if _, ok := c.Capture(context.Background(), ""); ok {
		t.Fatal("expected capture failure")
	}
	assertNoLeftovers(t, tmp)
}

func TestCaptureEmptyFile(t *testing.T) {
	tmp := t.TempDir()
	c := NewCapturer(Env{}, writeScript(t, `: > "$1"; exit 0`), time.Second, nil)
	c.TempDir = tmp

	if _, ok := c.Capture(context.Background(), ""); ok {
		t.Fatal("expected failure for empty output file")
	}
	assertNoLeftovers(t, tmp)
}

func TestCaptureTimeout(t *testing.T) {
	tmp := t.TempDir()
	c := NewCapturer(Env{}, writeScript(t, `sleep 5; printf 'late' > "$1"`), 100*time.Millisecond, nil)
	c.TempDir = tmp

	start := time.Now()
	if _, ok := c.Capture(context.Background(), ""); ok {
		t.Fatal("expected timeout failure")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeout not enforced, took %v", elapsed)
	}
	assertNoLeftovers(t, tmp)
}

func TestCaptureMissingTool(t *testing.T) {
	tmp := t.TempDir()
	c := NewCapturer(Env{}, filepath.Join(t.TempDir(), "no-such-tool"), time.Second, nil)
	c.TempDir = tmp

	if _, ok := c.Capture(context.Background(), ""); ok {
		t.Fatal("expected failure for missing tool")
	}
	assertNoLeftovers(t, tmp)
}
