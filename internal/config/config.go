package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is fixed at startup and shared read-only by every request.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	// X11 session the capture tools talk to.
	Display    string `yaml:"display"`
	Xauthority string `yaml:"xauthority"`

	// Wrapper script used for full-screen captures.
	ScreenCaptureCmd string `yaml:"screen_capture_cmd"`

	// Fixed check sets for /status.
	SystemdServices []string `yaml:"systemd_services"`
	ProcessPatterns []string `yaml:"process_patterns"`

	// Window name patterns, tried in order.
	TerminalWindows []string `yaml:"terminal_windows"`
	ChromiumWindows []string `yaml:"chromium_windows"`

	ProbeTimeoutMs   int `yaml:"probe_timeout_ms"`
	CaptureTimeoutMs int `yaml:"capture_timeout_ms"`

	AllowedSubnets []string `yaml:"allowed_subnets"`
	LogRequests    bool     `yaml:"log_requests"`

	// Optional serial OLED status display; empty port disables it.
	OLEDPort string `yaml:"oled_port"`
	OLEDBaud int    `yaml:"oled_baud"`
}

func Default() Config {
	return Config{
		ListenAddr:       "0.0.0.0:8081",
		Display:          ":0",
		Xauthority:       "/home/pizero/.Xauthority",
		ScreenCaptureCmd: "/opt/take-screenshot.sh",
		SystemdServices: []string{
			"groundwater-connection",
			"groundwater-genie-manager",
			"groundwater-updater",
		},
		ProcessPatterns: []string{
			"kmzero.sh",
			"groundwater.sh",
			"main.py",
		},
		TerminalWindows:  []string{"kmzero", "LXTerminal", "Terminal"},
		ChromiumWindows:  []string{"Chromium", "Chrome"},
		ProbeTimeoutMs:   5000,
		CaptureTimeoutMs: 10000,
		OLEDBaud:         115200,
	}
}

// Load builds the config from defaults, an optional YAML file, then
// environment overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.ProbeTimeoutMs <= 0 {
		cfg.ProbeTimeoutMs = Default().ProbeTimeoutMs
	}
	if cfg.CaptureTimeoutMs <= 0 {
		cfg.CaptureTimeoutMs = Default().CaptureTimeoutMs
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.ListenAddr = env("LISTEN_ADDR", c.ListenAddr)
	c.Display = env("X11_DISPLAY", c.Display)
	c.Xauthority = env("X11_XAUTHORITY", c.Xauthority)
	c.ScreenCaptureCmd = env("SCREEN_CAPTURE_CMD", c.ScreenCaptureCmd)
	c.ProbeTimeoutMs = envInt("PROBE_TIMEOUT_MS", c.ProbeTimeoutMs)
	c.CaptureTimeoutMs = envInt("CAPTURE_TIMEOUT_MS", c.CaptureTimeoutMs)
	c.LogRequests = envBool("LOG_REQUESTS", c.LogRequests)
	c.OLEDPort = env("OLED_PORT", c.OLEDPort)
	c.OLEDBaud = envInt("OLED_BAUD", c.OLEDBaud)

	if v := splitCSV(os.Getenv("SYSTEMD_SERVICES")); v != nil {
		c.SystemdServices = v
	}
	if v := splitCSV(os.Getenv("PROCESS_PATTERNS")); v != nil {
		c.ProcessPatterns = v
	}
	if v := splitCSV(os.Getenv("ALLOWED_SUBNETS")); v != nil {
		c.AllowedSubnets = v
	}
}

func (c Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutMs) * time.Millisecond
}

func (c Config) CaptureTimeout() time.Duration {
	return time.Duration(c.CaptureTimeoutMs) * time.Millisecond
}

func env(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
