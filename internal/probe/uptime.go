package probe

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Uptime reads elapsed system time from the kernel counter file.
// Path is injectable for tests; empty means /proc/uptime.
type Uptime struct {
	Path string
}

// String returns the uptime as "3d 4h" (or "4h" under one day), or
// "unknown" when the counter cannot be read or parsed.
func (u Uptime) String() string {
	path := u.Path
	if path == "" {
		path = "/proc/uptime"
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "unknown"
	}
	fields := strings.Fields(string(b))
	if len(fields) < 1 {
		return "unknown"
	}
	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return "unknown"
	}
	return formatUptime(seconds)
}

func formatUptime(seconds float64) string {
	days := int(seconds) / 86400
	hours := (int(seconds) % 86400) / 3600
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dh", hours)
}
