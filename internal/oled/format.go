package oled

import (
	"fmt"
	"strings"

	"fleet-status-gateway/internal/health"
)

// formatReport renders the three-line summary the display firmware
// expects, terminated by a blank commit line.
func formatReport(rep health.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ST: %s\n", strings.ToUpper(rep.Status))
	fmt.Fprintf(&b, "SVC: %d/%d\n", rep.Running, rep.Total)
	if rep.Uptime != "" {
		fmt.Fprintf(&b, "UP: %s\n", rep.Uptime)
	}
	b.WriteByte('\n') // commit
	return b.String()
}
