// Package health aggregates the configured service and process checks
// into the status report served at /status.
package health

import "context"

// Overall classification thresholds: every check up, no check up, or
// anything in between.
const (
	StatusHealthy = "healthy"
	StatusPartial = "partial"
	StatusOffline = "offline"
)

// ServiceChecker answers whether a named service-manager unit is active.
type ServiceChecker interface {
	Active(ctx context.Context, unit string) bool
}

// ProcessChecker answers whether any running process matches a pattern.
type ProcessChecker interface {
	Running(ctx context.Context, pattern string) bool
}

// Report is the JSON body of /status. Running always equals the count
// of true values across Systemd and Processes combined.
type Report struct {
	Status    string          `json:"status"`
	Systemd   map[string]bool `json:"systemd"`
	Processes map[string]bool `json:"processes"`
	Running   int             `json:"running"`
	Total     int             `json:"total"`
	Uptime    string          `json:"uptime"`
}

// Collector evaluates a fixed set of checks. It holds no mutable state;
// every Report call probes the OS fresh.
type Collector struct {
	services []string
	patterns []string

	svc    ServiceChecker
	proc   ProcessChecker
	uptime func() string
}

func NewCollector(services, patterns []string, svc ServiceChecker, proc ProcessChecker, uptime func() string) *Collector {
	return &Collector{
		services: services,
		patterns: patterns,
		svc:      svc,
		proc:     proc,
		uptime:   uptime,
	}
}

func (c *Collector) Report(ctx context.Context) Report {
	rep := Report{
		Systemd:   make(map[string]bool, len(c.services)),
		Processes: make(map[string]bool, len(c.patterns)),
	}

	for _, unit := range c.services {
		rep.Systemd[unit] = c.svc.Active(ctx, unit)
	}
	for _, pattern := range c.patterns {
		rep.Processes[pattern] = c.proc.Running(ctx, pattern)
	}

	rep.Total = len(rep.Systemd) + len(rep.Processes)
	for _, up := range rep.Systemd {
		if up {
			rep.Running++
		}
	}
	for _, up := range rep.Processes {
		if up {
			rep.Running++
		}
	}

	rep.Status = overall(rep.Running, rep.Total)
	rep.Uptime = c.uptime()
	return rep
}

func overall(running, total int) string {
	switch {
	case running == total:
		return StatusHealthy
	case running == 0:
		return StatusOffline
	default:
		return StatusPartial
	}
}
