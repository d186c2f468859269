// Package oled mirrors the health summary onto a small serial status
// display when one is attached. Purely optional; the gateway runs
// headless without it.
package oled

import (
	"context"
	"strings"
	"sync"
	"time"

	"fleet-status-gateway/internal/health"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

type Display struct {
	mu sync.Mutex

	portName string
	baud     int

	port serial.Port
	last string // last committed payload (normalized)

	log *zap.Logger
}

func NewDisplay(portName string, baud int, log *zap.Logger) *Display {
	if baud <= 0 {
		baud = 115200
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Display{
		portName: portName,
		baud:     baud,
		log:      log,
	}
}

// Run polls report on an interval and pushes the rendered summary to
// the display, skipping sends when nothing changed. Blocks until ctx
// is cancelled.
func (d *Display) Run(ctx context.Context, report func(context.Context) health.Report, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			d.Close()
			return
		case <-t.C:
			payload := formatReport(report(ctx))
			if !d.shouldSend(payload) {
				continue
			}
			if err := d.send(payload); err != nil {
				d.log.Warn("oled send failed",
					zap.String("port", d.portName),
					zap.Error(err))
				d.dropPort()
			}
		}
	}
}

func (d *Display) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.port != nil {
		_ = d.port.Close()
		d.port = nil
	}
}

func (d *Display) shouldSend(payload string) bool {
	n := normalizePayload(payload)
	d.mu.Lock()
	defer d.mu.Unlock()
	if n == d.last {
		return false
	}
	d.last = n
	return true
}

func (d *Display) send(payload string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.port == nil {
		mode := &serial.Mode{BaudRate: d.baud}
		p, err := serial.Open(d.portName, mode)
		if err != nil {
			return err
		}
		d.port = p
	}

	_, err := d.port.Write([]byte(payload))
	return err
}

func (d *Display) dropPort() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.port != nil {
		_ = d.port.Close()
		d.port = nil
	}
}

func normalizePayload(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}
