package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	rep := s.health.Report(r.Context())
	statusReports.Inc()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rep)
}

func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	data, ok := s.screens.Capture(r.Context(), "")
	if !ok {
		captures.WithLabelValues("screen", "failed").Inc()
		writeJSONError(w, http.StatusInternalServerError, "Failed to take screenshot")
		return
	}
	captures.WithLabelValues("screen", "ok").Inc()
	writePNG(w, data)
}

// handleScreenshotTerminal tries the terminal window patterns in
// priority order; any failure to resolve or capture falls back to the
// full-screen path, so the route only fails when that does.
func (s *Server) handleScreenshotTerminal(w http.ResponseWriter, r *http.Request) {
	if id, ok := s.findFirst(r.Context(), s.cfg.TerminalWindows); ok {
		if data, ok := s.screens.Capture(r.Context(), id); ok {
			captures.WithLabelValues("terminal", "ok").Inc()
			writePNG(w, data)
			return
		}
	}
	captures.WithLabelValues("terminal", "fallback").Inc()
	s.handleScreenshot(w, r)
}

// handleScreenshotChromium has no fallback: when no browser window
// resolves, or its capture fails, the route reports 404.
func (s *Server) handleScreenshotChromium(w http.ResponseWriter, r *http.Request) {
	if id, ok := s.findFirst(r.Context(), s.cfg.ChromiumWindows); ok {
		if data, ok := s.screens.Capture(r.Context(), id); ok {
			captures.WithLabelValues("chromium", "ok").Inc()
			writePNG(w, data)
			return
		}
	}
	captures.WithLabelValues("chromium", "failed").Inc()
	writeJSONError(w, http.StatusNotFound, "Chromium not running")
}

func (s *Server) findFirst(ctx context.Context, patterns []string) (string, bool) {
	for _, p := range patterns {
		if id, ok := s.windows.Find(ctx, p); ok {
			return id, true
		}
	}
	return "", false
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
