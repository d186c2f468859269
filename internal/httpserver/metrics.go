package httpserver

import "github.com/prometheus/client_golang/prometheus"

var (
	statusReports = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "status_reports_total",
			Help: "Status reports served.",
		},
	)
	captures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screenshot_captures_total",
			Help: "Screenshot attempts by route and outcome.",
		},
		[]string{"route", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(statusReports)
	prometheus.MustRegister(captures)
}
