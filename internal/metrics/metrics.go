package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// FetchTotal counts page fetches per source and outcome
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "addoncount_fetch_total",
			Help: "Page fetches by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	ExtractFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "addoncount_extract_failures_total",
			Help: "Pages whose count could not be extracted",
		},
		[]string{"source"},
	)

	TotalsEmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "addoncount_totals_emitted_total",
			Help: "Completed addon totals handed to sinks",
		},
	)

	SinkErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "addoncount_sink_errors_total",
			Help: "Failed sink writes by sink",
		},
		[]string{"sink"},
	)

	// LastTotal holds the most recent combined count per addon
	LastTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "addoncount_last_total",
			Help: "Most recent combined download count",
		},
		[]string{"addon"},
	)
)

func init() {
	prometheus.MustRegister(FetchTotal)
	prometheus.MustRegister(ExtractFailures)
	prometheus.MustRegister(TotalsEmitted)
	prometheus.MustRegister(SinkErrors)
	prometheus.MustRegister(LastTotal)
}
