// Package metrics defines the portfolio's Prometheus counters.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "portfolio"

// Metrics holds the domain counters. A nil *Metrics records nothing.
type Metrics struct {
	quoteSelections    *prometheus.CounterVec
	quoteImports       *prometheus.CounterVec
	contactSubmissions prometheus.Counter
	loginAttempts      *prometheus.CounterVec
	jobRuns            *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		quoteSelections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_selections_total",
			Help:      "Quote of the day selections, split by whether the fallback quote was served.",
		}, []string{"fallback"}),
		quoteImports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_imports_total",
			Help:      "Quote imports from the external provider by outcome.",
		}, []string{"outcome"}),
		contactSubmissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_submissions_total",
			Help:      "Accepted contact form submissions.",
		}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Admin token requests by outcome.",
		}, []string{"outcome"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_job_runs_total",
			Help:      "Scheduled job executions by job and status.",
		}, []string{"job", "status"}),
	}

	reg.MustRegister(m.quoteSelections, m.quoteImports, m.contactSubmissions, m.loginAttempts, m.jobRuns)

	return m
}

// QuoteSelected counts one quote of the day response.
func (m *Metrics) QuoteSelected(fallback bool) {
	if m == nil {
		return
	}

	m.quoteSelections.WithLabelValues(strconv.FormatBool(fallback)).Inc()
}

// QuoteImported counts an import attempt; outcome is e.g. "stored", "duplicate", "failed".
func (m *Metrics) QuoteImported(outcome string) {
	if m == nil {
		return
	}

	m.quoteImports.WithLabelValues(outcome).Inc()
}

// ContactSubmitted counts a stored contact submission.
func (m *Metrics) ContactSubmitted() {
	if m == nil {
		return
	}

	m.contactSubmissions.Inc()
}

// LoginAttempt counts a token request; outcome is "success" or "failure".
func (m *Metrics) LoginAttempt(outcome string) {
	if m == nil {
		return
	}

	m.loginAttempts.WithLabelValues(outcome).Inc()
}

// JobRun counts a scheduled job execution.
func (m *Metrics) JobRun(job string, err error) {
	if m == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "error"
	}

	m.jobRuns.WithLabelValues(job, status).Inc()
}
