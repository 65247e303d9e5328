// Package metrics defines the Prometheus collectors exported on /metrics.
// All methods are safe to call on a nil *Metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "blog"

type Metrics struct {
	Votes         *prometheus.CounterVec
	Comments      *prometheus.CounterVec
	VoteConflicts prometheus.Counter
	HTTPErrors    *prometheus.CounterVec
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Vote operations by operation and result.",
		}, []string{"op", "result"}),
		Comments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_total",
			Help:      "Comment operations by operation and result.",
		}, []string{"op", "result"}),
		VoteConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "post_write_conflicts_total",
			Help:      "Post writes rejected because the post changed since it was read.",
		}),
		HTTPErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total HTTP errors by error type",
		}, []string{"type"}),
	}

	reg.MustRegister(m.Votes, m.Comments, m.VoteConflicts, m.HTTPErrors)
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) Vote(op string, err error) {
	if m == nil {
		return
	}
	m.Votes.WithLabelValues(op, result(err)).Inc()
}

func (m *Metrics) Comment(op string, err error) {
	if m == nil {
		return
	}
	m.Comments.WithLabelValues(op, result(err)).Inc()
}

func (m *Metrics) VoteConflict() {
	if m == nil {
		return
	}
	m.VoteConflicts.Inc()
}

func (m *Metrics) HTTPError(errType string) {
	if m == nil {
		return
	}
	m.HTTPErrors.WithLabelValues(errType).Inc()
}
