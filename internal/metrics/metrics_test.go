package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestVoteCountsByResult(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Vote("upvote", nil)
	m.Vote("upvote", nil)
	m.Vote("upvote", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Votes.WithLabelValues("upvote", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Votes.WithLabelValues("upvote", "error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Vote("upvote", nil)
		m.Comment("add", nil)
		m.VoteConflict()
		m.HTTPError("not_found")
	})
}

func TestConflictAndHTTPErrorCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.VoteConflict()
	m.HTTPError("forbidden")
	m.HTTPError("forbidden")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.VoteConflicts))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPErrors.WithLabelValues("forbidden")))
}
