package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()

	c.IncIntent("save")
	c.IncIntent("save")
	c.IncNotification("save_completed", "dropped")
	c.IncQuoteFailure()
	c.IncMutation("insert", nil)
	c.IncMutation("insert", errors.New("boom"))
	c.SetNotes(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.IntentsTotal.WithLabelValues("save")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.NotificationsTotal.WithLabelValues("save_completed", "dropped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.QuoteFailuresTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.MutationsTotal.WithLabelValues("insert", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.NotesGauge))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.IncIntent("save")
		c.IncNotification("x", "emitted")
		c.IncQuoteFailure()
		c.IncMutation("delete", nil)
		c.SetNotes(1)
	})
	assert.NotNil(t, c.Handler())
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	a.IncQuoteFailure()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.QuoteFailuresTotal))
}
