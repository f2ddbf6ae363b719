package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAppMetricsStoreOps(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newAppMetrics(registry)

	m.ObserveStoreOp("add_invoice", nil)
	m.ObserveStoreOp("add_invoice", nil)
	m.ObserveStoreOp("add_invoice", errors.New("boom"))

	ok := testutil.ToFloat64(m.storeOps.WithLabelValues("add_invoice", "ok"))
	failed := testutil.ToFloat64(m.storeOps.WithLabelValues("add_invoice", "error"))
	assert.Equal(t, 2.0, ok)
	assert.Equal(t, 1.0, failed)
}

func TestAppMetricsExportRuns(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newAppMetrics(registry)

	m.ObserveExportRun("csv", "done")
	m.ObserveExportRun("pdf", "failed")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.exportRuns.WithLabelValues("csv", "done")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exportRuns.WithLabelValues("pdf", "failed")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *AppMetrics
	assert.NotPanics(t, func() {
		m.ObserveStoreOp("add_client", nil)
		m.ObserveExportRun("email", "done")
	})
}
