// Package metrics exposes Prometheus counters for the import pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the per-process import counters. A dedicated registry keeps
// the scrape surface limited to what the importer actually produces.
type Metrics struct {
	RowsImported  prometheus.Counter
	RowsDuplicate prometheus.Counter
	RowsInvalid   prometheus.Counter
	RowsFiltered  prometheus.Counter

	registry *prometheus.Registry
}

// New creates the import counters on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		RowsImported: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_import_rows_imported_total",
			Help: "Rows newly inserted into the ledger.",
		}),
		RowsDuplicate: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_import_rows_duplicate_total",
			Help: "Rows skipped because their fingerprint was already present.",
		}),
		RowsInvalid: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_import_rows_invalid_total",
			Help: "Rows rejected by normalization.",
		}),
		RowsFiltered: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_import_rows_filtered_total",
			Help: "Rows dropped by the admission filter.",
		}),
		registry: registry,
	}
}

// Handler returns an HTTP handler serving the registry in Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
