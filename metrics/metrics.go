package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "salesdash"

// Registry holds the dashboard's collectors on a private prometheus registry.
// A nil *Registry is valid and records nothing.
type Registry struct {
	reg *prometheus.Registry

	SalesIngested     prometheus.Counter
	SalesDuplicates   prometheus.Counter
	InventoryUpserted prometheus.Counter
	CollectionRuns    *prometheus.CounterVec
	Forecasts         *prometheus.CounterVec
	AnalyticsDuration *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(prometheus.NewGoCollector())

	salesIngested := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_records_ingested_total",
		Help:      "Sale line items written to the record store.",
	})
	salesDuplicates := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_records_duplicate_total",
		Help:      "Sale line items skipped because (invoice, item) already existed.",
	})
	inventoryUpserted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_levels_upserted_total",
		Help:      "Inventory snapshots inserted or updated.",
	})
	collectionRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collection_runs_total",
		Help:      "Vendor data collection runs by status.",
	}, []string{"status"})
	forecasts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forecasts_total",
		Help:      "Demand forecasts computed by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analytics_duration_seconds",
		Help:      "Duration of analytics operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	r.MustRegister(salesIngested, salesDuplicates, inventoryUpserted, collectionRuns, forecasts, duration)
	return &Registry{
		reg:               r,
		SalesIngested:     salesIngested,
		SalesDuplicates:   salesDuplicates,
		InventoryUpserted: inventoryUpserted,
		CollectionRuns:    collectionRuns,
		Forecasts:         forecasts,
		AnalyticsDuration: duration,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// ObserveSince records the elapsed time of an analytics operation.
func (r *Registry) ObserveSince(operation string, start time.Time) {
	if r == nil {
		return
	}
	r.AnalyticsDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (r *Registry) ForecastOutcome(outcome string) {
	if r == nil {
		return
	}
	r.Forecasts.WithLabelValues(outcome).Inc()
}

func (r *Registry) CollectionRun(status string) {
	if r == nil {
		return
	}
	r.CollectionRuns.WithLabelValues(status).Inc()
}

// SalesBatch records one stored sales batch.
func (r *Registry) SalesBatch(received, inserted int) {
	if r == nil {
		return
	}
	r.SalesIngested.Add(float64(inserted))
	if dup := received - inserted; dup > 0 {
		r.SalesDuplicates.Add(float64(dup))
	}
}

func (r *Registry) InventoryBatch(n int) {
	if r == nil {
		return
	}
	r.InventoryUpserted.Add(float64(n))
}
