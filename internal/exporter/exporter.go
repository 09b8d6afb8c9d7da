// Package exporter exposes the contents of a shared timing directory as
// Prometheus metrics, so an experiment's startup spread can be scraped while
// the pods are still resident.
package exporter

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssoonan/pod-activation-experiment/internal/record"
)

// Collector reads the shared directory on every scrape. Records are tiny and
// few, so there is no caching.
type Collector struct {
	dir string

	records *prometheus.Desc
	start   *prometheus.Desc
	spread  *prometheus.Desc
	errors  prometheus.Counter
}

// NewCollector creates a collector over a shared directory.
func NewCollector(dir string) *Collector {
	return &Collector{
		dir: dir,
		records: prometheus.NewDesc(
			"timing_records",
			"Number of timing records in the shared directory",
			nil, nil,
		),
		start: prometheus.NewDesc(
			"timing_record_start_seconds",
			"Recorded start time per probe, in seconds with nanosecond fraction",
			[]string{"identity", "key"}, nil,
		),
		spread: prometheus.NewDesc(
			"timing_records_spread_seconds",
			"Difference between the latest and earliest recorded start time",
			nil, nil,
		),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timing_scrape_errors_total",
			Help: "Record files that could not be read or parsed",
		}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.records
	ch <- c.start
	ch <- c.spread
	c.errors.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	paths, err := filepath.Glob(filepath.Join(c.dir, "*.txt"))
	if err != nil {
		c.errors.Inc()
		paths = nil
	}

	count := 0
	var minStart, maxStart float64
	for _, path := range paths {
		rec, err := record.ReadFile(path)
		if err != nil {
			c.errors.Inc()
			continue
		}

		seconds := float64(rec.Start.Sec) + float64(rec.Start.Nsec)/1e9
		ch <- prometheus.MustNewConstMetric(
			c.start, prometheus.GaugeValue, seconds, rec.Identity, rec.IdentityKey,
		)

		if count == 0 || seconds < minStart {
			minStart = seconds
		}
		if count == 0 || seconds > maxStart {
			maxStart = seconds
		}
		count++
	}

	ch <- prometheus.MustNewConstMetric(c.records, prometheus.GaugeValue, float64(count))
	if count >= 2 {
		ch <- prometheus.MustNewConstMetric(c.spread, prometheus.GaugeValue, maxStart-minStart)
	}
	c.errors.Collect(ch)
}

// NewRouter builds the exporter's HTTP surface: /metrics and /healthz.
func NewRouter(dir string) *mux.Router {
	registry := prometheus.NewRegistry()
	registry.MustRegister(NewCollector(dir))

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}).Methods("GET")

	return router
}
