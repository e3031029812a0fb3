// Package metrics expone la instrumentacion del servicio en formato Prometheus
// y resume esos mismos valores para GET /api/status.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "assistant"

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// Metrics agrupa los collectors del servicio sobre un registry propio.
type Metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	inFlight   prometheus.Gauge
	llmLatency prometheus.Histogram
	llmCalls   *prometheus.CounterVec
	kvOps      *prometheus.CounterVec
}

// Snapshot es una lectura puntual de los collectors.
type Snapshot struct {
	Requests         int64
	InFlight         int64
	LLMCalls         int64
	LLMFailures      int64
	LLMMeanLatencyMs float64
	KVOps            int64
	KVFailures       int64
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, by route, method and status.",
		}, []string{"route", "method", "status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		llmLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Latency of inference calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		llmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Inference calls, by outcome.",
		}, []string{"outcome"}),
		kvOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kv_operations_total",
			Help:      "Key-value store operations, by operation and outcome.",
		}, []string{"op", "outcome"}),
	}
	m.registry.MustRegister(m.requests, m.inFlight, m.llmLatency, m.llmCalls, m.kvOps)
	return m
}

// Handler sirve el registry en formato de exposicion de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RequestStarted() {
	m.inFlight.Inc()
}

func (m *Metrics) RequestFinished(route, method string, status int) {
	m.inFlight.Dec()
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObserveInference(d time.Duration, err error) {
	m.llmLatency.Observe(d.Seconds())
	m.llmCalls.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) ObserveKV(op string, err error) {
	m.kvOps.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeOK
}

// Snapshot lee los valores actuales desde el registry.
func (m *Metrics) Snapshot() Snapshot {
	var s Snapshot
	families, err := m.registry.Gather()
	if err != nil {
		return s
	}

	for _, mf := range families {
		switch mf.GetName() {
		case namespace + "_http_requests_total":
			s.Requests = int64(sumCounters(mf.GetMetric(), "", ""))
		case namespace + "_http_requests_in_flight":
			for _, metric := range mf.GetMetric() {
				s.InFlight += int64(metric.GetGauge().GetValue())
			}
		case namespace + "_llm_requests_total":
			s.LLMCalls = int64(sumCounters(mf.GetMetric(), "", ""))
			s.LLMFailures = int64(sumCounters(mf.GetMetric(), "outcome", outcomeError))
		case namespace + "_llm_request_duration_seconds":
			for _, metric := range mf.GetMetric() {
				h := metric.GetHistogram()
				if h.GetSampleCount() > 0 {
					s.LLMMeanLatencyMs = h.GetSampleSum() / float64(h.GetSampleCount()) * 1000
				}
			}
		case namespace + "_kv_operations_total":
			s.KVOps = int64(sumCounters(mf.GetMetric(), "", ""))
			s.KVFailures = int64(sumCounters(mf.GetMetric(), "outcome", outcomeError))
		}
	}
	return s
}

// sumCounters suma los counters; con label != "" solo los que tienen label=value.
func sumCounters(metrics []*dto.Metric, label, value string) float64 {
	var total float64
	for _, metric := range metrics {
		if label != "" && !hasLabel(metric, label, value) {
			continue
		}
		total += metric.GetCounter().GetValue()
	}
	return total
}

func hasLabel(metric *dto.Metric, name, value string) bool {
	for _, lp := range metric.GetLabel() {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}
