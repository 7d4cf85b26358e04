// Package metrics holds the prometheus collectors of the note pad
// Package metrics 定义 prometheus 指标
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fast_note_pad"

// Collector owns a private registry so tests can build as many as they need.
// Every method is safe on a nil receiver.
// Collector 持有独立的 registry，所有方法允许 nil 接收者
type Collector struct {
	registry *prometheus.Registry

	IntentsTotal       *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
	QuoteFailuresTotal prometheus.Counter
	MutationsTotal     *prometheus.CounterVec
	NotesGauge         prometheus.Gauge
}

// NewCollector 创建并注册全部指标
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		IntentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "intents_total",
				Help:      "Total number of intents dispatched to the controller",
			},
			[]string{"intent"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "One-shot notifications by kind and delivery result",
			},
			[]string{"kind", "result"},
		),
		QuoteFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quote_failures_total",
				Help:      "Total number of failed quote fetches",
			},
		),
		MutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_mutations_total",
				Help:      "Note store mutations by operation and status",
			},
			[]string{"operation", "status"},
		),
		NotesGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "notes",
				Help:      "Number of notes in the latest snapshot",
			},
		),
	}

	registry.MustRegister(
		c.IntentsTotal,
		c.NotificationsTotal,
		c.QuoteFailuresTotal,
		c.MutationsTotal,
		c.NotesGauge,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry 返回指标 registry
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler 返回 /metrics 处理器
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) IncIntent(intent string) {
	if c == nil {
		return
	}
	c.IntentsTotal.WithLabelValues(intent).Inc()
}

// IncNotification result is "emitted" or "dropped"
func (c *Collector) IncNotification(kind, result string) {
	if c == nil {
		return
	}
	c.NotificationsTotal.WithLabelValues(kind, result).Inc()
}

func (c *Collector) IncQuoteFailure() {
	if c == nil {
		return
	}
	c.QuoteFailuresTotal.Inc()
}

func (c *Collector) IncMutation(operation string, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.MutationsTotal.WithLabelValues(operation, status).Inc()
}

func (c *Collector) SetNotes(n int) {
	if c == nil {
		return
	}
	c.NotesGauge.Set(float64(n))
}
