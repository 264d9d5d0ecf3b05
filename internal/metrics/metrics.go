// Package metrics exposes Prometheus instrumentation for the RPC surface and
// the character composition tail.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/and161185/persona-keeper/internal/service"
)

const metricsNamespace = "persona_keeper"

// Collector is a prometheus.Collector that collects metrics about the server.
type Collector struct {
	rpcRequests        *prometheus.CounterVec
	rpcDuration        *prometheus.HistogramVec
	charactersCreated  prometheus.Counter
	modulesLinked      prometheus.Counter
	modulesDropped     prometheus.Counter
	compositionFailure *prometheus.CounterVec
}

// NewMetricsCollector returns a new Collector.
func NewMetricsCollector() *Collector {
	return &Collector{
		rpcRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "rpc_requests_total",
				Help:      "The number of handled RPCs by method and status code.",
			}, []string{"method", "code"},
		),
		rpcDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "rpc_duration_seconds",
				Help:      "The time taken to handle an RPC.",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			}, []string{"method"},
		),
		charactersCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "characters_created_total",
				Help:      "The number of character shells persisted.",
			},
		),
		modulesLinked: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "modules_linked_total",
				Help:      "The number of prompt modules created and linked to a character.",
			},
		),
		modulesDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "modules_dropped_total",
				Help:      "The number of blank module inputs skipped at character creation.",
			},
		),
		compositionFailure: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "composition_failures_total",
				Help:      "The number of failed module or link writes after a character was created.",
			}, []string{"stage"},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.rpcRequests.Describe(ch)
	c.rpcDuration.Describe(ch)
	c.charactersCreated.Describe(ch)
	c.modulesLinked.Describe(ch)
	c.modulesDropped.Describe(ch)
	c.compositionFailure.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.rpcRequests.Collect(ch)
	c.rpcDuration.Collect(ch)
	c.charactersCreated.Collect(ch)
	c.modulesLinked.Collect(ch)
	c.modulesDropped.Collect(ch)
	c.compositionFailure.Collect(ch)
}

// Report implements service.ReportSink.
func (c *Collector) Report(_ context.Context, r service.CompositionReport) {
	c.charactersCreated.Inc()
	c.modulesLinked.Add(float64(len(r.Linked)))
	c.modulesDropped.Add(float64(r.Dropped))
	for _, f := range r.Failures {
		c.compositionFailure.WithLabelValues(string(f.Stage)).Inc()
	}
}

// UnaryInterceptor counts RPCs by method and resulting status code.
func (c *Collector) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := h(ctx, req)
		c.rpcDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
		c.rpcRequests.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		return resp, err
	}
}

// NewRegistry registers c together with the Go and process collectors.
func NewRegistry(c *Collector) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	for _, col := range []prometheus.Collector{
		c,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Handler serves the registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}
