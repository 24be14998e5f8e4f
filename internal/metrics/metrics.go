// Package metrics exposes Prometheus collectors for the lead pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline holds the collectors for discovery, research and outbound API calls.
type Pipeline struct {
	registry *prometheus.Registry

	seedsTotal     *prometheus.CounterVec
	leadsTotal     *prometheus.CounterVec
	clientRequests *prometheus.CounterVec
	clientDuration *prometheus.HistogramVec
	clientInFlight *prometheus.GaugeVec
}

// NewPipeline creates collectors on a private registry.
func NewPipeline() *Pipeline {
	registry := prometheus.NewRegistry()

	p := &Pipeline{
		registry: registry,
		seedsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leadagent",
				Subsystem: "discovery",
				Name:      "seeds_total",
				Help:      "Seeds processed by discovery, labeled by final status.",
			},
			[]string{"status"},
		),
		leadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leadagent",
				Subsystem: "research",
				Name:      "leads_total",
				Help:      "Leads processed by research, labeled by final status.",
			},
			[]string{"status"},
		),
		clientRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leadagent",
				Subsystem: "client",
				Name:      "requests_total",
				Help:      "Outbound API requests, labeled by client, method and code.",
			},
			[]string{"client", "method", "code"},
		),
		clientDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "leadagent",
				Subsystem: "client",
				Name:      "request_duration_seconds",
				Help:      "Outbound API request latency in seconds.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"client", "method"},
		),
		clientInFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "leadagent",
				Subsystem: "client",
				Name:      "in_flight_requests",
				Help:      "Outbound API requests currently in flight.",
			},
			[]string{"client"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.seedsTotal,
		p.leadsTotal,
		p.clientRequests,
		p.clientDuration,
		p.clientInFlight,
	)
	return p
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Pipeline) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// ObserveSeed counts one seed reaching status.
func (p *Pipeline) ObserveSeed(status string) {
	p.seedsTotal.WithLabelValues(status).Inc()
}

// ObserveLead counts one lead reaching status.
func (p *Pipeline) ObserveLead(status string) {
	p.leadsTotal.WithLabelValues(status).Inc()
}

// InstrumentTransport wraps next with request count, latency and in-flight
// metrics labeled by client. A nil next uses http.DefaultTransport.
func (p *Pipeline) InstrumentTransport(client string, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	labels := prometheus.Labels{"client": client}
	return promhttp.InstrumentRoundTripperInFlight(
		p.clientInFlight.With(labels),
		promhttp.InstrumentRoundTripperCounter(
			p.clientRequests.MustCurryWith(labels),
			promhttp.InstrumentRoundTripperDuration(
				p.clientDuration.MustCurryWith(labels),
				next,
			),
		),
	)
}

// InstrumentClient returns a copy of base whose transport is instrumented for client.
func (p *Pipeline) InstrumentClient(client string, base *http.Client) *http.Client {
	out := &http.Client{}
	if base != nil {
		*out = *base
	}
	out.Transport = p.InstrumentTransport(client, out.Transport)
	return out
}
