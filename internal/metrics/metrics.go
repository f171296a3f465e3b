// Package metrics exposes Prometheus collectors for the HTTP surface and
// ledger activity.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/tally/internal/events"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const namespace = "tally"

type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	events          *prometheus.CounterVec
	eventsDropped   *prometheus.CounterVec
	invitesFailed   *prometheus.CounterVec
	transactions    *prometheus.CounterVec
	invitesRedeemed prometheus.Counter
}

// New registers every collector on a private registry, along with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Ledger events published, by type.",
		}, []string{"type"}),
		eventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Events dropped because a subscriber was not keeping up.",
		}, []string{"type"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_created_total",
			Help:      "Transactions created, by shared flag.",
		}, []string{"shared"}),
		invitesRedeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invites_redeemed_total",
			Help:      "Successful invite redemptions.",
		}),
		invitesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invites_rejected_total",
			Help:      "Rejected invite redemptions, by reason.",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration,
		m.events, m.eventsDropped,
		m.transactions, m.invitesRedeemed, m.invitesFailed,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records count and latency per chi route pattern, so path
// parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// Publish counts events. It sits alongside the real publishers in an
// events.Multi.
func (m *Metrics) Publish(_ context.Context, e events.Event) {
	m.events.WithLabelValues(e.Name).Inc()

	switch e.Name {
	case events.TransactionCreated:
		if tx, ok := e.Data.(*transaction.Transaction); ok {
			m.transactions.WithLabelValues(strconv.FormatBool(tx.IsShared)).Inc()
		}
	case events.MemberJoined:
		m.invitesRedeemed.Inc()
	}
}

// EventDropped is meant for events.Bus.OnDrop.
func (m *Metrics) EventDropped(name string) {
	m.eventsDropped.WithLabelValues(name).Inc()
}

// InviteRejected counts a failed redemption under reason.
func (m *Metrics) InviteRejected(reason string) {
	m.invitesFailed.WithLabelValues(reason).Inc()
}
