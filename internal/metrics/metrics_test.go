package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/events"
	"github.com/MrJamesThe3rd/tally/internal/metrics"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/groups/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/groups/"+id, nil))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `tally_http_requests_total{method="GET",route="/groups/{id}",status="404"} 3`)
}

func TestPublish_CountsDomainEvents(t *testing.T) {
	m := metrics.New()
	ctx := context.Background()

	m.Publish(ctx, events.New(events.TransactionCreated, &transaction.Transaction{IsShared: true}))
	m.Publish(ctx, events.New(events.TransactionCreated, &transaction.Transaction{}))
	m.Publish(ctx, events.New(events.TransactionCreated, &transaction.Transaction{}))
	m.Publish(ctx, events.New(events.MemberJoined, nil))
	m.EventDropped(events.MemberJoined)
	m.InviteRejected("expired")

	count, err := testutil.GatherAndCount(m.Registry(),
		"tally_transactions_created_total",
		"tally_invites_redeemed_total",
		"tally_events_dropped_total",
		"tally_invites_rejected_total",
		"tally_events_published_total",
	)
	require.NoError(t, err)
	// shared true/false, redeemed, dropped, rejected, two event types
	assert.Equal(t, 7, count)
}
