package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func checkoutJSON(status, code string, amount int64, email string) string {
	return fmt.Sprintf(`{
		"id": "cs_test",
		"object": "checkout.session",
		"payment_status": %q,
		"amount_total": %d,
		"customer_details": {"email": %q},
		"custom_fields": [{"key": "darksoulcode", "type": "text", "text": {"value": %q}}]
	}`, status, amount, email, code)
}

func TestMatchCheckout(t *testing.T) {
	tests := []struct {
		name     string
		session  string
		code     string
		expected bool
	}{
		{name: "paid and matching", session: checkoutJSON("paid", "AB12C", 60000, "buyer@example.com"), code: "AB12C", expected: true},
		{name: "unpaid", session: checkoutJSON("unpaid", "AB12C", 60000, ""), code: "AB12C"},
		{name: "other code", session: checkoutJSON("paid", "ZZ99Z", 60000, ""), code: "AB12C"},
		{name: "no custom fields", session: `{"payment_status": "paid", "amount_total": 100}`, code: "AB12C"},
		{name: "empty code never matches", session: checkoutJSON("paid", "", 60000, ""), code: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var session stripe.CheckoutSession
			require.NoError(t, json.Unmarshal([]byte(tt.session), &session))

			p := MatchCheckout(&session, tt.code)
			if !tt.expected {
				assert.Nil(t, p)
				return
			}
			require.NotNil(t, p)
			assert.Equal(t, tt.code, p.Code)
			assert.Equal(t, int64(60000), p.AmountMinor)
			assert.Equal(t, 600, p.Value())
			assert.Equal(t, "buyer@example.com", p.Email)
		})
	}
}

func newTestStripe(t *testing.T, handler http.HandlerFunc, maxEvents int) *Stripe {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		EnableTelemetry:   stripe.Bool(false),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	backends := &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
	return NewStripe("sk_test_123", backends, maxEvents, zap.NewNop())
}

func eventList(sessions ...string) string {
	events := make([]string, 0, len(sessions))
	for i, s := range sessions {
		events = append(events, fmt.Sprintf(
			`{"id": "evt_%d", "object": "event", "type": "checkout.session.completed", "data": {"object": %s}}`,
			i, s))
	}
	return fmt.Sprintf(`{"object": "list", "url": "/v1/events", "has_more": false, "data": [%s]}`,
		strings.Join(events, ","))
}

func TestStripe_FindPayment(t *testing.T) {
	var query string
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		assert.Equal(t, "/v1/events", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, eventList(
			checkoutJSON("unpaid", "AB12C", 30000, ""),
			checkoutJSON("paid", "QQ11Q", 80000, "other@example.com"),
			checkoutJSON("paid", "AB12C", 60000, "buyer@example.com"),
		))
	}, 0)

	p, err := s.FindPayment(context.Background(), "AB12C")

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 600, p.Value())
	assert.Equal(t, "buyer@example.com", p.Email)
	assert.Contains(t, query, "type=checkout.session.completed")
}

func TestStripe_FindPayment_NoMatch(t *testing.T) {
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, eventList(checkoutJSON("paid", "QQ11Q", 80000, "")))
	}, 0)

	p, err := s.FindPayment(context.Background(), "AB12C")

	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestStripe_FindPayment_StopsAtMaxEvents(t *testing.T) {
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, eventList(
			checkoutJSON("paid", "QQ11Q", 80000, ""),
			checkoutJSON("paid", "AB12C", 60000, ""),
		))
	}, 1)

	p, err := s.FindPayment(context.Background(), "AB12C")

	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestStripe_FindPayment_APIError(t *testing.T) {
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"type": "invalid_request_error", "message": "Invalid API Key provided"}}`)
	}, 0)

	p, err := s.FindPayment(context.Background(), "AB12C")

	assert.Error(t, err)
	assert.Nil(t, p)
}
