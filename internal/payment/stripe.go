package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"voucherbot/internal/domain"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// DefaultMaxEvents bounds how far back a confirmation code is looked for
const DefaultMaxEvents = 300

// Stripe finds completed Checkout sessions through the events API
type Stripe struct {
	api       *client.API
	maxEvents int
	logger    *zap.Logger
}

// NewStripe creates a Stripe lookup. Nil backends use the live API.
func NewStripe(key string, backends *stripe.Backends, maxEvents int, logger *zap.Logger) *Stripe {
	api := &client.API{}
	api.Init(key, backends)
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	return &Stripe{
		api:       api,
		maxEvents: maxEvents,
		logger:    logger,
	}
}

// FindPayment scans recent checkout.session.completed events for a paid session
// whose first custom field carries code. It returns nil when none matches.
func (s *Stripe) FindPayment(ctx context.Context, code string) (*domain.Payment, error) {
	params := &stripe.EventListParams{
		Type: stripe.String(string(stripe.EventTypeCheckoutSessionCompleted)),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(100)

	scanned := 0
	iter := s.api.Events.List(params)
	for iter.Next() && scanned < s.maxEvents {
		scanned++
		ev := iter.Event()
		if ev.Data == nil {
			continue
		}

		var session stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &session); err != nil {
			s.logger.Warn("Skipping undecodable checkout event", zap.String("event_id", ev.ID), zap.Error(err))
			continue
		}
		if p := MatchCheckout(&session, code); p != nil {
			s.logger.Info("Payment matched",
				zap.String("event_id", ev.ID),
				zap.String("checkout_id", session.ID),
				zap.Int64("amount", p.AmountMinor))
			return p, nil
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list checkout events: %w", err)
	}

	s.logger.Debug("No payment matched", zap.Int("scanned", scanned))
	return nil, nil
}

// MatchCheckout returns the payment when session is paid and its first custom field equals code
func MatchCheckout(session *stripe.CheckoutSession, code string) *domain.Payment {
	if session == nil || code == "" {
		return nil
	}
	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil
	}
	if len(session.CustomFields) == 0 {
		return nil
	}
	field := session.CustomFields[0]
	if field == nil || field.Text == nil || field.Text.Value != code {
		return nil
	}

	p := &domain.Payment{Code: code, AmountMinor: session.AmountTotal}
	if session.CustomerDetails != nil {
		p.Email = session.CustomerDetails.Email
	}
	return p
}
