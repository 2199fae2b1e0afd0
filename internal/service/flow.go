package service

import (
	"context"
	"fmt"

	"voucherbot/internal/domain"
	"voucherbot/internal/repository"

	"go.uber.org/zap"
)

// Outcome is what one incoming action did to a chat
type Outcome struct {
	Session  domain.Session
	Category Category
	Route    domain.Action
}

// RenderFunc draws the screen chosen by the resolver
type RenderFunc func(ctx context.Context, out Outcome) error

// FlowService drives the per-chat navigation state machine
type FlowService struct {
	sessions repository.SessionRepository
	vouchers repository.VoucherRepository
	applier  *Applier
	logger   *zap.Logger
}

// NewFlowService creates a new flow service
func NewFlowService(
	sessions repository.SessionRepository,
	vouchers repository.VoucherRepository,
	applier *Applier,
	logger *zap.Logger,
) *FlowService {
	return &FlowService{
		sessions: sessions,
		vouchers: vouchers,
		applier:  applier,
		logger:   logger,
	}
}

// Session loads the chat's session, creating it on first contact
func (s *FlowService) Session(ctx context.Context, chatID int64) (domain.Session, error) {
	if err := s.sessions.EnsureExists(ctx, domain.NewSession(chatID)); err != nil {
		return domain.Session{}, err
	}

	sess, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return domain.Session{}, err
	}
	if sess == nil {
		return domain.NewSession(chatID), nil
	}
	return *sess, nil
}

// Dispatch applies action to the chat's session, stores it and renders the resolved screen.
// The pending screen command is cleared afterwards even when rendering fails.
func (s *FlowService) Dispatch(ctx context.Context, chatID int64, action string, render RenderFunc) error {
	sess, err := s.Session(ctx, chatID)
	if err != nil {
		return err
	}

	view, err := s.ledgerView(ctx, chatID)
	if err != nil {
		return err
	}

	next, category := s.applier.Apply(sess, action, view)
	if category != CategoryIgnored {
		if err := s.sessions.Save(ctx, next); err != nil {
			return err
		}
	}

	s.logger.Debug("Action applied",
		zap.Int64("chat_id", chatID),
		zap.String("action", action),
		zap.Stringer("category", category))

	return s.render(ctx, Outcome{Session: next, Category: category, Route: Resolve(next)}, render)
}

// Redisplay renders the screen for the stored session without applying anything
func (s *FlowService) Redisplay(ctx context.Context, chatID int64, render RenderFunc) error {
	sess, err := s.Session(ctx, chatID)
	if err != nil {
		return err
	}
	return s.render(ctx, Outcome{Session: sess, Route: Resolve(sess)}, render)
}

// ShowScreen records a screen command and renders it, as if its button was pressed
func (s *FlowService) ShowScreen(ctx context.Context, chatID int64, screen domain.Action, render RenderFunc) error {
	return s.Dispatch(ctx, chatID, string(screen), render)
}

func (s *FlowService) render(ctx context.Context, out Outcome, render RenderFunc) error {
	renderErr := render(ctx, out)

	chatID := out.Session.ChatID
	if err := s.sessions.ClearScreen(ctx, chatID); err != nil {
		s.logger.Error("Failed to clear screen", zap.Int64("chat_id", chatID), zap.Error(err))
		if renderErr == nil {
			renderErr = err
		}
	}

	// Home has been reached once, the first-run picker is no longer needed
	if renderErr == nil && out.Route == domain.ActionMainMenu && out.Session.PrevFunc != "" {
		if err := s.sessions.ClearPrevFunc(ctx, chatID); err != nil {
			s.logger.Warn("Failed to clear prev func", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}

	if renderErr != nil {
		return fmt.Errorf("render %s: %w", out.Route, renderErr)
	}
	return nil
}

// ClearFocus drops whatever the chat was looking at
func (s *FlowService) ClearFocus(ctx context.Context, chatID int64) error {
	sess, err := s.Session(ctx, chatID)
	if err != nil {
		return err
	}
	sess.Focus = nil
	return s.sessions.Save(ctx, sess)
}

func (s *FlowService) ledgerView(ctx context.Context, chatID int64) (LedgerView, error) {
	codes, err := s.vouchers.ListActiveCodes(ctx)
	if err != nil {
		return LedgerView{}, err
	}
	owned, err := s.vouchers.ListByOwner(ctx, chatID, true)
	if err != nil {
		return LedgerView{}, err
	}
	return LedgerView{ActiveCodes: codes, Owned: owned}, nil
}
