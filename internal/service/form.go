package service

import (
	"sync"
	"time"

	"voucherbot/internal/domain"

	"go.uber.org/zap"
)

// FormService keeps each admin's in-progress voucher form, one per chat
type FormService struct {
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	forms map[int64]*domain.VoucherForm
	mu    sync.RWMutex
}

// NewFormService creates a form store whose abandoned forms expire after ttl
func NewFormService(ttl time.Duration, logger *zap.Logger) *FormService {
	return &FormService{
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
		forms:  make(map[int64]*domain.VoucherForm),
	}
}

// Start opens a fresh form for the chat, discarding any previous answers
func (s *FormService) Start(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms[chatID] = &domain.VoucherForm{Step: domain.FormAwaitCode, StartedAt: s.now()}
}

// Get returns a copy of the chat's live form
func (s *FormService) Get(chatID int64) (domain.VoucherForm, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	form, ok := s.forms[chatID]
	if !ok || s.expired(form) {
		return domain.VoucherForm{}, false
	}
	return *form, true
}

// Answer records the reply to the current question and moves the form on.
// A rejected answer leaves the form on the same question.
func (s *FormService) Answer(chatID int64, text string) (domain.VoucherForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	form, ok := s.forms[chatID]
	if !ok || s.expired(form) {
		return domain.VoucherForm{}, domain.ErrFormIncomplete
	}

	switch form.Step {
	case domain.FormAwaitCode:
		code, err := NormalizeCode(text)
		if err != nil {
			return *form, err
		}
		form.Code = code
		form.Step = domain.FormAwaitValue

	case domain.FormAwaitValue:
		value, err := ParseValue(text)
		if err != nil {
			return *form, err
		}
		form.Value = value
		form.Step = domain.FormComplete
	}

	return *form, nil
}

// Take removes and returns a completed form
func (s *FormService) Take(chatID int64) (domain.VoucherForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	form, ok := s.forms[chatID]
	if !ok || s.expired(form) || form.Step != domain.FormComplete {
		return domain.VoucherForm{}, domain.ErrFormIncomplete
	}
	delete(s.forms, chatID)
	return *form, nil
}

// Cancel drops the chat's form
func (s *FormService) Cancel(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.forms[chatID]
	delete(s.forms, chatID)
	return ok
}

// Expire removes abandoned forms and returns how many were dropped
func (s *FormService) Expire() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for chatID, form := range s.forms {
		if s.expired(form) {
			delete(s.forms, chatID)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("Expired voucher forms", zap.Int("count", removed))
	}
	return removed
}

func (s *FormService) expired(form *domain.VoucherForm) bool {
	return s.ttl > 0 && s.now().Sub(form.StartedAt) > s.ttl
}
