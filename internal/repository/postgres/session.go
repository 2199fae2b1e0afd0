package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"voucherbot/internal/domain"

	"github.com/jmoiron/sqlx"
)

// SessionRepo implements repository.SessionRepository
type SessionRepo struct {
	db *sqlx.DB
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *sqlx.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

type sessionRow struct {
	ChatID              int64          `db:"chat_id"`
	SelectedLang        sql.NullString `db:"selected_lang"`
	PreviousLang        sql.NullString `db:"previous_lang"`
	SelectedFunc        sql.NullString `db:"selected_func"`
	PrevFunc            sql.NullString `db:"prev_func"`
	SelectedPrice       sql.NullString `db:"selected_price"`
	PreviousPrice       sql.NullString `db:"previous_price"`
	SelectedVoucher     sql.NullString `db:"selected_voucher"`
	UserSelectedVoucher sql.NullString `db:"user_selected_voucher"`
	DarkSoulCode        sql.NullString `db:"dark_soul_code"`
	Email               sql.NullString `db:"email"`
}

func (r sessionRow) toDomain() domain.Session {
	s := domain.Session{
		ChatID:       r.ChatID,
		Lang:         domain.Language(r.SelectedLang.String),
		PrevLang:     domain.Language(r.PreviousLang.String),
		Screen:       domain.Action(r.SelectedFunc.String),
		PrevFunc:     domain.Action(r.PrevFunc.String),
		PrevPrice:    domain.PriceTier(r.PreviousPrice.String),
		DarkSoulCode: r.DarkSoulCode.String,
		Email:        r.Email.String,
	}

	// At most one focus column is set; the table constraint guarantees it
	switch {
	case r.SelectedPrice.Valid:
		s.Focus = domain.PriceFocus{Tier: domain.PriceTier(r.SelectedPrice.String)}
	case r.SelectedVoucher.Valid:
		s.Focus = domain.AdminVoucherFocus{Code: r.SelectedVoucher.String}
	case r.UserSelectedVoucher.Valid:
		if f, err := domain.ParseUserVoucherKey(r.UserSelectedVoucher.String); err == nil {
			s.Focus = f
		}
	}
	return s
}

// focusColumns splits the focus into selected_price, selected_voucher, user_selected_voucher
func focusColumns(f domain.Focus) (price, voucher, userVoucher sql.NullString) {
	switch v := f.(type) {
	case domain.PriceFocus:
		price = nullString(string(v.Tier))
	case domain.AdminVoucherFocus:
		voucher = nullString(v.Code)
	case domain.UserVoucherFocus:
		userVoucher = nullString(v.Key())
	}
	return price, voucher, userVoucher
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Get returns the chat's session or nil if the chat was never seen
func (r *SessionRepo) Get(ctx context.Context, chatID int64) (*domain.Session, error) {
	var row sessionRow
	query := `
		SELECT chat_id, selected_lang, previous_lang, selected_func, prev_func, selected_price,
			previous_price, selected_voucher, user_selected_voucher, dark_soul_code, email
		FROM sessions
		WHERE chat_id = $1
	`
	err := r.db.GetContext(ctx, &row, query, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %d: %w", chatID, err)
	}

	s := row.toDomain()
	return &s, nil
}

// EnsureExists inserts the session defaults unless the chat already has a row
func (r *SessionRepo) EnsureExists(ctx context.Context, s domain.Session) error {
	query := `
		INSERT INTO sessions (chat_id, prev_func)
		VALUES ($1, $2)
		ON CONFLICT (chat_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, s.ChatID, nullString(string(s.PrevFunc))); err != nil {
		return fmt.Errorf("ensure session %d: %w", s.ChatID, err)
	}
	return nil
}

// Save writes every mutable field of the session. The e-mail is sticky: an empty value never clears it.
func (r *SessionRepo) Save(ctx context.Context, s domain.Session) error {
	price, voucher, userVoucher := focusColumns(s.Focus)
	query := `
		UPDATE sessions
		SET selected_lang = $2,
			previous_lang = $3,
			selected_func = $4,
			prev_func = $5,
			selected_price = $6,
			previous_price = $7,
			selected_voucher = $8,
			user_selected_voucher = $9,
			dark_soul_code = $10,
			email = COALESCE($11, email),
			updated_at = NOW()
		WHERE chat_id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ChatID,
		nullString(string(s.Lang)),
		nullString(string(s.PrevLang)),
		nullString(string(s.Screen)),
		nullString(string(s.PrevFunc)),
		price,
		nullString(string(s.PrevPrice)),
		voucher,
		userVoucher,
		nullString(s.DarkSoulCode),
		nullString(s.Email),
	)
	if err != nil {
		return fmt.Errorf("save session %d: %w", s.ChatID, err)
	}
	return nil
}

// ClearScreen nulls the one-shot screen command
func (r *SessionRepo) ClearScreen(ctx context.Context, chatID int64) error {
	query := `UPDATE sessions SET selected_func = NULL, updated_at = NOW() WHERE chat_id = $1`
	if _, err := r.db.ExecContext(ctx, query, chatID); err != nil {
		return fmt.Errorf("clear screen %d: %w", chatID, err)
	}
	return nil
}

// ClearPrevFunc drops the first-run marker
func (r *SessionRepo) ClearPrevFunc(ctx context.Context, chatID int64) error {
	query := `UPDATE sessions SET prev_func = NULL, updated_at = NOW() WHERE chat_id = $1`
	if _, err := r.db.ExecContext(ctx, query, chatID); err != nil {
		return fmt.Errorf("clear prev func %d: %w", chatID, err)
	}
	return nil
}

// SetEmail stores the last known payment e-mail
func (r *SessionRepo) SetEmail(ctx context.Context, chatID int64, email string) error {
	query := `UPDATE sessions SET email = $2, updated_at = NOW() WHERE chat_id = $1`
	if _, err := r.db.ExecContext(ctx, query, chatID, email); err != nil {
		return fmt.Errorf("set email %d: %w", chatID, err)
	}
	return nil
}

// ConsumeConfirmationCode clears the confirmation code only if it still equals code.
// It reports false when the code was already used or replaced.
func (r *SessionRepo) ConsumeConfirmationCode(ctx context.Context, chatID int64, code string) (bool, error) {
	query := `
		UPDATE sessions
		SET dark_soul_code = NULL, updated_at = NOW()
		WHERE chat_id = $1 AND dark_soul_code = $2
	`
	res, err := r.db.ExecContext(ctx, query, chatID, code)
	if err != nil {
		return false, fmt.Errorf("consume confirmation code %d: %w", chatID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// RestoreConfirmationCode puts back a consumed code unless the chat already has a new one
func (r *SessionRepo) RestoreConfirmationCode(ctx context.Context, chatID int64, code string) error {
	query := `
		UPDATE sessions
		SET dark_soul_code = $2, updated_at = NOW()
		WHERE chat_id = $1 AND dark_soul_code IS NULL
	`
	if _, err := r.db.ExecContext(ctx, query, chatID, code); err != nil {
		return fmt.Errorf("restore confirmation code %d: %w", chatID, err)
	}
	return nil
}

// Count returns the number of chats that ever talked to the bot
func (r *SessionRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM sessions`); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}
