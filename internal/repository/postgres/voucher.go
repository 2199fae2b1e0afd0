package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"voucherbot/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint violation
const uniqueViolation = "23505"

// VoucherRepo implements repository.VoucherRepository
type VoucherRepo struct {
	db *sqlx.DB
}

// NewVoucherRepo creates a new voucher ledger repository
func NewVoucherRepo(db *sqlx.DB) *VoucherRepo {
	return &VoucherRepo{db: db}
}

type voucherRow struct {
	Code        string    `db:"code"`
	OwnerChatID int64     `db:"owner_chat_id"`
	Value       int       `db:"value"`
	CreatedAt   time.Time `db:"created_at"`
	Active      bool      `db:"is_active"`
}

func (r voucherRow) toDomain() domain.Voucher {
	return domain.Voucher{
		Code:        r.Code,
		OwnerChatID: r.OwnerChatID,
		Value:       r.Value,
		CreatedAt:   r.CreatedAt,
		Active:      r.Active,
	}
}

const voucherColumns = `code, owner_chat_id, value, created_at, is_active`

func (r *VoucherRepo) list(ctx context.Context, query string, args ...interface{}) ([]domain.Voucher, error) {
	var rows []voucherRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	vouchers := make([]domain.Voucher, 0, len(rows))
	for _, row := range rows {
		vouchers = append(vouchers, row.toDomain())
	}
	return vouchers, nil
}

// ListActiveCodes returns the codes of every redeemable voucher
func (r *VoucherRepo) ListActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	query := `SELECT code FROM vouchers WHERE is_active = TRUE ORDER BY id`
	if err := r.db.SelectContext(ctx, &codes, query); err != nil {
		return nil, fmt.Errorf("list active codes: %w", err)
	}
	return codes, nil
}

// ListActive returns every redeemable voucher, oldest first
func (r *VoucherRepo) ListActive(ctx context.Context) ([]domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE is_active = TRUE ORDER BY id`
	vouchers, err := r.list(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active vouchers: %w", err)
	}
	return vouchers, nil
}

// ListInactive returns every redeemed voucher, oldest first
func (r *VoucherRepo) ListInactive(ctx context.Context) ([]domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE is_active = FALSE ORDER BY id`
	vouchers, err := r.list(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list inactive vouchers: %w", err)
	}
	return vouchers, nil
}

// ListByOwner returns the chat's vouchers with the given active flag
func (r *VoucherRepo) ListByOwner(ctx context.Context, chatID int64, active bool) ([]domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE owner_chat_id = $1 AND is_active = $2 ORDER BY id`
	vouchers, err := r.list(ctx, query, chatID, active)
	if err != nil {
		return nil, fmt.Errorf("list vouchers of %d: %w", chatID, err)
	}
	return vouchers, nil
}

// ListAll returns the whole ledger
func (r *VoucherRepo) ListAll(ctx context.Context) ([]domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers ORDER BY id`
	vouchers, err := r.list(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	return vouchers, nil
}

// Get returns the voucher with the given code or nil if there is none
func (r *VoucherRepo) Get(ctx context.Context, code string) (*domain.Voucher, error) {
	var row voucherRow
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE code = $1`
	err := r.db.GetContext(ctx, &row, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get voucher %s: %w", code, err)
	}

	v := row.toDomain()
	return &v, nil
}

// InsertIfAbsent adds an active voucher dated today.
// It returns false without error when the code is already in the ledger.
func (r *VoucherRepo) InsertIfAbsent(ctx context.Context, v domain.Voucher) (bool, error) {
	query := `
		INSERT INTO vouchers (code, owner_chat_id, value, is_active)
		VALUES ($1, $2, $3, TRUE)
	`
	_, err := r.db.ExecContext(ctx, query, v.Code, v.OwnerChatID, v.Value)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return false, nil
		}
		return false, fmt.Errorf("insert voucher %s: %w", v.Code, err)
	}
	return true, nil
}

// Deactivate flips an active voucher to redeemed.
// It returns false when no active row with that code exists.
func (r *VoucherRepo) Deactivate(ctx context.Context, code string) (bool, error) {
	query := `UPDATE vouchers SET is_active = FALSE WHERE code = $1 AND is_active = TRUE`
	res, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		return false, fmt.Errorf("deactivate voucher %s: %w", code, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Stats returns ledger totals. Chats is left to the caller.
func (r *VoucherRepo) Stats(ctx context.Context) (domain.Stats, error) {
	var row struct {
		Vouchers   int          `db:"vouchers"`
		TotalValue int          `db:"total_value"`
		LastSale   sql.NullTime `db:"last_sale"`
	}
	query := `
		SELECT COUNT(*) AS vouchers,
			COALESCE(SUM(value), 0) AS total_value,
			MAX(created_at) AS last_sale
		FROM vouchers
	`
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return domain.Stats{}, fmt.Errorf("voucher stats: %w", err)
	}

	stats := domain.Stats{
		Vouchers:   row.Vouchers,
		TotalValue: row.TotalValue,
	}
	if row.LastSale.Valid {
		last := row.LastSale.Time
		stats.LastSale = &last
	}
	return stats, nil
}
