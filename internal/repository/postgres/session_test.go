package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"voucherbot/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

var sessionColumns = []string{
	"chat_id", "selected_lang", "previous_lang", "selected_func", "prev_func", "selected_price",
	"previous_price", "selected_voucher", "user_selected_voucher", "dark_soul_code", "email",
}

func TestSessionRepo_Get(t *testing.T) {
	tests := []struct {
		name          string
		mockRows      *sqlmock.Rows
		mockError     error
		expected      *domain.Session
		expectedError bool
	}{
		{
			name: "price focus",
			mockRows: sqlmock.NewRows(sessionColumns).
				AddRow(42, "ENG", "ENG", nil, nil, "600", "300", nil, nil, "Ab12", "a@b.c"),
			expected: &domain.Session{
				ChatID:       42,
				Lang:         domain.LangENG,
				PrevLang:     domain.LangENG,
				Focus:        domain.PriceFocus{Tier: domain.Price600},
				PrevPrice:    domain.Price300,
				DarkSoulCode: "Ab12",
				Email:        "a@b.c",
			},
		},
		{
			name: "user voucher focus",
			mockRows: sqlmock.NewRows(sessionColumns).
				AddRow(42, "PL", "RU", "check", "start", nil, nil, nil, "XYZ-42", nil, nil),
			expected: &domain.Session{
				ChatID:   42,
				Lang:     domain.LangPL,
				PrevLang: domain.LangRU,
				Screen:   domain.ActionCheckPayment,
				PrevFunc: domain.ActionStart,
				Focus:    domain.UserVoucherFocus{Code: "XYZ", ChatID: 42},
			},
		},
		{
			name: "admin voucher focus",
			mockRows: sqlmock.NewRows(sessionColumns).
				AddRow(7, "RU", "RU", nil, nil, nil, nil, "ABC123", nil, nil, nil),
			expected: &domain.Session{
				ChatID:   7,
				Lang:     domain.LangRU,
				PrevLang: domain.LangRU,
				Focus:    domain.AdminVoucherFocus{Code: "ABC123"},
			},
		},
		{
			name:      "session not exists",
			mockError: sql.ErrNoRows,
			expected:  nil,
		},
		{
			name:          "database error",
			mockError:     errors.New("connection reset"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewSessionRepo(db)

			chatID := int64(42)
			if tt.expected != nil {
				chatID = tt.expected.ChatID
			}

			query := "SELECT chat_id, selected_lang, .* FROM sessions WHERE chat_id = \\$1"
			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(chatID).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(chatID).WillReturnRows(tt.mockRows)
			}

			session, err := repo.Get(context.Background(), chatID)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, session)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepo_EnsureExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)

	mock.ExpectExec("INSERT INTO sessions .* ON CONFLICT \\(chat_id\\) DO NOTHING").
		WithArgs(int64(42), "start").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.EnsureExists(context.Background(), domain.NewSession(42))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_Save(t *testing.T) {
	tests := []struct {
		name    string
		session domain.Session
		args    []driver.Value
	}{
		{
			name: "price focus",
			session: domain.Session{
				ChatID:       42,
				Lang:         domain.LangENG,
				PrevLang:     domain.LangENG,
				Focus:        domain.PriceFocus{Tier: domain.Price600},
				DarkSoulCode: "Ab12",
			},
			args: []driver.Value{int64(42), "ENG", "ENG", nil, nil, "600", nil, nil, nil, "Ab12", nil},
		},
		{
			name: "admin voucher focus with screen",
			session: domain.Session{
				ChatID: 7,
				Lang:   domain.LangRU,
				Screen: domain.ActionActivate,
				Focus:  domain.AdminVoucherFocus{Code: "XYZ"},
				Email:  "a@b.c",
			},
			args: []driver.Value{int64(7), "RU", nil, "activate", nil, nil, nil, "XYZ", nil, nil, "a@b.c"},
		},
		{
			name: "user voucher focus",
			session: domain.Session{
				ChatID: 42,
				Focus:  domain.UserVoucherFocus{Code: "XYZ", ChatID: 42},
			},
			args: []driver.Value{int64(42), nil, nil, nil, nil, nil, nil, nil, "XYZ-42", nil, nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewSessionRepo(db)

			mock.ExpectExec("UPDATE sessions\\s+SET selected_lang = \\$2").
				WithArgs(tt.args...).
				WillReturnResult(sqlmock.NewResult(0, 1))

			err := repo.Save(context.Background(), tt.session)

			assert.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepo_ClearScreen(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)

	mock.ExpectExec("UPDATE sessions SET selected_func = NULL").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ClearScreen(context.Background(), 42)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_ConsumeConfirmationCode(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		expected bool
	}{
		{name: "code matches", affected: 1, expected: true},
		{name: "code already used", affected: 0, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewSessionRepo(db)

			mock.ExpectExec("UPDATE sessions\\s+SET dark_soul_code = NULL.*WHERE chat_id = \\$1 AND dark_soul_code = \\$2").
				WithArgs(int64(42), "Ab12").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := repo.ConsumeConfirmationCode(context.Background(), 42, "Ab12")

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepo_ClearPrevFunc(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)

	mock.ExpectExec("UPDATE sessions SET prev_func = NULL").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ClearPrevFunc(context.Background(), 42)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_SetEmail(t *testing.T) {
	tests := []struct {
		name        string
		execErr     error
		expectedErr bool
	}{
		{name: "stored"},
		{name: "database error", execErr: errors.New("connection reset"), expectedErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewSessionRepo(db)

			exec := mock.ExpectExec("UPDATE sessions SET email = \\$2.*WHERE chat_id = \\$1").
				WithArgs(int64(42), "buyer@example.com")
			if tt.execErr != nil {
				exec.WillReturnError(tt.execErr)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.SetEmail(context.Background(), 42, "buyer@example.com")

			if tt.expectedErr {
				assert.ErrorIs(t, err, tt.execErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepo_RestoreConfirmationCode(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)

	mock.ExpectExec("UPDATE sessions\\s+SET dark_soul_code = \\$2.*WHERE chat_id = \\$1 AND dark_soul_code IS NULL").
		WithArgs(int64(42), "Ab12").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RestoreConfirmationCode(context.Background(), 42, "Ab12")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_Count(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM sessions").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	count, err := repo.Count(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 17, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
