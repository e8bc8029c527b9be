/**
 * @description
 * This file provides the PostgreSQL implementation of the `Store` interface,
 * selected at startup when DATABASE_URL is configured. It contains the SQL
 * for the users, transactions, and notifications tables and maps driver
 * errors onto the package's sentinel errors.
 *
 * @dependencies
 * - context, errors: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/byfort/wallet-service/internal/domain"
)

// PostgresStore is a concrete implementation of the Store interface backed
// by a pgx connection pool.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	phone_number  TEXT NOT NULL UNIQUE,
	pin_hash      TEXT NOT NULL,
	name          TEXT NOT NULL,
	balance       BIGINT NOT NULL DEFAULT 0,
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transactions (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL REFERENCES users(id),
	type            TEXT NOT NULL,
	amount          BIGINT NOT NULL,
	original_amount BIGINT NOT NULL,
	admin_fee       BIGINT NOT NULL DEFAULT 1200,
	status          TEXT NOT NULL DEFAULT 'pending',
	recipient_phone TEXT,
	recipient_name  TEXT,
	bank_name       TEXT,
	account_number  TEXT,
	sender_name     TEXT,
	proof_image_url TEXT,
	notes           TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	is_read    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the three tables if they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

const userColumns = `id, phone_number, pin_hash, name, balance, is_active, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.PhoneNumber, &user.PINHash, &user.Name, &user.Balance, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *PostgresStore) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone_number = $1`, phone))
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, phone_number, pin_hash, name, balance, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.PhoneNumber, user.PINHash, user.Name, user.Balance, user.IsActive, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrPhoneRegistered
		}
		return err
	}
	return nil
}

func (s *PostgresStore) UpdateUserBalance(ctx context.Context, userID string, balance int64) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET balance = $1 WHERE id = $2`, balance, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.PhoneNumber, &user.PINHash, &user.Name, &user.Balance, &user.IsActive, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

const transactionColumns = `id, user_id, type, amount, original_amount, admin_fee, status,
	recipient_phone, recipient_name, bank_name, account_number, sender_name,
	proof_image_url, notes, created_at, updated_at`

func scanTransactionRow(row pgx.Row) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := row.Scan(
		&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.OriginalAmount, &tx.AdminFee, &tx.Status,
		&tx.RecipientPhone, &tx.RecipientName, &tx.BankName, &tx.AccountNumber, &tx.SenderName,
		&tx.ProofImageURL, &tx.Notes, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (s *PostgresStore) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO transactions (id, user_id, type, amount, original_amount, admin_fee, status,
			recipient_phone, recipient_name, bank_name, account_number, sender_name,
			proof_image_url, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		tx.ID, tx.UserID, tx.Type, tx.Amount, tx.OriginalAmount, tx.AdminFee, tx.Status,
		tx.RecipientPhone, tx.RecipientName, tx.BankName, tx.AccountNumber, tx.SenderName,
		tx.ProofImageURL, tx.Notes, tx.CreatedAt, tx.UpdatedAt,
	)
	return err
}

func (s *PostgresStore) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return scanTransactionRow(s.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
}

func (s *PostgresStore) listTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.OriginalAmount, &tx.AdminFee, &tx.Status,
			&tx.RecipientPhone, &tx.RecipientName, &tx.BankName, &tx.AccountNumber, &tx.SenderName,
			&tx.ProofImageURL, &tx.Notes, &tx.CreatedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (s *PostgresStore) ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return s.listTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (s *PostgresStore) ListPendingTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.listTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE status = $1 ORDER BY created_at DESC`, domain.StatusPending)
}

func (s *PostgresStore) UpdateTransactionStatus(ctx context.Context, id, status string) (*domain.Transaction, error) {
	return scanTransactionRow(s.db.QueryRow(ctx,
		`UPDATE transactions SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING `+transactionColumns,
		status, id))
}

func (s *PostgresStore) TotalApprovedVolume(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE status = $1`, domain.StatusApproved,
	).Scan(&total)
	return total, err
}

func (s *PostgresStore) CreateNotification(ctx context.Context, n *domain.Notification) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO notifications (id, user_id, title, message, is_read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.UserID, n.Title, n.Message, n.IsRead, n.CreatedAt,
	)
	return err
}

func (s *PostgresStore) ListNotificationsByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, title, message, is_read, created_at
		 FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *PostgresStore) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	return err
}

// Compile-time check that PostgresStore satisfies the Store interface.
var _ Store = (*PostgresStore)(nil)
