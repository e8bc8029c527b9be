/**
 * @description
 * This file defines the `Store` interface, the contract for all data access
 * required by the ledger service across its three collections: users,
 * transactions, and notifications. Defining an interface decouples the
 * business logic from the backing implementation, so the default in-memory
 * store can be swapped for PostgreSQL without touching ledger semantics.
 *
 * @dependencies
 * - context, errors: Standard Go libraries.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"errors"

	"github.com/byfort/wallet-service/internal/domain"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrPhoneRegistered     = errors.New("phone number already registered")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Store defines the set of methods for interacting with the backing storage.
// All list methods return records ordered most-recent-first by creation time.
type Store interface {
	// Users
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	// UpdateUserBalance stores an absolute balance. Funds checks are the
	// caller's responsibility; the store does not reject negative balances.
	UpdateUserBalance(ctx context.Context, userID string, balance int64) error
	ListUsers(ctx context.Context) ([]domain.User, error)

	// Transactions
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
	ListPendingTransactions(ctx context.Context) ([]domain.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, id, status string) (*domain.Transaction, error)
	// TotalApprovedVolume sums the signed Amount of every approved
	// transaction, yielding a net rather than gross figure.
	TotalApprovedVolume(ctx context.Context) (int64, error)

	// Notifications
	CreateNotification(ctx context.Context, n *domain.Notification) error
	ListNotificationsByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	// MarkNotificationRead is idempotent and a no-op for unknown ids.
	MarkNotificationRead(ctx context.Context, id string) error
}
