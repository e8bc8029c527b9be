/**
 * @description
 * This file provides the in-memory implementation of the `Store` interface.
 * It is the default backend: three mutex-guarded maps with an insertion
 * sequence per record so listings stay stable when timestamps collide.
 *
 * @dependencies
 * - context, sort, sync, time: Standard Go libraries.
 * - golang.org/x/crypto/bcrypt: For hashing the demo user's PIN at seed time.
 * - internal/domain: Contains the domain models.
 */

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/byfort/wallet-service/internal/domain"
)

type seqUser struct {
	user domain.User
	seq  uint64
}

type seqTransaction struct {
	tx  domain.Transaction
	seq uint64
}

type seqNotification struct {
	n   domain.Notification
	seq uint64
}

// MemoryStore is a thread-safe, map-backed Store. Records survive only for
// the lifetime of the process.
type MemoryStore struct {
	mu            sync.RWMutex
	seq           uint64
	users         map[string]seqUser
	transactions  map[string]seqTransaction
	notifications map[string]seqNotification
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]seqUser),
		transactions:  make(map[string]seqTransaction),
		notifications: make(map[string]seqNotification),
	}
}

// SeedDemoData inserts the demo account and its pending top-up so the app is
// usable out of the box: phone 8123456789, PIN 123456, balance 125000.
func (m *MemoryStore) SeedDemoData() error {
	pinHash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	bank := "BCA"
	accountNumber := "1234567890"
	senderName := "Demo User"
	proofURL := "/uploads/demo-proof.jpg"

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	m.users["demo-user-1"] = seqUser{
		seq: m.seq,
		user: domain.User{
			ID:          "demo-user-1",
			PhoneNumber: "8123456789",
			PINHash:     string(pinHash),
			Name:        "Demo User",
			Balance:     125000,
			IsActive:    true,
			CreatedAt:   now,
		},
	}

	m.seq++
	m.transactions["demo-txn-1"] = seqTransaction{
		seq: m.seq,
		tx: domain.Transaction{
			ID:             "demo-txn-1",
			UserID:         "demo-user-1",
			Type:           domain.TypeTopUp,
			Amount:         48800,
			OriginalAmount: 50000,
			AdminFee:       domain.DefaultAdminFee,
			Status:         domain.StatusPending,
			BankName:       &bank,
			AccountNumber:  &accountNumber,
			SenderName:     &senderName,
			ProofImageURL:  &proofURL,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
	return nil
}

func (m *MemoryStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := entry.user
	return &user, nil
}

func (m *MemoryStore) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, entry := range m.users {
		if entry.user.PhoneNumber == phone {
			user := entry.user
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MemoryStore) CreateUser(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.users {
		if entry.user.PhoneNumber == user.PhoneNumber {
			return ErrPhoneRegistered
		}
	}
	m.seq++
	m.users[user.ID] = seqUser{user: *user, seq: m.seq}
	return nil
}

func (m *MemoryStore) UpdateUserBalance(ctx context.Context, userID string, balance int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	entry.user.Balance = balance
	m.users[userID] = entry
	return nil
}

func (m *MemoryStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]seqUser, 0, len(m.users))
	for _, entry := range m.users {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	users := make([]domain.User, len(entries))
	for i, entry := range entries {
		users[i] = entry.user
	}
	return users, nil
}

func (m *MemoryStore) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.transactions[tx.ID] = seqTransaction{tx: *tx, seq: m.seq}
	return nil
}

func (m *MemoryStore) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.transactions[id]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	tx := entry.tx
	return &tx, nil
}

func (m *MemoryStore) ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collectTransactions(func(tx *domain.Transaction) bool { return tx.UserID == userID }), nil
}

func (m *MemoryStore) ListPendingTransactions(ctx context.Context) ([]domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collectTransactions(func(tx *domain.Transaction) bool { return tx.Status == domain.StatusPending }), nil
}

// collectTransactions filters and orders matching records most-recent-first.
// Callers must hold at least a read lock.
func (m *MemoryStore) collectTransactions(match func(*domain.Transaction) bool) []domain.Transaction {
	entries := make([]seqTransaction, 0)
	for _, entry := range m.transactions {
		if match(&entry.tx) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].tx.CreatedAt.Equal(entries[j].tx.CreatedAt) {
			return entries[i].seq > entries[j].seq
		}
		return entries[i].tx.CreatedAt.After(entries[j].tx.CreatedAt)
	})
	txs := make([]domain.Transaction, len(entries))
	for i, entry := range entries {
		txs[i] = entry.tx
	}
	return txs
}

func (m *MemoryStore) UpdateTransactionStatus(ctx context.Context, id, status string) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.transactions[id]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	entry.tx.Status = status
	entry.tx.UpdatedAt = time.Now()
	m.transactions[id] = entry
	tx := entry.tx
	return &tx, nil
}

func (m *MemoryStore) TotalApprovedVolume(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, entry := range m.transactions {
		if entry.tx.Status == domain.StatusApproved {
			total += entry.tx.Amount
		}
	}
	return total, nil
}

func (m *MemoryStore) CreateNotification(ctx context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.notifications[n.ID] = seqNotification{n: *n, seq: m.seq}
	return nil
}

func (m *MemoryStore) ListNotificationsByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]seqNotification, 0)
	for _, entry := range m.notifications {
		if entry.n.UserID == userID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n.CreatedAt.Equal(entries[j].n.CreatedAt) {
			return entries[i].seq > entries[j].seq
		}
		return entries[i].n.CreatedAt.After(entries[j].n.CreatedAt)
	})
	notifications := make([]domain.Notification, len(entries))
	for i, entry := range entries {
		notifications[i] = entry.n
	}
	return notifications, nil
}

func (m *MemoryStore) MarkNotificationRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.notifications[id]
	if !ok {
		return nil
	}
	entry.n.IsRead = true
	m.notifications[id] = entry
	return nil
}

// Compile-time check that MemoryStore satisfies the Store interface.
var _ Store = (*MemoryStore)(nil)
