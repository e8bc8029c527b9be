/**
 * @description
 * This file contains the core business logic for the wallet-service. The
 * `Service` struct owns every ledger mutation: registration and login,
 * top-up and withdrawal requests, immediate P2P transfers, and the admin
 * approve/reject workflow, together with the notifications they emit.
 *
 * Key invariants:
 * - Balances never go negative through service operations: every debit is
 *   preceded by a funds check against amount + admin fee.
 * - Top-ups touch the balance only on approval; withdrawals reserve funds at
 *   submission and refund them only on rejection.
 * - A transaction is finalized at most once: a second approve/reject fails
 *   with ErrTransactionFinalized.
 *
 * @dependencies
 * - context, errors, fmt, log, sync, time: Standard Go libraries.
 * - github.com/google/uuid: For opaque record identifiers.
 * - golang.org/x/crypto/bcrypt: PIN hashing and verification.
 * - internal/domain, internal/store: Domain models and data access.
 * - pkg/rabbitmq: Optional event publishing.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/byfort/wallet-service/internal/domain"
	"github.com/byfort/wallet-service/internal/store"
	"github.com/byfort/wallet-service/pkg/rabbitmq"
)

var (
	ErrInvalidCredentials   = errors.New("invalid phone number or pin")
	ErrRecipientNotFound    = errors.New("recipient not registered")
	ErrSelfTransfer         = errors.New("cannot transfer to own account")
	ErrTransactionFinalized = errors.New("transaction already finalized")
)

// Service provides the core business logic for the wallet ledger.
type Service struct {
	store    store.Store
	events   rabbitmq.Publisher
	exchange string
	adminFee int64

	// mu serializes multi-step ledger mutations (transfer, withdraw,
	// approve, reject). The store itself only guards individual calls, so
	// without this lock two interleaved requests could both pass a funds
	// check before either debit lands.
	mu sync.Mutex
}

// NewService creates a new wallet service instance.
func NewService(st store.Store, events rabbitmq.Publisher, exchange string, adminFee int64) *Service {
	if adminFee <= 0 {
		adminFee = domain.DefaultAdminFee
	}
	return &Service{
		store:    st,
		events:   events,
		exchange: exchange,
		adminFee: adminFee,
	}
}

// AdminFee returns the flat fee applied to top-ups, withdrawals, and
// outgoing transfers.
func (s *Service) AdminFee() int64 {
	return s.adminFee
}

// Register creates a new wallet account. The PIN is stored as a bcrypt hash.
// Fails with store.ErrPhoneRegistered when the phone number is taken.
func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if _, err := s.store.GetUserByPhone(ctx, req.PhoneNumber); err == nil {
		return nil, store.ErrPhoneRegistered
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, err
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}

	user := &domain.User{
		ID:          uuid.NewString(),
		PhoneNumber: req.PhoneNumber,
		PINHash:     string(pinHash),
		Name:        req.Name,
		Balance:     0,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("level=info component=app operation=register user_id=%s phone=%s", user.ID, user.PhoneNumber)
	return user, nil
}

// Login verifies phone/PIN credentials. Any mismatch, including an unknown
// phone number, yields ErrInvalidCredentials so the endpoint cannot be used
// to probe registered numbers.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, error) {
	user, err := s.store.GetUserByPhone(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PINHash), []byte(req.PIN)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// CheckUser reports whether a phone number is already registered.
func (s *Service) CheckUser(ctx context.Context, phone string) (bool, error) {
	_, err := s.store.GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetUser fetches a user profile by id.
func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}

// RequestTopUp records a pending top-up for admin review. The balance is not
// touched here; the credit of originalAmount − fee happens on approval.
func (s *Service) RequestTopUp(ctx context.Context, req domain.TopUpRequest, proofImageURL string) (*domain.Transaction, error) {
	if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	now := time.Now()
	tx := &domain.Transaction{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		Type:           domain.TypeTopUp,
		Amount:         req.OriginalAmount - s.adminFee,
		OriginalAmount: req.OriginalAmount,
		AdminFee:       s.adminFee,
		Status:         domain.StatusPending,
		BankName:       &req.BankName,
		AccountNumber:  &req.AccountNumber,
		SenderName:     &req.SenderName,
		ProofImageURL:  &proofImageURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	log.Printf("level=info component=app operation=topup user_id=%s transaction_id=%s original_amount=%d", req.UserID, tx.ID, req.OriginalAmount)
	s.publishTransactionEvent(ctx, "transaction.created", tx)
	return tx, nil
}

// RequestWithdraw records a pending withdrawal and immediately reserves
// originalAmount + fee from the balance. A later rejection refunds the
// reservation; approval requires no further balance change.
func (s *Service) RequestWithdraw(ctx context.Context, req domain.WithdrawRequest) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	total := req.OriginalAmount + s.adminFee
	if user.Balance < total {
		return nil, store.ErrInsufficientFunds
	}
	if err := s.store.UpdateUserBalance(ctx, user.ID, user.Balance-total); err != nil {
		return nil, err
	}

	now := time.Now()
	tx := &domain.Transaction{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		Type:           domain.TypeWithdraw,
		Amount:         req.OriginalAmount,
		OriginalAmount: req.OriginalAmount,
		AdminFee:       s.adminFee,
		Status:         domain.StatusPending,
		RecipientName:  &req.RecipientName,
		BankName:       &req.BankName,
		AccountNumber:  &req.AccountNumber,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		// Roll back the reservation so a storage failure does not strand funds.
		if refundErr := s.store.UpdateUserBalance(ctx, user.ID, user.Balance); refundErr != nil {
			log.Printf("level=error component=app operation=withdraw msg=\"refund after create failure also failed\" user_id=%s err=%v", user.ID, refundErr)
		}
		return nil, err
	}

	log.Printf("level=info component=app operation=withdraw user_id=%s transaction_id=%s reserved=%d", user.ID, tx.ID, total)
	s.publishTransactionEvent(ctx, "transaction.created", tx)
	return tx, nil
}

// SendMoney performs an immediate P2P transfer: the sender is debited
// originalAmount + fee, the recipient is credited originalAmount, and both
// ledger legs are created directly in the approved state. The sender's leg
// is returned.
func (s *Service) SendMoney(ctx context.Context, req domain.SendMoneyRequest) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sender, err := s.store.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.store.GetUserByPhone(ctx, req.RecipientPhone)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}
	if sender.ID == recipient.ID {
		return nil, ErrSelfTransfer
	}

	total := req.OriginalAmount + s.adminFee
	if sender.Balance < total {
		return nil, store.ErrInsufficientFunds
	}

	if err := s.store.UpdateUserBalance(ctx, sender.ID, sender.Balance-total); err != nil {
		return nil, err
	}
	if err := s.store.UpdateUserBalance(ctx, recipient.ID, recipient.Balance+req.OriginalAmount); err != nil {
		// Undo the sender debit; without this the fee and face value vanish.
		if undoErr := s.store.UpdateUserBalance(ctx, sender.ID, sender.Balance); undoErr != nil {
			log.Printf("level=error component=app operation=send msg=\"sender refund after credit failure also failed\" user_id=%s err=%v", sender.ID, undoErr)
		}
		return nil, err
	}

	now := time.Now()
	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	senderTx := &domain.Transaction{
		ID:             uuid.NewString(),
		UserID:         sender.ID,
		Type:           domain.TypeSend,
		Amount:         -req.OriginalAmount,
		OriginalAmount: req.OriginalAmount,
		AdminFee:       s.adminFee,
		Status:         domain.StatusApproved,
		RecipientPhone: &recipient.PhoneNumber,
		RecipientName:  &recipient.Name,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateTransaction(ctx, senderTx); err != nil {
		return nil, err
	}

	receiveTx := &domain.Transaction{
		ID:             uuid.NewString(),
		UserID:         recipient.ID,
		Type:           domain.TypeReceive,
		Amount:         req.OriginalAmount,
		OriginalAmount: req.OriginalAmount,
		AdminFee:       0,
		Status:         domain.StatusApproved,
		SenderName:     &sender.Name,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateTransaction(ctx, receiveTx); err != nil {
		return nil, err
	}

	s.notify(ctx, recipient.ID, "Saldo Masuk",
		fmt.Sprintf("Anda menerima Rp %s dari %s", formatRupiah(req.OriginalAmount), sender.Name))

	log.Printf("level=info component=app operation=send sender_id=%s recipient_id=%s amount=%d fee=%d", sender.ID, recipient.ID, req.OriginalAmount, s.adminFee)
	s.publishTransactionEvent(ctx, "transaction.created", senderTx)
	return senderTx, nil
}

// ApproveTransaction finalizes a pending transaction as approved. Top-up
// approval is the only point at which a top-up reaches the balance; an
// approved withdrawal needs no balance change because the funds were
// reserved at request time.
func (s *Service) ApproveTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Finalized() {
		return nil, ErrTransactionFinalized
	}

	updated, err := s.store.UpdateTransactionStatus(ctx, tx.ID, domain.StatusApproved)
	if err != nil {
		return nil, err
	}

	if tx.Type == domain.TypeTopUp {
		user, err := s.store.GetUser(ctx, tx.UserID)
		if err != nil {
			return nil, err
		}
		if err := s.store.UpdateUserBalance(ctx, user.ID, user.Balance+tx.Amount); err != nil {
			return nil, err
		}
	}

	s.notify(ctx, tx.UserID, "Transaksi Disetujui",
		fmt.Sprintf("%s sebesar Rp %s telah disetujui", transactionLabel(tx.Type), formatRupiah(tx.OriginalAmount)))

	log.Printf("level=info component=app operation=approve transaction_id=%s type=%s", tx.ID, tx.Type)
	s.publishTransactionEvent(ctx, "transaction.approved", updated)
	return updated, nil
}

// RejectTransaction finalizes a pending transaction as rejected. Withdrawal
// rejection refunds the reserved originalAmount + fee exactly once; top-up
// rejection has no balance effect because nothing was credited.
func (s *Service) RejectTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Finalized() {
		return nil, ErrTransactionFinalized
	}

	updated, err := s.store.UpdateTransactionStatus(ctx, tx.ID, domain.StatusRejected)
	if err != nil {
		return nil, err
	}

	if tx.Type == domain.TypeWithdraw {
		user, err := s.store.GetUser(ctx, tx.UserID)
		if err != nil {
			return nil, err
		}
		refund := tx.OriginalAmount + tx.AdminFee
		if err := s.store.UpdateUserBalance(ctx, user.ID, user.Balance+refund); err != nil {
			return nil, err
		}
	}

	s.notify(ctx, tx.UserID, "Transaksi Ditolak",
		fmt.Sprintf("%s sebesar Rp %s ditolak", transactionLabel(tx.Type), formatRupiah(tx.OriginalAmount)))

	log.Printf("level=info component=app operation=reject transaction_id=%s type=%s", tx.ID, tx.Type)
	s.publishTransactionEvent(ctx, "transaction.rejected", updated)
	return updated, nil
}

// ListTransactions returns a user's transactions, most recent first.
func (s *Service) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return s.store.ListTransactionsByUser(ctx, userID)
}

// ListPendingTransactions returns the admin review queue, most recent first,
// with minimal owner info joined in for display.
func (s *Service) ListPendingTransactions(ctx context.Context) ([]domain.PendingTransaction, error) {
	txs, err := s.store.ListPendingTransactions(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]domain.PendingTransaction, 0, len(txs))
	for _, tx := range txs {
		entry := domain.PendingTransaction{Transaction: tx}
		if user, err := s.store.GetUser(ctx, tx.UserID); err == nil {
			entry.User = &domain.TransactionOwner{Name: user.Name, PhoneNumber: user.PhoneNumber}
		}
		pending = append(pending, entry)
	}
	return pending, nil
}

// Stats returns the aggregate counters for the admin dashboard.
func (s *Service) Stats(ctx context.Context) (*domain.AdminStats, error) {
	pending, err := s.store.ListPendingTransactions(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	volume, err := s.store.TotalApprovedVolume(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.AdminStats{
		PendingCount: len(pending),
		TotalUsers:   len(users),
		TotalVolume:  volume,
	}, nil
}

// ListNotifications returns a user's notifications, most recent first.
func (s *Service) ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.store.ListNotificationsByUser(ctx, userID)
}

// MarkNotificationRead marks a notification as read. Idempotent; unknown
// ids are ignored.
func (s *Service) MarkNotificationRead(ctx context.Context, id string) error {
	return s.store.MarkNotificationRead(ctx, id)
}

// notify appends an unread notification and publishes the matching event.
// Notification failures are logged, never surfaced: the ledger mutation that
// triggered them has already been committed.
func (s *Service) notify(ctx context.Context, userID, title, message string) {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		log.Printf("level=error component=app msg=\"notification create failed\" user_id=%s err=%v", userID, err)
		return
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, s.exchange, "notification.created", domain.NotificationEvent{
			NotificationID: n.ID,
			UserID:         n.UserID,
			Title:          n.Title,
			Message:        n.Message,
			Timestamp:      n.CreatedAt,
		}); err != nil {
			log.Printf("level=warn component=app msg=\"notification event publish failed\" notification_id=%s err=%v", n.ID, err)
		}
	}
}

func (s *Service) publishTransactionEvent(ctx context.Context, routingKey string, tx *domain.Transaction) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, s.exchange, routingKey, domain.TransactionEvent{
		TransactionID:  tx.ID,
		UserID:         tx.UserID,
		Type:           tx.Type,
		Status:         tx.Status,
		Amount:         tx.Amount,
		OriginalAmount: tx.OriginalAmount,
		AdminFee:       tx.AdminFee,
		Timestamp:      time.Now(),
	}); err != nil {
		log.Printf("level=warn component=app msg=\"transaction event publish failed\" transaction_id=%s routing_key=%s err=%v", tx.ID, routingKey, err)
	}
}

// transactionLabel maps a queue transaction type to its user-facing name.
// Only top-ups and withdrawals pass through the pending queue.
func transactionLabel(txType string) string {
	if txType == domain.TypeTopUp {
		return "Top up"
	}
	return "Penarikan"
}

// formatRupiah renders an amount with Indonesian thousands separators, e.g.
// 1250000 becomes "1.250.000".
func formatRupiah(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}
	if negative {
		return "-" + string(out)
	}
	return string(out)
}
