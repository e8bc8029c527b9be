/**
 * @description
 * This file defines the core domain models for the wallet-service: users,
 * ledger transactions, and in-app notifications, plus the read models served
 * by the admin endpoints.
 *
 * @notes
 * - Amounts are stored as `int64` in the smallest currency unit (rupiah),
 *   which avoids floating-point inaccuracies with financial data.
 * - JSON tags preserve the camelCase wire contract expected by the BYFORT
 *   mobile client (`userId`, `originalAmount`, `proofImageUrl`, ...).
 */

package domain

import "time"

// Transaction types. `send` and `receive` are the two legs of a P2P transfer;
// `topup` and `withdraw` go through the admin approval queue.
const (
	TypeTopUp    = "topup"
	TypeWithdraw = "withdraw"
	TypeSend     = "send"
	TypeReceive  = "receive"
)

// Transaction statuses. Transfer legs are created directly in `approved`;
// top-ups and withdrawals start `pending` and are finalized exactly once.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// DefaultAdminFee is the flat fee charged on top-ups, withdrawals, and
// outgoing transfers, in the smallest currency unit.
const DefaultAdminFee int64 = 1200

// User represents a wallet account holder. The PIN is stored only as a
// bcrypt hash and is never serialized.
type User struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	PINHash     string    `json:"-"`
	Name        string    `json:"name"`
	Balance     int64     `json:"balance"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Profile is the public projection of a user returned by the auth and
// profile endpoints.
type Profile struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name"`
	Balance     int64  `json:"balance"`
}

// Profile returns the user's public projection.
func (u *User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		PhoneNumber: u.PhoneNumber,
		Name:        u.Name,
		Balance:     u.Balance,
	}
}

// Transaction is the central ledger record for any money movement.
// Amount is the signed net effect on the owner's balance; OriginalAmount is
// the face value the user requested, before the admin fee.
type Transaction struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Type           string    `json:"type"`
	Amount         int64     `json:"amount"`
	OriginalAmount int64     `json:"originalAmount"`
	AdminFee       int64     `json:"adminFee"`
	Status         string    `json:"status"`
	RecipientPhone *string   `json:"recipientPhone"`
	RecipientName  *string   `json:"recipientName"`
	BankName       *string   `json:"bankName"`
	AccountNumber  *string   `json:"accountNumber"`
	SenderName     *string   `json:"senderName"`
	ProofImageURL  *string   `json:"proofImageUrl"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Finalized reports whether the transaction has left the pending state.
// Finalized transactions must never be approved or rejected again.
func (t *Transaction) Finalized() bool {
	return t.Status != StatusPending
}

// Notification is an in-app message created as a side effect of transfers
// and admin decisions. Always starts unread.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// TransactionOwner is the minimal owner info embedded in the admin pending
// queue for display.
type TransactionOwner struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

// PendingTransaction is a pending ledger record joined with its owner.
// Owner is null when the owning account cannot be resolved.
type PendingTransaction struct {
	Transaction
	User *TransactionOwner `json:"user"`
}

// AdminStats are the aggregate counters shown on the admin dashboard.
// TotalVolume sums the signed Amount of every approved transaction, so
// outgoing send legs offset incoming receive legs: it is a net figure.
type AdminStats struct {
	PendingCount int   `json:"pendingCount"`
	TotalUsers   int   `json:"totalUsers"`
	TotalVolume  int64 `json:"totalVolume"`
}
