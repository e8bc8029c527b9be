/**
 * @description
 * Event payloads published to RabbitMQ by the ledger service. Downstream
 * consumers (push delivery, analytics) are optional; the service works
 * without a broker.
 */

package domain

import "time"

// TransactionEvent is published when a ledger transaction is created or
// finalized by an admin decision.
type TransactionEvent struct {
	TransactionID  string    `json:"transaction_id"`
	UserID         string    `json:"user_id"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	Amount         int64     `json:"amount"`
	OriginalAmount int64     `json:"original_amount"`
	AdminFee       int64     `json:"admin_fee"`
	Timestamp      time.Time `json:"timestamp"`
}

// NotificationEvent is published when an in-app notification is created.
type NotificationEvent struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
}

// PendingReviewEvent is the periodic reminder published while transactions
// are waiting in the admin queue.
type PendingReviewEvent struct {
	PendingCount int       `json:"pending_count"`
	Timestamp    time.Time `json:"timestamp"`
}
