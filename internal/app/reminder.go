/**
 * @description
 * Periodic reminder for the admin review queue. While transactions sit in
 * the pending state the job logs a summary line and, when a broker is
 * configured, publishes an admin.review.reminder event so an ops channel
 * can pick it up. The job is read-only and never touches ledger state.
 */

package app

import (
	"context"
	"log"
	"time"

	"github.com/byfort/wallet-service/internal/domain"
	"github.com/byfort/wallet-service/internal/store"
	"github.com/byfort/wallet-service/pkg/rabbitmq"
)

// PendingReviewJob is scheduled by the cron runner in cmd/main.go.
type PendingReviewJob struct {
	store    store.Store
	events   rabbitmq.Publisher
	exchange string
}

// NewPendingReviewJob creates the reminder job.
func NewPendingReviewJob(st store.Store, events rabbitmq.Publisher, exchange string) *PendingReviewJob {
	return &PendingReviewJob{store: st, events: events, exchange: exchange}
}

// Run implements cron.Job.
func (j *PendingReviewJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pending, err := j.store.ListPendingTransactions(ctx)
	if err != nil {
		log.Printf("level=error component=pending_review_job msg=\"pending list failed\" err=%v", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	log.Printf("level=info component=pending_review_job msg=\"transactions awaiting admin review\" pending_count=%d", len(pending))
	if j.events != nil {
		if err := j.events.Publish(ctx, j.exchange, "admin.review.reminder", domain.PendingReviewEvent{
			PendingCount: len(pending),
			Timestamp:    time.Now(),
		}); err != nil {
			log.Printf("level=warn component=pending_review_job msg=\"reminder publish failed\" err=%v", err)
		}
	}
}
