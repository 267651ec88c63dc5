package notificator

import (
	"context"
	"sync"
	"time"

	"github.com/latinum-ai/mercator/internal/models"
	"github.com/latinum-ai/mercator/pkg/logger"
)

const (
	// DispatchInterval is how often the dispatcher polls the outbox.
	DispatchInterval = 15 * time.Second
	// DispatchBatchSize caps how many pending emails one pass picks up.
	DispatchBatchSize = 50
)

// OutboxDispatcher delivers queued notification emails. Settlement enqueues
// rows transactionally; this loop drains them, so email-provider latency or
// downtime never holds up a purchase.
type OutboxDispatcher struct {
	logger *logger.Logger

	repo   models.Repository
	sender models.EmailSender

	interval time.Duration

	// Lifecycle management
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOutboxDispatcher creates a new OutboxDispatcher instance
func NewOutboxDispatcher(repo models.Repository, sender models.EmailSender, logger *logger.Logger, interval time.Duration) *OutboxDispatcher {
	if interval <= 0 {
		interval = DispatchInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &OutboxDispatcher{
		logger:   logger,
		repo:     repo,
		sender:   sender,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs the polling loop in a background goroutine.
func (d *OutboxDispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				d.DispatchPending()
			case <-d.ctx.Done():
				d.logger.Info("Outbox dispatcher stopped")
				return
			}
		}
	}()
}

// DispatchPending sends every pending outbox email once and records the
// outcome. A failed send bumps the attempt counter and is retried on a later
// pass; it is never surfaced to the purchase flow.
func (d *OutboxDispatcher) DispatchPending() int {
	emails, err := d.repo.PendingOutboxEmails(DispatchBatchSize)
	if err != nil {
		d.logger.Error("Failed to get pending outbox emails ", "error ", err)
		return 0
	}

	sent := 0
	for _, email := range emails {
		if err := d.sender.Send(email.Recipient, email.Subject, email.Body); err != nil {
			d.logger.Error("Failed to send outbox email ", "error ", err, " recipient ", email.Recipient, " attempts ", email.Attempts+1)
			if err := d.repo.MarkOutboxEmailFailed(email.ID); err != nil {
				d.logger.Error("Failed to record outbox email failure ", "error ", err, " id ", email.ID)
			}
			continue
		}
		if err := d.repo.MarkOutboxEmailSent(email.ID, time.Now().Unix()); err != nil {
			d.logger.Error("Failed to mark outbox email sent ", "error ", err, " id ", email.ID)
			continue
		}
		sent++
	}

	if sent > 0 {
		d.logger.Debug("Dispatched outbox emails ", "sent ", sent)
	}
	return sent
}

// Stop gracefully stops the dispatcher
func (d *OutboxDispatcher) Stop() {
	d.cancel()
	d.wg.Wait()
}
