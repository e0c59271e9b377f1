package outbox

import (
	"context"
	"database/sql"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"warden-go/internal/config"
	db "warden-go/internal/db/sqlc_generated"
)

// DispatcherService drains pending outbox rows in batches and routes each to
// the MessageSender registered for its channel (sms or push). A channel with
// no registered sender, or a push item with no user_id to resolve, is
// permanently_failed immediately rather than retried: no future drain cycle
// can change either condition.
type DispatcherService struct {
	querier db.Querier
	senders map[string]MessageSender
	logger  *slog.Logger
	cfg     *config.Config
}

// NewDispatcherService creates a new DispatcherService. senders maps a
// channel name ("sms", "push") to the MessageSender that delivers it.
func NewDispatcherService(querier db.Querier, senders map[string]MessageSender, logger *slog.Logger, cfg *config.Config) *DispatcherService {
	return &DispatcherService{
		querier: querier,
		senders: senders,
		logger:  logger.With("service", "OutboxDispatcher"),
		cfg:     cfg,
	}
}

// ProcessPendingOutboxMessages drains one batch of due outbox items.
func (s *DispatcherService) ProcessPendingOutboxMessages(ctx context.Context) (processedCount int, errCount int) {
	pendingItems, err := s.querier.GetPendingOutboxItems(ctx, int64(s.cfg.OutboxBatchSize))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get pending outbox items", "error", err)
		return 0, 1
	}
	if len(pendingItems) == 0 {
		return 0, 0
	}

	s.logger.InfoContext(ctx, "processing pending outbox items", "count", len(pendingItems))

	for _, item := range pendingItems {
		if s.dispatchOne(ctx, item) {
			processedCount++
		} else {
			errCount++
		}
	}
	return processedCount, errCount
}

func (s *DispatcherService) dispatchOne(ctx context.Context, item db.Outbox) bool {
	sender, ok := s.senders[item.Channel]
	if !ok {
		s.logger.ErrorContext(ctx, "no sender registered for channel, failing item permanently", "outbox_id", item.OutboxID, "channel", item.Channel)
		s.markPermanentlyFailed(ctx, item, "no sender registered for channel "+item.Channel)
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout())
	outcome, sendErr := sender.Send(sendCtx, item)
	cancel()

	switch outcome {
	case Delivered:
		s.markSent(ctx, item)
		return true
	case Permanent:
		errMsg := "permanent failure"
		if sendErr != nil {
			errMsg = sendErr.Error()
		}
		s.logger.WarnContext(ctx, "outbox item permanently failed", "outbox_id", item.OutboxID, "error", errMsg)
		s.markPermanentlyFailed(ctx, item, errMsg)
		return false
	default: // Transient
		s.markRetry(ctx, item, sendErr)
		return false
	}
}

func (s *DispatcherService) sendTimeout() time.Duration {
	if s.cfg.OutboxSendTimeout > 0 {
		return s.cfg.OutboxSendTimeout
	}
	return 30 * time.Second
}

func (s *DispatcherService) markSent(ctx context.Context, item db.Outbox) {
	err := s.querier.UpdateOutboxItemStatus(ctx, db.UpdateOutboxItemStatusParams{
		OutboxID:   item.OutboxID,
		Status:     "sent",
		RetryCount: item.RetryCount,
		SentAt:     sql.NullTime{Time: time.Now().UTC(), Valid: true},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to mark outbox item sent", "outbox_id", item.OutboxID, "error", err)
	}
}

func (s *DispatcherService) markPermanentlyFailed(ctx context.Context, item db.Outbox, reason string) {
	err := s.querier.UpdateOutboxItemStatus(ctx, db.UpdateOutboxItemStatusParams{
		OutboxID:   item.OutboxID,
		Status:     "permanently_failed",
		RetryCount: item.RetryCount,
		LastError:  sql.NullString{String: reason, Valid: true},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to mark outbox item permanently failed", "outbox_id", item.OutboxID, "error", err)
	}
}

func (s *DispatcherService) markRetry(ctx context.Context, item db.Outbox, sendErr error) {
	retryCount := item.RetryCount.Int64 + 1
	errMsg := ""
	if sendErr != nil {
		errMsg = sendErr.Error()
	}

	if retryCount >= int64(s.cfg.OutboxMaxRetries) {
		s.logger.WarnContext(ctx, "outbox item exhausted retries", "outbox_id", item.OutboxID, "retry_count", retryCount)
		item.RetryCount = sql.NullInt64{Int64: retryCount, Valid: true}
		s.markPermanentlyFailed(ctx, item, errMsg)
		return
	}

	// Stays "pending" rather than moving to a "failed" status: the row must
	// still match GetPendingOutboxItems' status='pending' filter so a later
	// drain re-fetches it once next_retry_at elapses.
	nextRetryAt := time.Now().UTC().Add(retryDelay(int(retryCount)))
	err := s.querier.UpdateOutboxItemStatus(ctx, db.UpdateOutboxItemStatusParams{
		OutboxID:    item.OutboxID,
		Status:      "pending",
		RetryCount:  sql.NullInt64{Int64: retryCount, Valid: true},
		NextRetryAt: sql.NullTime{Time: nextRetryAt, Valid: true},
		LastError:   sql.NullString{String: errMsg, Valid: true},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to mark outbox item for retry", "outbox_id", item.OutboxID, "error", err)
	}
	s.logger.WarnContext(ctx, "outbox item failed, scheduled for retry", "outbox_id", item.OutboxID, "retry_count", retryCount, "next_retry_at", nextRetryAt, "error", errMsg)
}

// retryDelay computes an exponential backoff with +/-25% jitter, capped at
// one hour, so a burst of failures doesn't retry in lockstep.
func retryDelay(retryCount int) time.Duration {
	const base = 30 * time.Second
	const maxDelay = time.Hour

	delay := time.Duration(float64(base) * math.Pow(2, float64(retryCount-1)))
	if delay > maxDelay {
		delay = maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay/2))) - delay/4
	return delay + jitter
}
