package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"warden-go/internal/config"
	db "warden-go/internal/db/sqlc_generated"
)

// ErrUnknownAudience is returned when a broadcast names an audience filter
// this service doesn't recognize.
var ErrUnknownAudience = errors.New("unknown broadcast audience")

// activeWindow bounds the "active" audience: any user with a booking or
// report in the last 30 days.
const activeWindow = 30 * 24 * time.Hour

// BroadcastService delivers a broadcast to its audience over every enabled
// channel, by fanning it out into individual outbox rows. Delivery is
// idempotent per recipient: each row's dedup_tag lets a retried or
// re-triggered broadcast skip recipients it already queued.
type BroadcastService struct {
	querier db.Querier
	logger  *slog.Logger
	cfg     *config.Config
}

// NewBroadcastService creates a new BroadcastService.
func NewBroadcastService(querier db.Querier, logger *slog.Logger, cfg *config.Config) *BroadcastService {
	return &BroadcastService{
		querier: querier,
		logger:  logger.With("service", "BroadcastService"),
		cfg:     cfg,
	}
}

// ProcessPendingBroadcasts fans out every pending broadcast into outbox
// entries, one per recipient per enabled channel.
func (s *BroadcastService) ProcessPendingBroadcasts(ctx context.Context) (int, error) {
	pending, err := s.querier.ListPendingBroadcasts(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list pending broadcasts", "error", err)
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	s.logger.InfoContext(ctx, "processing pending broadcasts", "count", len(pending))

	processed := 0
	for _, broadcast := range pending {
		if err := s.processBroadcast(ctx, broadcast); err != nil {
			s.logger.ErrorContext(ctx, "failed to process broadcast", "broadcast_id", broadcast.BroadcastID, "error", err)
			if updateErr := s.querier.UpdateBroadcastStatus(ctx, db.UpdateBroadcastStatusParams{
				BroadcastID: broadcast.BroadcastID,
				Status:      "failed",
				FailedCount: sql.NullInt64{Int64: 1, Valid: true},
			}); updateErr != nil {
				s.logger.ErrorContext(ctx, "failed to mark broadcast failed", "broadcast_id", broadcast.BroadcastID, "error", updateErr)
			}
			continue
		}
		processed++
	}

	s.logger.InfoContext(ctx, "completed processing broadcasts", "processed", processed, "failed", len(pending)-processed)
	return processed, nil
}

func (s *BroadcastService) processBroadcast(ctx context.Context, broadcast db.Broadcast) error {
	if err := s.querier.UpdateBroadcastStatus(ctx, db.UpdateBroadcastStatusParams{
		BroadcastID: broadcast.BroadcastID,
		Status:      "sending",
	}); err != nil {
		return fmt.Errorf("update broadcast status to sending: %w", err)
	}

	recipients, err := s.getRecipients(ctx, broadcast.Audience)
	if err != nil {
		return fmt.Errorf("resolve recipients: %w", err)
	}

	if len(recipients) == 0 {
		s.logger.WarnContext(ctx, "no recipients for broadcast", "broadcast_id", broadcast.BroadcastID, "audience", broadcast.Audience)
		return s.querier.UpdateBroadcastStatus(ctx, db.UpdateBroadcastStatusParams{
			BroadcastID: broadcast.BroadcastID,
			Status:      "sent",
			SentAt:      sql.NullTime{Time: time.Now().UTC(), Valid: true},
		})
	}

	sentCount, failedCount := s.queueRecipientMessages(ctx, broadcast, recipients)

	if err := s.querier.UpdateBroadcastStatus(ctx, db.UpdateBroadcastStatusParams{
		BroadcastID: broadcast.BroadcastID,
		Status:      "sent",
		SentAt:      sql.NullTime{Time: time.Now().UTC(), Valid: true},
		SentCount:   sql.NullInt64{Int64: sentCount, Valid: true},
		FailedCount: sql.NullInt64{Int64: failedCount, Valid: true},
	}); err != nil {
		return fmt.Errorf("update broadcast status to sent: %w", err)
	}

	s.logger.InfoContext(ctx, "broadcast processed",
		"broadcast_id", broadcast.BroadcastID, "recipients", len(recipients), "queued", sentCount, "failed", failedCount)
	return nil
}

// getRecipients resolves broadcast.Audience into the set of users it names.
func (s *BroadcastService) getRecipients(ctx context.Context, audience string) ([]db.User, error) {
	switch audience {
	case "all":
		return s.querier.ListUsers(ctx)
	case "admins":
		return s.filterUsersByRole(ctx, "admin")
	case "owls":
		return s.filterUsersByRole(ctx, "owl")
	case "active":
		return s.activeUsers(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAudience, audience)
	}
}

func (s *BroadcastService) filterUsersByRole(ctx context.Context, role string) ([]db.User, error) {
	allUsers, err := s.querier.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	var matched []db.User
	for _, u := range allUsers {
		if u.Role == role || (role == "owl" && u.Role == "") {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

// activeUsers resolves the "active" audience: users with any booking or
// report in the last 30 days.
func (s *BroadcastService) activeUsers(ctx context.Context) ([]db.User, error) {
	ids, err := s.querier.ListActiveUserIDs(ctx, time.Now().UTC().Add(-activeWindow))
	if err != nil {
		return nil, err
	}
	users := make([]db.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.querier.GetUserByID(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "active user lookup failed, skipping", "user_id", id, "error", err)
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

// queueRecipientMessages inserts one outbox row per recipient per enabled
// channel, tagged for idempotency so reprocessing a partially-sent broadcast
// does not double-queue a recipient who already has a row.
func (s *BroadcastService) queueRecipientMessages(ctx context.Context, broadcast db.Broadcast, recipients []db.User) (sentCount, failedCount int64) {
	pushPayload, _ := json.Marshal(map[string]interface{}{
		"type":         "broadcast",
		"title":        "Community Watch Alert",
		"body":         broadcast.Message,
		"broadcast_id": broadcast.BroadcastID,
	})

	for _, recipient := range recipients {
		if broadcast.PushEnabled {
			if s.queueOne(ctx, recipient, broadcast.BroadcastID, "push", string(pushPayload)) {
				sentCount++
			} else {
				failedCount++
			}
		}
		if s.queueOne(ctx, recipient, broadcast.BroadcastID, "sms", broadcast.Message) {
			sentCount++
		} else {
			failedCount++
		}
	}
	return sentCount, failedCount
}

func (s *BroadcastService) queueOne(ctx context.Context, recipient db.User, broadcastID int64, channel, payload string) bool {
	dedupTag := fmt.Sprintf("broadcast:%d:%s:%d", broadcastID, channel, recipient.UserID)

	if existing, err := s.querier.GetRecentOutboxItemByDedupTag(ctx, dedupTag); err == nil && existing.DedupTag.Valid {
		s.logger.InfoContext(ctx, "broadcast recipient already queued, skipping", "broadcast_id", broadcastID, "user_id", recipient.UserID, "channel", channel)
		return true
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "failed to check existing broadcast delivery", "broadcast_id", broadcastID, "user_id", recipient.UserID, "error", err)
	}

	recipientAddr := recipient.Phone
	if channel == "push" {
		recipientAddr = fmt.Sprintf("%d", recipient.UserID)
	}

	_, err := s.querier.CreateOutboxItem(ctx, db.CreateOutboxItemParams{
		UserID:      sql.NullInt64{Int64: recipient.UserID, Valid: true},
		Recipient:   recipientAddr,
		Channel:     channel,
		MessageType: "BROADCAST",
		Payload:     sql.NullString{String: payload, Valid: true},
		DedupTag:    sql.NullString{String: dedupTag, Valid: true},
		SendAt:      time.Now().UTC(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to queue broadcast outbox entry", "broadcast_id", broadcastID, "user_id", recipient.UserID, "channel", channel, "error", err)
		return false
	}
	return true
}
