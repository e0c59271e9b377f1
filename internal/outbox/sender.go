package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	twilio "github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"warden-go/internal/authiface"
	"warden-go/internal/config"
	db "warden-go/internal/db/sqlc_generated"
)

// Outcome classifies the result of a single delivery attempt so the
// dispatcher can tell a doomed message apart from one merely unlucky this
// round: Delivered stops retrying, Transient schedules a backoff retry,
// Permanent stops retrying without exhausting the retry budget (e.g. a push
// subscription that no longer exists).
type Outcome int

const (
	Delivered Outcome = iota
	Transient
	Permanent
)

// MessageSender delivers one outbox item over a single channel (sms or
// push). Send receives the full row rather than discrete fields since a
// push send needs the recipient's user_id to look up subscriptions, while an
// sms send only needs the recipient phone number.
type MessageSender interface {
	Send(ctx context.Context, item db.Outbox) (Outcome, error)
}

// LogFileMessageSender writes every message to a local log file instead of
// an external provider; used for OTP delivery and local development where no
// SMS/push credentials are configured.
type LogFileMessageSender struct {
	logFilePath string
	logger      *slog.Logger
}

// NewLogFileMessageSender creates a new LogFileMessageSender, creating the
// log file's directory if it doesn't already exist.
func NewLogFileMessageSender(logFilePath string, logger *slog.Logger) (*LogFileMessageSender, error) {
	dir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create directory for message log %s: %w", dir, err)
	}
	return &LogFileMessageSender{
		logFilePath: logFilePath,
		logger:      logger.With("component", "LogFileMessageSender"),
	}, nil
}

// Send appends the message to the configured log file. A failure to open or
// write the file is reported as Transient; this sender never reports
// Permanent.
func (s *LogFileMessageSender) Send(ctx context.Context, item db.Outbox) (Outcome, error) {
	line := fmt.Sprintf("[%s] channel=%s to=%s type=%s payload=%s\n",
		time.Now().Format(time.RFC3339), item.Channel, item.Recipient, item.MessageType, item.Payload.String)

	file, err := os.OpenFile(s.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to open message log file", "path", s.logFilePath, "error", err)
		return Transient, fmt.Errorf("open message log %s: %w", s.logFilePath, err)
	}
	defer file.Close()

	if _, err := file.WriteString(line); err != nil {
		s.logger.ErrorContext(ctx, "failed to write message log file", "path", s.logFilePath, "error", err)
		return Transient, fmt.Errorf("write message log %s: %w", s.logFilePath, err)
	}

	s.logger.InfoContext(ctx, "message written to log file", "recipient", item.Recipient, "type", item.MessageType)
	return Delivered, nil
}

var _ authiface.OTPSender = (*LogFileMessageSender)(nil)

// SendOTP satisfies authiface.OTPSender for local development: it delivers
// the code through the same log file a queued sms item would use, bypassing
// the outbox table since an OTP is synchronous-delivery-or-fail rather than
// retried from a queue.
func (s *LogFileMessageSender) SendOTP(ctx context.Context, phone, code string, validity time.Duration) error {
	item := db.Outbox{
		Channel:     "sms",
		Recipient:   phone,
		MessageType: "OTP_VERIFICATION",
		Payload: sql.NullString{
			String: fmt.Sprintf("Your verification code is %s (valid %s)", code, validity),
			Valid:  true,
		},
	}
	_, err := s.Send(ctx, item)
	return err
}

// TwilioSMSSender sends outbox items over the channel=sms lane through the
// Twilio Messages API. It is distinct from the teacher's OTP-only Verify
// client: this sender carries arbitrary outbox payload text, not a
// verification code.
type TwilioSMSSender struct {
	client     *twilio.RestClient
	fromNumber string
	logger     *slog.Logger
}

// NewTwilioSMSSender creates a new TwilioSMSSender from static credentials.
func NewTwilioSMSSender(cfg *config.Config, logger *slog.Logger) *TwilioSMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &TwilioSMSSender{
		client:     client,
		fromNumber: cfg.TwilioFromNumber,
		logger:     logger.With("component", "TwilioSMSSender"),
	}
}

// Send posts item's payload as the SMS body to item.Recipient (a phone
// number in E.164 form).
func (s *TwilioSMSSender) Send(ctx context.Context, item db.Outbox) (Outcome, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(item.Recipient)
	params.SetFrom(s.fromNumber)
	params.SetBody(item.Payload.String)

	_, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send SMS via Twilio", "recipient", item.Recipient, "error", err)
		return Transient, err
	}

	s.logger.InfoContext(ctx, "SMS sent via Twilio", "recipient", item.Recipient, "message_type", item.MessageType)
	return Delivered, nil
}

var _ authiface.OTPSender = (*TwilioSMSSender)(nil)

// SendOTP satisfies authiface.OTPSender in production: the external auth
// collaborator calls this directly rather than enqueueing onto the outbox
// table, since an OTP must be delivered (or fail) synchronously.
func (s *TwilioSMSSender) SendOTP(ctx context.Context, phone, code string, validity time.Duration) error {
	item := db.Outbox{
		Channel:     "sms",
		Recipient:   phone,
		MessageType: "OTP_VERIFICATION",
		Payload: sql.NullString{
			String: fmt.Sprintf("Your verification code is %s (valid %s)", code, validity),
			Valid:  true,
		},
	}
	_, err := s.Send(ctx, item)
	return err
}

// WebPushSender sends outbox items over the channel=push lane to every
// subscription registered for item.UserID.
type WebPushSender struct {
	querier db.Querier
	cfg     *config.Config
	logger  *slog.Logger
}

// NewWebPushSender creates a new WebPushSender.
func NewWebPushSender(querier db.Querier, cfg *config.Config, logger *slog.Logger) *WebPushSender {
	return &WebPushSender{
		querier: querier,
		cfg:     cfg,
		logger:  logger.With("component", "WebPushSender"),
	}
}

// Send delivers item's payload to every push subscription on file for
// item.UserID. A user with zero subscriptions counts as Permanent: there is
// nowhere to deliver to and retrying will never change that. A 404/410 from
// a single subscription prunes that subscription but does not itself fail
// the item; the item only reports Transient/Permanent based on the
// subscriptions that remain undelivered.
func (s *WebPushSender) Send(ctx context.Context, item db.Outbox) (Outcome, error) {
	if !item.UserID.Valid {
		return Permanent, fmt.Errorf("push item %d has no user_id to resolve subscriptions for", item.OutboxID)
	}

	subs, err := s.querier.GetSubscriptionsByUser(ctx, item.UserID.Int64)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load push subscriptions", "user_id", item.UserID.Int64, "error", err)
		return Transient, err
	}
	if len(subs) == 0 {
		return Permanent, fmt.Errorf("no push subscriptions registered for user %d", item.UserID.Int64)
	}

	ttl := s.cfg.PushTTLSeconds
	if ttl == 0 {
		ttl = 604800
	}

	var delivered, transientFailures int
	for _, sub := range subs {
		subscription := &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys:     webpush.Keys{P256dh: sub.P256dhKey, Auth: sub.AuthKey},
		}
		resp, sendErr := webpush.SendNotification([]byte(item.Payload.String), subscription, &webpush.Options{
			VAPIDPublicKey:  s.cfg.VAPIDPublic,
			VAPIDPrivateKey: s.cfg.VAPIDPrivate,
			TTL:             ttl,
			Subscriber:      s.cfg.VAPIDSubject,
			Urgency:         "high",
		})
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}

		if sendErr == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			delivered++
			continue
		}

		if resp != nil && (resp.StatusCode == 404 || resp.StatusCode == 410) {
			s.logger.InfoContext(ctx, "pruning expired push subscription", "user_id", item.UserID.Int64, "endpoint", sub.Endpoint)
			if delErr := s.querier.DeleteSubscription(ctx, sub.Endpoint); delErr != nil {
				s.logger.ErrorContext(ctx, "failed to prune expired push subscription", "endpoint", sub.Endpoint, "error", delErr)
			}
			continue
		}

		s.logger.ErrorContext(ctx, "failed to send push notification", "user_id", item.UserID.Int64, "endpoint", sub.Endpoint, "error", sendErr)
		transientFailures++
	}

	if delivered > 0 {
		return Delivered, nil
	}
	if transientFailures > 0 {
		return Transient, fmt.Errorf("push delivery failed on all %d subscriptions for user %d", transientFailures, item.UserID.Int64)
	}
	return Permanent, fmt.Errorf("all push subscriptions for user %d were expired and pruned", item.UserID.Int64)
}
