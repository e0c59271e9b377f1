package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	db "warden-go/internal/db/sqlc_generated"
	"warden-go/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubSchedulerQuerier embeds db.Querier so tests only implement the methods
// Scheduler actually calls.
type stubSchedulerQuerier struct {
	db.Querier
	mock.Mock
}

func (m *stubSchedulerQuerier) CreateOutboxItem(ctx context.Context, arg db.CreateOutboxItemParams) (db.Outbox, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Outbox), args.Error(1)
}

func TestEnqueueShiftReminders(t *testing.T) {
	querier := new(stubSchedulerQuerier)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scheduler := service.NewScheduler(querier, logger)

	shiftStart := time.Date(2026, 8, 1, 18, 0, 0, 0, time.UTC)
	booking := db.Booking{BookingID: 7, UserID: 3, ShiftStart: shiftStart}

	querier.On("CreateOutboxItem", mock.Anything, mock.MatchedBy(func(arg db.CreateOutboxItemParams) bool {
		return arg.DedupTag.String == "booking:7:reminder:24h" && arg.SendAt.Equal(shiftStart.Add(-24*time.Hour))
	})).Return(db.Outbox{OutboxID: 1}, nil)
	querier.On("CreateOutboxItem", mock.Anything, mock.MatchedBy(func(arg db.CreateOutboxItemParams) bool {
		return arg.DedupTag.String == "booking:7:reminder:1h" && arg.SendAt.Equal(shiftStart.Add(-1*time.Hour))
	})).Return(db.Outbox{OutboxID: 2}, nil)

	err := scheduler.EnqueueShiftReminders(context.Background(), booking)
	require.NoError(t, err)
	querier.AssertNumberOfCalls(t, "CreateOutboxItem", 2)
}

func TestEnqueueShiftReminders_FailsWhenOutboxInsertErrors(t *testing.T) {
	querier := new(stubSchedulerQuerier)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scheduler := service.NewScheduler(querier, logger)

	booking := db.Booking{BookingID: 8, UserID: 4, ShiftStart: time.Now().Add(48 * time.Hour)}
	querier.On("CreateOutboxItem", mock.Anything, mock.Anything).Return(db.Outbox{}, assert.AnError)

	err := scheduler.EnqueueShiftReminders(context.Background(), booking)
	assert.Error(t, err)
}
