package service_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"warden-go/internal/config"
	db "warden-go/internal/db/sqlc_generated"
	"warden-go/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubBroadcastQuerier embeds db.Querier so tests only implement the methods
// BroadcastService actually calls.
type stubBroadcastQuerier struct {
	db.Querier
	mock.Mock
}

func (m *stubBroadcastQuerier) ListPendingBroadcasts(ctx context.Context) ([]db.Broadcast, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.Broadcast), args.Error(1)
}

func (m *stubBroadcastQuerier) UpdateBroadcastStatus(ctx context.Context, arg db.UpdateBroadcastStatusParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *stubBroadcastQuerier) ListUsers(ctx context.Context) ([]db.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.User), args.Error(1)
}

func (m *stubBroadcastQuerier) GetRecentOutboxItemByDedupTag(ctx context.Context, dedupTag string) (db.Outbox, error) {
	args := m.Called(ctx, dedupTag)
	return args.Get(0).(db.Outbox), args.Error(1)
}

func (m *stubBroadcastQuerier) CreateOutboxItem(ctx context.Context, arg db.CreateOutboxItemParams) (db.Outbox, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Outbox), args.Error(1)
}

func newBroadcastTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProcessPendingBroadcasts(t *testing.T) {
	t.Run("queues push and sms for every recipient", func(t *testing.T) {
		querier := new(stubBroadcastQuerier)
		cfg := &config.Config{}
		svc := service.NewBroadcastService(querier, newBroadcastTestLogger(), cfg)

		broadcast := db.Broadcast{BroadcastID: 1, Audience: "all", Message: "storm warning", PushEnabled: true}
		querier.On("ListPendingBroadcasts", mock.Anything).Return([]db.Broadcast{broadcast}, nil)
		querier.On("UpdateBroadcastStatus", mock.Anything, mock.MatchedBy(func(arg db.UpdateBroadcastStatusParams) bool {
			return arg.BroadcastID == 1 && arg.Status == "sending"
		})).Return(nil)
		querier.On("ListUsers", mock.Anything).Return([]db.User{
			{UserID: 1, Phone: "+27821111111", Role: "owl"},
		}, nil)
		querier.On("GetRecentOutboxItemByDedupTag", mock.Anything, mock.Anything).Return(db.Outbox{}, sql.ErrNoRows)
		querier.On("CreateOutboxItem", mock.Anything, mock.MatchedBy(func(arg db.CreateOutboxItemParams) bool {
			return arg.Channel == "push" || arg.Channel == "sms"
		})).Return(db.Outbox{}, nil)
		querier.On("UpdateBroadcastStatus", mock.Anything, mock.MatchedBy(func(arg db.UpdateBroadcastStatusParams) bool {
			return arg.BroadcastID == 1 && arg.Status == "sent"
		})).Return(nil)

		processed, err := svc.ProcessPendingBroadcasts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, processed)
		querier.AssertNumberOfCalls(t, "CreateOutboxItem", 2)
	})

	t.Run("skips a recipient already queued via dedup tag", func(t *testing.T) {
		querier := new(stubBroadcastQuerier)
		cfg := &config.Config{}
		svc := service.NewBroadcastService(querier, newBroadcastTestLogger(), cfg)

		broadcast := db.Broadcast{BroadcastID: 2, Audience: "all", Message: "all clear", PushEnabled: false}
		querier.On("ListPendingBroadcasts", mock.Anything).Return([]db.Broadcast{broadcast}, nil)
		querier.On("UpdateBroadcastStatus", mock.Anything, mock.Anything).Return(nil)
		querier.On("ListUsers", mock.Anything).Return([]db.User{
			{UserID: 1, Phone: "+27821111111", Role: "owl"},
		}, nil)
		querier.On("GetRecentOutboxItemByDedupTag", mock.Anything, mock.Anything).
			Return(db.Outbox{OutboxID: 9, DedupTag: sql.NullString{String: "broadcast:2:sms:1", Valid: true}}, nil)

		processed, err := svc.ProcessPendingBroadcasts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, processed)
		querier.AssertNotCalled(t, "CreateOutboxItem", mock.Anything, mock.Anything)
	})

	t.Run("marks a broadcast failed when its audience is unknown", func(t *testing.T) {
		querier := new(stubBroadcastQuerier)
		cfg := &config.Config{}
		svc := service.NewBroadcastService(querier, newBroadcastTestLogger(), cfg)

		broadcast := db.Broadcast{BroadcastID: 3, Audience: "everyone-on-earth", Message: "oops"}
		querier.On("ListPendingBroadcasts", mock.Anything).Return([]db.Broadcast{broadcast}, nil)
		querier.On("UpdateBroadcastStatus", mock.Anything, mock.MatchedBy(func(arg db.UpdateBroadcastStatusParams) bool {
			return arg.BroadcastID == 3 && arg.Status == "sending"
		})).Return(nil)
		querier.On("UpdateBroadcastStatus", mock.Anything, mock.MatchedBy(func(arg db.UpdateBroadcastStatusParams) bool {
			return arg.BroadcastID == 3 && arg.Status == "failed"
		})).Return(nil)

		processed, err := svc.ProcessPendingBroadcasts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, processed)
	})

	t.Run("no pending broadcasts is a no-op", func(t *testing.T) {
		querier := new(stubBroadcastQuerier)
		cfg := &config.Config{}
		svc := service.NewBroadcastService(querier, newBroadcastTestLogger(), cfg)

		querier.On("ListPendingBroadcasts", mock.Anything).Return([]db.Broadcast{}, nil)

		processed, err := svc.ProcessPendingBroadcasts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, processed)
		querier.AssertNotCalled(t, "UpdateBroadcastStatus", mock.Anything, mock.Anything)
	})
}
