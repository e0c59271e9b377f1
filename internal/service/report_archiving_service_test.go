package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	db "warden-go/internal/db/sqlc_generated"
	"warden-go/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubArchivingQuerier embeds db.Querier so tests only implement the methods
// ReportArchivingService actually calls.
type stubArchivingQuerier struct {
	db.Querier
	mock.Mock
}

func (m *stubArchivingQuerier) GetReportsForAutoArchiving(ctx context.Context, arg db.GetReportsForAutoArchivingParams) ([]db.Report, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.Report), args.Error(1)
}

func (m *stubArchivingQuerier) ArchiveReport(ctx context.Context, arg db.ArchiveReportParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *stubArchivingQuerier) GetArchivingStats(ctx context.Context) (db.ArchivingStatsRow, error) {
	args := m.Called(ctx)
	return args.Get(0).(db.ArchivingStatsRow), args.Error(1)
}

func newArchivingTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestArchiveOldReports(t *testing.T) {
	t.Run("archives eligible normal and suspicion reports, skips incidents", func(t *testing.T) {
		querier := new(stubArchivingQuerier)
		svc := service.NewReportArchivingService(querier, newArchivingTestLogger())

		querier.On("GetReportsForAutoArchiving", mock.Anything, mock.MatchedBy(func(arg db.GetReportsForAutoArchivingParams) bool {
			return arg.Severity == 0
		})).Return([]db.Report{{ReportID: 1}, {ReportID: 2}}, nil)
		querier.On("GetReportsForAutoArchiving", mock.Anything, mock.MatchedBy(func(arg db.GetReportsForAutoArchivingParams) bool {
			return arg.Severity == 1
		})).Return([]db.Report{{ReportID: 3}}, nil)
		querier.On("ArchiveReport", mock.Anything, mock.Anything).Return(nil)

		archived, err := svc.ArchiveOldReports(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, archived)
		querier.AssertNumberOfCalls(t, "ArchiveReport", 3)
		querier.AssertNotCalled(t, "GetReportsForAutoArchiving", mock.Anything, mock.MatchedBy(func(arg db.GetReportsForAutoArchivingParams) bool {
			return arg.Severity == 2
		}))
	})

	t.Run("nothing eligible archives nothing", func(t *testing.T) {
		querier := new(stubArchivingQuerier)
		svc := service.NewReportArchivingService(querier, newArchivingTestLogger())

		querier.On("GetReportsForAutoArchiving", mock.Anything, mock.Anything).Return([]db.Report{}, nil)

		archived, err := svc.ArchiveOldReports(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, archived)
	})

	t.Run("a single failed archive doesn't stop the rest", func(t *testing.T) {
		querier := new(stubArchivingQuerier)
		svc := service.NewReportArchivingService(querier, newArchivingTestLogger())

		querier.On("GetReportsForAutoArchiving", mock.Anything, mock.MatchedBy(func(arg db.GetReportsForAutoArchivingParams) bool {
			return arg.Severity == 0
		})).Return([]db.Report{{ReportID: 1}, {ReportID: 2}}, nil)
		querier.On("GetReportsForAutoArchiving", mock.Anything, mock.MatchedBy(func(arg db.GetReportsForAutoArchivingParams) bool {
			return arg.Severity == 1
		})).Return([]db.Report{}, nil)
		querier.On("ArchiveReport", mock.Anything, mock.MatchedBy(func(arg db.ArchiveReportParams) bool {
			return arg.ReportID == 1
		})).Return(assert.AnError)
		querier.On("ArchiveReport", mock.Anything, mock.MatchedBy(func(arg db.ArchiveReportParams) bool {
			return arg.ReportID == 2
		})).Return(nil)

		archived, err := svc.ArchiveOldReports(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, archived)
	})
}

func TestGetArchivingStats(t *testing.T) {
	querier := new(stubArchivingQuerier)
	svc := service.NewReportArchivingService(querier, newArchivingTestLogger())

	querier.On("GetArchivingStats", mock.Anything).Return(db.ArchivingStatsRow{ArchivedCount: 5, ActiveCount: 42}, nil)

	stats, err := svc.GetArchivingStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.ArchivedCount)
	assert.Equal(t, int64(42), stats.ActiveCount)
}
