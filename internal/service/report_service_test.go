package service_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	db "warden-go/internal/db/sqlc_generated"
	"warden-go/internal/service"
	"warden-go/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubReportQuerier embeds db.Querier so tests only implement the methods
// ReportService actually calls.
type stubReportQuerier struct {
	db.Querier
	mock.Mock
}

func (m *stubReportQuerier) GetBookingByID(ctx context.Context, bookingID int64) (db.Booking, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(db.Booking), args.Error(1)
}

func (m *stubReportQuerier) GetScheduleByID(ctx context.Context, scheduleID int64) (db.Schedule, error) {
	args := m.Called(ctx, scheduleID)
	return args.Get(0).(db.Schedule), args.Error(1)
}

func (m *stubReportQuerier) CreateReport(ctx context.Context, arg db.CreateReportParams) (db.Report, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Report), args.Error(1)
}

func (m *stubReportQuerier) ListReportsByUserID(ctx context.Context, userID int64) ([]db.Report, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]db.Report), args.Error(1)
}

func newReportTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateReport(t *testing.T) {
	t.Run("successful report on own booking", func(t *testing.T) {
		querier := new(stubReportQuerier)
		svc := service.NewReportService(querier, newReportTestLogger())

		booking := db.Booking{BookingID: 10, UserID: 1, ScheduleID: 5}
		querier.On("GetBookingByID", mock.Anything, int64(10)).Return(booking, nil)

		expectedParams := testutils.NewCreateReportParams(10, 1, 2, "suspicious vehicle")
		querier.On("CreateReport", mock.Anything, expectedParams).
			Return(db.Report{ReportID: 99, BookingID: sql.NullInt64{Int64: 10, Valid: true}, UserID: 1, Severity: 2}, nil)

		report, err := svc.CreateReport(context.Background(), 1, 10, 2, "suspicious vehicle", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(99), report.ReportID)
		querier.AssertExpectations(t)
	})

	t.Run("forbidden for another user's booking", func(t *testing.T) {
		querier := new(stubReportQuerier)
		svc := service.NewReportService(querier, newReportTestLogger())

		booking := db.Booking{BookingID: 10, UserID: 2, ScheduleID: 5}
		querier.On("GetBookingByID", mock.Anything, int64(10)).Return(booking, nil)

		_, err := svc.CreateReport(context.Background(), 1, 10, 1, "message", nil)
		assert.ErrorIs(t, err, service.ErrReportBookingAuth)
	})

	t.Run("booking not found", func(t *testing.T) {
		querier := new(stubReportQuerier)
		svc := service.NewReportService(querier, newReportTestLogger())

		querier.On("GetBookingByID", mock.Anything, int64(404)).Return(db.Booking{}, sql.ErrNoRows)

		_, err := svc.CreateReport(context.Background(), 1, 404, 1, "message", nil)
		assert.ErrorIs(t, err, service.ErrReportBookingAuth)
	})

	t.Run("severity out of range", func(t *testing.T) {
		querier := new(stubReportQuerier)
		svc := service.NewReportService(querier, newReportTestLogger())

		booking := db.Booking{BookingID: 10, UserID: 1, ScheduleID: 5}
		querier.On("GetBookingByID", mock.Anything, int64(10)).Return(booking, nil)

		_, err := svc.CreateReport(context.Background(), 1, 10, 3, "message", nil)
		assert.ErrorIs(t, err, service.ErrSeverityOutOfRange)
	})

	t.Run("GPS location is forwarded", func(t *testing.T) {
		querier := new(stubReportQuerier)
		svc := service.NewReportService(querier, newReportTestLogger())

		booking := db.Booking{BookingID: 10, UserID: 1, ScheduleID: 5}
		querier.On("GetBookingByID", mock.Anything, int64(10)).Return(booking, nil)

		lat, lon, acc := -33.9, 18.4, 5.0
		ts := time.Now()
		gps := &service.GPSLocation{Latitude: &lat, Longitude: &lon, Accuracy: &acc, Timestamp: &ts}

		querier.On("CreateReport", mock.Anything, mock.MatchedBy(func(arg db.CreateReportParams) bool {
			return arg.Latitude.Valid && arg.Latitude.Float64 == lat &&
				arg.Longitude.Valid && arg.Longitude.Float64 == lon &&
				arg.Accuracy.Valid && arg.Accuracy.Float64 == acc &&
				arg.LocationTs.Valid
		})).Return(db.Report{ReportID: 1}, nil)

		_, err := svc.CreateReport(context.Background(), 1, 10, 0, "message", gps)
		require.NoError(t, err)
		querier.AssertExpectations(t)
	})
}

func TestCreateOffShiftReport(t *testing.T) {
	t.Run("successful off-shift report", func(t *testing.T) {
		querier := new(stubReportQuerier)
		svc := service.NewReportService(querier, newReportTestLogger())

		querier.On("CreateReport", mock.Anything, mock.MatchedBy(func(arg db.CreateReportParams) bool {
			return !arg.BookingID.Valid && arg.UserID == 1 && arg.Severity == 1
		})).Return(db.Report{ReportID: 2, UserID: 1, Severity: 1}, nil)

		report, err := svc.CreateOffShiftReport(context.Background(), 1, 1, "patrol note", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), report.ReportID)
	})

	t.Run("severity out of range", func(t *testing.T) {
		querier := new(stubReportQuerier)
		svc := service.NewReportService(querier, newReportTestLogger())

		_, err := svc.CreateOffShiftReport(context.Background(), 1, -1, "patrol note", nil)
		assert.ErrorIs(t, err, service.ErrSeverityOutOfRange)
	})
}

func TestListReportsByUser(t *testing.T) {
	querier := new(stubReportQuerier)
	svc := service.NewReportService(querier, newReportTestLogger())

	reports := []db.Report{{ReportID: 1, UserID: 1}, {ReportID: 2, UserID: 1}}
	querier.On("ListReportsByUserID", mock.Anything, int64(1)).Return(reports, nil)

	result, err := svc.ListReportsByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestGetBookingDetails(t *testing.T) {
	t.Run("returns schedule and shift window", func(t *testing.T) {
		querier := new(stubReportQuerier)
		svc := service.NewReportService(querier, newReportTestLogger())

		start := time.Date(2026, 8, 1, 18, 0, 0, 0, time.UTC)
		end := start.Add(2 * time.Hour)
		booking := db.Booking{BookingID: 10, ScheduleID: 5, ShiftStart: start, ShiftEnd: end}
		querier.On("GetBookingByID", mock.Anything, int64(10)).Return(booking, nil)
		querier.On("GetScheduleByID", mock.Anything, int64(5)).Return(db.Schedule{ScheduleID: 5, Name: "North Gate Patrol"}, nil)

		details, err := svc.GetBookingDetails(context.Background(), 10)
		require.NoError(t, err)
		require.NotNil(t, details)
		assert.Equal(t, "North Gate Patrol", details.ScheduleName)
		assert.Equal(t, start, details.ShiftStart)
	})

	t.Run("returns nil when booking was deleted", func(t *testing.T) {
		querier := new(stubReportQuerier)
		svc := service.NewReportService(querier, newReportTestLogger())

		querier.On("GetBookingByID", mock.Anything, int64(404)).Return(db.Booking{}, sql.ErrNoRows)

		details, err := svc.GetBookingDetails(context.Background(), 404)
		require.NoError(t, err)
		assert.Nil(t, details)
	})
}
