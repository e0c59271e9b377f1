package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	db "warden-go/internal/db/sqlc_generated"
)

// GPSLocation carries the optional GPS fix attached to an incident report.
type GPSLocation struct {
	Latitude  *float64
	Longitude *float64
	Accuracy  *float64
	Timestamp *time.Time
}

var (
	ErrSeverityOutOfRange = errors.New("severity must be between 0 and 2")
	ErrReportBookingAuth  = errors.New("user not authorized to report for this booking or booking does not exist")
)

// ReportService handles incident-report submission. Booking_id is null for
// an off-shift report; a report survives the deletion of its booking since
// booking_id is nullable rather than a hard foreign key dependency.
type ReportService struct {
	querier db.Querier
	logger  *slog.Logger
}

func NewReportService(querier db.Querier, logger *slog.Logger) *ReportService {
	return &ReportService{
		querier: querier,
		logger:  logger.With("service", "ReportService"),
	}
}

func gpsParams(loc *GPSLocation) (lat, lon, acc sql.NullFloat64, ts sql.NullTime) {
	if loc == nil {
		return
	}
	if loc.Latitude != nil {
		lat = sql.NullFloat64{Float64: *loc.Latitude, Valid: true}
	}
	if loc.Longitude != nil {
		lon = sql.NullFloat64{Float64: *loc.Longitude, Valid: true}
	}
	if loc.Accuracy != nil {
		acc = sql.NullFloat64{Float64: *loc.Accuracy, Valid: true}
	}
	if loc.Timestamp != nil {
		ts = sql.NullTime{Time: *loc.Timestamp, Valid: true}
	}
	return
}

// CreateReport submits an incident report tied to one of the caller's own
// bookings.
func (s *ReportService) CreateReport(ctx context.Context, userID, bookingID int64, severity int32, message string, gps *GPSLocation) (db.Report, error) {
	booking, err := s.querier.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "booking not found for report creation", "booking_id", bookingID)
			return db.Report{}, ErrReportBookingAuth
		}
		s.logger.ErrorContext(ctx, "failed to get booking for report creation", "booking_id", bookingID, "error", err)
		return db.Report{}, ErrInternalServer
	}
	if booking.UserID != userID {
		s.logger.WarnContext(ctx, "user forbidden to report on booking", "booking_id", bookingID, "owner_id", booking.UserID, "user_id", userID)
		return db.Report{}, ErrReportBookingAuth
	}
	if severity < 0 || severity > 2 {
		return db.Report{}, ErrSeverityOutOfRange
	}

	lat, lon, acc, ts := gpsParams(gps)
	report, err := s.querier.CreateReport(ctx, db.CreateReportParams{
		BookingID:  sql.NullInt64{Int64: bookingID, Valid: true},
		UserID:     userID,
		Severity:   int64(severity),
		Message:    message,
		Latitude:   lat,
		Longitude:  lon,
		Accuracy:   acc,
		LocationTs: ts,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create report", "booking_id", bookingID, "error", err)
		return db.Report{}, ErrInternalServer
	}

	s.logger.InfoContext(ctx, "report created", "report_id", report.ReportID, "booking_id", bookingID, "severity", severity)
	return report, nil
}

// CreateOffShiftReport submits a report not tied to any booking.
func (s *ReportService) CreateOffShiftReport(ctx context.Context, userID int64, severity int32, message string, gps *GPSLocation) (db.Report, error) {
	if severity < 0 || severity > 2 {
		return db.Report{}, ErrSeverityOutOfRange
	}

	lat, lon, acc, ts := gpsParams(gps)
	report, err := s.querier.CreateReport(ctx, db.CreateReportParams{
		UserID:     userID,
		Severity:   int64(severity),
		Message:    message,
		Latitude:   lat,
		Longitude:  lon,
		Accuracy:   acc,
		LocationTs: ts,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create off-shift report", "user_id", userID, "error", err)
		return db.Report{}, ErrInternalServer
	}

	s.logger.InfoContext(ctx, "off-shift report created", "report_id", report.ReportID, "user_id", userID)
	return report, nil
}

// ListReportsByUser retrieves every report a user has filed.
func (s *ReportService) ListReportsByUser(ctx context.Context, userID int64) ([]db.Report, error) {
	reports, err := s.querier.ListReportsByUserID(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list reports by user", "user_id", userID, "error", err)
		return nil, ErrInternalServer
	}
	return reports, nil
}

// BookingDetails is the booking context attached to a report for display.
type BookingDetails struct {
	ScheduleName string
	ShiftStart   time.Time
	ShiftEnd     time.Time
}

// GetBookingDetails resolves the schedule/shift context for a reported
// booking, returning nil if the booking was since deleted.
func (s *ReportService) GetBookingDetails(ctx context.Context, bookingID int64) (*BookingDetails, error) {
	booking, err := s.querier.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.ErrorContext(ctx, "failed to get booking details", "booking_id", bookingID, "error", err)
		return nil, ErrInternalServer
	}

	schedule, err := s.querier.GetScheduleByID(ctx, booking.ScheduleID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get schedule details", "schedule_id", booking.ScheduleID, "error", err)
		return nil, ErrInternalServer
	}

	return &BookingDetails{
		ScheduleName: schedule.Name,
		ShiftStart:   booking.ShiftStart,
		ShiftEnd:     booking.ShiftEnd,
	}, nil
}
