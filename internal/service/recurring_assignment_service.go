package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"warden-go/internal/config"
	db "warden-go/internal/db/sqlc_generated"
)

var (
	ErrRecurringAssignmentNotFound      = errors.New("recurring assignment not found")
	ErrRecurringAssignmentInternalError = errors.New("internal error in recurring assignment service")
)

// RecurringAssignmentService manages standing weekly shift assignments and
// materializes them into concrete bookings as their slots come into the
// recurrence horizon.
type RecurringAssignmentService struct {
	querier db.Querier
	logger  *slog.Logger
	config  *config.Config
}

// NewRecurringAssignmentService creates a new RecurringAssignmentService.
func NewRecurringAssignmentService(querier db.Querier, logger *slog.Logger, cfg *config.Config) *RecurringAssignmentService {
	return &RecurringAssignmentService{
		querier: querier,
		logger:  logger.With("service", "RecurringAssignmentService"),
		config:  cfg,
	}
}

// CreateRecurringAssignment creates a new recurring assignment.
func (s *RecurringAssignmentService) CreateRecurringAssignment(ctx context.Context, params db.CreateRecurringAssignmentParams) (db.RecurringAssignment, error) {
	if _, err := s.querier.GetUserByID(ctx, params.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.RecurringAssignment{}, ErrRecurringAssignmentNotFound
		}
		s.logger.ErrorContext(ctx, "failed to validate user for recurring assignment", "user_id", params.UserID, "error", err)
		return db.RecurringAssignment{}, ErrRecurringAssignmentInternalError
	}

	if _, err := s.querier.GetScheduleByID(ctx, params.ScheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.RecurringAssignment{}, ErrRecurringAssignmentNotFound
		}
		s.logger.ErrorContext(ctx, "failed to validate schedule for recurring assignment", "schedule_id", params.ScheduleID, "error", err)
		return db.RecurringAssignment{}, ErrRecurringAssignmentInternalError
	}

	assignment, err := s.querier.CreateRecurringAssignment(ctx, params)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create recurring assignment", "error", err)
		return db.RecurringAssignment{}, ErrRecurringAssignmentInternalError
	}

	s.logger.InfoContext(ctx, "recurring assignment created", "assignment_id", assignment.RecurringAssignmentID, "user_id", assignment.UserID)
	return assignment, nil
}

// GetRecurringAssignmentByID retrieves a recurring assignment by its ID.
func (s *RecurringAssignmentService) GetRecurringAssignmentByID(ctx context.Context, assignmentID int64) (db.RecurringAssignment, error) {
	assignment, err := s.querier.GetRecurringAssignmentByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.RecurringAssignment{}, ErrRecurringAssignmentNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get recurring assignment", "assignment_id", assignmentID, "error", err)
		return db.RecurringAssignment{}, ErrRecurringAssignmentInternalError
	}
	return assignment, nil
}

// ListRecurringAssignments retrieves every active recurring assignment.
func (s *RecurringAssignmentService) ListRecurringAssignments(ctx context.Context) ([]db.RecurringAssignment, error) {
	assignments, err := s.querier.ListActiveRecurringAssignments(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list recurring assignments", "error", err)
		return nil, ErrRecurringAssignmentInternalError
	}
	return assignments, nil
}

// ListRecurringAssignmentsByUserID retrieves a user's own recurring assignments.
func (s *RecurringAssignmentService) ListRecurringAssignmentsByUserID(ctx context.Context, userID int64) ([]db.RecurringAssignment, error) {
	assignments, err := s.querier.ListRecurringAssignmentsByUserID(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list recurring assignments by user", "user_id", userID, "error", err)
		return nil, ErrRecurringAssignmentInternalError
	}
	return assignments, nil
}

// UpdateRecurringAssignment updates an existing recurring assignment's
// pattern (day/time/buddy/description/active flag). The assigned user and
// schedule are immutable after creation — deleting and recreating the
// assignment is how those change.
func (s *RecurringAssignmentService) UpdateRecurringAssignment(ctx context.Context, params db.UpdateRecurringAssignmentParams) (db.RecurringAssignment, error) {
	assignment, err := s.querier.UpdateRecurringAssignment(ctx, params)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.RecurringAssignment{}, ErrRecurringAssignmentNotFound
		}
		s.logger.ErrorContext(ctx, "failed to update recurring assignment", "assignment_id", params.RecurringAssignmentID, "error", err)
		return db.RecurringAssignment{}, ErrRecurringAssignmentInternalError
	}

	s.logger.InfoContext(ctx, "recurring assignment updated", "assignment_id", assignment.RecurringAssignmentID)
	return assignment, nil
}

// DeleteRecurringAssignment deactivates a recurring assignment.
func (s *RecurringAssignmentService) DeleteRecurringAssignment(ctx context.Context, assignmentID int64) error {
	if err := s.querier.DeleteRecurringAssignment(ctx, assignmentID); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete recurring assignment", "assignment_id", assignmentID, "error", err)
		return ErrRecurringAssignmentInternalError
	}
	s.logger.InfoContext(ctx, "recurring assignment deleted", "assignment_id", assignmentID)
	return nil
}

// MaterializeUpcomingBookings walks every open shift slot in [fromTime,
// toTime) and creates a booking for the first recurring assignment that
// matches its day-of-week, schedule, and time-of-day. Called by the job
// runner (C10) on the recurring-materialization cadence.
func (s *RecurringAssignmentService) MaterializeUpcomingBookings(ctx context.Context, scheduleService *ScheduleService, fromTime time.Time, toTime time.Time) error {
	assignments, err := s.ListRecurringAssignments(ctx)
	if err != nil {
		return err
	}
	if len(assignments) == 0 {
		s.logger.InfoContext(ctx, "no recurring assignments to materialize")
		return nil
	}

	limit := 1000
	slots, err := scheduleService.AdminGetAllShiftSlots(ctx, &fromTime, &toTime, &limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get shift slots for materialization", "error", err)
		return err
	}

	materialized, skipped := 0, 0
	for _, slot := range slots {
		if slot.IsBooked {
			continue
		}

		dayOfWeek := int64(slot.StartTime.Weekday())
		timeSlot := fmt.Sprintf("%02d:%02d-%02d:%02d", slot.StartTime.Hour(), slot.StartTime.Minute(), slot.EndTime.Hour(), slot.EndTime.Minute())

		for _, assignment := range assignments {
			if assignment.DayOfWeek != dayOfWeek || assignment.ScheduleID != slot.ScheduleID || assignment.TimeSlot != timeSlot {
				continue
			}

			_, err := s.querier.GetBookingByScheduleAndStartTime(ctx, db.GetBookingByScheduleAndStartTimeParams{
				ScheduleID: slot.ScheduleID,
				ShiftStart: slot.StartTime.UTC(),
			})
			if err == nil {
				skipped++
				break
			}
			if !errors.Is(err, sql.ErrNoRows) {
				s.logger.ErrorContext(ctx, "error checking existing booking during materialization", "error", err)
				break
			}

			bookingParams := db.CreateBookingParams{
				UserID:      assignment.UserID,
				ScheduleID:  assignment.ScheduleID,
				ShiftStart:  slot.StartTime.UTC(),
				ShiftEnd:    slot.EndTime.UTC(),
				IsRecurring: true,
			}
			if assignment.BuddyName.Valid && assignment.BuddyName.String != "" {
				bookingParams.BuddyName = assignment.BuddyName
			}

			if _, err := s.querier.CreateBooking(ctx, bookingParams); err != nil {
				s.logger.ErrorContext(ctx, "failed to create booking from recurring assignment",
					"assignment_id", assignment.RecurringAssignmentID, "schedule_id", assignment.ScheduleID, "shift_start", slot.StartTime, "error", err)
				break
			}

			materialized++
			s.logger.InfoContext(ctx, "created booking from recurring assignment",
				"assignment_id", assignment.RecurringAssignmentID, "user_id", assignment.UserID, "shift_start", slot.StartTime)
			break
		}
	}

	s.logger.InfoContext(ctx, "completed materializing recurring bookings", "materialized", materialized, "skipped", skipped, "total_slots", len(slots))
	return nil
}
