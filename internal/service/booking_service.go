package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"warden-go/internal/config"
	db "warden-go/internal/db/sqlc_generated"
	"warden-go/internal/cronexpand"
)

var (
	ErrScheduleNotFound         = errors.New("schedule not found")
	ErrShiftTimeInvalid         = errors.New("requested shift time is invalid for the schedule or outside its active window")
	ErrBookingConflict          = errors.New("shift slot is already booked")
	ErrAlreadyBookedByUser      = errors.New("user has already booked this shift slot")
	ErrBookingLeadTimeTooShort  = errors.New("shift start time does not satisfy the configured minimum booking lead time")
	ErrBookingNotFound          = errors.New("booking not found")
	ErrForbiddenUpdate          = errors.New("user not authorized to update this booking")
	ErrCheckInTooEarly          = errors.New("check-in is too early - can only check in up to 30 minutes before shift starts")
	ErrBookingCannotBeCancelled = errors.New("booking cannot be cancelled - shift has already started or is too close to start time")
	ErrBuddyPhoneInvalid        = errors.New("buddy phone number is not a valid E.164 number")
)

// BookingService arbitrates who holds a shift slot: it validates a requested
// start time against its schedule's cron expression and active window,
// resolves a buddy phone to a registered user where possible, and relies on
// the bookings table's (schedule_id, shift_start) unique index as the final
// word on a race between two concurrent booking attempts.
type BookingService struct {
	querier   db.Querier
	cfg       *config.Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewBookingService creates a new BookingService.
func NewBookingService(querier db.Querier, cfg *config.Config, logger *slog.Logger, scheduler *Scheduler) *BookingService {
	return &BookingService{
		querier:   querier,
		cfg:       cfg,
		logger:    logger.With("service", "BookingService"),
		scheduler: scheduler,
	}
}

// validateShiftTime checks that startTime falls within the schedule's active
// date window and the configured future booking horizon, satisfies the
// configured minimum lead time, and lands exactly on one of the schedule's
// cron occurrences.
func (s *BookingService) validateShiftTime(ctx context.Context, schedule db.Schedule, startTime time.Time) error {
	if (schedule.StartDate.Valid && startTime.Before(schedule.StartDate.Time)) ||
		(schedule.EndDate.Valid && startTime.After(schedule.EndDate.Time)) {
		s.logger.WarnContext(ctx, "shift time outside schedule active dates",
			"schedule_id", schedule.ScheduleID, "start_time", startTime,
			"schedule_start_date", schedule.StartDate, "schedule_end_date", schedule.EndDate)
		return ErrShiftTimeInvalid
	}

	now := time.Now().UTC()

	if horizonDays := s.cfg.BookingFutureHorizonDays; horizonDays > 0 {
		horizon := now.Add(time.Duration(horizonDays) * 24 * time.Hour)
		if startTime.After(horizon) {
			s.logger.WarnContext(ctx, "shift time beyond future booking horizon",
				"schedule_id", schedule.ScheduleID, "start_time", startTime,
				"horizon_days", horizonDays)
			return ErrShiftTimeInvalid
		}
	}

	if startTime.Before(now.Add(s.cfg.BookingMinLead)) || startTime.Equal(now.Add(s.cfg.BookingMinLead)) {
		s.logger.WarnContext(ctx, "shift time does not satisfy minimum booking lead time",
			"schedule_id", schedule.ScheduleID, "start_time", startTime,
			"min_lead", s.cfg.BookingMinLead)
		return ErrBookingLeadTimeTooShort
	}

	loc := time.UTC
	if schedule.Timezone.Valid && schedule.Timezone.String != "" {
		if loaded, err := time.LoadLocation(schedule.Timezone.String); err == nil {
			loc = loaded
		} else {
			s.logger.WarnContext(ctx, "failed to load schedule timezone, using UTC",
				"schedule_id", schedule.ScheduleID, "timezone", schedule.Timezone.String, "error", err)
		}
	}

	exact, err := cronexpand.IsExactOccurrence(schedule.CronExpr, startTime.In(loc))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to validate cron occurrence for schedule", "schedule_id", schedule.ScheduleID, "cron_expr", schedule.CronExpr, "error", err)
		return ErrInternalServer
	}
	if !exact {
		s.logger.WarnContext(ctx, "start_time does not match a cron occurrence",
			"schedule_id", schedule.ScheduleID, "start_time_utc", startTime, "cron_expr", schedule.CronExpr)
		return ErrShiftTimeInvalid
	}
	return nil
}

// resolveBuddy normalizes buddyPhone to E.164 and, if it belongs to a
// registered user, prefers that user's registered name and links
// buddy_user_id. An unrecognized phone still books with the bare buddyName.
func (s *BookingService) resolveBuddy(ctx context.Context, buddyPhone, buddyName sql.NullString) (sql.NullInt64, sql.NullString, error) {
	var buddyUserID sql.NullInt64
	actualBuddyName := buddyName

	if !buddyPhone.Valid || buddyPhone.String == "" {
		return buddyUserID, actualBuddyName, nil
	}

	num, err := phonenumbers.Parse(buddyPhone.String, "ZA")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return buddyUserID, actualBuddyName, ErrBuddyPhoneInvalid
	}
	e164 := phonenumbers.Format(num, phonenumbers.E164)

	buddyUser, err := s.querier.GetUserByPhone(ctx, e164)
	if err == nil {
		buddyUserID.Int64, buddyUserID.Valid = buddyUser.UserID, true
		if buddyUser.Name.Valid && buddyUser.Name.String != "" {
			actualBuddyName = sql.NullString{String: buddyUser.Name.String, Valid: true}
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "error looking up buddy by phone", "buddy_phone", e164, "error", err)
	}
	return buddyUserID, actualBuddyName, nil
}

// CreateBooking books scheduleID's slot at startTime for userID.
func (s *BookingService) CreateBooking(ctx context.Context, userID int64, scheduleID int64, startTime time.Time, buddyPhone, buddyName sql.NullString) (db.Booking, error) {
	schedule, err := s.querier.GetScheduleByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "schedule not found for booking attempt", "schedule_id", scheduleID)
			return db.Booking{}, ErrScheduleNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get schedule for booking", "schedule_id", scheduleID, "error", err)
		return db.Booking{}, ErrInternalServer
	}

	if err := s.validateShiftTime(ctx, schedule, startTime); err != nil {
		return db.Booking{}, err
	}

	utcStartTime := startTime.UTC()
	utcEndTime := utcStartTime.Add(time.Duration(schedule.DurationMinutes) * time.Minute)

	buddyUserID, actualBuddyName, err := s.resolveBuddy(ctx, buddyPhone, buddyName)
	if err != nil {
		return db.Booking{}, err
	}

	if existing, err := s.querier.GetBookingByScheduleAndStartTime(ctx, db.GetBookingByScheduleAndStartTimeParams{
		ScheduleID: scheduleID,
		ShiftStart: utcStartTime,
	}); err == nil {
		if existing.UserID == userID {
			s.logger.WarnContext(ctx, "user already booked this shift slot", "schedule_id", scheduleID, "start_time", utcStartTime, "user_id", userID)
			return db.Booking{}, ErrAlreadyBookedByUser
		}
		s.logger.WarnContext(ctx, "booking conflict on create", "schedule_id", scheduleID, "start_time", utcStartTime)
		return db.Booking{}, ErrBookingConflict
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "failed to check booking conflict", "schedule_id", scheduleID, "start_time", utcStartTime, "error", err)
		return db.Booking{}, ErrInternalServer
	}

	createdBooking, err := s.querier.CreateBooking(ctx, db.CreateBookingParams{
		UserID:      userID,
		ScheduleID:  scheduleID,
		ShiftStart:  utcStartTime,
		ShiftEnd:    utcEndTime,
		BuddyUserID: buddyUserID,
		BuddyName:   actualBuddyName,
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			s.logger.WarnContext(ctx, "booking conflict on create", "schedule_id", scheduleID, "start_time", utcStartTime)
			return db.Booking{}, ErrBookingConflict
		}
		s.logger.ErrorContext(ctx, "failed to create booking", "schedule_id", scheduleID, "start_time", utcStartTime, "error", err)
		return db.Booking{}, ErrInternalServer
	}
	s.logger.InfoContext(ctx, "booking created", "booking_id", createdBooking.BookingID, "user_id", userID)

	s.queueBookingNotification(ctx, createdBooking, "BOOKING_CONFIRMATION", fmt.Sprintf("booking:%d:confirmation", createdBooking.BookingID))
	s.queuePushConfirmation(ctx, createdBooking)

	if s.scheduler != nil {
		if err := s.scheduler.EnqueueShiftReminders(ctx, createdBooking); err != nil {
			s.logger.WarnContext(ctx, "failed to enqueue shift reminders", "booking_id", createdBooking.BookingID, "error", err)
		}
	}

	return createdBooking, nil
}

func (s *BookingService) queueBookingNotification(ctx context.Context, booking db.Booking, messageType, dedupTag string) {
	payload := fmt.Sprintf(`{"booking_id":%d,"user_id":%d,"shift_start":"%s"}`,
		booking.BookingID, booking.UserID, booking.ShiftStart.Format(time.RFC3339))
	_, err := s.querier.CreateOutboxItem(ctx, db.CreateOutboxItemParams{
		UserID:      sql.NullInt64{Int64: booking.UserID, Valid: true},
		Recipient:   fmt.Sprintf("%d", booking.UserID),
		Channel:     "sms",
		MessageType: messageType,
		Payload:     sql.NullString{String: payload, Valid: true},
		DedupTag:    sql.NullString{String: dedupTag, Valid: true},
		SendAt:      time.Now().UTC(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to queue outbox notification", "booking_id", booking.BookingID, "message_type", messageType, "error", err)
	}
}

// queuePushConfirmation enqueues a push notification for booking, one per
// registered subscription's owning user, but only if the user has any push
// subscriptions registered - a user with none gets the sms confirmation
// alone rather than a push item doomed to a permanent failure.
func (s *BookingService) queuePushConfirmation(ctx context.Context, booking db.Booking) {
	subs, err := s.querier.GetSubscriptionsByUser(ctx, booking.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to check push subscriptions for booking confirmation", "booking_id", booking.BookingID, "user_id", booking.UserID, "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"type":       "booking_confirmation",
		"title":      "Shift Confirmed",
		"body":       fmt.Sprintf("You're booked for a shift starting %s", booking.ShiftStart.Format(time.RFC3339)),
		"booking_id": booking.BookingID,
	})
	_, err = s.querier.CreateOutboxItem(ctx, db.CreateOutboxItemParams{
		UserID:      sql.NullInt64{Int64: booking.UserID, Valid: true},
		Recipient:   fmt.Sprintf("%d", booking.UserID),
		Channel:     "push",
		MessageType: "BOOKING_CONFIRMATION",
		Payload:     sql.NullString{String: string(payload), Valid: true},
		DedupTag:    sql.NullString{String: fmt.Sprintf("booking:%d:confirmation:push", booking.BookingID), Valid: true},
		SendAt:      time.Now().UTC(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to queue push outbox notification", "booking_id", booking.BookingID, "error", err)
	}
}

// isUniqueConstraintError reports whether err is the SQLite unique
// constraint violation on (schedule_id, shift_start).
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// MarkCheckIn records that the booked user arrived for their shift. Allowed
// from 30 minutes before shift_start onward.
func (s *BookingService) MarkCheckIn(ctx context.Context, bookingID int64, userIDFromAuth int64) (db.Booking, error) {
	booking, err := s.querier.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Booking{}, ErrBookingNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get booking for check-in", "booking_id", bookingID, "error", err)
		return db.Booking{}, ErrInternalServer
	}
	if booking.UserID != userIDFromAuth {
		return db.Booking{}, ErrForbiddenUpdate
	}

	now := time.Now().UTC()
	if now.Before(booking.ShiftStart.Add(-30 * time.Minute)) {
		return db.Booking{}, ErrCheckInTooEarly
	}

	updated, err := s.querier.UpdateBookingCheckIn(ctx, db.UpdateBookingCheckInParams{
		BookingID:   bookingID,
		CheckedInAt: sql.NullTime{Time: now, Valid: true},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update booking check-in", "booking_id", bookingID, "error", err)
		return db.Booking{}, ErrInternalServer
	}

	s.logger.InfoContext(ctx, "booking check-in marked", "booking_id", updated.BookingID, "checked_in_at", updated.CheckedInAt)
	return updated, nil
}

// MarkAttendance records whether the booked user actually showed up, set by
// an admin reconciling a shift after the fact (distinct from the booked
// user's own check-in).
func (s *BookingService) MarkAttendance(ctx context.Context, bookingID int64, attended bool) (db.Booking, error) {
	booking, err := s.querier.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Booking{}, ErrBookingNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get booking for attendance marking", "booking_id", bookingID, "error", err)
		return db.Booking{}, ErrInternalServer
	}

	updated, err := s.querier.UpdateBookingAttendance(ctx, db.UpdateBookingAttendanceParams{
		BookingID: bookingID,
		Attended:  sql.NullBool{Bool: attended, Valid: true},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update booking attendance", "booking_id", bookingID, "error", err)
		return db.Booking{}, ErrInternalServer
	}

	s.logger.InfoContext(ctx, "booking attendance marked", "booking_id", booking.BookingID, "attended", attended)
	return updated, nil
}

// CancelBooking hard-deletes a booking the owning user made, so long as it's
// outside the cancellation cutoff window.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64, userIDFromAuth int64) error {
	booking, err := s.querier.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get booking for cancellation", "booking_id", bookingID, "error", err)
		return ErrInternalServer
	}
	if booking.UserID != userIDFromAuth {
		return ErrForbiddenUpdate
	}

	now := time.Now().UTC()
	cutoff := s.cfg.BookingCancelCutoff
	if cutoff == 0 {
		cutoff = 2 * time.Hour
	}
	if now.After(booking.ShiftStart.Add(-cutoff)) {
		return ErrBookingCannotBeCancelled
	}

	if err := s.querier.DeleteBooking(ctx, bookingID); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete booking", "booking_id", bookingID, "error", err)
		return ErrInternalServer
	}
	s.logger.InfoContext(ctx, "booking cancelled", "booking_id", bookingID, "user_id", userIDFromAuth)

	s.queueBookingNotification(ctx, booking, "BOOKING_CANCELLATION", fmt.Sprintf("booking:%d:cancellation", bookingID))
	return nil
}

// AdminAssignUserToShift lets an admin place targetUserID into a shift slot
// directly. The start time goes through the same validateShiftTime checks
// as self-service booking (schedule window, future horizon, minimum lead
// time, exact cron occurrence); no buddy is resolved.
func (s *BookingService) AdminAssignUserToShift(ctx context.Context, targetUserID int64, scheduleID int64, shiftStartTime time.Time) (db.Booking, error) {
	if _, err := s.querier.GetUserByID(ctx, targetUserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Booking{}, ErrUserNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get target user for admin assignment", "target_user_id", targetUserID, "error", err)
		return db.Booking{}, ErrInternalServer
	}

	schedule, err := s.querier.GetScheduleByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Booking{}, ErrScheduleNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get schedule for admin assignment", "schedule_id", scheduleID, "error", err)
		return db.Booking{}, ErrInternalServer
	}

	utcShiftStartTime := shiftStartTime.UTC()
	if err := s.validateShiftTime(ctx, schedule, utcShiftStartTime); err != nil {
		return db.Booking{}, err
	}

	_, err = s.querier.GetBookingByScheduleAndStartTime(ctx, db.GetBookingByScheduleAndStartTimeParams{
		ScheduleID: scheduleID,
		ShiftStart: utcShiftStartTime,
	})
	if err == nil {
		return db.Booking{}, ErrBookingConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "failed to check booking conflict for admin assignment", "schedule_id", scheduleID, "start_time", utcShiftStartTime, "error", err)
		return db.Booking{}, ErrInternalServer
	}

	shiftEndTime := utcShiftStartTime.Add(time.Duration(schedule.DurationMinutes) * time.Minute)
	createdBooking, err := s.querier.CreateBooking(ctx, db.CreateBookingParams{
		UserID:     targetUserID,
		ScheduleID: scheduleID,
		ShiftStart: utcShiftStartTime,
		ShiftEnd:   shiftEndTime,
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return db.Booking{}, ErrBookingConflict
		}
		s.logger.ErrorContext(ctx, "failed to create booking for admin assignment", "schedule_id", scheduleID, "error", err)
		return db.Booking{}, ErrInternalServer
	}
	s.logger.InfoContext(ctx, "booking created by admin", "booking_id", createdBooking.BookingID, "assigned_user_id", targetUserID, "schedule_id", scheduleID)

	s.queueBookingNotification(ctx, createdBooking, "ADMIN_SHIFT_ASSIGNMENT", fmt.Sprintf("booking:%d:admin_assignment", createdBooking.BookingID))
	return createdBooking, nil
}

// AdminUnassignUserFromShift hard-deletes whichever booking currently holds
// scheduleID's slot at shiftStartTime.
func (s *BookingService) AdminUnassignUserFromShift(ctx context.Context, scheduleID int64, shiftStartTime time.Time) error {
	if _, err := s.querier.GetScheduleByID(ctx, scheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrScheduleNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get schedule for admin unassignment", "schedule_id", scheduleID, "error", err)
		return ErrInternalServer
	}

	utcShiftStartTime := shiftStartTime.UTC()
	booking, err := s.querier.GetBookingByScheduleAndStartTime(ctx, db.GetBookingByScheduleAndStartTimeParams{
		ScheduleID: scheduleID,
		ShiftStart: utcShiftStartTime,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get booking for admin unassignment", "schedule_id", scheduleID, "start_time", utcShiftStartTime, "error", err)
		return ErrInternalServer
	}

	if err := s.querier.DeleteBooking(ctx, booking.BookingID); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete booking for admin unassignment", "booking_id", booking.BookingID, "error", err)
		return ErrInternalServer
	}
	s.logger.InfoContext(ctx, "booking unassigned by admin", "booking_id", booking.BookingID, "user_id", booking.UserID, "schedule_id", scheduleID)

	s.queueBookingNotification(ctx, booking, "ADMIN_SHIFT_UNASSIGNMENT", fmt.Sprintf("booking:%d:admin_unassignment", booking.BookingID))
	return nil
}

// BookingWithSchedule is a booking enriched with its schedule's name, for a
// user's own booking list.
type BookingWithSchedule struct {
	db.Booking
	ScheduleName string
}

// GetUserBookings retrieves every booking a user holds, each annotated with
// its schedule's name.
func (s *BookingService) GetUserBookings(ctx context.Context, userID int64) ([]BookingWithSchedule, error) {
	if _, err := s.querier.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get user for booking retrieval", "user_id", userID, "error", err)
		return nil, ErrInternalServer
	}

	bookings, err := s.querier.ListBookingsByUserID(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list bookings for user", "user_id", userID, "error", err)
		return nil, ErrInternalServer
	}

	scheduleNames := make(map[int64]string)
	result := make([]BookingWithSchedule, 0, len(bookings))
	for _, b := range bookings {
		name, ok := scheduleNames[b.ScheduleID]
		if !ok {
			schedule, err := s.querier.GetScheduleByID(ctx, b.ScheduleID)
			if err != nil {
				s.logger.WarnContext(ctx, "schedule missing for booking", "booking_id", b.BookingID, "schedule_id", b.ScheduleID, "error", err)
			} else {
				name = schedule.Name
			}
			scheduleNames[b.ScheduleID] = name
		}
		result = append(result, BookingWithSchedule{Booking: b, ScheduleName: name})
	}
	return result, nil
}
