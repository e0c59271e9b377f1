package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"warden-go/internal/config"
	"warden-go/internal/cronexpand"
	db "warden-go/internal/db/sqlc_generated"
)

// Service specific errors
var (
	ErrNotFound     = errors.New("requested resource not found")
	ErrInvalidInput = errors.New("invalid input")
)

// ScheduleService handles logic related to schedules and shift slot
// enumeration: turning a schedule's cron expression into concrete,
// timezone-aware occurrences and overlaying booking state onto them.
type ScheduleService struct {
	querier db.Querier
	logger  *slog.Logger
	config  *config.Config
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(querier db.Querier, logger *slog.Logger, cfg *config.Config) *ScheduleService {
	return &ScheduleService{
		querier: querier,
		logger:  logger.With("service", "ScheduleService"),
		config:  cfg,
	}
}

// AvailableShiftSlot is an unbooked shift slot a member can claim.
type AvailableShiftSlot struct {
	ScheduleID   int64     `json:"schedule_id"`
	ScheduleName string    `json:"schedule_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Timezone     string    `json:"timezone,omitempty"`
}

// AdminAvailableShiftSlot is a shift slot with its booking state, for the
// admin roster view which must see booked slots too.
type AdminAvailableShiftSlot struct {
	ScheduleID   int64     `json:"schedule_id"`
	ScheduleName string    `json:"schedule_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Timezone     string    `json:"timezone,omitempty"`
	IsBooked     bool      `json:"is_booked"`
	BookingID    *int64    `json:"booking_id,omitempty"`
	BuddyName    *string   `json:"buddy_name,omitempty"`
}

// scheduleWindow narrows [from, to) in a schedule's own timezone down to the
// schedule's own active date range, returning the location the schedule's
// cron expression should be evaluated in.
func scheduleWindow(schedule db.Schedule, from, to time.Time) (windowStart, windowEnd time.Time, loc *time.Location) {
	loc = time.UTC
	if schedule.Timezone.Valid && schedule.Timezone.String != "" {
		if loaded, err := time.LoadLocation(schedule.Timezone.String); err == nil {
			loc = loaded
		}
	}

	windowStart, windowEnd = from, to
	if schedule.StartDate.Valid {
		y, m, d := schedule.StartDate.Time.Date()
		activeStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
		if activeStart.After(windowStart) {
			windowStart = activeStart
		}
	}
	if schedule.EndDate.Valid {
		y, m, d := schedule.EndDate.Time.Date()
		activeEnd := time.Date(y, m, d, 23, 59, 59, 999999999, loc)
		if activeEnd.Before(windowEnd) {
			windowEnd = activeEnd
		}
	}
	return windowStart, windowEnd, loc
}

// GetUpcomingAvailableSlots finds unbooked shift slots across every active
// schedule within [queryFrom, queryTo), defaulting to the next 14 days.
func (s *ScheduleService) GetUpcomingAvailableSlots(ctx context.Context, queryFrom, queryTo *time.Time, limit *int) ([]AvailableShiftSlot, error) {
	now := time.Now().UTC()
	actualFrom, actualTo := now, now.AddDate(0, 0, 14)
	if queryFrom != nil {
		actualFrom = queryFrom.UTC()
	}
	if queryTo != nil {
		actualTo = queryTo.UTC()
	}
	if actualFrom.After(actualTo) {
		s.logger.WarnContext(ctx, "query 'from' is after 'to'", "from", actualFrom, "to", actualTo)
		return []AvailableShiftSlot{}, nil
	}

	schedules, err := s.querier.ListAllSchedules(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list schedules", "error", err)
		return nil, ErrInternalServer
	}
	if len(schedules) == 0 {
		return []AvailableShiftSlot{}, nil
	}

	var allSlots []AvailableShiftSlot
	for _, schedule := range schedules {
		if !schedule.IsActive {
			continue
		}
		windowStart, windowEnd, loc := scheduleWindow(schedule, actualFrom, actualTo)
		if windowStart.After(windowEnd) {
			continue
		}

		occurrences, truncated, err := cronexpand.Expand(schedule.CronExpr, windowStart, windowEnd,
			time.Duration(schedule.DurationMinutes)*time.Minute, loc.String())
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to expand schedule recurrence", "schedule_id", schedule.ScheduleID, "error", err)
			continue
		}
		if truncated {
			s.logger.WarnContext(ctx, "schedule recurrence expansion truncated", "schedule_id", schedule.ScheduleID, "max_occurrences", cronexpand.MaxOccurrences)
		}

		for _, occ := range occurrences {
			allSlots = append(allSlots, AvailableShiftSlot{
				ScheduleID:   schedule.ScheduleID,
				ScheduleName: schedule.Name,
				StartTime:    occ.Start,
				EndTime:      occ.End,
				Timezone:     loc.String(),
			})
		}
	}
	if len(allSlots) == 0 {
		return nil, nil
	}

	bookingMap, err := s.bookingMapForSlots(ctx, allSlots[0].StartTime, allSlots[0].EndTime, allSlots)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to batch retrieve bookings", "error", err)
		return allSlots, nil
	}

	available := make([]AvailableShiftSlot, 0, len(allSlots))
	for _, slot := range allSlots {
		if _, booked := bookingMap[slotKey(slot.ScheduleID, slot.StartTime)]; !booked {
			available = append(available, slot)
		}
	}

	sort.Slice(available, func(i, j int) bool { return available[i].StartTime.Before(available[j].StartTime) })
	if limit != nil && len(available) > *limit {
		available = available[:*limit]
	}
	return available, nil
}

// AdminGetAllShiftSlots finds every shift slot, booked or not, across every
// schedule, active or not, within [queryFrom, queryTo), defaulting to the
// next 7 days.
func (s *ScheduleService) AdminGetAllShiftSlots(ctx context.Context, queryFrom, queryTo *time.Time, limit *int) ([]AdminAvailableShiftSlot, error) {
	now := time.Now().UTC()
	actualFrom, actualTo := now, now.AddDate(0, 0, 7)
	if queryFrom != nil {
		actualFrom = queryFrom.UTC()
	}
	if queryTo != nil {
		actualTo = queryTo.UTC()
	}
	if actualFrom.After(actualTo) {
		s.logger.WarnContext(ctx, "query 'from' is after 'to' for admin slots", "from", actualFrom, "to", actualTo)
		return []AdminAvailableShiftSlot{}, nil
	}

	schedules, err := s.querier.ListAllSchedules(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list schedules for admin slots", "error", err)
		return nil, ErrInternalServer
	}
	if len(schedules) == 0 {
		return []AdminAvailableShiftSlot{}, nil
	}

	var allSlots []AdminAvailableShiftSlot
	for _, schedule := range schedules {
		windowStart, windowEnd, loc := scheduleWindow(schedule, actualFrom, actualTo)
		if windowStart.After(windowEnd) {
			continue
		}

		occurrences, truncated, err := cronexpand.Expand(schedule.CronExpr, windowStart, windowEnd,
			time.Duration(schedule.DurationMinutes)*time.Minute, loc.String())
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to expand schedule recurrence for admin slots", "schedule_id", schedule.ScheduleID, "error", err)
			continue
		}
		if truncated {
			s.logger.WarnContext(ctx, "schedule recurrence expansion truncated for admin slots", "schedule_id", schedule.ScheduleID, "max_occurrences", cronexpand.MaxOccurrences)
		}

		for _, occ := range occurrences {
			allSlots = append(allSlots, AdminAvailableShiftSlot{
				ScheduleID:   schedule.ScheduleID,
				ScheduleName: schedule.Name,
				StartTime:    occ.Start,
				EndTime:      occ.End,
				Timezone:     loc.String(),
			})
		}
	}
	if len(allSlots) == 0 {
		return nil, nil
	}

	plain := make([]AvailableShiftSlot, len(allSlots))
	for i, s := range allSlots {
		plain[i] = AvailableShiftSlot{ScheduleID: s.ScheduleID, StartTime: s.StartTime, EndTime: s.EndTime}
	}
	bookingMap, err := s.bookingMapForSlots(ctx, allSlots[0].StartTime, allSlots[0].EndTime, plain)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to batch retrieve bookings for admin slots", "error", err)
		return allSlots, nil
	}

	for i, slot := range allSlots {
		booking, booked := bookingMap[slotKey(slot.ScheduleID, slot.StartTime)]
		if !booked {
			continue
		}
		allSlots[i].IsBooked = true
		allSlots[i].BookingID = &booking.BookingID
		if booking.BuddyName.Valid && booking.BuddyName.String != "" {
			allSlots[i].BuddyName = &booking.BuddyName.String
		}
	}

	sort.Slice(allSlots, func(i, j int) bool { return allSlots[i].StartTime.Before(allSlots[j].StartTime) })
	if limit != nil && len(allSlots) > *limit {
		allSlots = allSlots[:*limit]
	}
	return allSlots, nil
}

// bookingMapForSlots batch-loads every booking touching the slots' overall
// time span and indexes it by schedule+start so overlay is O(1) per slot
// instead of one query per slot.
func (s *ScheduleService) bookingMapForSlots(ctx context.Context, minTime, maxTime time.Time, slots []AvailableShiftSlot) (map[string]db.Booking, error) {
	for _, slot := range slots {
		if slot.StartTime.Before(minTime) {
			minTime = slot.StartTime
		}
		if slot.EndTime.After(maxTime) {
			maxTime = slot.EndTime
		}
	}

	bookings, err := s.querier.GetBookingsInDateRange(ctx, db.GetBookingsInDateRangeParams{
		ShiftStart:   minTime.UTC(),
		ShiftStart_2: maxTime.UTC(),
	})
	if err != nil {
		return nil, err
	}

	bookingMap := make(map[string]db.Booking, len(bookings))
	for _, booking := range bookings {
		bookingMap[slotKey(booking.ScheduleID, booking.ShiftStart.UTC())] = booking
	}
	return bookingMap, nil
}

func slotKey(scheduleID int64, startTime time.Time) string {
	return fmt.Sprintf("%d_%s", scheduleID, startTime.UTC().Format(time.RFC3339))
}

// ListAllSchedules retrieves every schedule in the system.
func (s *ScheduleService) ListAllSchedules(ctx context.Context) ([]db.Schedule, error) {
	schedules, err := s.querier.ListAllSchedules(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list all schedules", "error", err)
		return nil, ErrInternalServer
	}
	return schedules, nil
}

// AdminCreateSchedule creates a new schedule (admin operation).
func (s *ScheduleService) AdminCreateSchedule(ctx context.Context, params db.CreateScheduleParams) (db.Schedule, error) {
	params.DurationMinutes = int64(s.config.DefaultShiftDuration.Minutes())

	schedule, err := s.querier.CreateSchedule(ctx, params)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create schedule", "params", params, "error", err)
		return db.Schedule{}, ErrInternalServer
	}
	s.logger.InfoContext(ctx, "schedule created", "schedule_id", schedule.ScheduleID, "name", schedule.Name)
	return schedule, nil
}

// AdminGetScheduleByID retrieves a specific schedule by its ID (admin operation).
func (s *ScheduleService) AdminGetScheduleByID(ctx context.Context, scheduleID int64) (db.Schedule, error) {
	schedule, err := s.querier.GetScheduleByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Schedule{}, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get schedule by id", "schedule_id", scheduleID, "error", err)
		return db.Schedule{}, ErrInternalServer
	}
	return schedule, nil
}

// AdminUpdateSchedule updates an existing schedule (admin operation).
func (s *ScheduleService) AdminUpdateSchedule(ctx context.Context, params db.UpdateScheduleParams) (db.Schedule, error) {
	params.DurationMinutes = int64(s.config.DefaultShiftDuration.Minutes())

	schedule, err := s.querier.UpdateSchedule(ctx, params)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Schedule{}, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "failed to update schedule", "params", params, "error", err)
		return db.Schedule{}, ErrInternalServer
	}
	s.logger.InfoContext(ctx, "schedule updated", "schedule_id", schedule.ScheduleID, "name", schedule.Name)
	return schedule, nil
}

// AdminDeleteSchedule deletes a schedule by its ID (admin operation).
func (s *ScheduleService) AdminDeleteSchedule(ctx context.Context, scheduleID int64) error {
	if err := s.querier.DeleteSchedule(ctx, scheduleID); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete schedule", "schedule_id", scheduleID, "error", err)
		return ErrInternalServer
	}
	s.logger.InfoContext(ctx, "schedule deleted", "schedule_id", scheduleID)
	return nil
}

// AdminBulkDeleteSchedules deletes multiple schedules by their IDs.
func (s *ScheduleService) AdminBulkDeleteSchedules(ctx context.Context, scheduleIDs []int64) error {
	for _, scheduleID := range scheduleIDs {
		if err := s.AdminDeleteSchedule(ctx, scheduleID); err != nil {
			return err
		}
	}
	return nil
}
