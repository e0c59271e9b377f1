package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"warden-go/internal/config"
	db "warden-go/internal/db/sqlc_generated"
	"warden-go/internal/logging"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to create an in-memory database for testing
func setupTestDB(t *testing.T) (*sql.DB, db.Querier) {
	testDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	schema := `
	CREATE TABLE users (
		user_id INTEGER PRIMARY KEY AUTOINCREMENT,
		phone TEXT UNIQUE NOT NULL,
		name TEXT,
		role TEXT NOT NULL DEFAULT 'owl',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE schedules (
		schedule_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		cron_expr TEXT NOT NULL,
		start_date DATETIME,
		end_date DATETIME,
		duration_minutes INTEGER NOT NULL DEFAULT 120,
		timezone TEXT NOT NULL DEFAULT 'UTC',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE bookings (
		booking_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(user_id),
		schedule_id INTEGER NOT NULL REFERENCES schedules(schedule_id),
		shift_start DATETIME NOT NULL,
		shift_end DATETIME NOT NULL,
		buddy_user_id INTEGER REFERENCES users(user_id),
		buddy_name TEXT,
		checked_in_at DATETIME,
		attended BOOLEAN,
		is_recurring BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(schedule_id, shift_start)
	);

	CREATE TABLE recurring_assignments (
		recurring_assignment_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		schedule_id INTEGER NOT NULL REFERENCES schedules(schedule_id) ON DELETE CASCADE,
		day_of_week INTEGER NOT NULL CHECK (day_of_week >= 0 AND day_of_week <= 6),
		time_slot TEXT NOT NULL,
		buddy_name TEXT,
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, day_of_week, schedule_id, time_slot)
	);
	`

	_, err = testDB.Exec(schema)
	require.NoError(t, err)

	return testDB, db.New(testDB)
}

func setupTestService(t *testing.T) (*RecurringAssignmentService, db.Querier, *ScheduleService) {
	testDB, querier := setupTestDB(t)
	t.Cleanup(func() { testDB.Close() })

	cfg := &config.Config{DevMode: true, DefaultShiftDuration: 2 * time.Hour}
	logger := logging.NewLogger(cfg)

	recurringService := NewRecurringAssignmentService(querier, logger, cfg)
	scheduleService := NewScheduleService(querier, logger, cfg)

	return recurringService, querier, scheduleService
}

// Test data setup helpers
func createTestUser(t *testing.T, querier db.Querier, phone, name string) db.User {
	user, err := querier.CreateUser(context.Background(), db.CreateUserParams{
		Phone: phone,
		Name:  sql.NullString{String: name, Valid: name != ""},
		Role:  "owl",
	})
	require.NoError(t, err)
	return user
}

func createTestSchedule(t *testing.T, querier db.Querier, name, cronExpr string) db.Schedule {
	schedule, err := querier.CreateSchedule(context.Background(), db.CreateScheduleParams{
		Name:            name,
		CronExpr:        cronExpr,
		DurationMinutes: 120,
		Timezone:        sql.NullString{String: "UTC", Valid: true},
		IsActive:        true,
	})
	require.NoError(t, err)
	return schedule
}

func createTestBooking(t *testing.T, querier db.Querier, userID, scheduleID int64, startTime time.Time) db.Booking {
	booking, err := querier.CreateBooking(context.Background(), db.CreateBookingParams{
		UserID:     userID,
		ScheduleID: scheduleID,
		ShiftStart: startTime,
		ShiftEnd:   startTime.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	return booking
}

// nextWeekday returns the next occurrence of weekday at the given hour:minute,
// strictly after now, in UTC.
func nextWeekday(weekday time.Weekday, hour, minute int) time.Time {
	now := time.Now().UTC()
	daysUntil := (int(weekday) - int(now.Weekday()) + 7) % 7
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC).AddDate(0, 0, daysUntil)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// CRUD Operations Tests
func TestCreateRecurringAssignment(t *testing.T) {
	service, querier, _ := setupTestService(t)
	ctx := context.Background()

	user := createTestUser(t, querier, "+1234567890", "John Doe")
	schedule := createTestSchedule(t, querier, "Night Watch", "0 18 * * 6")

	t.Run("successful creation", func(t *testing.T) {
		params := db.CreateRecurringAssignmentParams{
			UserID:      user.UserID,
			DayOfWeek:   6, // Saturday
			ScheduleID:  schedule.ScheduleID,
			TimeSlot:    "18:00-20:00",
			BuddyName:   sql.NullString{String: "Jane Smith", Valid: true},
			Description: sql.NullString{String: "Regular night patrol", Valid: true},
			IsActive:    true,
		}

		assignment, err := service.CreateRecurringAssignment(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, user.UserID, assignment.UserID)
		assert.Equal(t, int64(6), assignment.DayOfWeek)
		assert.Equal(t, schedule.ScheduleID, assignment.ScheduleID)
		assert.Equal(t, "18:00-20:00", assignment.TimeSlot)
		assert.True(t, assignment.BuddyName.Valid)
		assert.Equal(t, "Jane Smith", assignment.BuddyName.String)
		assert.True(t, assignment.IsActive)
	})

	t.Run("user not found", func(t *testing.T) {
		params := db.CreateRecurringAssignmentParams{
			UserID:     99999, // Non-existent user
			DayOfWeek:  6,
			ScheduleID: schedule.ScheduleID,
			TimeSlot:   "18:00-20:00",
			IsActive:   true,
		}

		_, err := service.CreateRecurringAssignment(ctx, params)
		assert.ErrorIs(t, err, ErrRecurringAssignmentNotFound)
	})

	t.Run("schedule not found", func(t *testing.T) {
		params := db.CreateRecurringAssignmentParams{
			UserID:     user.UserID,
			DayOfWeek:  6,
			ScheduleID: 99999, // Non-existent schedule
			TimeSlot:   "18:00-20:00",
			IsActive:   true,
		}

		_, err := service.CreateRecurringAssignment(ctx, params)
		assert.ErrorIs(t, err, ErrRecurringAssignmentNotFound)
	})

	t.Run("duplicate assignment", func(t *testing.T) {
		params := db.CreateRecurringAssignmentParams{
			UserID:     user.UserID,
			DayOfWeek:  5,
			ScheduleID: schedule.ScheduleID,
			TimeSlot:   "18:00-20:00",
			IsActive:   true,
		}

		_, err := service.CreateRecurringAssignment(ctx, params)
		require.NoError(t, err)

		_, err = service.CreateRecurringAssignment(ctx, params)
		assert.Error(t, err) // Should fail due to UNIQUE constraint
	})
}

func TestGetRecurringAssignmentByID(t *testing.T) {
	service, querier, _ := setupTestService(t)
	ctx := context.Background()

	user := createTestUser(t, querier, "+1234567890", "John Doe")
	schedule := createTestSchedule(t, querier, "Night Watch", "0 18 * * 6")

	params := db.CreateRecurringAssignmentParams{
		UserID:     user.UserID,
		DayOfWeek:  6,
		ScheduleID: schedule.ScheduleID,
		TimeSlot:   "18:00-20:00",
		IsActive:   true,
	}
	created, err := service.CreateRecurringAssignment(ctx, params)
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		assignment, err := service.GetRecurringAssignmentByID(ctx, created.RecurringAssignmentID)
		require.NoError(t, err)
		assert.Equal(t, created.RecurringAssignmentID, assignment.RecurringAssignmentID)
		assert.Equal(t, user.UserID, assignment.UserID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := service.GetRecurringAssignmentByID(ctx, 99999)
		assert.ErrorIs(t, err, ErrRecurringAssignmentNotFound)
	})
}

func TestDeleteRecurringAssignment(t *testing.T) {
	service, querier, _ := setupTestService(t)
	ctx := context.Background()

	user := createTestUser(t, querier, "+1234567890", "John Doe")
	schedule := createTestSchedule(t, querier, "Night Watch", "0 18 * * 6")

	params := db.CreateRecurringAssignmentParams{
		UserID:     user.UserID,
		DayOfWeek:  6,
		ScheduleID: schedule.ScheduleID,
		TimeSlot:   "18:00-20:00",
		IsActive:   true,
	}
	created, err := service.CreateRecurringAssignment(ctx, params)
	require.NoError(t, err)

	t.Run("successful soft delete", func(t *testing.T) {
		err := service.DeleteRecurringAssignment(ctx, created.RecurringAssignmentID)
		require.NoError(t, err)

		assignments, err := service.ListRecurringAssignments(ctx)
		require.NoError(t, err)
		assert.Len(t, assignments, 0)

		assignment, err := service.GetRecurringAssignmentByID(ctx, created.RecurringAssignmentID)
		require.NoError(t, err)
		assert.False(t, assignment.IsActive)
	})
}

// MaterializeUpcomingBookings Tests - The Most Critical Functionality
func TestMaterializeUpcomingBookings(t *testing.T) {
	t.Run("creates bookings from recurring assignments", func(t *testing.T) {
		service, querier, scheduleService := setupTestService(t)
		ctx := context.Background()

		user := createTestUser(t, querier, "+1111111111", "Alice")
		schedule := createTestSchedule(t, querier, "Night Watch", "0 18 * * 6") // Every Saturday 18:00 UTC

		_, err := service.CreateRecurringAssignment(ctx, db.CreateRecurringAssignmentParams{
			UserID:     user.UserID,
			DayOfWeek:  6, // Saturday
			ScheduleID: schedule.ScheduleID,
			TimeSlot:   "18:00-20:00",
			BuddyName:  sql.NullString{String: "Buddy1", Valid: true},
			IsActive:   true,
		})
		require.NoError(t, err)

		fromTime := time.Now().UTC()
		toTime := fromTime.AddDate(0, 0, 14)

		err = service.MaterializeUpcomingBookings(ctx, scheduleService, fromTime, toTime)
		require.NoError(t, err)

		bookings, err := querier.ListBookingsByUserID(ctx, user.UserID)
		require.NoError(t, err)
		// A 14-day window holds two Saturday 18:00 slots; bookings come back
		// newest first.
		require.Len(t, bookings, 2)
		assert.Equal(t, schedule.ScheduleID, bookings[0].ScheduleID)
		assert.True(t, bookings[0].IsRecurring)
		assert.Equal(t, "Buddy1", bookings[0].BuddyName.String)

		expectedStart := nextWeekday(time.Saturday, 18, 0)
		assert.True(t, bookings[1].ShiftStart.Equal(expectedStart), "expected %v, got %v", expectedStart, bookings[1].ShiftStart)
		assert.True(t, bookings[0].ShiftStart.Equal(expectedStart.AddDate(0, 0, 7)), "expected %v, got %v", expectedStart.AddDate(0, 0, 7), bookings[0].ShiftStart)
	})

	t.Run("skips already booked slots", func(t *testing.T) {
		service, querier, scheduleService := setupTestService(t)
		ctx := context.Background()

		owner := createTestUser(t, querier, "+1111111112", "Alice")
		assignee := createTestUser(t, querier, "+2222222222", "Bob")
		schedule := createTestSchedule(t, querier, "Night Watch", "0 18 * * 0") // Every Sunday 18:00 UTC

		_, err := service.CreateRecurringAssignment(ctx, db.CreateRecurringAssignmentParams{
			UserID:     assignee.UserID,
			DayOfWeek:  0, // Sunday
			ScheduleID: schedule.ScheduleID,
			TimeSlot:   "18:00-20:00",
			IsActive:   true,
		})
		require.NoError(t, err)

		shiftStart := nextWeekday(time.Sunday, 18, 0)
		createTestBooking(t, querier, owner.UserID, schedule.ScheduleID, shiftStart)

		fromTime := time.Now().UTC()
		toTime := fromTime.AddDate(0, 0, 14)

		err = service.MaterializeUpcomingBookings(ctx, scheduleService, fromTime, toTime)
		require.NoError(t, err)

		assigneeBookings, err := querier.ListBookingsByUserID(ctx, assignee.UserID)
		require.NoError(t, err)
		// Only the following Sunday, still open, is materialized for the assignee.
		require.Len(t, assigneeBookings, 1)
		assert.True(t, assigneeBookings[0].ShiftStart.Equal(shiftStart.AddDate(0, 0, 7)), "already-booked slot should not be materialized for the assignee")
	})

	t.Run("no assignments", func(t *testing.T) {
		service, _, scheduleService := setupTestService(t)
		ctx := context.Background()

		fromTime := time.Now().UTC()
		toTime := fromTime.AddDate(0, 0, 14)

		err := service.MaterializeUpcomingBookings(ctx, scheduleService, fromTime, toTime)
		assert.NoError(t, err) // Should not error with no assignments
	})

	t.Run("time slot matching precision", func(t *testing.T) {
		service, querier, scheduleService := setupTestService(t)
		ctx := context.Background()

		user := createTestUser(t, querier, "+1111111113", "Alice")
		schedule := createTestSchedule(t, querier, "Night Watch", "0 18 * * 2") // Every Tuesday 18:00 UTC

		// Mismatched time slot string should never materialize.
		_, err := service.CreateRecurringAssignment(ctx, db.CreateRecurringAssignmentParams{
			UserID:     user.UserID,
			DayOfWeek:  2, // Tuesday
			ScheduleID: schedule.ScheduleID,
			TimeSlot:   "19:00-21:00", // Does not match the schedule's actual 18:00-20:00 slot
			IsActive:   true,
		})
		require.NoError(t, err)

		fromTime := time.Now().UTC()
		toTime := fromTime.AddDate(0, 0, 14)

		err = service.MaterializeUpcomingBookings(ctx, scheduleService, fromTime, toTime)
		require.NoError(t, err)

		bookings, err := querier.ListBookingsByUserID(ctx, user.UserID)
		require.NoError(t, err)
		assert.Empty(t, bookings, "a time slot that doesn't match the schedule's actual occurrence should not materialize")
	})
}

func TestListRecurringAssignments(t *testing.T) {
	service, querier, _ := setupTestService(t)
	ctx := context.Background()

	user := createTestUser(t, querier, "+1234567890", "John Doe")
	schedule := createTestSchedule(t, querier, "Night Watch", "0 18 * * 6")

	t.Run("lists only active assignments", func(t *testing.T) {
		_, err := service.CreateRecurringAssignment(ctx, db.CreateRecurringAssignmentParams{
			UserID:     user.UserID,
			DayOfWeek:  6,
			ScheduleID: schedule.ScheduleID,
			TimeSlot:   "18:00-20:00",
			IsActive:   true,
		})
		require.NoError(t, err)

		deleted, err := service.CreateRecurringAssignment(ctx, db.CreateRecurringAssignmentParams{
			UserID:     user.UserID,
			DayOfWeek:  0,
			ScheduleID: schedule.ScheduleID,
			TimeSlot:   "18:00-20:00",
			IsActive:   true,
		})
		require.NoError(t, err)

		err = service.DeleteRecurringAssignment(ctx, deleted.RecurringAssignmentID)
		require.NoError(t, err)

		assignments, err := service.ListRecurringAssignments(ctx)
		require.NoError(t, err)
		assert.Len(t, assignments, 1)
		assert.Equal(t, int64(6), assignments[0].DayOfWeek)
	})
}

func TestUpdateRecurringAssignment(t *testing.T) {
	service, querier, _ := setupTestService(t)
	ctx := context.Background()

	user := createTestUser(t, querier, "+1234567890", "John Doe")
	schedule := createTestSchedule(t, querier, "Night Watch", "0 18 * * 6")

	created, err := service.CreateRecurringAssignment(ctx, db.CreateRecurringAssignmentParams{
		UserID:     user.UserID,
		DayOfWeek:  6,
		ScheduleID: schedule.ScheduleID,
		TimeSlot:   "18:00-20:00",
		IsActive:   true,
	})
	require.NoError(t, err)

	t.Run("successful update", func(t *testing.T) {
		params := db.UpdateRecurringAssignmentParams{
			RecurringAssignmentID: created.RecurringAssignmentID,
			DayOfWeek:              0, // Change to Sunday
			TimeSlot:               "19:00-21:00",
			BuddyName:              sql.NullString{String: "New Buddy", Valid: true},
			Description:            sql.NullString{String: "Updated description", Valid: true},
			IsActive:               true,
		}

		updated, err := service.UpdateRecurringAssignment(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, created.UserID, updated.UserID, "the assigned user is immutable after creation")
		assert.Equal(t, int64(0), updated.DayOfWeek)
		assert.Equal(t, "19:00-21:00", updated.TimeSlot)
		assert.Equal(t, "New Buddy", updated.BuddyName.String)
	})

	t.Run("assignment not found", func(t *testing.T) {
		params := db.UpdateRecurringAssignmentParams{
			RecurringAssignmentID: 99999,
			DayOfWeek:             6,
			TimeSlot:              "18:00-20:00",
			IsActive:              true,
		}

		_, err := service.UpdateRecurringAssignment(ctx, params)
		assert.ErrorIs(t, err, ErrRecurringAssignmentNotFound)
	})
}

// Edge Cases and Error Handling
func TestRecurringAssignmentEdgeCases(t *testing.T) {
	service, querier, _ := setupTestService(t)
	ctx := context.Background()

	user := createTestUser(t, querier, "+1234567890", "John Doe")
	schedule := createTestSchedule(t, querier, "Night Watch", "0 18 * * 6")

	t.Run("day of week boundary values", func(t *testing.T) {
		for _, day := range []int64{0, 6} {
			_, err := service.CreateRecurringAssignment(ctx, db.CreateRecurringAssignmentParams{
				UserID:     user.UserID,
				DayOfWeek:  day,
				ScheduleID: schedule.ScheduleID,
				TimeSlot:   "18:00-20:00",
				IsActive:   true,
			})
			assert.NoError(t, err, "Day %d should be valid", day)
		}
	})

	t.Run("time slot format variations", func(t *testing.T) {
		validTimeSlots := []string{
			"00:00-02:00", // Midnight
			"06:30-08:30", // Half-hour precision
		}

		for i, timeSlot := range validTimeSlots {
			_, err := service.CreateRecurringAssignment(ctx, db.CreateRecurringAssignmentParams{
				UserID:     user.UserID,
				DayOfWeek:  int64(i + 1), // Different days to avoid conflicts
				ScheduleID: schedule.ScheduleID,
				TimeSlot:   timeSlot,
				IsActive:   true,
			})
			assert.NoError(t, err, "Time slot %s should be valid", timeSlot)
		}
	})

	t.Run("empty and null buddy name handling", func(t *testing.T) {
		_, err := service.CreateRecurringAssignment(ctx, db.CreateRecurringAssignmentParams{
			UserID:     user.UserID,
			DayOfWeek:  3,
			ScheduleID: schedule.ScheduleID,
			TimeSlot:   "18:00-20:00",
			BuddyName:  sql.NullString{Valid: false},
			IsActive:   true,
		})
		assert.NoError(t, err)

		_, err = service.CreateRecurringAssignment(ctx, db.CreateRecurringAssignmentParams{
			UserID:     user.UserID,
			DayOfWeek:  4,
			ScheduleID: schedule.ScheduleID,
			TimeSlot:   "18:00-20:00",
			BuddyName:  sql.NullString{String: "", Valid: true},
			IsActive:   true,
		})
		assert.NoError(t, err)
	})
}
