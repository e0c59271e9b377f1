package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	db "warden-go/internal/db/sqlc_generated"
)

// Per-severity retention: normal reports roll off fastest, suspicion reports
// sit much longer, and incident reports are never auto-archived — severity 2
// simply isn't queried below.
const (
	normalReportRetention    = 30 * 24 * time.Hour
	suspicionReportRetention = 365 * 24 * time.Hour
)

// ReportArchivingService marks reports past their severity's retention
// window as archived, run on a schedule by the job runner (C10).
type ReportArchivingService struct {
	querier db.Querier
	logger  *slog.Logger
}

// NewReportArchivingService creates a new ReportArchivingService.
func NewReportArchivingService(querier db.Querier, logger *slog.Logger) *ReportArchivingService {
	return &ReportArchivingService{
		querier: querier,
		logger:  logger.With("service", "ReportArchivingService"),
	}
}

// ArchiveOldReports archives every normal (severity 0) report older than 30
// days and every suspicion (severity 1) report older than a year. Incident
// (severity 2) reports are never auto-archived.
func (s *ReportArchivingService) ArchiveOldReports(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	normalArchived, err := s.archiveSeverity(ctx, 0, now.Add(-normalReportRetention))
	if err != nil {
		return 0, err
	}
	suspicionArchived, err := s.archiveSeverity(ctx, 1, now.Add(-suspicionReportRetention))
	if err != nil {
		return normalArchived, err
	}

	total := normalArchived + suspicionArchived
	if total > 0 {
		s.logger.InfoContext(ctx, "archived reports past retention window",
			"normal_archived", normalArchived, "suspicion_archived", suspicionArchived)
	}
	return total, nil
}

func (s *ReportArchivingService) archiveSeverity(ctx context.Context, severity int64, before time.Time) (int, error) {
	reports, err := s.querier.GetReportsForAutoArchiving(ctx, db.GetReportsForAutoArchivingParams{
		Severity: severity,
		Before:   before,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get reports for auto-archiving", "severity", severity, "error", err)
		return 0, err
	}

	archived := 0
	for _, report := range reports {
		if err := s.querier.ArchiveReport(ctx, db.ArchiveReportParams{
			ArchivedAt: sql.NullTime{Time: time.Now().UTC(), Valid: true},
			ReportID:   report.ReportID,
		}); err != nil {
			s.logger.ErrorContext(ctx, "failed to archive report", "report_id", report.ReportID, "error", err)
			continue
		}
		archived++
	}
	return archived, nil
}

// GetArchivingStats returns the total archived vs. active report counts.
func (s *ReportArchivingService) GetArchivingStats(ctx context.Context) (db.ArchivingStatsRow, error) {
	stats, err := s.querier.GetArchivingStats(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get archiving stats", "error", err)
		return db.ArchivingStatsRow{}, err
	}
	return stats, nil
}
