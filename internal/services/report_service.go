package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Bhavyabhvy/SpendIQ/internal/amqp"
	"github.com/Bhavyabhvy/SpendIQ/internal/cache"
	"github.com/Bhavyabhvy/SpendIQ/internal/core"
	"github.com/Bhavyabhvy/SpendIQ/internal/report"
	"github.com/Bhavyabhvy/SpendIQ/internal/storage"
)

// MonthlyReport pairs the summary with the insights derived from it. Both
// are nil for a month with no expenses.
type MonthlyReport struct {
	Summary  *report.MonthlySummary
	Insights *report.Insights
}

// ReportService builds monthly reports, caches recent ones, and hands export
// requests to the report worker over AMQP.
type ReportService struct {
	builder    *report.Builder
	amqpClient *amqp.Client
	cache      *cache.LRU[*MonthlyReport]
}

func NewReportService(repo *storage.SQLiteRepository, amqpClient *amqp.Client, reportCache *cache.LRU[*MonthlyReport]) *ReportService {
	return &ReportService{
		builder:    report.NewBuilder(repo, repo),
		amqpClient: amqpClient,
		cache:      reportCache,
	}
}

// GetMonthlyReport builds (or fetches from cache) the report for one user's
// month. A month with no expenses yields a report with nil Summary.
func (s *ReportService) GetMonthlyReport(ctx context.Context, userID int64, year, month int) (*MonthlyReport, error) {
	key := reportCacheKey(userID, year, month)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			slog.DebugContext(ctx, "Report served from cache", "user_id", userID, "month", core.MonthKey(year, month))
			return cached, nil
		}
	}

	summary, err := s.builder.BuildMonthlySummary(ctx, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("build summary: %w", err)
	}

	rep := &MonthlyReport{
		Summary:  summary,
		Insights: report.EvaluateInsights(summary),
	}
	if s.cache != nil {
		s.cache.Set(key, rep)
	}
	return rep, nil
}

// RequestExport queues CSV and PDF materialization for the month. Publish
// failures are logged and swallowed; viewing a report never fails because
// the broker is down.
func (s *ReportService) RequestExport(ctx context.Context, userID int64, year, month int) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping export request")
		return
	}
	if err := s.amqpClient.PublishReportExport(ctx, userID, year, month); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export request",
			"user_id", userID,
			"year", year,
			"month", month,
			"error", err)
	}
}

// Invalidate drops the cached report for a month. Called after every expense
// or salary write that touches it.
func (s *ReportService) Invalidate(userID int64, year, month int) {
	if s.cache != nil {
		s.cache.Delete(reportCacheKey(userID, year, month))
	}
}

func reportCacheKey(userID int64, year, month int) string {
	return fmt.Sprintf("%d/%s", userID, core.MonthKey(year, month))
}
