// Package worker materializes report export files out of band. The web
// process only publishes a message; this worker rebuilds the summary from
// the database and writes the CSV and PDF next to each other.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Bhavyabhvy/SpendIQ/internal/amqp"
	"github.com/Bhavyabhvy/SpendIQ/internal/export"
	"github.com/Bhavyabhvy/SpendIQ/internal/report"
	"github.com/Bhavyabhvy/SpendIQ/internal/storage"
)

type ReportWorker struct {
	storage   *storage.SQLiteRepository
	builder   *report.Builder
	outputDir string
}

func NewReportWorker(repo *storage.SQLiteRepository, outputDir string) *ReportWorker {
	return &ReportWorker{
		storage:   repo,
		builder:   report.NewBuilder(repo, repo),
		outputDir: outputDir,
	}
}

// HandleExportMessage rebuilds the month's summary and writes both export
// files. A month that turns out empty by the time the message arrives is
// acked without producing files.
func (w *ReportWorker) HandleExportMessage(ctx context.Context, msg *amqp.ReportExportMessage) error {
	slog.InfoContext(ctx, "Processing export request",
		"user_id", msg.UserID,
		"year", msg.Year,
		"month", msg.Month)

	user, err := w.storage.GetUserByID(ctx, msg.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "Export requested for unknown user, dropping", "user_id", msg.UserID)
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	summary, err := w.builder.BuildMonthlySummary(ctx, msg.UserID, msg.Year, msg.Month)
	if err != nil {
		return fmt.Errorf("build summary: %w", err)
	}
	if summary == nil {
		slog.InfoContext(ctx, "No expenses for requested month, nothing to export",
			"user_id", msg.UserID,
			"year", msg.Year,
			"month", msg.Month)
		return nil
	}

	userDir := filepath.Join(w.outputDir, fmt.Sprintf("user_%d", msg.UserID))
	if err := os.MkdirAll(userDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	csvPath := filepath.Join(userDir, export.CSVFileName(msg.Year, msg.Month))
	if err := writeFile(csvPath, func(f *os.File) error {
		return export.WriteCSV(f, summary)
	}); err != nil {
		return err
	}

	pdfPath := filepath.Join(userDir, export.PDFFileName(msg.Year, msg.Month))
	if err := writeFile(pdfPath, func(f *os.File) error {
		return export.WritePDF(f, user.Name, summary)
	}); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Export files written",
		"user_id", msg.UserID,
		"csv", csvPath,
		"pdf", pdfPath)
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
