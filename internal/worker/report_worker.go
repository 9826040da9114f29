package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"ecospend/internal/amqp"
	"ecospend/internal/sheets"
	"ecospend/internal/storage"
)

// ReportWorker exports stored monthly analysis results to an external report
// sink (Google Sheets in production).
type ReportWorker struct {
	storage   *storage.SQLiteRepository
	sink      sheets.ReportWriter
	batchSize int
	interval  time.Duration
}

func NewReportWorker(storage *storage.SQLiteRepository, sink sheets.ReportWriter, batchSize int, interval time.Duration) *ReportWorker {
	return &ReportWorker{
		storage:   storage,
		sink:      sink,
		batchSize: batchSize,
		interval:  interval,
	}
}

// HandleSyncMessage processes a single report sync message from AMQP by
// exporting every not-yet-synced result of the referenced analysis.
func (w *ReportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ReportSyncMessage) error {
	slog.InfoContext(ctx, "Processing report sync message",
		"analysis_id", msg.AnalysisID,
		"timestamp", msg.Timestamp)

	pending, err := w.storage.ListUnsyncedResultsByAnalysis(ctx, msg.AnalysisID)
	if err != nil {
		return fmt.Errorf("list unsynced results: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending results for analysis", "analysis_id", msg.AnalysisID)
		return nil
	}

	for _, sr := range pending {
		if err := w.exportResult(ctx, sr); err != nil {
			return fmt.Errorf("export result %d: %w", sr.ID, err)
		}
	}
	return nil
}

// SweepUnsynced exports results whose sync message was lost. This is a backup
// mechanism; the AMQP consumer handles the normal path.
func (w *ReportWorker) SweepUnsynced(ctx context.Context) error {
	pending, err := w.storage.ListUnsyncedResults(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list unsynced results: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Sweeping unsynced results", "count", len(pending))

	for _, sr := range pending {
		if err := w.exportResult(ctx, sr); err != nil {
			slog.ErrorContext(ctx, "Failed to export result",
				"result_id", sr.ID,
				"analysis_id", sr.AnalysisID,
				"error", err)
			continue
		}
	}
	return nil
}

// Run consumes sync messages and periodically sweeps for missed results until
// the context is cancelled.
func (w *ReportWorker) Run(ctx context.Context, client *amqp.Client) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return client.ConsumeReportSync(ctx, w.HandleSyncMessage)
	})

	g.Go(func() error {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.SweepUnsynced(ctx); err != nil {
					slog.ErrorContext(ctx, "Sweep failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}

func (w *ReportWorker) exportResult(ctx context.Context, sr storage.StoredResult) error {
	rowRef, err := w.sink.AppendResult(ctx, sr.AnalysisID, sr.Result)
	if err != nil {
		return fmt.Errorf("append result to sink: %w", err)
	}

	if err := w.storage.MarkResultSynced(ctx, sr.ID); err != nil {
		return fmt.Errorf("mark result synced: %w", err)
	}

	slog.InfoContext(ctx, "Result exported",
		"result_id", sr.ID,
		"analysis_id", sr.AnalysisID,
		"month", sr.Result.Month,
		"row_ref", rowRef)
	return nil
}
