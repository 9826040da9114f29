package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ecospend/internal/amqp"
	"ecospend/internal/core"
	"ecospend/internal/sheets/memory"
	"ecospend/internal/storage"
)

func newTestStorage(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "worker_test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedAnalysis(t *testing.T, repo *storage.SQLiteRepository, months ...string) int64 {
	t.Helper()
	results := make([]core.MonthlyResult, 0, len(months))
	for _, m := range months {
		results = append(results, core.MonthlyResult{
			Month:           m,
			TotalAmount:     50000,
			ClusterNameHint: "카페/식품형",
			CarbonKg:        8.5,
			CarbonScore:     60.0,
			MainType:        "카페형",
			ClimateType:     "보통",
			BehaviorType:    "균형형",
		})
	}
	id, err := repo.SaveAnalysis(context.Background(), "csv", len(months), results)
	if err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}
	return id
}

func TestHandleSyncMessageExportsAllResults(t *testing.T) {
	repo := newTestStorage(t)
	sink := memory.New()
	w := NewReportWorker(repo, sink, 20, time.Minute)

	id := seedAnalysis(t, repo, "2024-01", "2024-02")

	msg := amqp.NewReportSyncMessage(id)
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncMessage() error = %v", err)
	}

	rows := sink.Rows()
	if len(rows) != 2 {
		t.Fatalf("sink rows = %d, want 2", len(rows))
	}
	if rows[0].Result.Month != "2024-01" || rows[1].Result.Month != "2024-02" {
		t.Errorf("exported months = %q, %q, want 2024-01, 2024-02",
			rows[0].Result.Month, rows[1].Result.Month)
	}

	pending, err := repo.ListUnsyncedResults(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListUnsyncedResults() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after handle = %d, want 0", len(pending))
	}
}

func TestHandleSyncMessageIsIdempotent(t *testing.T) {
	repo := newTestStorage(t)
	sink := memory.New()
	w := NewReportWorker(repo, sink, 20, time.Minute)

	id := seedAnalysis(t, repo, "2024-03")
	msg := amqp.NewReportSyncMessage(id)

	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("first HandleSyncMessage() error = %v", err)
	}
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("second HandleSyncMessage() error = %v", err)
	}

	if got := len(sink.Rows()); got != 1 {
		t.Errorf("sink rows after redelivery = %d, want 1", got)
	}
}

type failingSink struct{}

func (failingSink) AppendResult(context.Context, int64, core.MonthlyResult) (string, error) {
	return "", errors.New("sink unavailable")
}

func TestHandleSyncMessageKeepsResultsPendingOnSinkError(t *testing.T) {
	repo := newTestStorage(t)
	w := NewReportWorker(repo, failingSink{}, 20, time.Minute)

	id := seedAnalysis(t, repo, "2024-04")

	if err := w.HandleSyncMessage(context.Background(), amqp.NewReportSyncMessage(id)); err == nil {
		t.Fatal("HandleSyncMessage() error = nil, want sink error")
	}

	pending, err := repo.ListUnsyncedResults(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListUnsyncedResults() error = %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pending after failed export = %d, want 1", len(pending))
	}
}

func TestSweepUnsyncedPicksUpMissedResults(t *testing.T) {
	repo := newTestStorage(t)
	sink := memory.New()
	w := NewReportWorker(repo, sink, 20, time.Minute)

	seedAnalysis(t, repo, "2024-05")
	seedAnalysis(t, repo, "2024-06", "2024-07")

	if err := w.SweepUnsynced(context.Background()); err != nil {
		t.Fatalf("SweepUnsynced() error = %v", err)
	}

	if got := len(sink.Rows()); got != 3 {
		t.Errorf("sink rows after sweep = %d, want 3", got)
	}

	pending, err := repo.ListUnsyncedResults(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListUnsyncedResults() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after sweep = %d, want 0", len(pending))
	}
}
