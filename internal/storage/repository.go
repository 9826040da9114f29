// Package storage persists analyses, their monthly results, and the peer
// distribution in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ecospend/internal/core"

	_ "modernc.org/sqlite"
)

// Analysis is one stored pipeline run.
type Analysis struct {
	ID         int64
	CreatedAt  time.Time
	Source     string
	RowCount   int
	MonthCount int
}

// StoredResult is a monthly result row together with its database identity.
type StoredResult struct {
	ID         int64
	AnalysisID int64
	Result     core.MonthlyResult
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveAnalysis stores an analysis and its monthly results in one transaction
// and returns the analysis ID.
func (r *SQLiteRepository) SaveAnalysis(ctx context.Context, source string, rowCount int, results []core.MonthlyResult) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO analyses (source, row_count, month_count) VALUES (?, ?, ?)`,
		source, rowCount, len(results))
	if err != nil {
		return 0, fmt.Errorf("insert analysis: %w", err)
	}
	analysisID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("analysis id: %w", err)
	}

	for _, mr := range results {
		recs, err := json.Marshal(mr.Recommendations)
		if err != nil {
			return 0, fmt.Errorf("marshal recommendations: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO monthly_results
			 (analysis_id, month, total_amt, carbon_kg, carbon_score,
			  cluster_name_hint, main_type, climate_type, behavior_type, recommendations)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			analysisID, mr.Month, mr.TotalAmount, mr.CarbonKg, mr.CarbonScore,
			mr.ClusterNameHint, mr.MainType, mr.ClimateType, mr.BehaviorType, string(recs))
		if err != nil {
			return 0, fmt.Errorf("insert monthly result %s: %w", mr.Month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit analysis: %w", err)
	}

	slog.InfoContext(ctx, "Analysis saved",
		"analysis_id", analysisID,
		"source", source,
		"rows", rowCount,
		"months", len(results))

	return analysisID, nil
}

// GetAnalysis loads an analysis and its monthly results, ordered by month.
func (r *SQLiteRepository) GetAnalysis(ctx context.Context, id int64) (Analysis, []core.MonthlyResult, error) {
	var a Analysis
	err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, source, row_count, month_count FROM analyses WHERE id = ?`, id).
		Scan(&a.ID, &a.CreatedAt, &a.Source, &a.RowCount, &a.MonthCount)
	if err != nil {
		return Analysis{}, nil, fmt.Errorf("get analysis %d: %w", id, err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT month, total_amt, carbon_kg, carbon_score,
		        cluster_name_hint, main_type, climate_type, behavior_type, recommendations
		 FROM monthly_results WHERE analysis_id = ? ORDER BY month`, id)
	if err != nil {
		return Analysis{}, nil, fmt.Errorf("query monthly results: %w", err)
	}
	defer rows.Close()

	var results []core.MonthlyResult
	for rows.Next() {
		mr, err := scanMonthlyResult(rows)
		if err != nil {
			return Analysis{}, nil, err
		}
		results = append(results, mr)
	}
	if err := rows.Err(); err != nil {
		return Analysis{}, nil, fmt.Errorf("iterate monthly results: %w", err)
	}

	return a, results, nil
}

// ListUnsyncedResults returns up to limit monthly results that were never
// exported, oldest first.
func (r *SQLiteRepository) ListUnsyncedResults(ctx context.Context, limit int) ([]StoredResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, analysis_id, month, total_amt, carbon_kg, carbon_score,
		        cluster_name_hint, main_type, climate_type, behavior_type, recommendations
		 FROM monthly_results WHERE synced_at IS NULL ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query unsynced results: %w", err)
	}
	defer rows.Close()
	return collectStoredResults(rows)
}

// ListUnsyncedResultsByAnalysis returns the not-yet-exported monthly results
// of one analysis, ordered by month.
func (r *SQLiteRepository) ListUnsyncedResultsByAnalysis(ctx context.Context, analysisID int64) ([]StoredResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, analysis_id, month, total_amt, carbon_kg, carbon_score,
		        cluster_name_hint, main_type, climate_type, behavior_type, recommendations
		 FROM monthly_results WHERE analysis_id = ? AND synced_at IS NULL ORDER BY month`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("query unsynced results for analysis %d: %w", analysisID, err)
	}
	defer rows.Close()
	return collectStoredResults(rows)
}

func collectStoredResults(rows *sql.Rows) ([]StoredResult, error) {
	var out []StoredResult
	for rows.Next() {
		var sr StoredResult
		var recs string
		err := rows.Scan(&sr.ID, &sr.AnalysisID,
			&sr.Result.Month, &sr.Result.TotalAmount, &sr.Result.CarbonKg, &sr.Result.CarbonScore,
			&sr.Result.ClusterNameHint, &sr.Result.MainType, &sr.Result.ClimateType,
			&sr.Result.BehaviorType, &recs)
		if err != nil {
			return nil, fmt.Errorf("scan unsynced result: %w", err)
		}
		if err := json.Unmarshal([]byte(recs), &sr.Result.Recommendations); err != nil {
			return nil, fmt.Errorf("unmarshal recommendations: %w", err)
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unsynced results: %w", err)
	}
	return out, nil
}

// MarkResultSynced records a successful export of one monthly result.
func (r *SQLiteRepository) MarkResultSynced(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE monthly_results SET synced_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark result %d synced: %w", id, err)
	}
	return nil
}

// ReplacePeerValues swaps the stored peer distribution for a new one.
func (r *SQLiteRepository) ReplacePeerValues(ctx context.Context, values []float64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM peer_values`); err != nil {
		return fmt.Errorf("clear peer values: %w", err)
	}
	for _, v := range values {
		if _, err := tx.ExecContext(ctx, `INSERT INTO peer_values (carbon_kg) VALUES (?)`, v); err != nil {
			return fmt.Errorf("insert peer value: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit peer values: %w", err)
	}

	slog.InfoContext(ctx, "Peer distribution replaced", "count", len(values))
	return nil
}

// PeerValues returns the stored peer distribution in ascending order.
func (r *SQLiteRepository) PeerValues(ctx context.Context) ([]float64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT carbon_kg FROM peer_values ORDER BY carbon_kg`)
	if err != nil {
		return nil, fmt.Errorf("query peer values: %w", err)
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan peer value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate peer values: %w", err)
	}
	return values, nil
}

func scanMonthlyResult(rows *sql.Rows) (core.MonthlyResult, error) {
	var mr core.MonthlyResult
	var recs string
	err := rows.Scan(&mr.Month, &mr.TotalAmount, &mr.CarbonKg, &mr.CarbonScore,
		&mr.ClusterNameHint, &mr.MainType, &mr.ClimateType, &mr.BehaviorType, &recs)
	if err != nil {
		return core.MonthlyResult{}, fmt.Errorf("scan monthly result: %w", err)
	}
	if err := json.Unmarshal([]byte(recs), &mr.Recommendations); err != nil {
		return core.MonthlyResult{}, fmt.Errorf("unmarshal recommendations: %w", err)
	}
	return mr, nil
}
