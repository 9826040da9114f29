// Package memory is an in-process report sink used in tests and local runs
// without Google Sheets credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"ecospend/internal/core"
)

type Row struct {
	AnalysisID int64
	Result     core.MonthlyResult
}

type Store struct {
	mu   sync.Mutex
	rows []Row
}

func New() *Store {
	return &Store{}
}

// AppendResult stores the row and returns a synthetic reference.
func (s *Store) AppendResult(_ context.Context, analysisID int64, r core.MonthlyResult) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, Row{AnalysisID: analysisID, Result: r})
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}
