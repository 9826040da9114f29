// Package peers loads the reference population's carbon distribution used
// for percentile scoring.
package peers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"ecospend/internal/core"
)

const carbonColumn = "carbon_kg"

var ErrNoCarbonColumn = errors.New("peer csv has no carbon_kg column")

// LoadCSV reads the peer dataset from a CSV file and returns the sorted
// distribution. The file must have a carbon_kg column; blank or unparseable
// cells are skipped. A missing file is an error for the caller to treat as
// fatal at startup.
func LoadCSV(ctx context.Context, path string) (core.PeerDistribution, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.PeerDistribution{}, fmt.Errorf("open peer csv: %w", err)
	}
	defer f.Close()

	values, err := readCarbonValues(f)
	if err != nil {
		return core.PeerDistribution{}, fmt.Errorf("read peer csv %s: %w", path, err)
	}

	slog.InfoContext(ctx, "Loaded peer carbon distribution",
		"path", path,
		"count", len(values))

	return core.NewPeerDistribution(values), nil
}

func readCarbonValues(r io.Reader) ([]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), carbonColumn) {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, ErrNoCarbonColumn
	}

	var values []float64
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || v < 0 {
			continue
		}
		values = append(values, v)
	}
	return values, nil
}
