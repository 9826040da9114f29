package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"ecospend/internal/core"
)

// Canonical field names resolved from CSV headers.
const (
	fieldDate     = "date"
	fieldAmount   = "amount"
	fieldMerchant = "merchant"
	fieldCategory = "category"
)

var ErrEmptyCSV = errors.New("empty csv input")

// canonicalField maps a raw header name to a canonical field by
// case-insensitive substring matching. Headers that match nothing pass
// through unchanged and are ignored downstream.
func canonicalField(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case strings.Contains(h, "date"):
		return fieldDate
	case strings.Contains(h, "amount"), strings.Contains(h, "amt"):
		return fieldAmount
	case strings.Contains(h, "merchant"):
		return fieldMerchant
	case strings.Contains(h, "category"), strings.Contains(h, "cat"):
		return fieldCategory
	default:
		return header
	}
}

// ParseCSV decodes an uploaded CSV and returns normalized records. Headers
// are resolved by substring matching; rows whose date or amount does not
// parse are dropped, never failing the batch.
func ParseCSV(content []byte) ([]core.Record, error) {
	text, err := decodeBytes(content)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	fields := make([]string, len(header))
	for i, h := range header {
		fields[i] = canonicalField(h)
	}

	var records []core.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// malformed row, skip and continue
			continue
		}

		raw := make(map[string]string, len(fields))
		for i, v := range row {
			if i < len(fields) {
				raw[fields[i]] = v
			}
		}

		date, err := core.ParseDate(raw[fieldDate])
		if err != nil {
			continue
		}
		amount, err := core.ParseAmount(raw[fieldAmount])
		if err != nil {
			continue
		}

		records = append(records, core.Record{
			Date:         date,
			Amount:       amount,
			Merchant:     strings.TrimSpace(raw[fieldMerchant]),
			CategoryText: strings.TrimSpace(raw[fieldCategory]),
		})
	}

	return records, nil
}
