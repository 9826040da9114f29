package ingest

import (
	"regexp"
	"strings"
	"time"

	"ecospend/internal/core"
)

// amountPattern locates the first run of digits in a text segment, allowing
// thousands separators and an optional currency suffix.
var amountPattern = regexp.MustCompile(`([0-9][0-9,]*)\s*원?`)

// segmentSplitter separates free-text records on commas and newlines.
var segmentSplitter = regexp.MustCompile(`[,\n]+`)

// ParseText extracts records from free-form text such as
// "스타벅스 5000원 배달의민족 15000원" (records separated by comma or newline).
// The supplied date applies to every record; when absent or unparseable,
// today is used. Segments without a digit run are dropped silently.
func ParseText(text, dateStr string) []core.Record {
	date, err := core.ParseDate(dateStr)
	if err != nil {
		date = today()
	}

	var records []core.Record
	for _, segment := range segmentSplitter.Split(text, -1) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		loc := amountPattern.FindStringSubmatchIndex(segment)
		if loc == nil {
			continue
		}
		amount, err := core.ParseAmount(segment[loc[2]:loc[3]])
		if err != nil {
			continue
		}

		merchant := strings.TrimSpace(segment[:loc[0]] + " " + segment[loc[1]:])
		if merchant == "" {
			merchant = string(core.CategoryOther)
		}

		records = append(records, core.Record{
			Date:     date,
			Amount:   amount,
			Merchant: merchant,
		})
	}
	return records
}

func today() time.Time {
	t := time.Now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
