package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Record is one normalized spending record, ready for monthly aggregation.
type Record struct {
	Date         time.Time
	Amount       float64
	Merchant     string
	CategoryText string
}

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
)

// Accepted date layouts, tried in order. The first full match wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"20060102",
}

// ParseDate parses a date string in one of the four supported layouts and
// returns it normalized to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDate renders a date in the canonical YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthKey truncates a date to its aggregation grain (YYYY-MM).
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// ParseAmount parses a currency amount, stripping thousands separators.
// Negative and unparseable values are rejected.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
