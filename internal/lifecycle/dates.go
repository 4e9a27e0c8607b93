package lifecycle

import (
	"errors"
	"time"
)

// dateLayoutISO is the canonical stored form. All date fields are kept as
// date-only strings and compared lexically, which orders ISO dates correctly
// and avoids the off-by-one shifts that come from converting calendar dates
// through local time.
const dateLayoutISO = "2006-01-02"

// dateLayoutUS is accepted on input (MM-DD-YYYY) and normalized to ISO.
const dateLayoutUS = "01-02-2006"

var errUnparseableDate = errors.New("date must be YYYY-MM-DD or MM-DD-YYYY")

// NormalizeDate converts an input date string to ISO form. Empty input is
// allowed and stays empty. Invalid calendar dates (month > 12, day out of
// range) are rejected rather than silently reinterpreted.
func NormalizeDate(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if t, err := time.Parse(dateLayoutISO, s); err == nil {
		return t.Format(dateLayoutISO), nil
	}
	if t, err := time.Parse(dateLayoutUS, s); err == nil {
		return t.Format(dateLayoutISO), nil
	}
	return "", errUnparseableDate
}

// today is an indirection so tests can pin the current date.
var today = func() string {
	return time.Now().Format(dateLayoutISO)
}
