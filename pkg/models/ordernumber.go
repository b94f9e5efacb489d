package models

import (
	"fmt"
	"time"
)

// FormatOrderNumber builds the human-readable order identifier
// PREFIX-YYYYMMDD-NNNN. seq is the 1-based position of the order among the
// orders created on date's calendar day.
func FormatOrderNumber(date time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", OrderNumberPrefix, date.UTC().Format("20060102"), seq)
}
