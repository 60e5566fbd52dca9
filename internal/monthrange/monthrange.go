// Package monthrange parses "YYYY-MM" month identifiers and turns them
// into half-open date windows for filtering date columns.
package monthrange

import (
	"time"

	"gorm.io/gorm"
)

// Range is the half-open window [Start, End) covering one calendar month.
type Range struct {
	Start time.Time
	End   time.Time
}

// Parse validates a "YYYY-MM" string as a real calendar month and returns
// its window. "2024-13" and other non-months fail.
func Parse(monthYear string) (Range, error) {
	start, err := time.Parse("2006-01", monthYear)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: start.AddDate(0, 1, 0)}, nil
}

// Valid reports whether monthYear is a well-formed "YYYY-MM" month.
func Valid(monthYear string) bool {
	_, err := Parse(monthYear)
	return err == nil
}

// Scope returns a GORM scope constraining column to the month's window.
func Scope(column string, r Range) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" < ?", r.Start, r.End)
	}
}
