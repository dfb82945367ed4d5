package domain

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrNoDayColumns means no column carries the day prefix.
	ErrNoDayColumns = errors.New("no day columns present")
	// ErrMissingColumn means a required identifier or score column is absent.
	ErrMissingColumn = errors.New("required column missing")
	// ErrNoDayDigits means a prefixed column has no trailing day digits.
	ErrNoDayDigits = errors.New("day column has no trailing digits")
	// ErrDayOutOfRange means a day column's index is outside 1–31.
	ErrDayOutOfRange = errors.New("day index out of range")
)

// SchemaError reports a source table whose header does not match the Schema.
// Columns lists the header actually present, for diagnosis.
type SchemaError struct {
	Err     error
	Column  string
	Columns []string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema: %v: %q (columns present: %s)", e.Err, e.Column, strings.Join(e.Columns, ", "))
	}
	return fmt.Sprintf("schema: %v (columns present: %s)", e.Err, strings.Join(e.Columns, ", "))
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Schema names the identifier and score columns and the day column prefix.
type Schema struct {
	IDColumn     string
	CrimeColumn  string
	TerrorColumn string
	DayPrefix    string
}

// DefaultSchema returns the column names used by the tracking spreadsheet.
func DefaultSchema() Schema {
	return Schema{
		IDColumn:     "ID",
		CrimeColumn:  "Crime_Tendency",
		TerrorColumn: "Terror_Tendency",
		DayPrefix:    "Location_",
	}
}

// Validate checks the schema once, before any table is read.
func (s Schema) Validate() error {
	if strings.TrimSpace(s.IDColumn) == "" {
		return errors.New("schema: id column name is empty")
	}
	if strings.TrimSpace(s.CrimeColumn) == "" {
		return errors.New("schema: crime column name is empty")
	}
	if strings.TrimSpace(s.TerrorColumn) == "" {
		return errors.New("schema: terror column name is empty")
	}
	if s.DayPrefix == "" {
		return errors.New("schema: day prefix is empty")
	}
	if strings.ContainsAny(s.DayPrefix, "0123456789") {
		return fmt.Errorf("schema: day prefix %q must not contain digits", s.DayPrefix)
	}
	return nil
}

// DayColumn is a column holding one day's location tokens.
type DayColumn struct {
	Name string
	Day  int
}

// DayColumns selects the columns that start with prefix (case-insensitive) and
// extracts their day index, sorted by day then name. A prefixed column without
// a valid day index is a schema error rather than being skipped.
func DayColumns(columns []string, prefix string) ([]DayColumn, error) {
	var days []DayColumn
	for _, c := range columns {
		if !hasPrefixFold(c, prefix) {
			continue
		}
		day, err := DayIndex(c)
		if err != nil {
			return nil, &SchemaError{Err: err, Column: c, Columns: columns}
		}
		days = append(days, DayColumn{Name: c, Day: day})
	}
	if len(days) == 0 {
		return nil, &SchemaError{Err: ErrNoDayColumns, Columns: columns}
	}
	sort.SliceStable(days, func(i, j int) bool {
		if days[i].Day != days[j].Day {
			return days[i].Day < days[j].Day
		}
		return days[i].Name < days[j].Name
	})
	return days, nil
}

// DayIndex parses the trailing digits of a day column name, e.g.
// "Location_07" -> 7.
func DayIndex(column string) (int, error) {
	name := strings.TrimSpace(column)
	end := len(name)
	start := end
	for start > 0 && isDigit(name[start-1]) {
		start--
	}
	if start == end {
		return 0, ErrNoDayDigits
	}
	day, err := strconv.Atoi(name[start:end])
	if err != nil || day < 1 || day > 31 {
		return 0, ErrDayOutOfRange
	}
	return day, nil
}

func hasPrefixFold(s, prefix string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
