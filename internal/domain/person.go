package domain

import (
	"math"
	"strconv"
	"strings"
)

// PersonRecord is one decoded row of the person table.
type PersonRecord struct {
	ID     string
	Crime  float64
	Terror float64
	// ScoresValid is false when either score is missing or non-numeric.
	ScoresValid bool
	// Locations holds the raw token of each day column, keyed by column name.
	Locations map[string]Cell
}

// Token returns the raw location token recorded for a day column.
func (p PersonRecord) Token(column string) Cell {
	return p.Locations[column]
}

// DecodePersons reads every row of t according to schema. Required columns
// are matched case-insensitively; any absent one, or a header without day
// columns, yields a *SchemaError and no records.
func DecodePersons(t *Table, schema Schema) ([]PersonRecord, []DayColumn, error) {
	columns := t.Columns()

	idCol, err := requireColumn(t, schema.IDColumn, columns)
	if err != nil {
		return nil, nil, err
	}
	crimeCol, err := requireColumn(t, schema.CrimeColumn, columns)
	if err != nil {
		return nil, nil, err
	}
	terrorCol, err := requireColumn(t, schema.TerrorColumn, columns)
	if err != nil {
		return nil, nil, err
	}
	days, err := DayColumns(columns, schema.DayPrefix)
	if err != nil {
		return nil, nil, err
	}

	persons := make([]PersonRecord, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		crime, okCrime := parseScore(t.Cell(i, crimeCol))
		terror, okTerror := parseScore(t.Cell(i, terrorCol))

		p := PersonRecord{
			ID:          strings.TrimSpace(t.Cell(i, idCol).Value),
			Crime:       crime,
			Terror:      terror,
			ScoresValid: okCrime && okTerror,
			Locations:   make(map[string]Cell, len(days)),
		}
		for _, d := range days {
			p.Locations[d.Name] = t.Cell(i, d.Name)
		}
		persons = append(persons, p)
	}
	return persons, days, nil
}

func requireColumn(t *Table, name string, columns []string) (string, error) {
	col, ok := t.lookupColumn(name)
	if !ok {
		return "", &SchemaError{Err: ErrMissingColumn, Column: name, Columns: columns}
	}
	return col, nil
}

// parseScore coerces a score cell to a number. Spreadsheet readers may render
// integers as "42" or "42.0"; both parse.
func parseScore(c Cell) (float64, bool) {
	if !c.Valid {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
