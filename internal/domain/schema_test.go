package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidate(t *testing.T) {
	require.NoError(t, DefaultSchema().Validate())

	tests := []struct {
		name   string
		mutate func(*Schema)
		errMsg string
	}{
		{"empty id", func(s *Schema) { s.IDColumn = " " }, "id column"},
		{"empty crime", func(s *Schema) { s.CrimeColumn = "" }, "crime column"},
		{"empty terror", func(s *Schema) { s.TerrorColumn = "" }, "terror column"},
		{"empty prefix", func(s *Schema) { s.DayPrefix = "" }, "day prefix"},
		{"prefix with digits", func(s *Schema) { s.DayPrefix = "loc1_" }, "must not contain digits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSchema()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDayIndex(t *testing.T) {
	tests := []struct {
		column string
		day    int
		err    error
	}{
		{"Location_1", 1, nil},
		{"Location_07", 7, nil},
		{"location_31", 31, nil},
		{"Location_Day12 ", 12, nil},
		{"Location_", 0, ErrNoDayDigits},
		{"Location_x", 0, ErrNoDayDigits},
		{"Location_0", 0, ErrDayOutOfRange},
		{"Location_32", 0, ErrDayOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			day, err := DayIndex(tt.column)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.day, day)
		})
	}
}

func TestDayColumns(t *testing.T) {
	t.Run("case-insensitive prefix, sorted by day", func(t *testing.T) {
		cols := []string{"ID", "LOCATION_10", "Location_2", "location_1", "Locations"}
		days, err := DayColumns(cols, "Location_")
		require.NoError(t, err)
		assert.Equal(t, []DayColumn{
			{Name: "location_1", Day: 1},
			{Name: "Location_2", Day: 2},
			{Name: "LOCATION_10", Day: 10},
		}, days)
	})

	t.Run("none present", func(t *testing.T) {
		cols := []string{"ID", "Crime_Tendency", "Terror_Tendency"}
		_, err := DayColumns(cols, "Location_")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoDayColumns)

		var se *SchemaError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, cols, se.Columns)
		assert.Contains(t, err.Error(), "Crime_Tendency")
	})

	t.Run("prefixed column without digits fails fast", func(t *testing.T) {
		_, err := DayColumns([]string{"Location_1", "Location_notes"}, "Location_")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoDayDigits)
		assert.Contains(t, err.Error(), "Location_notes")
	})
}
