// AngelaMos | 2026
// export_test.go

package meallist

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/carterperez-dev/messhall/internal/core"
)

func sampleEntries() []Entry {
	return []Entry{
		{UserName: "Asha", RoomNumber: 101, LunchPick: []string{"veg"}, DinnerPick: []string{"veg"}},
		{UserName: "Bilal", RoomNumber: 204, LunchPick: []string{"veg", "nonveg"}},
		{UserName: "Chen", RoomNumber: 12, DinnerPick: []string{"veg"}},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(core.MustParseDate("2025-06-01"), sampleEntries())

	assert.Equal(t, 2, s.TotalLunchBookings)
	assert.Equal(t, 2, s.TotalDinnerBookings)
	assert.Equal(t, map[string]int{"veg": 2, "nonveg": 1}, s.LunchItemCounts)
	assert.Equal(t, map[string]int{"veg": 2}, s.DinnerItemCounts)
	assert.Len(t, s.Bookings, 3)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRender_CSV(t *testing.T) {
	s := Summarize(core.MustParseDate("2025-06-01"), sampleEntries())

	file, err := Render(s, FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "meal_list_2025-06-01.csv", file.Name)
	assert.Equal(t, "text/csv", file.ContentType)

	want := "Meal List Summary for: 2025-06-01\n" +
		"\n" +
		"Total Lunch Bookings:,2\n" +
		"Total Dinner Bookings:,2\n" +
		"\n" +
		"Student Name,Room Number,Lunch Selection,Dinner Selection\n" +
		"Asha,101,veg,veg\n" +
		"Bilal,204,\"veg, nonveg\",\n" +
		"Chen,12,,veg\n"
	assert.Equal(t, want, string(file.Body))
}

func TestRender_XLSX(t *testing.T) {
	s := Summarize(core.MustParseDate("2025-06-01"), sampleEntries())

	file, err := Render(s, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "meal_list_2025-06-01.xlsx", file.Name)

	book, err := excelize.OpenReader(bytes.NewReader(file.Body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = book.Close() })

	assert.Equal(t, []string{sheetName}, book.GetSheetList())

	cells := map[string]string{
		"A1": "Meal List Summary for: 2025-06-01",
		"A3": "Total Lunch Bookings:",
		"B3": "2",
		"A6": "Student Name",
		"D6": "Dinner Selection",
		"A8": "Bilal",
		"C8": "veg, nonveg",
		"B9": "12",
		"D9": "veg",
	}
	for cell, want := range cells {
		got, err := book.GetCellValue(sheetName, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}
