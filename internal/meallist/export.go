// AngelaMos | 2026
// export.go

package meallist

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"

	sheetName = "Meal List"
	headerRow = 5
)

var ErrUnknownFormat = errors.New(`format must be "csv" or "xlsx"`)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", ErrUnknownFormat
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// File is a rendered meal list download.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

var header = []string{"Student Name", "Room Number", "Lunch Selection", "Dinner Selection"}

// layout is the sheet shared by both formats. The column header sits at
// index headerRow with one row per booking after it.
func layout(s *Summary) [][]string {
	rows := [][]string{
		{"Meal List Summary for: " + s.BookingDate.String()},
		{},
		{"Total Lunch Bookings:", strconv.Itoa(s.TotalLunchBookings)},
		{"Total Dinner Bookings:", strconv.Itoa(s.TotalDinnerBookings)},
		{},
		header,
	}

	for _, e := range s.Bookings {
		rows = append(rows, []string{
			e.UserName,
			strconv.Itoa(e.RoomNumber),
			strings.Join(e.LunchPick, ", "),
			strings.Join(e.DinnerPick, ", "),
		})
	}

	return rows
}

func Render(s *Summary, format Format) (*File, error) {
	var (
		body []byte
		err  error
	)

	switch format {
	case FormatCSV:
		body, err = renderCSV(s)
	case FormatXLSX:
		body, err = renderXLSX(s)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, err
	}

	return &File{
		Name:        fmt.Sprintf("meal_list_%s.%s", s.BookingDate, format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

func renderCSV(s *Summary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.WriteAll(layout(s)); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	return buf.Bytes(), nil
}

func renderXLSX(s *Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	for i, row := range layout(s) {
		if len(row) == 0 {
			continue
		}

		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		// room numbers stay numeric so the sheet sorts them properly
		if i > headerRow {
			cells[1] = s.Bookings[i-headerRow-1].RoomNumber
		}

		start, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetName, start, &cells); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}

		if i == 0 || i == headerRow {
			end, _ := excelize.CoordinatesToCellName(len(row), i+1)
			if err := f.SetCellStyle(sheetName, start, end, bold); err != nil {
				return nil, fmt.Errorf("style row %d: %w", i+1, err)
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 28); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "B", 14); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "C", "D", 32); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}

	return buf.Bytes(), nil
}
