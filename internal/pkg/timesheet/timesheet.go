package timesheet

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName = "Timesheet"

	titleRow  = 1
	periodRow = 2
	headerRow = 4
	firstRow  = 5

	// worker code and name come before the day columns
	fixedCols = 2
)

// Writer renders an attendance grid as an .xlsx workbook.
type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

// Write implements attendance.TimesheetWriter.
func (Writer) Write(w io.Writer, companyName string, grid attendance.Grid) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	s := &sheet{f: f}
	s.layout(companyName, grid)
	if s.err != nil {
		return s.err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// sheet keeps the first excelize error so the layout code reads straight through.
type sheet struct {
	f   *excelize.File
	err error
}

func (s *sheet) cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil && s.err == nil {
		s.err = err
	}
	return name
}

func (s *sheet) set(col, row int, value interface{}) {
	name := s.cell(col, row)
	if s.err != nil {
		return
	}
	s.err = s.f.SetCellValue(SheetName, name, value)
}

func (s *sheet) style(fromCol, fromRow, toCol, toRow int, style *excelize.Style) {
	if s.err != nil {
		return
	}
	id, err := s.f.NewStyle(style)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetCellStyle(SheetName, s.cell(fromCol, fromRow), s.cell(toCol, toRow), id)
}

func (s *sheet) width(fromCol, toCol int, width float64) {
	if s.err != nil {
		return
	}
	from, err := excelize.ColumnNumberToName(fromCol)
	if err != nil {
		s.err = err
		return
	}
	to, err := excelize.ColumnNumberToName(toCol)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetColWidth(SheetName, from, to, width)
}

func (s *sheet) layout(companyName string, grid attendance.Grid) {
	days := len(grid.Dates)
	firstTotal := fixedCols + days + 1
	lastCol := firstTotal + len(attendance.Statuses)

	s.set(1, titleRow, fmt.Sprintf("%s Timesheet - %s", companyName, grid.Cycle.Label))
	if s.err == nil {
		s.err = s.f.MergeCell(SheetName, s.cell(1, titleRow), s.cell(lastCol, titleRow))
	}
	s.style(1, titleRow, lastCol, titleRow, &excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	s.set(1, periodRow, fmt.Sprintf("Period: %s to %s",
		cycle.FormatDate(grid.Cycle.StartDate), cycle.FormatDate(grid.Cycle.EndDate)))

	s.set(1, headerRow, "Code")
	s.set(2, headerRow, "Worker")
	for i, d := range grid.Dates {
		s.set(fixedCols+1+i, headerRow, fmt.Sprintf("%d %s", d.Day(), d.Weekday().String()[:3]))
	}
	for i, st := range attendance.Statuses {
		s.set(firstTotal+i, headerRow, string(st))
	}
	s.set(lastCol, headerRow, attendance.OvertimeKey)
	s.style(1, headerRow, lastCol, headerRow, &excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for r, row := range grid.Rows {
		y := firstRow + r
		s.set(1, y, row.Worker.WorkerCode)
		s.set(2, y, row.Worker.FullName)
		for i, c := range row.Cells {
			if code := c.Display(); code != "" {
				s.set(fixedCols+1+i, y, string(code))
			}
		}
		for i, st := range attendance.Statuses {
			s.set(firstTotal+i, y, row.Totals.Counts[st])
		}
		s.set(lastCol, y, row.Totals.Overtime)
	}

	lastRow := firstRow + len(grid.Rows) - 1
	if lastRow < firstRow {
		lastRow = firstRow
	}
	for i, d := range grid.Dates {
		if cycle.IsWeekend(d) {
			s.style(fixedCols+1+i, headerRow+1, fixedCols+1+i, lastRow, &excelize.Style{
				Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E7E6E6"}, Pattern: 1},
				Alignment: &excelize.Alignment{Horizontal: "center"},
			})
		}
	}

	s.width(1, 1, 12)
	s.width(2, 2, 28)
	if days > 0 {
		s.width(fixedCols+1, fixedCols+days, 7)
	}
	s.width(firstTotal, lastCol, 6)
}
