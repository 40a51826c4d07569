package timesheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func ptr[T any](v T) *T { return &v }

func TestWriter_Write(t *testing.T) {
	c := cycle.Current(time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC))
	store := attendance.NewStoreFrom([]attendance.Entry{
		{ID: "e1", WorkerID: "w1", Date: c.StartDate, Status: attendance.StatusPresent, OvertimeHours: ptr(2.5)},
		{ID: "e2", WorkerID: "w1", Date: c.StartDate.AddDate(0, 0, 1), Status: attendance.StatusSickLeave},
	})
	grid := attendance.BuildGrid(attendance.GridInput{
		Cycle:   c,
		Workers: []attendance.RowWorker{{ID: "w1", FullName: "Omar Saleh", WorkerCode: "W-01"}},
		Entries: store,
		Role:    user.RoleHR,
		Today:   c.StartDate,
	})

	var buf bytes.Buffer
	require.NoError(t, NewWriter().Write(&buf, "Gulf Builders", grid))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	get := func(col, row int) string {
		name, err := excelize.CoordinatesToCellName(col, row)
		require.NoError(t, err)
		v, err := f.GetCellValue(SheetName, name)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Gulf Builders Timesheet - Dec-Jan 2024", get(1, titleRow))
	assert.Equal(t, "Period: 2023-12-26 to 2024-01-25", get(1, periodRow))
	assert.Equal(t, "26 Tue", get(3, headerRow))

	assert.Equal(t, "W-01", get(1, firstRow))
	assert.Equal(t, "Omar Saleh", get(2, firstRow))
	assert.Equal(t, "P", get(3, firstRow))
	assert.Equal(t, "SL", get(4, firstRow))
	assert.Equal(t, "", get(5, firstRow))
	// 2023-12-31 is the first Sunday of the cycle
	assert.Equal(t, "W", get(8, firstRow))

	firstTotal := fixedCols + len(grid.Dates) + 1
	assert.Equal(t, "P", get(firstTotal, headerRow))
	assert.Equal(t, "1", get(firstTotal, firstRow))
	assert.Equal(t, "0", get(firstTotal+1, firstRow))
	assert.Equal(t, "1", get(firstTotal+3, firstRow))
	assert.Equal(t, attendance.OvertimeKey, get(firstTotal+len(attendance.Statuses), headerRow))
	assert.Equal(t, "2.5", get(firstTotal+len(attendance.Statuses), firstRow))
}

func TestWriter_EmptyRoster(t *testing.T) {
	grid := attendance.BuildGrid(attendance.GridInput{
		Cycle: cycle.Current(time.Date(2024, time.February, 27, 0, 0, 0, 0, time.UTC)),
	})

	var buf bytes.Buffer
	require.NoError(t, NewWriter().Write(&buf, "Empty Co", grid))
	assert.NotZero(t, buf.Len())
}
