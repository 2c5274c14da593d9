// Package report serializes a collection run into an xlsx spreadsheet,
// one row per host. Numeric cells are written as numbers so the report
// supports downstream aggregation; unknown values stay empty.
package report

import (
	stderrors "errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/rileyhilliard/fleetreport/internal/batch"
	"github.com/rileyhilliard/fleetreport/internal/errors"
	"github.com/xuri/excelize/v2"
)

// SheetName is the single sheet holding the metric rows.
const SheetName = "Metrics"

// Header is the fixed column set, in order.
var Header = []string{
	"Host",
	"Hostname",
	"Collected At",
	"Status",
	"CPU Cores",
	"CPU Usage %",
	"Load 1m",
	"Load 5m",
	"Load 15m",
	"Memory Total (GB)",
	"Memory Used (GB)",
	"Memory Available (GB)",
	"Memory Usage %",
	"Net RX (KB/s)",
	"Net TX (KB/s)",
	"Disk Total (GB)",
	"Disk Used (GB)",
	"Disk Free (GB)",
	"Error",
}

const timestampLayout = "2006-01-02 15:04:05"

// DefaultFilename returns the timestamped default report name.
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("server-report-%s.xlsx", now.Format("20060102-1504"))
}

// Write serializes the results to an xlsx file at path. The file is written
// to a temporary name in the destination directory and renamed into place,
// so a failure partway never leaves a truncated report behind.
func Write(path string, results []batch.Result) error {
	f, err := buildWorkbook(results)
	if err != nil {
		return err
	}
	defer f.Close()

	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%d-%s", os.Getpid(), filepath.Base(path)))

	if err := f.SaveAs(tmp); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapWithCode(err, errors.ErrReport,
			fmt.Sprintf("Couldn't write report to %s", path),
			"Check the destination directory exists and is writable.")
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapWithCode(err, errors.ErrReport,
			fmt.Sprintf("Couldn't move report into place at %s", path),
			"Check the destination directory is writable.")
	}

	return nil
}

// buildWorkbook assembles the in-memory workbook: bold header plus one row
// per result, error results included as error rows.
func buildWorkbook(results []batch.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, wrapBuildErr(err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, wrapBuildErr(err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, wrapBuildErr(err)
	}
	lastCol, err := excelize.CoordinatesToCellName(len(Header), 1)
	if err != nil {
		return nil, wrapBuildErr(err)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol, boldStyle); err != nil {
		return nil, wrapBuildErr(err)
	}

	for i, res := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, wrapBuildErr(err)
		}
		row := resultRow(res)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, wrapBuildErr(err)
		}
	}

	return f, nil
}

// resultRow converts one result into a row matching Header. Cells left nil
// stay empty in the sheet, which is how unknown rates are represented.
func resultRow(res batch.Result) []interface{} {
	row := make([]interface{}, len(Header))
	row[0] = res.Profile.Host

	if res.Err != nil {
		if !res.Timestamp.IsZero() {
			row[2] = res.Timestamp.Format(timestampLayout)
		}
		row[3] = "error"
		row[18] = errorMessage(res.Err)
		return row
	}

	s := res.Sample
	row[1] = s.Hostname
	row[2] = s.Timestamp.Format(timestampLayout)
	row[3] = "ok"
	row[4] = s.CPU.Cores
	row[5] = round2(s.CPU.Percent)
	row[6] = s.CPU.LoadAvg[0]
	row[7] = s.CPU.LoadAvg[1]
	row[8] = s.CPU.LoadAvg[2]
	row[9] = round2(gb(s.Memory.TotalBytes))
	row[10] = round2(gb(s.Memory.UsedBytes))
	row[11] = round2(gb(s.Memory.AvailableBytes))
	row[12] = round2(s.Memory.UsedPercent)
	if s.Network.RxBytesPerSec != nil {
		row[13] = round2(*s.Network.RxBytesPerSec / 1024)
	}
	if s.Network.TxBytesPerSec != nil {
		row[14] = round2(*s.Network.TxBytesPerSec / 1024)
	}
	row[15] = round2(gb(s.Disk.TotalBytes))
	row[16] = round2(gb(s.Disk.UsedBytes))
	row[17] = round2(gb(s.Disk.FreeBytes))

	return row
}

// errorMessage renders the row-level failure as a single line.
func errorMessage(err error) string {
	var fe *errors.Error
	if stderrors.As(err, &fe) {
		if fe.Code != "" {
			return fmt.Sprintf("%s: %s", fe.Code, fe.Message)
		}
		return fe.Message
	}
	return err.Error()
}

func wrapBuildErr(err error) error {
	return errors.WrapWithCode(err, errors.ErrReport,
		"Couldn't assemble report workbook", "")
}

func gb(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024 * 1024)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
