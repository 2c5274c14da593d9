package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rileyhilliard/fleetreport/internal/batch"
	"github.com/rileyhilliard/fleetreport/internal/collector"
	"github.com/rileyhilliard/fleetreport/internal/config"
	"github.com/rileyhilliard/fleetreport/internal/errors"
)

const gib = int64(1024 * 1024 * 1024)

func sampleFor(host string) *collector.Sample {
	rx := 2048.0
	tx := 1024.0
	return &collector.Sample{
		Host:      host,
		Hostname:  "web-1",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		CPU: collector.CPUMetrics{
			Cores:   4,
			Percent: 15.5,
			LoadAvg: [3]float64{1.25, 0.75, 0.5},
		},
		Memory: collector.MemoryMetrics{
			TotalBytes:     16 * gib,
			UsedBytes:      8 * gib,
			AvailableBytes: 8 * gib,
			UsedPercent:    50,
		},
		Network: collector.NetworkMetrics{
			RxBytesPerSec: &rx,
			TxBytesPerSec: &tx,
		},
		Disk: collector.DiskMetrics{
			TotalBytes: 100 * gib,
			UsedBytes:  40 * gib,
			FreeBytes:  60 * gib,
		},
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	results := []batch.Result{
		{
			Profile: config.HostProfile{Host: "web-1.example.com"},
			Sample:  sampleFor("web-1.example.com"),
		},
	}
	require.NoError(t, Write(path, results))

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, Header, rows[0])

	row := rows[1]
	assert.Equal(t, "web-1.example.com", row[0])
	assert.Equal(t, "web-1", row[1])
	assert.Equal(t, "2025-06-01 12:00:00", row[2])
	assert.Equal(t, "ok", row[3])
	assert.Equal(t, "4", row[4])
	assert.Equal(t, "15.5", row[5])
	assert.Equal(t, "1.25", row[6])
	assert.Equal(t, "16", row[9])
	assert.Equal(t, "8", row[10])
	assert.Equal(t, "50", row[12])
	assert.Equal(t, "2", row[13])
	assert.Equal(t, "1", row[14])
	assert.Equal(t, "100", row[15])
	assert.Equal(t, "60", row[17])
}

func TestWriteErrorRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	results := []batch.Result{
		{
			Profile: config.HostProfile{Host: "good"},
			Sample:  sampleFor("good"),
		},
		{
			Profile:   config.HostProfile{Host: "down.example.com"},
			Timestamp: time.Date(2025, 6, 1, 12, 0, 30, 0, time.UTC),
			Err:       errors.New(errors.ErrConnect, "Can't reach 'down.example.com'", ""),
		},
	}
	require.NoError(t, Write(path, results))

	rows := readRows(t, path)
	require.Len(t, rows, 3)

	errRow := rows[2]
	assert.Equal(t, "down.example.com", errRow[0])
	assert.Equal(t, "2025-06-01 12:00:30", errRow[2])
	assert.Equal(t, "error", errRow[3])
	require.Len(t, errRow, len(Header))
	assert.Contains(t, errRow[18], "CONNECT")
	assert.Contains(t, errRow[18], "Can't reach")
	// Metric cells stay empty on an error row.
	assert.Empty(t, errRow[4])
	assert.Empty(t, errRow[9])
}

func TestWriteUnknownRatesLeftEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	s := sampleFor("web-1")
	s.Network.RxBytesPerSec = nil
	s.Network.TxBytesPerSec = nil

	results := []batch.Result{{Profile: config.HostProfile{Host: "web-1"}, Sample: s}}
	require.NoError(t, Write(path, results))

	rows := readRows(t, path)
	row := rows[1]
	assert.Empty(t, row[13])
	assert.Empty(t, row[14])
	// Neighbouring cells are unaffected.
	assert.Equal(t, "50", row[12])
	assert.Equal(t, "100", row[15])
}

func TestWriteReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	results := []batch.Result{
		{Profile: config.HostProfile{Host: "web-1"}, Sample: sampleFor("web-1")},
	}
	require.NoError(t, Write(path, results))

	rows := readRows(t, path)
	require.Len(t, rows, 2)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.xlsx", entries[0].Name())
}

func TestWriteUnwritableDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.xlsx")

	err := Write(path, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrReport))
}

func TestWriteEmptyResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, Write(path, nil))

	rows := readRows(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, Header, rows[0])
}

func TestDefaultFilename(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "server-report-20250601-0905.xlsx", DefaultFilename(now))
}
