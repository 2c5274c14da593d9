package collector

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// cpuReading holds the cumulative jiffies from one /proc/stat read.
type cpuReading struct {
	total int64
	idle  int64
	cores int
}

// parseCPUReading parses /proc/stat into cumulative jiffy counters.
func parseCPUReading(procStat string) (*cpuReading, error) {
	r := &cpuReading{}
	scanner := bufio.NewScanner(strings.NewReader(procStat))

	for scanner.Scan() {
		line := scanner.Text()

		// Count individual CPU cores (cpu0, cpu1, etc.)
		if strings.HasPrefix(line, "cpu") && len(line) > 3 && line[3] >= '0' && line[3] <= '9' {
			r.cores++
			continue
		}

		// Aggregate CPU line for usage calculation
		if strings.HasPrefix(line, "cpu ") {
			fields := strings.Fields(line)
			if len(fields) < 5 {
				return nil, fmt.Errorf("invalid /proc/stat cpu line: %s", line)
			}

			// Fields: cpu user nice system idle iowait irq softirq steal guest guest_nice
			for i := 1; i < len(fields); i++ {
				val, err := strconv.ParseInt(fields[i], 10, 64)
				if err != nil {
					return nil, fmt.Errorf("failed to parse cpu field %d: %w", i, err)
				}
				r.total += val

				// idle is field 4 (index 4), iowait is field 5 (index 5)
				if i == 4 || i == 5 {
					r.idle += val
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning /proc/stat: %w", err)
	}

	if r.total == 0 {
		return nil, fmt.Errorf("no aggregate cpu line in /proc/stat output")
	}

	return r, nil
}

// cumulativePercent is the since-boot CPU usage from a single reading.
// Used as the fallback when two readings don't produce a usable delta.
func (r *cpuReading) cumulativePercent() float64 {
	if r.total == 0 {
		return 0
	}
	return float64(r.total-r.idle) / float64(r.total) * 100
}

// parseLoadAvg parses /proc/loadavg into 1/5/15-minute load averages.
func parseLoadAvg(procLoadavg string) ([3]float64, error) {
	var loadAvg [3]float64

	fields := strings.Fields(strings.TrimSpace(procLoadavg))
	if len(fields) < 3 {
		return loadAvg, fmt.Errorf("unexpected /proc/loadavg output: %q", procLoadavg)
	}

	for i := 0; i < 3; i++ {
		val, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return loadAvg, fmt.Errorf("failed to parse loadavg field %d: %w", i, err)
		}
		loadAvg[i] = val
	}

	return loadAvg, nil
}

// parseMemory parses /proc/meminfo into MemoryMetrics.
func parseMemory(procMeminfo string) (*MemoryMetrics, error) {
	scanner := bufio.NewScanner(strings.NewReader(procMeminfo))

	var memTotal, memFree, memAvailable, buffers, cached int64
	foundFields := 0

	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		// Values in /proc/meminfo are in kB
		key := strings.TrimSuffix(parts[0], ":")
		val, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			continue
		}

		valBytes := val * 1024

		switch key {
		case "MemTotal":
			memTotal = valBytes
			foundFields++
		case "MemFree":
			memFree = valBytes
			foundFields++
		case "MemAvailable":
			memAvailable = valBytes
			foundFields++
		case "Buffers":
			buffers = valBytes
			foundFields++
		case "Cached":
			cached = valBytes
			foundFields++
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning /proc/meminfo: %w", err)
	}

	if foundFields < 3 {
		return nil, fmt.Errorf("insufficient memory info found in /proc/meminfo")
	}

	m := &MemoryMetrics{
		TotalBytes:     memTotal,
		AvailableBytes: memAvailable,
		UsedBytes:      memTotal - memFree - buffers - cached,
	}
	if m.TotalBytes > 0 {
		m.UsedPercent = float64(m.UsedBytes) / float64(m.TotalBytes) * 100
	}

	return m, nil
}

// netReading holds the cumulative byte counters from one /proc/net/dev read.
type netReading struct {
	rxBytes map[string]int64
	txBytes map[string]int64
}

// parseNetReading parses /proc/net/dev into per-interface byte counters.
// The loopback interface is excluded; it only inflates the totals.
func parseNetReading(procNetDev string) (*netReading, error) {
	r := &netReading{
		rxBytes: make(map[string]int64),
		txBytes: make(map[string]int64),
	}
	scanner := bufio.NewScanner(strings.NewReader(procNetDev))

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Skip header lines (first two lines)
		if lineNum <= 2 {
			continue
		}

		// Format: "  iface: bytes packets errs drop fifo frame compressed multicast | bytes packets..."
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		name := strings.TrimSpace(parts[0])
		if name == "lo" {
			continue
		}

		fields := strings.Fields(parts[1])

		// Need at least 16 fields (8 receive + 8 transmit)
		if len(fields) < 16 {
			continue
		}

		rx, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rx bytes for %s: %w", name, err)
		}

		tx, err := strconv.ParseInt(fields[8], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse tx bytes for %s: %w", name, err)
		}

		r.rxBytes[name] = rx
		r.txBytes[name] = tx
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning /proc/net/dev: %w", err)
	}

	return r, nil
}

// parseDisk parses `df -kP` output into per-mount usage for device-backed
// filesystems plus the aggregate. Pseudo filesystems (tmpfs, overlay, ...)
// are skipped the same way the report skips them: only /dev/ sources count.
func parseDisk(dfOutput string) (*DiskMetrics, error) {
	d := &DiskMetrics{}
	scanner := bufio.NewScanner(strings.NewReader(dfOutput))

	sawHeader := false
	for scanner.Scan() {
		line := scanner.Text()

		if !sawHeader {
			// POSIX df header: Filesystem 1024-blocks Used Available Capacity Mounted on
			if strings.HasPrefix(line, "Filesystem") {
				sawHeader = true
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 6 {
			continue
		}

		fs := fields[0]
		if !strings.HasPrefix(fs, "/dev/") {
			continue
		}

		total, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse df blocks for %s: %w", fs, err)
		}
		used, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse df used for %s: %w", fs, err)
		}
		free, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse df available for %s: %w", fs, err)
		}

		mount := MountUsage{
			Filesystem: fs,
			MountPoint: fields[5],
			TotalBytes: total * 1024,
			UsedBytes:  used * 1024,
			FreeBytes:  free * 1024,
		}

		d.Mounts = append(d.Mounts, mount)
		d.TotalBytes += mount.TotalBytes
		d.UsedBytes += mount.UsedBytes
		d.FreeBytes += mount.FreeBytes
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning df output: %w", err)
	}

	if !sawHeader {
		return nil, fmt.Errorf("no df header in output")
	}

	return d, nil
}

// splitSections splits batched command output on the separator lines.
func splitSections(output string) []string {
	sections := strings.Split(output, OutputSeparator+"\n")
	for i := range sections {
		sections[i] = strings.TrimSpace(sections[i])
	}
	return sections
}
