package collector

import "time"

// Sample contains one collection run's measurements for one host.
type Sample struct {
	Host      string // host address from the profile
	Hostname  string // hostname reported by the machine itself
	Timestamp time.Time
	CPU       CPUMetrics
	Memory    MemoryMetrics
	Network   NetworkMetrics
	Disk      DiskMetrics
}

// CPUMetrics contains CPU usage information.
type CPUMetrics struct {
	Cores   int
	Percent float64
	LoadAvg [3]float64
}

// MemoryMetrics contains memory usage information in bytes.
type MemoryMetrics struct {
	TotalBytes     int64
	UsedBytes      int64
	AvailableBytes int64
	UsedPercent    float64
}

// NetworkMetrics contains aggregate throughput across physical interfaces.
// A nil rate means the counter moved backwards between readings (wrap or
// reset) and the rate is unknown for this run.
type NetworkMetrics struct {
	RxBytesPerSec *float64
	TxBytesPerSec *float64
}

// DiskMetrics contains disk usage aggregated across device-backed
// filesystems, plus the per-mount breakdown.
type DiskMetrics struct {
	TotalBytes int64
	UsedBytes  int64
	FreeBytes  int64
	Mounts     []MountUsage
}

// MountUsage is the usage of a single mounted filesystem.
type MountUsage struct {
	Filesystem string
	MountPoint string
	TotalBytes int64
	UsedBytes  int64
	FreeBytes  int64
}
