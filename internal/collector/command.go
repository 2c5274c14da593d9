package collector

// Separator used to split batched command output.
const OutputSeparator = "---"

// The collector takes two time-separated readings per host. Each reading is
// one batched command so a host costs two SSH execs total, regardless of how
// many metrics are sampled. Sections are separated by "---".
//
// First reading sections:
//  0. /proc/stat     - CPU jiffies (baseline for the delta)
//  1. /proc/loadavg  - load averages
//  2. /proc/meminfo  - memory information
//  3. /proc/net/dev  - network counters (baseline for the delta)
//  4. df -kP         - disk usage, POSIX format, 1K blocks
//  5. uname -n       - hostname
//
// Second reading sections:
//  0. /proc/stat     - CPU jiffies
//  1. /proc/net/dev  - network counters

// FirstReadingCommand returns the batched command for the baseline reading.
func FirstReadingCommand() string {
	return `cat /proc/stat; echo "---"; cat /proc/loadavg; echo "---"; cat /proc/meminfo; echo "---"; cat /proc/net/dev; echo "---"; df -kP 2>/dev/null; echo "---"; uname -n`
}

// SecondReadingCommand returns the batched command for the delta reading.
func SecondReadingCommand() string {
	return `cat /proc/stat; echo "---"; cat /proc/net/dev`
}
