package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/fleetreport/internal/config"
	"github.com/rileyhilliard/fleetreport/internal/errors"
	"github.com/rileyhilliard/fleetreport/internal/logger"
	"github.com/rileyhilliard/fleetreport/pkg/sshutil"
)

// Dialer opens an SSH connection for one host profile.
// The production dialer wraps sshutil.Dial; tests substitute a mock.
type Dialer func(profile config.HostProfile) (sshutil.SSHClient, error)

// NewDialer returns a Dialer backed by sshutil using the given settings.
func NewDialer(dialTimeout time.Duration, strictHostKeys bool) Dialer {
	return func(profile config.HostProfile) (sshutil.SSHClient, error) {
		return sshutil.Dial(sshutil.Options{
			Host:           profile.Host,
			Port:           profile.Port,
			Username:       profile.Username,
			Password:       profile.Password,
			StrictHostKeys: strictHostKeys,
		}, dialTimeout)
	}
}

// Collector gathers metrics from remote hosts, one scoped SSH connection
// per host per run.
type Collector struct {
	dial      Dialer
	sampleGap time.Duration
	retries   int
	log       logger.Logger

	// Injectable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Collector. sampleGap is the delay between the two counter
// readings; retries is how many extra dial attempts follow a connect failure.
func New(dial Dialer, sampleGap time.Duration, retries int, log logger.Logger) *Collector {
	if log == nil {
		log = logger.Noop()
	}
	return &Collector{
		dial:      dial,
		sampleGap: sampleGap,
		retries:   retries,
		log:       log,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// Collect gathers one Sample from the given host. The SSH connection is
// opened at the start and closed on every exit path. A host yields exactly
// one sample or one error, never a partial sample.
func (c *Collector) Collect(ctx context.Context, profile config.HostProfile) (*Sample, error) {
	client, err := c.dialWithRetry(ctx, profile)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	sample := &Sample{
		Host:      profile.Host,
		Timestamp: c.now(),
	}

	firstOut, err := c.run(ctx, client, FirstReadingCommand())
	if err != nil {
		return nil, err
	}
	firstAt := c.now()

	first, err := parseFirstReading(firstOut, sample)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			fmt.Sprintf("Couldn't parse metrics output from '%s'", profile.Host),
			"The host may not expose the expected /proc files (Linux only).")
	}

	if err := c.sleep(ctx, c.sampleGap); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Collection interrupted for '%s'", profile.Host), "")
	}

	secondOut, err := c.run(ctx, client, SecondReadingCommand())
	if err != nil {
		return nil, err
	}
	elapsed := c.now().Sub(firstAt)

	second, err := parseSecondReading(secondOut)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			fmt.Sprintf("Couldn't parse metrics output from '%s'", profile.Host),
			"The host may not expose the expected /proc files (Linux only).")
	}

	sample.CPU.Percent = cpuPercent(first.cpu, second.cpu)
	sample.Network = networkRates(first.net, second.net, elapsed)

	if sample.Network.RxBytesPerSec == nil || sample.Network.TxBytesPerSec == nil {
		c.log.Debug("network counters reset on %s; rate reported as unknown", profile.Host)
	}

	return sample, nil
}

// dialWithRetry dials the host, retrying connect-level failures only.
// Auth failures surface immediately: retrying a bad password just
// triggers lockouts.
func (c *Collector) dialWithRetry(ctx context.Context, profile config.HostProfile) (sshutil.SSHClient, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConnect,
				fmt.Sprintf("Collection timed out before reaching '%s'", profile.Host), "")
		}

		client, err := c.dial(profile)
		if err == nil {
			return client, nil
		}
		lastErr = err

		if !errors.IsCode(err, errors.ErrConnect) || attempt == c.retries {
			break
		}
		c.log.Warn("connect to %s failed (attempt %d/%d), retrying", profile.Host, attempt+1, c.retries+1)
	}

	return nil, lastErr
}

// run executes one batched command and enforces the exec error contract.
func (c *Collector) run(ctx context.Context, client sshutil.SSHClient, cmd string) (string, error) {
	stdout, stderr, exitCode, err := client.ExecContext(ctx, cmd)
	if err != nil {
		if errors.Code(err) != "" {
			return "", err
		}
		return "", errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Failed to run metrics command on '%s'", client.GetHost()),
			"Check the connection is still alive.")
	}
	if exitCode != 0 {
		detail := strings.TrimSpace(string(stderr))
		if detail == "" {
			detail = fmt.Sprintf("exit code %d", exitCode)
		}
		return "", errors.New(errors.ErrExec,
			fmt.Sprintf("Metrics command failed on '%s': %s", client.GetHost(), detail),
			"Check the remote shell provides cat, df, and uname.")
	}
	return string(stdout), nil
}

// firstReading bundles the parsed baseline counters.
type firstReading struct {
	cpu *cpuReading
	net *netReading
}

// parseFirstReading parses the baseline reading and fills the static parts
// of the sample (load, memory, disk, hostname).
func parseFirstReading(output string, sample *Sample) (*firstReading, error) {
	sections := splitSections(output)
	if len(sections) < 6 {
		return nil, fmt.Errorf("expected 6 output sections, got %d", len(sections))
	}

	cpu, err := parseCPUReading(sections[0])
	if err != nil {
		return nil, err
	}
	sample.CPU.Cores = cpu.cores

	loadAvg, err := parseLoadAvg(sections[1])
	if err != nil {
		return nil, err
	}
	sample.CPU.LoadAvg = loadAvg

	memory, err := parseMemory(sections[2])
	if err != nil {
		return nil, err
	}
	sample.Memory = *memory

	net, err := parseNetReading(sections[3])
	if err != nil {
		return nil, err
	}

	disk, err := parseDisk(sections[4])
	if err != nil {
		return nil, err
	}
	sample.Disk = *disk

	sample.Hostname = strings.TrimSpace(sections[5])

	return &firstReading{cpu: cpu, net: net}, nil
}

// secondReading bundles the parsed delta counters.
type secondReading struct {
	cpu *cpuReading
	net *netReading
}

// parseSecondReading parses the delta reading.
func parseSecondReading(output string) (*secondReading, error) {
	sections := splitSections(output)
	if len(sections) < 2 {
		return nil, fmt.Errorf("expected 2 output sections, got %d", len(sections))
	}

	cpu, err := parseCPUReading(sections[0])
	if err != nil {
		return nil, err
	}

	net, err := parseNetReading(sections[1])
	if err != nil {
		return nil, err
	}

	return &secondReading{cpu: cpu, net: net}, nil
}

// sleepContext sleeps for d unless the context is done first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
