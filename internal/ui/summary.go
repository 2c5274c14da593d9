package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HostStatus is one host's outcome for summary display. This mirrors
// batch.Result to avoid pulling collection types into the UI layer.
type HostStatus struct {
	Host    string
	OK      bool
	Detail  string // one-line metric digest on success
	Message string // short failure reason on error
}

// RunSummary holds the outcome of a collection run for rendering.
type RunSummary struct {
	Hosts      []HostStatus
	ReportPath string
}

// Color handling is left to lipgloss, which degrades to plain text when
// stdout is not a terminal.

// SummaryRenderer formats collection run summaries for terminal display.
type SummaryRenderer struct {
	errorStyle   lipgloss.Style
	successStyle lipgloss.Style
	pathStyle    lipgloss.Style
	mutedStyle   lipgloss.Style
}

// NewSummaryRenderer creates a new summary renderer with default styles.
func NewSummaryRenderer() *SummaryRenderer {
	return &SummaryRenderer{
		errorStyle:   lipgloss.NewStyle().Foreground(ColorError),
		successStyle: lipgloss.NewStyle().Foreground(ColorSuccess),
		pathStyle:    lipgloss.NewStyle().Foreground(ColorInfo),
		mutedStyle:   lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// RenderSummary generates a formatted run summary with default styles.
func RenderSummary(summary *RunSummary) string {
	r := NewSummaryRenderer()
	return r.Render(summary)
}

// Render generates the formatted summary string: one line per host, a
// totals line, and the report location.
func (r *SummaryRenderer) Render(summary *RunSummary) string {
	if summary == nil || len(summary.Hosts) == 0 {
		return ""
	}

	var sb strings.Builder

	ok := 0
	for _, h := range summary.Hosts {
		if h.OK {
			ok++
			sb.WriteString(r.successStyle.Render(SymbolSuccess))
			sb.WriteString(" ")
			sb.WriteString(h.Host)
			if h.Detail != "" {
				sb.WriteString("  ")
				sb.WriteString(r.mutedStyle.Render(h.Detail))
			}
		} else {
			sb.WriteString(r.errorStyle.Render(SymbolFail))
			sb.WriteString(" ")
			sb.WriteString(h.Host)
			if h.Message != "" {
				sb.WriteString("  ")
				sb.WriteString(r.mutedStyle.Render(h.Message))
			}
		}
		sb.WriteString("\n")
	}

	failed := len(summary.Hosts) - ok
	sb.WriteString("\n")
	if failed > 0 {
		sb.WriteString(r.errorStyle.Render(
			fmt.Sprintf("%d of %d hosts failed", failed, len(summary.Hosts))))
	} else {
		hostWord := "host"
		if ok != 1 {
			hostWord = "hosts"
		}
		sb.WriteString(r.successStyle.Render(
			fmt.Sprintf("%d %s collected", ok, hostWord)))
	}
	sb.WriteString("\n")

	if summary.ReportPath != "" {
		sb.WriteString("Report written to ")
		sb.WriteString(r.pathStyle.Render(summary.ReportPath))
		sb.WriteString("\n")
	}

	return sb.String()
}
