// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/petar-djukic/docdrift/pkg/types"
)

// Coverage health thresholds in percent.
const (
	healthyCoverage = 80.0
	fairCoverage    = 50.0
)

const barWidth = 20

// TextOptions configures the text report.
type TextOptions struct {
	Color        bool   // Emit ANSI styling when the terminal supports it
	Root         string // Directory issue paths are relative to; needed for ContextLines
	ContextLines int    // Source lines shown above and below each issue; 0 disables
	MaxIssues    int    // Issues listed before truncating; 0 lists all
}

var severityOrder = []string{"high", "medium", "low"}

type palette struct {
	title, section, dim lipgloss.Style
	good, fair, poor    lipgloss.Style
	severity            map[string]lipgloss.Style
}

func newPalette(color bool) palette {
	r := lipgloss.NewRenderer(io.Discard)
	if color {
		r = lipgloss.DefaultRenderer()
	}
	good := r.NewStyle().Foreground(lipgloss.Color("42"))
	fair := r.NewStyle().Foreground(lipgloss.Color("220"))
	poor := r.NewStyle().Foreground(lipgloss.Color("196"))
	return palette{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("241")),
		good:    good,
		fair:    fair,
		poor:    poor,
		severity: map[string]lipgloss.Style{
			"high":   poor.Bold(true),
			"medium": fair.Bold(true),
			"low":    r.NewStyle().Bold(true),
		},
	}
}

func (p palette) health(percent float64) lipgloss.Style {
	switch {
	case percent >= healthyCoverage:
		return p.good
	case percent >= fairCoverage:
		return p.fair
	default:
		return p.poor
	}
}

// RenderText formats a Result for people: overall coverage with a bar,
// per-file coverage, clusters and issues grouped by severity.
func RenderText(res types.Result, opts TextOptions) string {
	p := newPalette(opts.Color)
	var buf strings.Builder

	c := res.Coverage
	buf.WriteString(p.title.Render("Documentation coverage"))
	buf.WriteString("\n\n")
	fmt.Fprintf(&buf, "  %s %s  %d of %d entities documented\n",
		p.health(c.CoveragePercent).Render(fmt.Sprintf("%5.1f%%", c.CoveragePercent)),
		p.health(c.CoveragePercent).Render(bar(c.CoveragePercent)),
		c.DocumentedEntities, c.TotalEntities)
	fmt.Fprintf(&buf, "  %d references, %d broken\n\n", c.TotalReferences, c.BrokenReferences)

	if len(res.CoverageByFile) > 0 {
		buf.WriteString(p.section.Render("Coverage by file"))
		buf.WriteString("\n")
		files := make([]string, 0, len(res.CoverageByFile))
		width := 0
		for f := range res.CoverageByFile {
			files = append(files, f)
			width = max(width, len(f))
		}
		sort.Strings(files)
		for _, f := range files {
			pct := res.CoverageByFile[f]
			fmt.Fprintf(&buf, "  %-*s  %s\n", width, f, p.health(pct).Render(fmt.Sprintf("%5.1f%%", pct)))
		}
		buf.WriteString("\n")
	}

	if len(res.Clusters) > 0 {
		buf.WriteString(p.section.Render("Clusters"))
		buf.WriteString("\n")
		for i, cl := range res.Clusters {
			fmt.Fprintf(&buf, "  %d. %s\n", i+1, strings.Join(cl, ", "))
		}
		buf.WriteString("\n")
	}

	writeIssues(&buf, p, res.Issues, opts)
	return buf.String()
}

func writeIssues(buf *strings.Builder, p palette, issues []types.Issue, opts TextOptions) {
	if len(issues) == 0 {
		buf.WriteString(p.good.Render("No issues found."))
		buf.WriteString("\n")
		return
	}
	buf.WriteString(p.section.Render(fmt.Sprintf("Issues (%d)", len(issues))))
	buf.WriteString("\n")

	shown := issues
	if opts.MaxIssues > 0 && len(shown) > opts.MaxIssues {
		shown = shown[:opts.MaxIssues]
	}
	groups := make(map[string][]types.Issue)
	for _, is := range shown {
		groups[is.Severity] = append(groups[is.Severity], is)
	}
	for _, sev := range severityOrder {
		group := groups[sev]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(buf, "\n  %s\n", p.severity[sev].Render(strings.ToUpper(sev)))
		for _, is := range group {
			fmt.Fprintf(buf, "    [%.2f] %s %s:%d %s\n",
				is.Priority, is.Type, is.Location.File, is.Location.Line, is.Name)
			fmt.Fprintf(buf, "           %s\n", p.dim.Render(is.Reason))
			if opts.ContextLines > 0 && opts.Root != "" {
				if ctx := sourceContext(filepath.Join(opts.Root, filepath.FromSlash(is.Location.File)), is.Location.Line, opts.ContextLines); ctx != "" {
					buf.WriteString(indent(ctx, "           "))
				}
			}
		}
	}
	if hidden := len(issues) - len(shown); hidden > 0 {
		fmt.Fprintf(buf, "\n  %s\n", p.dim.Render(fmt.Sprintf("... and %d more", hidden)))
	}
}

func bar(percent float64) string {
	filled := int(math.Round(percent / 100 * barWidth))
	filled = min(max(filled, 0), barWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// sourceContext returns numbered lines around line, marking line itself.
// Unreadable files yield "".
func sourceContext(path string, line, contextLines int) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	start := max(line-contextLines-1, 0)
	end := min(line+contextLines, len(lines))

	var buf strings.Builder
	for i := start; i < end; i++ {
		marker := "  "
		if i+1 == line {
			marker = "> "
		}
		fmt.Fprintf(&buf, "%s%4d | %s\n", marker, i+1, lines[i])
	}
	return buf.String()
}

func indent(s, prefix string) string {
	var buf strings.Builder
	for _, l := range strings.SplitAfter(s, "\n") {
		if l == "" {
			continue
		}
		buf.WriteString(prefix)
		buf.WriteString(l)
	}
	return buf.String()
}
