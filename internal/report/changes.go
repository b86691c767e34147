// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/docdrift/internal/git"
)

// RenderChanges formats the documentation impact of a series of commits,
// newest first as given. File diffs are included when present.
func RenderChanges(commits []git.CommitImpact, opts TextOptions) string {
	p := newPalette(opts.Color)
	var buf strings.Builder

	total := 0
	for _, c := range commits {
		total += len(c.Impacts)
	}
	buf.WriteString(p.title.Render("Documentation impact"))
	fmt.Fprintf(&buf, "\n\n  %d commits, %d impacts\n", len(commits), total)

	for _, c := range commits {
		fmt.Fprintf(&buf, "\n%s %s  %s\n",
			p.section.Render(c.Commit.Short()), c.Commit.Summary(),
			p.dim.Render(fmt.Sprintf("%s, %s", c.Commit.Author, c.Commit.When.Format("2006-01-02"))))

		for _, f := range c.Files {
			name := f.Path
			if f.OldPath != "" {
				name = f.OldPath + " -> " + f.Path
			}
			fmt.Fprintf(&buf, "  %-8s %s %s\n", f.Status, name,
				p.dim.Render(fmt.Sprintf("+%d -%d", f.Additions, f.Deletions)))
			if f.Diff != "" {
				buf.WriteString(indent(f.Diff, "           "))
			}
		}

		if len(c.Impacts) == 0 {
			fmt.Fprintf(&buf, "  %s\n", p.good.Render("No documentation affected."))
			continue
		}
		for _, im := range c.Impacts {
			where := im.DocPath
			if where == "" {
				where = im.Change.File
			} else {
				where = fmt.Sprintf("%s:%d", im.DocPath, im.DocLine)
			}
			fmt.Fprintf(&buf, "  %s [%.1f] %s %s %s\n",
				p.severity[im.Severity].Render(fmt.Sprintf("%-6s", strings.ToUpper(im.Severity))),
				im.Confidence, im.Type, where, im.Entity)
		}
	}
	return buf.String()
}
