// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines kept around each hunk.
const diffContext = 3

type fileDiff struct {
	additions int
	deletions int
	text      string
}

// lineDiff compares two texts line by line. The text form prefixes lines
// with "+", "-" or " " and elides long unchanged runs.
func lineDiff(before, after string) fileDiff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var d fileDiff
	var sb strings.Builder
	for i, df := range diffs {
		chunk := splitDiffLines(df.Text)
		switch df.Type {
		case diffmatchpatch.DiffInsert:
			d.additions += len(chunk)
			writePrefixed(&sb, "+", chunk)
		case diffmatchpatch.DiffDelete:
			d.deletions += len(chunk)
			writePrefixed(&sb, "-", chunk)
		case diffmatchpatch.DiffEqual:
			writeEqual(&sb, chunk, i == 0, i == len(diffs)-1)
		}
	}
	d.text = sb.String()
	return d
}

// writeEqual writes an unchanged run, keeping only the context adjacent
// to changes.
func writeEqual(sb *strings.Builder, lines []string, first, last bool) {
	head, tail := diffContext, diffContext
	if first {
		head = 0
	}
	if last {
		tail = 0
	}
	if len(lines) <= head+tail+1 {
		writePrefixed(sb, " ", lines)
		return
	}
	writePrefixed(sb, " ", lines[:head])
	sb.WriteString("...\n")
	writePrefixed(sb, " ", lines[len(lines)-tail:])
}

func splitDiffLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func writePrefixed(sb *strings.Builder, prefix string, lines []string) {
	for _, l := range lines {
		sb.WriteString(prefix)
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
}
