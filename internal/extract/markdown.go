// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"regexp"
	"strings"

	"github.com/petar-djukic/docdrift/pkg/types"
)

var (
	mdHeaderRe   = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	mdFenceTagRe = regexp.MustCompile(`^\w*`)
	mdLinkRe     = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

type markdownExtractor struct{}

// CodeBlocks returns fenced blocks opened by ``` or ~~~ and closed by the
// same fence. An unclosed fence is not a block.
func (markdownExtractor) CodeBlocks(content string) []types.CodeBlock {
	lines := splitLines(content)
	var blocks []types.CodeBlock
	for i := 0; i < len(lines); i++ {
		fence, tag, ok := openFence(lines[i])
		if !ok {
			continue
		}
		end := -1
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == fence {
				end = j
				break
			}
		}
		if end < 0 {
			continue
		}
		if tag == "" {
			tag = defaultBlockLanguage
		}
		blocks = append(blocks, types.CodeBlock{
			Language:  tag,
			Code:      strings.Join(lines[i+1:end], "\n"),
			StartLine: i + 1,
			EndLine:   end + 1,
		})
		i = end
	}
	return blocks
}

func openFence(line string) (fence, tag string, ok bool) {
	trimmed := strings.TrimSpace(line)
	for _, f := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, f) {
			return f, mdFenceTagRe.FindString(strings.TrimPrefix(trimmed, f)), true
		}
	}
	return "", "", false
}

// Headers returns ATX headers outside fenced blocks.
func (m markdownExtractor) Headers(content string) []types.Header {
	inBlock := blockLines(m.CodeBlocks(content))
	var headers []types.Header
	for i, line := range splitLines(content) {
		if inBlock[i+1] {
			continue
		}
		if g := mdHeaderRe.FindStringSubmatch(line); g != nil {
			headers = append(headers, types.Header{
				Level: len(g[1]),
				Text:  strings.TrimSpace(g[2]),
				Line:  i + 1,
			})
		}
	}
	return headers
}

// InlineCode returns single-backtick spans. Spans delimited by longer
// backtick runs are not inline code references.
func (markdownExtractor) InlineCode(content string) []InlineCode {
	var out []InlineCode
	for i, line := range splitLines(content) {
		for _, s := range backtickSpans(line, 1) {
			out = append(out, InlineCode{Text: s, Line: i + 1})
		}
	}
	return out
}

func (markdownExtractor) Links(content string) []types.Link {
	var links []types.Link
	for i, line := range splitLines(content) {
		for _, g := range mdLinkRe.FindAllStringSubmatch(line, -1) {
			links = append(links, types.Link{Text: g[1], URL: g[2], Line: i + 1})
		}
	}
	return links
}

// backtickSpans returns the text between pairs of backtick runs that are
// exactly width long. Content may not contain backticks.
func backtickSpans(line string, width int) []string {
	type run struct{ start, end int }
	var runs []run
	for i := 0; i < len(line); {
		if line[i] != '`' {
			i++
			continue
		}
		j := i
		for j < len(line) && line[j] == '`' {
			j++
		}
		runs = append(runs, run{i, j})
		i = j
	}

	var spans []string
	for k := 0; k+1 < len(runs); k++ {
		opening, closing := runs[k], runs[k+1]
		if opening.end-opening.start != width || closing.end-closing.start != width {
			continue
		}
		if content := line[opening.end:closing.start]; content != "" {
			spans = append(spans, content)
		}
		k++
	}
	return spans
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}
