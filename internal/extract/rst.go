// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"regexp"
	"strings"

	"github.com/petar-djukic/docdrift/pkg/types"
)

// rstUnderlineChars are the adornment characters accepted under a title.
const rstUnderlineChars = "=-~^\"'+:._#*`"

var (
	rstDirectiveRe = regexp.MustCompile(`^\s*\.\.\s+(?:code-block|code|sourcecode)::\s*(\w*)`)
	rstInlineLink  = regexp.MustCompile("`([^<`]+?)\\s+<([^>]+)>`__?")
	rstRefDef      = regexp.MustCompile(`^\.\.\s+_([^:]+):\s+(.+)$`)
)

type rstExtractor struct{}

// Headers returns titles underlined with a repeated adornment character.
// Levels are assigned in the order adornment styles first appear.
func (rstExtractor) Headers(content string) []types.Header {
	lines := splitLines(content)
	var styles []byte
	var headers []types.Header
	for i := 0; i+1 < len(lines); i++ {
		text := strings.TrimSpace(lines[i])
		under := strings.TrimRight(lines[i+1], " \t")
		if text == "" || under == "" || len(under) < len(text) || isAdornment(lines[i]) {
			continue
		}
		c := under[0]
		if !strings.ContainsRune(rstUnderlineChars, rune(c)) || strings.Trim(under, string(c)) != "" {
			continue
		}
		level := strings.IndexByte(string(styles), c)
		if level < 0 {
			styles = append(styles, c)
			level = len(styles) - 1
		}
		headers = append(headers, types.Header{Level: level + 1, Text: text, Line: i + 1})
		i++
	}
	return headers
}

func isAdornment(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && strings.ContainsRune(rstUnderlineChars, rune(line[0])) && strings.Trim(line, line[:1]) == ""
}

// CodeBlocks returns code-block directives and literal blocks introduced by
// a paragraph ending in "::". The block body is the following indented
// region, dedented. StartLine is the line just before the first code line.
func (rstExtractor) CodeBlocks(content string) []types.CodeBlock {
	lines := splitLines(content)
	var blocks []types.CodeBlock
	for i := 0; i < len(lines); i++ {
		lang := ""
		if m := rstDirectiveRe.FindStringSubmatch(lines[i]); m != nil {
			lang = m[1]
		} else if !strings.HasSuffix(strings.TrimRight(lines[i], " \t"), "::") {
			continue
		}
		if lang == "" {
			lang = defaultBlockLanguage
		}

		j := i + 1
		// Skip blank lines and directive options such as ":linenos:".
		for j < len(lines) && (strings.TrimSpace(lines[j]) == "" || strings.HasPrefix(strings.TrimSpace(lines[j]), ":")) {
			j++
		}
		first := j
		last := j - 1
		for j < len(lines) && (isIndented(lines[j]) || strings.TrimSpace(lines[j]) == "") {
			if strings.TrimSpace(lines[j]) != "" {
				last = j
			}
			j++
		}
		if last < first {
			continue
		}
		blocks = append(blocks, types.CodeBlock{
			Language:  lang,
			Code:      dedent(lines[first : last+1]),
			StartLine: first,
			EndLine:   last + 1,
		})
		i = last
	}
	return blocks
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

func dedent(lines []string) string {
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) >= indent && indent > 0 {
			out[i] = l[indent:]
		} else {
			out[i] = strings.TrimSpace(l)
		}
	}
	return strings.Join(out, "\n")
}

// InlineCode returns ``double backtick`` literals.
func (rstExtractor) InlineCode(content string) []InlineCode {
	var out []InlineCode
	for i, line := range splitLines(content) {
		for _, s := range backtickSpans(line, 2) {
			out = append(out, InlineCode{Text: s, Line: i + 1})
		}
	}
	return out
}

// Links returns inline `text <url>`_ links and ".. _name: url" targets.
func (rstExtractor) Links(content string) []types.Link {
	var links []types.Link
	for i, line := range splitLines(content) {
		for _, g := range rstInlineLink.FindAllStringSubmatch(line, -1) {
			links = append(links, types.Link{Text: strings.TrimSpace(g[1]), URL: g[2], Line: i + 1})
		}
		if g := rstRefDef.FindStringSubmatch(line); g != nil {
			links = append(links, types.Link{Text: strings.TrimSpace(g[1]), URL: strings.TrimSpace(g[2]), Line: i + 1})
		}
	}
	return links
}
