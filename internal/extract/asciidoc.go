// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"regexp"
	"strings"

	"github.com/petar-djukic/docdrift/pkg/types"
)

const adocDelimiter = "----"

var (
	adocHeaderRe  = regexp.MustCompile(`^(={1,6})\s+(.+)$`)
	adocSourceRe  = regexp.MustCompile(`^\[source(?:,\s*(\w+))?[^\]]*\]\s*$`)
	adocPlusRe    = regexp.MustCompile(`\+([^+\s][^+]*)\+`)
	adocLinkRe    = regexp.MustCompile(`link:([^\[\s]+)\[([^\]]*)\]`)
	adocURLLinkRe = regexp.MustCompile(`(https?://[^\[\s]+)\[([^\]]*)\]`)
)

type asciidocExtractor struct{}

// CodeBlocks returns "----" delimited listing blocks. A preceding
// [source,lang] attribute line supplies the language.
func (asciidocExtractor) CodeBlocks(content string) []types.CodeBlock {
	lines := splitLines(content)
	var blocks []types.CodeBlock
	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != adocDelimiter {
			continue
		}
		end := -1
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == adocDelimiter {
				end = j
				break
			}
		}
		if end < 0 {
			break
		}
		lang := defaultBlockLanguage
		if i > 0 {
			if m := adocSourceRe.FindStringSubmatch(strings.TrimSpace(lines[i-1])); m != nil && m[1] != "" {
				lang = m[1]
			}
		}
		blocks = append(blocks, types.CodeBlock{
			Language:  lang,
			Code:      strings.Join(lines[i+1:end], "\n"),
			StartLine: i + 1,
			EndLine:   end + 1,
		})
		i = end
	}
	return blocks
}

func (a asciidocExtractor) Headers(content string) []types.Header {
	inBlock := blockLines(a.CodeBlocks(content))
	var headers []types.Header
	for i, line := range splitLines(content) {
		if inBlock[i+1] {
			continue
		}
		if g := adocHeaderRe.FindStringSubmatch(line); g != nil {
			headers = append(headers, types.Header{
				Level: len(g[1]),
				Text:  strings.TrimSpace(g[2]),
				Line:  i + 1,
			})
		}
	}
	return headers
}

// InlineCode returns `monospace` and +passthrough+ spans.
func (asciidocExtractor) InlineCode(content string) []InlineCode {
	var out []InlineCode
	for i, line := range splitLines(content) {
		for _, s := range backtickSpans(line, 1) {
			out = append(out, InlineCode{Text: s, Line: i + 1})
		}
		for _, g := range adocPlusRe.FindAllStringSubmatch(line, -1) {
			out = append(out, InlineCode{Text: g[1], Line: i + 1})
		}
	}
	return out
}

// Links returns link:target[text] macros and bare URLs with link text.
func (asciidocExtractor) Links(content string) []types.Link {
	var links []types.Link
	for i, line := range splitLines(content) {
		for _, g := range adocLinkRe.FindAllStringSubmatch(line, -1) {
			links = append(links, types.Link{Text: g[2], URL: g[1], Line: i + 1})
		}
		for _, idx := range adocURLLinkRe.FindAllStringSubmatchIndex(line, -1) {
			// Already captured by the link: macro.
			if idx[0] >= 5 && line[idx[0]-5:idx[0]] == "link:" {
				continue
			}
			links = append(links, types.Link{
				Text: line[idx[4]:idx[5]],
				URL:  line[idx[2]:idx[3]],
				Line: i + 1,
			})
		}
	}
	return links
}
