// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// notebookExtractor reads Jupyter notebooks. Code cells are joined in order
// and handed to the inner extractor, so reported lines count through the
// concatenated code cells.
type notebookExtractor struct {
	inner CodeExtractor
}

type notebook struct {
	Cells []struct {
		CellType string          `json:"cell_type"`
		Source   json.RawMessage `json:"source"`
	} `json:"cells"`
}

// codeCells returns the source of all non-empty code cells separated by a
// blank line.
func codeCells(src []byte) ([]byte, error) {
	var nb notebook
	if err := json.Unmarshal(src, &nb); err != nil {
		return nil, fmt.Errorf("decoding notebook: %w", err)
	}
	var b strings.Builder
	for _, c := range nb.Cells {
		if c.CellType != "code" {
			continue
		}
		text := cellSource(c.Source)
		if strings.TrimSpace(text) == "" {
			continue
		}
		b.WriteString(strings.TrimRight(text, "\n"))
		b.WriteString("\n\n")
	}
	return []byte(b.String()), nil
}

// cellSource accepts both notebook encodings of a cell: a list of lines or a
// single string.
func cellSource(raw json.RawMessage) string {
	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return strings.Join(lines, "")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func (n notebookExtractor) Definitions(src []byte) ([]Definition, error) {
	code, err := codeCells(src)
	if err != nil {
		return nil, err
	}
	return n.inner.Definitions(code)
}

func (n notebookExtractor) ExtractFunctionNames(src []byte) []string {
	code, err := codeCells(src)
	if err != nil {
		return nil
	}
	return n.inner.ExtractFunctionNames(code)
}

func (n notebookExtractor) ExtractClassNames(src []byte) []string {
	code, err := codeCells(src)
	if err != nil {
		return nil
	}
	return n.inner.ExtractClassNames(code)
}

func (n notebookExtractor) ExtractImports(src []byte) []string {
	code, err := codeCells(src)
	if err != nil {
		return nil
	}
	return n.inner.ExtractImports(code)
}
