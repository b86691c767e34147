// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report renders analysis results and persists them as snapshots.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/petar-djukic/docdrift/pkg/types"
)

// ErrUnknownFormat is returned for an output format name that is not
// json, yaml or text.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects how a Result is written.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// ParseFormat accepts json, yaml (or yml) and text, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "text", "txt":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Encode writes res to w in the given format. Text output uses opts; the
// structured formats ignore it.
func Encode(w io.Writer, res types.Result, f Format, opts TextOptions) error {
	if f == FormatText {
		_, err := io.WriteString(w, RenderText(res, opts))
		return err
	}
	return EncodeData(w, res, f)
}

// EncodeData writes v as indented JSON or YAML. Text is not a data format
// and yields ErrUnknownFormat.
func EncodeData(w io.Writer, v any, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}
