// Package normalizer recovers a JSON object from free-form model output.
package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Stage identifies which strategy produced (or failed to produce) the object.
type Stage string

const (
	StageStrict  Stage = "strict"
	StageTrimmed Stage = "trimmed"
	StageFailed  Stage = "failed"
)

var (
	errNotObject = errors.New("top-level value is not a JSON object")
	errNoBraces  = errors.New("no brace-delimited object found")
)

// Normalize returns the object encoded in raw, or nil when it cannot be
// recovered. It first parses raw as-is, then the substring from the first
// '{' to the last '}'. Malformed JSON is never repaired.
func Normalize(raw string) map[string]any {
	obj, _, _ := Salvage(raw)
	return obj
}

// Salvage is Normalize with the stage reached and the final parse error.
func Salvage(raw string) (map[string]any, Stage, error) {
	obj, err := decodeObject(raw)
	if err == nil {
		return obj, StageStrict, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || start >= end {
		return nil, StageFailed, fmt.Errorf("%w (strict parse: %v)", errNoBraces, err)
	}

	obj, err = decodeObject(raw[start : end+1])
	if err != nil {
		return nil, StageFailed, fmt.Errorf("trimmed parse: %w", err)
	}
	return obj, StageTrimmed, nil
}

// decodeObject strictly decodes a single JSON object. Numbers stay as
// json.Number so decimal literals survive unchanged.
func decodeObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}

	obj, ok := v.(map[string]any)
	if !ok || obj == nil {
		return nil, errNotObject
	}
	return obj, nil
}

// Truncate shortens s for log output.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Compact re-encodes obj without insignificant whitespace, for logs.
func Compact(obj map[string]any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(obj); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}
