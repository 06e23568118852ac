package services

import (
	"errors"
	"regexp"
	"strings"
)

// Shape is the top level JSON value a stage expects.
type Shape int

const (
	ShapeObject Shape = iota
	ShapeArray
)

func (s Shape) brackets() (open, close string) {
	if s == ShapeArray {
		return "[", "]"
	}
	return "{", "}"
}

// ErrNoJSONInput is returned for empty or whitespace-only text.
var ErrNoJSONInput = errors.New("no input to extract JSON from")

// JSONExtractionStrategy tries to recover a JSON candidate from model text.
// ok is false when the strategy does not apply.
type JSONExtractionStrategy struct {
	Name    string
	Extract func(text string, shape Shape) (candidate string, ok bool)
}

var fencedJSONPattern = regexp.MustCompile("(?s)```(?i:json)\\s*(.*?)\\s*```")

var jsonExtractionStrategies = []JSONExtractionStrategy{
	{Name: "fenced_json", Extract: extractFencedJSON},
	{Name: "bracket_span", Extract: extractBracketSpan},
	{Name: "whole_text", Extract: extractWholeText},
}

// JSONExtractionStrategies returns the strategies in the order ExtractJSON
// runs them.
func JSONExtractionStrategies() []JSONExtractionStrategy {
	out := make([]JSONExtractionStrategy, len(jsonExtractionStrategies))
	copy(out, jsonExtractionStrategies)
	return out
}

// ExtractJSON returns the first candidate any strategy produces. The result
// is not guaranteed to be valid JSON.
func ExtractJSON(text string, shape Shape) (string, error) {
	candidate, _, err := extractJSONWithStrategy(text, shape)
	return candidate, err
}

func extractJSONWithStrategy(text string, shape Shape) (string, string, error) {
	if strings.TrimSpace(text) == "" {
		return "", "", ErrNoJSONInput
	}

	for _, strategy := range jsonExtractionStrategies {
		if candidate, ok := strategy.Extract(text, shape); ok {
			return candidate, strategy.Name, nil
		}
	}

	return "", "", ErrNoJSONInput
}

func extractFencedJSON(text string, _ Shape) (string, bool) {
	m := fencedJSONPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func extractBracketSpan(text string, shape Shape) (string, bool) {
	open, close := shape.brackets()

	start := strings.Index(text, open)
	end := strings.LastIndex(text, close)
	if start == -1 || end == -1 || end < start {
		return "", false
	}

	return strings.TrimSpace(text[start : end+1]), true
}

func extractWholeText(text string, _ Shape) (string, bool) {
	trimmed := strings.TrimSpace(text)
	return trimmed, trimmed != ""
}
