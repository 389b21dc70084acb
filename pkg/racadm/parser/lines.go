// Package parser turns racadm console output into typed records.
//
// Matching is deliberately loose: lines are selected by substring and values are
// taken by position. The selection step lives in filterLines so a stricter grammar
// (see ParseJobStatusStrict) can sit next to it without changing field order.
package parser

import "strings"

// splitLines trims the block and returns its lines
func splitLines(text string) []string {
	return strings.Split(strings.TrimSpace(text), "\n")
}

// filterLines keeps the lines accepted by keep, in order
func filterLines(lines []string, keep func(string) bool) []string {
	var out []string
	for _, line := range lines {
		if keep(line) {
			out = append(out, line)
		}
	}
	return out
}

// splitKeyValue returns the text before the first '=' and the text between the
// first and second '='. A value containing '=' is therefore truncated.
func splitKeyValue(line string) (string, string) {
	parts := strings.Split(line, "=")
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
