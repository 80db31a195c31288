package ocr

import "strings"

// snippet returns a shortened version of text for logging.
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// NormalizeText collapses whitespace and replaces newlines/tabs so
// recognized text can be stored and logged as a single line.
func NormalizeText(t string) string {
	t = strings.ReplaceAll(t, "\n", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	return strings.Join(strings.Fields(t), " ")
}
