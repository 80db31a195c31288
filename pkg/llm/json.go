package llm

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var braceRE = regexp.MustCompile(`\{[^{}]*\}`)

// ParseObject extracts a JSON object from free-form model output.
// Strict parse first; if the model wrapped the object in prose, the
// first brace-delimited substring is tried instead. Total failure
// yields an empty mapping, never an error, so every caller has to
// supply defaults for every field.
func ParseObject(s string) map[string]any {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err == nil && m != nil {
		return m
	}
	if frag := braceRE.FindString(s); frag != "" {
		var m2 map[string]any
		if err := json.Unmarshal([]byte(frag), &m2); err == nil && m2 != nil {
			return m2
		}
	}
	return map[string]any{}
}

// stringField reads a non-empty string field with a default.
func stringField(m map[string]any, key, def string) string {
	if v, ok := m[key].(string); ok {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return def
}

// intField reads a numeric field with a default. Models sometimes
// quote numbers, so string digits are accepted too.
func intField(m map[string]any, key string, def int) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}
