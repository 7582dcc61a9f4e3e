package llm

import (
	"regexp"
	"strings"
)

// Pre-compiled patterns for JSON extraction from collaborator responses.
var (
	// fencedJSONPattern matches a JSON object wrapped in a markdown code
	// fence, with or without a "json" language tag.
	fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	// bareObjectPattern matches any JSON object (greedy fallback).
	bareObjectPattern = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	// trailingCommaPattern matches trailing commas before ] or }.
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSON extracts a JSON object from a raw collaborator response,
// stripping markdown code fencing and trailing commas. Returns the empty
// string when no object can be located.
func ExtractJSON(content string) string {
	content = strings.TrimSpace(content)

	var raw string
	if m := fencedJSONPattern.FindStringSubmatch(content); len(m) > 1 {
		raw = m[1]
	} else if m := bareObjectPattern.FindString(content); m != "" {
		raw = m
	}
	if raw == "" {
		return ""
	}

	return trailingCommaPattern.ReplaceAllString(raw, "$1")
}
