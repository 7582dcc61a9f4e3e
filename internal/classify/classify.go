// Package classify decides whether a free-text activity request is
// weather-sensitive and extracts the outdoor-activity keywords that
// triggered the decision. Classification is a pure keyword heuristic: no
// NLP, no side effects.
package classify

import "strings"

// Result is the outcome of classifying one request.
type Result struct {
	// Sensitive reports whether weather materially affects the request.
	Sensitive bool
	// Activities lists the matched outdoor-activity keywords in reference
	// order. Empty when classification fell through to the conservative
	// default.
	Activities []string
}

// Classify scans text against the outdoor and indoor keyword sets.
//
// Decision rules, in order:
//  1. Outdoor keywords matched and their count >= indoor count: sensitive,
//     returning the matched outdoor keywords. Ties deliberately favor
//     "sensitive".
//  2. The literal words "outdoor"/"outside" appear: sensitive with a
//     synthetic single-item activity list.
//  3. Neither set matched anything: sensitive with no activities. Unknown
//     activities are assumed weather-relevant.
//  4. Otherwise sensitive iff any outdoor keyword matched.
func Classify(text string) Result {
	lower := strings.ToLower(text)

	var outdoor []string
	for _, kw := range outdoorActivities {
		if strings.Contains(lower, kw) {
			outdoor = append(outdoor, kw)
		}
	}

	indoorCount := 0
	for _, kw := range indoorActivities {
		if strings.Contains(lower, kw) {
			indoorCount++
		}
	}

	if len(outdoor) > 0 && len(outdoor) >= indoorCount {
		return Result{Sensitive: true, Activities: outdoor}
	}

	if strings.Contains(lower, "outdoor") || strings.Contains(lower, "outside") {
		return Result{Sensitive: true, Activities: []string{"outdoor activity"}}
	}

	if indoorCount == 0 && len(outdoor) == 0 {
		return Result{Sensitive: true}
	}

	return Result{Sensitive: len(outdoor) > 0, Activities: outdoor}
}
