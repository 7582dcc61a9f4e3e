// Package locate resolves a single location string from structured input,
// free-text extraction, or IP-based auto-detection, under a strict priority
// order: explicit structured fields always win and suppress every heuristic
// path. Confidence scores reflect the resolution source.
package locate

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Confidence levels by resolution source.
const (
	ConfidenceExplicitFull = 1.0  // city plus state/country
	ConfidenceExplicitCity = 0.95 // city alone
	ConfidenceStateCountry = 0.7
	ConfidenceCountryOnly  = 0.5
	ConfidenceExtracted    = 0.6
	ConfidenceAutoDetected = 0.4
)

// Source labels recorded on a Resolution for the decision trace.
const (
	SourceExplicit     = "explicit"
	SourceExtracted    = "extracted"
	SourceAutoDetected = "auto_detected"
)

var prepositionPatterns = buildPrepositionPatterns()

func buildPrepositionPatterns() []*regexp.Regexp {
	preps := []string{"in", "at", "near", "around", "to"}
	patterns := make([]*regexp.Regexp, 0, len(preps))
	for _, p := range preps {
		patterns = append(patterns,
			regexp.MustCompile(`\b`+p+`\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?)`))
	}
	return patterns
}

// Input carries every location hint available for one request. City, State
// and Country are explicit structured fields; FreeText is the raw request.
type Input struct {
	City    string
	State   string
	Country string
	// FreeText is only consulted when no structured field is set.
	FreeText string
}

// Resolution is the outcome of resolving an Input.
type Resolution struct {
	Location   string
	Confidence float64
	Source     string
}

// GeoLocator is the IP-geolocation collaborator. Implementations return a
// best-guess city/region/country tuple for the caller's network origin.
type GeoLocator interface {
	Locate(ctx context.Context) (city, region, country string, err error)
}

// Resolver applies the resolution priority chain.
type Resolver struct {
	geo        GeoLocator
	autoDetect bool
	logger     *slog.Logger
}

// NewResolver creates a Resolver. geo may be nil when auto-detection is
// disabled.
func NewResolver(geo GeoLocator, autoDetect bool, logger *slog.Logger) *Resolver {
	return &Resolver{
		geo:        geo,
		autoDetect: autoDetect && geo != nil,
		logger:     logger.With("component", "locate"),
	}
}

// Resolve returns the first definitive location for in, or ok=false when
// nothing resolved. When a structured field is supplied, extraction and
// auto-detection never run: the explicit value is authoritative.
func (r *Resolver) Resolve(ctx context.Context, in Input) (Resolution, bool) {
	city := strings.TrimSpace(in.City)
	state := strings.TrimSpace(in.State)
	country := strings.TrimSpace(in.Country)

	if city != "" {
		loc := city
		conf := ConfidenceExplicitCity
		switch {
		case state != "" && country != "":
			loc = fmt.Sprintf("%s, %s, %s", city, state, country)
			conf = ConfidenceExplicitFull
		case state != "":
			loc = fmt.Sprintf("%s, %s", city, state)
			conf = ConfidenceExplicitFull
		case country != "":
			loc = fmt.Sprintf("%s, %s", city, country)
			conf = ConfidenceExplicitFull
		}
		return Resolution{Location: loc, Confidence: conf, Source: SourceExplicit}, true
	}

	if state != "" && country != "" {
		return Resolution{
			Location:   fmt.Sprintf("%s, %s", state, country),
			Confidence: ConfidenceStateCountry,
			Source:     SourceExplicit,
		}, true
	}

	if country != "" {
		return Resolution{
			Location:   country,
			Confidence: ConfidenceCountryOnly,
			Source:     SourceExplicit,
		}, true
	}

	if loc, ok := Extract(in.FreeText); ok {
		return Resolution{Location: loc, Confidence: ConfidenceExtracted, Source: SourceExtracted}, true
	}

	if r.autoDetect {
		if loc, ok := r.detect(ctx); ok {
			return Resolution{Location: loc, Confidence: ConfidenceAutoDetected, Source: SourceAutoDetected}, true
		}
	}

	return Resolution{}, false
}

// detect queries the geolocation collaborator. Failures are silent: logged
// and treated as "no location".
func (r *Resolver) detect(ctx context.Context) (string, bool) {
	city, region, country, err := r.geo.Locate(ctx)
	if err != nil {
		r.logger.Warn("ip geolocation failed", "error", err)
		return "", false
	}
	switch {
	case city != "":
		return city, true
	case region != "":
		return region, true
	case country != "":
		return country, true
	}
	return "", false
}

// Extract pulls a location out of natural-language text: a known-city
// substring match first, else a preposition-pattern match filtered against
// the stopword set. Returns ok=false when nothing plausible is found.
func Extract(text string) (string, bool) {
	lower := strings.ToLower(text)

	for _, city := range knownCities {
		if strings.Contains(lower, city) {
			return titleCase(city), true
		}
	}

	for _, pattern := range prepositionPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := m[1]
		if _, stop := prepositionStopwords[strings.ToLower(candidate)]; stop {
			continue
		}
		return candidate, true
	}

	return "", false
}

// IsAmbiguous reports whether a location string is empty or one of the
// fixed vague terms. Ambiguous locations must be rejected and re-resolved.
func IsAmbiguous(location string) bool {
	loc := strings.TrimSpace(location)
	if loc == "" {
		return true
	}
	_, vague := vagueTerms[strings.ToLower(loc)]
	return vague
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
