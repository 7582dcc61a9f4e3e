// Package risk maps weather observations to discrete risk levels via an
// additive point score with fixed thresholds, and builds the human-readable
// explanations that accompany them. All functions are pure.
package risk

import (
	"fmt"
	"strings"

	"chronos/internal/types"
)

// Point thresholds for the additive score. The condition keywords are
// checked independently of precipitation so that a "thunderstorms" label
// with a low precipitation sample still scores as severe.
var severeConditions = []string{"thunderstorm", "storm", "heavy rain", "hail", "severe"}

// Score computes the raw additive risk score for an observation.
// Precipitation contributes up to 40 points, wind up to 20, and the
// condition label up to 40.
func Score(o types.WeatherObservation) int {
	score := 0

	switch {
	case o.PrecipitationChance >= 80:
		score += 40
	case o.PrecipitationChance >= 60:
		score += 30
	case o.PrecipitationChance >= 40:
		score += 20
	case o.PrecipitationChance >= 20:
		score += 10
	}

	switch {
	case o.WindSpeedKmh >= 40:
		score += 20
	case o.WindSpeedKmh >= 25:
		score += 10
	case o.WindSpeedKmh >= 15:
		score += 5
	}

	cond := strings.ToLower(o.Condition)
	switch {
	case containsAny(cond, severeConditions):
		score += 40
	case strings.Contains(cond, "rain"):
		score += 15
	case strings.Contains(cond, "snow"):
		score += 20
	}

	return score
}

// Level maps an observation to its discrete risk level.
func Level(o types.WeatherObservation) types.RiskLevel {
	score := Score(o)
	switch {
	case score >= 60:
		return types.RiskCritical
	case score >= 40:
		return types.RiskHigh
	case score >= 20:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}

// Explain lists every contributing factor whose individual threshold is met,
// in fixed order (precipitation, wind, condition), joined by " | ". When no
// factor qualifies it returns a generic message keyed off the final level.
func Explain(level types.RiskLevel, o types.WeatherObservation) string {
	var factors []string

	if o.PrecipitationChance >= 50 {
		factors = append(factors, fmt.Sprintf("High precipitation chance (%d%%)", o.PrecipitationChance))
	}
	if o.WindSpeedKmh >= 25 {
		factors = append(factors, fmt.Sprintf("Strong winds (%.1f km/h)", o.WindSpeedKmh))
	}
	cond := strings.ToLower(o.Condition)
	if strings.Contains(cond, "rain") || strings.Contains(cond, "storm") {
		factors = append(factors, fmt.Sprintf("Unfavorable conditions (%s)", o.Condition))
	}

	if len(factors) == 0 {
		if level == types.RiskLow {
			return "Weather conditions are favorable for outdoor activities."
		}
		return "Minor weather concerns that shouldn't significantly impact plans."
	}

	return strings.Join(factors, " | ")
}

// Summary formats an observation as a one-line human-readable string, used
// both in the decision trace and in the collaborator prompt.
func Summary(o types.WeatherObservation) string {
	return fmt.Sprintf("%s, %.1f°C, %d%% chance of rain, wind %.1f km/h",
		titleCase(o.Condition), o.TemperatureCelsius, o.PrecipitationChance, o.WindSpeedKmh)
}

// SuggestTimeShift proposes a better start hour for a weather-sensitive
// activity, or reports no change. High precipitation pushes afternoon
// starts to the morning; extreme heat pushes midday starts to the evening.
func SuggestTimeShift(o types.WeatherObservation, startHour int) (int, bool) {
	if o.PrecipitationChance >= 50 {
		if startHour >= 14 {
			return 10, true
		}
		if startHour >= 12 {
			return 9, true
		}
	}

	if o.TemperatureCelsius >= 32 && startHour >= 11 && startHour <= 15 {
		return 17, true
	}

	return 0, false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// titleCase capitalizes the first letter of each space-separated word.
// strings.Title is deprecated and the condition labels are plain ASCII.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
