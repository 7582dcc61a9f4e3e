package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chronos/internal/types"
)

func obs(precip int, wind float64, condition string) types.WeatherObservation {
	return types.WeatherObservation{
		Location:            "Testville",
		ForecastDate:        "2026-09-01",
		TemperatureCelsius:  20,
		Condition:           condition,
		PrecipitationChance: precip,
		WindSpeedKmh:        wind,
		HumidityPercent:     60,
	}
}

func TestScoreScenarios(t *testing.T) {
	tests := []struct {
		name      string
		o         types.WeatherObservation
		wantScore int
		wantLevel types.RiskLevel
	}{
		{
			name:      "thunderstorms with high precipitation is critical",
			o:         obs(85, 10, "thunderstorms"),
			wantScore: 80, // 40 precip + 0 wind + 40 condition
			wantLevel: types.RiskCritical,
		},
		{
			name:      "sunny and calm is low",
			o:         obs(15, 5, "sunny"),
			wantScore: 0,
			wantLevel: types.RiskLow,
		},
		{
			name:      "light rain is medium",
			o:         obs(55, 10, "light rain"),
			wantScore: 35, // 20 precip + 15 rain keyword
			wantLevel: types.RiskMedium,
		},
		{
			name:      "snow with strong wind is high",
			o:         obs(30, 42, "snow showers"),
			wantScore: 50, // 10 precip + 20 wind + 20 snow
			wantLevel: types.RiskHigh,
		},
		{
			name:      "severe keyword dominates rain keyword",
			o:         obs(0, 0, "severe heavy rain"),
			wantScore: 40,
			wantLevel: types.RiskHigh,
		},
		{
			name:      "moderate wind band",
			o:         obs(0, 18, "cloudy"),
			wantScore: 5,
			wantLevel: types.RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantScore, Score(tt.o))
			assert.Equal(t, tt.wantLevel, Level(tt.o))
		})
	}
}

// Increasing precipitation while holding other fields fixed must never
// decrease the resulting risk level.
func TestLevelMonotonicInPrecipitation(t *testing.T) {
	prev := types.RiskLow
	for p := 0; p <= 100; p += 5 {
		level := Level(obs(p, 10, "cloudy"))
		assert.GreaterOrEqual(t, level.Severity(), prev.Severity(),
			"level regressed at precipitation %d", p)
		prev = level
	}
}

func TestExplainListsFactorsInFixedOrder(t *testing.T) {
	o := obs(70, 30, "rainy")
	got := Explain(Level(o), o)
	assert.Equal(t,
		"High precipitation chance (70%) | Strong winds (30.0 km/h) | Unfavorable conditions (rainy)",
		got)
}

func TestExplainFallbackMessages(t *testing.T) {
	calm := obs(10, 5, "sunny")
	assert.Equal(t,
		"Weather conditions are favorable for outdoor activities.",
		Explain(types.RiskLow, calm))

	// Snow scores points but trips none of the explanation thresholds.
	snowy := obs(10, 5, "snow")
	assert.Equal(t,
		"Minor weather concerns that shouldn't significantly impact plans.",
		Explain(Level(snowy), snowy))
}

func TestSummary(t *testing.T) {
	o := obs(10, 12.0, "partly cloudy")
	o.TemperatureCelsius = 21.5
	assert.Equal(t, "Partly Cloudy, 21.5°C, 10% chance of rain, wind 12.0 km/h", Summary(o))
}

func TestSuggestTimeShift(t *testing.T) {
	rainy := obs(60, 5, "rainy")
	hot := obs(0, 5, "sunny")
	hot.TemperatureCelsius = 34

	tests := []struct {
		name   string
		o      types.WeatherObservation
		hour   int
		want   int
		wantOK bool
	}{
		{"rain pushes afternoon to morning", rainy, 15, 10, true},
		{"rain pushes noon earlier", rainy, 12, 9, true},
		{"rain leaves morning alone", rainy, 9, 0, false},
		{"heat pushes midday to evening", hot, 13, 17, true},
		{"heat leaves morning alone", hot, 9, 0, false},
		{"calm weather needs no shift", obs(10, 5, "sunny"), 14, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SuggestTimeShift(tt.o, tt.hour)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
