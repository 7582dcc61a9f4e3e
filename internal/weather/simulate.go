package weather

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strings"

	"chronos/internal/types"
)

type simCondition struct {
	label     string
	weight    float64
	precipMin int
	precipMax int
	coolsTemp bool
}

// Simulated condition categories with selection weights biased toward
// favorable weather, plus the precipitation range each category draws from.
var simConditions = []simCondition{
	{label: "sunny", weight: 0.25, precipMin: 0, precipMax: 10},
	{label: "partly cloudy", weight: 0.25, precipMin: 5, precipMax: 25},
	{label: "cloudy", weight: 0.20, precipMin: 15, precipMax: 40},
	{label: "light rain", weight: 0.15, precipMin: 50, precipMax: 70, coolsTemp: true},
	{label: "rainy", weight: 0.10, precipMin: 70, precipMax: 90, coolsTemp: true},
	{label: "thunderstorms", weight: 0.05, precipMin: 80, precipMax: 100, coolsTemp: true},
}

// seedFor derives a deterministic seed from the (location, date) pair using
// FNV-1a 64. A stable, explicitly specified hash (rather than a runtime
// string hash) keeps simulated weather reproducible across processes.
func seedFor(location, date string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(location) + "_" + date))
	return int64(h.Sum64())
}

// Simulate synthesizes a plausible observation for (location, date).
// Repeated calls with the same key always produce identical values, even
// without the cache, because the generator is seeded from the key.
func Simulate(location, date string) types.WeatherObservation {
	rng := rand.New(rand.NewSource(seedFor(location, date)))

	cond := pickCondition(rng)

	temp := 15 + rng.Float64()*13 // [15, 28)
	if cond.coolsTemp {
		temp -= 3 + rng.Float64()*5 // rain cools things down
	}

	precip := cond.precipMin + rng.Intn(cond.precipMax-cond.precipMin+1)
	wind := 5 + rng.Float64()*20  // [5, 25)
	humidity := 40 + rng.Intn(46) // [40, 85]

	return types.WeatherObservation{
		Location:            location,
		ForecastDate:        date,
		TemperatureCelsius:  math.Round(temp*10) / 10,
		Condition:           cond.label,
		PrecipitationChance: precip,
		WindSpeedKmh:        math.Round(wind*10) / 10,
		HumidityPercent:     humidity,
		IsSimulated:         true,
	}
}

func pickCondition(rng *rand.Rand) simCondition {
	r := rng.Float64()
	cum := 0.0
	for _, c := range simConditions {
		cum += c.weight
		if r < cum {
			return c
		}
	}
	return simConditions[len(simConditions)-1]
}
