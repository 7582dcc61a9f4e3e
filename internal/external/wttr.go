package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"chronos/internal/types"
)

// maxForecastResponseSize caps the forecast payload read to guard against
// a misbehaving upstream.
const maxForecastResponseSize = 2 << 20 // 2 MB

// WttrClient fetches daily forecasts from the wttr.in JSON endpoint
// (format=j1). It implements weather.LiveProvider.
type WttrClient struct {
	base    *BaseClient
	baseURL string
	logger  *slog.Logger
}

// NewWttrClient creates a forecast client. baseURL is typically
// "https://wttr.in"; the http.Client injected into base carries the
// bounded fetch timeout.
func NewWttrClient(base *BaseClient, baseURL string, logger *slog.Logger) *WttrClient {
	return &WttrClient{
		base:    base,
		baseURL: baseURL,
		logger:  logger.With("component", "wttr"),
	}
}

// wttr.in j1 payload, reduced to the fields the pipeline consumes.
type wttrPayload struct {
	CurrentCondition []struct {
		WeatherDesc []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
	} `json:"current_condition"`
	Weather []struct {
		Date     string `json:"date"`
		MaxTempC string `json:"maxtempC"`
		MinTempC string `json:"mintempC"`
		Hourly   []struct {
			ChanceOfRain  string `json:"chanceofrain"`
			WindSpeedKmph string `json:"windspeedKmph"`
			Humidity      string `json:"humidity"`
		} `json:"hourly"`
	} `json:"weather"`
	NearestArea []struct {
		AreaName []struct {
			Value string `json:"value"`
		} `json:"areaName"`
	} `json:"nearest_area"`
}

// Forecast fetches the forecast for (location, date) and maps it to a
// WeatherObservation with IsSimulated=false. The forecast day matching the
// target date is used; when no exact match exists, the source's first
// available day stands in. Temperature is the mean of the day's max/min;
// precipitation, wind, and humidity come from a representative midday
// sample.
func (c *WttrClient) Forecast(ctx context.Context, location, date string) (*types.WeatherObservation, error) {
	endpoint := fmt.Sprintf("%s/%s?format=j1", c.baseURL, url.PathEscape(location))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building forecast request: %w", err)
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, types.NewAppError(types.ErrCodeUpstreamWeather,
			fmt.Sprintf("forecast source returned %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxForecastResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading forecast response: %w", err)
	}

	var payload wttrPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamWeather,
			"forecast source returned malformed payload", err)
	}

	return c.mapObservation(payload, location, date)
}

func (c *WttrClient) mapObservation(p wttrPayload, location, date string) (*types.WeatherObservation, error) {
	if len(p.Weather) == 0 {
		return nil, types.NewAppError(types.ErrCodeUpstreamWeather,
			"forecast source returned no forecast days", nil)
	}

	day := p.Weather[0]
	for _, w := range p.Weather {
		if w.Date == date {
			day = w
			break
		}
	}

	maxTemp := parseFloatDefault(day.MaxTempC, 20)
	minTemp := parseFloatDefault(day.MinTempC, 15)

	// Midday hourly sample (index 4 of the 3-hourly series), falling back
	// to the first sample when the series is short.
	precip, wind, humidity := 0, 10.0, 65
	if len(day.Hourly) > 0 {
		sample := day.Hourly[0]
		if len(day.Hourly) > 4 {
			sample = day.Hourly[4]
		}
		precip = parseIntDefault(sample.ChanceOfRain, 0)
		wind = parseFloatDefault(sample.WindSpeedKmph, 10)
		humidity = parseIntDefault(sample.Humidity, 65)
	}

	condition := "partly cloudy"
	if len(p.CurrentCondition) > 0 && len(p.CurrentCondition[0].WeatherDesc) > 0 {
		condition = strings.ToLower(p.CurrentCondition[0].WeatherDesc[0].Value)
	}

	resolvedName := location
	if len(p.NearestArea) > 0 && len(p.NearestArea[0].AreaName) > 0 {
		if v := p.NearestArea[0].AreaName[0].Value; v != "" {
			resolvedName = v
		}
	}

	return &types.WeatherObservation{
		Location:            resolvedName,
		ForecastDate:        date,
		TemperatureCelsius:  round1((maxTemp + minTemp) / 2),
		Condition:           condition,
		PrecipitationChance: clampPct(precip),
		WindSpeedKmh:        round1(wind),
		HumidityPercent:     clampPct(humidity),
		IsSimulated:         false,
	}, nil
}

func parseFloatDefault(s string, def float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func parseIntDefault(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
