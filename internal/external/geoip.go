package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"chronos/internal/types"
)

const maxGeoResponseSize = 64 << 10 // 64 KB

// GeoIPClient resolves a best-guess location for the caller's network
// origin via the ip-api.com JSON endpoint. It implements locate.GeoLocator.
type GeoIPClient struct {
	base    *BaseClient
	baseURL string
	logger  *slog.Logger
}

// NewGeoIPClient creates a geolocation client. baseURL is typically
// "http://ip-api.com".
func NewGeoIPClient(base *BaseClient, baseURL string, logger *slog.Logger) *GeoIPClient {
	return &GeoIPClient{
		base:    base,
		baseURL: baseURL,
		logger:  logger.With("component", "geoip"),
	}
}

type geoPayload struct {
	Status     string `json:"status"`
	City       string `json:"city"`
	RegionName string `json:"regionName"`
	Country    string `json:"country"`
}

// Locate returns the city/region/country tuple for the caller's network
// origin. Errors here are advisory only: the location resolver treats any
// failure as "no location" and moves on.
func (c *GeoIPClient) Locate(ctx context.Context) (string, string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/json", nil)
	if err != nil {
		return "", "", "", fmt.Errorf("building geolocation request: %w", err)
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return "", "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", "", types.NewAppError(types.ErrCodeUpstreamGeolocation,
			fmt.Sprintf("geolocation source returned %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGeoResponseSize))
	if err != nil {
		return "", "", "", fmt.Errorf("reading geolocation response: %w", err)
	}

	var payload geoPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", "", "", types.NewAppError(types.ErrCodeUpstreamGeolocation,
			"geolocation source returned malformed payload", err)
	}

	if payload.Status != "" && payload.Status != "success" {
		return "", "", "", types.NewAppError(types.ErrCodeUpstreamGeolocation,
			"geolocation lookup did not succeed", nil)
	}

	return payload.City, payload.RegionName, payload.Country, nil
}
