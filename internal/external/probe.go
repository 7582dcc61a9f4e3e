package external

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// probeTimeout bounds a single reachability check.
const probeTimeout = 2 * time.Second

// HTTPProbe is a reachability health probe for an upstream collaborator.
// It satisfies the core.HealthProbe interface.
type HTTPProbe struct {
	name   string
	url    string
	client *http.Client
}

// NewHTTPProbe creates a probe that issues a HEAD request against url.
func NewHTTPProbe(name, url string) *HTTPProbe {
	return &HTTPProbe{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: probeTimeout},
	}
}

// Name returns the probe identifier used in the health response.
func (p *HTTPProbe) Name() string {
	return p.name
}

// Check reports an error when the upstream is unreachable or answers with a
// server error. Any response below 500 counts as reachable; auth and
// method-not-allowed responses still prove the host is up.
func (p *HTTPProbe) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return fmt.Errorf("building probe request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s unreachable: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%s returned status %d", p.name, resp.StatusCode)
	}
	return nil
}
