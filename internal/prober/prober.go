// Package prober issues single reachability probes against monitored URLs.
// A probe is an HTTP GET with a bounded timeout; any HTTP response counts
// as alive, mirroring fetch semantics where only transport-level failures
// reject.
package prober

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/patric-chuzhbe/linkwatch/internal/urlcheck"
)

// Prober performs reachability probes with a shared resty client.
type Prober struct {
	client *resty.Client
}

// New returns a Prober whose probes time out after the given duration.
func New(timeout time.Duration) *Prober {
	return &Prober{
		client: resty.New().SetTimeout(timeout),
	}
}

// Probe fetches rawURL once and returns the measured latency in
// milliseconds. A scheme-less URL is probed over http.
func (p *Prober) Probe(ctx context.Context, rawURL string) (float64, error) {
	response, err := p.client.R().SetContext(ctx).Get(urlcheck.EnsureScheme(rawURL))
	if err != nil {
		return 0, fmt.Errorf("probe of %q failed: %w", rawURL, err)
	}

	return float64(response.Time()) / float64(time.Millisecond), nil
}
