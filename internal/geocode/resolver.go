// Package geocode resolves postal addresses to coordinates.
package geocode

//go:generate mockgen -destination=mocks/mock_resolver.go -package=mocks -source=resolver.go Resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/stacklok/donation-coordinator/internal/geo"
	"github.com/stacklok/donation-coordinator/internal/httpclient"
)

// DefaultLocationIQEndpoint is the LocationIQ forward-geocoding endpoint
const DefaultLocationIQEndpoint = "https://us1.locationiq.com/v1/search.php"

var (
	// ErrNoResult is returned when the provider knows no location for an address
	ErrNoResult = errors.New("address could not be geocoded")
	// ErrEmptyAddress is returned for blank addresses
	ErrEmptyAddress = errors.New("address is empty")
)

// Resolver turns an address into coordinates
type Resolver interface {
	Resolve(ctx context.Context, address string) (*geo.Coordinates, error)
}

// LocationIQ resolves addresses through the LocationIQ search API
type LocationIQ struct {
	http     httpclient.Client
	endpoint string
	apiKey   string
}

var _ Resolver = (*LocationIQ)(nil)

// Option configures a LocationIQ resolver
type Option func(*LocationIQ) error

// WithEndpoint overrides the search endpoint
func WithEndpoint(endpoint string) Option {
	return func(l *LocationIQ) error {
		u, err := url.Parse(endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid geocoding endpoint %q", endpoint)
		}
		l.endpoint = endpoint
		return nil
	}
}

// WithHTTPClient sets the HTTP client
func WithHTTPClient(c httpclient.Client) Option {
	return func(l *LocationIQ) error {
		if c == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		l.http = c
		return nil
	}
}

// NewLocationIQ creates a resolver authenticated with apiKey
func NewLocationIQ(apiKey string, opts ...Option) (*LocationIQ, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("LocationIQ API key is required")
	}
	l := &LocationIQ{
		http:     httpclient.NewDefaultClient(0),
		endpoint: DefaultLocationIQEndpoint,
		apiKey:   apiKey,
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve returns the best match for address. ErrNoResult is returned when the
// provider answers with no places or with coordinates out of range.
func (l *LocationIQ) Resolve(ctx context.Context, address string) (*geo.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrEmptyAddress
	}

	q := url.Values{}
	q.Set("key", l.apiKey)
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	body, err := l.http.Get(ctx, l.endpoint+"?"+q.Encode())
	if err != nil {
		var httpErr *httpclient.HTTPError
		// LocationIQ answers 404 {"error":"Unable to geocode"} for unknown addresses
		if errors.As(err, &httpErr) && httpErr.StatusCode == 404 {
			return nil, fmt.Errorf("%w: %q", ErrNoResult, address)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// request errors embed the URL, which carries the API key
		return nil, fmt.Errorf("geocoding request failed: %s", strings.ReplaceAll(err.Error(), l.apiKey, "REDACTED"))
	}

	var places []place
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if len(places) == 0 {
		slog.WarnContext(ctx, "Geocoding returned no results", "address", address)
		return nil, fmt.Errorf("%w: %q", ErrNoResult, address)
	}

	lat, latErr := strconv.ParseFloat(places[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(places[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return nil, fmt.Errorf("%w: unparseable coordinates %q,%q", ErrNoResult, places[0].Lat, places[0].Lon)
	}
	c := &geo.Coordinates{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoResult, err)
	}
	return c, nil
}

// Disabled is a Resolver used when no geocoding provider is configured.
// Every address resolves to ErrNoResult, leaving the entity unscoreable.
type Disabled struct{}

// Resolve implements Resolver
func (Disabled) Resolve(context.Context, string) (*geo.Coordinates, error) {
	return nil, fmt.Errorf("%w: geocoding is disabled", ErrNoResult)
}
