package geocode

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"package-tracking-service/internal/domain"
	"package-tracking-service/internal/platform/obs"
	"package-tracking-service/internal/ports"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "package-tracking-service/1.0"
	DefaultLanguage  = "es"
)

// nominatimPlace is one element of the /search response. Coordinates come
// back as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Option configures the Nominatim client.
type Option func(*Nominatim)

// WithBaseURL points the client at another Nominatim-compatible server.
func WithBaseURL(base string) Option {
	return func(n *Nominatim) {
		n.baseURL = strings.TrimRight(base, "/")
	}
}

// WithUserAgent sets the client identification the provider requires.
func WithUserAgent(ua string) Option {
	return func(n *Nominatim) {
		n.userAgent = ua
	}
}

// WithLanguage sets the Accept-Language header.
func WithLanguage(lang string) Option {
	return func(n *Nominatim) {
		n.language = lang
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(n *Nominatim) {
		n.httpClient = hc
	}
}

// WithRateLimit caps outgoing requests per second for this process.
func WithRateLimit(rps float64) Option {
	return func(n *Nominatim) {
		n.limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	}
}

// WithLimiter replaces the rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(n *Nominatim) {
		n.limiter = l
	}
}

// Nominatim implements ports.Geocoder against the OpenStreetMap search API.
type Nominatim struct {
	baseURL    string
	userAgent  string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ ports.Geocoder = (*Nominatim)(nil)

func NewNominatim(opts ...Option) *Nominatim {
	n := &Nominatim{
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		language:   DefaultLanguage,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(1, 1),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Lookup returns the first match for query. A non-2xx response, an empty
// result list or unusable coordinates all mean no match (nil, nil); only
// transport failures are errors.
func (n *Nominatim) Lookup(ctx context.Context, query string) (_ *ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "nominatim.lookup")(&err)

	res, err := n.lookup(ctx, query)
	switch {
	case err != nil:
		obs.CountLookup(obs.OutcomeError)
	case res == nil:
		obs.CountLookup(obs.OutcomeNoMatch)
	default:
		obs.CountLookup(obs.OutcomeMatch)
	}
	return res, err
}

func (n *Nominatim) lookup(ctx context.Context, query string) (*ports.GeocodeResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim rate limit")
	}

	req, err := n.newRequest(ctx, query)
	if err != nil {
		return nil, err
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		zap.L().Warn("geocode: nominatim non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("query", query),
		)
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim read body")
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim parse response")
	}

	if len(places) == 0 {
		return nil, nil
	}

	lat := domain.ParseCoord(places[0].Lat)
	lng := domain.ParseCoord(places[0].Lon)
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return nil, nil
	}

	return &ports.GeocodeResult{
		Lat:         lat,
		Lng:         lng,
		DisplayName: places[0].DisplayName,
	}, nil
}

func (n *Nominatim) newRequest(ctx context.Context, query string) (*http.Request, error) {
	params := url.Values{
		"format": {"json"},
		"limit":  {"1"},
		"q":      {query},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim build request")
	}

	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept-Language", n.language)
	req.Header.Set("Accept", "application/json")

	return req, nil
}
