// Package geoip resolves public IPs to a coarse location through an external
// provider. Lookups are strictly best-effort: any failure yields an empty
// Location, never an error.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/qrtrack/qrtrack-server-go/internal/config"
	"github.com/qrtrack/qrtrack-server-go/internal/metrics"
	"github.com/qrtrack/qrtrack-server-go/internal/redis"
)

const lookupUserAgent = "qrtrack-server/1.0"

// Location holds what the provider knew about an IP. All fields are nil when
// the lookup failed or returned nothing.
type Location struct {
	Country   *string  `json:"country"`
	City      *string  `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type providerResponse struct {
	CountryName *string  `json:"country_name"`
	Country     *string  `json:"country"`
	City        *string  `json:"city"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type Resolver struct {
	client      *http.Client
	providerURL string
	cache       *goredis.Client
	cacheTTL    time.Duration
}

// NewResolver builds a resolver against the given provider base URL. cache
// may be nil, in which case every lookup goes to the provider.
func NewResolver(providerURL string, cache *goredis.Client, cacheTTL time.Duration) *Resolver {
	return &Resolver{
		client: &http.Client{
			Timeout: config.GeoLookupTimeout,
		},
		providerURL: providerURL,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

// Lookup resolves ip to a Location. It never returns an error; timeouts,
// non-2xx responses and malformed bodies all produce the zero Location.
func (r *Resolver) Lookup(ctx context.Context, ip string) Location {
	if loc, ok := r.fromCache(ctx, ip); ok {
		metrics.RecordGeoLookup("cache_hit")
		return loc
	}

	loc, ok := r.fromProvider(ctx, ip)
	if !ok {
		metrics.RecordGeoLookup("failed")
		return Location{}
	}

	metrics.RecordGeoLookup("ok")
	r.toCache(ctx, ip, loc)
	return loc
}

func (r *Resolver) fromProvider(ctx context.Context, ip string) (Location, bool) {
	ctx, cancel := context.WithTimeout(ctx, config.GeoLookupTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s/json/", r.providerURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Warn().Err(err).Str("ip", ip).Msg("geoip: failed to build request")
		return Location{}, false
	}
	req.Header.Set("User-Agent", lookupUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("ip", ip).Msg("geoip: lookup failed")
		return Location{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Str("ip", ip).Msg("geoip: provider returned non-2xx")
		return Location{}, false
	}

	var body providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Warn().Err(err).Str("ip", ip).Msg("geoip: malformed provider response")
		return Location{}, false
	}

	country := body.CountryName
	if country == nil {
		country = body.Country
	}

	return Location{
		Country:   country,
		City:      body.City,
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
	}, true
}

func (r *Resolver) fromCache(ctx context.Context, ip string) (Location, bool) {
	if r.cache == nil {
		return Location{}, false
	}

	raw, err := r.cache.Get(ctx, redis.GeoCacheKey(ip)).Result()
	if err != nil {
		if err != goredis.Nil {
			log.Debug().Err(err).Str("ip", ip).Msg("geoip: cache read failed")
		}
		return Location{}, false
	}

	var loc Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		log.Debug().Err(err).Str("ip", ip).Msg("geoip: stale cache entry")
		return Location{}, false
	}
	return loc, true
}

func (r *Resolver) toCache(ctx context.Context, ip string, loc Location) {
	if r.cache == nil {
		return
	}

	raw, err := json.Marshal(loc)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, redis.GeoCacheKey(ip), raw, r.cacheTTL).Err(); err != nil {
		log.Debug().Err(err).Str("ip", ip).Msg("geoip: cache write failed")
	}
}
