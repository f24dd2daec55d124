package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedirectDuration tracks the latency of short-code resolution by outcome
	RedirectDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "qr_redirect_duration_seconds",
			Help: "Duration of redirect requests in seconds",
			Buckets: []float64{
				0.001, // 1ms
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
				2.5,   // 2.5s
				5.0,   // 5s
			},
		},
		[]string{"outcome"}, // active, not_found, deleted, expired, ...
	)

	// ScansRecorded counts scan-tracking attempts by result
	ScansRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qr_scans_recorded_total",
			Help: "Scan tracking attempts by result",
		},
		[]string{"result"}, // recorded, insert_failed, increment_failed
	)

	// GeoLookups counts geolocation resolutions by result
	GeoLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qr_geoip_lookups_total",
			Help: "GeoIP lookups by result",
		},
		[]string{"result"}, // ok, cache_hit, failed
	)
)

// RecordRedirectDuration records the duration of one redirect request
func RecordRedirectDuration(outcome string, seconds float64) {
	RedirectDuration.WithLabelValues(outcome).Observe(seconds)
}

// RecordScan records one scan-tracking attempt
func RecordScan(result string) {
	ScansRecorded.WithLabelValues(result).Inc()
}

// RecordGeoLookup records one geolocation resolution
func RecordGeoLookup(result string) {
	GeoLookups.WithLabelValues(result).Inc()
}
