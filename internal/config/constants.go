package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 30 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Hard timeout for the external geolocation lookup. A slow provider must
// never stall a redirect.
const GeoLookupTimeout = 5 * time.Second

// Background job intervals
const PurgeJobInterval = 10 * time.Minute

// Grace period between a delete request and the QR code actually going away.
const PendingDeletionDelay = 12 * time.Hour

// QR image rendering bounds (pixels)
const (
	QRImageDefaultSize = 256
	QRImageMaxSize     = 1024
)
