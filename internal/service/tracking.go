package service

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/qrtrack/qrtrack-server-go/internal/clientip"
	"github.com/qrtrack/qrtrack-server-go/internal/geoip"
	"github.com/qrtrack/qrtrack-server-go/internal/metrics"
	"github.com/qrtrack/qrtrack-server-go/internal/model"
	"github.com/qrtrack/qrtrack-server-go/internal/repository"
	"github.com/qrtrack/qrtrack-server-go/internal/useragent"
)

// GeoResolver is the lookup surface of geoip.Resolver, extracted so tests can
// substitute it.
type GeoResolver interface {
	Lookup(ctx context.Context, ip string) geoip.Location
}

// TrackingService records scan events. The whole path is best-effort: it has
// no error return, so a tracking failure can never demote a successful
// redirect into an error response.
type TrackingService struct {
	scanRepo repository.ScanRepository
	qrRepo   repository.QRCodeRepository
	geo      GeoResolver
}

func NewTrackingService(scanRepo repository.ScanRepository, qrRepo repository.QRCodeRepository, geo GeoResolver) *TrackingService {
	return &TrackingService{
		scanRepo: scanRepo,
		qrRepo:   qrRepo,
		geo:      geo,
	}
}

// RecordScan composes one Scan row from the request (client IP, geolocation,
// user-agent classification, referrer), inserts it, and bumps the QR's scan
// counter. Failures are logged and swallowed.
func (s *TrackingService) RecordScan(ctx context.Context, qr *model.QRCode, r *http.Request) {
	params := model.CreateScanParams{
		QRCodeID: qr.ID,
	}

	if ip, ok := clientip.FromRequest(r); ok {
		params.IP = &ip
		loc := s.geo.Lookup(ctx, ip)
		params.Country = loc.Country
		params.City = loc.City
		params.Latitude = loc.Latitude
		params.Longitude = loc.Longitude
	}

	ua := useragent.Classify(r.UserAgent())
	params.DeviceType = ua.DeviceType
	params.Browser = ua.Browser
	params.OS = ua.OS

	if referrer := r.Referer(); referrer != "" {
		params.Referrer = &referrer
	}

	if _, err := s.scanRepo.Create(ctx, params); err != nil {
		log.Error().Err(err).Str("qrCodeId", qr.ID).Msg("failed to record scan")
		metrics.RecordScan("insert_failed")
		return
	}

	if err := s.qrRepo.IncrementScansUsed(ctx, qr.ID); err != nil {
		log.Error().Err(err).Str("qrCodeId", qr.ID).Msg("failed to increment scan counter")
		metrics.RecordScan("increment_failed")
		return
	}

	metrics.RecordScan("recorded")
}
