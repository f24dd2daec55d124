package service

import (
	"context"
	"net/url"
	"time"

	"github.com/lib/pq"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/qrtrack/qrtrack-server-go/internal/audit"
	"github.com/qrtrack/qrtrack-server-go/internal/config"
	apperrors "github.com/qrtrack/qrtrack-server-go/internal/errors"
	"github.com/qrtrack/qrtrack-server-go/internal/model"
	"github.com/qrtrack/qrtrack-server-go/internal/repository"
	"github.com/qrtrack/qrtrack-server-go/internal/util"
)

const (
	shortCodeLength       = 7
	shortCodeMaxAttempts  = 5
	pqUniqueViolationCode = "23505"
)

type QRCodeService struct {
	qrRepo      repository.QRCodeRepository
	scanRepo    repository.ScanRepository
	pendingRepo repository.PendingDeletionRepository
	cfg         *config.Config
	now         func() time.Time
}

func NewQRCodeService(
	qrRepo repository.QRCodeRepository,
	scanRepo repository.ScanRepository,
	pendingRepo repository.PendingDeletionRepository,
	cfg *config.Config,
) *QRCodeService {
	return &QRCodeService{
		qrRepo:      qrRepo,
		scanRepo:    scanRepo,
		pendingRepo: pendingRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

type CreateQRCodeInput struct {
	DestinationURL  string
	Type            model.QRType
	ScheduledStart  *time.Time
	ScheduledEnd    *time.Time
	ScanLimit       *int
	ForegroundColor string
	BackgroundColor string
}

func (s *QRCodeService) Create(ctx context.Context, userID string, input CreateQRCodeInput) (*model.QRCode, error) {
	if input.DestinationURL == "" {
		return nil, apperrors.MissingRequired("destinationUrl")
	}
	parsed, err := url.Parse(input.DestinationURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, apperrors.InvalidInput("destinationUrl", "must be an absolute http(s) URL")
	}
	switch input.Type {
	case model.QRTypeStandard, model.QRTypeBusinessCard, model.QRTypeWiFi:
	case "":
		input.Type = model.QRTypeStandard
	default:
		return nil, apperrors.InvalidInput("type", "unknown QR type")
	}
	if input.ScanLimit != nil && *input.ScanLimit <= 0 {
		return nil, apperrors.InvalidInput("scanLimit", "must be positive when set")
	}
	if input.ScheduledStart != nil && input.ScheduledEnd != nil && input.ScheduledEnd.Before(*input.ScheduledStart) {
		return nil, apperrors.InvalidInput("scheduledEnd", "must not precede scheduledStart")
	}
	if input.ForegroundColor == "" {
		input.ForegroundColor = "#000000"
	}
	if input.BackgroundColor == "" {
		input.BackgroundColor = "#FFFFFF"
	}

	// Short codes are random; a collision surfaces as a unique violation and
	// we retry with a fresh code.
	for attempt := 0; attempt < shortCodeMaxAttempts; attempt++ {
		shortCode, err := util.GenerateShortCode(shortCodeLength)
		if err != nil {
			return nil, apperrors.Internal("failed to generate short code").WithCause(err)
		}

		qr, err := s.qrRepo.Create(ctx, model.CreateQRCodeParams{
			UserID:          userID,
			ShortCode:       shortCode,
			DestinationURL:  input.DestinationURL,
			Type:            input.Type,
			ScheduledStart:  input.ScheduledStart,
			ScheduledEnd:    input.ScheduledEnd,
			ScanLimit:       input.ScanLimit,
			ForegroundColor: input.ForegroundColor,
			BackgroundColor: input.BackgroundColor,
		})
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, apperrors.Database(err)
		}

		audit.Log(ctx, audit.Event{
			Type:   audit.EventQRCreate,
			UserID: userID,
			Details: map[string]interface{}{
				"qr_code_id": qr.ID,
				"short_code": qr.ShortCode,
				"type":       string(qr.Type),
			},
		})
		return qr, nil
	}

	return nil, apperrors.Internal("could not allocate a unique short code")
}

func (s *QRCodeService) Get(ctx context.Context, userID, id string) (*model.QRCode, error) {
	return s.findOwned(ctx, userID, id)
}

func (s *QRCodeService) List(ctx context.Context, userID string, limit, offset int) ([]model.QRCode, int, error) {
	qrs, err := s.qrRepo.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	total, err := s.qrRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	return qrs, total, nil
}

type UpdateQRCodeInput struct {
	DestinationURL *string
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	ScanLimit      *int
	Status         *model.QRStatus
	IsActive       *bool
}

// Update applies a partial update, keeping status and is_active consistent:
// toggling one side mirrors the other. The deleted status is reserved for the
// deletion path and cannot be set here.
func (s *QRCodeService) Update(ctx context.Context, userID, id string, input UpdateQRCodeInput) (*model.QRCode, error) {
	qr, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if qr.Status == model.QRStatusDeleted {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "QR code is deleted")
	}

	if input.DestinationURL != nil {
		parsed, perr := url.Parse(*input.DestinationURL)
		if perr != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return nil, apperrors.InvalidInput("destinationUrl", "must be an absolute http(s) URL")
		}
	}
	if input.ScanLimit != nil && *input.ScanLimit <= 0 {
		return nil, apperrors.InvalidInput("scanLimit", "must be positive when set")
	}

	params := model.UpdateQRCodeParams{
		DestinationURL: input.DestinationURL,
		ScheduledStart: input.ScheduledStart,
		ScheduledEnd:   input.ScheduledEnd,
		ScanLimit:      input.ScanLimit,
	}

	switch {
	case input.Status != nil:
		switch *input.Status {
		case model.QRStatusActive:
			active := true
			params.Status = input.Status
			params.IsActive = &active
		case model.QRStatusInactive:
			active := false
			params.Status = input.Status
			params.IsActive = &active
		default:
			return nil, apperrors.InvalidInput("status", "must be active or inactive")
		}
	case input.IsActive != nil:
		status := model.QRStatusInactive
		if *input.IsActive {
			status = model.QRStatusActive
		}
		params.Status = &status
		params.IsActive = input.IsActive
	}

	updated, err := s.qrRepo.Update(ctx, id, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if updated == nil {
		return nil, apperrors.NotFound("QR code")
	}
	return updated, nil
}

// ScheduleDeletion deactivates the QR immediately and queues the hard delete
// for the purge job after the grace period.
func (s *QRCodeService) ScheduleDeletion(ctx context.Context, userID, id string) (*model.PendingDeletion, error) {
	qr, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if qr.Status == model.QRStatusDeleted {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "QR code is already deleted")
	}

	inactive := model.QRStatusInactive
	active := false
	if _, err := s.qrRepo.Update(ctx, id, model.UpdateQRCodeParams{Status: &inactive, IsActive: &active}); err != nil {
		return nil, apperrors.Database(err)
	}

	deleteAt := s.now().Add(config.PendingDeletionDelay)
	pd, err := s.pendingRepo.Create(ctx, id, deleteAt)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	audit.Log(ctx, audit.Event{
		Type:   audit.EventQRDeleteScheduled,
		UserID: userID,
		Details: map[string]interface{}{
			"qr_code_id":  id,
			"deletion_at": deleteAt.Format(time.RFC3339),
		},
	})
	return pd, nil
}

// Image renders the short URL as a QR PNG.
func (s *QRCodeService) Image(ctx context.Context, userID, id string, size int) ([]byte, error) {
	qr, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = config.QRImageDefaultSize
	}
	if size > config.QRImageMaxSize {
		size = config.QRImageMaxSize
	}

	png, err := qrcode.Encode(s.cfg.ShortURL(qr.ShortCode), qrcode.Medium, size)
	if err != nil {
		return nil, apperrors.Internal("failed to render QR image").WithCause(err)
	}
	return png, nil
}

func (s *QRCodeService) Scans(ctx context.Context, userID, id string, limit, offset int) ([]model.Scan, int, error) {
	if _, err := s.findOwned(ctx, userID, id); err != nil {
		return nil, 0, err
	}
	scans, err := s.scanRepo.FindByQRCodeID(ctx, id, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	total, err := s.scanRepo.CountByQRCodeID(ctx, id)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	return scans, total, nil
}

type QRCodeStats struct {
	TotalScans int                  `json:"totalScans"`
	ScansUsed  int                  `json:"scansUsed"`
	ScanLimit  *int                 `json:"scanLimit,omitempty"`
	ByDevice   []model.BreakdownRow `json:"byDevice"`
	ByCountry  []model.BreakdownRow `json:"byCountry"`
}

func (s *QRCodeService) Stats(ctx context.Context, userID, id string) (*QRCodeStats, error) {
	qr, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	total, err := s.scanRepo.CountByQRCodeID(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	byDevice, err := s.scanRepo.DeviceBreakdown(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	byCountry, err := s.scanRepo.CountryBreakdown(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return &QRCodeStats{
		TotalScans: total,
		ScansUsed:  qr.ScansUsed,
		ScanLimit:  qr.ScanLimit,
		ByDevice:   byDevice,
		ByCountry:  byCountry,
	}, nil
}

// findOwned returns NotFound both for missing rows and rows owned by someone
// else, so ownership is not probeable.
func (s *QRCodeService) findOwned(ctx context.Context, userID, id string) (*model.QRCode, error) {
	qr, err := s.qrRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if qr == nil || qr.UserID != userID {
		return nil, apperrors.NotFound("QR code")
	}
	return qr, nil
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code) == pqUniqueViolationCode
	}
	return false
}
