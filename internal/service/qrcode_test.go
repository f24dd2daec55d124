package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/qrtrack/qrtrack-server-go/internal/config"
	apperrors "github.com/qrtrack/qrtrack-server-go/internal/errors"
	"github.com/qrtrack/qrtrack-server-go/internal/model"
)

func newQRCodeService(qrRepo *mockQRCodeRepo, scanRepo *mockScanRepo, pendingRepo *mockPendingDeletionRepo) *QRCodeService {
	cfg := &config.Config{BaseURL: "https://qr.example.com"}
	return NewQRCodeService(qrRepo, scanRepo, pendingRepo, cfg)
}

func TestQRCodeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a standard QR with defaults", func(t *testing.T) {
		qrRepo := new(mockQRCodeRepo)
		qrRepo.On("Create", ctx, mock.MatchedBy(func(p model.CreateQRCodeParams) bool {
			return p.UserID == "user-1" &&
				p.DestinationURL == "https://example.com" &&
				p.Type == model.QRTypeStandard &&
				p.ForegroundColor == "#000000" &&
				p.BackgroundColor == "#FFFFFF" &&
				len(p.ShortCode) == 7
		})).Return(activeQR(), nil)

		svc := newQRCodeService(qrRepo, new(mockScanRepo), new(mockPendingDeletionRepo))
		qr, err := svc.Create(ctx, "user-1", CreateQRCodeInput{DestinationURL: "https://example.com"})

		assert.NoError(t, err)
		assert.NotNil(t, qr)
		qrRepo.AssertExpectations(t)
	})

	t.Run("rejects a missing destination URL", func(t *testing.T) {
		svc := newQRCodeService(new(mockQRCodeRepo), new(mockScanRepo), new(mockPendingDeletionRepo))
		_, err := svc.Create(ctx, "user-1", CreateQRCodeInput{})

		assert.Equal(t, apperrors.ErrCodeMissingRequired, apperrors.GetCode(err))
	})

	t.Run("rejects non-http destination URLs", func(t *testing.T) {
		svc := newQRCodeService(new(mockQRCodeRepo), new(mockScanRepo), new(mockPendingDeletionRepo))

		for _, bad := range []string{"ftp://example.com", "javascript:alert(1)", "not a url", "/relative/path"} {
			_, err := svc.Create(ctx, "user-1", CreateQRCodeInput{DestinationURL: bad})
			assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err), bad)
		}
	})

	t.Run("rejects a non-positive scan limit", func(t *testing.T) {
		svc := newQRCodeService(new(mockQRCodeRepo), new(mockScanRepo), new(mockPendingDeletionRepo))
		limit := 0
		_, err := svc.Create(ctx, "user-1", CreateQRCodeInput{
			DestinationURL: "https://example.com",
			ScanLimit:      &limit,
		})

		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("rejects an end date before the start date", func(t *testing.T) {
		svc := newQRCodeService(new(mockQRCodeRepo), new(mockScanRepo), new(mockPendingDeletionRepo))
		start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		end := start.Add(-time.Hour)
		_, err := svc.Create(ctx, "user-1", CreateQRCodeInput{
			DestinationURL: "https://example.com",
			ScheduledStart: &start,
			ScheduledEnd:   &end,
		})

		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("retries with a fresh short code on a unique violation", func(t *testing.T) {
		qrRepo := new(mockQRCodeRepo)
		collision := &pq.Error{Code: "23505"}
		qrRepo.On("Create", ctx, mock.Anything).Return(nil, collision).Once()
		qrRepo.On("Create", ctx, mock.Anything).Return(activeQR(), nil).Once()

		svc := newQRCodeService(qrRepo, new(mockScanRepo), new(mockPendingDeletionRepo))
		qr, err := svc.Create(ctx, "user-1", CreateQRCodeInput{DestinationURL: "https://example.com"})

		assert.NoError(t, err)
		assert.NotNil(t, qr)
		qrRepo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("gives up after exhausting short code attempts", func(t *testing.T) {
		qrRepo := new(mockQRCodeRepo)
		collision := &pq.Error{Code: "23505"}
		qrRepo.On("Create", ctx, mock.Anything).Return(nil, collision)

		svc := newQRCodeService(qrRepo, new(mockScanRepo), new(mockPendingDeletionRepo))
		_, err := svc.Create(ctx, "user-1", CreateQRCodeInput{DestinationURL: "https://example.com"})

		assert.Equal(t, apperrors.ErrCodeInternal, apperrors.GetCode(err))
		qrRepo.AssertNumberOfCalls(t, "Create", 5)
	})
}

func TestQRCodeService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("setting status mirrors is_active", func(t *testing.T) {
		qrRepo := new(mockQRCodeRepo)
		qrRepo.On("FindByID", ctx, "qr-1").Return(activeQR(), nil)
		qrRepo.On("Update", ctx, "qr-1", mock.MatchedBy(func(p model.UpdateQRCodeParams) bool {
			return p.Status != nil && *p.Status == model.QRStatusInactive &&
				p.IsActive != nil && *p.IsActive == false
		})).Return(activeQR(), nil)

		svc := newQRCodeService(qrRepo, new(mockScanRepo), new(mockPendingDeletionRepo))
		status := model.QRStatusInactive
		_, err := svc.Update(ctx, "user-1", "qr-1", UpdateQRCodeInput{Status: &status})

		assert.NoError(t, err)
		qrRepo.AssertExpectations(t)
	})

	t.Run("setting is_active mirrors status", func(t *testing.T) {
		qrRepo := new(mockQRCodeRepo)
		qrRepo.On("FindByID", ctx, "qr-1").Return(activeQR(), nil)
		qrRepo.On("Update", ctx, "qr-1", mock.MatchedBy(func(p model.UpdateQRCodeParams) bool {
			return p.IsActive != nil && *p.IsActive &&
				p.Status != nil && *p.Status == model.QRStatusActive
		})).Return(activeQR(), nil)

		svc := newQRCodeService(qrRepo, new(mockScanRepo), new(mockPendingDeletionRepo))
		active := true
		_, err := svc.Update(ctx, "user-1", "qr-1", UpdateQRCodeInput{IsActive: &active})

		assert.NoError(t, err)
		qrRepo.AssertExpectations(t)
	})

	t.Run("deleted status cannot be set through update", func(t *testing.T) {
		qrRepo := new(mockQRCodeRepo)
		qrRepo.On("FindByID", ctx, "qr-1").Return(activeQR(), nil)

		svc := newQRCodeService(qrRepo, new(mockScanRepo), new(mockPendingDeletionRepo))
		status := model.QRStatusDeleted
		_, err := svc.Update(ctx, "user-1", "qr-1", UpdateQRCodeInput{Status: &status})

		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("a deleted QR rejects updates", func(t *testing.T) {
		qr := activeQR()
		qr.Status = model.QRStatusDeleted

		qrRepo := new(mockQRCodeRepo)
		qrRepo.On("FindByID", ctx, "qr-1").Return(qr, nil)

		svc := newQRCodeService(qrRepo, new(mockScanRepo), new(mockPendingDeletionRepo))
		active := true
		_, err := svc.Update(ctx, "user-1", "qr-1", UpdateQRCodeInput{IsActive: &active})

		assert.Equal(t, apperrors.ErrCodeConflict, apperrors.GetCode(err))
	})

	t.Run("another user's QR reads as not found", func(t *testing.T) {
		qrRepo := new(mockQRCodeRepo)
		qrRepo.On("FindByID", ctx, "qr-1").Return(activeQR(), nil)

		svc := newQRCodeService(qrRepo, new(mockScanRepo), new(mockPendingDeletionRepo))
		active := true
		_, err := svc.Update(ctx, "user-2", "qr-1", UpdateQRCodeInput{IsActive: &active})

		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})
}

func TestQRCodeService_ScheduleDeletion(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	t.Run("deactivates immediately and queues the purge", func(t *testing.T) {
		qrRepo := new(mockQRCodeRepo)
		pendingRepo := new(mockPendingDeletionRepo)

		qrRepo.On("FindByID", ctx, "qr-1").Return(activeQR(), nil)
		qrRepo.On("Update", ctx, "qr-1", mock.MatchedBy(func(p model.UpdateQRCodeParams) bool {
			return p.Status != nil && *p.Status == model.QRStatusInactive &&
				p.IsActive != nil && !*p.IsActive
		})).Return(activeQR(), nil)
		pendingRepo.On("Create", ctx, "qr-1", now.Add(config.PendingDeletionDelay)).
			Return(&model.PendingDeletion{ID: "pd-1", QRCodeID: "qr-1"}, nil)

		svc := newQRCodeService(qrRepo, new(mockScanRepo), pendingRepo)
		svc.now = func() time.Time { return now }

		pd, err := svc.ScheduleDeletion(ctx, "user-1", "qr-1")

		assert.NoError(t, err)
		assert.Equal(t, "qr-1", pd.QRCodeID)
		pendingRepo.AssertExpectations(t)
	})

	t.Run("an already deleted QR conflicts", func(t *testing.T) {
		qr := activeQR()
		qr.Status = model.QRStatusDeleted

		qrRepo := new(mockQRCodeRepo)
		qrRepo.On("FindByID", ctx, "qr-1").Return(qr, nil)

		svc := newQRCodeService(qrRepo, new(mockScanRepo), new(mockPendingDeletionRepo))
		_, err := svc.ScheduleDeletion(ctx, "user-1", "qr-1")

		assert.Equal(t, apperrors.ErrCodeConflict, apperrors.GetCode(err))
	})
}

func TestQRCodeService_Image(t *testing.T) {
	ctx := context.Background()

	t.Run("renders a PNG of the short URL", func(t *testing.T) {
		qrRepo := new(mockQRCodeRepo)
		qrRepo.On("FindByID", ctx, "qr-1").Return(activeQR(), nil)

		svc := newQRCodeService(qrRepo, new(mockScanRepo), new(mockPendingDeletionRepo))
		png, err := svc.Image(ctx, "user-1", "qr-1", 0)

		assert.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
	})

	t.Run("oversized requests are clamped", func(t *testing.T) {
		qrRepo := new(mockQRCodeRepo)
		qrRepo.On("FindByID", ctx, "qr-1").Return(activeQR(), nil)

		svc := newQRCodeService(qrRepo, new(mockScanRepo), new(mockPendingDeletionRepo))
		png, err := svc.Image(ctx, "user-1", "qr-1", 100000)

		assert.NoError(t, err)
		assert.NotEmpty(t, png)
	})
}

func TestQRCodeService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("combines counters and breakdowns", func(t *testing.T) {
		qr := activeQR()
		qr.ScansUsed = 12
		limit := 100
		qr.ScanLimit = &limit

		qrRepo := new(mockQRCodeRepo)
		scanRepo := new(mockScanRepo)
		qrRepo.On("FindByID", ctx, "qr-1").Return(qr, nil)
		scanRepo.On("CountByQRCodeID", ctx, "qr-1").Return(12, nil)
		scanRepo.On("DeviceBreakdown", ctx, "qr-1").Return([]model.BreakdownRow{
			{Key: "Mobile", Count: 9}, {Key: "Desktop", Count: 3},
		}, nil)
		scanRepo.On("CountryBreakdown", ctx, "qr-1").Return([]model.BreakdownRow{
			{Key: "Germany", Count: 12},
		}, nil)

		svc := newQRCodeService(qrRepo, scanRepo, new(mockPendingDeletionRepo))
		stats, err := svc.Stats(ctx, "user-1", "qr-1")

		assert.NoError(t, err)
		assert.Equal(t, 12, stats.TotalScans)
		assert.Equal(t, 12, stats.ScansUsed)
		assert.Equal(t, 100, *stats.ScanLimit)
		assert.Len(t, stats.ByDevice, 2)
	})
}
