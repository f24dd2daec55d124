package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/qrtrack/qrtrack-server-go/internal/geoip"
	"github.com/qrtrack/qrtrack-server-go/internal/model"
)

// Shared mock repositories for service tests.

type mockQRCodeRepo struct {
	mock.Mock
}

func (m *mockQRCodeRepo) FindByShortCode(ctx context.Context, shortCode string) (*model.QRCode, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QRCode), args.Error(1)
}

func (m *mockQRCodeRepo) FindByID(ctx context.Context, id string) (*model.QRCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QRCode), args.Error(1)
}

func (m *mockQRCodeRepo) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]model.QRCode, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.QRCode), args.Error(1)
}

func (m *mockQRCodeRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockQRCodeRepo) Create(ctx context.Context, params model.CreateQRCodeParams) (*model.QRCode, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QRCode), args.Error(1)
}

func (m *mockQRCodeRepo) Update(ctx context.Context, id string, params model.UpdateQRCodeParams) (*model.QRCode, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QRCode), args.Error(1)
}

func (m *mockQRCodeRepo) IncrementScansUsed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockQRCodeRepo) MarkDeleted(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockScanRepo struct {
	mock.Mock
}

func (m *mockScanRepo) Create(ctx context.Context, params model.CreateScanParams) (*model.Scan, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scan), args.Error(1)
}

func (m *mockScanRepo) FindByQRCodeID(ctx context.Context, qrCodeID string, limit, offset int) ([]model.Scan, error) {
	args := m.Called(ctx, qrCodeID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Scan), args.Error(1)
}

func (m *mockScanRepo) CountByQRCodeID(ctx context.Context, qrCodeID string) (int, error) {
	args := m.Called(ctx, qrCodeID)
	return args.Int(0), args.Error(1)
}

func (m *mockScanRepo) DeviceBreakdown(ctx context.Context, qrCodeID string) ([]model.BreakdownRow, error) {
	args := m.Called(ctx, qrCodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BreakdownRow), args.Error(1)
}

func (m *mockScanRepo) CountryBreakdown(ctx context.Context, qrCodeID string) ([]model.BreakdownRow, error) {
	args := m.Called(ctx, qrCodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BreakdownRow), args.Error(1)
}

type mockPendingDeletionRepo struct {
	mock.Mock
}

func (m *mockPendingDeletionRepo) Create(ctx context.Context, qrCodeID string, scheduledAt time.Time) (*model.PendingDeletion, error) {
	args := m.Called(ctx, qrCodeID, scheduledAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PendingDeletion), args.Error(1)
}

func (m *mockPendingDeletionRepo) FindDue(ctx context.Context, now time.Time) ([]model.PendingDeletion, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PendingDeletion), args.Error(1)
}

func (m *mockPendingDeletionRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockTVDealRepo struct {
	mock.Mock
}

func (m *mockTVDealRepo) FindByID(ctx context.Context, id string) (*model.TVDeal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TVDeal), args.Error(1)
}

type mockTVAdSpotRepo struct {
	mock.Mock
}

func (m *mockTVAdSpotRepo) Create(ctx context.Context, params model.CreateAdSpotParams) (*model.TVAdSpot, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TVAdSpot), args.Error(1)
}

func (m *mockTVAdSpotRepo) FindActiveByDealID(ctx context.Context, dealID string) ([]model.TVAdSpot, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TVAdSpot), args.Error(1)
}

func (m *mockTVAdSpotRepo) FindByDealID(ctx context.Context, dealID string, limit, offset int) ([]model.TVAdSpot, error) {
	args := m.Called(ctx, dealID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TVAdSpot), args.Error(1)
}

func (m *mockTVAdSpotRepo) CountByDealID(ctx context.Context, dealID string) (int, error) {
	args := m.Called(ctx, dealID)
	return args.Int(0), args.Error(1)
}

func (m *mockTVAdSpotRepo) SumAiringsOnDate(ctx context.Context, dealID string, date time.Time) (int, error) {
	args := m.Called(ctx, dealID, date)
	return args.Int(0), args.Error(1)
}

type mockTVSpecialEventRepo struct {
	mock.Mock
}

func (m *mockTVSpecialEventRepo) FindByDealID(ctx context.Context, dealID string) ([]model.TVSpecialEvent, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TVSpecialEvent), args.Error(1)
}

type mockTVExtraPackageRepo struct {
	mock.Mock
}

func (m *mockTVExtraPackageRepo) FindByDealID(ctx context.Context, dealID string) ([]model.TVExtraPackage, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TVExtraPackage), args.Error(1)
}

// stubGeo returns a fixed location without any network traffic.
type stubGeo struct {
	loc geoip.Location
}

func (s *stubGeo) Lookup(ctx context.Context, ip string) geoip.Location {
	return s.loc
}
