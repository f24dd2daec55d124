package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/qrtrack/qrtrack-server-go/internal/model"
)

type ScanRepository interface {
	Create(ctx context.Context, params model.CreateScanParams) (*model.Scan, error)
	FindByQRCodeID(ctx context.Context, qrCodeID string, limit, offset int) ([]model.Scan, error)
	CountByQRCodeID(ctx context.Context, qrCodeID string) (int, error)
	DeviceBreakdown(ctx context.Context, qrCodeID string) ([]model.BreakdownRow, error)
	CountryBreakdown(ctx context.Context, qrCodeID string) ([]model.BreakdownRow, error)
}

type scanRepo struct {
	db *sqlx.DB
}

func NewScanRepository(db *sqlx.DB) ScanRepository {
	return &scanRepo{db: db}
}

func (r *scanRepo) Create(ctx context.Context, params model.CreateScanParams) (*model.Scan, error) {
	var scan model.Scan
	err := r.db.GetContext(ctx, &scan, `
		INSERT INTO scans
			(qr_code_id, ip, country, city, latitude, longitude,
			 device_type, browser, os, referrer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING *
	`, params.QRCodeID, params.IP, params.Country, params.City,
		params.Latitude, params.Longitude, params.DeviceType,
		params.Browser, params.OS, params.Referrer)
	if err != nil {
		return nil, err
	}
	return &scan, nil
}

func (r *scanRepo) FindByQRCodeID(ctx context.Context, qrCodeID string, limit, offset int) ([]model.Scan, error) {
	var scans []model.Scan
	err := r.db.SelectContext(ctx, &scans, `
		SELECT * FROM scans
		WHERE qr_code_id = $1
		ORDER BY scanned_at DESC
		LIMIT $2 OFFSET $3
	`, qrCodeID, limit, offset)
	return scans, err
}

func (r *scanRepo) CountByQRCodeID(ctx context.Context, qrCodeID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM scans WHERE qr_code_id = $1
	`, qrCodeID)
	return count, err
}

func (r *scanRepo) DeviceBreakdown(ctx context.Context, qrCodeID string) ([]model.BreakdownRow, error) {
	var rows []model.BreakdownRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT device_type AS key, COUNT(*) AS count
		FROM scans
		WHERE qr_code_id = $1
		GROUP BY device_type
		ORDER BY count DESC
	`, qrCodeID)
	return rows, err
}

func (r *scanRepo) CountryBreakdown(ctx context.Context, qrCodeID string) ([]model.BreakdownRow, error) {
	var rows []model.BreakdownRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT COALESCE(country, 'Unknown') AS key, COUNT(*) AS count
		FROM scans
		WHERE qr_code_id = $1
		GROUP BY COALESCE(country, 'Unknown')
		ORDER BY count DESC
	`, qrCodeID)
	return rows, err
}
