package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/qrtrack/qrtrack-server-go/internal/model"
)

type QRCodeRepository interface {
	FindByShortCode(ctx context.Context, shortCode string) (*model.QRCode, error)
	FindByID(ctx context.Context, id string) (*model.QRCode, error)
	FindByUserID(ctx context.Context, userID string, limit, offset int) ([]model.QRCode, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, params model.CreateQRCodeParams) (*model.QRCode, error)
	Update(ctx context.Context, id string, params model.UpdateQRCodeParams) (*model.QRCode, error)
	IncrementScansUsed(ctx context.Context, id string) error
	MarkDeleted(ctx context.Context, id string) error
}

type qrCodeRepo struct {
	db *sqlx.DB
}

func NewQRCodeRepository(db *sqlx.DB) QRCodeRepository {
	return &qrCodeRepo{db: db}
}

func (r *qrCodeRepo) FindByShortCode(ctx context.Context, shortCode string) (*model.QRCode, error) {
	var qr model.QRCode
	err := r.db.GetContext(ctx, &qr, `
		SELECT * FROM qr_codes WHERE short_code = $1
	`, shortCode)
	return HandleNotFound(&qr, err)
}

func (r *qrCodeRepo) FindByID(ctx context.Context, id string) (*model.QRCode, error) {
	var qr model.QRCode
	err := r.db.GetContext(ctx, &qr, `
		SELECT * FROM qr_codes WHERE id = $1
	`, id)
	return HandleNotFound(&qr, err)
}

func (r *qrCodeRepo) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]model.QRCode, error) {
	var qrs []model.QRCode
	err := r.db.SelectContext(ctx, &qrs, `
		SELECT * FROM qr_codes
		WHERE user_id = $1 AND status != 'deleted'
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	return qrs, err
}

func (r *qrCodeRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM qr_codes WHERE user_id = $1 AND status != 'deleted'
	`, userID)
	return count, err
}

func (r *qrCodeRepo) Create(ctx context.Context, params model.CreateQRCodeParams) (*model.QRCode, error) {
	var qr model.QRCode
	err := r.db.GetContext(ctx, &qr, `
		INSERT INTO qr_codes
			(user_id, short_code, destination_url, type, scheduled_start, scheduled_end,
			 scan_limit, foreground_color, background_color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING *
	`, params.UserID, params.ShortCode, params.DestinationURL, params.Type,
		params.ScheduledStart, params.ScheduledEnd, params.ScanLimit,
		params.ForegroundColor, params.BackgroundColor)
	if err != nil {
		return nil, err
	}
	return &qr, nil
}

func (r *qrCodeRepo) Update(ctx context.Context, id string, params model.UpdateQRCodeParams) (*model.QRCode, error) {
	var qr model.QRCode
	err := r.db.GetContext(ctx, &qr, `
		UPDATE qr_codes SET
			destination_url = COALESCE($2, destination_url),
			scheduled_start = COALESCE($3, scheduled_start),
			scheduled_end   = COALESCE($4, scheduled_end),
			scan_limit      = COALESCE($5, scan_limit),
			status          = COALESCE($6, status),
			is_active       = COALESCE($7, is_active),
			updated_at      = NOW()
		WHERE id = $1
		RETURNING *
	`, id, params.DestinationURL, params.ScheduledStart, params.ScheduledEnd,
		params.ScanLimit, params.Status, params.IsActive)
	return HandleNotFound(&qr, err)
}

// IncrementScansUsed bumps the counter server-side so concurrent scans cannot
// lose updates.
func (r *qrCodeRepo) IncrementScansUsed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE qr_codes SET scans_used = scans_used + 1 WHERE id = $1
	`, id)
	return err
}

func (r *qrCodeRepo) MarkDeleted(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE qr_codes SET status = 'deleted', is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`, id)
	return err
}
