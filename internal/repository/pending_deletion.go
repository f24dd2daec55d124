package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/qrtrack/qrtrack-server-go/internal/model"
)

type PendingDeletionRepository interface {
	Create(ctx context.Context, qrCodeID string, scheduledAt time.Time) (*model.PendingDeletion, error)
	FindDue(ctx context.Context, now time.Time) ([]model.PendingDeletion, error)
	Delete(ctx context.Context, id string) error
}

type pendingDeletionRepo struct {
	db *sqlx.DB
}

func NewPendingDeletionRepository(db *sqlx.DB) PendingDeletionRepository {
	return &pendingDeletionRepo{db: db}
}

func (r *pendingDeletionRepo) Create(ctx context.Context, qrCodeID string, scheduledAt time.Time) (*model.PendingDeletion, error) {
	var pd model.PendingDeletion
	err := r.db.GetContext(ctx, &pd, `
		INSERT INTO pending_deletions (qr_code_id, scheduled_deletion_at)
		VALUES ($1, $2)
		ON CONFLICT (qr_code_id) DO UPDATE SET scheduled_deletion_at = EXCLUDED.scheduled_deletion_at
		RETURNING *
	`, qrCodeID, scheduledAt)
	if err != nil {
		return nil, err
	}
	return &pd, nil
}

func (r *pendingDeletionRepo) FindDue(ctx context.Context, now time.Time) ([]model.PendingDeletion, error) {
	var due []model.PendingDeletion
	err := r.db.SelectContext(ctx, &due, `
		SELECT * FROM pending_deletions
		WHERE scheduled_deletion_at <= $1
		ORDER BY scheduled_deletion_at ASC
	`, now)
	return due, err
}

func (r *pendingDeletionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_deletions WHERE id = $1`, id)
	return err
}
