package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/qrtrack/qrtrack-server-go/internal/model"
)

type TVSpecialEventRepository interface {
	// FindByDealID returns events in a stable order so that "first matching
	// range wins" is deterministic when ranges overlap.
	FindByDealID(ctx context.Context, dealID string) ([]model.TVSpecialEvent, error)
}

type tvSpecialEventRepo struct {
	db *sqlx.DB
}

func NewTVSpecialEventRepository(db *sqlx.DB) TVSpecialEventRepository {
	return &tvSpecialEventRepo{db: db}
}

func (r *tvSpecialEventRepo) FindByDealID(ctx context.Context, dealID string) ([]model.TVSpecialEvent, error) {
	var events []model.TVSpecialEvent
	err := r.db.SelectContext(ctx, &events, `
		SELECT * FROM tv_special_events
		WHERE deal_id = $1
		ORDER BY start_date ASC, id ASC
	`, dealID)
	return events, err
}
