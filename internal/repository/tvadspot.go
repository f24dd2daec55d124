package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/qrtrack/qrtrack-server-go/internal/model"
)

type TVAdSpotRepository interface {
	Create(ctx context.Context, params model.CreateAdSpotParams) (*model.TVAdSpot, error)
	// FindActiveByDealID returns every non-failed spot for the deal. Usage
	// is recomputed from this full history on each read.
	FindActiveByDealID(ctx context.Context, dealID string) ([]model.TVAdSpot, error)
	FindByDealID(ctx context.Context, dealID string, limit, offset int) ([]model.TVAdSpot, error)
	CountByDealID(ctx context.Context, dealID string) (int, error)
	SumAiringsOnDate(ctx context.Context, dealID string, date time.Time) (int, error)
}

type tvAdSpotRepo struct {
	db *sqlx.DB
}

func NewTVAdSpotRepository(db *sqlx.DB) TVAdSpotRepository {
	return &tvAdSpotRepo{db: db}
}

func (r *tvAdSpotRepo) Create(ctx context.Context, params model.CreateAdSpotParams) (*model.TVAdSpot, error) {
	var spot model.TVAdSpot
	err := r.db.GetContext(ctx, &spot, `
		INSERT INTO tv_ad_spots
			(deal_id, brand_id, ad_title, scheduled_date, duration_seconds,
			 airing_count, status, special_event_fee)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7)
		RETURNING *
	`, params.DealID, params.BrandID, params.AdTitle, params.ScheduledDate,
		params.DurationSeconds, params.AiringCount, params.SpecialEventFee)
	if err != nil {
		return nil, err
	}
	return &spot, nil
}

func (r *tvAdSpotRepo) FindActiveByDealID(ctx context.Context, dealID string) ([]model.TVAdSpot, error) {
	var spots []model.TVAdSpot
	err := r.db.SelectContext(ctx, &spots, `
		SELECT * FROM tv_ad_spots
		WHERE deal_id = $1 AND status != 'failed'
		ORDER BY scheduled_date ASC, created_at ASC
	`, dealID)
	return spots, err
}

func (r *tvAdSpotRepo) FindByDealID(ctx context.Context, dealID string, limit, offset int) ([]model.TVAdSpot, error) {
	var spots []model.TVAdSpot
	err := r.db.SelectContext(ctx, &spots, `
		SELECT * FROM tv_ad_spots
		WHERE deal_id = $1 AND status != 'failed'
		ORDER BY scheduled_date ASC, created_at ASC
		LIMIT $2 OFFSET $3
	`, dealID, limit, offset)
	return spots, err
}

func (r *tvAdSpotRepo) CountByDealID(ctx context.Context, dealID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM tv_ad_spots WHERE deal_id = $1 AND status != 'failed'
	`, dealID)
	return count, err
}

func (r *tvAdSpotRepo) SumAiringsOnDate(ctx context.Context, dealID string, date time.Time) (int, error) {
	var sum int
	err := r.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(airing_count), 0) FROM tv_ad_spots
		WHERE deal_id = $1 AND status != 'failed' AND scheduled_date = $2::date
	`, dealID, date)
	return sum, err
}
