package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/qrtrack/qrtrack-server-go/internal/model"
)

type TVDealRepository interface {
	FindByID(ctx context.Context, id string) (*model.TVDeal, error)
}

type tvDealRepo struct {
	db *sqlx.DB
}

func NewTVDealRepository(db *sqlx.DB) TVDealRepository {
	return &tvDealRepo{db: db}
}

func (r *tvDealRepo) FindByID(ctx context.Context, id string) (*model.TVDeal, error) {
	var deal model.TVDeal
	err := r.db.GetContext(ctx, &deal, `
		SELECT * FROM tv_deals WHERE id = $1
	`, id)
	return HandleNotFound(&deal, err)
}
