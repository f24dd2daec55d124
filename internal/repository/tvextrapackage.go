package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/qrtrack/qrtrack-server-go/internal/model"
)

type TVExtraPackageRepository interface {
	FindByDealID(ctx context.Context, dealID string) ([]model.TVExtraPackage, error)
}

type tvExtraPackageRepo struct {
	db *sqlx.DB
}

func NewTVExtraPackageRepository(db *sqlx.DB) TVExtraPackageRepository {
	return &tvExtraPackageRepo{db: db}
}

func (r *tvExtraPackageRepo) FindByDealID(ctx context.Context, dealID string) ([]model.TVExtraPackage, error) {
	var packages []model.TVExtraPackage
	err := r.db.SelectContext(ctx, &packages, `
		SELECT * FROM tv_extra_packages
		WHERE deal_id = $1
		ORDER BY package_date ASC
	`, dealID)
	return packages, err
}
