package service

import (
	"context"
	"time"

	"github.com/qrtrack/qrtrack-server-go/internal/audit"
	apperrors "github.com/qrtrack/qrtrack-server-go/internal/errors"
	"github.com/qrtrack/qrtrack-server-go/internal/model"
	"github.com/qrtrack/qrtrack-server-go/internal/repository"
)

// AdSpotService orchestrates the usage calculator and spot validator to
// accept or reject new scheduled spots against a deal's budget.
type AdSpotService struct {
	dealRepo  repository.TVDealRepository
	spotRepo  repository.TVAdSpotRepository
	eventRepo repository.TVSpecialEventRepository
	pkgRepo   repository.TVExtraPackageRepository
}

func NewAdSpotService(
	dealRepo repository.TVDealRepository,
	spotRepo repository.TVAdSpotRepository,
	eventRepo repository.TVSpecialEventRepository,
	pkgRepo repository.TVExtraPackageRepository,
) *AdSpotService {
	return &AdSpotService{
		dealRepo:  dealRepo,
		spotRepo:  spotRepo,
		eventRepo: eventRepo,
		pkgRepo:   pkgRepo,
	}
}

// DealUsageView is the recomputed usage snapshot plus the deal it belongs to.
type DealUsageView struct {
	Deal  *model.TVDeal `json:"deal"`
	Usage DealUsage     `json:"usage"`
}

// GetDealUsage recomputes the deal's consumption from the full non-failed
// spot history. Nothing is cached; a schedule immediately after this call
// makes the snapshot stale and the caller re-reads.
func (s *AdSpotService) GetDealUsage(ctx context.Context, dealID string) (*DealUsageView, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if deal == nil {
		return nil, apperrors.NotFound("TV deal")
	}

	spots, err := s.spotRepo.FindActiveByDealID(ctx, dealID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	extras, err := s.pkgRepo.FindByDealID(ctx, dealID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return &DealUsageView{
		Deal:  deal,
		Usage: ComputeDealUsage(deal, spots, extras),
	}, nil
}

type ScheduleSpotInput struct {
	BrandID         *string
	AdTitle         string
	ScheduledDate   time.Time
	DurationSeconds int
	AiringCount     int
}

// ScheduleSpot validates the candidate against the deal's recomputed usage
// and, when clean, persists it as pending with the special-event fee computed
// at creation time (the stored fee is never recomputed). On validation
// failure the returned slice is non-empty and nothing is persisted.
func (s *AdSpotService) ScheduleSpot(ctx context.Context, dealID string, input ScheduleSpotInput) (*model.TVAdSpot, []string, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, nil, apperrors.Database(err)
	}
	if deal == nil {
		return nil, nil, apperrors.NotFound("TV deal")
	}
	if input.AdTitle == "" {
		return nil, nil, apperrors.MissingRequired("adTitle")
	}

	spots, err := s.spotRepo.FindActiveByDealID(ctx, dealID)
	if err != nil {
		return nil, nil, apperrors.Database(err)
	}
	extras, err := s.pkgRepo.FindByDealID(ctx, dealID)
	if err != nil {
		return nil, nil, apperrors.Database(err)
	}
	sameDayAirings, err := s.spotRepo.SumAiringsOnDate(ctx, dealID, input.ScheduledDate)
	if err != nil {
		return nil, nil, apperrors.Database(err)
	}

	usage := ComputeDealUsage(deal, spots, extras)
	candidate := SpotCandidate{
		DurationSeconds: input.DurationSeconds,
		AiringCount:     input.AiringCount,
		ScheduledDate:   input.ScheduledDate,
	}

	if errs := ValidateSpot(deal, usage, sameDayAirings, candidate); len(errs) > 0 {
		audit.Log(ctx, audit.Event{
			Type: audit.EventSpotRejected,
			Details: map[string]interface{}{
				"deal_id":    dealID,
				"violations": len(errs),
			},
		})
		return nil, errs, nil
	}

	fee, err := s.specialEventFee(ctx, dealID, input.ScheduledDate, input.AiringCount)
	if err != nil {
		return nil, nil, err
	}

	spot, err := s.spotRepo.Create(ctx, model.CreateAdSpotParams{
		DealID:          dealID,
		BrandID:         input.BrandID,
		AdTitle:         input.AdTitle,
		ScheduledDate:   input.ScheduledDate,
		DurationSeconds: input.DurationSeconds,
		AiringCount:     input.AiringCount,
		SpecialEventFee: fee,
	})
	if err != nil {
		return nil, nil, apperrors.Database(err)
	}

	audit.Log(ctx, audit.Event{
		Type: audit.EventSpotScheduled,
		Details: map[string]interface{}{
			"deal_id":           dealID,
			"spot_id":           spot.ID,
			"special_event_fee": fee,
		},
	})
	return spot, nil, nil
}

func (s *AdSpotService) ListSpots(ctx context.Context, dealID string, limit, offset int) ([]model.TVAdSpot, int, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	if deal == nil {
		return nil, 0, apperrors.NotFound("TV deal")
	}

	spots, err := s.spotRepo.FindByDealID(ctx, dealID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	total, err := s.spotRepo.CountByDealID(ctx, dealID)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	return spots, total, nil
}

// specialEventFee finds the first event (ordered by start date, then id)
// whose range contains the scheduled date, bounds inclusive. Overlapping
// events do not stack; the first match wins.
func (s *AdSpotService) specialEventFee(ctx context.Context, dealID string, date time.Time, airingCount int) (float64, error) {
	events, err := s.eventRepo.FindByDealID(ctx, dealID)
	if err != nil {
		return 0, apperrors.Database(err)
	}

	day := dateOnly(date)
	for _, event := range events {
		if !day.Before(dateOnly(event.StartDate)) && !day.After(dateOnly(event.EndDate)) {
			return event.ExtraFeeAmount * float64(airingCount), nil
		}
	}
	return 0, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
