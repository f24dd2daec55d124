package service

import (
	"context"
	"time"

	"github.com/qrtrack/qrtrack-server-go/internal/model"
	"github.com/qrtrack/qrtrack-server-go/internal/repository"
)

// Outcome is the terminal state of resolving a short code.
type Outcome string

const (
	OutcomeNotFound     Outcome = "not_found"
	OutcomeDeleted      Outcome = "deleted"
	OutcomeNotYetActive Outcome = "not_yet_active"
	OutcomeExpired      Outcome = "expired"
	OutcomeLimitReached Outcome = "limit_reached"
	OutcomeInactive     Outcome = "inactive"
	OutcomeActive       Outcome = "active"
)

// Decision is the result of the redirect policy chain. QRCode is nil only for
// OutcomeNotFound.
type Decision struct {
	Outcome Outcome
	QRCode  *model.QRCode
}

type RedirectService struct {
	qrRepo repository.QRCodeRepository
	now    func() time.Time
}

func NewRedirectService(qrRepo repository.QRCodeRepository) *RedirectService {
	return &RedirectService{
		qrRepo: qrRepo,
		now:    time.Now,
	}
}

// Resolve looks up a short code and runs the policy chain. Checks are
// strictly ordered and short-circuit: deletion outranks scheduling, which
// outranks the scan limit, which outranks the active flag. A QR that is both
// expired and over its limit reports expired.
//
// An error is returned only for a failed lookup; every policy outcome is a
// normal Decision.
func (s *RedirectService) Resolve(ctx context.Context, shortCode string) (Decision, error) {
	qr, err := s.qrRepo.FindByShortCode(ctx, shortCode)
	if err != nil {
		return Decision{}, err
	}
	if qr == nil {
		return Decision{Outcome: OutcomeNotFound}, nil
	}

	now := s.now()

	if qr.Status == model.QRStatusDeleted {
		return Decision{Outcome: OutcomeDeleted, QRCode: qr}, nil
	}
	if qr.ScheduledStart != nil && qr.ScheduledStart.After(now) {
		return Decision{Outcome: OutcomeNotYetActive, QRCode: qr}, nil
	}
	if qr.ScheduledEnd != nil && qr.ScheduledEnd.Before(now) {
		return Decision{Outcome: OutcomeExpired, QRCode: qr}, nil
	}
	if qr.ScanLimit != nil && qr.ScansUsed >= *qr.ScanLimit {
		return Decision{Outcome: OutcomeLimitReached, QRCode: qr}, nil
	}
	if !qr.IsActive || qr.Status == model.QRStatusInactive {
		return Decision{Outcome: OutcomeInactive, QRCode: qr}, nil
	}

	return Decision{Outcome: OutcomeActive, QRCode: qr}, nil
}
