package service

import (
	"fmt"
	"time"

	"github.com/qrtrack/qrtrack-server-go/internal/model"
)

// SpotCandidate is a proposed ad spot, not yet persisted.
type SpotCandidate struct {
	DurationSeconds int
	AiringCount     int
	ScheduledDate   time.Time
}

// ValidateSpot checks a candidate against the deal's current usage and
// returns every violation, not just the first, so the caller can surface all
// problems in one pass. An empty slice means the spot is schedulable.
//
// sameDayAirings is the airing total already scheduled (non-failed) on the
// candidate's date for this deal.
func ValidateSpot(deal *model.TVDeal, usage DealUsage, sameDayAirings int, c SpotCandidate) []string {
	var errs []string

	if c.DurationSeconds <= 0 {
		errs = append(errs, "spot duration must be positive")
	}
	if c.AiringCount <= 0 {
		errs = append(errs, "airing count must be positive")
	}

	if c.DurationSeconds > deal.MaxSecondsPerSpot {
		errs = append(errs, fmt.Sprintf(
			"spot duration %ds exceeds the deal's per-spot cap of %ds",
			c.DurationSeconds, deal.MaxSecondsPerSpot))
	}

	spotsNeeded := SpotsUsed(c.DurationSeconds, deal.MaxSecondsPerSpot, c.AiringCount)
	if spotsNeeded > usage.RemainingSpots {
		errs = append(errs, fmt.Sprintf(
			"spot requires %d capacity units but only %d remaining spots are left",
			spotsNeeded, usage.RemainingSpots))
	}

	secondsNeeded := SecondsConsumed(c.DurationSeconds, c.AiringCount)
	if secondsNeeded > usage.RemainingSeconds {
		errs = append(errs, fmt.Sprintf(
			"spot requires %d seconds of airtime but only %d remaining seconds are left",
			secondsNeeded, usage.RemainingSeconds))
	}

	if deal.DailyCap != nil {
		if sameDayAirings+c.AiringCount > *deal.DailyCap {
			errs = append(errs, fmt.Sprintf(
				"scheduling %d airings on %s would exceed the daily cap of %d (%d already scheduled)",
				c.AiringCount, c.ScheduledDate.Format("2006-01-02"), *deal.DailyCap, sameDayAirings))
		}
	}

	return errs
}
