package service

import (
	"github.com/qrtrack/qrtrack-server-go/internal/model"
)

// Deal usage arithmetic. All pure; usage is recomputed from the full spot
// history on every read instead of keeping a persisted counter, so it can
// never drift from the spot table.

// SpotsUsed converts one scheduled spot into capacity units. A spot longer
// than the per-spot cap consumes multiple units, rounding up.
func SpotsUsed(durationSeconds, maxSecondsPerSpot, airingCount int) int {
	if maxSecondsPerSpot <= 0 || durationSeconds <= 0 || airingCount <= 0 {
		return 0
	}
	unitsPerAiring := (durationSeconds + maxSecondsPerSpot - 1) / maxSecondsPerSpot
	return unitsPerAiring * airingCount
}

// SecondsConsumed is the raw airtime a spot consumes.
func SecondsConsumed(durationSeconds, airingCount int) int {
	if durationSeconds <= 0 || airingCount <= 0 {
		return 0
	}
	return durationSeconds * airingCount
}

// RemainingSpots is derived only, never persisted.
func RemainingSpots(totalSpots, usedSpots, extraSpots int) int {
	return totalSpots + extraSpots - usedSpots
}

// RemainingSeconds is the airtime budget left on the deal including extra
// package capacity.
func RemainingSeconds(totalSpots, maxSecondsPerSpot, usedSeconds, extraSpots int) int {
	return (totalSpots+extraSpots)*maxSecondsPerSpot - usedSeconds
}

// DealUsage is a point-in-time snapshot of a deal's consumption.
type DealUsage struct {
	UsedSpots        int `json:"usedSpots"`
	UsedSeconds      int `json:"usedSeconds"`
	ExtraSpots       int `json:"extraSpots"`
	RemainingSpots   int `json:"remainingSpots"`
	RemainingSeconds int `json:"remainingSeconds"`
}

// ComputeDealUsage sums all non-failed spots and extra packages into a usage
// snapshot. Failed spots are skipped even if the caller's query already
// filtered them.
func ComputeDealUsage(deal *model.TVDeal, spots []model.TVAdSpot, extras []model.TVExtraPackage) DealUsage {
	var usedSpots, usedSeconds int
	for _, spot := range spots {
		if spot.Status == model.SpotStatusFailed {
			continue
		}
		usedSpots += SpotsUsed(spot.DurationSeconds, deal.MaxSecondsPerSpot, spot.AiringCount)
		usedSeconds += SecondsConsumed(spot.DurationSeconds, spot.AiringCount)
	}

	var extraSpots int
	for _, pkg := range extras {
		extraSpots += pkg.AdditionalSpots
	}

	return DealUsage{
		UsedSpots:        usedSpots,
		UsedSeconds:      usedSeconds,
		ExtraSpots:       extraSpots,
		RemainingSpots:   RemainingSpots(deal.TotalSpots, usedSpots, extraSpots),
		RemainingSeconds: RemainingSeconds(deal.TotalSpots, deal.MaxSecondsPerSpot, usedSeconds, extraSpots),
	}
}
