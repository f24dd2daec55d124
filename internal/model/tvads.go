package model

import (
	"time"
)

// TVDeal is a purchased block of airtime on a channel. Usage against it is
// never persisted; it is recomputed from the spot table on every read.
type TVDeal struct {
	ID                string    `db:"id" json:"id"`
	ChannelName       string    `db:"channel_name" json:"channelName"`
	StartDate         time.Time `db:"start_date" json:"startDate"`
	EndDate           time.Time `db:"end_date" json:"endDate"`
	TotalSpots        int       `db:"total_spots" json:"totalSpots"`
	MaxSecondsPerSpot int       `db:"max_seconds_per_spot" json:"maxSecondsPerSpot"`
	DailyCap          *int      `db:"daily_cap" json:"dailyCap,omitempty"`
	AmountPaid        float64   `db:"amount_paid" json:"amountPaid"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
}

// TVSpecialEvent raises the per-airing fee for spots scheduled inside its
// date range (inclusive on both ends).
type TVSpecialEvent struct {
	ID             string    `db:"id" json:"id"`
	DealID         string    `db:"deal_id" json:"dealId"`
	Name           string    `db:"name" json:"name"`
	StartDate      time.Time `db:"start_date" json:"startDate"`
	EndDate        time.Time `db:"end_date" json:"endDate"`
	ExtraFeeAmount float64   `db:"extra_fee_amount" json:"extraFeeAmount"`
}

// TVExtraPackage tops up a deal's spot capacity. Always additive.
type TVExtraPackage struct {
	ID              string    `db:"id" json:"id"`
	DealID          string    `db:"deal_id" json:"dealId"`
	AdditionalSpots int       `db:"additional_spots" json:"additionalSpots"`
	AmountPaid      float64   `db:"amount_paid" json:"amountPaid"`
	PackageDate     time.Time `db:"package_date" json:"packageDate"`
}

type TVAdSpot struct {
	ID              string     `db:"id" json:"id"`
	DealID          string     `db:"deal_id" json:"dealId"`
	BrandID         *string    `db:"brand_id" json:"brandId,omitempty"`
	AdTitle         string     `db:"ad_title" json:"adTitle"`
	ScheduledDate   time.Time  `db:"scheduled_date" json:"scheduledDate"`
	DurationSeconds int        `db:"duration_seconds" json:"durationSeconds"`
	AiringCount     int        `db:"airing_count" json:"airingCount"`
	Status          SpotStatus `db:"status" json:"status"`
	SpecialEventFee float64    `db:"special_event_fee" json:"specialEventFee"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
}

type CreateAdSpotParams struct {
	DealID          string
	BrandID         *string
	AdTitle         string
	ScheduledDate   time.Time
	DurationSeconds int
	AiringCount     int
	SpecialEventFee float64
}
