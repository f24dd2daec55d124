package model

import (
	"time"
)

type QRCode struct {
	ID              string     `db:"id" json:"id"`
	UserID          string     `db:"user_id" json:"userId"`
	ShortCode       string     `db:"short_code" json:"shortCode"`
	DestinationURL  string     `db:"destination_url" json:"destinationUrl"`
	Type            QRType     `db:"type" json:"type"`
	Status          QRStatus   `db:"status" json:"status"`
	IsActive        bool       `db:"is_active" json:"isActive"`
	ScheduledStart  *time.Time `db:"scheduled_start" json:"scheduledStart,omitempty"`
	ScheduledEnd    *time.Time `db:"scheduled_end" json:"scheduledEnd,omitempty"`
	ScanLimit       *int       `db:"scan_limit" json:"scanLimit,omitempty"`
	ScansUsed       int        `db:"scans_used" json:"scansUsed"`
	GeofenceEnabled bool       `db:"geofence_enabled" json:"geofenceEnabled"`
	GeofenceLat     *float64   `db:"geofence_lat" json:"geofenceLat,omitempty"`
	GeofenceLng     *float64   `db:"geofence_lng" json:"geofenceLng,omitempty"`
	GeofenceRadiusM *float64   `db:"geofence_radius_m" json:"geofenceRadiusM,omitempty"`
	ForegroundColor string     `db:"foreground_color" json:"foregroundColor"`
	BackgroundColor string     `db:"background_color" json:"backgroundColor"`
	LogoURL         *string    `db:"logo_url" json:"logoUrl,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

type CreateQRCodeParams struct {
	UserID          string
	ShortCode       string
	DestinationURL  string
	Type            QRType
	ScheduledStart  *time.Time
	ScheduledEnd    *time.Time
	ScanLimit       *int
	ForegroundColor string
	BackgroundColor string
}

// UpdateQRCodeParams carries partial updates; nil fields are left unchanged.
type UpdateQRCodeParams struct {
	DestinationURL *string
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	ScanLimit      *int
	Status         *QRStatus
	IsActive       *bool
}
