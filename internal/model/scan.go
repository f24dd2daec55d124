package model

import (
	"time"
)

// Scan is an append-only record of one resolved redirect. Rows are never
// updated or deleted by the application.
type Scan struct {
	ID         string     `db:"id" json:"id"`
	QRCodeID   string     `db:"qr_code_id" json:"qrCodeId"`
	IP         *string    `db:"ip" json:"ip,omitempty"`
	Country    *string    `db:"country" json:"country,omitempty"`
	City       *string    `db:"city" json:"city,omitempty"`
	Latitude   *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude  *float64   `db:"longitude" json:"longitude,omitempty"`
	DeviceType string     `db:"device_type" json:"deviceType"`
	Browser    string     `db:"browser" json:"browser"`
	OS         string     `db:"os" json:"os"`
	Referrer   *string    `db:"referrer" json:"referrer,omitempty"`
	ScannedAt  time.Time  `db:"scanned_at" json:"scannedAt"`
}

type CreateScanParams struct {
	QRCodeID   string
	IP         *string
	Country    *string
	City       *string
	Latitude   *float64
	Longitude  *float64
	DeviceType string
	Browser    string
	OS         string
	Referrer   *string
}

// BreakdownRow is one bucket of a grouped scan count (by device, country, ...).
type BreakdownRow struct {
	Key   string `db:"key" json:"key"`
	Count int    `db:"count" json:"count"`
}
