package model

type QRStatus string

const (
	QRStatusActive   QRStatus = "active"
	QRStatusInactive QRStatus = "inactive"
	QRStatusDeleted  QRStatus = "deleted"
)

type QRType string

const (
	QRTypeStandard     QRType = "standard"
	QRTypeBusinessCard QRType = "business_card"
	QRTypeWiFi         QRType = "wifi"
)

type SpotStatus string

const (
	SpotStatusPending   SpotStatus = "pending"
	SpotStatusConfirmed SpotStatus = "confirmed"
	SpotStatusFailed    SpotStatus = "failed"
)
