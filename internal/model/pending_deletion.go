package model

import "time"

// PendingDeletion marks a QR code for deferred deletion. The purge job flips
// the QR to status=deleted once scheduled_deletion_at has passed.
type PendingDeletion struct {
	ID                  string    `db:"id" json:"id"`
	QRCodeID            string    `db:"qr_code_id" json:"qrCodeId"`
	ScheduledDeletionAt time.Time `db:"scheduled_deletion_at" json:"scheduledDeletionAt"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
}
