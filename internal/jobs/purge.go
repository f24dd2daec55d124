package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/qrtrack/qrtrack-server-go/internal/audit"
	"github.com/qrtrack/qrtrack-server-go/internal/repository"
)

// PurgeJob finalizes scheduled deletions: once a pending deletion comes due,
// the QR code is flipped to status=deleted and the marker is removed. The
// redirect path treats status=deleted as permanently gone regardless of this
// job's timing.
type PurgeJob struct {
	pendingRepo repository.PendingDeletionRepository
	qrRepo      repository.QRCodeRepository
	interval    time.Duration
	done        chan struct{}
}

func NewPurgeJob(
	pendingRepo repository.PendingDeletionRepository,
	qrRepo repository.QRCodeRepository,
	interval time.Duration,
) *PurgeJob {
	return &PurgeJob{
		pendingRepo: pendingRepo,
		qrRepo:      qrRepo,
		interval:    interval,
		done:        make(chan struct{}),
	}
}

func (j *PurgeJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("purge job started")
}

func (j *PurgeJob) Stop() {
	close(j.done)
	log.Info().Msg("purge job stopped")
}

func (j *PurgeJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.purge()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.purge()
		}
	}
}

func (j *PurgeJob) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	due, err := j.pendingRepo.FindDue(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to list due deletions")
		return
	}

	var purged int
	for _, pd := range due {
		if err := j.qrRepo.MarkDeleted(ctx, pd.QRCodeID); err != nil {
			log.Error().Err(err).Str("qrCodeId", pd.QRCodeID).Msg("failed to mark QR code deleted")
			continue
		}
		if err := j.pendingRepo.Delete(ctx, pd.ID); err != nil {
			log.Error().Err(err).Str("id", pd.ID).Msg("failed to clear pending deletion")
			continue
		}
		audit.Log(ctx, audit.Event{
			Type:    audit.EventQRPurged,
			Details: map[string]interface{}{"qr_code_id": pd.QRCodeID},
		})
		purged++
	}

	if purged > 0 {
		log.Info().Int("count", purged).Msg("purged scheduled deletions")
	}
}
