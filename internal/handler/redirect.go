package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/qrtrack/qrtrack-server-go/internal/metrics"
	"github.com/qrtrack/qrtrack-server-go/internal/service"
)

type RedirectHandler struct {
	redirect *service.RedirectService
	tracking *service.TrackingService
}

func NewRedirectHandler(redirect *service.RedirectService, tracking *service.TrackingService) *RedirectHandler {
	return &RedirectHandler{
		redirect: redirect,
		tracking: tracking,
	}
}

// Redirect resolves a short code and serves the policy chain's terminal
// response. Scan tracking on the active path is best-effort and awaited
// inline; its failure is invisible to the client.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")
	start := time.Now()

	decision, err := h.redirect.Resolve(r.Context(), shortCode)
	if err != nil {
		log.Error().Err(err).Str("shortCode", shortCode).Msg("redirect lookup failed")
		metrics.RecordRedirectDuration("error", time.Since(start).Seconds())
		writeHTML(w, http.StatusInternalServerError, pageError)
		return
	}

	defer func() {
		metrics.RecordRedirectDuration(string(decision.Outcome), time.Since(start).Seconds())
	}()

	switch decision.Outcome {
	case service.OutcomeNotFound:
		writeHTML(w, http.StatusNotFound, pageNotFound)
	case service.OutcomeDeleted:
		writeHTML(w, http.StatusGone, pageDeleted)
	case service.OutcomeNotYetActive:
		writeHTML(w, http.StatusForbidden, pageNotYetActive)
	case service.OutcomeExpired:
		writeHTML(w, http.StatusGone, pageExpired)
	case service.OutcomeLimitReached:
		writeHTML(w, http.StatusForbidden, pageLimitReached)
	case service.OutcomeInactive:
		writeHTML(w, http.StatusForbidden, pageInactive)
	case service.OutcomeActive:
		h.tracking.RecordScan(r.Context(), decision.QRCode, r)
		// 307 preserves the request method on the follow-up request.
		http.Redirect(w, r, decision.QRCode.DestinationURL, http.StatusTemporaryRedirect)
	default:
		writeHTML(w, http.StatusInternalServerError, pageError)
	}
}
