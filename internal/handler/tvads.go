package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/qrtrack/qrtrack-server-go/internal/errors"
	"github.com/qrtrack/qrtrack-server-go/internal/httputil"
	"github.com/qrtrack/qrtrack-server-go/internal/service"
	"github.com/qrtrack/qrtrack-server-go/internal/util"
)

type TVAdsHandler struct {
	adSpotService *service.AdSpotService
}

func NewTVAdsHandler(adSpotService *service.AdSpotService) *TVAdsHandler {
	return &TVAdsHandler{adSpotService: adSpotService}
}

func (h *TVAdsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/deals/{dealID}/usage", h.DealUsage)
	r.Get("/deals/{dealID}/spots", h.ListSpots)
	r.Post("/deals/{dealID}/spots", h.ScheduleSpot)
	return r
}

func (h *TVAdsHandler) DealUsage(w http.ResponseWriter, r *http.Request) {
	dealID := chi.URLParam(r, "dealID")
	if !util.IsValidUUID(dealID) {
		httputil.WriteError(w, apperrors.NotFound("TV deal"))
		return
	}

	view, err := h.adSpotService.GetDealUsage(r.Context(), dealID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *TVAdsHandler) ListSpots(w http.ResponseWriter, r *http.Request) {
	dealID := chi.URLParam(r, "dealID")
	if !util.IsValidUUID(dealID) {
		httputil.WriteError(w, apperrors.NotFound("TV deal"))
		return
	}

	p := ParsePagination(r)
	spots, total, err := h.adSpotService.ListSpots(r.Context(), dealID, p.Limit, p.Offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"spots":  spots,
		"total":  total,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

type scheduleSpotRequest struct {
	BrandID         *string `json:"brandId"`
	AdTitle         string  `json:"adTitle"`
	ScheduledDate   string  `json:"scheduledDate"` // YYYY-MM-DD
	DurationSeconds int     `json:"durationSeconds"`
	AiringCount     int     `json:"airingCount"`
}

func (h *TVAdsHandler) ScheduleSpot(w http.ResponseWriter, r *http.Request) {
	dealID := chi.URLParam(r, "dealID")
	if !util.IsValidUUID(dealID) {
		httputil.WriteError(w, apperrors.NotFound("TV deal"))
		return
	}

	var req scheduleSpotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("body", "malformed JSON"))
		return
	}

	scheduledDate, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("scheduledDate", "must be YYYY-MM-DD"))
		return
	}

	spot, violations, err := h.adSpotService.ScheduleSpot(r.Context(), dealID, service.ScheduleSpotInput{
		BrandID:         req.BrandID,
		AdTitle:         req.AdTitle,
		ScheduledDate:   scheduledDate,
		DurationSeconds: req.DurationSeconds,
		AiringCount:     req.AiringCount,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if len(violations) > 0 {
		httputil.WriteError(w, apperrors.ValidationError("Spot cannot be scheduled").WithDetails(violations))
		return
	}

	writeJSON(w, http.StatusCreated, spot)
}
