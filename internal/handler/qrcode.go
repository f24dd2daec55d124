package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/qrtrack/qrtrack-server-go/internal/errors"
	"github.com/qrtrack/qrtrack-server-go/internal/httputil"
	"github.com/qrtrack/qrtrack-server-go/internal/middleware"
	"github.com/qrtrack/qrtrack-server-go/internal/model"
	"github.com/qrtrack/qrtrack-server-go/internal/service"
	"github.com/qrtrack/qrtrack-server-go/internal/util"
)

type QRCodeHandler struct {
	qrService *service.QRCodeService
}

func NewQRCodeHandler(qrService *service.QRCodeService) *QRCodeHandler {
	return &QRCodeHandler{qrService: qrService}
}

func (h *QRCodeHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/scans", h.Scans)
	r.Get("/{id}/stats", h.Stats)
	r.Get("/{id}/image", h.Image)
	return r
}

type createQRCodeRequest struct {
	DestinationURL  string     `json:"destinationUrl"`
	Type            string     `json:"type"`
	ScheduledStart  *time.Time `json:"scheduledStart"`
	ScheduledEnd    *time.Time `json:"scheduledEnd"`
	ScanLimit       *int       `json:"scanLimit"`
	ForegroundColor string     `json:"foregroundColor"`
	BackgroundColor string     `json:"backgroundColor"`
}

func (h *QRCodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	var req createQRCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("body", "malformed JSON"))
		return
	}

	qr, err := h.qrService.Create(r.Context(), user.ID, service.CreateQRCodeInput{
		DestinationURL:  req.DestinationURL,
		Type:            model.QRType(req.Type),
		ScheduledStart:  req.ScheduledStart,
		ScheduledEnd:    req.ScheduledEnd,
		ScanLimit:       req.ScanLimit,
		ForegroundColor: req.ForegroundColor,
		BackgroundColor: req.BackgroundColor,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, qr)
}

func (h *QRCodeHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	p := ParsePagination(r)
	qrs, total, err := h.qrService.List(r.Context(), user.ID, p.Limit, p.Offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"qrCodes": qrs,
		"total":   total,
		"limit":   p.Limit,
		"offset":  p.Offset,
	})
}

func (h *QRCodeHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		httputil.WriteError(w, apperrors.NotFound("QR code"))
		return
	}

	qr, err := h.qrService.Get(r.Context(), user.ID, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, qr)
}

type updateQRCodeRequest struct {
	DestinationURL *string    `json:"destinationUrl"`
	ScheduledStart *time.Time `json:"scheduledStart"`
	ScheduledEnd   *time.Time `json:"scheduledEnd"`
	ScanLimit      *int       `json:"scanLimit"`
	Status         *string    `json:"status"`
	IsActive       *bool      `json:"isActive"`
}

func (h *QRCodeHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		httputil.WriteError(w, apperrors.NotFound("QR code"))
		return
	}

	var req updateQRCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("body", "malformed JSON"))
		return
	}

	input := service.UpdateQRCodeInput{
		DestinationURL: req.DestinationURL,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		ScanLimit:      req.ScanLimit,
		IsActive:       req.IsActive,
	}
	if req.Status != nil {
		status := model.QRStatus(*req.Status)
		input.Status = &status
	}

	qr, err := h.qrService.Update(r.Context(), user.ID, id, input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, qr)
}

func (h *QRCodeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		httputil.WriteError(w, apperrors.NotFound("QR code"))
		return
	}

	pd, err := h.qrService.ScheduleDeletion(r.Context(), user.ID, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"scheduledDeletionAt": pd.ScheduledDeletionAt.Format(time.RFC3339),
	})
}

func (h *QRCodeHandler) Scans(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		httputil.WriteError(w, apperrors.NotFound("QR code"))
		return
	}

	p := ParsePagination(r)
	scans, total, err := h.qrService.Scans(r.Context(), user.ID, id, p.Limit, p.Offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"scans":  scans,
		"total":  total,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

func (h *QRCodeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		httputil.WriteError(w, apperrors.NotFound("QR code"))
		return
	}

	stats, err := h.qrService.Stats(r.Context(), user.ID, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *QRCodeHandler) Image(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		httputil.WriteError(w, apperrors.NotFound("QR code"))
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	png, err := h.qrService.Image(r.Context(), user.ID, id, size)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
