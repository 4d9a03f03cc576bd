package handler

import (
	"net/http"
	"strconv"

	"github.com/osse101/luckydraw/internal/domain"
	"github.com/osse101/luckydraw/internal/logger"
	"github.com/osse101/luckydraw/internal/spin"
)

// SpinHandler exposes the spin service over HTTP
type SpinHandler struct {
	service spin.Service
}

func NewSpinHandler(service spin.Service) *SpinHandler {
	return &SpinHandler{service: service}
}

// RemainingTodayResponse reports a location's spins left for the campaign day.
// Remaining is -1 and Unlimited true when the location has no daily limit.
type RemainingTodayResponse struct {
	LocationID int64 `json:"location_id"`
	Remaining  int   `json:"remaining"`
	Unlimited  bool  `json:"unlimited"`
}

// HandleSpin handles POST /api/v1/spin
func (h *SpinHandler) HandleSpin(w http.ResponseWriter, r *http.Request) {
	var req domain.SpinRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Spin"); err != nil {
		return
	}

	log := logger.FromContext(r.Context())
	LogRequestFields(log, "event_id", req.EventID, "participant_id", req.ParticipantID, "location_id", req.LocationID)

	outcome, err := h.service.Spin(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, ErrMsgSpinFailed, err)
		return
	}

	log.Info(LogMsgSpinCompleted, "spin_id", outcome.SpinID, "won", outcome.Won)
	respondJSON(w, http.StatusCreated, outcome)
}

// HandleFinalize handles POST /api/v1/spin/{id}/finalize
func (h *SpinHandler) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	spinID, ok := GetIDURLParam(r, w, "id")
	if !ok {
		return
	}

	history, err := h.service.FinalizeSpin(r.Context(), spinID)
	if err != nil {
		respondServiceError(w, r, ErrMsgFinalizeSpinFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// HandleLatest handles GET /api/v1/spin/latest?participant_id=
func (h *SpinHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	participantID, ok := GetIDQueryParam(r, w, "participant_id")
	if !ok {
		return
	}

	history, err := h.service.LatestSpin(r.Context(), participantID)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetSpinFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// HandleHistory handles GET /api/v1/spin/history?participant_id=&limit=
func (h *SpinHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	participantID, ok := GetIDQueryParam(r, w, "participant_id")
	if !ok {
		return
	}

	limit, err := strconv.Atoi(GetOptionalQueryParam(r, "limit", "0"))
	if err != nil || limit < 0 {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit, CodeInvalidInput)
		return
	}

	spins, err := h.service.History(r.Context(), participantID, limit)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetHistoryFailed, err)
		return
	}
	if spins == nil {
		spins = []domain.SpinHistory{}
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: spins})
}

// HandleStatistics handles GET /api/v1/participants/{id}/statistics
func (h *SpinHandler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	participantID, ok := GetIDURLParam(r, w, "id")
	if !ok {
		return
	}

	stats, err := h.service.Statistics(r.Context(), participantID)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetStatisticsFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// HandleRemainingToday handles GET /api/v1/locations/{id}/remaining-today
func (h *SpinHandler) HandleRemainingToday(w http.ResponseWriter, r *http.Request) {
	locationID, ok := GetIDURLParam(r, w, "id")
	if !ok {
		return
	}

	remaining, err := h.service.RemainingSpinsToday(r.Context(), locationID)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetRemainingTodayFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, RemainingTodayResponse{
		LocationID: locationID,
		Remaining:  remaining,
		Unlimited:  remaining == spin.UnlimitedDaily,
	})
}
