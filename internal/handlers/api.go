package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/agripulse/internal/common"
	"github.com/bobmcallan/agripulse/internal/dashboard"
	"github.com/bobmcallan/agripulse/internal/interfaces"
	"github.com/bobmcallan/agripulse/internal/models"
)

// APIHandler serves the dashboard state as JSON.
type APIHandler struct {
	logger    *common.Logger
	dashboard interfaces.DashboardService
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(logger *common.Logger, svc interfaces.DashboardService) *APIHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &APIHandler{logger: logger, dashboard: svc}
}

// HandleFeeds handles GET /api/feeds.
func (h *APIHandler) HandleFeeds(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"feeds": h.dashboard.Satellites(),
	})
}

// HandleFeed handles GET /api/feeds/{type}.
func (h *APIHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/feeds/"), "/")
	if name == "" {
		h.HandleFeeds(w, r)
		return
	}

	feed, err := models.ParseFeedType(name)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	record, err := h.dashboard.Satellite(feed)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, record)
}

// HandleRegions handles GET /api/regions.
func (h *APIHandler) HandleRegions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"regions": h.dashboard.Regions(),
	})
}

// HandlePulses handles GET /api/pulses.
func (h *APIHandler) HandlePulses(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"pulses": h.dashboard.Pulses(),
	})
}

// HandleStream handles GET /api/stream.
func (h *APIHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"updates": h.dashboard.Stream(),
	})
}

// HandleMarket handles GET /api/market.
func (h *APIHandler) HandleMarket(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	WriteJSON(w, http.StatusOK, h.dashboard.Market())
}

// HandleTrends handles GET /api/analytics/trends.
func (h *APIHandler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	WriteJSON(w, http.StatusOK, h.dashboard.Trends())
}

// HandlePrediction handles GET /api/analytics/prediction. It always answers
// 200; when no outlook can be produced the body is the fallback prediction.
func (h *APIHandler) HandlePrediction(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	WriteJSON(w, http.StatusOK, h.dashboard.Prediction(r.Context()))
}

// HandleRefresh handles POST /api/refresh. Feeds that fail keep their
// previous values; the response reports them without failing the request.
func (h *APIHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	resp := map[string]interface{}{"status": "ok"}
	if err := h.dashboard.ForceRefresh(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("forced refresh completed with errors")
		resp["status"] = "partial"
		resp["error"] = err.Error()
	}
	resp["feeds"] = h.dashboard.Satellites()
	WriteJSON(w, http.StatusOK, resp)
}

// clickRequest is the POST /api/click body.
type clickRequest struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// HandleClick handles POST /api/click.
func (h *APIHandler) HandleClick(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req clickRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Kind == "" || req.Name == "" {
		WriteError(w, http.StatusBadRequest, "kind and name are required")
		return
	}

	ev, err := h.dashboard.Click(r.Context(), models.ClickEvent{
		Kind: models.ClickKind(req.Kind),
		Name: req.Name,
	})
	if errors.Is(err, dashboard.ErrUnknownTarget) {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("kind", req.Kind).Str("name", req.Name).Msg("click failed")
		WriteError(w, http.StatusInternalServerError, "click failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"event":   ev,
		"message": ev.Message(),
	})
}
