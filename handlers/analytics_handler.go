package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"timeMirrorAPI/internal/timeline"
	"timeMirrorAPI/middleware"
	"timeMirrorAPI/services"
)

type AnalyticsHandler struct {
	metricsService *services.MetricsService
}

func NewAnalyticsHandler(metricsService *services.MetricsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		metricsService: metricsService,
	}
}

// GET /analytics/daily?metric=focus|balance|rhythm&date=YYYY-MM-DD&range=7|30&tz=
func (h *AnalyticsHandler) GetDailyMetric(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	metric := r.URL.Query().Get("metric")
	if !services.ValidMetric(metric) {
		respondWithError(w, http.StatusBadRequest, "metric must be focus, balance or rhythm")
		return
	}

	loc, ok := requireTimezone(w, r)
	if !ok {
		return
	}

	date, ok := resolveDate(w, r, loc)
	if !ok {
		return
	}

	rangeDays := 7
	if rangeStr := r.URL.Query().Get("range"); rangeStr != "" {
		parsed, err := strconv.Atoi(rangeStr)
		if err != nil || (parsed != 7 && parsed != 30) {
			respondWithError(w, http.StatusBadRequest, "range must be 7 or 30")
			return
		}
		rangeDays = parsed
	}

	result, err := h.metricsService.GetDailyMetric(ctx, userID, metric, date, rangeDays)
	if err != nil {
		log.Printf("GetDailyMetric: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to compute daily metric")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// requireTimezone rejects the request when the tz query param is missing or
// unknown. Every analytics endpoint needs it to resolve the user's "today".
func requireTimezone(w http.ResponseWriter, r *http.Request) (*time.Location, bool) {
	tz := r.URL.Query().Get("tz")
	if tz == "" {
		respondWithError(w, http.StatusBadRequest, "tz query parameter is required")
		return nil, false
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Unknown timezone")
		return nil, false
	}
	return loc, true
}

// resolveDate returns the date param or, when absent, today in the user's
// timezone.
func resolveDate(w http.ResponseWriter, r *http.Request, loc *time.Location) (string, bool) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		return timeline.Today(loc), true
	}
	if _, err := timeline.Parse(dateStr); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return "", false
	}
	return dateStr, true
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
