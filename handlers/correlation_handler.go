package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"timeMirrorAPI/internal/timeline"
	"timeMirrorAPI/middleware"
	"timeMirrorAPI/services"
)

type CorrelationHandler struct {
	correlationService *services.CorrelationService
}

func NewCorrelationHandler(correlationService *services.CorrelationService) *CorrelationHandler {
	return &CorrelationHandler{
		correlationService: correlationService,
	}
}

// GET /analytics/correlations?days=&tz=
func (h *CorrelationHandler) GetCorrelations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	loc, ok := requireTimezone(w, r)
	if !ok {
		return
	}
	asOf := timeline.Today(loc)

	windowDays := services.DefaultCorrelationDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "days must be a positive number")
			return
		}
		windowDays = parsed
	}

	result, err := h.correlationService.GetCorrelations(ctx, userID, windowDays, asOf)
	if err != nil {
		log.Printf("GetCorrelations: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to compute correlations")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
