package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"timeMirrorAPI/internal/timeline"
	"timeMirrorAPI/middleware"
	"timeMirrorAPI/services"
)

type WeeklyReviewHandler struct {
	reviewService *services.WeeklyReviewService
}

func NewWeeklyReviewHandler(reviewService *services.WeeklyReviewService) *WeeklyReviewHandler {
	return &WeeklyReviewHandler{
		reviewService: reviewService,
	}
}

// GET /analytics/weekly-review?weekStart=YYYY-MM-DD&tz=
// weekStart defaults to the current week; any date inside a week resolves to
// that week's Monday.
func (h *WeeklyReviewHandler) GetWeeklyReview(w http.ResponseWriter, r *http.Request) {
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

	weekStart := r.URL.Query().Get("weekStart")
	review, err := h.reviewService.GetWeeklyReview(ctx, userID, weekStart, asOf)
	if err != nil {
		if strings.Contains(err.Error(), "invalid weekStart") {
			respondWithError(w, http.StatusBadRequest, "Invalid weekStart format. Use YYYY-MM-DD")
			return
		}
		log.Printf("GetWeeklyReview: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to build weekly review")
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}
