package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"timeMirrorAPI/internal/streak"
	"timeMirrorAPI/internal/timeline"
	"timeMirrorAPI/middleware"
	"timeMirrorAPI/services"
)

type StreakHandler struct {
	streakService *services.StreakService
}

func NewStreakHandler(streakService *services.StreakService) *StreakHandler {
	return &StreakHandler{
		streakService: streakService,
	}
}

// GET /analytics/streaks?type=&tz=
// Without a type, every registered streak is returned.
func (h *StreakHandler) GetStreaks(w http.ResponseWriter, r *http.Request) {
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

	streakType := r.URL.Query().Get("type")
	if streakType != "" {
		if _, known := streak.Lookup(streakType); !known {
			respondWithError(w, http.StatusBadRequest, "Unknown streak type")
			return
		}
		result, err := h.streakService.GetStreak(ctx, userID, streakType, asOf)
		if err != nil {
			log.Printf("GetStreaks: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to compute streak")
			return
		}
		respondWithJSON(w, http.StatusOK, result)
		return
	}

	results, err := h.streakService.GetAllStreaks(ctx, userID, asOf)
	if err != nil {
		log.Printf("GetStreaks: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to compute streaks")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"as_of":   asOf,
		"streaks": results,
	})
}
