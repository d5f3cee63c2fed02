package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"timeMirrorAPI/internal/weekly"
)

// ReflectionContext is the structured summary handed to the reflection
// collaborator. It carries numbers only; the collaborator writes the prose.
type ReflectionContext struct {
	WeekStart      string                  `json:"week_start"`
	WeekScore      int                     `json:"week_score"`
	WeekScoreLabel string                  `json:"week_score_label"`
	ActiveDays     int                     `json:"active_days"`
	EvaluatedDays  int                     `json:"evaluated_days"`
	TotalMinutes   int                     `json:"total_minutes"`
	TargetProgress []weekly.TargetProgress `json:"target_progress"`
	Breakdown      []weekly.GroupMinutes   `json:"category_breakdown"`
	Insights       []string                `json:"insights"`
}

// ReflectionProvider turns a weekly summary into a short free-text
// commentary. Implementations live outside this service; failure must yield
// an error, never a fabricated string.
type ReflectionProvider interface {
	Reflect(ctx context.Context, rc *ReflectionContext) (string, error)
}

// HTTPReflectionProvider calls an external reflection endpoint configured via
// REFLECTION_URL.
type HTTPReflectionProvider struct {
	url    string
	client *http.Client
}

func NewHTTPReflectionProvider(url string) *HTTPReflectionProvider {
	return &HTTPReflectionProvider{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *HTTPReflectionProvider) Reflect(ctx context.Context, rc *ReflectionContext) (string, error) {
	body, err := json.Marshal(rc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal reflection context: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build reflection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("reflection request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reflection endpoint returned status %d", resp.StatusCode)
	}

	var out struct {
		Commentary string `json:"commentary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode reflection response: %w", err)
	}
	return out.Commentary, nil
}
