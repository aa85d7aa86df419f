package handlers

import (
	"net/http"
	"time"

	"spellquest/internal/service"
)

// LeaderboardHandler handles leaderboard HTTP requests
type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// Top handles GET /api/leaderboard?difficulty=easy|medium|hard
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	difficulty := r.URL.Query().Get("difficulty")

	entries, err := h.leaderboardService.Top(difficulty)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	type entryView struct {
		Rank       int       `json:"rank"`
		Name       string    `json:"name"`
		Avatar     string    `json:"avatar,omitempty"`
		IsGuest    bool      `json:"is_guest"`
		Score      int       `json:"score"`
		Difficulty string    `json:"difficulty"`
		AchievedAt time.Time `json:"achieved_at"`
	}

	views := []entryView{}
	for _, e := range entries {
		views = append(views, entryView{
			Rank:       e.Rank,
			Name:       e.Name,
			Avatar:     e.Avatar,
			IsGuest:    e.IsGuest,
			Score:      e.Score,
			Difficulty: e.Difficulty,
			AchievedAt: e.AchievedAt,
		})
	}
	respondJSON(w, http.StatusOK, views)
}
