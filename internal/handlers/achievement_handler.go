package handlers

import (
	"net/http"
	"strconv"
	"time"

	"spellquest/internal/models"
	"spellquest/internal/service"
)

// AchievementHandler handles achievement HTTP requests
type AchievementHandler struct {
	achievementService *service.AchievementService
}

// NewAchievementHandler creates a new achievement handler
func NewAchievementHandler(achievementService *service.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievementService: achievementService}
}

// Index handles GET /api/achievements: the signed-in user's achievements,
// optionally filtered to a single list via ?wordListId=
func (h *AchievementHandler) Index(w http.ResponseWriter, r *http.Request) {
	who := IdentityFrom(r)

	achievements, err := h.achievementService.GetForUser(who.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if raw := r.URL.Query().Get("wordListId"); raw != "" {
		listID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "wordListId must be an integer")
			return
		}
		filtered := achievements[:0]
		for _, a := range achievements {
			if a.WordListID == listID {
				filtered = append(filtered, a)
			}
		}
		achievements = filtered
	}

	type achievementView struct {
		WordListID int64     `json:"word_list_id"`
		Type       string    `json:"type"`
		Stars      int       `json:"stars"`
		Label      string    `json:"label"`
		EarnedAt   time.Time `json:"earned_at"`
	}

	views := []achievementView{}
	for _, a := range achievements {
		views = append(views, achievementView{
			WordListID: a.WordListID,
			Type:       a.AchievementType,
			Stars:      a.Stars,
			Label:      models.StarLabel(a.Stars),
			EarnedAt:   a.UpdatedAt,
		})
	}
	respondJSON(w, http.StatusOK, views)
}
