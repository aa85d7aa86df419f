package handlers

import (
	"net/http"
	"time"

	"spellquest/internal/models"
	"spellquest/internal/service"
)

// ChallengeHandler handles head-to-head challenge HTTP requests
type ChallengeHandler struct {
	challengeService *service.ChallengeService
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(challengeService *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

type challengeSideView struct {
	Score       int        `json:"score"`
	Correct     int        `json:"correct"`
	Incorrect   int        `json:"incorrect"`
	TimeMs      int        `json:"time_ms"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type challengeView struct {
	ID         int64             `json:"id"`
	WordListID int64             `json:"word_list_id"`
	Status     string            `json:"status"`
	Initiator  challengeSideView `json:"initiator"`
	Opponent   challengeSideView `json:"opponent"`
	WinnerID   *int64            `json:"winner_id,omitempty"`
	ResolvedAt *time.Time        `json:"resolved_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

func sideView(s models.ChallengeSide) challengeSideView {
	return challengeSideView{
		Score:       s.Score,
		Correct:     s.Correct,
		Incorrect:   s.Incorrect,
		TimeMs:      s.TimeMs,
		CompletedAt: s.CompletedAt,
	}
}

func viewForChallenge(c *models.Challenge) challengeView {
	return challengeView{
		ID:         c.ID,
		WordListID: c.WordListID,
		Status:     c.Status,
		Initiator:  sideView(c.Initiator),
		Opponent:   sideView(c.Opponent),
		WinnerID:   c.WinnerID,
		ResolvedAt: c.ResolvedAt,
		CreatedAt:  c.CreatedAt,
	}
}

// Create handles POST /api/challenges
func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OpponentUsername string `json:"opponent_username"`
		WordListID       int64  `json:"word_list_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody)
		return
	}

	who := IdentityFrom(r)
	challenge, err := h.challengeService.Create(r.Context(), who.UserID, req.OpponentUsername, req.WordListID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, viewForChallenge(challenge))
}

// Index handles GET /api/challenges: the caller's challenges with names
func (h *ChallengeHandler) Index(w http.ResponseWriter, r *http.Request) {
	who := IdentityFrom(r)

	challenges, err := h.challengeService.GetForUser(who.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	type namedView struct {
		challengeView
		InitiatorName string `json:"initiator_name"`
		OpponentName  string `json:"opponent_name"`
		WordListName  string `json:"word_list_name"`
	}

	views := []namedView{}
	for i := range challenges {
		views = append(views, namedView{
			challengeView: viewForChallenge(&challenges[i].Challenge),
			InitiatorName: challenges[i].InitiatorName,
			OpponentName:  challenges[i].OpponentName,
			WordListName:  challenges[i].WordListName,
		})
	}
	respondJSON(w, http.StatusOK, views)
}

// Get handles GET /api/challenges/{id}
func (h *ChallengeHandler) Get(w http.ResponseWriter, r *http.Request) {
	challengeID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	who := IdentityFrom(r)
	challenge, err := h.challengeService.Get(challengeID, who.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, viewForChallenge(challenge))
}

// Accept handles POST /api/challenges/{id}/accept
func (h *ChallengeHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.challengeService.Accept)
}

// Decline handles POST /api/challenges/{id}/decline
func (h *ChallengeHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.challengeService.Decline)
}

func (h *ChallengeHandler) respond(w http.ResponseWriter, r *http.Request, action func(int64, int64) (*models.Challenge, error)) {
	challengeID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	who := IdentityFrom(r)
	challenge, err := action(challengeID, who.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, viewForChallenge(challenge))
}
