package handlers

import (
	"net/http"
	"time"

	"spellquest/internal/models"
	"spellquest/internal/service"
)

// GameHandler handles game session HTTP requests
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

type sessionView struct {
	ID             int64      `json:"id"`
	Mode           string     `json:"mode"`
	WordListID     *int64     `json:"word_list_id,omitempty"`
	Difficulty     *string    `json:"difficulty,omitempty"`
	ChallengeID    *int64     `json:"challenge_id,omitempty"`
	GuestName      string     `json:"guest_name,omitempty"`
	Score          int        `json:"score"`
	CorrectWords   int        `json:"correct_words"`
	IncorrectWords int        `json:"incorrect_words"`
	TotalWords     int        `json:"total_words"`
	BestStreak     int        `json:"best_streak"`
	IsComplete     bool       `json:"is_complete"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func viewForSession(s *models.GameSession) sessionView {
	return sessionView{
		ID:             s.ID,
		Mode:           s.Mode,
		WordListID:     s.WordListID,
		Difficulty:     s.Difficulty,
		ChallengeID:    s.ChallengeID,
		GuestName:      s.GuestName,
		Score:          s.Score,
		CorrectWords:   s.CorrectWords,
		IncorrectWords: s.IncorrectWords,
		TotalWords:     s.TotalWords,
		BestStreak:     s.BestStreak,
		IsComplete:     s.IsComplete,
		StartedAt:      s.StartedAt,
		CompletedAt:    s.CompletedAt,
	}
}

type attemptView struct {
	WordID       int64 `json:"word_id"`
	IsCorrect    bool  `json:"is_correct"`
	TimeTakenMs  int   `json:"time_taken_ms"`
	PointsEarned int   `json:"points_earned"`
}

// Start handles POST /api/game-sessions
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode        string  `json:"mode"`
		WordListID  *int64  `json:"word_list_id"`
		Difficulty  *string `json:"difficulty"`
		ChallengeID *int64  `json:"challenge_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody)
		return
	}

	session, err := h.gameService.StartSession(IdentityFrom(r), service.StartSessionInput{
		Mode:        req.Mode,
		WordListID:  req.WordListID,
		Difficulty:  req.Difficulty,
		ChallengeID: req.ChallengeID,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, viewForSession(session))
}

// Get handles GET /api/game-sessions/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.gameService.GetSession(sessionID, IdentityFrom(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, viewForSession(session))
}

// SubmitAttempt handles POST /api/game-sessions/{id}/attempts
func (h *GameHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		WordID      int64  `json:"word_id"`
		Attempt     string `json:"attempt"`
		TimeTakenMs int    `json:"time_taken_ms"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody)
		return
	}

	attempt, err := h.gameService.SubmitAttempt(sessionID, IdentityFrom(r), req.WordID, req.Attempt, req.TimeTakenMs)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, attemptView{
		WordID:       attempt.WordID,
		IsCorrect:    attempt.IsCorrect,
		TimeTakenMs:  attempt.TimeTakenMs,
		PointsEarned: attempt.PointsEarned,
	})
}

// Complete handles POST /api/game-sessions/{id}/complete
func (h *GameHandler) Complete(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.gameService.CompleteSession(sessionID, IdentityFrom(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	attempts := []attemptView{}
	for _, a := range result.Attempts {
		attempts = append(attempts, attemptView{
			WordID:       a.WordID,
			IsCorrect:    a.IsCorrect,
			TimeTakenMs:  a.TimeTakenMs,
			PointsEarned: a.PointsEarned,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session":  viewForSession(&result.Session),
		"accuracy": result.Accuracy,
		"attempts": attempts,
		"stars":    result.NewStars,
	})
}

// Recent handles GET /api/game-sessions: the signed-in user's latest sessions
func (h *GameHandler) Recent(w http.ResponseWriter, r *http.Request) {
	who := IdentityFrom(r)
	sessions, err := h.gameService.GetRecentSessions(who.UserID, 20)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := []sessionView{}
	for i := range sessions {
		views = append(views, viewForSession(&sessions[i]))
	}
	respondJSON(w, http.StatusOK, views)
}
