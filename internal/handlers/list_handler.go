package handlers

import (
	"net/http"

	"spellquest/internal/models"
	"spellquest/internal/service"
)

// ListHandler handles word list HTTP requests
type ListHandler struct {
	listService        *service.ListService
	achievementService *service.AchievementService
}

// NewListHandler creates a new list handler
func NewListHandler(listService *service.ListService, achievementService *service.AchievementService) *ListHandler {
	return &ListHandler{listService: listService, achievementService: achievementService}
}

type wordView struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

type listView struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Visibility  string     `json:"visibility"`
	GradeLevel  int        `json:"grade_level"`
	OwnerID     *int64     `json:"owner_id,omitempty"`
	Words       []wordView `json:"words,omitempty"`
	WordCount   int        `json:"word_count"`
	Stars       *int       `json:"stars,omitempty"`
}

func viewForList(lw *models.ListWithWords) listView {
	view := listView{
		ID:          lw.List.ID,
		Name:        lw.List.Name,
		Description: lw.List.Description,
		Visibility:  lw.List.Visibility,
		GradeLevel:  lw.List.GradeLevel,
		OwnerID:     lw.List.OwnerID,
		WordCount:   len(lw.Words),
	}
	for _, w := range lw.Words {
		view.Words = append(view.Words, wordView{ID: w.ID, Text: w.WordText, Position: w.Position})
	}
	return view
}

func viewForSummaries(summaries []models.ListSummary) []listView {
	views := []listView{}
	for _, s := range summaries {
		views = append(views, listView{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Visibility:  s.Visibility,
			GradeLevel:  s.GradeLevel,
			OwnerID:     s.OwnerID,
			WordCount:   s.WordCount,
		})
	}
	return views
}

type listRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Visibility  string   `json:"visibility"`
	GradeLevel  int      `json:"grade_level"`
	Words       []string `json:"words"`
}

// Create handles POST /api/word-lists
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody)
		return
	}
	if req.Visibility == "" {
		req.Visibility = models.VisibilityPrivate
	}

	who := IdentityFrom(r)
	list, err := h.listService.CreateList(who.UserID, req.Name, req.Description, req.Visibility, req.GradeLevel, req.Words)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, viewForList(list))
}

// Get handles GET /api/word-lists/{id}
func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	who := IdentityFrom(r)
	var requesterID *int64
	if who.IsAuthenticated() {
		requesterID = &who.UserID
	}

	list, err := h.listService.GetList(listID, requesterID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	view := viewForList(list)
	if requesterID != nil {
		stars, err := h.achievementService.StarsForList(*requesterID, listID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		view.Stars = &stars
	}
	respondJSON(w, http.StatusOK, view)
}

// Index handles GET /api/word-lists: the caller's own lists plus
// everything public or shared
func (h *ListHandler) Index(w http.ResponseWriter, r *http.Request) {
	who := IdentityFrom(r)

	browsable, err := h.listService.GetBrowsableLists()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"browsable": viewForSummaries(browsable),
	}
	if who.IsAuthenticated() {
		mine, err := h.listService.GetListsForUser(who.UserID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		response["mine"] = viewForSummaries(mine)
	}

	respondJSON(w, http.StatusOK, response)
}

// Update handles PUT /api/word-lists/{id}
func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req listRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody)
		return
	}

	who := IdentityFrom(r)
	list, err := h.listService.UpdateList(listID, who.UserID, req.Name, req.Description, req.GradeLevel, req.Words)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, viewForList(list))
}

// Share handles POST /api/word-lists/{id}/share
func (h *ListHandler) Share(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	who := IdentityFrom(r)
	list, err := h.listService.ShareList(listID, who.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"visibility": list.Visibility})
}

// Delete handles DELETE /api/word-lists/{id}
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	who := IdentityFrom(r)
	if err := h.listService.DeleteList(listID, who.UserID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// SetIllustration handles PUT /api/word-lists/{id}/words/{wordId}/illustration
func (h *ListHandler) SetIllustration(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	wordID, err := pathID(r, "wordId")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := decodeJSON(r, &req); err != nil || req.ImageURL == "" {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody)
		return
	}

	who := IdentityFrom(r)
	if err := h.listService.SetIllustration(listID, who.UserID, wordID, req.ImageURL); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Illustrations handles GET /api/word-lists/{id}/illustrations
func (h *ListHandler) Illustrations(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	who := IdentityFrom(r)
	var requesterID *int64
	if who.IsAuthenticated() {
		requesterID = &who.UserID
	}
	// Visibility check rides on GetList
	if _, err := h.listService.GetList(listID, requesterID); err != nil {
		respondServiceError(w, err)
		return
	}

	illustrations, err := h.listService.GetIllustrations(listID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	type illustrationView struct {
		WordID   int64  `json:"word_id"`
		ImageURL string `json:"image_url"`
	}
	views := []illustrationView{}
	for _, il := range illustrations {
		views = append(views, illustrationView{WordID: il.WordID, ImageURL: il.ImageURL})
	}
	respondJSON(w, http.StatusOK, views)
}
