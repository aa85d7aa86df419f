package handlers

import (
	"net/http"

	"spellquest/internal/service"
)

// ReportHandler handles flagged-word HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Flag handles POST /api/flagged-words. Guests can report too; the guest
// device ID keys the deduplication.
func (h *ReportHandler) Flag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word       string `json:"word"`
		Reason     string `json:"reason"`
		WordListID *int64 `json:"word_list_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody)
		return
	}

	who := IdentityFrom(r)
	report, err := h.reportService.FlagWord(r.Context(), req.Word, who.ReporterKey(), req.Reason, req.WordListID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":   report.ID,
		"word": report.Word,
	})
}
