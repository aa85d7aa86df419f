package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"spellquest/internal/identity"
	"spellquest/internal/service"
	"spellquest/internal/validation"
)

// respondJSON writes v as a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondError writes a JSON error body with the given status
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service error to an HTTP status. Unrecognized
// errors become 500s with the detail kept to the log.
func respondServiceError(w http.ResponseWriter, err error) {
	var ve validation.ValidationError
	if errors.As(err, &ve) {
		respondError(w, http.StatusBadRequest, ve.Error())
		return
	}

	switch {
	case isAny(err,
		service.ErrInvalidMode, service.ErrInvalidDifficulty,
		service.ErrListOrDifficulty, service.ErrChallengeModeOnly,
		service.ErrEmptyList, service.ErrWordNotInList):
		respondError(w, http.StatusBadRequest, err.Error())

	case isAny(err,
		service.ErrInvalidCredentials, service.ErrSessionNotFound,
		service.ErrSessionExpired, identity.ErrInvalidGuestToken):
		respondError(w, http.StatusUnauthorized, err.Error())

	case isAny(err,
		service.ErrListForbidden, service.ErrNotListOwner,
		service.ErrBuiltInList, service.ErrSessionForbidden,
		service.ErrNotParticipant, service.ErrNotOpponent,
		service.ErrGuestChallenge):
		respondError(w, http.StatusForbidden, err.Error())

	case isAny(err,
		service.ErrListNotFound, service.ErrGameSessionNotFound,
		service.ErrChallengeNotFound, service.ErrItemNotFound,
		service.ErrOpponentNotFound):
		respondError(w, http.StatusNotFound, err.Error())

	case isAny(err,
		service.ErrUsernameTaken, service.ErrEmailTaken,
		service.ErrListLocked, service.ErrSessionComplete,
		service.ErrAttemptLimit, service.ErrWordAttempted,
		service.ErrChallengeNotPending, service.ErrChallengeNotActive,
		service.ErrSelfChallenge, service.ErrDuplicateReport,
		service.ErrInsufficientFunds, service.ErrItemNotOwned):
		respondError(w, http.StatusConflict, err.Error())

	default:
		log.Printf("Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, ErrInternalServerError)
	}
}

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// decodeJSON decodes a request body into v, rejecting unknown fields
func decodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
