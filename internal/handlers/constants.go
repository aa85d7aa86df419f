package handlers

const (
	SessionCookieName = "session_id"
	GuestCookieName   = "guest_token"

	ErrInvalidRequestBody  = "Invalid request body"
	ErrUnauthorized        = "Unauthorized"
	ErrInternalServerError = "Internal server error"
)
