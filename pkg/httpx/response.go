package httpx

import (
	"encoding/json"
	"net/http"
)

// AccessDeniedMessage is the only detail a caller gets about a failed
// authentication; the specific reason stays in the server log.
const AccessDeniedMessage = "Access denied"

// ErrorResponse is the body of every error answered by the service.
type ErrorResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorResponse with the given status code.
func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, ErrorResponse{Message: message})
}

// WriteAccessDenied writes the uniform 403 body.
func WriteAccessDenied(w http.ResponseWriter) {
	WriteError(w, http.StatusForbidden, AccessDeniedMessage)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
