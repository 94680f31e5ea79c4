package http

import (
	"encoding/json"
	"net/http"
)

// Envelope is the body of every API response. Successful responses carry
// Data, failures carry Message.
type Envelope struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes env with its status code
func WriteJSON(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Status)

	// Headers are already sent; an encoding error cannot be reported to the client
	_ = json.NewEncoder(w).Encode(env)
}

// WriteSuccess writes a successful envelope around data
func WriteSuccess(w http.ResponseWriter, statusCode int, data any) {
	WriteJSON(w, Envelope{Status: statusCode, Success: true, Data: data})
}

// WriteError writes a failed envelope with a human-readable message
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, Envelope{Status: statusCode, Success: false, Message: message})
}

// Common error writers for consistency
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteTooManyRequests(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

func WriteServiceUnavailable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusServiceUnavailable, message)
}
