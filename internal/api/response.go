// ABOUTME: Uniform JSON response envelope and pagination shapes for the API
// ABOUTME: Every endpoint answers {success, statusCode, message, data}

package api

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint produces.
type Response struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

// Paginated wraps one page of a listing.
type Paginated struct {
	Items      any `json:"items"`
	Page       int `json:"page"`
	TotalCount int `json:"totalCount"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// newPaginated computes the page envelope for a listing.
func newPaginated(items any, page, totalCount, pageSize int) Paginated {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	return Paginated{
		Items:      items,
		Page:       page,
		TotalCount: totalCount,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondSuccess writes a 200 envelope with the given message and payload.
func respondSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
	})
}

// respondError writes a failure envelope with the given status and message.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{
		Success:    false,
		StatusCode: status,
		Message:    message,
	})
}

// respondForbidden writes the fixed-shape denial every ownership check uses.
func respondForbidden(w http.ResponseWriter) {
	respondError(w, http.StatusForbidden, "Forbidden")
}
