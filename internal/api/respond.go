package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata carries the server time of the reply.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError is the error body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(resp)
	if err != nil {
		h.log.Error("failed to marshal JSON response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		h.log.Error("failed to write JSON response: %v", err)
	}
}

func (h *Handler) respondOK(w http.ResponseWriter, data any) {
	h.respondJSON(w, http.StatusOK, &Response{
		Status:   "success",
		Data:     data,
		Metadata: Metadata{Timestamp: time.Now()},
	})
}

func (h *Handler) respondError(w http.ResponseWriter, status int, code, message string, details any) {
	h.respondJSON(w, status, &Response{
		Status:   "error",
		Metadata: Metadata{Timestamp: time.Now()},
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
