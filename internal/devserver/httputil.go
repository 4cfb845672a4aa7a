package devserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

type envelope struct {
	Success            bool   `json:"success"`
	Data               any    `json:"data,omitempty"`
	Count              *int   `json:"count,omitempty"`
	HasCustomStructure *bool  `json:"hasCustomStructure,omitempty"`
	Message            string `json:"message,omitempty"`
	Error              string `json:"error,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("devserver: encode response", slog.Any("error", err))
	}
}

func (s *Server) writeData(w http.ResponseWriter, status int, data any, message string) {
	s.writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func (s *Server) writeList(w http.ResponseWriter, data any, count int) {
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Count: &count})
}

func (s *Server) writeMessage(w http.ResponseWriter, message string) {
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

// writeError maps *Error to its status; anything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *Error
	if errors.As(err, &reqErr) {
		s.writeJSON(w, reqErr.Status, envelope{Error: reqErr.Message})
		return
	}
	s.logger.Error("devserver: request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	s.writeJSON(w, http.StatusInternalServerError, envelope{Error: "Internal server error"})
}

// decodeJSON decodes the request body into v. An empty body leaves v as is.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return badRequest("invalid JSON body")
	}
	return nil
}
