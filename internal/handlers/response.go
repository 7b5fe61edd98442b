package handlers

import (
	"encoding/json"
	"net/http"
	"suru/internal/logger"
)

// ErrorResponse - тело ответа для любой ошибки
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func responseWithJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("HTTP: Не удалось записать ответ", err)
	}
}

func responseWithError(w http.ResponseWriter, code int, kind, message string) {
	responseWithJSON(w, code, ErrorResponse{Error: kind, Message: message})
}

func healthCheck(w http.ResponseWriter) {
	responseWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
