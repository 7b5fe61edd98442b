package handlers

import (
	"errors"
	"net/http"
	"suru/internal/errs"
	"suru/internal/logger"
	"suru/internal/middleware"

	"go.uber.org/zap"
)

// handleError переводит ошибку сервиса в HTTP-ответ. Нетипизированные ошибки
// наружу не раскрываются.
func handleError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	var businessErr *errs.Error
	if !errors.As(err, &businessErr) {
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", operation),
			zap.String("request_id", middleware.GetRequestID(r.Context())))
		responseWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	statusCode := statusFor(businessErr.Kind)
	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("operation", operation),
		zap.String("error_code", string(businessErr.Kind)),
		zap.String("message", businessErr.Message),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode, ErrorResponse{
		Error:   string(businessErr.Kind),
		Message: businessErr.Message,
		Details: businessErr.Details,
	})
}

func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
