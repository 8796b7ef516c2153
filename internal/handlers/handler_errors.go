package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the generic error payload returned by handlers. Kind is a
// stable code identifying the error category; clients branch on it rather than
// on the message text.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// classifyError maps a service error onto its HTTP status and error kind.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "VALIDATION"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, "DUPLICATE"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"
	case errors.Is(err, apperrors.ErrOverpayment):
		return http.StatusUnprocessableEntity, "OVERPAYMENT"
	case errors.Is(err, apperrors.ErrAlreadySettled):
		return http.StatusUnprocessableEntity, "ALREADY_SETTLED"
	case errors.Is(err, apperrors.ErrRecurrenceExhausted):
		return http.StatusUnprocessableEntity, "RECURRENCE_EXHAUSTED"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// respondWithError maps service errors onto HTTP statuses. Validation and
// money-rule violations surface their message; everything unexpected becomes
// an opaque 500.
func respondWithError(c *gin.Context, logger *slog.Logger, err error) {
	status, kind := classifyError(err)
	if status == http.StatusInternalServerError {
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: "Internal server error", Kind: kind})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Kind: kind})
}
