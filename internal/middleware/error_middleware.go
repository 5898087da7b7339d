package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/startconnect/api/internal/app/models/dto"
	"github.com/startconnect/api/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to HTTP responses. A CustomError's
// message, when present, replaces the generic text for its category.
func HandleAPIError(c *gin.Context, err error) {
	message := func(fallback string) string {
		var customErr *apperrors.CustomError
		if errors.As(err, &customErr) && customErr.Message != "" {
			return customErr.Message
		}
		return fallback
	}

	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrTeamNotFound,
		apperrors.ErrMessageNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrInviteNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message(err.Error()))

	case apperrors.Is(err, apperrors.ErrPermissionDenied,
		apperrors.ErrNotTeamMember,
		apperrors.ErrNotTeamLeader,
		apperrors.ErrNotMessageOwner):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, message(err.Error()))

	case errors.Is(err, apperrors.ErrEmailNotVerified):
		respond(c, http.StatusForbidden, dto.ErrorCodeEmailNotVerified, "Email not verified")

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid email or password")

	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")

	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenRevoked):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")

	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")

	case errors.Is(err, apperrors.ErrInvalidEmailToken):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid or expired verification token")

	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message("Validation failed"))

	case apperrors.Is(err, apperrors.ErrEmailAlreadyExists,
		apperrors.ErrAlreadyInTeam,
		apperrors.ErrInviteEmailExists,
		apperrors.ErrEmailAlreadyVerified,
		apperrors.ErrConflict):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, message(err.Error()))

	default:
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
