package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-tasklist/internal/services"
	"github.com/adanyl0v/go-tasklist/internal/tasklist"
)

var (
	errInvalidRequestBody   = errors.New("invalid request body")
	errInvalidQueryParam    = errors.New("invalid query parameter")
	errInvalidCredentials   = errors.New("please check your login details and try again")
	errAccountRequired      = errors.New("account required")
	errWrongCurrentPassword = errors.New("current password is incorrect")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newForbiddenError(message string) apiError {
	return newAPIError(http.StatusForbidden, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

// serviceError maps service errors to responses.
func serviceError(err error) apiError {
	var vErr *tasklist.ValidationError
	switch {
	case errors.As(err, &vErr):
		return newBadRequestError(vErr.Error())
	case errors.Is(err, services.ErrDeleteNotConfirmed):
		return newBadRequestError(services.ErrDeleteNotConfirmed.Error())
	case errors.Is(err, services.ErrSessionNotFound):
		return newUnauthorizedError(services.ErrSessionNotFound.Error())
	case errors.Is(err, services.ErrSessionExpired):
		return newUnauthorizedError(services.ErrSessionExpired.Error())
	case errors.Is(err, services.ErrTooManySessions):
		return newAPIError(http.StatusServiceUnavailable, services.ErrTooManySessions.Error())
	case errors.Is(err, services.ErrMissingUserFields):
		return newBadRequestError(services.ErrMissingUserFields.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		return newBadRequestError(services.ErrPasswordTooShort.Error())
	case errors.Is(err, services.ErrUserPasswordMismatch):
		return newBadRequestError(errWrongCurrentPassword.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		return newConflictError(services.ErrUsernameTaken.Error())
	case errors.Is(err, services.ErrEmailTaken):
		return newConflictError(services.ErrEmailTaken.Error())
	case errors.Is(err, services.ErrUserNotFound):
		return newNotFoundError(services.ErrUserNotFound.Error())
	default:
		return newStatusTextError(http.StatusInternalServerError)
	}
}
