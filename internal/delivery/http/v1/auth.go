package v1

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-tasklist/internal/services"
)

const accessTokenCookie = "access_token"

// loginRequest opens an account session when Username is set and
// a guest session otherwise.
type loginRequest struct {
	Username   string `json:"username" form:"username" binding:"max=255"`
	Password   string `json:"password" form:"password" binding:"max=255"`
	Passphrase string `json:"passphrase" form:"passphrase"`
}

type loginResponse struct {
	UserID      string    `json:"user_id,omitempty"`
	SessionID   string    `json:"session_id"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBind(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.auth.Login(c, services.LoginParams{
		Username:   req.Username,
		Password:   req.Password,
		Passphrase: req.Passphrase,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to login")
		switch {
		case errors.Is(err, services.ErrPassphraseMismatch):
			abort(c, newUnauthorizedError(services.ErrPassphraseMismatch.Error()))
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrUserPasswordMismatch):
			abort(c, newUnauthorizedError(errInvalidCredentials.Error()))
		case errors.Is(err, services.ErrTooManySessions):
			abort(c, serviceError(err))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	setAccessTokenCookie(c, result.AccessToken, time.Until(result.AccessTokenExpiresAt))

	c.JSON(http.StatusCreated, loginResponse{
		UserID:      result.UserID,
		SessionID:   result.SessionID,
		AccessToken: result.AccessToken,
		ExpiresAt:   result.AccessTokenExpiresAt,
	})
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	sessionID, _ := getStringFromContext(c, sessionIDCtxKey)

	err := h.auth.Logout(c, sessionID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to logout")
		abort(c, serviceError(err))
		return
	}

	clearCookie(c, accessTokenCookie)

	c.Status(http.StatusNoContent)
}

func getStringFromContext(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

func setAccessTokenCookie(c *gin.Context, token string, maxAge time.Duration) {
	// httpOnly must be false to allow client-side JavaScript
	// to read the cookie and send it in the Authorization header.
	const secure, httpOnly = false, false
	c.SetCookie(accessTokenCookie, token, int(maxAge.Seconds()),
		"/", "", secure, httpOnly)
}

func clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1,
		"/", "", false, false)
}
