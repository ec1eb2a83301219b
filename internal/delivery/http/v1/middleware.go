package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-tasklist/internal/services"
)

const (
	userIDCtxKey    = "user_id"
	sessionIDCtxKey = "session_id"
)

// HandleAuthMiddleware resolves the session from a bearer token,
// falling back to the access token cookie set on login.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	accessToken, ok := bearerToken(c)
	if !ok {
		cookie, err := c.Cookie(accessTokenCookie)
		if err != nil || cookie == "" {
			h.logger.Error().Msg("authorization header required")
			abort(c, newUnauthorizedError("authorization required"))
			return
		}
		accessToken = cookie
	}

	claims, err := h.auth.ParseJWTToken(accessToken)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse token")
		abort(c, newUnauthorizedError("invalid access token"))
		return
	}

	session, err := h.sessions.GetSessionByID(c, claims.Subject)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) ||
			errors.Is(err, services.ErrSessionExpired) {
			h.logger.Warn().
				Err(err).
				Str("session_id", claims.Subject).
				Msg("session rejected")
			abort(c, serviceError(err))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to fetch session")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Set(sessionIDCtxKey, session.ID)
	c.Set(userIDCtxKey, session.UserID)
	c.Next()
}

// HandleAccountMiddleware refuses guest sessions. It must run after
// HandleAuthMiddleware.
func (h *handlerImpl) HandleAccountMiddleware(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)
	if userID == "" {
		sessionID, _ := getStringFromContext(c, sessionIDCtxKey)
		h.logger.Warn().
			Str("session_id", sessionID).
			Msg("guest session used for account route")
		abort(c, newForbiddenError(errAccountRequired.Error()))
		return
	}
	c.Next()
}

func bearerToken(c *gin.Context) (string, bool) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		return "", false
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
