package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-tasklist/internal/models"
	"github.com/adanyl0v/go-tasklist/internal/services"
)

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// Missing fields are reported by the user service so that the
// client gets a single message for all of them.
type registerRequest struct {
	Username string `json:"username" form:"username" binding:"max=255"`
	Email    string `json:"email" form:"email" binding:"omitempty,email,max=255"`
	Password string `json:"password" form:"password" binding:"max=255"`
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}
	h.logger.Info().
		Str("username", req.Username).
		Msg("register request")

	user, err := h.users.Register(c, services.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

func (h *handlerImpl) HandleGetCurrentUser(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	user, err := h.users.GetUserByID(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get user")
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

type updateEmailRequest struct {
	Email string `json:"email" form:"email" binding:"omitempty,email,max=255"`
}

func (h *handlerImpl) HandleUpdateEmail(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	var req updateEmailRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	user, err := h.users.UpdateEmail(c, services.UpdateEmailParams{
		UserID: userID,
		Email:  req.Email,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update email")
		abort(c, serviceError(err))
		return
	}

	h.logger.Info().Msg("updated email")
	c.JSON(http.StatusOK, newUserResponse(user))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password" binding:"max=255"`
	NewPassword     string `json:"new_password" form:"new_password" binding:"max=255"`
}

// HandleChangePassword keeps the calling session and ends every other
// session of the account.
func (h *handlerImpl) HandleChangePassword(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)
	sessionID, _ := getStringFromContext(c, sessionIDCtxKey)

	var req changePasswordRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	err = h.users.ChangePassword(c, services.ChangePasswordParams{
		UserID:          userID,
		SessionID:       sessionID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to change password")
		abort(c, serviceError(err))
		return
	}

	h.logger.Info().Msg("changed password")
	c.Status(http.StatusNoContent)
}
