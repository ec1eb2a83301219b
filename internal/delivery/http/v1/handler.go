package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-tasklist/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)
	HandleAccountMiddleware(c *gin.Context)

	HandleRegister(c *gin.Context)
	HandleGetCurrentUser(c *gin.Context)
	HandleUpdateEmail(c *gin.Context)
	HandleChangePassword(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleToggleTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleBeginEdit(c *gin.Context)
	HandleCancelEdit(c *gin.Context)
	HandleCommitEdit(c *gin.Context)
	HandleSetFilter(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	sessions services.SessionService
	users    services.UserService
	tasks    services.TaskService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	userService services.UserService,
	taskService services.TaskService,
) Handler {
	return &handlerImpl{
		logger:   logger,
		auth:     authService,
		sessions: sessionService,
		users:    userService,
		tasks:    taskService,
	}
}

func RegisterRoutes(router gin.IRouter, h Handler) {
	router = router.Group("/api/v1")

	sessionsRouter := router.Group("/sessions")
	sessionsRouter.POST("", h.HandleLogin)
	sessionsRouter.DELETE("", h.HandleAuthMiddleware, h.HandleLogout)

	usersRouter := router.Group("/users")
	usersRouter.POST("", h.HandleRegister)
	accountRouter := usersRouter.Group("/me", h.HandleAuthMiddleware, h.HandleAccountMiddleware)
	accountRouter.GET("", h.HandleGetCurrentUser)
	accountRouter.PUT("/email", h.HandleUpdateEmail)
	accountRouter.PUT("/password", h.HandleChangePassword)

	authorized := router.Group("", h.HandleAuthMiddleware)
	authorized.GET("/tasks", h.HandleGetTasks)
	authorized.POST("/tasks", h.HandleCreateTask)
	authorized.POST("/tasks/:id/toggle", h.HandleToggleTask)
	authorized.DELETE("/tasks/:id", h.HandleDeleteTask)
	authorized.POST("/tasks/:id/edit", h.HandleBeginEdit)
	authorized.PUT("/tasks/:id", h.HandleCommitEdit)
	authorized.DELETE("/edit", h.HandleCancelEdit)
	authorized.PUT("/filter", h.HandleSetFilter)
}
