package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-tasklist/internal/config"
	"github.com/adanyl0v/go-tasklist/internal/delivery/http/v1"
	"github.com/adanyl0v/go-tasklist/internal/services"
)

const sessionPruneInterval = time.Minute

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	sessions := mustNewSessionService(cfg.Tasks)

	router := gin.New()
	router.Use(requestLogger(componentLogger("http")))
	router.Use(gin.Recovery())
	registerRoutes(router, sessions)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	pruneCtx, stopPruning := context.WithCancel(context.Background())
	defer stopPruning()
	go pruneSessions(pruneCtx, sessions, sessionPruneInterval)

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func mustNewSessionService(tasksCfg config.TasksConfig) services.SessionService {
	params := services.SessionParams{
		TTL:         tasksCfg.SessionTTL,
		IDGenerator: tasksCfg.IDGenerator,
		MaxSessions: tasksCfg.MaxSessions,
	}
	// A nil *journal.Journal must not end up inside the interface.
	if globalJournal != nil {
		params.Recorder = globalJournal
	}

	sessions, err := services.NewSessionService(componentLogger("sessions"), params)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create session service")
		panic(err)
	}
	return sessions
}

func registerRoutes(router gin.IRouter, sessions services.SessionService) {
	cfg := config.Global()

	authService := services.NewAuthService(
		componentLogger("auth"),
		sessions,
		globalUsers,
		cfg.Auth.PassphraseHash,
		cfg.JWT.Issuer,
		[]byte(cfg.JWT.SigningKey),
	)
	userService := services.NewUserService(
		componentLogger("users"),
		globalUsers,
		sessions,
		nil,
	)
	taskService := services.NewTaskService(
		componentLogger("tasks"),
		sessions,
		globalFormatter,
	)

	v1Handler := v1.New(
		componentLogger("v1"),
		authService,
		sessions,
		userService,
		taskService,
	)
	v1.RegisterRoutes(router, v1Handler)
}

func pruneSessions(ctx context.Context, sessions services.SessionService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.PruneExpired(ctx)
		}
	}
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("handled request")
	}
}
