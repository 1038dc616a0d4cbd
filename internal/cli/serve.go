package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/huddle/huddle-backend/internal/config"
	"github.com/dafibh/huddle/huddle-backend/internal/handler"
	"github.com/dafibh/huddle/huddle-backend/internal/middleware"
	"github.com/dafibh/huddle/huddle-backend/internal/repository/postgres"
	"github.com/dafibh/huddle/huddle-backend/internal/repository/storage"
	"github.com/dafibh/huddle/huddle-backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "port to listen on (overrides PORT)")
	_ = viper.BindPFlag("PORT", serveCmd.Flags().Lookup("port"))
	serveCmd.Flags().Bool("migrate", false, "apply the database schema before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	// .env may set ENV and LOG_LEVEL
	setupLogging(cfg.Env, cfg.LogLevel)

	ctx := context.Background()
	pool, err := connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
		log.Info().Msg("Schema applied")
	}

	tokenValidator, err := newTokenValidator(cfg.Auth)
	if err != nil {
		return err
	}

	var blobs storage.BlobStore
	if cfg.S3.Enabled() {
		s3Store, err := storage.NewS3BlobStore(ctx, cfg.S3)
		if err != nil {
			return fmt.Errorf("init blob storage: %w", err)
		}
		blobs = s3Store
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Attachment storage enabled")
	} else {
		log.Warn().Msg("S3_BUCKET not set, uploads are disabled")
	}

	// Repositories
	tx := postgres.NewTxManager(pool)
	userRepo := postgres.NewUserRepository(pool)
	workspaceRepo := postgres.NewWorkspaceRepository(pool)
	memberRepo := postgres.NewMemberRepository(pool)
	channelRepo := postgres.NewChannelRepository(pool)
	conversationRepo := postgres.NewConversationRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	reactionRepo := postgres.NewReactionRepository(pool)

	// Services
	authority := service.NewMembershipAuthority(memberRepo)
	cascade := service.NewCascade(tx, workspaceRepo, memberRepo, channelRepo, conversationRepo, messageRepo, reactionRepo)
	identityService := service.NewIdentityService(userRepo)
	uploadService := service.NewUploadService(blobs)
	workspaceService := service.NewWorkspaceService(tx, workspaceRepo, memberRepo, channelRepo, authority, cascade)
	memberService := service.NewMemberService(memberRepo, userRepo, authority, cascade)
	channelService := service.NewChannelService(channelRepo, authority, cascade)
	conversationService := service.NewConversationService(conversationRepo, memberRepo, authority)
	messageService := service.NewMessageService(messageRepo, memberRepo, userRepo, channelRepo, conversationRepo, reactionRepo, authority, cascade, uploadService)
	reactionService := service.NewReactionService(reactionRepo, messageRepo, conversationRepo, authority)

	authMiddleware := middleware.NewAuthMiddleware(tokenValidator, identityService)
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	defer rateLimiter.Stop()

	e := newEcho(cfg)
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, handler.Handlers{
		Health:       handler.NewHealthHandler(pool),
		Docs:         handler.NewDocsHandler(cfg.PublicURL),
		User:         handler.NewUserHandler(identityService),
		Workspace:    handler.NewWorkspaceHandler(workspaceService),
		Member:       handler.NewMemberHandler(memberService),
		Channel:      handler.NewChannelHandler(channelService),
		Conversation: handler.NewConversationHandler(conversationService),
		Message:      handler.NewMessageHandler(messageService, reactionService),
		Upload:       handler.NewUploadHandler(uploadService),
	})

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("auth_mode", cfg.Auth.Mode).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exited")
	return nil
}

func connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info().Msg("Connected to database")
	return pool, nil
}

func newTokenValidator(auth config.AuthConfig) (middleware.TokenValidator, error) {
	switch auth.Mode {
	case config.AuthModeLocal:
		log.Warn().Msg("Using local HS256 tokens; do not run this mode in production")
		return middleware.NewLocalValidator(auth.JWTIssuer, auth.JWTSecret), nil
	default:
		v, err := middleware.NewAuth0Validator(auth.Auth0Domain, auth.Auth0Audience)
		if err != nil {
			return nil, fmt.Errorf("create auth0 validator: %w", err)
		}
		return v, nil
	}
}

func newEcho(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.RequestID())

	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	e.Use(zerologMiddleware())
	e.Use(echomiddleware.Recover())
	return e
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
