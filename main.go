package main

import (
	"context"
	"errors"
	"log"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	gommonlog "github.com/labstack/gommon/log"

	"github.com/HSouheill/yoga_blog_backend/config"
	"github.com/HSouheill/yoga_blog_backend/controllers"
	"github.com/HSouheill/yoga_blog_backend/middleware"
	"github.com/HSouheill/yoga_blog_backend/repositories"
	"github.com/HSouheill/yoga_blog_backend/routes"
	"github.com/HSouheill/yoga_blog_backend/security"
	"github.com/HSouheill/yoga_blog_backend/services"
	"github.com/HSouheill/yoga_blog_backend/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Browsers need the right type to play uploaded videos inline
	_ = mime.AddExtensionType(".mov", "video/quicktime")
	_ = mime.AddExtensionType(".m4v", "video/x-m4v")

	repo, closeStore, err := buildPostRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s store: %v", cfg.StoreBackend, err)
	}
	defer closeStore()

	media, err := buildMediaStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s media backend: %v", cfg.MediaBackend, err)
	}

	redisClient := config.ConnectRedis(cfg)
	feedCache := services.NewRedisFeedCache(redisClient, cfg.FeedCacheTTL)

	secret := cfg.JWTSecret
	if secret == "" {
		log.Println("Warning: JWT_SECRET not set, admin sessions will not survive a restart")
		if secret, err = security.GenerateSecret(32); err != nil {
			log.Fatalf("Failed to generate session secret: %v", err)
		}
	}
	gate, err := services.NewAdminGate(cfg.AdminPIN, cfg.AdminPINHash, secret, cfg.AdminTokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize admin gate: %v", err)
	}

	var transport services.MailTransport
	if cfg.MailEnabled() {
		transport = services.NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	} else {
		log.Println("Warning: SMTP not configured, contact form is disabled")
	}
	contact := services.NewContactService(transport, services.ContactConfig{
		FromEmail:  cfg.FromEmail,
		OwnerEmail: cfg.OwnerEmail,
		SiteName:   cfg.SiteName,
	})

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	defer wsHub.Stop()

	posts := services.NewPostService(repo, media, feedCache, wsHub, cfg.PublicBaseURL)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(parseLogLevel(cfg.LogLevel))
	e.Validator = controllers.NewValidator()

	rateLimiter := middleware.NewRateLimiter()
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	go rateLimiter.Cleanup(time.Hour, stopCleanup)

	e.Use(middleware.RequestID())
	e.Use(echoMiddleware.LoggerWithConfig(echoMiddleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}",` +
			`"method":"${method}","uri":"${uri}","status":${status},"latency_human":"${latency_human}"}` + "\n",
	}))
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.NewCORSConfig(cfg.PublicBaseURL, cfg.CORSAllowedOrigins)))
	e.Use(echoMiddleware.Secure())
	e.Use(echoMiddleware.BodyLimit(bodyLimit(cfg.MaxUploadBytes)))
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: []string{cfg.PublicBaseURL},
		MediaDomains:   mediaDomains(cfg),
	}))

	e.Match([]string{http.MethodGet, http.MethodHead}, "/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "OK",
			"message": cfg.SiteName + " blog backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{http.MethodGet, http.MethodHead}, "/health", func(c echo.Context) error {
		cache := "disabled"
		if feedCache.Enabled() {
			cache = "redis"
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"store":   cfg.StoreBackend,
			"media":   media.Name(),
			"cache":   cache,
			"mail":    cfg.MailEnabled(),
			"clients": wsHub.ClientCount(),
		})
	})

	e.Use(httpsRedirect())

	handlers := routes.Handlers{
		Posts:     controllers.NewPostController(posts),
		Admin:     controllers.NewAdminController(gate, posts),
		Contact:   controllers.NewContactController(contact),
		Hub:       wsHub,
		AdminAuth: middleware.RequireAdmin(gate),
	}
	if local, ok := media.(*services.LocalStore); ok {
		handlers.UploadDir = local.Dir()
	}
	routes.SetupRoutes(e, handlers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

func buildPostRepository(cfg *config.Config) (repositories.PostRepository, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreFirestore:
		client, err := config.InitFirebase(context.Background(), cfg)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewFirestorePostRepository(client, config.PostsCollection), func() { client.Close() }, nil
	case config.StoreMemory:
		log.Println("Warning: using the in-memory store, posts are lost on restart")
		return repositories.NewMemoryPostRepository(), func() {}, nil
	default:
		client, err := config.ConnectDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		return repositories.NewMongoPostRepository(client.Database(cfg.DBName), config.PostsCollection), closeFn, nil
	}
}

func buildMediaStore(cfg *config.Config) (services.MediaStore, error) {
	switch cfg.MediaBackend {
	case config.MediaS3:
		return services.NewS3Store(cfg.S3Endpoint, cfg.S3Access, cfg.S3Secret, cfg.S3Bucket, cfg.S3Secure, cfg.S3PublicBaseURL, cfg.MaxUploadBytes)
	case config.MediaLocal:
		return services.NewLocalStore(cfg.UploadDir, cfg.MaxUploadBytes)
	default:
		return services.NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryUploadPreset, cfg.CloudinaryFolder, cfg.MaxUploadBytes)
	}
}

func mediaDomains(cfg *config.Config) []string {
	switch cfg.MediaBackend {
	case config.MediaCloudinary:
		return []string{"https://res.cloudinary.com"}
	case config.MediaS3:
		return []string{cfg.S3PublicBaseURL}
	}
	return nil
}

// bodyLimit leaves room for several media files plus the form fields
func bodyLimit(maxUploadBytes int64) string {
	const maxFilesPerPost = 10
	return strconv.FormatInt((maxUploadBytes*maxFilesPerPost)/1024+1024, 10) + "K"
}

func parseLogLevel(level string) gommonlog.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return gommonlog.DEBUG
	case "warn", "warning":
		return gommonlog.WARN
	case "error":
		return gommonlog.ERROR
	case "off":
		return gommonlog.OFF
	default:
		return gommonlog.INFO
	}
}

func httpsRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Forwarded-Proto") == "http" {
				return c.Redirect(http.StatusMovedPermanently, "https://"+c.Request().Host+c.Request().RequestURI)
			}
			return next(c)
		}
	}
}
