package main

import (
	"context"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/mihailobuhov/contacts-api/config"
	"github.com/mihailobuhov/contacts-api/db"
	"github.com/mihailobuhov/contacts-api/internal/auth/cache"
	authhandler "github.com/mihailobuhov/contacts-api/internal/auth/handler"
	authrepo "github.com/mihailobuhov/contacts-api/internal/auth/repository/postgres"
	authservice "github.com/mihailobuhov/contacts-api/internal/auth/service"
	contacthandler "github.com/mihailobuhov/contacts-api/internal/contact/handler"
	contactrepo "github.com/mihailobuhov/contacts-api/internal/contact/repository/postgres"
	contactservice "github.com/mihailobuhov/contacts-api/internal/contact/service"
	"github.com/mihailobuhov/contacts-api/internal/mailer"
	"github.com/mihailobuhov/contacts-api/internal/storage"
)

var userAgentBanList = []*regexp.Regexp{
	regexp.MustCompile(`Googlebot`),
	regexp.MustCompile(`Python-urllib`),
}

func userAgentBan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userAgent := c.Get(fiber.HeaderUserAgent)
		for _, pattern := range userAgentBanList {
			if pattern.MatchString(userAgent) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": "You are banned"})
			}
		}
		return c.Next()
	}
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg := config.Load()

	ctx := context.Background()

	if err := db.RunMigrations(ctx, cfg.DBURL); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}
	defer dbPool.Close()

	redisClient, err := db.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	fileStore, err := storage.NewS3Store(ctx, storage.Options{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize S3 store")
	}

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort,
		cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.BaseURL)

	userRepo := authrepo.NewPostgresRepository(dbPool)
	userCache := cache.NewRedisUserCache(redisClient, cfg.CacheTTLSeconds)
	tokenService := authservice.NewTokenService(cfg.JWTSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	userService := authservice.NewUserService(userRepo, userCache, tokenService, smtpMailer, fileStore, logger)

	contactRepo := contactrepo.NewPostgresRepository(dbPool)
	contactService := contactservice.NewContactService(contactRepo, logger)

	authHandler := authhandler.NewAuthHandler(userService)
	userHandler := authhandler.NewUserHandler(userService)
	contactHandler := contacthandler.NewContactHandler(contactService)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(userAgentBan())

	rateLimit := limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: time.Duration(cfg.RateLimitWindowSec) * time.Second,
	})

	requireAuth := authhandler.RequireAuth(userService)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Contact Application"})
	})
	app.Get("/api/healthchecker", func(c *fiber.Ctx) error {
		var one int
		if err := dbPool.QueryRow(c.UserContext(), "SELECT 1").Scan(&one); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "error connecting to the database",
			})
		}
		return c.JSON(fiber.Map{"message": "Welcome to the Contacts API"})
	})

	authhandler.RegisterRoutes(app, authHandler, userHandler, requireAuth, rateLimit)
	contacthandler.RegisterRoutes(app, contactHandler, requireAuth, rateLimit)

	go func() {
		logger.WithField("port", cfg.Port).Info("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
}
