package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/andikahilman/studentbook/internal/config"
	"github.com/andikahilman/studentbook/internal/database"
	"github.com/andikahilman/studentbook/internal/handler"
	"github.com/andikahilman/studentbook/internal/middleware"
	"github.com/andikahilman/studentbook/internal/models"
	"github.com/andikahilman/studentbook/internal/repository"
	"github.com/andikahilman/studentbook/internal/router"
	"github.com/andikahilman/studentbook/internal/service"
	"github.com/andikahilman/studentbook/internal/storage"
	"github.com/andikahilman/studentbook/internal/utils"
	"github.com/andikahilman/studentbook/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := connectDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Student{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	disk, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to prepare upload directory: %v", err)
	}

	views, err := view.NewEngine()
	if err != nil {
		log.Fatalf("failed to initialise views: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	studentService := service.NewStudentService(studentRepo, validate, logger)
	uploadService := service.NewUploadService(disk, cfg.MaxUploadMB, logger)

	studentHandler := handler.NewStudentHandler(studentService, uploadService, views, logger)

	registry := handler.NewRegistry(logger)
	studentHandler.Bind(registry)
	registry.WarnMissing()

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ErrorHandler: errorHandler(logger),
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{Registry: registry})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Msg("server starting")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func connectDatabase(cfg config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL != "" {
		return database.ConnectPostgres(cfg.DatabaseURL)
	}
	return database.ConnectSQLite(cfg.SQLitePath)
}

// errorHandler is the last resort for faults that escape every handler. It
// logs the detail and answers with a generic 500; the process keeps running.
func errorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).SendString(fe.Message)
		}

		logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		return utils.Internal(c)
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
