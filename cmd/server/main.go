package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/takaruma7/MIW-sub002/internal/config"
	"github.com/takaruma7/MIW-sub002/internal/database"
	"github.com/takaruma7/MIW-sub002/internal/handler"
	"github.com/takaruma7/MIW-sub002/internal/queue"
	"github.com/takaruma7/MIW-sub002/internal/repository"
	"github.com/takaruma7/MIW-sub002/internal/router"
	"github.com/takaruma7/MIW-sub002/internal/storage"
)

func main() {
	// .env is optional; deployed environments set real variables.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db, cfg.MigrationsDir); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	// nil when Redis is unreachable; cache and rate limiting then
	// disable themselves.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, running without cache and rate limiting")
	}

	uploads := storage.New(cfg.UploadDir, cfg.MaxUploadBytes)

	packageRepo := repository.NewPackageRepo(db)
	pilgrimRepo := repository.NewPilgrimRepo(db)
	assignmentRepo := repository.NewRoomAssignmentRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	cancellationRepo := repository.NewCancellationRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	exportHandler := handler.NewExportHandler(packageRepo, pilgrimRepo, assignmentRepo)
	manifestHandler := handler.NewManifestHandler(packageRepo, pilgrimRepo, assignmentRepo)
	documentHandler := handler.NewDocumentHandler(packageRepo, pilgrimRepo, uploads)
	registrationHandler := handler.NewRegistrationHandler(packageRepo, pilgrimRepo, invoiceRepo, uploads)
	cancellationHandler := handler.NewCancellationHandler(pilgrimRepo, cancellationRepo, uploads)
	packageAdminHandler := handler.NewPackageAdminHandler(packageRepo)
	invoiceHandler := handler.NewInvoiceHandler(invoiceRepo)
	publicHandler := handler.NewPublicHandler(packageRepo)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, rdb, publicHandler, registrationHandler, documentHandler, cancellationHandler)
	router.RegisterAdmin(e, cfg.JWTSecret, authHandler, exportHandler, manifestHandler,
		documentHandler, packageAdminHandler, cancellationHandler, invoiceHandler)

	// Notification consumer runs for the lifetime of the process and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
