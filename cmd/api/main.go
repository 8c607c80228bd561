package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "github.com/johnquangdev/erp-issue-hub/docs"
	"github.com/johnquangdev/erp-issue-hub/internal/adapter/handler"
	"github.com/johnquangdev/erp-issue-hub/internal/adapter/repository"
	"github.com/johnquangdev/erp-issue-hub/internal/infrastructure/cache"
	"github.com/johnquangdev/erp-issue-hub/internal/infrastructure/database"
	"github.com/johnquangdev/erp-issue-hub/internal/infrastructure/external/zendesk"
	"github.com/johnquangdev/erp-issue-hub/internal/infrastructure/storage"
	actionItemUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/actionitem"
	aiUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/ai"
	emailUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/email"
	issueUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/issue"
	meetingUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/meeting"
	ticketUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/ticket"
	pkgai "github.com/johnquangdev/erp-issue-hub/pkg/ai"
	"github.com/johnquangdev/erp-issue-hub/pkg/config"
	"github.com/johnquangdev/erp-issue-hub/pkg/logger"
	pkgvalidator "github.com/johnquangdev/erp-issue-hub/pkg/validator"
)

// @title           ERP Issue Hub API
// @version         1.0
// @description     Issue tracking, weekly meeting agendas, vendor and Zendesk tickets, and email drafting for an ERP support team.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server.failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	// Database
	db, err := database.NewPostgresDB(cfg, zl)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.CloseDB(db); err != nil {
			zl.Warn("database.close_failed", zap.Error(err))
		}
	}()

	// Schema is managed by cmd/migrate in production
	if cfg.Database.AutoMigrate {
		if cfg.IsProduction() {
			return fmt.Errorf("DB_AUTO_MIGRATE is enabled in production; run cmd/migrate instead")
		}
		if err := database.AutoMigrate(db, zl); err != nil {
			return err
		}
	}

	// Cache: Redis when configured, otherwise in-process
	var store cache.Store
	if cfg.Redis.Enabled() {
		redisStore, err := cache.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		memoryStore := cache.NewMemoryStore()
		defer memoryStore.Close()
		store = memoryStore
	}
	zl.Info("cache.ready", zap.String("kind", store.Kind()))

	// Optional integrations stay nil interfaces when disabled
	var (
		minutes        meetingUsecase.MinutesStore
		storageChecker handler.Pinger
	)
	if cfg.Storage.Enabled() {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		minutes = minioClient
		storageChecker = minioClient
	}

	var zendeskAPI ticketUsecase.ZendeskAPI
	if cfg.Zendesk.Enabled() {
		zendeskAPI = zendesk.NewClient(ctx, cfg.Zendesk)
	}

	var completer pkgai.Completer
	if cfg.LLM.Enabled() {
		completer = pkgai.NewGroqClient(cfg.LLM)
	}

	zl.Info("integrations.configured",
		zap.Bool("storage", minutes != nil),
		zap.Bool("zendesk", zendeskAPI != nil),
		zap.Bool("llm", completer != nil),
	)

	// Repositories
	issueRepo := repository.NewIssueRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	actionItemRepo := repository.NewActionItemRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	templateRepo := repository.NewEmailTemplateRepository(db)
	draftRepo := repository.NewEmailDraftRepository(db)
	vendorTicketRepo := repository.NewVendorTicketRepository(db)
	zendeskTicketRepo := repository.NewZendeskTicketRepository(db)

	// Services
	assistant := aiUsecase.NewAIService(completer, zl.Named("ai"))
	issueService := issueUsecase.NewIssueService(issueRepo, categoryRepo, noteRepo, zl.Named("issue"))
	actionItemService := actionItemUsecase.NewActionItemService(actionItemRepo, issueRepo, zl.Named("action_item"))
	meetingService := meetingUsecase.NewMeetingService(meetingRepo, issueRepo, minutes, cfg.Meeting, zl.Named("meeting"))
	emailService := emailUsecase.NewEmailService(templateRepo, draftRepo, issueRepo, assistant, zl.Named("email"))
	vendorService := ticketUsecase.NewVendorTicketService(vendorTicketRepo, issueRepo, zl.Named("vendor_ticket"))
	zendeskService := ticketUsecase.NewZendeskTicketService(zendeskAPI, zendeskTicketRepo, issueRepo, store, assistant, cfg.Zendesk, zl.Named("zendesk"))

	seeded, err := emailService.SeedDefaultTemplates(ctx)
	if err != nil {
		zl.Warn("email.seed_failed", zap.Error(err))
	} else if seeded > 0 {
		zl.Info("email.templates_seeded", zap.Int("count", seeded))
	}

	go meetingService.RunWatchdog(ctx)

	// HTTP
	e := echo.New()
	e.HideBanner = true
	e.Validator = pkgvalidator.New()

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	handler.NewRouter(
		handler.NewHealthHandler(db, store, storageChecker, cfg, zl.Named("health")),
		handler.NewIssueHandler(issueService, zl.Named("http.issue")),
		handler.NewActionItemHandler(actionItemService, zl.Named("http.action_item")),
		handler.NewMeetingHandler(meetingService, zl.Named("http.meeting")),
		handler.NewEmailHandler(emailService, zl.Named("http.email")),
		handler.NewTicketHandler(vendorService, zendeskService, zl.Named("http.ticket")),
	).Setup(e)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		zl.Info("server.starting",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	zl.Info("server.shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	zl.Info("server.stopped")
	return nil
}
