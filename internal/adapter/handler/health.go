package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/erp-issue-hub/internal/adapter/dto/common"
	"github.com/johnquangdev/erp-issue-hub/internal/infrastructure/cache"
	"github.com/johnquangdev/erp-issue-hub/pkg/config"
)

const healthTimeout = 2 * time.Second

// Pinger is implemented by integrations that can report reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports the state of the service and its optional integrations
type Health struct {
	db      *gorm.DB
	cache   cache.Store
	storage Pinger
	cfg     *config.Config
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler. storage may be nil.
func NewHealthHandler(db *gorm.DB, store cache.Store, storage Pinger, cfg *config.Config, logger *zap.Logger) *Health {
	return &Health{db: db, cache: store, storage: storage, cfg: cfg, logger: logger}
}

// Check handles GET /health
// @Summary      Health check
// @Description  Returns 503 when the database cannot be reached.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  common.HealthResponse
// @Failure      503  {object}  common.HealthResponse
// @Router       /health [get]
func (h *Health) Check(c echo.Context) error {
	resp := common.HealthResponse{
		Status:      "ok",
		Environment: h.cfg.Server.Environment,
		Database:    "up",
		Cache:       "none",
		Integrations: map[string]bool{
			"zendesk": h.cfg.Zendesk.Enabled(),
			"llm":     h.cfg.LLM.Enabled(),
			"storage": h.cfg.Storage.Enabled(),
		},
	}
	if h.cache != nil {
		resp.Cache = h.cache.Kind()
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	if h.storage != nil {
		resp.Storage = "up"
		if err := h.storage.Ping(ctx); err != nil {
			if h.logger != nil {
				h.logger.Warn("health.storage_unreachable", zap.Error(err))
			}
			resp.Storage = "down"
		}
	}

	if err := h.ping(ctx); err != nil {
		if h.logger != nil {
			h.logger.Warn("health.database_unreachable", zap.Error(err))
		}
		resp.Status = "degraded"
		resp.Database = "down"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Health) ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
