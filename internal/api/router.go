package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/diegomanaglia/simply-crm/internal/api/docs"
	"github.com/diegomanaglia/simply-crm/internal/api/handler"
	"github.com/diegomanaglia/simply-crm/internal/api/middleware"
	"github.com/diegomanaglia/simply-crm/internal/config"
	"github.com/diegomanaglia/simply-crm/internal/conversion"
	"github.com/diegomanaglia/simply-crm/internal/dispatch"
	"github.com/diegomanaglia/simply-crm/internal/ingest"
	"github.com/diegomanaglia/simply-crm/internal/metrics"
	"github.com/diegomanaglia/simply-crm/internal/repository"
)

type Dependencies struct {
	Config     *config.Config
	DB         *pgxpool.Pool
	Bus        *dispatch.Bus
	Dispatcher *dispatch.Dispatcher
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "SimplyCRM Webhooks API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Signature,X-Hub-Signature-256",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	var db handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		db = r.deps.DB
	}

	// Health check endpoints (no auth required)
	healthHandler := handler.NewHealthHandler(db)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// Only configure the rest when dependencies were provided
	if r.deps == nil {
		return
	}

	cfg := r.deps.Config

	// Repositories
	webhookRepo := repository.NewWebhookRepository(r.deps.DB)
	webhookLogRepo := repository.NewWebhookLogRepository(r.deps.DB)
	inboundRepo := repository.NewInboundWebhookRepository(r.deps.DB)
	inboundLogRepo := repository.NewInboundWebhookLogRepository(r.deps.DB)
	dealRepo := repository.NewDealRepository(r.deps.DB)

	// Public ingestion endpoint, rate limited per token
	ingestService := ingest.NewService(
		inboundRepo,
		inboundLogRepo,
		dealRepo,
		r.deps.Bus,
		cfg.DedupWindow,
		r.logger,
	)
	hooksHandler := handler.NewHooksHandler(ingestService, r.logger)

	r.rateLimiter = middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	r.app.Post("/hooks/:token", r.rateLimiter.Handler(), hooksHandler.Receive)

	// Admin API behind the shared key
	v1 := r.app.Group("/v1")
	v1.Use(middleware.Auth(cfg.APIKeySecret))

	webhooksHandler := handler.NewWebhooksHandler(webhookRepo, r.deps.Dispatcher, r.logger)
	v1.Get("/webhooks", webhooksHandler.List)
	v1.Post("/webhooks", webhooksHandler.Create)
	v1.Get("/webhooks/:id", webhooksHandler.Get)
	v1.Put("/webhooks/:id", webhooksHandler.Update)
	v1.Delete("/webhooks/:id", webhooksHandler.Delete)
	v1.Post("/webhooks/:id/activate", webhooksHandler.Activate)
	v1.Post("/webhooks/:id/deactivate", webhooksHandler.Deactivate)
	v1.Post("/webhooks/:id/test", webhooksHandler.Test)

	inboundHandler := handler.NewInboundWebhooksHandler(inboundRepo, r.logger)
	v1.Get("/inbound-webhooks", inboundHandler.List)
	v1.Post("/inbound-webhooks", inboundHandler.Create)
	v1.Get("/inbound-webhooks/:id", inboundHandler.Get)
	v1.Put("/inbound-webhooks/:id", inboundHandler.Update)
	v1.Delete("/inbound-webhooks/:id", inboundHandler.Delete)

	logsHandler := handler.NewLogsHandler(webhookLogRepo, inboundLogRepo, r.logger)
	v1.Get("/logs/deliveries", logsHandler.ListDeliveries)
	v1.Get("/logs/inbound", logsHandler.ListInbound)

	statsHandler := handler.NewStatsHandler(metrics.NewRepository(r.deps.DB), r.logger)
	v1.Get("/stats/deliveries", statsHandler.Deliveries)
	v1.Get("/stats/inbound", statsHandler.Inbound)

	// Conversions are available only when an upload endpoint is configured
	if cfg.ConversionUploadURL != "" {
		conversionRepo := repository.NewConversionRepository(r.deps.DB)
		uploader := conversion.NewHTTPUploader(cfg.ConversionUploadURL, cfg.ConversionTimeout)
		conversionService := conversion.NewService(conversionRepo, dealRepo, uploader, r.logger)
		conversionsHandler := handler.NewConversionsHandler(conversionService, r.logger)
		v1.Post("/conversions", conversionsHandler.Record)
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop rate limiter cleanup goroutine
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
