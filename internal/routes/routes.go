package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/prokizzle/feeling-mindful-website/internal/betasignup"
	"github.com/prokizzle/feeling-mindful-website/internal/config"
	"github.com/prokizzle/feeling-mindful-website/internal/deletion"
	"github.com/prokizzle/feeling-mindful-website/internal/docstore"
	"github.com/prokizzle/feeling-mindful-website/internal/middleware"
	"github.com/prokizzle/feeling-mindful-website/internal/notification"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg      config.Config
	Store    docstore.Store
	Cache    *redis.Client
	Notifier notification.Notifier
	Logger   *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Store == nil {
		return fmt.Errorf("document store is required")
	}
	// Enforce Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDev() && d.Cache == nil {
		return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
	}
	if d.Notifier == nil {
		d.Notifier = notification.NewLoggerNotifier(d.Logger)
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDev() {
		// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)
	RegisterMetricsRoute(app)

	api := app.Group("/api/v1", cors.New(cors.Config{
		AllowOrigins:  d.Cfg.CORSOrigins,
		AllowMethods:  strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions}, ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Idempotency-Key, X-Request-ID",
		ExposeHeaders: "X-Request-ID",
	}))
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.GetRequestID(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Form submissions are idempotent with Redis and always rate limited.
	// Replays are answered before the limiter counts them.
	var submit []fiber.Handler
	if d.Cache != nil {
		submit = append(submit, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	} else {
		d.Logger.Warn("redis not configured; form submissions are not idempotent across retries")
	}
	submit = append(submit, middleware.SubmitRateLimit(d.Cache, d.Cfg.SubmitRateLimit, d.Logger))

	betaSvc := betasignup.NewService(betasignup.NewDocumentRepository(d.Store), d.Notifier, d.Logger)
	deletionSvc := deletion.NewService(deletion.NewDocumentRepository(d.Store), d.Notifier, d.Logger)

	RegisterBetaSignupRoutes(api, betasignup.NewHandler(betaSvc), submit...)
	RegisterDeletionRoutes(api, deletion.NewHandler(deletionSvc), submit...)

	return nil
}
