package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fe/config"
	"fe/types"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Api is a local stand-in for the gallery server. It follows the same REST
// contract so the client can be developed and tested without the real backend.
type Api struct {
	server         *fiber.App
	store          *Store
	port           string
	allowedOrigins string
	perPage        int
	delay          time.Duration
	rateLimit      bool
}

func NewApi(cfg config.ServerConfig) *Api {
	if cfg.AllowedOrigins == "" {
		cfg.AllowedOrigins = "*"
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = config.DefaultServerPerPage
	}

	a := &Api{
		server: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ErrorHandler:          errorHandler,
		}),
		store:          NewStore(),
		port:           cfg.Port,
		allowedOrigins: cfg.AllowedOrigins,
		perPage:        cfg.PerPage,
		delay:          cfg.GenerationDelay,
		rateLimit:      cfg.RateLimit,
	}

	allowCredentials := a.allowedOrigins != "*"

	a.server.Use(RequestLogger())
	a.server.Use(cors.New(cors.Config{
		AllowOrigins:     a.allowedOrigins,
		AllowCredentials: allowCredentials,
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization,Accept,Origin,X-Request-Id",
	}))

	a.addRoutes()
	return a
}

func (a *Api) App() *fiber.App {
	return a.server
}

// Handler exposes the app as a net/http handler, e.g. for httptest.
func (a *Api) Handler() http.HandlerFunc {
	return adaptor.FiberApp(a.server)
}

func (a *Api) Store() *Store {
	return a.store
}

func (a *Api) Start() error {
	log.Info("devserver listening", "port", a.port, "generationDelay", a.delay.String())
	return a.server.Listen(fmt.Sprint(":", a.port))
}

func (a *Api) Shutdown() error {
	return a.server.Shutdown()
}

// Limits mirror the production server's per-route quotas.
func (a *Api) limit(max int, per time.Duration) fiber.Handler {
	if !a.rateLimit {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: per,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(types.ErrorResponse{
				Error:   "Too many requests",
				Message: "Rate limit exceeded. Please try again later.",
				Type:    "RateLimitError",
			})
		},
	})
}

func (a *Api) addRoutes() {
	a.server.Get("/health", a.limit(60, time.Minute), a.Health())
	a.server.Post("/api/generate-image", a.limit(5, time.Minute), a.GenerateImage())
	a.server.Post("/api/improve-prompt", a.limit(10, time.Minute), a.ImprovePrompt())
	a.server.Get("/api/images", a.limit(30, time.Minute), a.ListImages())
	a.server.Get("/api/metadata/:id", a.limit(30, time.Minute), a.Metadata())
	a.server.Delete("/api/image/:id", a.limit(10, time.Minute), a.DeleteImage())
	a.server.Get("/images/:filename", a.limit(60, time.Minute), a.ServeImage())
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	body := types.ErrorResponse{
		Error:   "Internal server error",
		Message: "An unexpected error occurred",
		Type:    "InternalServerError",
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		switch code {
		case fiber.StatusNotFound:
			body = types.ErrorResponse{Error: "Not found", Message: fe.Message, Type: "NotFoundError"}
		case fiber.StatusBadRequest:
			body = types.ErrorResponse{Error: "Bad request", Message: fe.Message, Type: "BadRequestError"}
		default:
			body.Message = fe.Message
		}
	}

	log.With("component", "http").Error("request error", "path", c.Path(), "status", code, "err", err)
	return c.Status(code).JSON(body)
}
