package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type Router interface {
	RegisterRoutes(r fiber.Router)
}

type AppConfig struct {
	BodyLimit    int
	AllowOrigins []string
}

// NewApp builds the fiber app with the shared middleware chain. Order matters:
// the request log sits outside the error handler so it records the final status.
func NewApp(cfg AppConfig, routers ...Router) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          FiberErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogMiddleware())
	if len(cfg.AllowOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(cfg.AllowOrigins, ","),
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
			AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		}))
	}
	app.Use(ErrorHandlerMiddleware())

	for _, r := range routers {
		r.RegisterRoutes(app)
	}

	return app
}
