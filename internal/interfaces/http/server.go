package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/pkg/logger"
)

// NewApp crea la aplicación Fiber con recover, log de peticiones, /health y las rutas /api.
// cmd/api le agrega Swagger; los tests la usan tal cual.
func NewApp(appName string, deps RouterDeps, log *logger.Logger) *fiber.App {
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log.Named("http")))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": appName})
	})

	Router(app, deps)
	return app
}

// errorHandler mantiene el formato dto.ErrorResponse para rutas inexistentes y panics.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	resp := dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
	switch code {
	case fiber.StatusNotFound:
		resp.Code = "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		resp.Code = "UNSUPPORTED"
	}
	return c.Status(code).JSON(resp)
}
