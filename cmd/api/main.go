package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/ventas-admin/internal/app"
	"github.com/jhoicas/ventas-admin/internal/application/usecase"
	"github.com/jhoicas/ventas-admin/internal/infrastructure/events"
	"github.com/jhoicas/ventas-admin/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/ventas-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/ventas-admin/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/ventas-admin/internal/interfaces/http"
	"github.com/jhoicas/ventas-admin/pkg/config"
	"github.com/jhoicas/ventas-admin/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	var backend app.Backend
	switch cfg.App.Storage {
	case "memory":
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
		backend = app.MemoryBackend(memory.NewStore())
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		version, err := postgres.Migrate(ctx, pool, log)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Int64("version", version).Msg("esquema actualizado")
		backend = app.PostgresBackend(pool)
	}

	// Eventos de ventas: sin KAFKA_BROKERS no se publica nada.
	var publisher usecase.SaleEventPublisher = events.NopPublisher{}
	if cfg.Events.Enabled() {
		kafkaPub, err := events.NewKafkaPublisher(cfg.Events, log)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente Kafka")
		}
		defer kafkaPub.Close()
		publisher = kafkaPub
	}

	deps := app.RouterDeps(backend, cfg.JWT, app.Options{
		Publisher: publisher,
		Receipts:  infrapdf.NewReceiptGenerator(cfg.App.Name),
		Log:       log,
	})
	server := httpRouter.NewApp(cfg.App.Name, deps, log)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		server.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Ventas Admin API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado; /docs deshabilitado")
	}

	go func() {
		if err := server.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
