package postgres

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/ventas-admin/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate lleva el esquema a la última versión de migrations/ y devuelve la versión resultante.
// goose lleva el registro en goose_db_version y corre cada script en su propia transacción.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(gooseLogger{log: log.Named("migrations")})
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, err
	}

	// Sin conexiones ociosas: las gestiona el pool.
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.Up(db, "migrations"); err != nil {
		return 0, fmt.Errorf("aplicar migraciones: %w", err)
	}
	version, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("leer versión del esquema: %w", err)
	}
	return version, nil
}

// gooseLogger manda los mensajes de goose al logger de la aplicación.
type gooseLogger struct {
	log *logger.Logger
}

func (g gooseLogger) Fatal(v ...interface{}) { g.log.Fatal().Msg(fmt.Sprint(v...)) }
func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatal().Msgf(format, v...)
}
func (g gooseLogger) Print(v ...interface{})   { g.log.Info().Msg(fmt.Sprint(v...)) }
func (g gooseLogger) Println(v ...interface{}) { g.log.Info().Msg(fmt.Sprint(v...)) }
func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info().Msgf(format, v...)
}
