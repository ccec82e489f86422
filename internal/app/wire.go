// Package app arma los casos de uso sobre un backend de persistencia y devuelve las
// dependencias del router. Lo usan cmd/api y los tests de punta a punta.
package app

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ventas-admin/internal/application/analytics"
	"github.com/jhoicas/ventas-admin/internal/application/auth"
	"github.com/jhoicas/ventas-admin/internal/application/usecase"
	"github.com/jhoicas/ventas-admin/internal/domain/repository"
	"github.com/jhoicas/ventas-admin/internal/infrastructure/memory"
	"github.com/jhoicas/ventas-admin/internal/infrastructure/postgres"
	apphttp "github.com/jhoicas/ventas-admin/internal/interfaces/http"
	"github.com/jhoicas/ventas-admin/pkg/config"
	"github.com/jhoicas/ventas-admin/pkg/logger"
)

// Backend repositorios y transacción de ventas de una implementación de persistencia.
type Backend struct {
	Customers repository.CustomerRepository
	Products  repository.ProductRepository
	Sales     repository.SaleRepository
	Users     repository.UserRepository
	Analytics repository.AnalyticsRepository
	Tx        usecase.SaleTxRunner
}

// PostgresBackend backend sobre el pool de PostgreSQL.
func PostgresBackend(pool *pgxpool.Pool) Backend {
	return Backend{
		Customers: postgres.NewCustomerRepository(pool),
		Products:  postgres.NewProductRepository(pool),
		Sales:     postgres.NewSaleRepository(pool),
		Users:     postgres.NewUserRepository(pool),
		Analytics: postgres.NewAnalyticsRepository(pool),
		Tx:        postgres.NewTxRunner(pool),
	}
}

// MemoryBackend backend en memoria (demos y tests).
func MemoryBackend(store *memory.Store) Backend {
	return Backend{
		Customers: store.Customers(),
		Products:  store.Products(),
		Sales:     store.Sales(),
		Users:     store.Users(),
		Analytics: store.Analytics(),
		Tx:        store,
	}
}

// Options colaboradores opcionales de las ventas.
type Options struct {
	Publisher usecase.SaleEventPublisher // nil: no se publican eventos
	Receipts  usecase.ReceiptGenerator   // nil: GET /sales/:id/receipt responde 501
	Log       *logger.Logger
	Now       func() time.Time // reloj del resumen de ventas; nil usa time.Now
}

// RouterDeps construye los casos de uso y las dependencias del router.
func RouterDeps(b Backend, jwtCfg config.JWTConfig, opts Options) apphttp.RouterDeps {
	return apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(b.Users, auth.JWTConfig{
			Secret:     jwtCfg.Secret,
			ExpMinutes: jwtCfg.Expiration,
			Issuer:     jwtCfg.Issuer,
		}),
		UserUC:     usecase.NewUserUseCase(b.Users),
		CustomerUC: usecase.NewCustomerUseCase(b.Customers),
		ProductUC:  usecase.NewProductUseCase(b.Products),
		SaleUC: usecase.NewSaleUseCase(
			b.Tx, b.Sales, b.Customers, b.Products,
			opts.Publisher, opts.Receipts, opts.Log,
		),
		DashboardUC: analytics.NewDashboardUseCase(b.Analytics, opts.Now),
		JWTSecret:   jwtCfg.Secret,
	}
}
