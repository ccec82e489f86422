package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-admin/internal/domain/entity"
	"github.com/jhoicas/ventas-admin/internal/domain/repository"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now`, escapeLike("50% off_now"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}

func TestCustomerListQuery(t *testing.T) {
	sql, args, err := customerListQuery(repository.ListFilter{Search: "bandung", Limit: 10, Offset: 20}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, name, city, gender, created_at, updated_at FROM customers WHERE (name ILIKE $1 OR city ILIKE $2) ORDER BY name, id LIMIT 10 OFFSET 20",
		sql)
	assert.Equal(t, []any{"%bandung%", "%bandung%"}, args)
}

func TestCustomerListQuery_SinBusqueda(t *testing.T) {
	sql, args, err := customerListQuery(repository.ListFilter{Limit: 5}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name, city, gender, created_at, updated_at FROM customers ORDER BY name, id LIMIT 5", sql)
	assert.Empty(t, args)
}

func TestProductListQuery(t *testing.T) {
	sql, args, err := productListQuery(repository.ListFilter{Search: " shoe ", Limit: 10}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE (code ILIKE $1 OR name ILIKE $2 OR category ILIKE $3)")
	assert.Len(t, args, 3)
	assert.Equal(t, "%shoe%", args[0])
}

func TestSaleListQuery(t *testing.T) {
	sql, _, err := saleListQuery(repository.ListFilter{Search: "INV-2026", Limit: 10}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "LEFT JOIN customers c ON c.id = s.customer_id")
	assert.Contains(t, sql, "(s.invoice_id ILIKE $1 OR c.name ILIKE $2)")
	assert.Contains(t, sql, "ORDER BY s.date DESC, s.invoice_id DESC")
}

func TestProductInsert_CodigoAsignado(t *testing.T) {
	sql, args, err := productInsert(&entity.Product{Name: "Topi", Category: entity.CategoryAccessories, Price: decimal.NewFromInt(5)}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, nextProductCode)
	assert.Contains(t, sql, "RETURNING code")
	assert.Len(t, args, 6, "el código no viaja como parámetro")

	sql, args, err = productInsert(&entity.Product{Code: "P1", Name: "Topi"}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "nextval")
	assert.Len(t, args, 7)
}

func TestMigrationsEmbebidas(t *testing.T) {
	body, err := migrationFiles.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "CREATE SEQUENCE IF NOT EXISTS invoice_seq")
}
