package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-admin/internal/app"
	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/internal/domain"
	"github.com/jhoicas/ventas-admin/internal/domain/validation"
	"github.com/jhoicas/ventas-admin/internal/infrastructure/apiclient"
	"github.com/jhoicas/ventas-admin/internal/infrastructure/memory"
	"github.com/jhoicas/ventas-admin/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/ventas-admin/internal/interfaces/http"
	"github.com/jhoicas/ventas-admin/pkg/config"
)

type cliFixture struct {
	t      *testing.T
	client *apiclient.Client
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	jwtCfg := config.JWTConfig{Secret: "cli-secret", Expiration: 60, Issuer: "cli-test"}
	deps := app.RouterDeps(app.MemoryBackend(memory.NewStore()), jwtCfg, app.Options{
		Receipts: pdf.NewReceiptGenerator("Toko Test"),
		Now:      func() time.Time { return time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC) },
	})
	srv := httptest.NewServer(adaptor.FiberApp(apphttp.NewApp("cli-test", deps, nil)))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	_, err := deps.AuthUC.RegisterUser(ctx, dto.RegisterRequest{Email: "admin@toko.id", Password: "rahasia123", Name: "Admin", Role: "admin"})
	require.NoError(t, err)

	return &cliFixture{t: t, client: apiclient.New(apiclient.Options{BaseURL: srv.URL + "/api"})}
}

// run ejecuta un comando con la entrada indicada y devuelve lo impreso.
func (f *cliFixture) run(input string, args ...string) (string, error) {
	f.t.Helper()
	var out bytes.Buffer
	root := NewRootCommand(&App{
		Client: f.client,
		In:     strings.NewReader(input),
		Out:    &out,
		Now:    func() time.Time { return time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC) },
	})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (f *cliFixture) mustRun(args ...string) string {
	f.t.Helper()
	out, err := f.run("", args...)
	require.NoError(f.t, err, out)
	return out
}

func (f *cliFixture) login() {
	f.mustRun("login", "--email", "admin@toko.id", "--password", "rahasia123")
}

// seed un cliente (id 1) y dos productos (PRD-00001 a 12, PRD-00002 a 5).
func (f *cliFixture) seed() {
	f.mustRun("customers", "create", "--name", "Budi", "--city", "Surabaya", "--gender", "male")
	f.mustRun("products", "create", "--name", "Sepatu", "--category", "shoes", "--price", "12")
	f.mustRun("products", "create", "--name", "Topi", "--category", "accessories", "--price", "5")
}

func TestLogin_PideDatosPorEntrada(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run("admin@toko.id\nrahasia123\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Sesión iniciada como admin@toko.id (admin)")

	out = f.mustRun("whoami")
	assert.Contains(t, out, "Admin <admin@toko.id> rol=admin")

	f.mustRun("logout")
	_, err = f.run("", "whoami")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSinSesion_RechazaListados(t *testing.T) {
	f := newCLIFixture(t)
	_, err := f.run("", "customers", "list")
	assert.ErrorIs(t, err, apiclient.ErrAuth)
}

func TestCustomers_CRUD(t *testing.T) {
	f := newCLIFixture(t)
	f.login()

	out := f.mustRun("customers", "create", "--name", "Budi", "--city", "Surabaya", "--gender", "male")
	assert.Contains(t, out, "Cliente 1 creado")

	_, err := f.run("", "customers", "create", "--name", "Sin ciudad", "--gender", "x")
	fields, ok := validation.FieldsOf(err)
	require.True(t, ok, "se esperaba error de validación: %v", err)
	assert.Equal(t, "required", fields["city"])

	f.mustRun("customers", "update", "1", "--city", "Malang")
	out = f.mustRun("customers", "get", "1")
	assert.Contains(t, out, "Malang")
	assert.Contains(t, out, "Budi")

	out = f.mustRun("customers", "list", "--search", "bud")
	assert.Contains(t, out, "Budi")
	assert.Contains(t, out, "Página 1 de 1")

	_, err = f.run("", "customers", "get", "abc")
	assert.Error(t, err)

	out, err = f.run("n\n", "customers", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "¿Eliminar el cliente 1? [s/N]")
	assert.Contains(t, out, "Cancelado")
	f.mustRun("customers", "get", "1")

	out, err = f.run("", "customers", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelado")

	out, err = f.run("s\n", "customers", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Cliente 1 eliminado")
	_, err = f.run("", "customers", "get", "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProducts_CreateYUpdate(t *testing.T) {
	f := newCLIFixture(t)
	f.login()

	out := f.mustRun("products", "create", "--name", "Kaos", "--category", "clothing", "--price", "75000", "--color", "red")
	assert.Contains(t, out, "Producto PRD-00001 creado")

	_, err := f.run("", "products", "create", "--name", "Kaos", "--category", "clothing", "--price", "abc")
	assert.ErrorContains(t, err, "precio inválido")

	f.mustRun("products", "update", "PRD-00001", "--price", "80000")
	out = f.mustRun("products", "list")
	assert.Contains(t, out, "Rp 80.000")
}

func TestSalesCreate_ConFlags(t *testing.T) {
	f := newCLIFixture(t)
	f.login()
	f.seed()

	out := f.mustRun("sales", "create", "--customer", "1", "--item", "prd-00001:2", "--item", " PRD-00002 :3")
	assert.Contains(t, out, "Venta INV-20261018-00001 registrada por Rp 39")

	out = f.mustRun("sales", "list")
	assert.Contains(t, out, "INV-20261018-00001")
	assert.Contains(t, out, "Budi")

	out = f.mustRun("summary")
	assert.Contains(t, out, "Rp 39")
	assert.Contains(t, out, "Sepatu (PRD-00001)")

	out = f.mustRun("sales", "get", "INV-20261018-00001")
	assert.Contains(t, out, "Sepatu")
	assert.Contains(t, out, "Topi")
	assert.Contains(t, out, "18/10/2026")
}

func TestSalesCreate_InvalidaMuestraErrores(t *testing.T) {
	f := newCLIFixture(t)
	f.login()
	f.seed()

	out, err := f.run("", "sales", "create", "--item", "NOPE:0")
	require.Error(t, err)
	assert.Contains(t, out, "customer_id: required")
	assert.Contains(t, out, "does not exist")
	assert.Contains(t, out, "qty must be at least 1")

	out = f.mustRun("sales", "list")
	assert.Contains(t, out, "0 registros")
}

func TestSalesCreate_Interactiva(t *testing.T) {
	f := newCLIFixture(t)
	f.login()
	f.seed()

	input := strings.Join([]string{
		"cliente 1",
		"producto 1 prd-00001",
		"cantidad 1 3",
		"agregar PRD-00002 0",
		"enviar",
		"quitar 2",
		"enviar",
	}, "\n") + "\n"
	out, err := f.run(input, "sales", "create", "-i")
	require.NoError(t, err)
	assert.Contains(t, out, "Rp 36")
	assert.Contains(t, out, "Revisa los datos")
	assert.Contains(t, out, "Venta INV-20261018-00001 registrada por Rp 36")
}

func TestSalesCreate_InteractivaCancelada(t *testing.T) {
	f := newCLIFixture(t)
	f.login()
	f.seed()

	out, err := f.run("cliente 1\nbaila\n", "sales", "create", "-i")
	assert.ErrorIs(t, err, ErrSaleCancelled)
	assert.Contains(t, out, "Orden desconocida")
}

func TestSalesReceiptYDelete(t *testing.T) {
	f := newCLIFixture(t)
	f.login()
	f.seed()
	f.mustRun("sales", "create", "--customer", "1", "--item", "PRD-00001:1")

	path := filepath.Join(t.TempDir(), "venta.pdf")
	out := f.mustRun("sales", "receipt", "INV-20261018-00001", "-o", path)
	assert.Contains(t, out, path)
	pdfBytes, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))

	_, err = f.run("", "customers", "delete", "1", "--yes")
	assert.ErrorIs(t, err, domain.ErrConflict)

	f.mustRun("sales", "delete", "INV-20261018-00001", "-y")
	_, err = f.run("", "sales", "get", "INV-20261018-00001")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductsDelete_NormalizaCodigo(t *testing.T) {
	f := newCLIFixture(t)
	f.login()
	f.seed()

	out := f.mustRun("products", "delete", "prd-00002", "--yes")
	assert.Contains(t, out, "Producto PRD-00002 eliminado")
	_, err := f.run("", "products", "get", "PRD-00002")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImport_ClientesYProductos(t *testing.T) {
	f := newCLIFixture(t)
	f.login()

	dir := t.TempDir()
	customersCSV := filepath.Join(dir, "clientes.csv")
	require.NoError(t, os.WriteFile(customersCSV, []byte("name;city;gender\nAni;Medan;female\nSin Ciudad;;male\n"), 0o600))
	productsCSV := filepath.Join(dir, "productos.csv")
	require.NoError(t, os.WriteFile(productsCSV, []byte("name,category,price,color\nKaos,clothing,75000,white\n"), 0o600))

	out := f.mustRun("import", "customers", customersCSV, "--comma", ";")
	assert.Contains(t, out, "Importados: 1 · Rechazados: 1")
	assert.Contains(t, out, "línea 3")

	out = f.mustRun("import", "products", productsCSV)
	assert.Contains(t, out, "Importados: 1 · Rechazados: 0")
	assert.Contains(t, f.mustRun("products", "get", "PRD-00001"), "Kaos")
}
