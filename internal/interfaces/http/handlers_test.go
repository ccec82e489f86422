package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-admin/internal/app"
	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/internal/infrastructure/memory"
	"github.com/jhoicas/ventas-admin/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/ventas-admin/internal/interfaces/http"
	"github.com/jhoicas/ventas-admin/pkg/config"
)

type apiFixture struct {
	t     *testing.T
	app   *fiber.App
	admin string
	staff string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	jwtCfg := config.JWTConfig{Secret: testJWTSecret, Expiration: testExpMin, Issuer: testIssuer}
	deps := app.RouterDeps(app.MemoryBackend(memory.NewStore()), jwtCfg, app.Options{
		Receipts: pdf.NewReceiptGenerator("Toko Test"),
		Now:      func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) },
	})
	f := &apiFixture{t: t, app: apphttp.NewApp("ventas-admin-test", deps, nil)}
	f.admin = f.register("admin@test.com", "admin")
	f.staff = f.register("staff@test.com", "staff")
	return f
}

// register crea el usuario y devuelve el header Authorization de su sesión.
func (f *apiFixture) register(email, role string) string {
	resp := f.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: email, Password: "secreta123", Name: role, Role: role})
	require.Equal(f.t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var login dto.LoginResponse
	f.decode(f.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: "secreta123"}), http.StatusOK, &login)
	return "Bearer " + login.Token
}

func (f *apiFixture) do(method, path, auth string, body any) *http.Response {
	f.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(f.t, err)
	return resp
}

func (f *apiFixture) decode(resp *http.Response, wantStatus int, out any) {
	f.t.Helper()
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	require.Equal(f.t, wantStatus, resp.StatusCode, string(raw))
	if out != nil {
		require.NoError(f.t, json.Unmarshal(raw, out))
	}
}

func (f *apiFixture) seedSaleData() (dto.CustomerResponse, dto.ProductResponse, dto.ProductResponse) {
	var c dto.CustomerResponse
	f.decode(f.do(http.MethodPost, "/api/customers", f.staff, dto.CustomerRequest{Name: "Rina", City: "Bogor", Gender: "female"}), http.StatusCreated, &c)
	var p1, p2 dto.ProductResponse
	f.decode(f.do(http.MethodPost, "/api/products", f.staff, dto.CreateProductRequest{Name: "Kaos", Category: "clothing", Price: decimal.NewFromInt(10)}), http.StatusCreated, &p1)
	f.decode(f.do(http.MethodPost, "/api/products", f.staff, dto.CreateProductRequest{Name: "Topi", Category: "accessories", Price: decimal.NewFromInt(5)}), http.StatusCreated, &p2)
	return c, p1, p2
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)
	var body map[string]string
	f.decode(f.do(http.MethodGet, "/health", "", nil), http.StatusOK, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestAuth_MeYCredencialesInvalidas(t *testing.T) {
	f := newAPIFixture(t)

	var me dto.UserResponse
	f.decode(f.do(http.MethodGet, "/api/auth/me", f.staff, nil), http.StatusOK, &me)
	assert.Equal(t, "staff@test.com", me.Email)
	assert.Equal(t, "staff", me.Role)

	var errResp dto.ErrorResponse
	f.decode(f.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "staff@test.com", Password: "incorrecta"}), http.StatusUnauthorized, &errResp)
	assert.Equal(t, "UNAUTHORIZED", errResp.Code)

	f.decode(f.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "staff@test.com", Password: "secreta123"}), http.StatusConflict, &errResp)
	assert.Equal(t, "EMAIL_EXISTS", errResp.Code)
}

func TestCustomers_CRUD(t *testing.T) {
	f := newAPIFixture(t)

	f.decode(f.do(http.MethodGet, "/api/customers", "", nil), http.StatusUnauthorized, nil)

	var errResp dto.ErrorResponse
	f.decode(f.do(http.MethodPost, "/api/customers", f.staff, dto.CustomerRequest{City: "Depok", Gender: "other"}), http.StatusUnprocessableEntity, &errResp)
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Equal(t, map[string]string{"name": "required", "gender": "must be one of the allowed values"}, errResp.Fields)

	for _, name := range []string{"Andi", "Bayu", "Citra"} {
		f.decode(f.do(http.MethodPost, "/api/customers", f.staff, dto.CustomerRequest{Name: name, City: "Jakarta", Gender: "male"}), http.StatusCreated, nil)
	}

	var page dto.Page[dto.CustomerResponse]
	f.decode(f.do(http.MethodGet, "/api/customers?page=2&limit=2", f.staff, nil), http.StatusOK, &page)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Citra", page.Data[0].Name)

	f.decode(f.do(http.MethodGet, "/api/customers?search=bay", f.staff, nil), http.StatusOK, &page)
	require.Len(t, page.Data, 1)
	id := page.Data[0].ID

	name := "Bayu Saputra"
	var updated dto.CustomerResponse
	f.decode(f.do(http.MethodPut, "/api/customers/"+itoa(id), f.staff, dto.UpdateCustomerRequest{Name: &name}), http.StatusOK, &updated)
	assert.Equal(t, "Bayu Saputra", updated.Name)
	assert.Equal(t, "Jakarta", updated.City)

	f.decode(f.do(http.MethodGet, "/api/customers/abc", f.staff, nil), http.StatusBadRequest, nil)
	f.decode(f.do(http.MethodGet, "/api/customers/999", f.staff, nil), http.StatusNotFound, &errResp)
	assert.Equal(t, "NOT_FOUND", errResp.Code)

	f.decode(f.do(http.MethodDelete, "/api/customers/"+itoa(id), f.staff, nil), http.StatusForbidden, nil)
	resp := f.do(http.MethodDelete, "/api/customers/"+itoa(id), f.admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	f.decode(f.do(http.MethodGet, "/api/customers/"+itoa(id), f.staff, nil), http.StatusNotFound, nil)
}

func TestProducts_CodigoAsignadoYDuplicado(t *testing.T) {
	f := newAPIFixture(t)

	var p dto.ProductResponse
	f.decode(f.do(http.MethodPost, "/api/products", f.staff, dto.CreateProductRequest{Name: "Kaos", Category: "clothing", Price: decimal.NewFromInt(75000)}), http.StatusCreated, &p)
	assert.Equal(t, "PRD-00001", p.Code)

	var errResp dto.ErrorResponse
	f.decode(f.do(http.MethodPost, "/api/products", f.staff, dto.CreateProductRequest{Code: "prd-00001", Name: "Otro", Category: "food", Price: decimal.NewFromInt(1)}), http.StatusConflict, &errResp)
	assert.Equal(t, "DUPLICATE", errResp.Code)

	f.decode(f.do(http.MethodPost, "/api/products", f.staff, dto.CreateProductRequest{Name: "Gratis", Category: "food"}), http.StatusUnprocessableEntity, &errResp)
	assert.Contains(t, errResp.Fields, "price")

	var got dto.ProductResponse
	f.decode(f.do(http.MethodGet, "/api/products/PRD-00001", f.staff, nil), http.StatusOK, &got)
	assert.True(t, decimal.NewFromInt(75000).Equal(got.Price))
}

func TestSales_AltaRecalculaSubtotal(t *testing.T) {
	f := newAPIFixture(t)
	c, p1, p2 := f.seedSaleData()

	req := dto.CreateSaleRequest{
		Date:       "2026-10-18",
		CustomerID: c.ID,
		Subtotal:   decimal.NewFromInt(999),
		Items: []dto.SaleItemRequest{
			{ProductCode: p1.Code, Qty: 3},
			{ProductCode: p2.Code, Qty: 1},
		},
	}
	var created dto.SaleResponse
	f.decode(f.do(http.MethodPost, "/api/sales", f.staff, req), http.StatusCreated, &created)
	assert.Equal(t, "INV-20261018-00001", created.InvoiceID)
	assert.True(t, decimal.NewFromInt(35).Equal(created.Subtotal), created.Subtotal.String())
	require.Len(t, created.Items, 2)
	assert.True(t, decimal.NewFromInt(30).Equal(created.Items[0].LineTotal))

	var got dto.SaleResponse
	f.decode(f.do(http.MethodGet, "/api/sales/"+created.InvoiceID, f.staff, nil), http.StatusOK, &got)
	assert.Equal(t, "2026-10-18", got.Date)

	var page dto.Page[dto.SaleResponse]
	f.decode(f.do(http.MethodGet, "/api/sales?search=rina", f.staff, nil), http.StatusOK, &page)
	assert.Equal(t, 1, page.Total)

	// Un cliente con ventas no se puede eliminar.
	f.decode(f.do(http.MethodDelete, "/api/customers/"+itoa(c.ID), f.admin, nil), http.StatusConflict, nil)
}

func TestSales_ValidacionDevuelveCamposIndexados(t *testing.T) {
	f := newAPIFixture(t)
	c, p1, _ := f.seedSaleData()

	req := dto.CreateSaleRequest{
		Date:       "18/10/2026",
		CustomerID: c.ID,
		Items: []dto.SaleItemRequest{
			{ProductCode: p1.Code, Qty: 0},
			{ProductCode: "NO-EXISTE", Qty: 1},
		},
	}
	var errResp dto.ErrorResponse
	f.decode(f.do(http.MethodPost, "/api/sales", f.staff, req), http.StatusUnprocessableEntity, &errResp)
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Equal(t, map[string]string{
		"date":                  "must be a date in YYYY-MM-DD format",
		"items[0].qty":          "must be at least 1",
		"items[1].product_code": "does not exist",
	}, errResp.Fields)

	var page dto.Page[dto.SaleResponse]
	f.decode(f.do(http.MethodGet, "/api/sales", f.staff, nil), http.StatusOK, &page)
	assert.Zero(t, page.Total)
}

func TestSales_SinEdicionYComprobante(t *testing.T) {
	f := newAPIFixture(t)
	c, p1, _ := f.seedSaleData()

	var created dto.SaleResponse
	f.decode(f.do(http.MethodPost, "/api/sales", f.staff, dto.CreateSaleRequest{
		Date: "2026-10-18", CustomerID: c.ID, Items: []dto.SaleItemRequest{{ProductCode: p1.Code, Qty: 2}},
	}), http.StatusCreated, &created)

	f.decode(f.do(http.MethodPut, "/api/sales/"+created.InvoiceID, f.staff, map[string]any{}), http.StatusMethodNotAllowed, nil)

	resp := f.do(http.MethodGet, "/api/sales/"+created.InvoiceID+"/receipt", f.staff, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "comprobante_"+created.InvoiceID+".pdf")
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))

	f.decode(f.do(http.MethodDelete, "/api/sales/"+created.InvoiceID, f.staff, nil), http.StatusForbidden, nil)
	del := f.do(http.MethodDelete, "/api/sales/"+created.InvoiceID, f.admin, nil)
	del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)
	f.decode(f.do(http.MethodGet, "/api/sales/"+created.InvoiceID+"/receipt", f.staff, nil), http.StatusNotFound, nil)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestDashboard_Resumen(t *testing.T) {
	f := newAPIFixture(t)
	c, p1, p2 := f.seedSaleData()
	for _, req := range []dto.CreateSaleRequest{
		{Date: "2026-10-18", CustomerID: c.ID, Items: []dto.SaleItemRequest{{ProductCode: p1.Code, Qty: 2}}},
		{Date: "2026-10-02", CustomerID: c.ID, Items: []dto.SaleItemRequest{{ProductCode: p2.Code, Qty: 1}}},
		{Date: "2026-09-30", CustomerID: c.ID, Items: []dto.SaleItemRequest{{ProductCode: p2.Code, Qty: 10}}},
	} {
		f.decode(f.do(http.MethodPost, "/api/sales", f.staff, req), http.StatusCreated, nil)
	}

	var out dto.SalesSummaryResponse
	f.decode(f.do(http.MethodGet, "/api/dashboard/summary", f.staff, nil), http.StatusOK, &out)
	assert.Equal(t, 1, out.Today.Count)
	assert.True(t, decimal.NewFromInt(20).Equal(out.Today.Revenue))
	assert.Equal(t, 2, out.Month.Count)
	assert.True(t, decimal.NewFromInt(25).Equal(out.Month.Revenue))
	require.Len(t, out.TopProducts, 2)
	assert.Equal(t, "Kaos", out.TopProducts[0].ProductName)
	assert.Equal(t, "Octubre 2026", out.MonthLabel)

	f.decode(f.do(http.MethodGet, "/api/dashboard/summary", "", nil), http.StatusUnauthorized, nil)
}
