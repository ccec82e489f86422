// Package apiclient implementa los clientes REST de clientes, productos y ventas que
// usa la consola de administración.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/pkg/config"
	"github.com/jhoicas/ventas-admin/pkg/logger"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 10 << 20
)

// Options configuración del cliente.
type Options struct {
	BaseURL      string // incluye el prefijo /api
	Timeout      time.Duration
	Retries      int           // reintentos ante error de red o 5xx en GET, PUT y DELETE
	RetryBackoff time.Duration // espera entre intentos
	Session      Session       // nil: MemorySession
	HTTPClient   *http.Client  // nil: cliente propio con Timeout
	Log          *logger.Logger
}

// Client cliente HTTP con autenticación bearer y decodificación de dto.ErrorResponse.
type Client struct {
	baseURL      string
	http         *http.Client
	retries      int
	retryBackoff time.Duration
	session      Session
	log          *logger.Logger
}

// New construye el cliente.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 300 * time.Millisecond
	}
	if opts.Session == nil {
		opts.Session = &MemorySession{}
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		http:         opts.HTTPClient,
		retries:      opts.Retries,
		retryBackoff: opts.RetryBackoff,
		session:      opts.Session,
		log:          opts.Log.Named("apiclient"),
	}
}

// NewFromConfig cliente con la configuración de la consola y sesión en archivo.
func NewFromConfig(cfg config.ClientConfig, log *logger.Logger) *Client {
	return New(Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Retries: cfg.Retries,
		Session: NewFileSession(cfg.SessionFile),
		Log:     log,
	})
}

// Session devuelve la sesión en uso.
func (c *Client) Session() Session { return c.session }

// LoggedIn indica si hay un token vigente.
func (c *Client) LoggedIn() bool { return c.session.Token() != "" }

// Login autentica y guarda el token en la sesión.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, dto.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	if err := c.session.Save(out.Token); err != nil {
		return nil, err
	}
	c.log.Info().Str("email", out.User.Email).Str("role", out.User.Role).Msg("sesión iniciada")
	return &out, nil
}

// Logout descarta la sesión local.
func (c *Client) Logout() error { return c.session.Clear() }

// Me devuelve el usuario de la sesión.
func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summary resumen de ventas del panel.
func (c *Client) Summary(ctx context.Context) (*dto.SalesSummaryResponse, error) {
	var out dto.SalesSummaryResponse
	if err := c.do(ctx, http.MethodGet, "/dashboard/summary", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do envía una petición JSON y decodifica la respuesta en out (si no es nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var payload []byte
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("apiclient: serializar %s %s: %w", method, path, err)
		}
		payload = raw
	}
	resp, err := c.send(ctx, method, path, query, payload, "application/json")
	if err != nil {
		return err
	}
	if out == nil || len(resp.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("apiclient: decodificar %s %s: %w", method, path, err)
	}
	return nil
}

// download obtiene un archivo binario y el nombre sugerido por Content-Disposition.
func (c *Client) download(ctx context.Context, path string) ([]byte, string, error) {
	resp, err := c.send(ctx, http.MethodGet, path, nil, nil, "*/*")
	if err != nil {
		return nil, "", err
	}
	filename := ""
	if _, params, err := mime.ParseMediaType(resp.header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	return resp.body, filename, nil
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// send ejecuta la petición con reintentos y traduce los status de error.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, accept string) (*response, error) {
	attempts := 1
	if idempotent(method) {
		attempts += c.retries
	}

	var (
		resp    *response
		lastErr error
	)
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.retryBackoff):
			}
			c.log.Warn().Str("method", method).Str("path", path).Int("attempt", attempt+1).Msg("reintentando petición")
		}
		resp, lastErr = c.roundTrip(ctx, method, path, query, payload, accept)
		if lastErr != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("apiclient: %s %s cancelada: %w", method, path, ctx.Err())
			}
			continue
		}
		if resp.status < 500 {
			break
		}
	}
	if lastErr != nil {
		c.log.Error().Err(lastErr).Str("method", method).Str("path", path).Msg("petición fallida")
		return nil, lastErr
	}
	if resp.status == http.StatusUnauthorized {
		if err := c.session.Clear(); err != nil {
			c.log.Warn().Err(err).Msg("no se pudo borrar la sesión")
		}
		c.log.Warn().Str("method", method).Str("path", path).Msg("sesión rechazada por la API")
		return nil, fmt.Errorf("%w: %s", ErrAuth, decodeAPIError(resp).Message)
	}
	if resp.status >= 300 {
		apiErr := decodeAPIError(resp)
		c.log.Error().Int("status", resp.status).Str("code", apiErr.Code).Str("method", method).Str("path", path).Msg(apiErr.Message)
		return nil, apiErr
	}
	return resp, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, payload []byte, accept string) (*response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: crear petición: %w", err)
	}
	req.Header.Set("Accept", accept)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("apiclient: leer respuesta de %s %s: %w", method, path, err)
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", httpResp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("petición")
	return &response{status: httpResp.StatusCode, header: httpResp.Header, body: raw}, nil
}

func decodeAPIError(resp *response) *APIError {
	apiErr := &APIError{Status: resp.status, Code: "HTTP_" + fmt.Sprint(resp.status), Message: http.StatusText(resp.status)}
	var body dto.ErrorResponse
	if err := json.Unmarshal(resp.body, &body); err == nil && body.Code != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		if len(body.Fields) > 0 {
			apiErr.Fields = body.Fields
		}
	}
	return apiErr
}

// POST no se reintenta: un 5xx después del commit duplicaría la venta.
func idempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodPut || method == http.MethodDelete
}

// IsAuth indica si err proviene de un 401.
func IsAuth(err error) bool { return errors.Is(err, ErrAuth) }
