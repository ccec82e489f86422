package apiclient

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/ventas-admin/internal/domain"
	"github.com/jhoicas/ventas-admin/internal/domain/validation"
)

// ErrAuth la API respondió 401: la sesión local ya fue descartada y hay que volver a iniciar sesión.
// Envuelve domain.ErrUnauthorized.
var ErrAuth = fmt.Errorf("%w: sesión inválida o expirada", domain.ErrUnauthorized)

// ErrUnsupported operación que el recurso no admite (editar una venta).
var ErrUnsupported = domain.ErrUnsupported

// APIError respuesta no exitosa de la API con el cuerpo dto.ErrorResponse.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  validation.Errors // solo en 422
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api: HTTP %d %s: %s", e.Status, e.Code, e.Message)
	if len(e.Fields) == 0 {
		return msg
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}

// IsValidation indica si el servidor rechazó el payload por reglas de validación.
func (e *APIError) IsValidation() bool {
	return e.Code == "VALIDATION" && len(e.Fields) > 0
}

// Unwrap permite errors.Is contra los errores de dominio equivalentes al status.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case 404:
		return domain.ErrNotFound
	case 409:
		return domain.ErrConflict
	case 403:
		return domain.ErrForbidden
	case 405, 501:
		return domain.ErrUnsupported
	}
	if e.IsValidation() {
		return &validation.Error{Fields: e.Fields}
	}
	return nil
}
