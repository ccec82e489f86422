// Package validation valida los payloads de alta y edición antes de enviarlos o
// persistirlos. El resultado es un mapa campo → mensaje; nunca un panic.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Mensajes estándar. Son parte del contrato con la consola y la API.
const (
	MsgRequired       = "required"
	MsgInvalidOption  = "must be one of the allowed values"
	MsgMinOne         = "must be at least 1"
	MsgMinZero        = "must be at least 0"
	MsgNotFound       = "does not exist"
	MsgAtLeastOneItem = "at least one item is required"
	MsgInvalidDate    = "must be a date in YYYY-MM-DD format"
	MsgMaxQty         = "must be at most 1000000"
	MsgMaxPrice       = "must be at most 999999999999.99"
)

// MaxQty cantidad máxima por línea de venta.
const MaxQty = 1_000_000

// Errors resultado de una validación: ruta del campo → mensaje.
// Las rutas de líneas van indexadas (items[0].qty) para ubicar la fila.
type Errors map[string]string

// Add registra el mensaje si el campo no tenía uno; conserva el primero.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Has indica si el campo tiene error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Valid es true cuando no hay errores.
func (e Errors) Valid() bool { return len(e) == 0 }

// Fields devuelve los campos con error ordenados.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Err convierte el resultado en error; nil si es válido.
func (e Errors) Err() error {
	if e.Valid() {
		return nil
	}
	return &Error{Fields: e}
}

// ItemField construye la ruta de un campo de línea.
func ItemField(index int, name string) string {
	return fmt.Sprintf("items[%d].%s", index, name)
}

// Error envuelve Errors para los caminos que propagan error (API, consola).
type Error struct {
	Fields Errors
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields.Fields() {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "validación fallida: " + strings.Join(parts, "; ")
}

// FieldsOf extrae los errores por campo de err, si es un error de validación.
func FieldsOf(err error) (Errors, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}
