// Package csvimport lee clientes y productos desde archivos CSV con cabecera y
// los da de alta a través de un cliente de la API. Los archivos exportados desde
// hojas de cálculo antiguas suelen venir en ISO-8859-1; Options.Latin1 los convierte a UTF-8.
package csvimport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/internal/domain"
	"github.com/jhoicas/ventas-admin/pkg/logger"
)

// Options formato del archivo.
type Options struct {
	Latin1 bool // el archivo viene en ISO-8859-1
	Comma  rune // separador; 0 equivale a ','
}

// Row valor leído junto con su número de línea en el archivo.
type Row[T any] struct {
	Line  int
	Value T
}

// RowError error asociado a una línea del archivo.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("línea %d: %v", e.Line, e.Err) }
func (e *RowError) Unwrap() error { return e.Err }

// ErrMissingColumn falta una columna obligatoria en la cabecera.
var ErrMissingColumn = errors.New("csvimport: falta columna obligatoria")

type table struct {
	cols map[string]int
	rows [][]string
	// líneas de cada fila de datos (la cabecera es la línea 1)
	lines []int
}

func read(r io.Reader, opts Options, required ...string) (*table, error) {
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csvimport: leer cabecera: %w", err)
	}
	t := &table{cols: make(map[string]int, len(header))}
	for i, h := range header {
		t.cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, name := range required {
		if _, ok := t.cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("csvimport: %w", err)
		}
		line, _ := cr.FieldPos(0)
		t.rows = append(t.rows, rec)
		t.lines = append(t.lines, line)
	}
}

func (t *table) get(rec []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// ReadCustomers columnas: name, city, gender.
func ReadCustomers(r io.Reader, opts Options) ([]Row[dto.CustomerRequest], error) {
	t, err := read(r, opts, "name", "city", "gender")
	if err != nil {
		return nil, err
	}
	out := make([]Row[dto.CustomerRequest], 0, len(t.rows))
	for i, rec := range t.rows {
		out = append(out, Row[dto.CustomerRequest]{Line: t.lines[i], Value: dto.CustomerRequest{
			Name:   t.get(rec, "name"),
			City:   t.get(rec, "city"),
			Gender: strings.ToLower(t.get(rec, "gender")),
		}})
	}
	return out, nil
}

// ReadProducts columnas: name, category, price, color y code (opcional).
// Un precio ilegible invalida todo el archivo con la línea correspondiente.
func ReadProducts(r io.Reader, opts Options) ([]Row[dto.CreateProductRequest], error) {
	t, err := read(r, opts, "name", "category", "price", "color")
	if err != nil {
		return nil, err
	}
	out := make([]Row[dto.CreateProductRequest], 0, len(t.rows))
	for i, rec := range t.rows {
		price, err := decimal.NewFromString(t.get(rec, "price"))
		if err != nil {
			return nil, &RowError{Line: t.lines[i], Err: fmt.Errorf("precio inválido %q", t.get(rec, "price"))}
		}
		out = append(out, Row[dto.CreateProductRequest]{Line: t.lines[i], Value: dto.CreateProductRequest{
			Code:     t.get(rec, "code"),
			Name:     t.get(rec, "name"),
			Category: strings.ToLower(t.get(rec, "category")),
			Price:    price,
			Color:    t.get(rec, "color"),
		}})
	}
	return out, nil
}

// Creator alta de un recurso; lo implementan los clientes de apiclient.
type Creator[C any, T any] interface {
	Create(ctx context.Context, in C) (*T, error)
}

// Result resumen de una importación.
type Result struct {
	Created int
	Failed  []*RowError
}

// Import da de alta fila por fila. Los rechazos de la API (validación, duplicados)
// se acumulan en Failed y la importación sigue; una sesión inválida o un contexto
// cancelado la cortan.
func Import[C any, T any](ctx context.Context, rows []Row[C], creator Creator[C, T], log *logger.Logger) (Result, error) {
	if log == nil {
		log = logger.Nop()
	}
	var res Result
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := creator.Create(ctx, row.Value); err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return res, err
			}
			log.Warn().Int("line", row.Line).Err(err).Msg("fila rechazada")
			res.Failed = append(res.Failed, &RowError{Line: row.Line, Err: err})
			continue
		}
		res.Created++
	}
	log.Info().Int("created", res.Created).Int("failed", len(res.Failed)).Msg("importación terminada")
	return res, nil
}
