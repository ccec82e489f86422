// Package resource mantiene el estado paginado de un recurso remoto (listado, búsqueda,
// selección y mutaciones) para las pantallas de la consola.
package resource

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/pkg/logger"
)

// Service operaciones remotas de un recurso. Lo implementan los clientes de apiclient.
type Service[T any, ID comparable, C any, U any] interface {
	List(ctx context.Context, q dto.ListQuery) (*dto.Page[T], error)
	Get(ctx context.Context, id ID) (*T, error)
	Create(ctx context.Context, in C) (*T, error)
	Update(ctx context.Context, id ID, in U) (*T, error)
	Delete(ctx context.Context, id ID) error
}

// Params parámetros del listado. Dos peticiones con los mismos Params son intercambiables.
type Params struct {
	Page     int
	PageSize int
	Search   string
}

func (p Params) key() string {
	return fmt.Sprintf("%d|%d|%s", p.Page, p.PageSize, p.Search)
}

// State copia del estado del store.
type State[T any] struct {
	Items      []T
	Total      int
	Params     Params
	TotalPages int
	Loading    bool
	Submitting bool
	FetchErr   error // *FetchError
	OpErr      error // *OperationError
	Selected   *T
}

// Store estado de un recurso paginado. Seguro para uso concurrente.
//
// Cada listado lleva un número de generación. Una respuesta se aplica solo si sus
// parámetros son los vigentes y su generación es posterior a la última aplicada;
// así una página vieja que llega tarde nunca pisa a la actual.
type Store[T any, ID comparable, C any, U any] struct {
	name  string
	svc   Service[T, ID, C, U]
	log   *logger.Logger
	group singleflight.Group

	mu         sync.Mutex
	params     Params
	generation uint64
	applied    uint64
	items      []T
	total      int
	submitting int
	fetchErr   error
	opErr      error
	selected   *T
}

// NewStore crea el store en la página 1. pageSize <= 0 usa dto.DefaultLimit.
func NewStore[T any, ID comparable, C any, U any](name string, svc Service[T, ID, C, U], pageSize int, log *logger.Logger) *Store[T, ID, C, U] {
	if log == nil {
		log = logger.Nop()
	}
	q := dto.ListQuery{Page: 1, Limit: pageSize}
	q.Normalize()
	return &Store[T, ID, C, U]{
		name:   name,
		svc:    svc,
		log:    log.Named("store." + name),
		params: Params{Page: q.Page, PageSize: q.Limit},
		items:  []T{},
	}
}

// State devuelve una copia del estado actual.
func (s *Store[T, ID, C, U]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := dto.Page[T]{Total: s.total, Limit: s.params.PageSize}
	return State[T]{
		Items:      append([]T{}, s.items...),
		Total:      s.total,
		Params:     s.params,
		TotalPages: page.TotalPages(),
		Loading:    s.applied < s.generation,
		Submitting: s.submitting > 0,
		FetchErr:   s.fetchErr,
		OpErr:      s.opErr,
		Selected:   s.selected,
	}
}

// Fetch carga el listado con los parámetros vigentes.
func (s *Store[T, ID, C, U]) Fetch(ctx context.Context) error {
	return s.load(ctx, nil, false)
}

// Refresh vuelve a pedir el listado sin reutilizar peticiones en vuelo.
func (s *Store[T, ID, C, U]) Refresh(ctx context.Context) error {
	return s.load(ctx, nil, true)
}

// SetPage cambia de página y recarga. Páginas menores que 1 se tratan como 1.
func (s *Store[T, ID, C, U]) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	return s.load(ctx, func(p *Params) { p.Page = page }, false)
}

// SetPageSize cambia el tamaño de página y vuelve a la página 1.
func (s *Store[T, ID, C, U]) SetPageSize(ctx context.Context, size int) error {
	q := dto.ListQuery{Page: 1, Limit: size}
	q.Normalize()
	return s.load(ctx, func(p *Params) {
		p.PageSize = q.Limit
		p.Page = 1
	}, false)
}

// SetParams reemplaza página, tamaño y búsqueda de una vez y recarga.
func (s *Store[T, ID, C, U]) SetParams(ctx context.Context, params Params) error {
	q := dto.ListQuery{Page: params.Page, Limit: params.PageSize, Search: params.Search}
	q.Normalize()
	return s.load(ctx, func(p *Params) {
		*p = Params{Page: q.Page, PageSize: q.Limit, Search: q.Search}
	}, false)
}

// Search cambia el término de búsqueda y vuelve a la página 1.
func (s *Store[T, ID, C, U]) Search(ctx context.Context, term string) error {
	return s.load(ctx, func(p *Params) {
		p.Search = term
		p.Page = 1
	}, false)
}

func (s *Store[T, ID, C, U]) load(ctx context.Context, change func(*Params), fresh bool) error {
	s.mu.Lock()
	if change != nil {
		change(&s.params)
	}
	params := s.params
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	key := params.key()
	if fresh {
		s.group.Forget(key)
	}
	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.svc.List(ctx, dto.ListQuery{Page: params.Page, Limit: params.PageSize, Search: params.Search})
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if params != s.params || gen <= s.applied {
		s.log.Debug().Uint64("generation", gen).Str("params", key).Msg("respuesta obsoleta descartada")
		return err
	}
	s.applied = gen
	if err != nil {
		s.fetchErr = &FetchError{Resource: s.name, Err: err}
		s.log.Error().Err(err).Str("params", key).Msg("error cargando listado")
		return s.fetchErr
	}
	page, _ := v.(*dto.Page[T])
	if page == nil {
		page = &dto.Page[T]{}
	}
	s.items = append([]T{}, page.Data...)
	s.total = page.Total
	s.fetchErr = nil
	s.log.Debug().Str("params", key).Int("total", page.Total).Bool("shared", shared).Msg("listado aplicado")
	return nil
}

// Get obtiene el detalle y lo deja como seleccionado.
func (s *Store[T, ID, C, U]) Get(ctx context.Context, id ID) (*T, error) {
	item, err := s.svc.Get(ctx, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.fetchErr = &FetchError{Resource: s.name, Err: err}
		return nil, s.fetchErr
	}
	s.selected = item
	return item, nil
}

// ResetSelection descarta el seleccionado.
func (s *Store[T, ID, C, U]) ResetSelection() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// Create da de alta y recarga el listado.
func (s *Store[T, ID, C, U]) Create(ctx context.Context, in C) (*T, error) {
	s.begin()
	out, err := s.svc.Create(ctx, in)
	if err := s.end("create", err); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return out, nil
}

// Update edita y recarga el listado; el seleccionado pasa a ser la versión nueva.
func (s *Store[T, ID, C, U]) Update(ctx context.Context, id ID, in U) (*T, error) {
	s.begin()
	out, err := s.svc.Update(ctx, id, in)
	if err := s.end("update", err); err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.selected != nil {
		s.selected = out
	}
	s.mu.Unlock()
	s.invalidate(ctx)
	return out, nil
}

// Delete elimina y recarga. Si la página quedó vacía retrocede una.
func (s *Store[T, ID, C, U]) Delete(ctx context.Context, id ID) error {
	s.begin()
	err := s.svc.Delete(ctx, id)
	if err := s.end("delete", err); err != nil {
		return err
	}
	s.invalidate(ctx)

	st := s.State()
	if st.FetchErr == nil && len(st.Items) == 0 && st.Params.Page > 1 && st.Total > 0 {
		if err := s.SetPage(ctx, st.TotalPages); err != nil {
			s.log.Warn().Err(err).Msg("no se pudo retroceder de página")
		}
	}
	return nil
}

func (s *Store[T, ID, C, U]) begin() {
	s.mu.Lock()
	s.submitting++
	s.opErr = nil
	s.mu.Unlock()
}

func (s *Store[T, ID, C, U]) end(op string, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting--
	if err == nil {
		return nil
	}
	s.opErr = &OperationError{Resource: s.name, Op: op, Err: err}
	s.log.Error().Err(err).Str("op", op).Msg("operación fallida")
	return s.opErr
}

// invalidate recarga tras una mutación; un error de carga queda en FetchErr.
func (s *Store[T, ID, C, U]) invalidate(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo recargar tras la operación")
	}
}
