package resource

import "fmt"

// FetchError falló la lectura de un listado o detalle. El estado conserva los
// últimos datos aplicados.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: no se pudo cargar: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// OperationError falló una mutación (create, update, delete). No afecta el listado
// ni el formulario en edición.
type OperationError struct {
	Resource string
	Op       string
	Err      error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s fallido: %v", e.Resource, e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }
