package repository

// ListFilter paginación y búsqueda libre para los listados.
// Search vacío no filtra; Limit y Offset ya vienen normalizados por el caso de uso.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}
