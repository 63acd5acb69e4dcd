package schema

import (
	"fmt"

	"github.com/jhoicas/Gestion-api/internal/domain"
)

// Registry índice de recursos por nombre, en orden de registro.
type Registry struct {
	list   []*Resource
	byName map[string]*Resource
}

// NewRegistry construye el índice. Nombres duplicados son un error de programación.
func NewRegistry(resources ...*Resource) *Registry {
	r := &Registry{byName: make(map[string]*Resource, len(resources))}
	for _, res := range resources {
		if _, dup := r.byName[res.Name]; dup {
			panic(fmt.Sprintf("schema: recurso duplicado %q", res.Name))
		}
		if res.Pagination == "" {
			res.Pagination = PaginationServer
		}
		r.byName[res.Name] = res
		r.list = append(r.list, res)
	}
	return r
}

// Get busca un recurso; domain.ErrUnknownResource si no existe.
func (r *Registry) Get(name string) (*Resource, error) {
	res, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownResource, name)
	}
	return res, nil
}

// All recursos en orden de registro.
func (r *Registry) All() []*Resource {
	out := make([]*Resource, len(r.list))
	copy(out, r.list)
	return out
}
