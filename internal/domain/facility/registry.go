// Package facility resuelve la configuración efectiva de cada instalación
// (herencia vía extends) y deriva de ella claves compuestas y reglas de validación.
package facility

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/facility-inventory-api/internal/domain"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
)

// DefaultID identificador de la configuración base.
const DefaultID = "default"

//go:embed facilities.yaml
var builtinFacilities []byte

type registryDocument struct {
	Facilities []*entity.FacilityConfig `yaml:"facilities"`
}

// Registry tabla inmutable de configuraciones crudas (sin fusionar).
type Registry struct {
	entries map[string]*entity.FacilityConfig
	order   []string
}

// NewRegistry construye el registro. Debe incluir la entrada "default".
func NewRegistry(configs ...*entity.FacilityConfig) (*Registry, error) {
	r := &Registry{entries: make(map[string]*entity.FacilityConfig, len(configs))}
	for _, c := range configs {
		if c == nil || c.ID == "" {
			return nil, fmt.Errorf("registry: configuración sin id: %w", domain.ErrConfiguration)
		}
		if _, dup := r.entries[c.ID]; dup {
			return nil, fmt.Errorf("registry: id %q duplicado: %w", c.ID, domain.ErrConfiguration)
		}
		r.entries[c.ID] = c
		r.order = append(r.order, c.ID)
	}
	if _, ok := r.entries[DefaultID]; !ok {
		return nil, &domain.ConfigurationError{FacilityID: DefaultID, Reason: "el registro no define la configuración base"}
	}
	return r, nil
}

// LoadRegistry decodifica un documento YAML con la clave "facilities".
func LoadRegistry(data []byte) (*Registry, error) {
	var doc registryDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("registry: decodificar yaml: %w", err)
	}
	return NewRegistry(doc.Facilities...)
}

// DefaultRegistry registro embebido en el binario.
func DefaultRegistry() (*Registry, error) {
	return LoadRegistry(builtinFacilities)
}

// WithOverrides devuelve un registro nuevo donde cada override reemplaza o agrega su entrada.
func (r *Registry) WithOverrides(overrides ...*entity.FacilityConfig) (*Registry, error) {
	merged := make([]*entity.FacilityConfig, 0, len(r.order)+len(overrides))
	replaced := make(map[string]*entity.FacilityConfig, len(overrides))
	var added []*entity.FacilityConfig
	for _, o := range overrides {
		if o == nil {
			continue
		}
		if _, exists := r.entries[o.ID]; exists {
			replaced[o.ID] = o
		} else {
			added = append(added, o)
		}
	}
	for _, id := range r.order {
		if o, ok := replaced[id]; ok {
			merged = append(merged, o)
			continue
		}
		merged = append(merged, r.entries[id])
	}
	return NewRegistry(append(merged, added...)...)
}

// Get devuelve la entrada cruda; si el id no existe cae en "default".
func (r *Registry) Get(id string) (*entity.FacilityConfig, error) {
	if c, ok := r.entries[id]; ok {
		return c, nil
	}
	if c, ok := r.entries[DefaultID]; ok {
		return c, nil
	}
	return nil, &domain.ConfigurationError{FacilityID: id, Reason: "instalación desconocida y sin configuración base"}
}

// Has informa si el id está registrado explícitamente.
func (r *Registry) Has(id string) bool {
	_, ok := r.entries[id]
	return ok
}

// IDs ids registrados en orden de carga.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
