package facility

import (
	"github.com/jhoicas/facility-inventory-api/internal/domain"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
)

// Resolver produce la configuración efectiva (fusionada) de una instalación.
// Es puro: no guarda estado mutable y puede usarse concurrentemente.
type Resolver struct {
	registry *Registry
}

// NewResolver construye el resolvedor sobre un registro.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Registry registro sobre el que resuelve.
func (r *Resolver) Registry() *Registry { return r.registry }

// Resolve recorre la cadena extends (con detección de ciclos) y fusiona de la raíz a la hoja.
// Si la raíz no es "default", la cadena completa se fusiona sobre "default".
func (r *Resolver) Resolve(facilityID string) (*entity.FacilityConfig, error) {
	lineage, err := r.lineage(facilityID)
	if err != nil {
		return nil, err
	}
	if lineage[0].ID != DefaultID {
		base, err := r.registry.Get(DefaultID)
		if err != nil {
			return nil, err
		}
		lineage = append([]*entity.FacilityConfig{base}, lineage...)
	}
	out := normalize(lineage[0])
	for _, c := range lineage[1:] {
		out = merge(out, c)
	}
	return out, nil
}

// lineage devuelve la cadena de herencia de la raíz a la hoja.
func (r *Resolver) lineage(facilityID string) ([]*entity.FacilityConfig, error) {
	current, err := r.registry.Get(facilityID)
	if err != nil {
		return nil, err
	}
	visited := map[string]bool{current.ID: true}
	path := []string{current.ID}
	chain := []*entity.FacilityConfig{current}
	for current.Extends != "" {
		parentID := current.Extends
		if visited[parentID] {
			return nil, &domain.ConfigurationError{
				FacilityID: facilityID,
				Reason:     "cadena extends cíclica",
				Chain:      append(path, parentID),
			}
		}
		if !r.registry.Has(parentID) {
			return nil, &domain.ConfigurationError{
				FacilityID: facilityID,
				Reason:     "extends apunta a una configuración inexistente: " + parentID,
				Chain:      append(path, parentID),
			}
		}
		parent, _ := r.registry.Get(parentID)
		visited[parentID] = true
		path = append(path, parentID)
		chain = append(chain, parent)
		current = parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// PrimaryKeyFormat estrategia de clave primaria configurada para la instalación.
func (r *Resolver) PrimaryKeyFormat(facilityID string) (string, error) {
	cfg, err := r.Resolve(facilityID)
	if err != nil {
		return "", err
	}
	return cfg.ProductView.PrimaryKey, nil
}

// CompositeKey clave compuesta del producto según la estrategia de la instalación.
func (r *Resolver) CompositeKey(product ProductIdentity, facilityID string) (string, error) {
	cfg, err := r.Resolve(facilityID)
	if err != nil {
		return "", err
	}
	return GenerateCompositeKey(product, cfg), nil
}

// Validate valida un payload de producto contra la configuración efectiva de la instalación.
func (r *Resolver) Validate(product map[string]any, facilityID string) (ValidationResult, error) {
	cfg, err := r.Resolve(facilityID)
	if err != nil {
		return ValidationResult{}, err
	}
	return Validate(product, cfg), nil
}
