package facility

import "github.com/jhoicas/facility-inventory-api/internal/domain/entity"

// ProductIdentity datos mínimos para construir la clave compuesta.
type ProductIdentity struct {
	Name     string
	Category string
	SKU      string
}

// IdentityOf extrae la identidad de una unidad.
func IdentityOf(u *entity.ProductUnit) ProductIdentity {
	return ProductIdentity{Name: u.Name, Category: u.Category, SKU: u.SKU}
}

// GenerateCompositeKey construye la clave según productView.primaryKey.
// Estrategia desconocida o vacía: name_sku.
func GenerateCompositeKey(p ProductIdentity, cfg *entity.FacilityConfig) string {
	strategy := ""
	if cfg != nil && cfg.ProductView != nil {
		strategy = cfg.ProductView.PrimaryKey
	}
	switch strategy {
	case entity.PrimaryKeySKUOnly:
		return p.SKU
	case entity.PrimaryKeyNameOnly:
		return p.Name
	case entity.PrimaryKeyNameCategorySKU:
		return p.Name + "_" + p.Category + "_" + p.SKU
	default:
		return p.Name + "_" + p.SKU
	}
}
