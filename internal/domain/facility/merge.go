package facility

import "github.com/jhoicas/facility-inventory-api/internal/domain/entity"

// merge fusiona child sobre parent y devuelve una configuración nueva (parent y child no se modifican).
//   - productView, validation, inventory: clave por clave, gana el hijo si la define.
//   - fields.required / fields.optional: la lista del hijo reemplaza a la del padre solo si existe.
//   - fields.custom: concatenación, primero los del padre.
//   - features: unión por nombre, gana el valor del hijo.
func merge(parent, child *entity.FacilityConfig) *entity.FacilityConfig {
	out := &entity.FacilityConfig{
		ID:          child.ID,
		Name:        firstNonEmpty(child.Name, parent.Name),
		Extends:     child.Extends,
		ProductView: mergeProductView(parent.ProductView, child.ProductView),
		Fields:      mergeFields(parent.Fields, child.Fields),
		Validation:  mergeValidation(parent.Validation, child.Validation),
		Inventory:   mergeInventory(parent.Inventory, child.Inventory),
		Features:    mergeFeatures(parent.Features, child.Features),
	}
	return out
}

// normalize copia la configuración garantizando que todas las secciones existan.
func normalize(c *entity.FacilityConfig) *entity.FacilityConfig {
	return merge(&entity.FacilityConfig{}, c)
}

func mergeProductView(parent, child *entity.ProductView) *entity.ProductView {
	p := deref(parent)
	c := deref(child)
	return &entity.ProductView{
		PrimaryKey:        firstNonEmpty(c.PrimaryKey, p.PrimaryKey),
		BatchTracking:     firstNonEmpty(c.BatchTracking, p.BatchTracking),
		DisplayMode:       firstNonEmpty(c.DisplayMode, p.DisplayMode),
		ShowBatchDetails:  pick(c.ShowBatchDetails, p.ShowBatchDetails),
		ShowPlacement:     pick(c.ShowPlacement, p.ShowPlacement),
		ShowDistribution:  pick(c.ShowDistribution, p.ShowDistribution),
		ShowAnalytics:     pick(c.ShowAnalytics, p.ShowAnalytics),
		AllowBatchMerging: pick(c.AllowBatchMerging, p.AllowBatchMerging),
	}
}

func mergeValidation(parent, child *entity.ValidationRules) *entity.ValidationRules {
	p := deref(parent)
	c := deref(child)
	return &entity.ValidationRules{
		AllowDuplicateNames: pick(c.AllowDuplicateNames, p.AllowDuplicateNames),
		SKUFormat:           pick(c.SKUFormat, p.SKUFormat),
		BatchIDFormat:       firstNonEmpty(c.BatchIDFormat, p.BatchIDFormat),
		LocationRequired:    pick(c.LocationRequired, p.LocationRequired),
		FinancialValidation: pick(c.FinancialValidation, p.FinancialValidation),
	}
}

func mergeInventory(parent, child *entity.InventorySettings) *entity.InventorySettings {
	p := deref(parent)
	c := deref(child)
	return &entity.InventorySettings{
		TrackIndividualUnits: pick(c.TrackIndividualUnits, p.TrackIndividualUnits),
		AutoBatchIDs:         pick(c.AutoBatchIDs, p.AutoBatchIDs),
		FIFODistribution:     pick(c.FIFODistribution, p.FIFODistribution),
		LowStockAlerts:       pick(c.LowStockAlerts, p.LowStockAlerts),
		ExpiryTracking:       pick(c.ExpiryTracking, p.ExpiryTracking),
		LowStockThreshold:    pick(c.LowStockThreshold, p.LowStockThreshold),
		ExpiryWarningDays:    pick(c.ExpiryWarningDays, p.ExpiryWarningDays),
	}
}

func mergeFields(parent, child *entity.FieldSet) *entity.FieldSet {
	p := deref(parent)
	c := deref(child)
	required := p.Required
	if c.Required != nil {
		required = c.Required
	}
	optional := p.Optional
	if c.Optional != nil {
		optional = c.Optional
	}
	custom := make([]entity.CustomField, 0, len(p.Custom)+len(c.Custom))
	for _, f := range p.Custom {
		custom = append(custom, copyCustomField(f))
	}
	for _, f := range c.Custom {
		custom = append(custom, copyCustomField(f))
	}
	return &entity.FieldSet{
		Required: copyStrings(required),
		Optional: copyStrings(optional),
		Custom:   custom,
	}
}

func mergeFeatures(parent, child map[string]entity.Feature) map[string]entity.Feature {
	out := make(map[string]entity.Feature, len(parent)+len(child))
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range child {
		out[k] = v
	}
	return out
}

// pick devuelve una copia del valor del hijo si existe, si no del padre.
func pick[T any](child, parent *T) *T {
	src := child
	if src == nil {
		src = parent
	}
	if src == nil {
		return nil
	}
	v := *src
	return &v
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyCustomField(f entity.CustomField) entity.CustomField {
	if f.Options != nil {
		f.Options = copyStrings(f.Options)
	}
	return f
}
