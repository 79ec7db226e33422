package entity

// Estrategias de clave primaria para agrupar/mostrar productos.
const (
	PrimaryKeyNameSKU         = "name_sku"
	PrimaryKeySKUOnly         = "sku_only"
	PrimaryKeyNameOnly        = "name_only"
	PrimaryKeyNameCategorySKU = "name_category_sku"
)

// Niveles de seguimiento por lote.
const (
	BatchTrackingFull   = "full"
	BatchTrackingSimple = "simple"
	BatchTrackingNone   = "none"
)

// Formatos de generación de batchId.
const (
	BatchIDFormatAuto        = "auto"
	BatchIDFormatSKUSequence = "sku_sequence"
	BatchIDFormatSimple      = "simple"
	BatchIDFormatLotBased    = "lot_based"
	BatchIDFormatUUID        = "uuid"
)

// FacilityConfig configuración de una instalación (bodega, tienda, planta, división).
// Los campos puntero distinguen "no definido" de "definido en false" para poder
// fusionar hijo sobre padre clave por clave.
type FacilityConfig struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name,omitempty" yaml:"name,omitempty"`
	Extends     string             `json:"extends,omitempty" yaml:"extends,omitempty"`
	ProductView *ProductView       `json:"productView,omitempty" yaml:"productView,omitempty"`
	Fields      *FieldSet          `json:"fields,omitempty" yaml:"fields,omitempty"`
	Validation  *ValidationRules   `json:"validation,omitempty" yaml:"validation,omitempty"`
	Inventory   *InventorySettings `json:"inventory,omitempty" yaml:"inventory,omitempty"`
	Features    map[string]Feature `json:"features" yaml:"features,omitempty"`
}

// ProductView flags de visualización y comportamiento de productos.
type ProductView struct {
	PrimaryKey        string `json:"primaryKey,omitempty" yaml:"primaryKey,omitempty"`
	BatchTracking     string `json:"batchTracking,omitempty" yaml:"batchTracking,omitempty"`
	DisplayMode       string `json:"displayMode,omitempty" yaml:"displayMode,omitempty"`
	ShowBatchDetails  *bool  `json:"showBatchDetails,omitempty" yaml:"showBatchDetails,omitempty"`
	ShowPlacement     *bool  `json:"showPlacement,omitempty" yaml:"showPlacement,omitempty"`
	ShowDistribution  *bool  `json:"showDistribution,omitempty" yaml:"showDistribution,omitempty"`
	ShowAnalytics     *bool  `json:"showAnalytics,omitempty" yaml:"showAnalytics,omitempty"`
	AllowBatchMerging *bool  `json:"allowBatchMerging,omitempty" yaml:"allowBatchMerging,omitempty"`
}

// FieldSet campos requeridos/opcionales (rutas con punto para anidados) y campos personalizados.
// Required/Optional en nil significa "no definido" (se hereda del padre).
type FieldSet struct {
	Required []string      `json:"required" yaml:"required,omitempty"`
	Optional []string      `json:"optional" yaml:"optional,omitempty"`
	Custom   []CustomField `json:"custom" yaml:"custom,omitempty"`
}

// CustomField descriptor de un campo definido por la instalación.
type CustomField struct {
	Name    string   `json:"name" yaml:"name"`
	Type    string   `json:"type" yaml:"type"`
	Label   string   `json:"label" yaml:"label"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// ValidationRules reglas de validación de productos.
type ValidationRules struct {
	AllowDuplicateNames *bool   `json:"allowDuplicateNames,omitempty" yaml:"allowDuplicateNames,omitempty"`
	SKUFormat           *string `json:"skuFormat,omitempty" yaml:"skuFormat,omitempty"` // expresión regular; nil = sin formato
	BatchIDFormat       string  `json:"batchIdFormat,omitempty" yaml:"batchIdFormat,omitempty"`
	LocationRequired    *bool   `json:"locationRequired,omitempty" yaml:"locationRequired,omitempty"`
	FinancialValidation *bool   `json:"financialValidation,omitempty" yaml:"financialValidation,omitempty"`
}

// InventorySettings toggles de seguimiento de inventario.
type InventorySettings struct {
	TrackIndividualUnits *bool `json:"trackIndividualUnits,omitempty" yaml:"trackIndividualUnits,omitempty"`
	AutoBatchIDs         *bool `json:"autoBatchIds,omitempty" yaml:"autoBatchIds,omitempty"`
	FIFODistribution     *bool `json:"fifoDistribution,omitempty" yaml:"fifoDistribution,omitempty"`
	LowStockAlerts       *bool `json:"lowStockAlerts,omitempty" yaml:"lowStockAlerts,omitempty"`
	ExpiryTracking       *bool `json:"expiryTracking,omitempty" yaml:"expiryTracking,omitempty"`
	LowStockThreshold    *int  `json:"lowStockThreshold,omitempty" yaml:"lowStockThreshold,omitempty"`
	ExpiryWarningDays    *int  `json:"expiryWarningDays,omitempty" yaml:"expiryWarningDays,omitempty"`
}

// Feature activación de una funcionalidad (variantes enterprise).
type Feature struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Enabled devuelve el valor del toggle o def si no está definido.
func Enabled(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// IntOr devuelve el valor o def si no está definido.
func IntOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// FeatureEnabled informa si la funcionalidad está activa en la configuración.
func (c *FacilityConfig) FeatureEnabled(name string) bool {
	if c == nil {
		return false
	}
	f, ok := c.Features[name]
	return ok && f.Enabled
}
