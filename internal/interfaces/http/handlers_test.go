package http_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facility-inventory-api/internal/application/dto"
	"github.com/jhoicas/facility-inventory-api/internal/domain"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
	"github.com/jhoicas/facility-inventory-api/internal/domain/facility"
	apphttp "github.com/jhoicas/facility-inventory-api/internal/interfaces/http"
)

type testAPI struct {
	app           *fiber.App
	configs       *MockConfigService
	products      *MockProductService
	batches       *MockBatchService
	distributions *MockDistributionService
	placements    *MockPlacementService
	alerts        *MockAlertService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	api := &testAPI{
		app:           fiber.New(),
		configs:       new(MockConfigService),
		products:      new(MockProductService),
		batches:       new(MockBatchService),
		distributions: new(MockDistributionService),
		placements:    new(MockPlacementService),
		alerts:        new(MockAlertService),
	}
	apphttp.Router(api.app, apphttp.RouterDeps{
		Configs:       api.configs,
		Products:      api.products,
		Batches:       api.batches,
		Distributions: api.distributions,
		Placements:    api.placements,
		Alerts:        api.alerts,
		JWTSecret:     testJWTSecret,
	})
	t.Cleanup(func() {
		api.configs.AssertExpectations(t)
		api.products.AssertExpectations(t)
		api.batches.AssertExpectations(t)
		api.distributions.AssertExpectations(t)
		api.placements.AssertExpectations(t)
		api.alerts.AssertExpectations(t)
	})
	return api
}

// do envía la petición a la instalación indicada (header X-Facility-ID).
func (a *testAPI) do(t *testing.T, method, target, facilityID, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if facilityID != "" {
		req.Header.Set(apphttp.HeaderFacilityID, facilityID)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeError(t *testing.T, raw []byte) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	return e
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	resp, raw := api.do(t, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))
}

func TestGetConfig(t *testing.T) {
	api := newTestAPI(t)
	api.configs.On("Resolve", mock.Anything, "warehouse").
		Return(&entity.FacilityConfig{ID: "warehouse", Extends: "default"}, nil)

	resp, raw := api.do(t, http.MethodGet, "/api/facility/config", "warehouse", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.FacilityConfigResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "warehouse", out.Config.ID)
}

func TestGetConfig_ErrorDeConfiguracion(t *testing.T) {
	api := newTestAPI(t)
	api.configs.On("Resolve", mock.Anything, "loop").
		Return(nil, &domain.ConfigurationError{FacilityID: "loop", Reason: "ciclo en extends", Chain: []string{"a", "b", "a"}})

	resp, raw := api.do(t, http.MethodGet, "/api/facility/config", "loop", "")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "CONFIGURATION", decodeError(t, raw).Code)
}

func TestGetPrimaryKey(t *testing.T) {
	api := newTestAPI(t)
	api.configs.On("PrimaryKeyFormat", mock.Anything, "pharmacy").Return(entity.PrimaryKeySKUOnly, nil)

	resp, raw := api.do(t, http.MethodGet, "/api/facility/config/primary-key", "pharmacy", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"facilityId":"pharmacy","primaryKey":"sku_only"}`, string(raw))
}

func TestGetFeature(t *testing.T) {
	api := newTestAPI(t)
	api.configs.On("HasFeature", mock.Anything, "enterprise", "multiSite").Return(true, nil)

	resp, raw := api.do(t, http.MethodGet, "/api/facility/features/multiSite", "enterprise", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"facilityId":"enterprise","feature":"multiSite","enabled":true}`, string(raw))
}

func TestReload(t *testing.T) {
	api := newTestAPI(t)
	api.configs.On("Reload", mock.Anything).Return([]string{"default", "warehouse"}, nil)

	resp, raw := api.do(t, http.MethodPost, "/api/facility/config/reload", "", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"facilities":["default","warehouse"]}`, string(raw))
}

func TestPutConfig_IDDeLaRuta(t *testing.T) {
	api := newTestAPI(t)
	api.configs.On("SaveOverride", mock.Anything, mock.MatchedBy(func(cfg *entity.FacilityConfig) bool {
		return cfg.ID == "clinic" && cfg.Extends == "pharmacy"
	})).Return(&entity.FacilityConfig{ID: "clinic", Extends: "pharmacy"}, nil)

	resp, _ := api.do(t, http.MethodPut, "/api/facilities/clinic/config", "", `{"id":"otro","extends":"pharmacy"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPutConfig_Ciclo(t *testing.T) {
	api := newTestAPI(t)
	api.configs.On("SaveOverride", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("guardar: %w", &domain.ConfigurationError{FacilityID: "a", Reason: "ciclo"}))

	resp, _ := api.do(t, http.MethodPut, "/api/facilities/a/config", "", `{"extends":"a"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestValidateProduct(t *testing.T) {
	api := newTestAPI(t)
	payload := map[string]any{"name": "Widget", "quantity": json.Number("0")}
	api.configs.On("Validate", mock.Anything, payload, "retail").
		Return(facility.ValidationResult{IsValid: true, Errors: []string{}}, nil)

	resp, raw := api.do(t, http.MethodPost, "/api/products/validate", "retail", `{"name":"Widget","quantity":0}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"isValid":true,"errors":[]}`, string(raw))
}

func TestValidateProduct_CuerpoInvalido(t *testing.T) {
	api := newTestAPI(t)

	resp, raw := api.do(t, http.MethodPost, "/api/products/validate", "retail", `[1,2`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, raw).Code)
}

func TestCreateProduct(t *testing.T) {
	api := newTestAPI(t)
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	units := []*entity.ProductUnit{
		{ID: "u1", FacilityID: "warehouse", Name: "Widget", SKU: "WI-001-001", BatchID: "WI-001", Quantity: decimal.NewFromInt(1), ReceivedDate: now, Status: entity.UnitStatusActive},
		{ID: "u2", FacilityID: "warehouse", Name: "Widget", SKU: "WI-001-002", BatchID: "WI-001", Quantity: decimal.NewFromInt(1), ReceivedDate: now, Status: entity.UnitStatusActive},
	}
	payload := map[string]any{"name": "Widget", "quantity": json.Number("2"), "pricePerUnit": json.Number("1.5")}
	api.products.On("Create", mock.Anything, "warehouse", payload).Return(units, nil)

	resp, raw := api.do(t, http.MethodPost, "/api/products", "warehouse", `{"name":"Widget","quantity":2,"pricePerUnit":1.5}`)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.CreateProductResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "WI-001", out.BatchID)
	require.Len(t, out.Units, 2)
	assert.Equal(t, "WI-001-002", out.Units[1].SKU)
	assert.NotNil(t, out.Units[0].Distributions)
}

func TestCreateProduct_ValidacionDevuelveTodosLosErrores(t *testing.T) {
	api := newTestAPI(t)
	api.products.On("Create", mock.Anything, "pharmacy", mock.Anything).
		Return(nil, &domain.ValidationFailedError{Errors: []string{"falta name", "falta category"}})

	resp, raw := api.do(t, http.MethodPost, "/api/products", "pharmacy", `{}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decodeError(t, raw)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, []string{"falta name", "falta category"}, e.Details)
}

func TestCreateProduct_Duplicado(t *testing.T) {
	api := newTestAPI(t)
	api.products.On("Create", mock.Anything, "pharmacy", mock.Anything).
		Return(nil, fmt.Errorf("clave Widget_AB: %w", domain.ErrDuplicate))

	resp, raw := api.do(t, http.MethodPost, "/api/products", "pharmacy", `{"name":"Widget"}`)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decodeError(t, raw).Code)
}

func TestListProducts_PaginacionPorDefecto(t *testing.T) {
	api := newTestAPI(t)
	api.products.On("List", mock.Anything, "default", "Widget", 20, 0).Return([]*entity.ProductUnit{}, nil)

	resp, raw := api.do(t, http.MethodGet, "/api/products?name=Widget", "", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"items":[],"page":{"limit":20,"offset":0}}`, string(raw))
}

func TestListProducts_LimiteMaximo(t *testing.T) {
	api := newTestAPI(t)
	api.products.On("List", mock.Anything, "retail", "", 100, 40).Return([]*entity.ProductUnit{}, nil)

	resp, _ := api.do(t, http.MethodGet, "/api/products?limit=500&offset=40", "retail", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetProduct_NoExiste(t *testing.T) {
	api := newTestAPI(t)
	api.products.On("Get", mock.Anything, "retail", "missing").Return(nil, domain.ErrNotFound)

	resp, raw := api.do(t, http.MethodGet, "/api/products/missing", "retail", "")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, raw).Code)
}

func TestBatches(t *testing.T) {
	api := newTestAPI(t)
	api.batches.On("Summaries", mock.Anything, "warehouse", "").Return([]entity.BatchSummary{
		{BatchID: "WI-001", Name: "Widget", UnitCount: 2, TotalQuantity: decimal.NewFromInt(10)},
	}, nil)

	resp, raw := api.do(t, http.MethodGet, "/api/products/batches", "warehouse", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.BatchSummaryListResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Items, 1)
	assert.Equal(t, "WI-001", out.Items[0].BatchID)
}

func TestBatchReport(t *testing.T) {
	api := newTestAPI(t)
	api.batches.On("Report", mock.Anything, "warehouse").Return([]byte("%PDF-1.3 fake"), nil)

	resp, raw := api.do(t, http.MethodGet, "/api/products/batches/report", "warehouse", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "lotes-warehouse.pdf")
	assert.Equal(t, "%PDF-1.3 fake", string(raw))
}

func TestDistribute(t *testing.T) {
	api := newTestAPI(t)
	result := &dto.DistributionResult{
		Name:        "Widget",
		Destination: "Store A",
		Allocations: []dto.AllocationDTO{
			{ProductID: "a", BatchID: "WI-001", QuantityConsumed: decimal.NewFromInt(3), PriceSent: decimal.NewFromInt(6)},
			{ProductID: "b", BatchID: "WI-001", QuantityConsumed: decimal.NewFromInt(1), PriceSent: decimal.NewFromInt(3)},
		},
		TotalQuantity:  decimal.NewFromInt(4),
		TotalPriceSent: decimal.NewFromInt(9),
	}
	api.distributions.On("Distribute", mock.Anything, "warehouse", mock.MatchedBy(func(r dto.DistributionRequest) bool {
		return r.Name == "Widget" && r.Destination == "Store A" && r.Quantity.Equal(decimal.NewFromInt(4))
	})).Return(result, nil)

	resp, raw := api.do(t, http.MethodPost, "/api/products/distribute", "warehouse", `{"name":"Widget","quantity":4,"destination":"Store A"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.DistributionResult
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Allocations, 2)
	assert.Equal(t, "a", out.Allocations[0].ProductID)
	assert.True(t, out.TotalPriceSent.Equal(decimal.NewFromInt(9)))
}

func TestDistribute_MapeoDeErrores(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"stock insuficiente", &domain.InsufficientStockError{ProductName: "Widget", Requested: decimal.NewFromInt(10), Available: decimal.NewFromInt(9)}, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"fifo deshabilitado", domain.ErrFeatureDisabled, http.StatusForbidden, "FEATURE_DISABLED"},
		{"bloqueo ocupado", fmt.Errorf("%w: distribution:warehouse:Widget", domain.ErrLockNotObtained), http.StatusLocked, "LOCKED"},
		{"entrada inválida", &domain.ValidationFailedError{Errors: []string{"quantity"}}, http.StatusBadRequest, "VALIDATION"},
		{"error interno", fmt.Errorf("db caída"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newTestAPI(t)
			api.distributions.On("Distribute", mock.Anything, "warehouse", mock.Anything).Return(nil, tc.err)

			resp, raw := api.do(t, http.MethodPost, "/api/products/distribute", "warehouse", `{"name":"Widget","quantity":10,"destination":"Store A"}`)

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decodeError(t, raw).Code)
		})
	}
}

func TestPlace_CapacidadDesactivada(t *testing.T) {
	api := newTestAPI(t)
	off := false
	api.configs.On("Resolve", mock.Anything, "retail").
		Return(&entity.FacilityConfig{ID: "retail", ProductView: &entity.ProductView{ShowPlacement: &off}}, nil)

	resp, raw := api.do(t, http.MethodPost, "/api/products/u1/placements", "retail", `{"section":"A1","quantity":1}`)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FEATURE_DISABLED", decodeError(t, raw).Code)
	api.placements.AssertNotCalled(t, "Place", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlace(t *testing.T) {
	api := newTestAPI(t)
	on := true
	api.configs.On("Resolve", mock.Anything, "warehouse").
		Return(&entity.FacilityConfig{ID: "warehouse", ProductView: &entity.ProductView{ShowPlacement: &on}}, nil)
	placed := &entity.ProductUnit{
		ID: "u1", FacilityID: "warehouse", Quantity: decimal.NewFromInt(5),
		Placements: []entity.Placement{{Section: "A1", Quantity: decimal.NewFromInt(2)}},
	}
	api.placements.On("Place", mock.Anything, "warehouse", "u1", mock.MatchedBy(func(r dto.PlacementRequest) bool {
		return r.Section == "A1" && r.Quantity.Equal(decimal.NewFromInt(2))
	})).Return(placed, nil)

	resp, raw := api.do(t, http.MethodPost, "/api/products/u1/placements", "warehouse", `{"section":"A1","quantity":2}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.ProductUnitResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Placements, 1)
	assert.Equal(t, "A1", out.Placements[0].Section)
}

func TestPlace_ExcedeCantidad(t *testing.T) {
	api := newTestAPI(t)
	api.configs.On("Resolve", mock.Anything, "warehouse").
		Return(&entity.FacilityConfig{ID: "warehouse", ProductView: &entity.ProductView{}}, nil)
	api.placements.On("Place", mock.Anything, "warehouse", "u1", mock.Anything).
		Return(nil, fmt.Errorf("ubicado 6 > cantidad 5: %w", domain.ErrInvalidInput))

	resp, _ := api.do(t, http.MethodPost, "/api/products/u1/placements", "warehouse", `{"section":"A1","quantity":6}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAlerts(t *testing.T) {
	api := newTestAPI(t)
	api.alerts.On("LowStock", mock.Anything, "retail").Return([]entity.LowStockAlert{
		{FacilityID: "retail", ProductName: "Bolt", Remaining: decimal.NewFromInt(2), Threshold: 10},
	}, true, nil)
	api.alerts.On("Expiring", mock.Anything, "retail", mock.Anything).Return([]entity.ExpiryAlert{}, false, nil)

	resp, raw := api.do(t, http.MethodGet, "/api/alerts/low-stock", "retail", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var low dto.LowStockResponse
	require.NoError(t, json.Unmarshal(raw, &low))
	assert.True(t, low.Enabled)
	require.Len(t, low.Items, 1)
	assert.Equal(t, "Bolt", low.Items[0].ProductName)

	resp, raw = api.do(t, http.MethodGet, "/api/alerts/expiring", "retail", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"facilityId":"retail","enabled":false,"items":[]}`, string(raw))
}
