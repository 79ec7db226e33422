package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/facility-inventory-api/internal/application/inventory"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
	"github.com/jhoicas/facility-inventory-api/pkg/logger"
)

func expiring(id, facilityID string, expiry time.Time, qty int64) *entity.ProductUnit {
	u := stockUnit(id, facilityID, "Amoxicilina", jan(1), qty, 1)
	u.ExpiryDate = &expiry
	return u
}

func TestLowStock_UmbralPorInstalacion(t *testing.T) {
	store := newStore(
		stockUnit("a", "retail", "Widget", jan(1), 3, 1),
		stockUnit("b", "retail", "Widget", jan(2), 2, 1),
		stockUnit("c", "retail", "Gadget", jan(1), 6, 1),
		stockUnit("d", "retail", "Bolt", jan(1), 1, 1),
	)
	uc := appinventory.NewAlertUseCase(configsWith(t), store.Repo(), logger.Nop())

	alerts, enabled, err := uc.LowStock(context.Background(), "retail")
	require.NoError(t, err)
	assert.True(t, enabled)

	require.Len(t, alerts, 2, "umbral de tienda = 5")
	assert.Equal(t, "Bolt", alerts[0].ProductName)
	assert.Equal(t, "Widget", alerts[1].ProductName)
	assert.True(t, alerts[1].Remaining.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 5, alerts[1].Threshold)
}

func TestLowStock_Deshabilitado(t *testing.T) {
	store := newStore(stockUnit("a", "quiet", "Widget", jan(1), 1, 1))
	configs := configsWith(t, &entity.FacilityConfig{
		ID:        "quiet",
		Inventory: &entity.InventorySettings{LowStockAlerts: boolPtr(false)},
	})
	uc := appinventory.NewAlertUseCase(configs, store.Repo(), logger.Nop())

	alerts, enabled, err := uc.LowStock(context.Background(), "quiet")
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Empty(t, alerts)
}

func TestExpiring_VentanaDeFarmacia(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	store := newStore(
		expiring("soon", "pharmacy", now.AddDate(0, 0, 10), 1),
		expiring("window", "pharmacy", now.AddDate(0, 0, 59), 1),
		expiring("later", "pharmacy", now.AddDate(0, 0, 90), 1),
		expiring("empty", "pharmacy", now.AddDate(0, 0, 5), 0),
	)
	uc := appinventory.NewAlertUseCase(configsWith(t), store.Repo(), logger.Nop())

	alerts, enabled, err := uc.Expiring(context.Background(), "pharmacy", now)
	require.NoError(t, err)
	assert.True(t, enabled)

	require.Len(t, alerts, 2)
	assert.Equal(t, "soon", alerts[0].ProductID)
	assert.Equal(t, 10, alerts[0].DaysLeft)
	assert.Equal(t, "window", alerts[1].ProductID)
}

func TestExpiring_SinSeguimientoEnDefault(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	store := newStore(expiring("soon", "default", now.AddDate(0, 0, 1), 1))
	uc := appinventory.NewAlertUseCase(configsWith(t), store.Repo(), logger.Nop())

	alerts, enabled, err := uc.Expiring(context.Background(), "default", now)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Empty(t, alerts)
}

func TestScanAll_RecorreInstalaciones(t *testing.T) {
	store := newStore(
		stockUnit("a", "retail", "Widget", jan(1), 1, 1),
		expiring("b", "pharmacy", time.Now().AddDate(0, 0, 3), 1),
	)
	uc := appinventory.NewAlertUseCase(configsWith(t), store.Repo(), logger.Nop())

	assert.NoError(t, uc.ScanAll(context.Background()))
}
