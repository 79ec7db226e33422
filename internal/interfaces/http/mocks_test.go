package http_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/facility-inventory-api/internal/application/dto"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
	"github.com/jhoicas/facility-inventory-api/internal/domain/facility"
)

type MockConfigService struct{ mock.Mock }

func (m *MockConfigService) Resolve(ctx context.Context, facilityID string) (*entity.FacilityConfig, error) {
	args := m.Called(ctx, facilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FacilityConfig), args.Error(1)
}

func (m *MockConfigService) PrimaryKeyFormat(ctx context.Context, facilityID string) (string, error) {
	args := m.Called(ctx, facilityID)
	return args.String(0), args.Error(1)
}

func (m *MockConfigService) Validate(ctx context.Context, product map[string]any, facilityID string) (facility.ValidationResult, error) {
	args := m.Called(ctx, product, facilityID)
	return args.Get(0).(facility.ValidationResult), args.Error(1)
}

func (m *MockConfigService) HasFeature(ctx context.Context, facilityID, feature string) (bool, error) {
	args := m.Called(ctx, facilityID, feature)
	return args.Bool(0), args.Error(1)
}

func (m *MockConfigService) Reload(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockConfigService) SaveOverride(ctx context.Context, cfg *entity.FacilityConfig) (*entity.FacilityConfig, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FacilityConfig), args.Error(1)
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) Create(ctx context.Context, facilityID string, payload map[string]any) ([]*entity.ProductUnit, error) {
	args := m.Called(ctx, facilityID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ProductUnit), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context, facilityID, name string, limit, offset int) ([]*entity.ProductUnit, error) {
	args := m.Called(ctx, facilityID, name, limit, offset)
	return args.Get(0).([]*entity.ProductUnit), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, facilityID, id string) (*entity.ProductUnit, error) {
	args := m.Called(ctx, facilityID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProductUnit), args.Error(1)
}

type MockBatchService struct{ mock.Mock }

func (m *MockBatchService) Summaries(ctx context.Context, facilityID, name string) ([]entity.BatchSummary, error) {
	args := m.Called(ctx, facilityID, name)
	return args.Get(0).([]entity.BatchSummary), args.Error(1)
}

func (m *MockBatchService) Report(ctx context.Context, facilityID string) ([]byte, error) {
	args := m.Called(ctx, facilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockDistributionService struct{ mock.Mock }

func (m *MockDistributionService) Distribute(ctx context.Context, facilityID string, req dto.DistributionRequest) (*dto.DistributionResult, error) {
	args := m.Called(ctx, facilityID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DistributionResult), args.Error(1)
}

type MockPlacementService struct{ mock.Mock }

func (m *MockPlacementService) Place(ctx context.Context, facilityID, unitID string, req dto.PlacementRequest) (*entity.ProductUnit, error) {
	args := m.Called(ctx, facilityID, unitID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProductUnit), args.Error(1)
}

type MockAlertService struct{ mock.Mock }

func (m *MockAlertService) LowStock(ctx context.Context, facilityID string) ([]entity.LowStockAlert, bool, error) {
	args := m.Called(ctx, facilityID)
	return args.Get(0).([]entity.LowStockAlert), args.Bool(1), args.Error(2)
}

func (m *MockAlertService) Expiring(ctx context.Context, facilityID string, now time.Time) ([]entity.ExpiryAlert, bool, error) {
	args := m.Called(ctx, facilityID, now)
	return args.Get(0).([]entity.ExpiryAlert), args.Bool(1), args.Error(2)
}
