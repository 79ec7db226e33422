// Package facility expone la resolución de configuración de instalaciones a la capa HTTP
// y a los casos de uso de inventario.
package facility

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/facility-inventory-api/internal/domain"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
	facilitycfg "github.com/jhoicas/facility-inventory-api/internal/domain/facility"
	"github.com/jhoicas/facility-inventory-api/internal/domain/repository"
	"github.com/jhoicas/facility-inventory-api/pkg/logger"
)

// ConfigUseCase resuelve configuraciones sobre un registro que se reemplaza atómicamente al recargar.
type ConfigUseCase struct {
	builtin  *facilitycfg.Registry
	resolver atomic.Pointer[facilitycfg.Resolver]
	repo     repository.FacilityConfigRepository // nil = solo tabla embebida
	cache    ConfigCache                         // nil = sin caché
	log      *logger.Logger

	// huella de los documentos aplicados en el registro vigente
	mu          sync.Mutex
	fingerprint string
}

// NewConfigUseCase construye el caso de uso sobre el registro embebido.
// repo y cache son opcionales.
func NewConfigUseCase(builtin *facilitycfg.Registry, repo repository.FacilityConfigRepository, cache ConfigCache, log *logger.Logger) *ConfigUseCase {
	uc := &ConfigUseCase{builtin: builtin, repo: repo, cache: cache, log: log}
	uc.resolver.Store(facilitycfg.NewResolver(builtin))
	return uc
}

// Resolve devuelve la configuración efectiva. Los errores de caché se registran y se ignoran.
func (uc *ConfigUseCase) Resolve(ctx context.Context, facilityID string) (*entity.FacilityConfig, error) {
	if uc.cache != nil {
		cfg, err := uc.cache.Get(ctx, facilityID)
		if err != nil {
			uc.log.Warn().Err(err).Str("facility_id", facilityID).Msg("cache de configuración no disponible")
		} else if cfg != nil {
			return cfg, nil
		}
	}
	cfg, err := uc.resolver.Load().Resolve(facilityID)
	if err != nil {
		uc.log.Error().Err(err).Str("facility_id", facilityID).Msg("configuración de instalación inválida")
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, facilityID, cfg); err != nil {
			uc.log.Warn().Err(err).Str("facility_id", facilityID).Msg("no se pudo guardar configuración en cache")
		}
	}
	return cfg, nil
}

// PrimaryKeyFormat estrategia de clave compuesta de la instalación.
func (uc *ConfigUseCase) PrimaryKeyFormat(ctx context.Context, facilityID string) (string, error) {
	cfg, err := uc.Resolve(ctx, facilityID)
	if err != nil {
		return "", err
	}
	return cfg.ProductView.PrimaryKey, nil
}

// CompositeKey clave compuesta del producto para la instalación.
func (uc *ConfigUseCase) CompositeKey(ctx context.Context, product facilitycfg.ProductIdentity, facilityID string) (string, error) {
	cfg, err := uc.Resolve(ctx, facilityID)
	if err != nil {
		return "", err
	}
	return facilitycfg.GenerateCompositeKey(product, cfg), nil
}

// Validate valida un payload de producto sin persistir nada.
func (uc *ConfigUseCase) Validate(ctx context.Context, product map[string]any, facilityID string) (facilitycfg.ValidationResult, error) {
	cfg, err := uc.Resolve(ctx, facilityID)
	if err != nil {
		return facilitycfg.ValidationResult{}, err
	}
	return facilitycfg.Validate(product, cfg), nil
}

// HasFeature informa si la funcionalidad está habilitada en la configuración efectiva.
func (uc *ConfigUseCase) HasFeature(ctx context.Context, facilityID, feature string) (bool, error) {
	cfg, err := uc.Resolve(ctx, facilityID)
	if err != nil {
		return false, err
	}
	return cfg.FeatureEnabled(feature), nil
}

// FacilityIDs ids registrados en el registro vigente.
func (uc *ConfigUseCase) FacilityIDs() []string {
	return uc.resolver.Load().Registry().IDs()
}

// Reload reconstruye el registro con la tabla embebida más los documentos guardados.
// Si alguna instalación no resuelve, el registro vigente no cambia.
func (uc *ConfigUseCase) Reload(ctx context.Context) ([]string, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	overrides, fp, err := uc.loadOverrides(ctx)
	if err != nil {
		return nil, err
	}
	return uc.apply(ctx, overrides, fp)
}

// Refresh recarga solo si los documentos guardados cambiaron desde la última carga,
// por ejemplo porque otra réplica los modificó. Informa si hubo recarga.
func (uc *ConfigUseCase) Refresh(ctx context.Context) (bool, error) {
	if uc.repo == nil {
		return false, nil
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	overrides, fp, err := uc.loadOverrides(ctx)
	if err != nil {
		return false, err
	}
	if fp == uc.fingerprint {
		return false, nil
	}
	if _, err := uc.apply(ctx, overrides, fp); err != nil {
		return false, err
	}
	return true, nil
}

func (uc *ConfigUseCase) loadOverrides(ctx context.Context) ([]*entity.FacilityConfig, string, error) {
	if uc.repo == nil {
		return nil, "", nil
	}
	overrides, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("listar configuraciones: %w", err)
	}
	data, err := json.Marshal(overrides)
	if err != nil {
		return nil, "", fmt.Errorf("huella de configuraciones: %w", err)
	}
	sum := sha256.Sum256(data)
	return overrides, hex.EncodeToString(sum[:]), nil
}

// apply reemplaza el registro vigente e invalida la caché. Requiere uc.mu.
func (uc *ConfigUseCase) apply(ctx context.Context, overrides []*entity.FacilityConfig, fp string) ([]string, error) {
	next, err := uc.builtin.WithOverrides(overrides...)
	if err != nil {
		return nil, err
	}
	resolver, err := checkAll(next)
	if err != nil {
		return nil, err
	}
	uc.resolver.Store(resolver)
	uc.fingerprint = fp
	uc.invalidate(ctx)
	uc.log.Info().Int("facilities", len(next.IDs())).Int("overrides", len(overrides)).Msg("registro de configuraciones recargado")
	return next.IDs(), nil
}

// SaveOverride persiste el documento de una instalación y recarga el registro.
// Se rechaza si deja alguna cadena extends inválida.
func (uc *ConfigUseCase) SaveOverride(ctx context.Context, cfg *entity.FacilityConfig) (*entity.FacilityConfig, error) {
	if cfg == nil || cfg.ID == "" {
		return nil, fmt.Errorf("id de instalación requerido: %w", domain.ErrInvalidInput)
	}
	if uc.repo == nil {
		return nil, fmt.Errorf("almacenamiento de configuraciones no disponible: %w", domain.ErrConflict)
	}
	candidate, err := uc.resolver.Load().Registry().WithOverrides(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := checkAll(candidate); err != nil {
		return nil, err
	}
	if err := uc.repo.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("guardar configuración: %w", err)
	}
	if _, err := uc.Reload(ctx); err != nil {
		return nil, err
	}
	return uc.Resolve(ctx, cfg.ID)
}

func (uc *ConfigUseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar cache de configuración")
	}
}

// checkAll verifica que todas las entradas del registro resuelvan.
func checkAll(reg *facilitycfg.Registry) (*facilitycfg.Resolver, error) {
	resolver := facilitycfg.NewResolver(reg)
	for _, id := range reg.IDs() {
		if _, err := resolver.Resolve(id); err != nil {
			return nil, err
		}
	}
	return resolver, nil
}
