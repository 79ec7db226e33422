package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appfacility "github.com/jhoicas/facility-inventory-api/internal/application/facility"
	"github.com/jhoicas/facility-inventory-api/internal/application/inventory"
	"github.com/jhoicas/facility-inventory-api/internal/domain/facility"
	"github.com/jhoicas/facility-inventory-api/internal/infrastructure/cache"
	"github.com/jhoicas/facility-inventory-api/internal/infrastructure/lock"
	infrapdf "github.com/jhoicas/facility-inventory-api/internal/infrastructure/pdf"
	"github.com/jhoicas/facility-inventory-api/internal/infrastructure/postgres"
	"github.com/jhoicas/facility-inventory-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/facility-inventory-api/internal/interfaces/http"
	"github.com/jhoicas/facility-inventory-api/pkg/config"
	"github.com/jhoicas/facility-inventory-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Bool("redis", cfg.Redis.Enabled).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema de base de datos")
	}

	builtin, err := facility.DefaultRegistry()
	if err != nil {
		log.Fatal().Err(err).Msg("tabla de configuraciones embebida")
	}

	unitRepo := postgres.NewProductUnitRepository(pool)
	facilityRepo := postgres.NewFacilityConfigRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Sin Redis: bloqueo en proceso y sin caché (una sola réplica)
	var configCache appfacility.ConfigCache
	var locker inventory.KeyLocker = lock.NewLocalLocker(cfg.Facility.LockTTL)
	if cfg.Redis.Enabled {
		client, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		configCache = cache.NewConfigCache(client, cfg.Facility.CacheTTL)
		locker = lock.NewRedisLocker(client, cfg.Facility.LockTTL, cfg.Facility.LockRetries, log)
	}

	configUC := appfacility.NewConfigUseCase(builtin, facilityRepo, configCache, log)
	ids, err := configUC.Reload(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar configuraciones de instalaciones")
	}
	log.Info().Strs("facilities", ids).Msg("configuraciones cargadas")

	productUC := inventory.NewProductUseCase(configUC, unitRepo, txRunner, locker, log)
	batchUC := inventory.NewBatchUseCase(configUC, unitRepo, infrapdf.NewMarotoReportGenerator(), log)
	distributionUC := inventory.NewDistributionUseCase(configUC, txRunner, locker, log)
	placementUC := inventory.NewPlacementUseCase(configUC, txRunner)
	alertUC := inventory.NewAlertUseCase(configUC, unitRepo, log)

	sched, err := scheduler.New(log)
	if err != nil {
		log.Fatal().Err(err).Msg("planificador")
	}
	if cfg.Alerts.Enabled {
		if err := sched.AddAlertScan(alertUC, cfg.Alerts.Interval); err != nil {
			log.Fatal().Err(err).Msg("planificador de alertas")
		}
	}
	// Con Redis puede haber varias réplicas: cada una relee las configuraciones guardadas
	if cfg.Redis.Enabled {
		if err := sched.AddConfigReload(configUC, cfg.Facility.ReloadInterval); err != nil {
			log.Fatal().Err(err).Msg("planificador de configuración")
		}
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Error().Err(err).Msg("detener planificador")
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facility Inventory API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Configs:       configUC,
		Products:      productUC,
		Batches:       batchUC,
		Distributions: distributionUC,
		Placements:    placementUC,
		Alerts:        alertUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
