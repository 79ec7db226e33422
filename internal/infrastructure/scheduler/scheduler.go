// Package scheduler ejecuta trabajos periódicos en segundo plano (gocron).
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/jhoicas/facility-inventory-api/pkg/logger"
)

const (
	alertsJobName = "inventory-alerts"
	reloadJobName = "facility-config-reload"
)

// AlertScanner escaneo de alertas de todas las instalaciones.
type AlertScanner interface {
	ScanAll(ctx context.Context) error
}

// ConfigRefresher recarga la configuración si cambió en el almacenamiento compartido.
type ConfigRefresher interface {
	Refresh(ctx context.Context) (bool, error)
}

// Scheduler agrupa los trabajos de fondo de la API.
type Scheduler struct {
	s   gocron.Scheduler
	log *logger.Logger
}

// New crea un scheduler sin trabajos.
func New(log *logger.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	return &Scheduler{s: s, log: log}, nil
}

// AddAlertScan registra el escaneo de alertas cada interval. La primera ejecución es inmediata.
func (s *Scheduler) AddAlertScan(scanner AlertScanner, interval time.Duration) error {
	return s.add(alertsJobName, interval, true, func(ctx context.Context) error {
		start := time.Now()
		if err := scanner.ScanAll(ctx); err != nil {
			return err
		}
		s.log.Debug().Str("job", alertsJobName).Dur("duration", time.Since(start)).Msg("escaneo de alertas completado")
		return nil
	})
}

// AddConfigReload registra la recarga periódica de configuraciones guardadas,
// para que cada réplica vea los cambios hechos en las demás.
func (s *Scheduler) AddConfigReload(refresher ConfigRefresher, interval time.Duration) error {
	return s.add(reloadJobName, interval, false, func(ctx context.Context) error {
		changed, err := refresher.Refresh(ctx)
		if err != nil {
			return err
		}
		if changed {
			s.log.Info().Str("job", reloadJobName).Msg("configuración actualizada desde almacenamiento compartido")
		}
		return nil
	})
}

func (s *Scheduler) add(name string, interval time.Duration, immediate bool, run func(ctx context.Context) error) error {
	if interval <= 0 {
		return fmt.Errorf("scheduler: intervalo inválido %s para %s", interval, name)
	}
	opts := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if immediate {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}
	_, err := s.s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			if err := run(ctx); err != nil {
				s.log.Error().Err(err).Str("job", name).Msg("trabajo programado falló")
			}
		}),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("scheduler: registrar %s: %w", name, err)
	}
	return nil
}

// Jobs cantidad de trabajos registrados.
func (s *Scheduler) Jobs() int {
	return len(s.s.Jobs())
}

// Start inicia los trabajos.
func (s *Scheduler) Start() {
	s.log.Info().Int("jobs", s.Jobs()).Msg("scheduler iniciado")
	s.s.Start()
}

// Stop detiene el scheduler esperando los trabajos en curso.
func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}
