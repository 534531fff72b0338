package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/jhoicas/contact-sync/internal/application/contactsync"
	"github.com/jhoicas/contact-sync/internal/domain/repository"
	"github.com/jhoicas/contact-sync/internal/infrastructure/octadesk"
	"github.com/jhoicas/contact-sync/internal/infrastructure/omie"
	"github.com/jhoicas/contact-sync/internal/infrastructure/postgres"
	"github.com/jhoicas/contact-sync/pkg/config"
	"github.com/jhoicas/contact-sync/pkg/logger"
)

// runtime configuración y logger compartidos por los subcomandos.
type runtime struct {
	cfg *config.Config
	log zerolog.Logger
}

func newRuntime(v *viper.Viper) (*runtime, error) {
	cfg, err := config.LoadWith(v)
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	l := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	return &runtime{cfg: cfg, log: l.Zerolog()}, nil
}

// buildUseCase arma el caso de uso con sus adaptadores. Si hay base configurada abre el pool,
// aplica migraciones y habilita la auditoría; close libera el pool.
func (rt *runtime) buildUseCase(ctx context.Context) (uc *contactsync.SyncUseCase, closeFn func(), err error) {
	cfg := rt.cfg
	closeFn = func() {}

	source := octadesk.NewClient(cfg.Octadesk.APIURL, cfg.Octadesk.APIKey, cfg.Sync.HTTPTimeout)
	ledger := omie.NewClient(cfg.Omie.APIURL, cfg.Omie.AppKey, cfg.Omie.AppSecret, cfg.Sync.HTTPTimeout)

	var runs repository.SyncRunRepository
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migraciones: %w", err)
		}
		runs = postgres.NewSyncRunRepository(pool)
		closeFn = pool.Close
		rt.log.Info().Msg("auditoría de corridas habilitada")
	}

	reconciler := contactsync.NewReconciler(ledger, contactsync.ReconcilerConfig{
		IntegrationPrefix: cfg.Sync.IntegrationPrefix,
		SkipUnchanged:     cfg.Sync.SkipUnchanged,
	}, rt.log)
	uc = contactsync.NewSyncUseCase(source, contactsync.NewValidator(cfg.Sync.StrictTaxID), reconciler, runs, rt.log)
	return uc, closeFn, nil
}
