package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	httpRouter "github.com/jhoicas/contact-sync/internal/interfaces/http"
)

func serveCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expone la API HTTP para disparar y consultar corridas",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(v)
			if err != nil {
				return err
			}
			if err := rt.cfg.ValidateServe(); err != nil {
				return err
			}
			log := rt.log

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			uc, closeFn, err := rt.buildUseCase(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			app := fiber.New(fiber.Config{
				AppName:     rt.cfg.App.Name,
				ReadTimeout: 10 * time.Second,
				// POST /api/sync/runs responde al terminar la corrida
				WriteTimeout: 10 * time.Minute,
				IdleTimeout:  60 * time.Second,
			})
			app.Use(recover.New())

			httpRouter.Router(app, httpRouter.RouterDeps{
				Sync:      httpRouter.NewSyncHandler(uc, rt.cfg.Sync.DryRun, log),
				JWTSecret: rt.cfg.JWT.Secret,
				JWTIssuer: rt.cfg.JWT.Issuer,
			})

			listenErr := make(chan error, 1)
			go func() {
				log.Info().Str("addr", rt.cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
				listenErr <- app.Listen(rt.cfg.HTTP.Addr())
			}()

			select {
			case err := <-listenErr:
				log.Error().Err(err).Msg("servidor HTTP finalizado")
				return errReported
			case <-ctx.Done():
			}

			log.Info().Msg("señal de apagado recibida, cerrando servidor...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("apagado del servidor")
			}

			log.Info().Msg("aplicación detenida")
			return nil
		},
	}

	cmd.Flags().Int("port", 0, "puerto HTTP (por defecto HTTP_PORT o 8080)")
	_ = v.BindPFlag("HTTP_PORT", cmd.Flags().Lookup("port"))

	return cmd
}
