package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jhoicas/contact-sync/internal/application/contactsync"
	"github.com/jhoicas/contact-sync/internal/application/dto"
)

func syncCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Ejecuta una pasada Octadesk → Omie e imprime el reporte en JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(v)
			if err != nil {
				return err
			}
			if err := rt.cfg.ValidateSync(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			uc, closeFn, err := rt.buildUseCase(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			return runSync(ctx, uc, rt.cfg.Sync.DryRun, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Bool("dry-run", false, "calcula el merge sin escribir en Omie")
	cmd.Flags().Bool("skip-unchanged", false, "no llama AlterarCliente si el merge no cambió nada")
	cmd.Flags().Bool("strict-tax-id", false, "valida también los dígitos verificadores de CPF/CNPJ")
	_ = v.BindPFlag("SYNC_DRY_RUN", cmd.Flags().Lookup("dry-run"))
	_ = v.BindPFlag("SYNC_SKIP_UNCHANGED", cmd.Flags().Lookup("skip-unchanged"))
	_ = v.BindPFlag("SYNC_STRICT_TAX_ID", cmd.Flags().Lookup("strict-tax-id"))

	return cmd
}

type syncRunner interface {
	Run(ctx context.Context, opts contactsync.RunOptions) (*dto.SyncReport, error)
}

// runSync ejecuta la corrida e imprime el reporte (también el parcial si falló).
// El caso de uso ya registró el error, por eso se devuelve errReported.
func runSync(ctx context.Context, uc syncRunner, dryRun bool, out io.Writer) error {
	report, runErr := uc.Run(ctx, contactsync.RunOptions{DryRun: dryRun})
	if report != nil {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	}
	if runErr != nil {
		if report == nil {
			return runErr
		}
		return errReported
	}
	return nil
}
