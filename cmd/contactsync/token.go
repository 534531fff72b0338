package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jhoicas/contact-sync/pkg/jwt"
)

func tokenCmd(v *viper.Viper) *cobra.Command {
	var (
		subject    string
		role       string
		ttlMinutes int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT para la API de sincronización",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(v)
			if err != nil {
				return err
			}
			if ttlMinutes <= 0 {
				ttlMinutes = rt.cfg.JWT.Expiration
			}
			token, err := jwt.Generate(rt.cfg.JWT.Secret, subject, role, rt.cfg.JWT.Issuer, time.Duration(ttlMinutes)*time.Minute)
			if err != nil {
				return fmt.Errorf("generar token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "quién usará el token (obligatorio)")
	cmd.Flags().StringVar(&role, "role", jwt.RoleAdmin, "rol incluido en el token")
	cmd.Flags().IntVar(&ttlMinutes, "ttl-minutes", 0, "vigencia en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
