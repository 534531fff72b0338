// Comando contactsync: sincroniza contactos de Octadesk con el cadastro de clientes de Omie.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version se inyecta con -ldflags "-X main.Version=...".
var Version = "dev"

// errReported indica que el error ya quedó en el log y main solo debe salir con código 1.
var errReported = errors.New("error ya registrado")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	rootCmd := &cobra.Command{
		Use:           "contactsync",
		Short:         "Sincroniza contactos de Octadesk con clientes de Omie",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(syncCmd(v))
	rootCmd.AddCommand(serveCmd(v))
	rootCmd.AddCommand(tokenCmd(v))
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}
