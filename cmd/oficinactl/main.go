// oficinactl is the admin CLI: schema migration, first user, password
// hashes and dead letter inspection.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "oficinactl",
	Short:        "Ferramentas administrativas da Malut Oficina",
	SilenceUsage: true,
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
