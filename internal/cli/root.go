package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/davicafu/participantes/internal/config"
	"github.com/davicafu/participantes/pkg/logger"
)

// RootOptions guarda lo que comparten todos los subcomandos. Se rellena en
// PersistentPreRunE.
type RootOptions struct {
	Config *config.Config
	Log    *zap.Logger
}

// NewRootCommand crea el comando raíz de participantes.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "participantes",
		Short:         "Inscripción de participantes a eventos",
		Long:          "Servicio de inscripción con exportación a Excel, backups locales y sincronización con GitHub.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			opts.Config = cfg
			opts.Log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Log != nil {
				_ = opts.Log.Sync()
			}
		},
	}

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))

	return cmd
}
