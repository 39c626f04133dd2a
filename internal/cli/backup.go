package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewBackupCommand agrupa las operaciones de backup fuera del servidor.
func NewBackupCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Gestiona los backups del almacén",
	}

	cmd.AddCommand(newBackupDailyCommand(opts))
	cmd.AddCommand(newBackupPruneCommand(opts))
	cmd.AddCommand(newBackupListCommand(opts))

	return cmd
}

func newBackupDailyCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Crea el backup diario si todavía no existe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newBackupService(opts.Config, opts.Log)
			if err != nil {
				return err
			}
			created, err := svc.EnsureDaily(cmd.Context())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintln(cmd.OutOrStdout(), "Backup diario creado")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No se creó backup diario")
			}
			return nil
		},
	}
}

func newBackupPruneCommand(opts *RootOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Elimina los backups diarios más antiguos que --dias",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newBackupService(opts.Config, opts.Log)
			if err != nil {
				return err
			}
			removed, err := svc.Prune(cmd.Context(), days)
			if err != nil {
				return err
			}
			for _, name := range removed {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Se eliminaron %d backups\n", len(removed))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "dias", -1, "días de retención (0 borra todas las anteriores a hoy; negativo usa BACKUP_RETENTION_DAYS)")
	return cmd
}

func newBackupListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista los backups, el más reciente primero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newBackupService(opts.Config, opts.Log)
			if err != nil {
				return err
			}
			snapshots, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NOMBRE\tTIPO\tMB\tMODIFICADO")
			for _, s := range snapshots {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", s.Name, s.Kind, s.SizeMB, s.ModTime.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}
