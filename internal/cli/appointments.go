package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wolfman30/inkstudio-ai/internal/app/bootstrap"
)

func newAppointmentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appts"},
		Short:   "Work with booked appointments",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List appointments, latest date first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, closeRepo, err := bootstrap.BuildAppointmentRepository(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer closeRepo()

			appts, err := repo.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list appointments: %w", err)
			}
			if len(appts) == 0 {
				fmt.Fprintln(a.out, "No appointments found.")
				return nil
			}
			if limit > 0 && len(appts) > limit {
				appts = appts[:limit]
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tNAME\tCITY\tDESCRIPTION\tBOOKED AT")
			for _, appt := range appts {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					appt.ID, appt.AppointmentDate, appt.Username, appt.City, appt.Description, appt.CreatedAt)
			}
			return tw.Flush()
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 0, "max rows (0 = all)")

	cmd.AddCommand(list)
	return cmd
}
