package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newClientsCmd(opts *options) *cobra.Command {
	var archived bool

	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openSession(cmd.Context(), opts)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer a.Close()

			clients, err := a.Workspace.LoadClients(cmd.Context(), archived)
			if err != nil {
				return writeErr(cmd, err)
			}
			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), clients)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCASE\tDATE\tARCHIVED")
			for _, c := range clients {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", c.ID, c.Name, c.CaseType, c.CaseDate, c.Archived)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&archived, "archived", false, "Include archived clients")
	return cmd
}
