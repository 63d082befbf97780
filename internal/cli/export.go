package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export <client-id> <out.zip>",
		Short: "Download the export archive of a client",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openSession(ctx, opts)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer a.Close()

			if _, err := a.Workspace.LoadClients(ctx, false); err != nil {
				return writeErr(cmd, err)
			}
			if err := a.Workspace.SelectClient(ctx, args[0]); err != nil {
				return writeErr(cmd, err)
			}

			f, err := os.Create(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			n, err := a.Workspace.Export(ctx, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(args[1])
				return writeErr(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", n, args[1])
			return nil
		},
	}
}
