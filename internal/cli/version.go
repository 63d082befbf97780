package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/translation-desk/internal/app"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion())
		},
	}
}
