package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/translation-desk/internal/domain"
)

func newTranslateCmd(opts *options) *cobra.Command {
	var ids []string

	cmd := &cobra.Command{
		Use:   "translate <client-id>",
		Short: "Translate a client's untranslated materials and wait for the results",
		Args:  cobra.ExactArgs(1),
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

			if len(ids) == 0 {
				ids = untranslated(a.Store.Snapshot().Materials)
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to translate")
				return nil
			}

			if err := a.Uploads.StartTranslation(ctx, args[0], ids); err != nil {
				return writeErr(cmd, err)
			}
			a.Uploads.Wait()

			if n := a.Store.Snapshot().Notification; n != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", n.Title, n.Message)
			}
			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), rows(a.Store.Projection()))
			}
			return printItems(cmd.OutOrStdout(), a.Store.Projection())
		},
	}
	cmd.Flags().StringSliceVar(&ids, "id", nil, "Material id to translate (repeatable; default: all untranslated)")
	return cmd
}

func untranslated(ms []domain.Material) []string {
	var ids []string
	for _, m := range ms {
		if m.Status == domain.StatusUploaded || m.Status == domain.StatusAdded {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
