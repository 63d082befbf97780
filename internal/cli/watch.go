package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/translation-desk/internal/domain"
	"github.com/heartmarshall/translation-desk/internal/store"
)

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <client-id>",
		Short: "Follow live material updates of a client",
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

			out := cmd.OutOrStdout()
			updates := make(chan struct{}, 1)
			unsubscribe := a.Store.Subscribe(func(store.State) {
				select {
				case updates <- struct{}{}:
				default:
				}
			})
			defer unsubscribe()

			a.Start(ctx)

			var (
				last    string
				lastSeq uint64
			)
			render := func() error {
				snap := a.Store.Snapshot()
				if n := snap.Notification; n != nil && snap.NotificationSeq != lastSeq {
					lastSeq = snap.NotificationSeq
					fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s %s\n", n.Type, n.Title, n.Message)
				}

				items := a.Store.Projection()
				if opts.JSON {
					var b strings.Builder
					if err := writeJSON(&b, rows(items)); err != nil {
						return err
					}
					if b.String() != last {
						last = b.String()
						fmt.Fprint(out, last)
					}
					return nil
				}

				var b strings.Builder
				if err := printItems(&b, items); err != nil {
					return err
				}
				if b.String() != last {
					last = b.String()
					fmt.Fprintf(out, "--- %s\n%s", clientLabel(snap.CurrentClient), last)
				}
				return nil
			}

			if err := render(); err != nil {
				return writeErr(cmd, err)
			}
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-updates:
					if err := render(); err != nil {
						return writeErr(cmd, err)
					}
				}
			}
		},
	}
}

func clientLabel(c *domain.Client) string {
	if c == nil {
		return "(no client)"
	}
	return c.Name
}
