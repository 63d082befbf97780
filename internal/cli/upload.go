package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/translation-desk/internal/app"
	"github.com/heartmarshall/translation-desk/internal/domain"
	"github.com/heartmarshall/translation-desk/internal/service/upload"
)

func newUploadCmd(opts *options) *cobra.Command {
	var (
		urls      []string
		translate bool
	)

	cmd := &cobra.Command{
		Use:   "upload <client-id> [files...]",
		Short: "Upload files or register webpages for a client",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID, paths := args[0], args[1:]
			if len(paths) == 0 && len(urls) == 0 {
				return writeErr(cmd, errors.New("nothing to upload: pass files or --url"))
			}

			ctx := cmd.Context()
			a, err := openSession(ctx, opts)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer a.Close()

			if _, err := a.Workspace.LoadClients(ctx, false); err != nil {
				return writeErr(cmd, err)
			}
			if err := a.Workspace.SelectClient(ctx, clientID); err != nil {
				return writeErr(cmd, err)
			}

			if len(paths) > 0 {
				files := make([]upload.FileInput, 0, len(paths))
				for _, p := range paths {
					f, err := os.Open(p)
					if err != nil {
						return writeErr(cmd, err)
					}
					defer f.Close()
					files = append(files, upload.FileInput{Name: filepath.Base(p), Content: f})
				}
				if err := a.Uploads.UploadFiles(ctx, clientID, files); err != nil {
					return writeErr(cmd, err)
				}
				if err := finishBatch(cmd, a, translate); err != nil {
					return writeErr(cmd, err)
				}
			}

			if len(urls) > 0 {
				if err := a.Uploads.AddURLs(ctx, clientID, urls); err != nil {
					return writeErr(cmd, err)
				}
				if err := finishBatch(cmd, a, translate); err != nil {
					return writeErr(cmd, err)
				}
			}

			if translate {
				a.Uploads.Wait()
			}
			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), rows(a.Store.Projection()))
			}
			return printItems(cmd.OutOrStdout(), a.Store.Projection())
		},
	}
	cmd.Flags().StringSliceVar(&urls, "url", nil, "Webpage URL to register (repeatable)")
	cmd.Flags().BoolVar(&translate, "translate", false, "Start translation of the uploaded items and wait for it")
	return cmd
}

// finishBatch reports the closed batch and either hands it to translation
// or dismisses it so the next batch can open.
func finishBatch(cmd *cobra.Command, a *app.App, translate bool) error {
	status := a.Store.Snapshot().Upload
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", status.Phase, status.Message)

	if translate && status.Phase == domain.UploadComplete {
		return a.Uploads.FinishAndTranslate(cmd.Context())
	}
	a.Uploads.Dismiss()
	return nil
}
