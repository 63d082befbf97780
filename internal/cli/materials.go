package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/heartmarshall/translation-desk/internal/domain"
)

// itemRow is the printable form of one projected row.
type itemRow struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Status    domain.MaterialStatus `json:"status"`
	Pages     int                   `json:"pages,omitempty"`
	Confirmed bool                  `json:"confirmed"`
}

func rows(items []domain.ProjectedItem) []itemRow {
	out := make([]itemRow, 0, len(items))
	for _, it := range items {
		switch {
		case it.Session != nil:
			confirmed := len(it.Session.Pages) > 0
			for _, p := range it.Session.Pages {
				confirmed = confirmed && p.Confirmed
			}
			out = append(out, itemRow{
				ID:        it.Session.ID,
				Name:      it.Session.Name,
				Status:    it.Session.Status,
				Pages:     it.Session.PageCount(),
				Confirmed: confirmed,
			})
		case it.Material != nil:
			out = append(out, itemRow{
				ID:        it.Material.ID,
				Name:      it.Material.Name,
				Status:    it.Material.Status,
				Confirmed: it.Material.Confirmed,
			})
		}
	}
	return out
}

func printItems(w io.Writer, items []domain.ProjectedItem) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tPAGES\tCONFIRMED")
	for _, r := range rows(items) {
		pages := "-"
		if r.Pages > 0 {
			pages = fmt.Sprint(r.Pages)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", r.ID, r.Name, r.Status, pages, r.Confirmed)
	}
	return tw.Flush()
}
