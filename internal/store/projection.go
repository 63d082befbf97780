package store

import (
	"cmp"
	"regexp"
	"slices"

	"github.com/heartmarshall/translation-desk/internal/domain"
)

var pageSuffix = regexp.MustCompile(`\s*-\s*第\d+页$`)

// SessionName strips the " - 第N页" page suffix from a page name.
func SessionName(pageName string) string {
	return pageSuffix.ReplaceAllString(pageName, "")
}

// ProjectPDFSessions groups pages sharing a PDF session ID into one logical
// document. Sessions come first, then standalone materials, each in
// first-seen order. The input is not modified.
func ProjectPDFSessions(materials []domain.Material) []domain.ProjectedItem {
	var (
		order      []string
		pages      = make(map[string][]domain.Material)
		standalone []domain.Material
	)
	for _, m := range materials {
		if !m.InPDFSession() {
			standalone = append(standalone, m)
			continue
		}
		if _, seen := pages[m.PDFSessionID]; !seen {
			order = append(order, m.PDFSessionID)
		}
		pages[m.PDFSessionID] = append(pages[m.PDFSessionID], m)
	}

	items := make([]domain.ProjectedItem, 0, len(order)+len(standalone))
	for _, id := range order {
		group := pages[id]
		if len(group) == 0 {
			continue
		}
		items = append(items, domain.ProjectedItem{Session: buildSession(id, group)})
	}
	for i := range standalone {
		m := standalone[i]
		items = append(items, domain.ProjectedItem{Material: &m})
	}
	return items
}

func buildSession(id string, group []domain.Material) *domain.PDFSession {
	first := group[0]
	s := &domain.PDFSession{
		ID:                  id,
		ClientID:            first.ClientID,
		Name:                SessionName(first.Name),
		Status:              aggregateStatus(group),
		TranslatedImagePath: first.TranslatedImagePath,
		Pages:               group,
	}
	for _, p := range group {
		if p.PDFTotalPages > 0 {
			s.PDFTotalPages = p.PDFTotalPages
			break
		}
	}
	for _, p := range group {
		if p.TranslatedImagePath != "" {
			s.TranslatedImagePath = p.TranslatedImagePath
			break
		}
	}
	return s
}

// aggregateStatus evaluates the session status rules in order; the first
// match wins.
func aggregateStatus(pages []domain.Material) domain.MaterialStatus {
	switch {
	case allPages(pages, func(m domain.Material) bool {
		return m.Confirmed || m.Status == domain.StatusConfirmed
	}):
		return domain.StatusConfirmed
	case allPages(pages, func(m domain.Material) bool { return m.Status.IsTranslated() }):
		return domain.StatusTranslated
	case slices.ContainsFunc(pages, func(m domain.Material) bool { return m.Status.IsProcessing() }):
		return domain.StatusProcessing
	case slices.ContainsFunc(pages, func(m domain.Material) bool { return m.Status == domain.StatusFailed }):
		return domain.StatusPartiallyFailed
	}
	return pages[0].Status
}

func allPages(pages []domain.Material, pred func(domain.Material) bool) bool {
	for _, p := range pages {
		if !pred(p) {
			return false
		}
	}
	return true
}

// SessionPages returns the pages of sessionID ordered by page number.
func SessionPages(materials []domain.Material, sessionID string) []domain.Material {
	var pages []domain.Material
	for _, m := range materials {
		if sessionID != "" && m.PDFSessionID == sessionID {
			pages = append(pages, m)
		}
	}
	slices.SortStableFunc(pages, func(a, b domain.Material) int {
		return cmp.Compare(a.PDFPageNumber, b.PDFPageNumber)
	})
	return pages
}

// ConfirmableCount counts materials with a translation that has not been
// confirmed yet.
func ConfirmableCount(materials []domain.Material) int {
	n := 0
	for _, m := range materials {
		if !m.Confirmed && m.Status.IsTranslated() && m.Status != domain.StatusConfirmed {
			n++
		}
	}
	return n
}
