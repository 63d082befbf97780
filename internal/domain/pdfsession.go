package domain

// PDFSession is the logical document built from the pages sharing a
// PDFSessionID. It is derived on read and never stored.
type PDFSession struct {
	ID                  string
	ClientID            string
	Name                string
	Status              MaterialStatus
	PDFTotalPages       int
	TranslatedImagePath string
	Pages               []Material
}

// PageCount returns the number of pages currently known for the session.
func (s PDFSession) PageCount() int { return len(s.Pages) }

// ProjectedItem is one top-level row of the material list: either a
// PDF session or a standalone material. Exactly one field is set.
type ProjectedItem struct {
	Session  *PDFSession
	Material *Material
}

// ID returns the session id or material id of the row.
func (p ProjectedItem) ID() string {
	if p.Session != nil {
		return p.Session.ID
	}
	if p.Material != nil {
		return p.Material.ID
	}
	return ""
}

// Status returns the aggregated or raw status of the row.
func (p ProjectedItem) Status() MaterialStatus {
	if p.Session != nil {
		return p.Session.Status
	}
	if p.Material != nil {
		return p.Material.Status
	}
	return ""
}
