package requests

import (
	"github.com/pkg/errors"
)

// Sort orders
const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// Page a page by url, as routed from /{site}/{variant}/{url}
type Page struct {
	// Hostname the site is served under
	Hostname string `json:"hostname"`
	Variant  string `json:"variant"`
	URL      string `json:"url"`
}

// Preview credentials handed out by the CMS preview
type Preview struct {
	JWE            string `json:"emk.jwe"`
	PreviewToken   string `json:"emk.previewToken"`
	Site           string `json:"emk.site"`
	ForeignID      string `json:"emk.foreignId"`
	PreviewSection string `json:"emk.previewSection"`
}

// Validate all fields but the preview section are required
func (p *Preview) Validate() error {
	switch {
	case p == nil:
		return errors.New("missing preview data")
	case p.JWE == "":
		return errors.New("missing emk.jwe")
	case p.PreviewToken == "":
		return errors.New("missing emk.previewToken")
	case p.Site == "":
		return errors.New("missing emk.site")
	case p.ForeignID == "":
		return errors.New("missing emk.foreignId")
	}
	return nil
}

// Search a CMS search
type Search struct {
	Site    string   `json:"site"`
	Sorting *Sorting `json:"sorting,omitempty"`
	Filters []Filter `json:"filters,omitempty"`
}

// Sorting sort parameter and order
type Sorting struct {
	Param string `json:"param"`
	Order string `json:"order"`
}

// Value encodes the sorting as the CMS expects it, e.g. "-sys.creationTime"
func (s *Sorting) Value() string {
	if s == nil || s.Param == "" {
		return ""
	}
	if s.Order == OrderDesc {
		return "-" + s.Param
	}
	return "+" + s.Param
}

// Filter a search filter
type Filter struct {
	Param string `json:"param"`
	Value string `json:"value"`
}
