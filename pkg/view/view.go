// Package view decides which top level view renders a page context.
package view

import (
	"unicode"
	"unicode/utf8"

	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/cms"
	"github.com/foomo/cmsfront/pkg/navigate"
)

// Variant top level view
type Variant string

const (
	VariantSimpleHomepage       Variant = "simple-homepage"
	VariantSemiAutomaticSection Variant = "semi-automatic-section"
	VariantLanding              Variant = "landing"
	VariantSegment              Variant = "segment"
	VariantSection              Variant = "section"
	VariantNone                 Variant = "none"
	VariantLiveblog             Variant = "liveblog"
	VariantArticle              Variant = "article"
	VariantNewsletter           Variant = "newsletter"
	VariantError                Variant = "error"
)

// GenreSimpleHomepage classification genre of simple homepages
const GenreSimpleHomepage = "simplehp"

// Selection the view of a page and how it is framed
type Selection struct {
	Variant Variant `json:"variant"`
	// Layout wrap the view in the standard layout shell
	Layout bool `json:"layout"`
	// Meta render the meta header
	Meta      bool   `json:"meta"`
	PageTitle string `json:"pageTitle,omitempty"`
	// Seed latest posts of a liveblog for the first paint
	Seed []*cms.LiveblogPost `json:"seed,omitempty"`
}

// Select returns the selection for pc. Contexts carrying an error select the
// error view, previews may override the variant and framing.
func Select(pc *content.PageContext) Selection {
	if pc == nil || pc.Error != content.StatusOk || pc.Data() == nil {
		return Selection{Variant: VariantError}
	}
	selection := Selection{
		Variant:   SelectVariant(pc),
		PageTitle: PageTitle(pc),
	}
	if pc.IsPreview() {
		switch {
		case pc.Data().Sys.Type == content.TypeNewsletter:
			selection.Variant = VariantNewsletter
		case pc.BaseType() != content.BaseTypeWebPageFragment:
			selection.Layout = true
		}
		return selection
	}
	selection.Layout = true
	selection.Meta = true
	return selection
}

// SelectVariant maps the base type of pc to a variant. Unknown base types
// render as articles.
func SelectVariant(pc *content.PageContext) Variant {
	switch pc.BaseType() {
	case content.BaseTypeWebPage:
		switch {
		case IsSimpleHomepage(pc.Data()):
			return VariantSimpleHomepage
		case IsSectionPage(pc.Data()):
			return VariantSemiAutomaticSection
		default:
			return VariantLanding
		}
	case content.BaseTypeWebPageFragment:
		return VariantSegment
	case content.BaseTypeSection:
		return VariantSection
	case content.BaseTypeSite:
		return VariantNone
	case content.BaseTypeLiveblog:
		return VariantLiveblog
	case content.BaseTypeArticle,
		content.BaseTypeQuery,
		content.BaseTypeWidget,
		content.BaseTypeFeatured,
		content.BaseTypeSegment:
		return VariantArticle
	default:
		return VariantArticle
	}
}

// IsSimpleHomepage is the simplehp genre among the classification genres
func IsSimpleHomepage(obj *content.Object) bool {
	if obj == nil {
		return false
	}
	return navigate.Contains(obj.Attributes, GenreSimpleHomepage, "classification", "genres")
}

// IsSectionPage is the page published below the site root
func IsSectionPage(obj *content.Object) bool {
	return obj != nil && obj.PubInfo != nil && obj.PubInfo.SectionPath != content.PathSeparator
}

// PageTitle the url with an upper case first letter. The site root and
// previews have no title.
func PageTitle(pc *content.PageContext) string {
	url := pc.URL()
	if url == "" || url == content.PathSeparator || pc.IsPreview() {
		return ""
	}
	r, size := utf8.DecodeRuneInString(url)
	return string(unicode.ToUpper(r)) + url[size:]
}
