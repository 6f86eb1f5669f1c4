package content

import (
	"github.com/foomo/cmsfront/pkg/xmlcontent"
)

type (
	// PagePayload page as delivered by the CMS page api
	PagePayload struct {
		Model         Model `json:"model"`
		ResourcesURLs any   `json:"resourcesUrls,omitempty"`
		NodesURLs     any   `json:"nodesUrls,omitempty"`
	}
	// Model root object and its node graph
	Model struct {
		Data     *Object  `json:"data"`
		Nodes    Nodes    `json:"nodes"`
		Children []string `json:"children,omitempty"`
	}
)

type (
	// PageContext view model handed to renderers. Page, Site and Preview are
	// shared by every context materialized from the same page and must not be
	// modified.
	PageContext struct {
		Object        ObjectContext    `json:"object"`
		LinkContext   *LinkContext     `json:"linkContext"`
		Page          *PageInfo        `json:"pageContext"`
		Site          *SiteContext     `json:"siteContext"`
		Preview       *PreviewData     `json:"previewData"`
		SearchResults *SearchResultSet `json:"searchResults,omitempty"`
		Error         Status           `json:"error,omitempty"`
	}
	// ObjectContext an object and its helper
	ObjectContext struct {
		Data   *Object `json:"data"`
		Helper *Helper `json:"helper"`
	}
	// LinkContext rendering hints passed from a container to a linked object
	LinkContext struct {
		LinkData       map[string]any `json:"linkData"`
		LinkTemplate   string         `json:"linkTemplate,omitempty"`
		TemplateSource TemplateSource `json:"templateSource,omitempty"`
	}
	// PageInfo page wide data
	PageInfo struct {
		URL           string   `json:"url"`
		Nodes         Nodes    `json:"nodes"`
		ResourcesURLs any      `json:"resourcesUrls,omitempty"`
		NodesURLs     any      `json:"nodesUrls,omitempty"`
		Children      []string `json:"children,omitempty"`
	}
	// SiteContext site wide data
	SiteContext struct {
		Site          string `json:"site"`
		SiteStructure Sites  `json:"siteStructure"`
	}
	// PreviewData credentials of a preview render
	PreviewData struct {
		PreviewToken   string `json:"previewToken"`
		JWE            string `json:"jwe"`
		BasePreviewURL string `json:"basePreviewUrl,omitempty"`
	}
)

// TemplateSource which step of the template cascade produced a link template
type TemplateSource string

const (
	TemplateSourceNone      TemplateSource = ""
	TemplateSourceLink      TemplateSource = "link"
	TemplateSourceContainer TemplateSource = "container"
	TemplateSourceDefault   TemplateSource = "default"
	TemplateSourceFixed     TemplateSource = "fixed"
	TemplateSourcePage      TemplateSource = "page"
)

// HelperKind discriminates helpers
type HelperKind string

const (
	// HelperKindPage zones of a container
	HelperKindPage HelperKind = "page"
	// HelperKindContent parsed content document
	HelperKindContent HelperKind = "content"
)

type (
	// Helper type specific view of an object
	Helper struct {
		Kind         HelperKind       `json:"kind"`
		PageTemplate string           `json:"pageTemplate,omitempty"`
		Zones        ZoneMap          `json:"zones,omitempty"`
		Content      *xmlcontent.Tree `json:"content,omitempty"`
	}
	// ZoneMap zones of a container in declaration order
	ZoneMap []*Zone
	// Zone a named slot and its linked objects
	Zone struct {
		Zone    string        `json:"zone"`
		Objects []*ZoneObject `json:"objects"`
	}
	// ZoneObject a link inside a zone
	ZoneObject struct {
		LinkData map[string]any `json:"linkData"`
		ObjectID string         `json:"objectId"`
	}
)

// Find returns the zone with the given name
func (z ZoneMap) Find(name string) *Zone {
	for _, zone := range z {
		if zone.Zone == name {
			return zone
		}
	}
	return nil
}

// Names zone names in order
func (z ZoneMap) Names() []string {
	names := make([]string, len(z))
	for i, zone := range z {
		names[i] = zone.Zone
	}
	return names
}

// ------------------------------------------------------------------------------------------------
// ~ PageContext getters
// ------------------------------------------------------------------------------------------------

// Data the object of the context, nil safe
func (c *PageContext) Data() *Object {
	if c == nil {
		return nil
	}
	return c.Object.Data
}

// Helper the helper of the context, nil safe
func (c *PageContext) Helper() *Helper {
	if c == nil {
		return nil
	}
	return c.Object.Helper
}

// BaseType base type of the object
func (c *PageContext) BaseType() BaseType {
	if data := c.Data(); data != nil {
		return data.Sys.BaseType
	}
	return ""
}

// Nodes node graph of the page
func (c *PageContext) Nodes() Nodes {
	if c == nil || c.Page == nil {
		return nil
	}
	return c.Page.Nodes
}

// URL url of the page
func (c *PageContext) URL() string {
	if c == nil || c.Page == nil {
		return ""
	}
	return c.Page.URL
}

// SiteName name of the site the page is rendered for
func (c *PageContext) SiteName() string {
	if c == nil || c.Site == nil {
		return ""
	}
	return c.Site.Site
}

// IsPreview is this a preview render
func (c *PageContext) IsPreview() bool {
	return c != nil && c.Preview != nil
}

// LinkTemplate resolved link template or ""
func (c *PageContext) LinkTemplate() string {
	if c == nil || c.LinkContext == nil {
		return ""
	}
	return c.LinkContext.LinkTemplate
}

// NewErrorPageContext a context carrying only an error
func NewErrorPageContext(status Status) *PageContext {
	return &PageContext{Error: status}
}
