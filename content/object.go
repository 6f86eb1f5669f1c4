package content

import (
	"bytes"

	"github.com/foomo/cmsfront/pkg/navigate"
	jsoniter "github.com/json-iterator/go"
)

// BaseType top level content kind of a CMS object
type BaseType string

const (
	BaseTypeWebPage         BaseType = "webpage"
	BaseTypeWebPageFragment BaseType = "webpagefragment"
	BaseTypeSection         BaseType = "section"
	BaseTypeSite            BaseType = "site"
	BaseTypeArticle         BaseType = "article"
	BaseTypeLiveblog        BaseType = "liveblog"
	BaseTypeQuery           BaseType = "query"
	BaseTypeWidget          BaseType = "widget"
	BaseTypeFeatured        BaseType = "featured"
	BaseTypeSegment         BaseType = "segment"
)

// BaseTypes all known base types
var BaseTypes = []BaseType{
	BaseTypeWebPage,
	BaseTypeWebPageFragment,
	BaseTypeSection,
	BaseTypeSite,
	BaseTypeArticle,
	BaseTypeLiveblog,
	BaseTypeQuery,
	BaseTypeWidget,
	BaseTypeFeatured,
	BaseTypeSegment,
}

// Known is the base type one of BaseTypes
func (b BaseType) Known() bool {
	for _, known := range BaseTypes {
		if b == known {
			return true
		}
	}
	return false
}

const (
	// LinkGroupPage link group holding zone links of pages and fragments
	LinkGroupPage = "pagelink"
	// AttributeSecondarySections publication sections of an object
	AttributeSecondarySections = "secondary_sections"
	// TypeNewsletter sys.type of newsletters
	TypeNewsletter = "newsletter"
)

type (
	// Object an entity of the CMS graph
	Object struct {
		ID         string         `json:"id"`
		ForeignID  string         `json:"foreignId,omitempty"`
		Title      string         `json:"title,omitempty"`
		URL        string         `json:"url,omitempty"`
		Sys        Sys            `json:"sys"`
		PubInfo    *PubInfo       `json:"pubInfo,omitempty"`
		Attributes map[string]any `json:"attributes,omitempty"`
		Files      Files          `json:"files"`
		Links      Links          `json:"links,omitempty"`
		Children   []string       `json:"children,omitempty"`
		// Sections normalized publication sections, see AttributeSecondarySections
		Sections []SiteSection `json:"-"`
		raw      jsoniter.RawMessage
	}
	// Sys type information
	Sys struct {
		BaseType BaseType `json:"baseType"`
		Type     string   `json:"type,omitempty"`
	}
	// PubInfo publication info
	PubInfo struct {
		SectionPath string `json:"sectionPath"`
	}
	// SiteSection one publication of an object on a site
	SiteSection struct {
		SiteName    string `json:"siteName"`
		MainSection string `json:"mainSection,omitempty"`
	}
	// Files payloads attached to an object
	Files struct {
		Content   *ContentFile   `json:"content,omitempty"`
		Templates *TemplatesFile `json:"templates,omitempty"`
	}
	// ContentFile is either a page layout (containers) or an xml blob (content)
	ContentFile struct {
		Layout *Layout `json:"layout,omitempty"`
		XML    string  `json:"xml,omitempty"`
	}
	// Layout zone declaration of a container
	Layout struct {
		// Zones declared zone names in declaration order
		Zones        []string `json:"zones"`
		PageTemplate string   `json:"pageTemplate,omitempty"`
	}
	// TemplatesFile template sequences keyed by template name
	TemplatesFile struct {
		Data map[string]any `json:"data"`
	}
	// Links link group name => zone name => links
	Links map[string]map[string][]Link
	// Link a reference from a container to another node
	Link struct {
		TargetID string         `json:"targetId"`
		Metadata map[string]any `json:"metadata,omitempty"`
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Object
// ------------------------------------------------------------------------------------------------

func (o *Object) UnmarshalJSON(data []byte) error {
	type plain Object
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = Object(p)
	o.Sections = NormalizeSections(o.Attributes[AttributeSecondarySections])
	o.raw = append(jsoniter.RawMessage(nil), data...)
	return nil
}

// MarshalJSON hands out the payload as the CMS delivered it
func (o Object) MarshalJSON() ([]byte, error) {
	if len(o.raw) > 0 {
		return o.raw, nil
	}
	type plain Object
	return json.Marshal(plain(o))
}

// Attribute returns the attribute at path
func (o *Object) Attribute(path ...any) (any, bool) {
	if o == nil {
		return nil, false
	}
	return navigate.Get(o.Attributes, path...)
}

// PageLinks zone links of the pagelink group
func (o *Object) PageLinks() map[string][]Link {
	if o == nil || o.Links == nil {
		return nil
	}
	return o.Links[LinkGroupPage]
}

// Layout declared zones, nil for objects without a page layout
func (o *Object) Layout() *Layout {
	if o == nil || o.Files.Content == nil {
		return nil
	}
	return o.Files.Content.Layout
}

// ContentXML the xml content blob
func (o *Object) ContentXML() (string, bool) {
	if o == nil || o.Files.Content == nil || o.Files.Content.Layout != nil {
		return "", false
	}
	return o.Files.Content.XML, o.Files.Content.XML != ""
}

// ------------------------------------------------------------------------------------------------
// ~ Files
// ------------------------------------------------------------------------------------------------

// UnmarshalJSON accepts `{"data": "<xml/>"}` and `{"data": {"zones": ..., "pageTemplate": ...}}`.
// Any other shape leaves the file empty.
func (f *ContentFile) UnmarshalJSON(data []byte) error {
	var raw struct {
		Data jsoniter.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil //nolint:nilerr
	}
	trimmed := bytes.TrimSpace(raw.Data)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			f.XML = s
		}
	case '{':
		layout := &Layout{}
		if err := json.Unmarshal(trimmed, layout); err == nil {
			f.Layout = layout
		}
	}
	return nil
}

// UnmarshalJSON keeps the declaration order of zones, which may be given as an
// object (keys are zone names) or as a list of names.
func (l *Layout) UnmarshalJSON(data []byte) error {
	var raw struct {
		Zones        jsoniter.RawMessage `json:"zones"`
		PageTemplate string              `json:"pageTemplate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.PageTemplate = raw.PageTemplate
	l.Zones = orderedNames(raw.Zones)
	return nil
}

func orderedNames(data jsoniter.RawMessage) []string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '[':
		var names []string
		if err := json.Unmarshal(trimmed, &names); err != nil {
			return nil
		}
		return names
	case '{':
		var names []string
		iter := jsoniter.ParseBytes(json, trimmed)
		iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
			names = append(names, field)
			it.Skip()
			return true
		})
		if iter.Error != nil {
			return nil
		}
		return names
	}
	return nil
}

// ------------------------------------------------------------------------------------------------
// ~ Links
// ------------------------------------------------------------------------------------------------

// UnmarshalJSON drops link groups that are not shaped zone => links
func (l *Links) UnmarshalJSON(data []byte) error {
	var groups map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &groups); err != nil {
		*l = nil
		return nil //nolint:nilerr
	}
	links := make(Links, len(groups))
	for name, raw := range groups {
		var zones map[string][]Link
		if err := json.Unmarshal(raw, &zones); err != nil {
			continue
		}
		links[name] = zones
	}
	*l = links
	return nil
}

// Template display template requested by the link
func (l Link) Template() string {
	s, _ := navigate.String(l.Metadata, "template")
	return s
}

// Type link type discriminator, e.g. "widget"
func (l Link) Type() string {
	s, _ := navigate.String(l.Metadata, "type")
	return s
}

// Parameters link parameters
func (l Link) Parameters() map[string]any {
	m, _ := navigate.Map(l.Metadata, "parameters")
	return m
}

// ------------------------------------------------------------------------------------------------
// ~ Sections
// ------------------------------------------------------------------------------------------------

// NormalizeSections turns a single section record or a list of them into a list
func NormalizeSections(v any) []SiteSection {
	var records []any
	switch value := v.(type) {
	case map[string]any:
		records = []any{value}
	case []any:
		records = value
	default:
		return nil
	}
	sections := make([]SiteSection, 0, len(records))
	for _, record := range records {
		siteName, ok := navigate.String(record, "siteName")
		if !ok {
			continue
		}
		mainSection, _ := navigate.String(record, "mainSection")
		sections = append(sections, SiteSection{SiteName: siteName, MainSection: mainSection})
	}
	return sections
}
