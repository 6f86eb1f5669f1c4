package cms

import (
	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/navigate"
	"go.uber.org/zap"
)

// DefaultTemplates link templates by sys.type of the linked object, used when
// neither the link nor the container template names one
var DefaultTemplates = map[string]string{
	"featured": "featured_standard",
	"segment":  "section_teaser",
	"article":  "head-pic",
}

// ResolveZones returns the declared zones of a container that carry links, in
// declaration order. Link groups for undeclared zones are ignored.
func (s *Shaper) ResolveZones(obj *content.Object) content.ZoneMap {
	layout := obj.Layout()
	if layout == nil {
		s.fallback(FallbackZonesShape, objectField(obj))
		return content.ZoneMap{}
	}
	pageLinks := obj.PageLinks()
	zones := make(content.ZoneMap, 0, len(layout.Zones))
	for _, name := range layout.Zones {
		links := pageLinks[name]
		if len(links) == 0 {
			continue
		}
		zone := &content.Zone{
			Zone:    name,
			Objects: make([]*content.ZoneObject, len(links)),
		}
		for i, link := range links {
			zone.Objects[i] = &content.ZoneObject{
				LinkData: link.Metadata,
				ObjectID: link.TargetID,
			}
		}
		zones = append(zones, zone)
	}
	return zones
}

// ResolveTemplate returns the display template of target when linked from
// container in zone, and the step that produced it:
//
//	link      - the template named in the link metadata
//	container - files.templates of the container for its own link template
//	default   - DefaultTemplates by the type of target
//	none      - no template
func ResolveTemplate(container *content.PageContext, zone string, link *content.ZoneObject, target *content.Object) (string, content.TemplateSource) {
	if link != nil {
		if template, ok := navigate.String(link.LinkData, "template"); ok && template != "" {
			return template, content.TemplateSourceLink
		}
	}
	if data := container.Data(); data != nil && data.Files.Templates != nil {
		if linkTemplate := container.LinkTemplate(); linkTemplate != "" {
			template, ok := navigate.String(data.Files.Templates.Data, linkTemplate, "zones", zone, "sequences", 0, "styleSheet")
			if ok && template != "" {
				return template, content.TemplateSourceContainer
			}
		}
	}
	if target != nil {
		if template, ok := DefaultTemplates[target.Sys.Type]; ok {
			return template, content.TemplateSourceDefault
		}
	}
	return "", content.TemplateSourceNone
}

func objectField(obj *content.Object) zap.Field {
	if obj == nil {
		return zap.Skip()
	}
	return zap.String("object_id", obj.ID)
}
