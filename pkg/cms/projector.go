package cms

import (
	"github.com/foomo/cmsfront/content"
	"go.uber.org/zap"
)

// LinkedObjects materializes the links of zone in link order. An empty zone
// name returns the objects of all zones in declaration order, an object linked
// from several zones is returned once per link.
func (s *Shaper) LinkedObjects(pc *content.PageContext, zone string) []*content.PageContext {
	if zone == "" {
		ret := []*content.PageContext{}
		if helper := pc.Helper(); helper != nil {
			for _, name := range helper.Zones.Names() {
				ret = append(ret, s.LinkedObjects(pc, name)...)
			}
		}
		return ret
	}
	return s.project("linked_objects", func() []*content.PageContext {
		helper := pc.Helper()
		if helper == nil {
			s.fallback(FallbackMissingHelper, objectField(pc.Data()), zap.String("zone", zone))
			return nil
		}
		z := helper.Zones.Find(zone)
		if z == nil {
			return nil
		}
		nodes := pc.Nodes()
		ret := make([]*content.PageContext, 0, len(z.Objects))
		for _, link := range z.Objects {
			target := nodes.Get(link.ObjectID)
			if target == nil {
				s.fallback(FallbackDanglingReference, zap.String("object_id", link.ObjectID), zap.String("zone", zone))
				continue
			}
			template, source := ResolveTemplate(pc, zone, link, target)
			ret = append(ret, s.Materialize(target, pc, &content.LinkContext{
				LinkData:       link.LinkData,
				LinkTemplate:   template,
				TemplateSource: source,
			}))
		}
		return ret
	})
}

// QueryResultObjects materializes the children of a query that are published on
// the current live site.
func (s *Shaper) QueryResultObjects(pc *content.PageContext) []*content.PageContext {
	return s.project("query_results", func() []*content.PageContext {
		data := pc.Data()
		if data == nil {
			return nil
		}
		site := CurrentLiveSite(pc)
		return s.materializeIDs(pc, data.Children, func(obj *content.Object) bool {
			return IsOnSite(obj, site)
		})
	})
}

// SearchResultObjects materializes search hits. Hits are already filtered by the
// search backend.
func (s *Shaper) SearchResultObjects(pc *content.PageContext) []*content.PageContext {
	return s.project("search_results", func() []*content.PageContext {
		if pc == nil || pc.SearchResults == nil {
			return nil
		}
		ret := make([]*content.PageContext, 0, len(pc.SearchResults.Result))
		for _, hit := range pc.SearchResults.Result {
			if hit == nil || hit.NodeData == nil {
				s.fallback(FallbackDanglingReference, zap.String("source", "search"))
				continue
			}
			ret = append(ret, s.Materialize(hit.NodeData, pc, listLinkContext()))
		}
		return ret
	})
}

// SectionChildrenObjects materializes the children of the page
func (s *Shaper) SectionChildrenObjects(pc *content.PageContext) []*content.PageContext {
	return s.project("section_children", func() []*content.PageContext {
		if pc == nil || pc.Page == nil {
			return nil
		}
		return s.materializeIDs(pc, pc.Page.Children, nil)
	})
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (s *Shaper) materializeIDs(pc *content.PageContext, ids []string, filter func(obj *content.Object) bool) []*content.PageContext {
	nodes := pc.Nodes()
	ret := make([]*content.PageContext, 0, len(ids))
	for _, id := range ids {
		obj := nodes.Get(id)
		if obj == nil {
			s.fallback(FallbackDanglingReference, zap.String("object_id", id))
			continue
		}
		if filter != nil && !filter(obj) {
			continue
		}
		ret = append(ret, s.Materialize(obj, pc, listLinkContext()))
	}
	return ret
}

// project runs fn and turns both nil results and panics into an empty slice
func (s *Shaper) project(name string, fn func() []*content.PageContext) (ret []*content.PageContext) {
	defer func() {
		if r := recover(); r != nil {
			s.l.Error("recovered from projection", zap.String("projection", name), zap.Any("panic", r))
			s.fallback(FallbackProjection, zap.String("projection", name))
			ret = []*content.PageContext{}
		}
	}()
	if ret = fn(); ret == nil {
		ret = []*content.PageContext{}
	}
	return ret
}
