package cms

import (
	"github.com/foomo/cmsfront/content"
	"go.uber.org/zap"
)

// Materialize returns the page context of a nested object. Page, site and
// preview data are shared with parent, not copied.
func (s *Shaper) Materialize(obj *content.Object, parent *content.PageContext, linkContext *content.LinkContext) *content.PageContext {
	if obj == nil {
		return nil
	}
	pc := &content.PageContext{
		Object: content.ObjectContext{
			Data:   obj,
			Helper: s.GetHelper(obj),
		},
		LinkContext: linkContext,
	}
	if parent != nil {
		pc.Page = parent.Page
		pc.Site = parent.Site
		pc.Preview = parent.Preview
	}
	return pc
}

// MaterializeID looks up id in the node graph of parent. Dangling ids yield nil.
func (s *Shaper) MaterializeID(id string, parent *content.PageContext, linkContext *content.LinkContext) *content.PageContext {
	obj := parent.Nodes().Get(id)
	if obj == nil {
		s.fallback(FallbackDanglingReference, zap.String("object_id", id))
		return nil
	}
	return s.Materialize(obj, parent, linkContext)
}
