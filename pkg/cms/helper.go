package cms

import (
	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/xmlcontent"
	"go.uber.org/zap"
)

// GetHelper returns the type specific view of obj. Containers get their zones,
// content objects their parsed content document, everything else nil.
func (s *Shaper) GetHelper(obj *content.Object) *content.Helper {
	if obj == nil {
		return nil
	}
	switch obj.Sys.BaseType {
	case content.BaseTypeWebPage, content.BaseTypeWebPageFragment:
		return s.pageHelper(obj)
	case content.BaseTypeArticle, content.BaseTypeLiveblog:
		return s.contentHelper(obj)
	case content.BaseTypeSection,
		content.BaseTypeSite,
		content.BaseTypeQuery,
		content.BaseTypeWidget,
		content.BaseTypeFeatured,
		content.BaseTypeSegment:
		return nil
	default:
		return nil
	}
}

// GetLiveblogPostHelper parses the content of a liveblog post. Posts are
// delivered by the liveblog api and carry no base type of their own.
func (s *Shaper) GetLiveblogPostHelper(post *content.Object) *content.Helper {
	if post == nil {
		return nil
	}
	return s.contentHelper(post)
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (s *Shaper) pageHelper(obj *content.Object) *content.Helper {
	helper := &content.Helper{
		Kind:  content.HelperKindPage,
		Zones: s.ResolveZones(obj),
	}
	if layout := obj.Layout(); layout != nil {
		helper.PageTemplate = layout.PageTemplate
	}
	return helper
}

func (s *Shaper) contentHelper(obj *content.Object) *content.Helper {
	helper := &content.Helper{
		Kind: content.HelperKindContent,
	}
	data, ok := obj.ContentXML()
	if !ok {
		s.fallback(FallbackContentParse, objectField(obj), zap.String("reason", "no xml content"))
		return helper
	}
	tree, err := xmlcontent.Parse(data)
	if err != nil {
		s.l.Warn("failed to parse object xml", objectField(obj), zap.Error(err))
		s.fallback(FallbackContentParse, objectField(obj))
		return helper
	}
	helper.Content = tree
	return helper
}
