package cms

import (
	"github.com/foomo/cmsfront/content"
	"go.uber.org/zap"
)

// BuildPageContext assembles the page context of a top level request. A
// missing payload or root object yields nil.
func (s *Shaper) BuildPageContext(payload *content.PagePayload, siteStructure content.Sites, site, url string, preview *content.PreviewData) *content.PageContext {
	if payload == nil || payload.Model.Data == nil {
		s.fallback(FallbackPagePayload, zap.String("site", site), zap.String("url", url))
		return nil
	}
	data := payload.Model.Data
	helper := s.GetHelper(data)

	var linkContext *content.LinkContext
	if preview != nil && data.Sys.BaseType == content.BaseTypeWebPageFragment && helper != nil {
		// a fragment preview has no parent link, so it renders with its own template
		linkContext = &content.LinkContext{
			LinkTemplate:   helper.PageTemplate,
			TemplateSource: content.TemplateSourcePage,
		}
	}

	if url == "" {
		url = data.URL
	}

	return &content.PageContext{
		Object: content.ObjectContext{
			Data:   data,
			Helper: helper,
		},
		LinkContext: linkContext,
		Page: &content.PageInfo{
			URL:           url,
			Nodes:         payload.Model.Nodes,
			ResourcesURLs: payload.ResourcesURLs,
			NodesURLs:     payload.NodesURLs,
			Children:      payload.Model.Children,
		},
		Site: &content.SiteContext{
			Site:          site,
			SiteStructure: siteStructure,
		},
		Preview: preview,
	}
}
