// Package page resolves requests to page contexts and selects their views.
package page

import (
	"context"
	"strings"
	"time"

	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/cache"
	"github.com/foomo/cmsfront/pkg/cms"
	"github.com/foomo/cmsfront/pkg/metrics"
	"github.com/foomo/cmsfront/pkg/view"
	"github.com/foomo/cmsfront/pkg/widgets"
	"github.com/foomo/cmsfront/requests"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SeedLimit posts of a liveblog rendered with the page
const SeedLimit = 50

type (
	// Backend the CMS api
	Backend interface {
		Page(ctx context.Context, site, url string) (*content.PagePayload, error)
		PageByID(ctx context.Context, site, id string, foreignID bool) (*content.PagePayload, error)
		URLByID(ctx context.Context, site, id string, foreignID bool) (string, error)
		Preview(ctx context.Context, preview *requests.Preview) (*content.PagePayload, error)
		LiveblogPosts(ctx context.Context, site, id string, limit int) (*content.LiveblogPosts, error)
		Search(ctx context.Context, req *requests.Search) (*content.SearchResultSet, error)
	}
	// SiteStructure provides the site structure
	SiteStructure interface {
		Sites(ctx context.Context) (content.Sites, error)
	}
	// Semantic loads the data of the semantic search widget of a page
	Semantic interface {
		PageData(ctx context.Context, pc *content.PageContext) any
	}
	Service struct {
		l          *zap.Logger
		backend    Backend
		sites      SiteStructure
		shaper     *cms.Shaper
		cache      *cache.Service
		semantic   Semantic
		widgets    widgets.Config
		devMode    bool
		revalidate time.Duration
	}
	Option func(*Service)
)

// Response a page context and its view
type Response struct {
	RenderID           string                       `json:"renderId"`
	View               view.Selection               `json:"view"`
	Data               *content.PageContext         `json:"cmsData"`
	SemanticSearchData any                          `json:"semanticSearchData,omitempty"`
	Widgets            map[string]map[string]string `json:"widgets,omitempty"`
}

// NotFound the page could not be resolved
func (r *Response) NotFound() bool {
	return r == nil || r.View.Variant == view.VariantError
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithSemantic(v Semantic) Option {
	return func(o *Service) {
		o.semantic = v
	}
}

func WithWidgets(v widgets.Config) Option {
	return func(o *Service) {
		o.widgets = v
	}
}

// WithDevMode unknown hostnames are served by the main site
func WithDevMode(v bool) Option {
	return func(o *Service) {
		o.devMode = v
	}
}

// WithRevalidate time a rendered page is served before it is rendered again
func WithRevalidate(v time.Duration) Option {
	return func(o *Service) {
		o.revalidate = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, backend Backend, sites SiteStructure, shaper *cms.Shaper, cache *cache.Service, opts ...Option) *Service {
	inst := &Service{
		l:          l.Named("page"),
		backend:    backend,
		sites:      sites,
		shaper:     shaper,
		cache:      cache,
		widgets:    widgets.Defaults(),
		revalidate: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Render resolves the page at req.URL of the site served under req.Hostname.
// Rendered pages are cached for the revalidate period.
func (s *Service) Render(ctx context.Context, req *requests.Page) *Response {
	l := s.l.With(zap.String("hostname", req.Hostname), zap.String("variant", req.Variant), zap.String("url", req.URL))

	sites, err := s.sites.Sites(ctx)
	if err != nil {
		l.Error("failed to load site structure", zap.Error(err))
		return s.notFound()
	}
	site := cms.SiteNameByHostname(req.Hostname, sites, s.devMode)
	if site == "" {
		l.Info("no site for hostname")
		return s.notFound()
	}
	url := normalizeURL(req.URL)

	key := cacheKey(site, req.Variant, url)
	if resp, ok := cache.Get[*Response](s.cache, key); ok {
		return resp
	}

	resp := s.respond(ctx, s.pageContext(ctx, sites, site, url))
	if !resp.NotFound() {
		s.cache.Put(key, resp, s.revalidate)
	}
	l.Info("rendered page", zap.String("render_id", resp.RenderID), zap.String("view", string(resp.View.Variant)))
	return resp
}

// Context the page context of url on site, nil if it can not be resolved
func (s *Service) Context(ctx context.Context, site, url string) *content.PageContext {
	sites, err := s.sites.Sites(ctx)
	if err != nil {
		s.l.Error("failed to load site structure", zap.Error(err))
		return nil
	}
	if sites.ByName(site) == nil {
		return nil
	}
	return s.pageContext(ctx, sites, site, normalizeURL(url))
}

// PageByID renders a page by its id or foreign id
func (s *Service) PageByID(ctx context.Context, site, id string, foreignID bool) *Response {
	sites, err := s.sites.Sites(ctx)
	if err != nil {
		s.l.Error("failed to load site structure", zap.Error(err))
		return s.notFound()
	}
	url, err := s.backend.URLByID(ctx, site, id, foreignID)
	if err != nil {
		s.l.Warn("failed to resolve url", zap.String("id", id), zap.Error(err))
	}
	payload, err := s.backend.PageByID(ctx, site, id, foreignID)
	if err != nil {
		s.l.Warn("failed to load page", zap.String("id", id), zap.Error(err))
		return s.notFound()
	}
	return s.respond(ctx, s.shaper.BuildPageContext(payload, sites, site, url, nil))
}

// Preview renders the uncached preview of a page
func (s *Service) Preview(ctx context.Context, req *requests.Preview) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sites, err := s.sites.Sites(ctx)
	if err != nil {
		s.l.Error("failed to load site structure", zap.Error(err))
		return s.notFound(), nil
	}
	payload, err := s.backend.Preview(ctx, req)
	if err != nil {
		s.l.Warn("failed to load preview", zap.String("foreign_id", req.ForeignID), zap.Error(err))
		return s.notFound(), nil
	}
	preview := &content.PreviewData{
		PreviewToken: req.PreviewToken,
		JWE:          req.JWE,
	}
	return s.respond(ctx, s.shaper.BuildPageContext(payload, sites, req.Site, "", preview)), nil
}

// Search runs req and returns the hits as page contexts
func (s *Service) Search(ctx context.Context, req *requests.Search) ([]*content.PageContext, error) {
	sites, err := s.sites.Sites(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load site structure")
	}
	result, err := s.backend.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	pc := &content.PageContext{
		Page:          &content.PageInfo{},
		Site:          &content.SiteContext{Site: req.Site, SiteStructure: sites},
		SearchResults: result,
	}
	return s.shaper.SearchResultObjects(pc), nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (s *Service) pageContext(ctx context.Context, sites content.Sites, site, url string) *content.PageContext {
	payload, err := s.backend.Page(ctx, site, url)
	if err != nil {
		s.l.Warn("failed to load page", zap.String("site", site), zap.String("url", url), zap.Error(err))
		return nil
	}
	return s.shaper.BuildPageContext(payload, sites, site, url, nil)
}

// respond selects the view of pc and loads the data its view needs
func (s *Service) respond(ctx context.Context, pc *content.PageContext) *Response {
	if pc == nil {
		return s.notFound()
	}
	resp := &Response{
		RenderID: uuid.New().String(),
		View:     view.Select(pc),
		Data:     pc,
	}
	switch pc.BaseType() {
	case content.BaseTypeWebPage:
		if s.semantic != nil {
			resp.SemanticSearchData = s.semantic.PageData(ctx, pc)
		}
		resp.Widgets = s.widgetParameters(pc)
	case content.BaseTypeWebPageFragment:
		resp.Widgets = s.widgetParameters(pc)
	case content.BaseTypeLiveblog:
		posts, err := s.backend.LiveblogPosts(ctx, pc.SiteName(), pc.Data().ID, SeedLimit)
		if err != nil {
			s.l.Warn("failed to load liveblog posts", zap.String("id", pc.Data().ID), zap.Error(err))
		} else {
			resp.View.Seed = s.shapePosts(pc, posts)
		}
	}
	metrics.RenderCounter.WithLabelValues(string(resp.View.Variant)).Inc()
	return resp
}

func (s *Service) notFound() *Response {
	pc := content.NewErrorPageContext(content.ErrorNotFound)
	metrics.RenderCounter.WithLabelValues(string(view.VariantError)).Inc()
	return &Response{
		RenderID: uuid.New().String(),
		View:     view.Select(pc),
		Data:     pc,
	}
}

func (s *Service) widgetParameters(pc *content.PageContext) map[string]map[string]string {
	ret := map[string]map[string]string{}
	for _, obj := range s.shaper.LinkedObjects(pc, "") {
		if params := s.widgets.Parameters(obj); params != nil {
			ret[obj.Data().ID] = params
		}
	}
	if len(ret) == 0 {
		return nil
	}
	return ret
}

func cacheKey(site, variant, url string) string {
	return "page:" + site + ":" + variant + ":" + url
}

// normalizeURL routed urls come without a leading slash, the root as ""
func normalizeURL(url string) string {
	url = strings.Trim(url, content.PathSeparator)
	if url == "" {
		return content.PathSeparator
	}
	return url
}
