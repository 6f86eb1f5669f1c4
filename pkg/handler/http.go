package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/analytics"
	"github.com/foomo/cmsfront/pkg/cms"
	"github.com/foomo/cmsfront/pkg/cmsapi"
	"github.com/foomo/cmsfront/pkg/metrics"
	"github.com/foomo/cmsfront/pkg/page"
	"github.com/foomo/cmsfront/requests"
	"github.com/foomo/cmsfront/responses"
	httputils "github.com/foomo/keel/utils/net/http"
	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	// Pages renders pages
	Pages interface {
		Render(ctx context.Context, req *requests.Page) *page.Response
		Preview(ctx context.Context, req *requests.Preview) (*page.Response, error)
		PageByID(ctx context.Context, site, id string, foreignID bool) *page.Response
		Context(ctx context.Context, site, url string) *content.PageContext
		LiveblogPosts(ctx context.Context, site, id string, limit int) (*page.LiveblogPosts, error)
		Search(ctx context.Context, req *requests.Search) ([]*content.PageContext, error)
	}
	// Polls loads poll details
	Polls interface {
		PollDetails(ctx context.Context, site, id string) (any, error)
	}
	// Analytics reports page views
	Analytics interface {
		Report(ctx context.Context, pc *content.PageContext) (*analytics.Report, error)
	}
	// SiteStructure the site structure repo
	SiteStructure interface {
		Sites(ctx context.Context) (content.Sites, error)
		Update(ctx context.Context) *responses.Update
	}
	HTTP struct {
		l         *zap.Logger
		router    chi.Router
		pages     Pages
		polls     Polls
		analytics Analytics
		sites     SiteStructure
	}
	HTTPOption func(*HTTP)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTP returns the http api of the front end
func NewHTTP(l *zap.Logger, pages Pages, sites SiteStructure, opts ...HTTPOption) http.Handler {
	inst := &HTTP{
		l:     l.Named("http"),
		pages: pages,
		sites: sites,
	}

	for _, opt := range opts {
		opt(inst)
	}

	r := chi.NewRouter()
	r.Get("/preview", inst.handle(RoutePreview, inst.preview))
	r.Route("/api", func(r chi.Router) {
		r.Get("/paths", inst.handle(RoutePaths, inst.paths))
		r.Post("/update", inst.handle(RouteUpdate, inst.update))
		r.Get("/{site}/pages/{id}", inst.handle(RoutePageByID, inst.pageByID))
		r.Get("/{site}/liveblogs/{id}", inst.handle(RouteLiveblog, inst.liveblog))
		r.Get("/{site}/polls/details/{id}", inst.handle(RoutePoll, inst.poll))
		r.Get("/{site}/analytics/*", inst.handle(RouteAnalytics, inst.analyticsReport))
		r.Get("/{site}/search", inst.handle(RouteSearch, inst.search))
	})
	r.Get("/{site}/{variant}/*", inst.handle(RoutePage, inst.page))
	r.Get("/{site}/{variant}", inst.handle(RoutePage, inst.page))
	inst.router = r

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithPolls(v Polls) HTTPOption {
	return func(o *HTTP) {
		o.polls = v
	}
}

func WithAnalytics(v Analytics) HTTPOption {
	return func(o *HTTP) {
		o.analytics = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) handle(route Route, fn func(w http.ResponseWriter, r *http.Request) int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		status := strconv.Itoa(fn(w, r))
		metrics.ServiceRequestCounter.WithLabelValues(string(route), status).Inc()
		metrics.ServiceRequestDuration.WithLabelValues(string(route), status).Observe(time.Since(start).Seconds())
	}
}

// page /{site}/{variant}/{url}, site being the hostname the site is served under
func (h *HTTP) page(w http.ResponseWriter, r *http.Request) int {
	resp := h.pages.Render(r.Context(), &requests.Page{
		Hostname: chi.URLParam(r, "site"),
		Variant:  chi.URLParam(r, "variant"),
		URL:      chi.URLParam(r, "*"),
	})
	return h.replyPage(w, resp)
}

func (h *HTTP) preview(w http.ResponseWriter, r *http.Request) int {
	query := r.URL.Query()
	resp, err := h.pages.Preview(r.Context(), &requests.Preview{
		JWE:            query.Get("emk.jwe"),
		PreviewToken:   query.Get("emk.previewToken"),
		Site:           query.Get("emk.site"),
		ForeignID:      query.Get("emk.foreignId"),
		PreviewSection: query.Get("emk.previewSection"),
	})
	if err != nil {
		return h.badRequest(w, r, err)
	}
	return h.replyPage(w, resp)
}

func (h *HTTP) pageByID(w http.ResponseWriter, r *http.Request) int {
	foreignID, _ := strconv.ParseBool(r.URL.Query().Get(ParamForeignID))
	resp := h.pages.PageByID(r.Context(), chi.URLParam(r, "site"), chi.URLParam(r, "id"), foreignID)
	return h.replyPage(w, resp)
}

func (h *HTTP) liveblog(w http.ResponseWriter, r *http.Request) int {
	limit := page.SeedLimit
	if v := r.URL.Query().Get(ParamLimit); v != "" {
		var err error
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			return h.badRequest(w, r, errors.Errorf("invalid limit %q", v))
		}
	}
	posts, err := h.pages.LiveblogPosts(r.Context(), chi.URLParam(r, "site"), chi.URLParam(r, "id"), limit)
	if err != nil {
		return h.upstreamError(w, r, err)
	}
	return h.reply(w, http.StatusOK, posts)
}

func (h *HTTP) poll(w http.ResponseWriter, r *http.Request) int {
	if h.polls == nil {
		return h.notFound(w, "polls are not enabled")
	}
	details, err := h.polls.PollDetails(r.Context(), chi.URLParam(r, "site"), chi.URLParam(r, "id"))
	if err != nil {
		return h.upstreamError(w, r, err)
	}
	return h.reply(w, http.StatusOK, details)
}

func (h *HTTP) analyticsReport(w http.ResponseWriter, r *http.Request) int {
	if h.analytics == nil {
		return h.notFound(w, "analytics are not enabled")
	}
	pc := h.pages.Context(r.Context(), chi.URLParam(r, "site"), chi.URLParam(r, "*"))
	if pc == nil || pc.Data() == nil {
		return h.notFound(w, "page not found")
	}
	report, err := h.analytics.Report(r.Context(), pc)
	if err != nil {
		return h.upstreamError(w, r, err)
	}
	if report == nil {
		w.WriteHeader(http.StatusNoContent)
		return http.StatusNoContent
	}
	return h.reply(w, http.StatusOK, report)
}

// search ?sorting=sys.creationTime&order=DESC&filter=sys.type:article
func (h *HTTP) search(w http.ResponseWriter, r *http.Request) int {
	query := r.URL.Query()
	req := &requests.Search{Site: chi.URLParam(r, "site")}
	if param := query.Get(ParamSorting); param != "" {
		req.Sorting = &requests.Sorting{Param: param, Order: requests.OrderAsc}
		if order := strings.ToUpper(query.Get(ParamOrder)); order == requests.OrderDesc {
			req.Sorting.Order = order
		}
	}
	for _, filter := range query[ParamFilter] {
		param, value, ok := strings.Cut(filter, ":")
		if !ok || param == "" {
			return h.badRequest(w, r, errors.Errorf("invalid filter %q", filter))
		}
		req.Filters = append(req.Filters, requests.Filter{Param: param, Value: value})
	}
	objects, err := h.pages.Search(r.Context(), req)
	if err != nil {
		return h.upstreamError(w, r, err)
	}
	return h.reply(w, http.StatusOK, objects)
}

func (h *HTTP) paths(w http.ResponseWriter, r *http.Request) int {
	sites, err := h.sites.Sites(r.Context())
	if err != nil {
		h.l.Warn("site structure not available", zap.Error(err))
		return h.reply(w, http.StatusServiceUnavailable, responses.NewError(http.StatusServiceUnavailable, responses.CodeNotAvailable, "site structure not available"))
	}
	return h.reply(w, http.StatusOK, cms.StaticPaths(sites))
}

func (h *HTTP) update(w http.ResponseWriter, r *http.Request) int {
	update := h.sites.Update(r.Context())
	if !update.Success {
		return h.reply(w, http.StatusInternalServerError, update)
	}
	return h.reply(w, http.StatusOK, update)
}

func (h *HTTP) replyPage(w http.ResponseWriter, resp *page.Response) int {
	if resp.NotFound() {
		return h.reply(w, http.StatusNotFound, resp)
	}
	return h.reply(w, http.StatusOK, resp)
}

func (h *HTTP) reply(w http.ResponseWriter, status int, v any) int {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.l.Error("could not encode reply", zap.Error(err))
	}
	return status
}

func (h *HTTP) notFound(w http.ResponseWriter, message string) int {
	return h.reply(w, http.StatusNotFound, responses.NewError(http.StatusNotFound, responses.CodeNotFound, message))
}

func (h *HTTP) badRequest(w http.ResponseWriter, r *http.Request, err error) int {
	httputils.BadRequestServerError(h.l, w, r, err)
	return http.StatusBadRequest
}

// upstreamError missing CMS resources are not found, anything else a bad gateway
func (h *HTTP) upstreamError(w http.ResponseWriter, r *http.Request, err error) int {
	if errors.Is(err, cmsapi.ErrNotFound) {
		return h.notFound(w, err.Error())
	}
	httputils.ServerError(h.l, w, r, http.StatusBadGateway, err)
	return http.StatusBadGateway
}
