// Package analytics issues page view reports against the web analytics data
// api and caches them.
package analytics

import (
	"context"
	"time"

	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/cache"
	"github.com/foomo/cmsfront/pkg/cms"
	"github.com/foomo/cmsfront/pkg/metrics"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
)

const (
	ReportContent  = "content"
	ReportBatch    = "batch"
	ReportTopPages = "toppages"
	ReportRealtime = "realtime"

	// batchSize reports per batch request, the api limit
	batchSize = 5

	keyPrefixContent  = "ga-content-"
	keyPrefixTopPages = "ga-toppages-"
	keyRealtime       = "ga-realtime"
)

type (
	Service struct {
		l            *zap.Logger
		runner       Runner
		cache        *cache.Service
		shaper       *cms.Shaper
		property     string
		cacheEnabled bool
		contentTTL   time.Duration
		realtimeTTL  time.Duration
	}
	Option func(*Service)
)

type (
	// Report analytics of a page, the parts depend on the base type
	Report struct {
		Content       *ContentReport                           `json:"contentReport,omitempty"`
		LinkedContent []*ContentReport                         `json:"linkedContentReports,omitempty"`
		TopPages      *analyticsdata.RunReportResponse         `json:"topContentPagesReport,omitempty"`
		Realtime      *analyticsdata.RunRealtimeReportResponse `json:"realtimeReport,omitempty"`
	}
	// ContentReport page views of one object
	ContentReport struct {
		GAData  *analyticsdata.RunReportResponse `json:"gaData"`
		CMSData *content.PageContext             `json:"cmsData"`
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithCacheEnabled(v bool) Option {
	return func(o *Service) {
		o.cacheEnabled = v
	}
}

func WithContentTTL(v time.Duration) Option {
	return func(o *Service) {
		o.contentTTL = v
	}
}

func WithRealtimeTTL(v time.Duration) Option {
	return func(o *Service) {
		o.realtimeTTL = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// New property is the numeric id of the analytics property
func New(l *zap.Logger, runner Runner, cache *cache.Service, shaper *cms.Shaper, property string, opts ...Option) *Service {
	inst := &Service{
		l:            l.Named("analytics"),
		runner:       runner,
		cache:        cache,
		shaper:       shaper,
		property:     "properties/" + property,
		cacheEnabled: true,
		contentTTL:   time.Hour,
		realtimeTTL:  time.Minute,
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// ContentReport page views of the last week of the object with id
func (s *Service) ContentReport(ctx context.Context, id string) (*analyticsdata.RunReportResponse, error) {
	return fetch(ctx, s, keyPrefixContent+id, s.contentTTL, func(ctx context.Context) (*analyticsdata.RunReportResponse, error) {
		resp, err := s.runner.RunReport(ctx, s.property, contentRequest(id))
		count(ReportContent, err)
		return resp, errors.Wrapf(err, "failed to run content report for %s", id)
	})
}

// BatchContentReport content reports keyed by id. Cached reports are reused,
// the others are requested in batches.
func (s *Service) BatchContentReport(ctx context.Context, ids []string) (map[string]*analyticsdata.RunReportResponse, error) {
	ret := make(map[string]*analyticsdata.RunReportResponse, len(ids))
	var missing []string
	for _, id := range ids {
		if _, ok := ret[id]; ok {
			continue
		}
		if s.cacheEnabled {
			if report, ok := cache.Get[*analyticsdata.RunReportResponse](s.cache, keyPrefixContent+id); ok {
				ret[id] = report
				continue
			}
		}
		ret[id] = nil
		missing = append(missing, id)
	}

	for start := 0; start < len(missing); start += batchSize {
		page := missing[start:min(start+batchSize, len(missing))]
		req := &analyticsdata.BatchRunReportsRequest{}
		for _, id := range page {
			req.Requests = append(req.Requests, contentRequest(id))
		}
		resp, err := s.runner.BatchRunReports(ctx, s.property, req)
		count(ReportBatch, err)
		if err != nil {
			return nil, errors.Wrap(err, "failed to run batch content report")
		}
		for i, report := range resp.Reports {
			if i >= len(page) {
				break
			}
			ret[page[i]] = report
			if s.cacheEnabled {
				s.cache.Put(keyPrefixContent+page[i], report, s.contentTTL)
			}
		}
	}
	for id, report := range ret {
		if report == nil {
			delete(ret, id)
		}
	}
	return ret, nil
}

// TopPagesReport most viewed landing pages of hostname in the last week
func (s *Service) TopPagesReport(ctx context.Context, hostname string) (*analyticsdata.RunReportResponse, error) {
	return fetch(ctx, s, keyPrefixTopPages+hostname, s.contentTTL, func(ctx context.Context) (*analyticsdata.RunReportResponse, error) {
		resp, err := s.runner.RunReport(ctx, s.property, topPagesRequest(hostname))
		count(ReportTopPages, err)
		return resp, errors.Wrapf(err, "failed to run top pages report for %s", hostname)
	})
}

// RealtimeReport page views of the last minutes
func (s *Service) RealtimeReport(ctx context.Context) (*analyticsdata.RunRealtimeReportResponse, error) {
	return fetch(ctx, s, keyRealtime, s.realtimeTTL, func(ctx context.Context) (*analyticsdata.RunRealtimeReportResponse, error) {
		resp, err := s.runner.RunRealtimeReport(ctx, s.property, realtimeRequest())
		count(ReportRealtime, err)
		return resp, errors.Wrap(err, "failed to run realtime report")
	})
}

// Report the report for a page: articles and liveblogs get their own page
// views, sections and webpages the top pages of their site, fragments the
// page views of their linked objects and the top pages. Other base types have
// no report.
func (s *Service) Report(ctx context.Context, pc *content.PageContext) (*Report, error) {
	var (
		report = &Report{}
		err    error
	)
	switch pc.BaseType() {
	case content.BaseTypeArticle, content.BaseTypeLiveblog:
		var gaData *analyticsdata.RunReportResponse
		if gaData, err = s.ContentReport(ctx, pc.Data().ID); err != nil {
			return nil, err
		}
		report.Content = &ContentReport{GAData: gaData, CMSData: pc}
	case content.BaseTypeSection, content.BaseTypeWebPage:
		if report.TopPages, err = s.TopPagesReport(ctx, cms.LiveHostname(cms.CurrentSite(pc))); err != nil {
			return nil, err
		}
	case content.BaseTypeWebPageFragment:
		if report.LinkedContent, err = s.linkedContentReports(ctx, pc); err != nil {
			return nil, err
		}
		if report.TopPages, err = s.TopPagesReport(ctx, cms.LiveHostname(cms.CurrentSite(pc))); err != nil {
			return nil, err
		}
	default:
		return nil, nil
	}
	if report.Realtime, err = s.RealtimeReport(ctx); err != nil {
		return nil, err
	}
	return report, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (s *Service) linkedContentReports(ctx context.Context, pc *content.PageContext) ([]*ContentReport, error) {
	objects := s.shaper.LinkedObjects(pc, "")
	ids := make([]string, 0, len(objects))
	for _, obj := range objects {
		ids = append(ids, obj.Data().ID)
	}
	reports, err := s.BatchContentReport(ctx, ids)
	if err != nil {
		return nil, err
	}
	ret := make([]*ContentReport, 0, len(reports))
	seen := map[string]bool{}
	for _, obj := range objects {
		id := obj.Data().ID
		if gaData, ok := reports[id]; ok && !seen[id] {
			seen[id] = true
			ret = append(ret, &ContentReport{GAData: gaData, CMSData: obj})
		}
	}
	return ret, nil
}

func fetch[T any](ctx context.Context, s *Service, key string, ttl time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if !s.cacheEnabled {
		return fn(ctx)
	}
	return cache.Fetch(ctx, s.cache, key, ttl, fn)
}

func count(report string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.AnalyticsReportCounter.WithLabelValues(report, status).Inc()
}
