package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "cmsfront"

	metricLabelHandler  = "handler"
	metricLabelStatus   = "status"
	metricLabelEndpoint = "endpoint"
	metricLabelPoint    = "point"
	metricLabelCache    = "cache"
	metricLabelResult   = "result"
	metricLabelVariant  = "variant"
	metricLabelReport   = "report"
)

// Metrics is the structure that holds all prometheus metrics
var (
	// FallbackCounter counts degraded results of the data shaping layer
	FallbackCounter = newCounterVec(
		"fallback_count",
		"Number of times a malformed or missing CMS payload was replaced by an empty result",
		metricLabelPoint,
	)
	// ServiceRequestCounter count the number of requests for each handler
	ServiceRequestCounter = newCounterVec(
		"service_request_count",
		"Count of requests for each handler",
		metricLabelHandler, metricLabelStatus,
	)
	// ServiceRequestDuration observe the duration of requests for each handler
	ServiceRequestDuration = newSummaryVec(
		"service_request_duration_seconds",
		"Seconds to resolve, shape and marshal a response",
		metricLabelHandler, metricLabelStatus,
	)
	// CMSRequestCounter count the number of requests against the CMS api
	CMSRequestCounter = newCounterVec(
		"cms_request_count",
		"Number of requests against the CMS api",
		metricLabelEndpoint, metricLabelStatus,
	)
	// CMSRequestDuration observe the duration of requests against the CMS api
	CMSRequestDuration = newSummaryVec(
		"cms_request_duration_seconds",
		"Duration in seconds of requests against the CMS api",
		metricLabelEndpoint, metricLabelStatus,
	)
	// CacheCounter count cache hits and misses
	CacheCounter = newCounterVec(
		"cache_count",
		"Cache lookups by cache and result",
		metricLabelCache, metricLabelResult,
	)
	// RenderCounter count selected view variants
	RenderCounter = newCounterVec(
		"render_count",
		"Number of rendered pages by view variant",
		metricLabelVariant,
	)
	// SitesUpdatesCompletedCounter count the number of successful site structure updates
	SitesUpdatesCompletedCounter = newCounterVec(
		"sites_updates_completed_count",
		"Number of site structure updates that were successfully completed",
	)
	// SitesUpdatesFailedCounter count the number of site structure updates that had an error
	SitesUpdatesFailedCounter = newCounterVec(
		"sites_updates_failed_count",
		"Number of site structure updates that failed due to an error",
	)
	// SitesUpdateDuration observe the duration of each site structure update
	SitesUpdateDuration = newSummaryVec(
		"sites_update_duration_seconds",
		"Duration in seconds for each site structure update",
	)
	// SnapshotPersistFailedCounter count the number of failed attempts to persist the site structure
	SnapshotPersistFailedCounter = newCounterVec(
		"snapshot_persist_failed_count",
		"Number of failures to store the site structure snapshot",
	)
	// AnalyticsReportCounter count analytics reports run against the reporting api
	AnalyticsReportCounter = newCounterVec(
		"analytics_report_count",
		"Number of analytics reports requested from the reporting api",
		metricLabelReport, metricLabelStatus,
	)
)

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}
