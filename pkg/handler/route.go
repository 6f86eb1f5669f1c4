package handler

// Route type, used as metric label
type Route string

const (
	// RoutePage render a page by hostname, variant and url
	RoutePage Route = "page"
	// RoutePreview render the preview of a page
	RoutePreview Route = "preview"
	// RoutePageByID render a page by id or foreign id
	RoutePageByID Route = "pageById"
	// RouteLiveblog latest posts of a liveblog
	RouteLiveblog Route = "liveblog"
	// RoutePoll poll details
	RoutePoll Route = "poll"
	// RouteAnalytics analytics report of a page
	RouteAnalytics Route = "analytics"
	// RouteSearch search objects of a site
	RouteSearch Route = "search"
	// RoutePaths pages to render ahead of the first request
	RoutePaths Route = "paths"
	// RouteUpdate update the site structure
	RouteUpdate Route = "update"
)

// query parameters
const (
	ParamLimit     = "limit"
	ParamForeignID = "foreignId"
	ParamSorting   = "sorting"
	ParamOrder     = "order"
	ParamFilter    = "filter"
)
