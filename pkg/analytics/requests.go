package analytics

import (
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
)

const (
	metricScreenPageViews = "screenPageViews"
	matchTypeContains     = "CONTAINS"
	matchTypeExact        = "EXACT"
	// topPagesPathMarker path fragment of landing pages
	topPagesPathMarker = "/index.html"
)

func lastWeek() []*analyticsdata.DateRange {
	return []*analyticsdata.DateRange{{StartDate: "7daysAgo", EndDate: "today"}}
}

func dimensions(names ...string) []*analyticsdata.Dimension {
	ret := make([]*analyticsdata.Dimension, len(names))
	for i, name := range names {
		ret[i] = &analyticsdata.Dimension{Name: name}
	}
	return ret
}

func pageViews() []*analyticsdata.Metric {
	return []*analyticsdata.Metric{{Name: metricScreenPageViews}}
}

func byPageViews() []*analyticsdata.OrderBy {
	return []*analyticsdata.OrderBy{{Desc: true, Metric: &analyticsdata.MetricOrderBy{MetricName: metricScreenPageViews}}}
}

func stringFilter(field, matchType, value string) *analyticsdata.FilterExpression {
	return &analyticsdata.FilterExpression{
		Filter: &analyticsdata.Filter{
			FieldName:    field,
			StringFilter: &analyticsdata.StringFilter{MatchType: matchType, Value: value},
		},
	}
}

// contentRequest page views of the last week of the pages containing id
func contentRequest(id string) *analyticsdata.RunReportRequest {
	return &analyticsdata.RunReportRequest{
		DateRanges:      lastWeek(),
		Dimensions:      dimensions("date", "hostName", "deviceCategory", "city", "pagePath"),
		Metrics:         pageViews(),
		DimensionFilter: stringFilter("pagePath", matchTypeContains, id),
		OrderBys: []*analyticsdata.OrderBy{{
			Desc:      true,
			Dimension: &analyticsdata.DimensionOrderBy{DimensionName: "date"},
		}},
	}
}

func topPagesRequest(hostname string) *analyticsdata.RunReportRequest {
	return &analyticsdata.RunReportRequest{
		DateRanges: lastWeek(),
		Dimensions: dimensions("date", "pageTitle", "pagePath"),
		Metrics:    pageViews(),
		DimensionFilter: &analyticsdata.FilterExpression{
			AndGroup: &analyticsdata.FilterExpressionList{
				Expressions: []*analyticsdata.FilterExpression{
					stringFilter("hostName", matchTypeExact, hostname),
					stringFilter("pagePath", matchTypeContains, topPagesPathMarker),
				},
			},
		},
		OrderBys: byPageViews(),
	}
}

func realtimeRequest() *analyticsdata.RunRealtimeReportRequest {
	return &analyticsdata.RunRealtimeReportRequest{
		Dimensions: dimensions("unifiedScreenName"),
		Metrics:    pageViews(),
		OrderBys:   byPageViews(),
	}
}
