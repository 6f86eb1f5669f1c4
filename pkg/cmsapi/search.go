package cmsapi

import (
	"context"

	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/requests"
)

// Search runs a search on the site of req
func (c *Client) Search(ctx context.Context, req *requests.Search) (*content.SearchResultSet, error) {
	query := siteQuery(req.Site)
	if sorting := req.Sorting.Value(); sorting != "" {
		query.Set("sorting", sorting)
	}
	for _, filter := range req.Filters {
		if filter.Param == "" {
			continue
		}
		query.Add(filter.Param, filter.Value)
	}
	result := &content.SearchResultSet{}
	if err := c.get(ctx, EndpointSearch, "/api/search", query, result); err != nil {
		return nil, err
	}
	return result, nil
}
