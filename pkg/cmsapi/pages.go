package cmsapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/requests"
	"github.com/pkg/errors"
)

// ForeignIDSuffix marks foreign ids of the legacy editorial system
const ForeignIDSuffix = "@eom"

// Page fetches the page published under url on site
func (c *Client) Page(ctx context.Context, site, url string) (*content.PagePayload, error) {
	payload := &content.PagePayload{}
	if err := c.get(ctx, EndpointPages, "/api/pages/", siteQuery(site, "url", url), payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// PageByID fetches a page by its id or foreign id
func (c *Client) PageByID(ctx context.Context, site, id string, foreignID bool) (*content.PagePayload, error) {
	payload := &content.PagePayload{}
	if err := c.get(ctx, EndpointPages, "/api/pages/"+idPath(id, foreignID), siteQuery(site), payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// URLByID resolves the host relative url of a content
func (c *Client) URLByID(ctx context.Context, site, id string, foreignID bool) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	query := siteQuery(site, "resolutionType", "CONTENT", "urlIntent", "HOST_RELATIVE")
	if err := c.get(ctx, EndpointURLs, "/api/urls/"+idPath(id, foreignID), query, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// Preview fetches the uncached preview of a page with the credentials of the
// preview session
func (c *Client) Preview(ctx context.Context, preview *requests.Preview) (*content.PagePayload, error) {
	if err := preview.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid preview request")
	}
	query := siteQuery(preview.Site, "emk.previewSection", preview.PreviewSection, "emk.disableCache", "true")
	header := http.Header{}
	header.Set("Authorization", "Bearer "+preview.JWE)
	header.Set("Cookie", (&http.Cookie{Name: "emk.previewToken", Value: preview.PreviewToken}).String())

	payload := &content.PagePayload{}
	err := c.do(ctx, &call{
		endpoint: EndpointPreview,
		method:   http.MethodGet,
		path:     "/api/pages/" + url.PathEscape(preview.ForeignID) + ForeignIDSuffix,
		query:    query,
		header:   header,
	}, payload)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// LiveblogPosts the latest limit posts of a liveblog
func (c *Client) LiveblogPosts(ctx context.Context, site, id string, limit int) (*content.LiveblogPosts, error) {
	posts := &content.LiveblogPosts{}
	query := siteQuery(site)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if err := c.get(ctx, EndpointLiveblogs, "/api/liveblogs/"+url.PathEscape(id)+"/posts", query, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// PollDetails details of a poll. Foreign ids, e.g. "123@eom", are resolved to
// the CMS id first.
func (c *Client) PollDetails(ctx context.Context, site, id string) (any, error) {
	if strings.Contains(id, "eom") {
		foreignID, _, _ := strings.Cut(id, "@")
		payload, err := c.PageByID(ctx, site, foreignID, true)
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve poll foreign id")
		}
		if payload.Model.Data == nil {
			return nil, errors.Wrapf(ErrNotFound, "poll %s", id)
		}
		id = payload.Model.Data.ID
	}
	var details any
	query := url.Values{}
	query.Set("nodeId", id)
	query.Set("siteName", site)
	if err := c.get(ctx, EndpointPolls, "/directory/polls/details", query, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func siteQuery(site string, keyValues ...string) url.Values {
	query := url.Values{}
	query.Set("emk.site", site)
	for i := 0; i+1 < len(keyValues); i += 2 {
		query.Set(keyValues[i], keyValues[i+1])
	}
	return query
}

func idPath(id string, foreignID bool) string {
	if foreignID {
		return "foreignid/" + url.PathEscape(id)
	}
	return url.PathEscape(id)
}
