// Package client calls the http api of a running cmsfront.
package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/foomo/cmsfront/pkg/cms"
	"github.com/foomo/cmsfront/pkg/page"
	"github.com/foomo/cmsfront/pkg/utils"
	"github.com/foomo/cmsfront/responses"
	"github.com/pkg/errors"
)

// ErrNotFound the server has no such page or resource
var ErrNotFound = errors.New("not found")

// Client a cmsfront client
type Client struct {
	t transport
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTPClient a client of the cmsfront served at server, e.g. "http://localhost:8080"
func NewHTTPClient(server string, opts ...HTTPTransportOption) (*Client, error) {
	if !utils.IsValidUrl(server) {
		return nil, errors.Errorf("invalid server url %q", server)
	}
	return New(NewHTTPTransport(strings.TrimSuffix(server, "/"), opts...)), nil
}

func New(t transport) *Client {
	return &Client{t: t}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Update tell the server to update its site structure
func (c *Client) Update(ctx context.Context) (*responses.Update, error) {
	response := &responses.Update{}
	if err := c.t.call(ctx, http.MethodPost, "/api/update", nil, response); err != nil {
		return nil, err
	}
	return response, nil
}

// Page the rendered page at url of the site served under hostname
func (c *Client) Page(ctx context.Context, hostname, variant, u string) (*page.Response, error) {
	response := &page.Response{}
	path := "/" + url.PathEscape(hostname) + "/" + url.PathEscape(variant) + "/" + strings.TrimPrefix(u, "/")
	if err := c.t.call(ctx, http.MethodGet, path, nil, response); err != nil {
		return nil, err
	}
	return response, nil
}

// LiveblogPosts the latest limit posts of a liveblog, the server default for limit 0
func (c *Client) LiveblogPosts(ctx context.Context, site, id string, limit int) (*page.LiveblogPosts, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	response := &page.LiveblogPosts{}
	if err := c.t.call(ctx, http.MethodGet, "/api/"+url.PathEscape(site)+"/liveblogs/"+url.PathEscape(id), query, response); err != nil {
		return nil, err
	}
	return response, nil
}

// Paths pages to render ahead of the first request
func (c *Client) Paths(ctx context.Context) ([]cms.StaticPath, error) {
	var response []cms.StaticPath
	if err := c.t.call(ctx, http.MethodGet, "/api/paths", nil, &response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) ShutDown() {
	c.t.shutdown()
}
