package cmsapi

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/foomo/cmsfront/content"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// sitemapConcurrency sitemaps fetched in parallel
const sitemapConcurrency = 4

// Login opens a directory session and returns its token
func (c *Client) Login(ctx context.Context) (string, error) {
	var resp struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}
	err := c.do(ctx, &call{
		endpoint: EndpointLogin,
		method:   http.MethodPost,
		path:     "/directory/sessions/login",
		body: map[string]string{
			"name":     c.username,
			"password": c.password,
		},
	}, &resp)
	if err != nil {
		return "", errors.Wrap(err, "failed to log in")
	}
	if resp.Session.ID == "" {
		return "", errors.New("login returned no session")
	}
	return resp.Session.ID, nil
}

// SiteList sites configured in the CMS, without sitemaps
func (c *Client) SiteList(ctx context.Context, token string) (content.Sites, error) {
	var resp struct {
		Result content.Sites `json:"result"`
	}
	query := url.Values{}
	query.Set("emauth", token)
	if err := c.get(ctx, EndpointSites, "/core/sites", query, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// Sitemap live section tree of site
func (c *Client) Sitemap(ctx context.Context, token, site string) (*content.SitemapNode, error) {
	sitemap := &content.SitemapNode{}
	query := url.Values{}
	query.Set("emauth", token)
	query.Set("siteName", site)
	query.Set("viewStatus", "LIVE")
	if err := c.get(ctx, EndpointSitemap, "/core/sites/sitemap", query, sitemap); err != nil {
		return nil, err
	}
	return sitemap, nil
}

// Sites the site structure: every site with its sitemap. Sites whose sitemap
// can not be fetched are kept without one.
func (c *Client) Sites(ctx context.Context) (content.Sites, error) {
	token, err := c.Login(ctx)
	if err != nil {
		return nil, err
	}
	sites, err := c.SiteList(ctx, token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sites")
	}

	var (
		mu      sync.Mutex
		errs    error
		g, gCtx = errgroup.WithContext(ctx)
	)
	g.SetLimit(sitemapConcurrency)
	for _, site := range sites {
		if site == nil {
			continue
		}
		g.Go(func() error {
			sitemap, err := c.Sitemap(gCtx, token, site.Name)
			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, errors.Wrapf(err, "sitemap of %s", site.Name))
				mu.Unlock()
				return nil
			}
			site.Sitemap = sitemap
			return nil
		})
	}
	_ = g.Wait()
	if errs != nil {
		c.l.Warn("failed to fetch sitemaps", zap.Error(errs))
	}
	return sites, nil
}
