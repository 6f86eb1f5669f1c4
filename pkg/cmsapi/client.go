// Package cmsapi talks to the CMS delivery, directory and core apis.
package cmsapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/foomo/cmsfront/pkg/metrics"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotFound the CMS has no such resource
var ErrNotFound = errors.New("not found")

// endpoints, used as metric labels
const (
	EndpointPages     = "pages"
	EndpointURLs      = "urls"
	EndpointPreview   = "preview"
	EndpointLogin     = "login"
	EndpointSites     = "sites"
	EndpointSitemap   = "sitemap"
	EndpointSearch    = "search"
	EndpointLiveblogs = "liveblogs"
	EndpointPolls     = "polls"
)

type (
	Client struct {
		l          *zap.Logger
		baseURL    string
		username   string
		password   string
		httpClient *http.Client
	}
	Option func(*Client)
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithHTTPClient(v *http.Client) Option {
	return func(o *Client) {
		o.httpClient = v
	}
}

// WithCredentials directory user to log in with
func WithCredentials(username, password string) Option {
	return func(o *Client) {
		o.username = username
		o.password = password
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, baseURL string, opts ...Option) *Client {
	inst := &Client{
		l:          l.Named("cmsapi"),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

type call struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	header   http.Header
	body     any
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, v any) error {
	return c.do(ctx, &call{endpoint: endpoint, method: http.MethodGet, path: path, query: query}, v)
}

func (c *Client) do(ctx context.Context, call *call, v any) (err error) {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.CMSRequestCounter.WithLabelValues(call.endpoint, status).Inc()
		metrics.CMSRequestDuration.WithLabelValues(call.endpoint, status).Observe(time.Since(start).Seconds())
	}()

	u := c.baseURL + call.path
	if len(call.query) > 0 {
		u += "?" + call.query.Encode()
	}

	var body io.Reader
	if call.body != nil {
		data, err := json.Marshal(call.body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, call.method, u, body)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s request", call.endpoint)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range call.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	c.l.Debug("requesting cms", zap.String("endpoint", call.endpoint), zap.String("method", call.method), zap.String("path", call.path))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to request %s", call.endpoint)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.Wrapf(ErrNotFound, "%s %s", call.endpoint, call.path)
	case resp.StatusCode != http.StatusOK:
		return errors.Errorf("bad response code from %s: %q", call.endpoint, resp.Status)
	}

	if v == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s response", call.endpoint)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "failed to unmarshal %s response", call.endpoint)
	}
	return nil
}
