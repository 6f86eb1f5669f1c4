// Package semantic queries the semantic search backend behind the smart-query
// widget.
package semantic

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/cms"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	Client struct {
		l          *zap.Logger
		endpoint   string
		apiKey     string
		topK       int
		httpClient *http.Client
	}
	Option func(*Client)
	// Query request of the search backend
	Query struct {
		Query string `json:"query"`
		TopK  int    `json:"topK"`
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithHTTPClient(v *http.Client) Option {
	return func(o *Client) {
		o.httpClient = v
	}
}

func WithAPIKey(v string) Option {
	return func(o *Client) {
		o.apiKey = v
	}
}

// WithTopK number of matches to return
func WithTopK(v int) Option {
	return func(o *Client) {
		o.topK = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, endpoint string, opts ...Option) *Client {
	inst := &Client{
		l:          l.Named("semantic"),
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		topK:       10,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Query returns the matches of topic as delivered by the backend
func (c *Client) Query(ctx context.Context, topic string) (any, error) {
	data, err := json.Marshal(Query{Query: topic, TopK: c.topK})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal query")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/query", bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create query request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query semantic search")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("bad response code from semantic search: %q", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read semantic search response")
	}
	var ret any
	if err := json.Unmarshal(body, &ret); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal semantic search response")
	}
	return ret, nil
}

// PageData matches for the smart-query widget of pc, nil if the page has none
// or the backend fails
func (c *Client) PageData(ctx context.Context, pc *content.PageContext) any {
	topic, ok := cms.SmartQueryTopic(pc)
	if !ok {
		return nil
	}
	data, err := c.Query(ctx, topic)
	if err != nil {
		c.l.Warn("failed to load semantic search data", zap.String("topic", topic), zap.Error(err))
		return nil
	}
	return data
}
