package client

import (
	"context"
	"time"

	"github.com/foomo/cmsfront/pkg/page"
	"go.uber.org/zap"
)

type (
	// LiveblogPoller fetches the latest posts of a liveblog on a fixed interval.
	// Every tick is a fetch of its own, polls are never coalesced.
	LiveblogPoller struct {
		l        *zap.Logger
		client   *Client
		site     string
		id       string
		limit    int
		interval time.Duration
		onPosts  func(posts *page.LiveblogPosts)
	}
	PollerOption func(*LiveblogPoller)
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func PollerWithInterval(v time.Duration) PollerOption {
	return func(o *LiveblogPoller) {
		o.interval = v
	}
}

func PollerWithLimit(v int) PollerOption {
	return func(o *LiveblogPoller) {
		o.limit = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewLiveblogPoller(l *zap.Logger, client *Client, site, id string, onPosts func(posts *page.LiveblogPosts), opts ...PollerOption) *LiveblogPoller {
	inst := &LiveblogPoller{
		l:        l.Named("poller").With(zap.String("site", site), zap.String("liveblog", id)),
		client:   client,
		site:     site,
		id:       id,
		limit:    page.SeedLimit,
		interval: 10 * time.Second,
		onPosts:  onPosts,
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Run polls until ctx is done. The first poll happens after one interval, the
// seed of the rendered page covers the time before.
func (p *LiveblogPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.l.Debug("poller stopped", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
			posts, err := p.client.LiveblogPosts(ctx, p.site, p.id, p.limit)
			if err != nil {
				p.l.Warn("failed to poll liveblog posts", zap.Error(err))
				continue
			}
			p.onPosts(posts)
		}
	}
}
