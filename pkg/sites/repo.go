// Package sites keeps the site structure of the CMS: every site with its
// sitemap. It is cached, refreshed in the background and persisted to
// snapshots to survive CMS outages.
package sites

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/cache"
	"github.com/foomo/cmsfront/pkg/metrics"
	"github.com/foomo/cmsfront/pkg/snapshot"
	"github.com/foomo/cmsfront/responses"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CacheKey key of the site structure in the cache
const CacheKey = "sites"

type (
	// Fetcher loads the site structure from the CMS
	Fetcher interface {
		Sites(ctx context.Context) (content.Sites, error)
	}
	// Snapshots persists site structures
	Snapshots interface {
		Save(ctx context.Context, sites content.Sites) error
		Latest(ctx context.Context) (content.Sites, error)
	}
	Repo struct {
		l                       *zap.Logger
		fetcher                 Fetcher
		cache                   *cache.Service
		ttl                     time.Duration
		snapshots               Snapshots
		poll                    bool
		pollInterval            time.Duration
		onLoaded                func()
		loaded                  *atomic.Bool
		updateInProgressChannel chan chan updateResponse
		current                 content.Sites
		currentLock             sync.RWMutex
	}
	Option func(*Repo)
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

// WithTTL time the site structure is served from the cache
func WithTTL(v time.Duration) Option {
	return func(o *Repo) {
		o.ttl = v
	}
}

func WithSnapshots(v Snapshots) Option {
	return func(o *Repo) {
		o.snapshots = v
	}
}

func WithPoll(v bool) Option {
	return func(o *Repo) {
		o.poll = v
	}
}

func WithPollInterval(v time.Duration) Option {
	return func(o *Repo) {
		o.pollInterval = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, fetcher Fetcher, cache *cache.Service, opts ...Option) *Repo {
	inst := &Repo{
		l:                       l.Named("sites"),
		fetcher:                 fetcher,
		cache:                   cache,
		ttl:                     5 * time.Minute,
		pollInterval:            time.Minute,
		loaded:                  &atomic.Bool{},
		updateInProgressChannel: make(chan chan updateResponse),
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

// Loaded the site structure has been fetched from the CMS at least once
func (r *Repo) Loaded() bool {
	return r.loaded.Load()
}

// Available a site structure is known, fetched or restored
func (r *Repo) Available() bool {
	return r.Current() != nil
}

// Current the latest known site structure
func (r *Repo) Current() content.Sites {
	r.currentLock.RLock()
	defer r.currentLock.RUnlock()
	return r.current
}

func (r *Repo) setCurrent(v content.Sites) {
	r.currentLock.Lock()
	defer r.currentLock.Unlock()
	r.current = v
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (r *Repo) OnLoaded(fn func()) {
	r.onLoaded = fn
}

// Sites returns the cached site structure and fetches it on a miss. When the
// CMS fails the latest known structure is served.
func (r *Repo) Sites(ctx context.Context) (content.Sites, error) {
	sites, err := cache.Fetch(ctx, r.cache, CacheKey, r.ttl, r.fetch)
	if err == nil {
		return sites, nil
	}
	if current := r.Current(); current != nil {
		r.l.Warn("serving stale site structure", zap.Error(err))
		return current, nil
	}
	return nil, err
}

// Update fetches the site structure in the background routine. Concurrent
// updates are rejected.
func (r *Repo) Update(ctx context.Context) *responses.Update {
	r.l.Info("update triggered")
	start := time.Now()
	cmsRuntime, err := r.tryUpdate(ctx)
	resp := &responses.Update{}
	resp.Stats.CMSRuntime = cmsRuntime.Seconds()

	if err != nil {
		resp.Success = false
		resp.Stats.NumberOfSites = -1
		resp.Stats.NumberOfSections = -1
		if !errors.Is(err, ErrUpdateRejected) {
			resp.ErrorMessage = err.Error()
			r.l.Error("failed to update site structure", zap.Error(err))
			if r.Current() == nil {
				if restoreErr := r.tryToRestoreCurrent(ctx); restoreErr != nil {
					r.l.Error("failed to restore site structure snapshot", zap.Error(restoreErr))
				} else {
					r.l.Info("restored site structure from snapshot")
					resp.Restored = true
				}
			}
		}
	} else {
		resp.Success = true
		current := r.Current()
		resp.Stats.NumberOfSites = len(current)
		resp.Stats.NumberOfSections = countSections(current)
	}
	resp.Stats.OwnRuntime = time.Since(start).Seconds() - resp.Stats.CMSRuntime
	return resp
}

func (r *Repo) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	l := r.l.Named("start")

	up := make(chan bool, 1)
	g.Go(func() error {
		l.Debug("starting update routine")
		up <- true
		return r.UpdateRoutine(gCtx)
	})
	l.Debug("waiting for UpdateRoutine")
	<-up

	l.Debug("trying to restore previous site structure")
	if err := r.tryToRestoreCurrent(ctx); errors.Is(err, ErrNoSnapshots) {
		l.Info("site structure snapshots are disabled")
	} else if errors.Is(err, snapshot.ErrNoSnapshot) {
		l.Info("no previous site structure snapshot")
	} else if err != nil {
		l.Warn("could not restore previous site structure", zap.Error(err))
	} else {
		l.Info("restored previous site structure")
	}

	if r.poll {
		g.Go(func() error {
			l.Debug("starting poll routine")
			return r.PollRoutine(gCtx)
		})
	}

	if !r.Loaded() {
		l.Debug("trying to update initial state")
		if resp := r.Update(ctx); !resp.Success {
			l.Error("failed to update initial state",
				zap.String("error", resp.ErrorMessage),
				zap.Bool("restored", resp.Restored),
				zap.Float64("own_runtime", resp.Stats.OwnRuntime),
				zap.Float64("cms_runtime", resp.Stats.CMSRuntime),
			)
		}
	}

	return g.Wait()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func countSections(sites content.Sites) int {
	var count func(node *content.SitemapNode) int
	count = func(node *content.SitemapNode) int {
		n := 0
		for _, child := range node.Children {
			if child != nil {
				n += 1 + count(child)
			}
		}
		return n
	}
	total := 0
	for _, site := range sites {
		if site != nil && site.Sitemap != nil {
			total += count(site.Sitemap)
		}
	}
	return total
}

func (r *Repo) persist(ctx context.Context, sites content.Sites) {
	if r.snapshots == nil {
		return
	}
	if err := r.snapshots.Save(ctx, sites); err != nil {
		r.l.Error("could not persist site structure snapshot", zap.Error(err))
		metrics.SnapshotPersistFailedCounter.WithLabelValues().Inc()
		return
	}
	r.l.Debug("persisted site structure snapshot")
}
