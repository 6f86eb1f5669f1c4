package sites

import (
	"context"
	"time"

	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/metrics"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrUpdateRejected = errors.New("update rejected: queue full")
	ErrNoSnapshots    = errors.New("no snapshot store configured")
	ErrEmptyStructure = errors.New("cms returned no sites")
)

type updateResponse struct {
	cmsRuntime time.Duration
	err        error
}

func (r *Repo) PollRoutine(ctx context.Context) error {
	l := r.l.Named("routine.poll")
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
			chanResponse := make(chan updateResponse)
			select {
			case r.updateInProgressChannel <- chanResponse:
			case <-ctx.Done():
				return nil
			}
			if response := <-chanResponse; response.err != nil {
				l.Error("update failed", zap.Error(response.err))
			} else {
				l.Info("update success", zap.Int("sites", len(r.Current())))
			}
		}
	}
}

func (r *Repo) UpdateRoutine(ctx context.Context) error {
	l := r.l.Named("routine.update")
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case resChan := <-r.updateInProgressChannel:
			start := time.Now()
			l := l.With(zap.String("run_id", uuid.New().String()))

			l.Info("update started")

			cmsRuntime, err := r.update(context.WithoutCancel(ctx))
			if err != nil {
				l.Error("update failed", zap.Error(err))
				metrics.SitesUpdatesFailedCounter.WithLabelValues().Inc()
			} else {
				if !r.Loaded() {
					r.loaded.Store(true)
					l.Info("initial update success")
					if r.onLoaded != nil {
						r.onLoaded()
					}
				} else {
					l.Info("update success")
				}
				metrics.SitesUpdatesCompletedCounter.WithLabelValues().Inc()
			}

			resChan <- updateResponse{
				cmsRuntime: cmsRuntime,
				err:        err,
			}

			metrics.SitesUpdateDuration.WithLabelValues().Observe(time.Since(start).Seconds())
		}
	}
}

// update fetches the structure and replaces the cached one
func (r *Repo) update(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	sites, err := r.fetch(ctx)
	cmsRuntime := time.Since(start)
	if err != nil {
		return cmsRuntime, err
	}
	r.cache.Put(CacheKey, sites, r.ttl)
	return cmsRuntime, nil
}

// fetch loads the structure from the CMS, keeps it as the current one and
// persists it
func (r *Repo) fetch(ctx context.Context) (content.Sites, error) {
	sites, err := r.fetcher.Sites(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch site structure")
	}
	if len(sites) == 0 {
		return nil, ErrEmptyStructure
	}
	r.setCurrent(sites)
	r.persist(ctx, sites)
	return sites, nil
}

func (r *Repo) tryToRestoreCurrent(ctx context.Context) error {
	if r.snapshots == nil {
		return ErrNoSnapshots
	}
	sites, err := r.snapshots.Latest(ctx)
	if err != nil {
		return err
	}
	if len(sites) == 0 {
		return ErrEmptyStructure
	}
	r.setCurrent(sites)
	return nil
}

// limit resources and allow only one update request at once
func (r *Repo) tryUpdate(ctx context.Context) (time.Duration, error) {
	c := make(chan updateResponse)
	select {
	case r.updateInProgressChannel <- c:
		r.l.Debug("update request added to queue")
		ur := <-c
		return ur.cmsRuntime, ur.err
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
		r.l.Info("update request rejected, an update is in progress")
		return 0, ErrUpdateRejected
	}
}
