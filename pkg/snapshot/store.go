// Package snapshot persists the site structure so a restarted service can serve
// while the CMS is unreachable.
package snapshot

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/foomo/cmsfront/content"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// drivers for bucket urls: file:///var/lib/cmsfront, gs://bucket, mem://
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	KeyPrefix = "sites-"
	KeySuffix = ".json"
	LatestKey = KeyPrefix + "latest" + KeySuffix

	// fixed width so that keys sort by time
	versionLayout = "20060102T150405.000000000"
)

// ErrNoSnapshot nothing has been saved yet
var ErrNoSnapshot = errors.New("no site structure snapshot")

type (
	Store struct {
		l      *zap.Logger
		bucket *blob.Bucket
		prefix string
		limit  int
		mu     sync.RWMutex
	}
	Option func(*Store)
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

// WithPrefix path prefix of all keys in the bucket
func WithPrefix(v string) Option {
	return func(o *Store) {
		if v != "" && !strings.HasSuffix(v, "/") {
			v += "/"
		}
		o.prefix = v
	}
}

// WithLimit number of versioned snapshots to keep besides the latest one
func WithLimit(v int) Option {
	return func(o *Store) {
		o.limit = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// Open opens the bucket at bucketURL, e.g. "file:///var/lib/cmsfront" or "gs://bucket"
func Open(ctx context.Context, l *zap.Logger, bucketURL string, opts ...Option) (*Store, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open snapshot bucket %q", bucketURL)
	}
	return New(l, bucket, opts...), nil
}

func New(l *zap.Logger, bucket *blob.Bucket, opts ...Option) *Store {
	inst := &Store{
		l:      l.Named("snapshot"),
		bucket: bucket,
		limit:  2,
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Save writes sites as a new version and as the latest snapshot, then removes
// versions beyond the limit
func (s *Store) Save(ctx context.Context, sites content.Sites) error {
	data, err := json.Marshal(sites)
	if err != nil {
		return errors.Wrap(err, "failed to marshal site structure")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	versionKey := KeyPrefix + time.Now().UTC().Format(versionLayout) + KeySuffix
	if err := s.bucket.WriteAll(ctx, s.key(versionKey), data, nil); err != nil {
		return errors.Wrap(err, "failed to write snapshot version")
	}
	if err := s.bucket.WriteAll(ctx, s.key(LatestKey), data, nil); err != nil {
		return errors.Wrap(err, "failed to write latest snapshot")
	}
	s.l.Debug("saved snapshot", zap.String("version", versionKey), zap.Int("sites", len(sites)))
	return s.cleanup(ctx)
}

// Latest reads the latest snapshot, ErrNoSnapshot if there is none
func (s *Store) Latest(ctx context.Context) (content.Sites, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.bucket.ReadAll(ctx, s.key(LatestKey))
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, ErrNoSnapshot
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to read latest snapshot")
	}
	var sites content.Sites
	if err := json.Unmarshal(data, &sites); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal latest snapshot")
	}
	return sites, nil
}

// Versions keys of the versioned snapshots, newest first
func (s *Store) Versions(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions(ctx)
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bucket.Close()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) versions(ctx context.Context) ([]string, error) {
	iter := s.bucket.List(&blob.ListOptions{Prefix: s.key(KeyPrefix)})
	var keys []string
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, errors.Wrap(err, "failed to list snapshots")
		}
		key := strings.TrimPrefix(obj.Key, s.prefix)
		if key == LatestKey || !strings.HasSuffix(key, KeySuffix) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

func (s *Store) cleanup(ctx context.Context) error {
	keys, err := s.versions(ctx)
	if err != nil {
		return err
	}
	if len(keys) <= s.limit {
		return nil
	}
	for _, key := range keys[s.limit:] {
		s.l.Debug("removing outdated snapshot", zap.String("version", key))
		if err := s.bucket.Delete(ctx, s.key(key)); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
			return errors.Wrapf(err, "failed to remove snapshot %s", key)
		}
	}
	return nil
}
