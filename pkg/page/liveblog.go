package page

import (
	"context"

	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/cms"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LiveblogPosts shaped posts of a liveblog
type LiveblogPosts struct {
	Count int                 `json:"count"`
	Posts []*cms.LiveblogPost `json:"posts"`
}

// LiveblogPosts the latest limit posts of the liveblog id. The liveblog itself
// is loaded alongside to resolve the post authors.
func (s *Service) LiveblogPosts(ctx context.Context, site, id string, limit int) (*LiveblogPosts, error) {
	var (
		posts    *content.LiveblogPosts
		liveblog *content.PageContext
		g, gCtx  = errgroup.WithContext(ctx)
	)
	g.Go(func() error {
		var err error
		posts, err = s.backend.LiveblogPosts(gCtx, site, id, limit)
		return err
	})
	g.Go(func() error {
		payload, err := s.backend.PageByID(gCtx, site, id, false)
		if err != nil {
			s.l.Warn("failed to load liveblog, posts are shaped without authors", zap.String("id", id), zap.Error(err))
			return nil
		}
		liveblog = s.shaper.BuildPageContext(payload, nil, site, "", nil)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &LiveblogPosts{
		Count: posts.Count,
		Posts: s.shapePosts(liveblog, posts),
	}, nil
}

func (s *Service) shapePosts(liveblog *content.PageContext, posts *content.LiveblogPosts) []*cms.LiveblogPost {
	if posts == nil {
		return nil
	}
	reporters := cms.LiveblogReporters(liveblog.Data())
	ambassadors := cms.LiveblogAmbassadors(liveblog.Helper())
	ret := make([]*cms.LiveblogPost, 0, len(posts.Result))
	for _, post := range posts.Result {
		if shaped := s.shaper.ShapeLiveblogPost(post, reporters, ambassadors); shaped != nil {
			ret = append(ret, shaped)
		}
	}
	return ret
}
