package page_test

import (
	"context"
	"sync"
	"testing"

	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/cache"
	"github.com/foomo/cmsfront/pkg/cms"
	"github.com/foomo/cmsfront/pkg/cmsapi"
	"github.com/foomo/cmsfront/pkg/cmsapi/mock"
	"github.com/foomo/cmsfront/pkg/page"
	"github.com/foomo/cmsfront/pkg/sites"
	"github.com/foomo/cmsfront/pkg/view"
	"github.com/foomo/cmsfront/requests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type semantic struct {
	mu    sync.Mutex
	pages []string
}

func (s *semantic) PageData(ctx context.Context, pc *content.PageContext) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	topic, ok := cms.SmartQueryTopic(pc)
	if !ok {
		return nil
	}
	s.pages = append(s.pages, pc.Data().ID)
	return map[string]any{"topic": topic}
}

func newTestService(t *testing.T, opts ...page.Option) (*page.Service, *mock.Server) {
	t.Helper()
	l := zaptest.NewLogger(t)
	server := mock.NewServer(t)
	client := cmsapi.New(l, server.URL, cmsapi.WithCredentials(mock.Username, mock.Password))
	c := cache.New(l, "test")
	repo := sites.New(l, client, c)
	return page.New(l, client, repo, cms.New(l), c, opts...), server
}

func render(t *testing.T, s *page.Service, hostname, url string) *page.Response {
	t.Helper()
	resp := s.Render(t.Context(), &requests.Page{Hostname: hostname, Variant: "default", URL: url})
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.RenderID)
	return resp
}

func TestRenderLanding(t *testing.T) {
	sem := &semantic{}
	s, server := newTestService(t, page.WithSemantic(sem))

	resp := render(t, s, "www.news.example", "")
	assert.False(t, resp.NotFound())
	assert.Equal(t, view.VariantLanding, resp.View.Variant)
	assert.True(t, resp.View.Layout)
	assert.True(t, resp.View.Meta)
	assert.Empty(t, resp.View.PageTitle)
	assert.Equal(t, "news", resp.Data.SiteName())
	assert.Equal(t, map[string]any{"topic": "elections"}, resp.SemanticSearchData)
	assert.Equal(t, map[string]map[string]string{"w2": {"location": "Hamburg", "type": "forecast"}}, resp.Widgets)

	again := render(t, s, "WWW.NEWS.EXAMPLE", "/")
	assert.Equal(t, resp.RenderID, again.RenderID, "rendered pages are cached")
	assert.Equal(t, 1, server.Calls("/api/pages/"))
	assert.Equal(t, 1, server.Calls("/core/sites"), "the site structure is cached")
	assert.Equal(t, []string{"p1"}, sem.pages)
}

func TestRenderArticle(t *testing.T) {
	s, _ := newTestService(t)

	resp := render(t, s, "www.news.example", "politics/first")
	assert.Equal(t, view.VariantArticle, resp.View.Variant)
	assert.Equal(t, "Politics/first", resp.View.PageTitle)
	require.NotNil(t, resp.Data.Helper())
	assert.NotNil(t, resp.Data.Helper().Content)
	assert.Nil(t, resp.SemanticSearchData)
	assert.Nil(t, resp.Widgets)
}

func TestRenderLiveblogSeed(t *testing.T) {
	s, server := newTestService(t)

	resp := render(t, s, "www.news.example", "live/derby")
	assert.Equal(t, view.VariantLiveblog, resp.View.Variant)
	require.Len(t, resp.View.Seed, 2)
	assert.Equal(t, "50", server.LastQuery("/api/liveblogs/lb1/posts").Get("limit"))

	goal := resp.View.Seed[0]
	assert.Equal(t, cms.PostEventGoal, goal.Event)
	assert.True(t, goal.Sticky)
	require.NotNil(t, goal.Author)
	assert.Equal(t, "Rita Reporter", goal.Author.Name)
	assert.Equal(t, cms.PostEventMatchStart, resp.View.Seed[1].Event)
	assert.Nil(t, resp.View.Seed[1].Author)
}

func TestRenderNotFound(t *testing.T) {
	s, server := newTestService(t)

	for name, tc := range map[string]struct{ hostname, url string }{
		"unknown hostname": {"www.elsewhere.example", "/"},
		"unknown url":      {"www.news.example", "nowhere"},
		"no data":          {"www.news.example", "broken"},
	} {
		t.Run(name, func(t *testing.T) {
			resp := render(t, s, tc.hostname, tc.url)
			assert.True(t, resp.NotFound())
			assert.Equal(t, content.ErrorNotFound, resp.Data.Error)
		})
	}

	render(t, s, "www.news.example", "nowhere")
	assert.Equal(t, 3, server.Calls("/api/pages/"), "not found pages are not cached")
}

func TestRenderCMSDown(t *testing.T) {
	s, server := newTestService(t)
	server.SetDown(true)
	assert.True(t, render(t, s, "www.news.example", "/").NotFound())
}

func TestRenderDevMode(t *testing.T) {
	s, _ := newTestService(t, page.WithDevMode(true))
	resp := render(t, s, "localhost", "/")
	assert.False(t, resp.NotFound())
	assert.Equal(t, "news", resp.Data.SiteName())
}

func TestPreview(t *testing.T) {
	s, _ := newTestService(t)

	resp, err := s.Preview(t.Context(), &requests.Preview{
		JWE:          mock.JWE,
		PreviewToken: mock.PreviewToken,
		Site:         "news",
		ForeignID:    "4711",
	})
	require.NoError(t, err)
	assert.Equal(t, view.Selection{Variant: view.VariantSegment}, resp.View)
	require.NotNil(t, resp.Data.LinkContext)
	assert.Equal(t, "strip", resp.Data.LinkTemplate())
	assert.True(t, resp.Data.IsPreview())

	resp, err = s.Preview(t.Context(), &requests.Preview{
		JWE:          "expired",
		PreviewToken: mock.PreviewToken,
		Site:         "news",
		ForeignID:    "4711",
	})
	require.NoError(t, err)
	assert.True(t, resp.NotFound())

	_, err = s.Preview(t.Context(), &requests.Preview{Site: "news"})
	require.Error(t, err)
}

func TestPageByID(t *testing.T) {
	s, _ := newTestService(t)

	resp := s.PageByID(t.Context(), "news", "a1", false)
	assert.Equal(t, view.VariantArticle, resp.View.Variant)
	assert.Equal(t, "/politics/first", resp.Data.URL())

	assert.True(t, s.PageByID(t.Context(), "news", "missing", false).NotFound())
}

func TestContext(t *testing.T) {
	s, _ := newTestService(t)

	pc := s.Context(t.Context(), "news", "/politics/first")
	require.NotNil(t, pc)
	assert.Equal(t, "a1", pc.Data().ID)

	assert.Nil(t, s.Context(t.Context(), "weather", "/"))
	assert.Nil(t, s.Context(t.Context(), "news", "nowhere"))
}

func TestLiveblogPosts(t *testing.T) {
	s, _ := newTestService(t)

	posts, err := s.LiveblogPosts(t.Context(), "news", "lb1", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, posts.Count)
	require.Len(t, posts.Posts, 2)
	require.NotNil(t, posts.Posts[0].Author)
	assert.Equal(t, "r1", posts.Posts[0].Author.ID)
	assert.Equal(t, "Goal!", cms.PostArticle(posts.Posts[0]).SelectElement("p").Text())

	_, err = s.LiveblogPosts(t.Context(), "news", "lb404", 10)
	require.ErrorIs(t, err, cmsapi.ErrNotFound)
}

func TestSearch(t *testing.T) {
	s, _ := newTestService(t)

	hits, err := s.Search(t.Context(), &requests.Search{Site: "news"})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a1", hits[0].Data().ID)
	assert.Equal(t, cms.LinkTemplateList, hits[0].LinkTemplate())
	assert.Equal(t, "news", hits[1].SiteName())
}
