package cmsapi_test

import (
	"testing"

	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/cmsapi"
	"github.com/foomo/cmsfront/pkg/cmsapi/mock"
	"github.com/foomo/cmsfront/requests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T) (*cmsapi.Client, *mock.Server) {
	t.Helper()
	server := mock.NewServer(t)
	c := cmsapi.New(zaptest.NewLogger(t), server.URL+"/", cmsapi.WithCredentials(mock.Username, mock.Password))
	return c, server
}

func TestPage(t *testing.T) {
	c, server := newTestClient(t)

	payload, err := c.Page(t.Context(), "news", "/politics/first")
	require.NoError(t, err)
	require.NotNil(t, payload.Model.Data)
	assert.Equal(t, "a1", payload.Model.Data.ID)
	assert.Equal(t, content.BaseTypeArticle, payload.Model.Data.Sys.BaseType)
	assert.Equal(t, "news", server.LastQuery("/api/pages/").Get("emk.site"))

	payload, err = c.Page(t.Context(), "news", "/")
	require.NoError(t, err)
	assert.Equal(t, "p1", payload.Model.Data.ID)
	assert.Len(t, payload.Model.Nodes, 3)
}

func TestPageNotFound(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.Page(t.Context(), "news", "/nowhere")
	require.ErrorIs(t, err, cmsapi.ErrNotFound)

	_, err = c.Page(t.Context(), "unknown", "/")
	require.ErrorIs(t, err, cmsapi.ErrNotFound)
}

func TestPageUpstreamFailure(t *testing.T) {
	c, server := newTestClient(t)
	server.SetDown(true)
	_, err := c.Page(t.Context(), "news", "/")
	require.Error(t, err)
	assert.NotErrorIs(t, err, cmsapi.ErrNotFound)
}

func TestPageByID(t *testing.T) {
	c, server := newTestClient(t)

	payload, err := c.PageByID(t.Context(), "news", "a1", false)
	require.NoError(t, err)
	assert.Equal(t, "a1", payload.Model.Data.ID)

	payload, err = c.PageByID(t.Context(), "news", "123", true)
	require.NoError(t, err)
	assert.Equal(t, "poll-1", payload.Model.Data.ID)
	assert.Equal(t, 1, server.Calls("/api/pages/foreignid/123"))

	u, err := c.URLByID(t.Context(), "news", "a1", false)
	require.NoError(t, err)
	assert.Equal(t, "/politics/first", u)
	query := server.LastQuery("/api/urls/a1")
	assert.Equal(t, "CONTENT", query.Get("resolutionType"))
	assert.Equal(t, "HOST_RELATIVE", query.Get("urlIntent"))
}

func TestPreview(t *testing.T) {
	c, server := newTestClient(t)
	preview := &requests.Preview{
		JWE:            mock.JWE,
		PreviewToken:   mock.PreviewToken,
		Site:           "news",
		ForeignID:      "4711",
		PreviewSection: "/politics/",
	}

	payload, err := c.Preview(t.Context(), preview)
	require.NoError(t, err)
	assert.Equal(t, content.BaseTypeWebPageFragment, payload.Model.Data.Sys.BaseType)
	query := server.LastQuery("/api/pages/4711@eom")
	assert.Equal(t, "/politics/", query.Get("emk.previewSection"))
	assert.Equal(t, "true", query.Get("emk.disableCache"))

	preview.JWE = "forged"
	_, err = c.Preview(t.Context(), preview)
	require.Error(t, err)

	preview.JWE = ""
	_, err = c.Preview(t.Context(), preview)
	require.Error(t, err)
	assert.Equal(t, 2, server.Calls("/api/pages/4711@eom"), "invalid previews are not sent")
}

func TestSites(t *testing.T) {
	c, server := newTestClient(t)

	sites, err := c.Sites(t.Context())
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, 1, server.Calls("/directory/sessions/login"))

	news := sites.ByName("news")
	require.NotNil(t, news)
	assert.Equal(t, content.SiteCategoryMain, news.Category())
	require.NotNil(t, news.Sitemap)
	assert.Len(t, news.Sections(), 2)

	sport := sites.ByName("sport")
	require.NotNil(t, sport)
	assert.Nil(t, sport.Sitemap, "a failed sitemap keeps the site")
	assert.Equal(t, 2, server.Calls("/core/sites/sitemap"))
}

func TestSitesUnreachable(t *testing.T) {
	c, server := newTestClient(t)
	server.SetDown(true)
	_, err := c.Sites(t.Context())
	require.Error(t, err)
	assert.Equal(t, 0, server.Calls("/core/sites"))
}

func TestSearch(t *testing.T) {
	c, server := newTestClient(t)

	result, err := c.Search(t.Context(), &requests.Search{
		Site:    "news",
		Sorting: &requests.Sorting{Param: "sys.creationTime", Order: requests.OrderDesc},
		Filters: []requests.Filter{
			{Param: "sys.type", Value: "article"},
			{Param: "sys.type", Value: "liveblog"},
			{Param: "", Value: "ignored"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Result, 2)
	assert.Equal(t, "a2", result.Result[1].NodeData.ID)

	query := server.LastQuery("/api/search")
	assert.Equal(t, "-sys.creationTime", query.Get("sorting"))
	assert.Equal(t, []string{"article", "liveblog"}, query["sys.type"])
	assert.Equal(t, "news", query.Get("emk.site"))

	_, err = c.Search(t.Context(), &requests.Search{
		Site:    "news",
		Sorting: &requests.Sorting{Param: "title"},
	})
	require.NoError(t, err)
	assert.Equal(t, "+title", server.LastQuery("/api/search").Get("sorting"))
}

func TestLiveblogPosts(t *testing.T) {
	c, server := newTestClient(t)

	posts, err := c.LiveblogPosts(t.Context(), "news", "lb1", 50)
	require.NoError(t, err)
	assert.Equal(t, 2, posts.Count)
	require.Len(t, posts.Result, 2)
	assert.Equal(t, "post-2", posts.Result[0].ID)
	assert.Equal(t, "50", server.LastQuery("/api/liveblogs/lb1/posts").Get("limit"))

	_, err = c.LiveblogPosts(t.Context(), "news", "lb1", 0)
	require.NoError(t, err)
	assert.Empty(t, server.LastQuery("/api/liveblogs/lb1/posts").Get("limit"))
}

func TestPollDetails(t *testing.T) {
	c, server := newTestClient(t)

	details, err := c.PollDetails(t.Context(), "news", "123@eom")
	require.NoError(t, err)
	assert.Equal(t, 1, server.Calls("/api/pages/foreignid/123"))
	assert.Equal(t, "poll-1", server.LastQuery("/directory/polls/details").Get("nodeId"))
	m, ok := details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Who wins?", m["question"])

	_, err = c.PollDetails(t.Context(), "news", "poll-1")
	require.NoError(t, err)
	assert.Equal(t, 1, server.Calls("/api/pages/foreignid/123"), "plain ids are not resolved")

	_, err = c.PollDetails(t.Context(), "news", "999@eom")
	require.ErrorIs(t, err, cmsapi.ErrNotFound)
}
