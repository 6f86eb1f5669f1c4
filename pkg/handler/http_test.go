package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foomo/cmsfront/pkg/analytics"
	"github.com/foomo/cmsfront/pkg/cache"
	"github.com/foomo/cmsfront/pkg/cms"
	"github.com/foomo/cmsfront/pkg/cmsapi"
	"github.com/foomo/cmsfront/pkg/cmsapi/mock"
	"github.com/foomo/cmsfront/pkg/handler"
	"github.com/foomo/cmsfront/pkg/page"
	"github.com/foomo/cmsfront/pkg/sites"
	"github.com/foomo/cmsfront/responses"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type runner struct{}

func (r *runner) RunReport(ctx context.Context, property string, req *analyticsdata.RunReportRequest) (*analyticsdata.RunReportResponse, error) {
	return &analyticsdata.RunReportResponse{RowCount: 7}, nil
}

func (r *runner) BatchRunReports(ctx context.Context, property string, req *analyticsdata.BatchRunReportsRequest) (*analyticsdata.BatchRunReportsResponse, error) {
	resp := &analyticsdata.BatchRunReportsResponse{}
	for range req.Requests {
		resp.Reports = append(resp.Reports, &analyticsdata.RunReportResponse{RowCount: 1})
	}
	return resp, nil
}

func (r *runner) RunRealtimeReport(ctx context.Context, property string, req *analyticsdata.RunRealtimeReportRequest) (*analyticsdata.RunRealtimeReportResponse, error) {
	return &analyticsdata.RunRealtimeReportResponse{RowCount: 42}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *mock.Server, *sites.Repo) {
	t.Helper()
	l := zaptest.NewLogger(t)
	cmsServer := mock.NewServer(t)
	client := cmsapi.New(l, cmsServer.URL, cmsapi.WithCredentials(mock.Username, mock.Password))
	c := cache.New(l, "test")
	shaper := cms.New(l)
	repo := sites.New(l, client, c)
	h := handler.NewHTTP(l,
		page.New(l, client, repo, shaper, c),
		repo,
		handler.WithPolls(client),
		handler.WithAnalytics(analytics.New(l, &runner{}, c, shaper, "308647898")),
	)
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return server, cmsServer, repo
}

func get(t *testing.T, server *httptest.Server, path string, v any) int {
	t.Helper()
	return do(t, http.MethodGet, server.URL+path, v)
}

func do(t *testing.T, method, url string, v any) int {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if v != nil && resp.StatusCode != http.StatusBadRequest {
		require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		require.NoError(t, json.Unmarshal(data, v), string(data))
	}
	return resp.StatusCode
}

type pageReply struct {
	RenderID string `json:"renderId"`
	View     struct {
		Variant   string `json:"variant"`
		PageTitle string `json:"pageTitle"`
		Seed      []any  `json:"seed"`
	} `json:"view"`
	CMSData struct {
		Error string `json:"error"`
	} `json:"cmsData"`
	Widgets map[string]map[string]string `json:"widgets"`
}

func TestPage(t *testing.T) {
	server, _, _ := newTestServer(t)

	var reply pageReply
	assert.Equal(t, http.StatusOK, get(t, server, "/www.news.example/default/politics/first", &reply))
	assert.Equal(t, "article", reply.View.Variant)
	assert.Equal(t, "Politics/first", reply.View.PageTitle)
	assert.NotEmpty(t, reply.RenderID)

	reply = pageReply{}
	assert.Equal(t, http.StatusOK, get(t, server, "/www.news.example/default", &reply))
	assert.Equal(t, "landing", reply.View.Variant)
	assert.Equal(t, map[string]string{"location": "Hamburg", "type": "forecast"}, reply.Widgets["w2"])

	reply = pageReply{}
	assert.Equal(t, http.StatusOK, get(t, server, "/www.news.example/default/live/derby", &reply))
	assert.Equal(t, "liveblog", reply.View.Variant)
	assert.Len(t, reply.View.Seed, 2)
}

func TestPageNotFound(t *testing.T) {
	server, _, _ := newTestServer(t)

	var reply pageReply
	assert.Equal(t, http.StatusNotFound, get(t, server, "/www.news.example/default/nowhere", &reply))
	assert.Equal(t, "error", reply.View.Variant)
	assert.Equal(t, "not-found", reply.CMSData.Error)

	assert.Equal(t, http.StatusNotFound, get(t, server, "/www.elsewhere.example/default/", &reply))
}

func TestPreview(t *testing.T) {
	server, _, _ := newTestServer(t)

	var reply pageReply
	path := "/preview?emk.jwe=" + mock.JWE + "&emk.previewToken=" + mock.PreviewToken + "&emk.site=news&emk.foreignId=4711"
	assert.Equal(t, http.StatusOK, get(t, server, path, &reply))
	assert.Equal(t, "segment", reply.View.Variant)

	assert.Equal(t, http.StatusBadRequest, get(t, server, "/preview?emk.site=news", nil))
}

func TestPageByID(t *testing.T) {
	server, _, _ := newTestServer(t)

	var reply pageReply
	assert.Equal(t, http.StatusOK, get(t, server, "/api/news/pages/a1", &reply))
	assert.Equal(t, "article", reply.View.Variant)

	assert.Equal(t, http.StatusNotFound, get(t, server, "/api/news/pages/missing", &reply))
}

func TestLiveblog(t *testing.T) {
	server, cmsServer, _ := newTestServer(t)

	var posts page.LiveblogPosts
	assert.Equal(t, http.StatusOK, get(t, server, "/api/news/liveblogs/lb1?limit=10", &posts))
	assert.Equal(t, 2, posts.Count)
	assert.Len(t, posts.Posts, 2)
	assert.Equal(t, "10", cmsServer.LastQuery("/api/liveblogs/lb1/posts").Get("limit"))

	assert.Equal(t, http.StatusOK, get(t, server, "/api/news/liveblogs/lb1", &posts))
	assert.Equal(t, "50", cmsServer.LastQuery("/api/liveblogs/lb1/posts").Get("limit"))

	assert.Equal(t, http.StatusBadRequest, get(t, server, "/api/news/liveblogs/lb1?limit=all", nil))

	var e responses.Error
	assert.Equal(t, http.StatusNotFound, get(t, server, "/api/news/liveblogs/lb404", &e))
	assert.Equal(t, responses.CodeNotFound, e.Code)
}

func TestPoll(t *testing.T) {
	server, _, _ := newTestServer(t)

	for _, id := range []string{"poll-1", "123@eom"} {
		var details map[string]any
		assert.Equal(t, http.StatusOK, get(t, server, "/api/news/polls/details/"+id, &details), id)
		assert.NotEmpty(t, details, id)
	}

	var e responses.Error
	assert.Equal(t, http.StatusNotFound, get(t, server, "/api/news/polls/details/999@eom", &e))
}

func TestAnalytics(t *testing.T) {
	server, _, _ := newTestServer(t)

	var report analytics.Report
	assert.Equal(t, http.StatusOK, get(t, server, "/api/news/analytics/politics/first", &report))
	require.NotNil(t, report.Content)
	assert.Equal(t, int64(7), report.Content.GAData.RowCount)
	require.NotNil(t, report.Realtime)
	assert.Equal(t, int64(42), report.Realtime.RowCount)

	var e responses.Error
	assert.Equal(t, http.StatusNotFound, get(t, server, "/api/news/analytics/nowhere", &e))
	assert.Equal(t, http.StatusNotFound, get(t, server, "/api/weather/analytics/", &e))
}

func TestSearch(t *testing.T) {
	server, cmsServer, _ := newTestServer(t)

	var hits []map[string]any
	assert.Equal(t, http.StatusOK, get(t, server, "/api/news/search?sorting=sys.creationTime&order=desc&filter=sys.type:article", &hits))
	assert.Len(t, hits, 2)

	query := cmsServer.LastQuery("/api/search")
	assert.Equal(t, "-sys.creationTime", query.Get("sorting"))
	assert.Equal(t, "article", query.Get("sys.type"))

	assert.Equal(t, http.StatusBadRequest, get(t, server, "/api/news/search?filter=broken", nil))
}

func TestPaths(t *testing.T) {
	server, _, _ := newTestServer(t)

	var paths []cms.StaticPath
	assert.Equal(t, http.StatusOK, get(t, server, "/api/paths", &paths))
	assert.Equal(t, []cms.StaticPath{
		{Site: "www.news.example", URL: "politics"},
		{Site: "www.news.example", URL: "business"},
		{Site: "www.news.example", URL: ""},
		{Site: "sport.news.example", URL: ""},
	}, paths)
}

func TestUpdate(t *testing.T) {
	server, cmsServer, repo := newTestServer(t)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	go repo.Start(ctx) //nolint:errcheck
	assert.Eventually(t, repo.Loaded, time.Second, 10*time.Millisecond)

	var update responses.Update
	assert.Eventually(t, func() bool {
		update = responses.Update{}
		return do(t, http.MethodPost, server.URL+"/api/update", &update) == http.StatusOK
	}, time.Second, 10*time.Millisecond)
	assert.True(t, update.Success)
	assert.Equal(t, 2, update.Stats.NumberOfSites)
	assert.Equal(t, 3, update.Stats.NumberOfSections)

	cmsServer.SetDown(true)
	update = responses.Update{}
	assert.Equal(t, http.StatusInternalServerError, do(t, http.MethodPost, server.URL+"/api/update", &update))
	assert.False(t, update.Success)
	assert.Equal(t, -1, update.Stats.NumberOfSites)
}
