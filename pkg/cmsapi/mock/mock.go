package mock

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	Username = "cmsfront"
	Password = "secret"
	Token    = "session-token"
	JWE      = "preview-jwe"
	// PreviewToken value of the emk.previewToken cookie
	PreviewToken = "preview-token"
)

// Server a fake CMS serving the json fixtures next to this file
type Server struct {
	*httptest.Server
	mu    sync.Mutex
	calls map[string]int
	last  map[string]url.Values
	// Latency added to every response
	Latency time.Duration
	// Down answers every request with 503
	Down bool
}

// NewServer starts a fake CMS, stopped with the test
func NewServer(tb testing.TB) *Server {
	tb.Helper()
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Dir(filename)

	s := &Server{calls: map[string]int{}, last: map[string]url.Values{}}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		s.last[r.URL.Path] = r.URL.Query()
		down, latency := s.Down, s.Latency
		s.mu.Unlock()

		time.Sleep(latency)
		if down {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
			return
		}
		if name := s.fixture(w, r); name != "" {
			http.ServeFile(w, r, path.Join(dir, "fixtures", name))
		}
	}))
	tb.Cleanup(s.Close)
	return s
}

// Calls number of requests for urlPath
func (s *Server) Calls(urlPath string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[urlPath]
}

// LastQuery query of the latest request for urlPath
func (s *Server) LastQuery(urlPath string) url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last[urlPath]
}

func (s *Server) SetDown(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Down = v
}

// fixture maps a request to a fixture file name. Requests that are answered
// directly return "".
func (s *Server) fixture(w http.ResponseWriter, r *http.Request) string {
	query := r.URL.Query()
	p := r.URL.Path
	switch {
	case p == "/directory/sessions/login":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return ""
		}
		return "login.json"
	case p == "/core/sites":
		if query.Get("emauth") != Token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return ""
		}
		return "sites.json"
	case p == "/core/sites/sitemap":
		if query.Get("emauth") != Token || query.Get("viewStatus") != "LIVE" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return ""
		}
		return "sitemap-" + query.Get("siteName") + ".json"
	case p == "/api/pages/":
		name := strings.Trim(query.Get("url"), "/")
		if name == "" {
			name = "index"
		}
		return "page-" + query.Get("emk.site") + "-" + strings.ReplaceAll(name, "/", "-") + ".json"
	case strings.HasSuffix(p, "@eom"):
		if r.Header.Get("Authorization") != "Bearer "+JWE {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return ""
		}
		if cookie, err := r.Cookie("emk.previewToken"); err != nil || cookie.Value != PreviewToken {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return ""
		}
		return "preview-" + strings.TrimSuffix(path.Base(p), "@eom") + ".json"
	case strings.HasPrefix(p, "/api/pages/foreignid/"):
		return "page-foreignid-" + path.Base(p) + ".json"
	case strings.HasPrefix(p, "/api/pages/"):
		return "page-id-" + path.Base(p) + ".json"
	case strings.HasPrefix(p, "/api/urls/"):
		return "url-" + path.Base(p) + ".json"
	case p == "/api/search":
		return "search.json"
	case strings.HasPrefix(p, "/api/liveblogs/"):
		return "liveblog-posts-" + path.Base(path.Dir(p)) + ".json"
	case p == "/directory/polls/details":
		return "poll-" + query.Get("nodeId") + ".json"
	}
	http.NotFound(w, r)
	return ""
}
