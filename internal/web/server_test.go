package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-novels/internal/di"
	"github.com/goliatone/go-novels/internal/sessions"
	"github.com/goliatone/go-novels/internal/storage/storagetest"
)

type testClient struct {
	t      *testing.T
	server *Server
}

type response struct {
	Status     string          `json:"status"`
	Code       int             `json:"code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Total       int `json:"total"`
		Pages       int `json:"pages"`
		CurrentPage int `json:"current_page"`
		PerPage     int `json:"per_page"`
	} `json:"pagination"`
	Total      *int           `json:"total"`
	SearchInfo map[string]any `json:"search_info"`
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	c, err := di.New(di.Options{Storage: storagetest.NewProviders(t)})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	srv, err := New(c)
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	return &testClient{t: t, server: srv}
}

func (tc *testClient) do(method, path string, body any, token string, headers ...string) (int, response) {
	tc.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			tc.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(HeaderSessionID, token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := tc.server.App().Test(req, -1)
	if err != nil {
		tc.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var out response
	raw, _ := io.ReadAll(resp.Body)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &out); err != nil {
			tc.t.Fatalf("decode %s %s: %v (%s)", method, path, err, raw)
		}
	}
	return resp.StatusCode, out
}

func (tc *testClient) data(res response, out any) {
	tc.t.Helper()
	if err := json.Unmarshal(res.Data, out); err != nil {
		tc.t.Fatalf("decode data: %v (%s)", err, res.Data)
	}
}

func (tc *testClient) register(username, role string) {
	tc.t.Helper()
	status, res := tc.do(http.MethodPost, "/api/register", map[string]any{
		"username": username,
		"password": "secret1",
		"email":    username + "@example.com",
		"role":     role,
	}, "")
	if status != http.StatusCreated {
		tc.t.Fatalf("register %s: %d %s", username, status, res.Message)
	}
}

func (tc *testClient) login(username string) string {
	tc.t.Helper()
	status, res := tc.do(http.MethodPost, "/api/login", map[string]any{"username": username, "password": "secret1"}, "")
	if status != http.StatusOK {
		tc.t.Fatalf("login %s: %d %s", username, status, res.Message)
	}
	var out struct {
		SessionID string `json:"session_id"`
	}
	tc.data(res, &out)
	return out.SessionID
}

func TestAccountsFlow(t *testing.T) {
	tc := newTestClient(t)
	tc.register("mei", "reader")

	status, res := tc.do(http.MethodPost, "/api/register", map[string]any{
		"username": "mei", "password": "secret1", "email": "other@example.com",
	}, "")
	if status != http.StatusBadRequest || res.Status != "error" {
		t.Fatalf("expected duplicate to fail with 400, got %d", status)
	}

	if status, _ := tc.do(http.MethodPost, "/api/login", map[string]any{"username": "mei", "password": "wrong!!"}, ""); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", status)
	}

	token := tc.login("mei")
	status, res = tc.do(http.MethodGet, "/api/current_user", nil, token)
	if status != http.StatusOK {
		t.Fatalf("current user: %d", status)
	}
	var me struct {
		Username string `json:"username"`
	}
	tc.data(res, &me)
	if me.Username != "mei" {
		t.Fatalf("unexpected identity %+v", me)
	}

	if status, _ := tc.do(http.MethodGet, "/api/current_user", nil, ""); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	if status, _ := tc.do(http.MethodPost, "/api/logout", map[string]any{"session_id": token}, ""); status != http.StatusOK {
		t.Fatalf("logout: %d", status)
	}
	if status, _ := tc.do(http.MethodGet, "/api/current_user", nil, token); status != http.StatusUnauthorized {
		t.Fatalf("expected token to be invalid after logout, got %d", status)
	}
	if status, _ := tc.do(http.MethodPost, "/api/logout", nil, token); status != http.StatusUnauthorized {
		t.Fatalf("expected second logout to fail, got %d", status)
	}
}

func TestNovelChapterFlow(t *testing.T) {
	tc := newTestClient(t)
	tc.register("author", "author")
	tc.register("reader", "reader")
	author := tc.login("author")
	reader := tc.login("reader")

	status, res := tc.do(http.MethodPost, "/api/novels", map[string]any{
		"title": "Dragon Road", "description": "a dragon tale", "cover_url": "c.png", "status": "published",
	}, author)
	if status != http.StatusCreated {
		t.Fatalf("create novel: %d %s", status, res.Message)
	}
	var created struct {
		NovelID string `json:"novel_id"`
	}
	tc.data(res, &created)

	status, res = tc.do(http.MethodPost, "/api/chapters", map[string]any{
		"novel_id": created.NovelID, "chapter_num": 1, "title": "Start", "content": "你好世界",
	}, author)
	if status != http.StatusCreated {
		t.Fatalf("create chapter: %d %s", status, res.Message)
	}
	var chapter struct {
		ChapterID string `json:"chapter_id"`
		WordCount int    `json:"word_count"`
	}
	tc.data(res, &chapter)
	if chapter.WordCount != 4 {
		t.Fatalf("expected 4 words, got %d", chapter.WordCount)
	}

	status, _ = tc.do(http.MethodPost, "/api/chapters", map[string]any{
		"novel_id": created.NovelID, "chapter_num": 2, "title": "Hijack", "content": "x",
	}, reader)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", status)
	}

	status, res = tc.do(http.MethodGet, "/api/novels/"+created.NovelID, nil, "")
	if status != http.StatusOK {
		t.Fatalf("get novel: %d", status)
	}
	var novel struct {
		WordCount int `json:"word_count"`
	}
	tc.data(res, &novel)
	if novel.WordCount != 4 {
		t.Fatalf("expected novel word count 4, got %d", novel.WordCount)
	}

	status, res = tc.do(http.MethodGet, "/api/chapters/novel/"+created.NovelID, nil, "")
	if status != http.StatusOK || res.Total == nil || *res.Total != 1 {
		t.Fatalf("list chapters: %d %+v", status, res.Total)
	}

	if status, _ := tc.do(http.MethodGet, "/api/chapters/"+chapter.ChapterID, nil, ""); status != http.StatusOK {
		t.Fatalf("get chapter: %d", status)
	}
	if status, _ := tc.do(http.MethodGet, "/api/novels/not-a-uuid", nil, ""); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", status)
	}
	if status, _ := tc.do(http.MethodGet, "/api/novels/00000000-0000-0000-0000-000000000001", nil, ""); status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing novel, got %d", status)
	}

	status, res = tc.do(http.MethodGet, "/api/novels?page=1&per_page=500", nil, "")
	if status != http.StatusOK || res.Pagination == nil || res.Pagination.PerPage != 100 {
		t.Fatalf("expected per_page clamped to 100, got %d %+v", status, res.Pagination)
	}
	if status, _ := tc.do(http.MethodGet, "/api/novels?page=abc", nil, ""); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed page, got %d", status)
	}

	// Engagement: comments, favorites, reading.
	status, res = tc.do(http.MethodPost, "/api/comments", map[string]any{"novel_id": created.NovelID, "content": "great"}, reader)
	if status != http.StatusCreated {
		t.Fatalf("comment: %d %s", status, res.Message)
	}
	var comment struct {
		CommentID string `json:"comment_id"`
	}
	tc.data(res, &comment)
	if status, _ := tc.do(http.MethodPost, "/api/comments", map[string]any{"novel_id": created.NovelID, "content": "agreed", "parent_id": comment.CommentID}, author); status != http.StatusCreated {
		t.Fatalf("reply: %d", status)
	}
	status, res = tc.do(http.MethodGet, "/api/comments/novel/"+created.NovelID, nil, "")
	if status != http.StatusOK || res.Pagination == nil || res.Pagination.PerPage != 20 || res.Pagination.Total != 1 {
		t.Fatalf("list comments: %d %+v", status, res.Pagination)
	}

	if status, _ := tc.do(http.MethodPost, "/api/favorites", map[string]any{"novel_id": created.NovelID}, reader); status != http.StatusCreated {
		t.Fatalf("favorite: %d", status)
	}
	if status, _ := tc.do(http.MethodPost, "/api/favorites", map[string]any{"novel_id": created.NovelID}, reader); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate favorite, got %d", status)
	}
	status, res = tc.do(http.MethodGet, "/api/favorites/my?per_page=80", nil, reader)
	if status != http.StatusOK || res.Pagination == nil || res.Pagination.PerPage != 50 || res.Pagination.Total != 1 {
		t.Fatalf("my favorites: %d %+v", status, res.Pagination)
	}

	if status, _ := tc.do(http.MethodPost, "/api/reading/record", map[string]any{"chapter_id": chapter.ChapterID, "progress": 60, "duration": 30}, reader); status != http.StatusOK {
		t.Fatalf("record reading: %d", status)
	}
	status, res = tc.do(http.MethodGet, "/api/reading/continue", nil, reader)
	if status != http.StatusOK {
		t.Fatalf("continue: %d", status)
	}
	var shelf []struct {
		Progress int `json:"progress"`
	}
	tc.data(res, &shelf)
	if len(shelf) != 1 || shelf[0].Progress != 60 {
		t.Fatalf("unexpected continue shelf %+v", shelf)
	}

	status, res = tc.do(http.MethodGet, "/api/author/novels/"+created.NovelID+"/stats", nil, author)
	if status != http.StatusOK {
		t.Fatalf("stats: %d", status)
	}
	var stats struct {
		Chapters  int `json:"chapters"`
		Favorites int `json:"favorites"`
		Comments  int `json:"comments"`
		Readers   int `json:"readers"`
	}
	tc.data(res, &stats)
	if stats.Chapters != 1 || stats.Favorites != 1 || stats.Comments != 2 || stats.Readers != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if status, _ := tc.do(http.MethodGet, "/api/author/novels/"+created.NovelID+"/stats", nil, reader); status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner stats, got %d", status)
	}
	status, res = tc.do(http.MethodGet, "/api/author/novels", nil, author)
	if status != http.StatusOK || res.Pagination == nil || res.Pagination.Total != 1 {
		t.Fatalf("author novels: %d %+v", status, res.Pagination)
	}

	if status, _ := tc.do(http.MethodDelete, "/api/favorites/"+created.NovelID, nil, reader); status != http.StatusOK {
		t.Fatalf("remove favorite: %d", status)
	}
	if status, _ := tc.do(http.MethodDelete, "/api/favorites/"+created.NovelID, nil, reader); status != http.StatusNotFound {
		t.Fatalf("expected 404 removing missing favorite, got %d", status)
	}
}

func TestSearchEndpoints(t *testing.T) {
	tc := newTestClient(t)
	tc.register("author", "author")
	author := tc.login("author")
	for _, title := range []string{"Dragon Road", "Dragon Sea"} {
		if status, _ := tc.do(http.MethodPost, "/api/novels", map[string]any{
			"title": title, "description": "d", "cover_url": "c", "status": "published",
		}, author); status != http.StatusCreated {
			t.Fatalf("create novel: %d", status)
		}
	}

	status, res := tc.do(http.MethodGet, "/api/search/novels?keyword=dragon", nil, "")
	if status != http.StatusOK {
		t.Fatalf("search: %d %s", status, res.Message)
	}
	if res.Pagination == nil || res.Pagination.Total != 2 || res.Pagination.PerPage != 10 {
		t.Fatalf("unexpected pagination %+v", res.Pagination)
	}
	if res.SearchInfo["keyword"] != "dragon" || res.SearchInfo["status"] != nil {
		t.Fatalf("unexpected search info %+v", res.SearchInfo)
	}

	status, res = tc.do(http.MethodGet, "/api/search/novels?keyword=", nil, "", "Accept-Language", "zh-CN,zh;q=0.9")
	if status != http.StatusBadRequest || res.Message != "请输入搜索关键词" {
		t.Fatalf("expected localized keyword error, got %d %q", status, res.Message)
	}

	status, res = tc.do(http.MethodGet, "/api/search/popular", nil, "")
	if status != http.StatusOK || res.Message != "Found 2 popular novels" {
		t.Fatalf("popular: %d %q", status, res.Message)
	}
	status, res = tc.do(http.MethodGet, "/api/search/popular", nil, "", "Accept-Language", "zh")
	if status != http.StatusOK || res.Message != "找到 2 本热门小说" {
		t.Fatalf("popular zh: %d %q", status, res.Message)
	}

	status, res = tc.do(http.MethodGet, "/api/search/health", nil, "")
	if status != http.StatusOK {
		t.Fatalf("search health: %d", status)
	}
	var health struct {
		Database string `json:"database"`
		Cache    struct {
			Hits    int `json:"hits"`
			Entries int `json:"entries"`
		} `json:"cache"`
	}
	tc.data(res, &health)
	if health.Database != "ok" || health.Cache.Hits != 1 || health.Cache.Entries != 2 {
		t.Fatalf("unexpected health %+v", health)
	}

	status, res = tc.do(http.MethodGet, "/api/search/novels?keyword=dragon&status=", nil, "")
	if status != http.StatusOK || res.Pagination == nil || res.Pagination.Total != 2 {
		t.Fatalf("empty status search: %d %+v", status, res.Pagination)
	}
	if got, ok := res.SearchInfo["status"]; !ok || got != "" {
		t.Fatalf("expected empty status echoed, got %+v", res.SearchInfo)
	}
}

func TestHomeAndHealth(t *testing.T) {
	tc := newTestClient(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := tc.server.App().Test(req, -1)
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "/api/search/novels") {
		t.Fatalf("unexpected home page %d: %s", resp.StatusCode, body)
	}

	if status, res := tc.do(http.MethodGet, "/api/health", nil, ""); status != http.StatusOK || res.Status != "success" {
		t.Fatalf("health: %d", status)
	}
	if status, res := tc.do(http.MethodGet, "/api/unknown", nil, ""); status != http.StatusNotFound || res.Status != "error" {
		t.Fatalf("expected 404 envelope, got %d", status)
	}
}

type downSessions struct {
	sessions.Store
}

func (downSessions) Get(context.Context, string) (sessions.Identity, bool, error) {
	return sessions.Identity{}, false, errors.New("redis: connection refused")
}

func TestSessionBackendFailureIs500(t *testing.T) {
	c, err := di.New(di.Options{
		Storage:  storagetest.NewProviders(t),
		Sessions: downSessions{Store: sessions.NewMemory()},
	})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	srv, err := New(c)
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	tc := &testClient{t: t, server: srv}

	status, res := tc.do(http.MethodGet, "/api/current_user", nil, "some-token")
	if status != http.StatusInternalServerError || res.Status != "error" {
		t.Fatalf("expected 500 envelope, got %d %q", status, res.Message)
	}
	if strings.Contains(res.Message, "connection refused") {
		t.Fatalf("backend detail leaked to client: %q", res.Message)
	}
	if status, _ := tc.do(http.MethodGet, "/api/current_user", nil, ""); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}
}
