package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"vision_runner/internal/models"
	"vision_runner/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser models.User
	registerErr  error
	loginToken   string
	loginUser    models.User
	loginErr     error
	parseID      int
	parseErr     error

	registerCalls     int
	lastRegisterEmail string
	lastLoginEmail    string
	lastLoginPassword string
	lastParseToken    string
}

func (m *mockAuth) Register(_ context.Context, username, email, password string) (models.User, error) {
	m.registerCalls++
	m.lastRegisterEmail = email
	return m.registerUser, m.registerErr
}
func (m *mockAuth) Login(_ context.Context, email, password string) (string, models.User, error) {
	m.lastLoginEmail = email
	m.lastLoginPassword = password
	return m.loginToken, m.loginUser, m.loginErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockPosts struct {
	created  models.Post
	updated  models.Post
	list     []models.Post
	err      error
	listErr  error
	calls    int
	lastID   int
	lastBody string
	author   int
}

func (m *mockPosts) CreatePost(_ context.Context, authorID int, content string) (models.Post, error) {
	m.calls++
	m.author = authorID
	m.lastBody = content
	if m.err != nil {
		return models.Post{}, m.err
	}
	p := m.created
	p.AuthorID = authorID
	p.Content = content
	return p, nil
}
func (m *mockPosts) ListPosts(context.Context) ([]models.Post, error) { return m.list, m.listErr }
func (m *mockPosts) UpdatePost(_ context.Context, id int, content string) (models.Post, error) {
	m.calls++
	m.lastID = id
	m.lastBody = content
	return m.updated, m.err
}
func (m *mockPosts) DeletePost(_ context.Context, id int) error {
	m.calls++
	m.lastID = id
	return m.err
}

type mockFutures struct {
	created  models.Future
	updated  models.Future
	list     []models.Future
	err      error
	listErr  error
	calls    int
	lastID   int
	lastBody string
}

func (m *mockFutures) CreateFuture(_ context.Context, content string) (models.Future, error) {
	m.calls++
	m.lastBody = content
	return m.created, m.err
}
func (m *mockFutures) ListFutures(context.Context) ([]models.Future, error) {
	return m.list, m.listErr
}
func (m *mockFutures) UpdateFuture(_ context.Context, id int, content string) (models.Future, error) {
	m.calls++
	m.lastID = id
	m.lastBody = content
	return m.updated, m.err
}
func (m *mockFutures) DeleteFuture(_ context.Context, id int) error {
	m.calls++
	m.lastID = id
	return m.err
}

type mockActivity struct {
	resp  []models.ActivityEvent
	err   error
	last  service.ActivityFilter
	calls int
}

func (m *mockActivity) ListActivity(_ context.Context, f service.ActivityFilter) ([]models.ActivityEvent, error) {
	m.calls++
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	return newTestRouterWith(s, Options{})
}

func newTestRouterWith(s *service.Service, opts Options) *gin.Engine {
	h := NewHandler(s, nil, opts)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// doJSON sends body (if any) as JSON and returns the recorded response.
func doJSON(r http.Handler, method, path, body string, hdr http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range hdr {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
