package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"commentshub/internal/config"
	"commentshub/internal/events"
	"commentshub/internal/middleware/auth"
	"commentshub/internal/microservices/http-api/cache"
	"commentshub/internal/microservices/http-api/dto"
	"commentshub/internal/microservices/http-api/models"
	"commentshub/internal/microservices/http-api/repository"
	"commentshub/internal/microservices/http-api/repository/memory"
	"commentshub/internal/microservices/http-api/router"
	"commentshub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func init() {
	gin.SetMode(gin.TestMode)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, routingKey)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

var _ events.Publisher = (*recordingPublisher)(nil)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "handler-test-secret",
		AccessTokenTTL:  5 * time.Minute,
		RefreshTokenTTL: time.Hour,
		CacheTTL:        time.Minute,
		CachePrefix:     "test",
	}
}

// APISuite drives the full router over the in-memory store. Every test starts
// from the same fixture:
//
//	user 1 test1 (authenticated by default), user 2 test2
//	comment 1 by test1 "Let's agree", comment 2 by test2 replying to 1
type APISuite struct {
	suite.Suite

	cfg       *config.Config
	repos     repository.Repositories
	auth      service.AuthService
	services  router.Services
	publisher *recordingPublisher
	store     cache.Store
	engine    *gin.Engine

	token  string
	token2 string
}

func (s *APISuite) SetupTest() {
	ctx := context.Background()
	hasher := auth.NewHasher(bcrypt.MinCost)

	s.cfg = testConfig()
	s.repos = memory.New().Repositories()
	s.publisher = &recordingPublisher{}
	s.store = nil

	s.auth = service.NewAuthService(s.repos.Users, s.repos.RefreshTokens, hasher, s.cfg)
	notifications := service.NewNotificationService(s.repos.Notifications)
	s.services = router.Services{
		Auth:          s.auth,
		Users:         service.NewUserService(s.repos.Users, hasher),
		Comments:      service.NewCommentService(s.repos.Comments, notifications, s.publisher, discardLogger),
		Notifications: notifications,
	}

	hash, err := hasher.Hash("string")
	s.Require().NoError(err)
	test1 := &models.User{Email: "test1@gmail.com", Username: "test1", FirstName: "test1_name", LastName: "test1_surname", Password: hash, IsActive: true}
	test2 := &models.User{Email: "test2@gmail.com", Username: "test2", FirstName: "test2_name", LastName: "test2_surname", Password: hash, IsActive: true}
	s.Require().NoError(s.repos.Users.Create(ctx, test1))
	s.Require().NoError(s.repos.Users.Create(ctx, test2))

	parent := &models.Comment{UserID: test1.ID, Home: "https://google.com", Text: "Let's agree"}
	s.Require().NoError(s.repos.Comments.Create(ctx, parent))
	s.Require().NoError(s.repos.Comments.Create(ctx, &models.Comment{UserID: test2.ID, Text: "to disagree!", ReplyID: &parent.ID}))

	s.token = s.login("test1", "string")
	s.token2 = s.login("test2", "string")
	s.rebuild()
}

// rebuild recreates the router after s.cfg or s.store changed.
func (s *APISuite) rebuild() {
	s.engine = router.New(s.cfg, s.services, s.store, discardLogger)
}

func (s *APISuite) login(username, password string) string {
	pair, err := s.auth.Obtain(context.Background(), username, password)
	s.Require().NoError(err)
	return pair.Access
}

// request sends body as JSON. An empty token sends no Authorization header.
func (s *APISuite) request(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// as performs the request as test1.
func (s *APISuite) as(method, path, body string) *httptest.ResponseRecorder {
	return s.request(method, path, s.token, body)
}

func (s *APISuite) anon(method, path, body string) *httptest.ResponseRecorder {
	return s.request(method, path, "", body)
}

func (s *APISuite) decode(w *httptest.ResponseRecorder, v any) {
	s.T().Helper()
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *APISuite) assertDetail(w *httptest.ResponseRecorder, status int, detail, code string) {
	s.T().Helper()
	s.Equal(status, w.Code, w.Body.String())
	var body dto.ErrorResponse
	s.decode(w, &body)
	s.Equal(dto.ErrorResponse{Detail: detail, Code: code}, body)
}

func (s *APISuite) assertNotAuthenticated(w *httptest.ResponseRecorder) {
	s.T().Helper()
	s.assertDetail(w, http.StatusUnauthorized, dto.MsgNotAuthenticated, dto.CodeNotAuthenticated)
}

func (s *APISuite) assertForbidden(w *httptest.ResponseRecorder) {
	s.T().Helper()
	s.assertDetail(w, http.StatusForbidden, dto.MsgPermissionDenied, dto.CodePermissionDenied)
}

func (s *APISuite) assertNotFound(w *httptest.ResponseRecorder) {
	s.T().Helper()
	s.assertDetail(w, http.StatusNotFound, dto.MsgNotFound, dto.CodeNotFound)
}

// assertFieldErrors checks one key of a 400 validation body.
func (s *APISuite) assertFieldErrors(w *httptest.ResponseRecorder, field string, messages ...string) {
	s.T().Helper()
	s.Equal(http.StatusBadRequest, w.Code, w.Body.String())
	var body map[string][]string
	s.decode(w, &body)
	s.Equal(messages, body[field], w.Body.String())
}
