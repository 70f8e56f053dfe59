package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"commentshub/internal/microservices/http-api/cache"
	"commentshub/internal/microservices/http-api/dto"

	"github.com/stretchr/testify/suite"
)

type FlowSuite struct {
	APISuite
}

func TestFlows(t *testing.T) {
	suite.Run(t, new(FlowSuite))
}

func (s *FlowSuite) obtain(username, password string) dto.TokenPairResponse {
	w := s.anon(http.MethodPost, "/api/token/", `{"username":"`+username+`","password":"`+password+`"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var pair dto.TokenPairResponse
	s.decode(w, &pair)
	return pair
}

func (s *FlowSuite) TestHealthz() {
	w := s.anon(http.MethodGet, "/healthz", "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok"}`, w.Body.String())
}

func (s *FlowSuite) TestToken_Obtain() {
	pair := s.obtain("test1", "string")
	s.NotEmpty(pair.Access)
	s.NotEmpty(pair.Refresh)

	w := s.request(http.MethodGet, "/users/1/", pair.Access, "")
	s.Equal(http.StatusOK, w.Code)

	user, err := s.repos.Users.FindByID(s.T().Context(), 1)
	s.Require().NoError(err)
	s.NotNil(user.LastLogin)
}

func (s *FlowSuite) TestToken_ObtainErrors() {
	s.assertDetail(s.anon(http.MethodPost, "/api/token/", `{"username":"test1","password":"wrong"}`),
		http.StatusUnauthorized, dto.MsgNoActiveAccount, dto.CodeNoActiveAccount)
	s.assertDetail(s.anon(http.MethodPost, "/api/token/", `{"username":"nobody","password":"string"}`),
		http.StatusUnauthorized, dto.MsgNoActiveAccount, dto.CodeNoActiveAccount)
	s.assertFieldErrors(s.anon(http.MethodPost, "/api/token/", `{"username":"test1"}`), "password", dto.MsgRequired)
}

func (s *FlowSuite) TestToken_IgnoresAuthorizationHeader() {
	w := s.request(http.MethodPost, "/api/token/", "garbage", `{"username":"test1","password":"string"}`)
	s.Equal(http.StatusOK, w.Code)
}

func (s *FlowSuite) TestToken_RefreshRotates() {
	pair := s.obtain("test1", "string")

	w := s.anon(http.MethodPost, "/api/token/refresh/", `{"refresh":"`+pair.Refresh+`"}`)
	s.Require().Equal(http.StatusOK, w.Code)
	var rotated dto.TokenPairResponse
	s.decode(w, &rotated)
	s.NotEqual(pair.Refresh, rotated.Refresh)
	s.Equal(http.StatusOK, s.request(http.MethodGet, "/users/", rotated.Access, "").Code)

	// the old refresh token is spent
	s.assertDetail(s.anon(http.MethodPost, "/api/token/refresh/", `{"refresh":"`+pair.Refresh+`"}`),
		http.StatusUnauthorized, dto.MsgTokenNotValid, dto.CodeTokenNotValid)
}

func (s *FlowSuite) TestToken_Verify() {
	w := s.anon(http.MethodPost, "/api/token/verify/", `{"token":"`+s.token+`"}`)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{}`, w.Body.String())

	s.assertDetail(s.anon(http.MethodPost, "/api/token/verify/", `{"token":"nope"}`),
		http.StatusUnauthorized, dto.MsgTokenNotValid, dto.CodeTokenNotValid)

	// a refresh token is not an access token
	pair := s.obtain("test1", "string")
	s.Equal(http.StatusUnauthorized, s.anon(http.MethodPost, "/api/token/verify/", `{"token":"`+pair.Refresh+`"}`).Code)
}

func (s *FlowSuite) TestToken_Revoke() {
	pair := s.obtain("test1", "string")

	w := s.anon(http.MethodPost, "/api/token/revoke/", `{"refresh":"`+pair.Refresh+`"}`)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{}`, w.Body.String())

	s.Equal(http.StatusUnauthorized, s.anon(http.MethodPost, "/api/token/refresh/", `{"refresh":"`+pair.Refresh+`"}`).Code)

	// unknown tokens are not reported
	s.Equal(http.StatusOK, s.anon(http.MethodPost, "/api/token/revoke/", `{"refresh":"unknown"}`).Code)
}

func (s *FlowSuite) TestAuthenticationErrors() {
	w := s.request(http.MethodGet, "/users/", "not-a-jwt", "")
	s.assertDetail(w, http.StatusUnauthorized, dto.MsgTokenNotValid, dto.CodeTokenNotValid)
	s.Equal(`Bearer realm="api"`, w.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodGet, "/users/", nil)
	req.Header.Set("Authorization", "Bearer a b")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	s.assertDetail(rec, http.StatusUnauthorized, dto.MsgInvalidAuthHeader, dto.CodeBadAuthHeader)

	anon := s.anon(http.MethodGet, "/users/", "")
	s.assertNotAuthenticated(anon)
	s.Equal(`Bearer realm="api"`, anon.Header().Get("WWW-Authenticate"))
}

func (s *FlowSuite) TestNotifications() {
	s.assertNotAuthenticated(s.anon(http.MethodGet, "/notifications/unread/", ""))

	s.Require().Equal(http.StatusCreated, s.request(http.MethodPost, "/comments/", s.token2, `{"text":"one","reply":1}`).Code)
	s.Require().Equal(http.StatusCreated, s.request(http.MethodPost, "/comments/", s.token2, `{"text":"two","reply":1}`).Code)

	var unread struct {
		Notifications []dto.NotificationResponse `json:"notifications"`
	}
	s.decode(s.as(http.MethodGet, "/notifications/unread/", ""), &unread)
	s.Require().Len(unread.Notifications, 2)
	s.Equal(int64(2), unread.Notifications[0].ID)

	// someone else's notification
	s.assertForbidden(s.request(http.MethodPut, "/notifications/1/read/", s.token2, ""))
	s.assertNotFound(s.as(http.MethodPut, "/notifications/99/read/", ""))

	w := s.as(http.MethodPut, "/notifications/1/read/", "")
	s.Equal(http.StatusNoContent, w.Code)
	s.decode(s.as(http.MethodGet, "/notifications/unread/", ""), &unread)
	s.Require().Len(unread.Notifications, 1)
	s.NotEqual(int64(1), unread.Notifications[0].ID)

	s.Equal(http.StatusNoContent, s.as(http.MethodPut, "/notifications/read-all/", "").Code)
	s.decode(s.as(http.MethodGet, "/notifications/unread/", ""), &unread)
	s.Empty(unread.Notifications)
}

func (s *FlowSuite) TestPagination() {
	s.cfg.PageSize = 1
	s.rebuild()

	var page dto.Page[dto.UserResponse]
	s.decode(s.as(http.MethodGet, "/users/", ""), &page)
	s.Equal(int64(2), page.Count)
	s.Require().Len(page.Results, 1)
	s.Equal("test1", page.Results[0].Username)
	s.Require().NotNil(page.Next)
	s.Equal("http://example.com/users/?page=2", *page.Next)
	s.Nil(page.Previous)

	page = dto.Page[dto.UserResponse]{}
	s.decode(s.as(http.MethodGet, "/users/?page=2", ""), &page)
	s.Require().Len(page.Results, 1)
	s.Equal("test2", page.Results[0].Username)
	s.Nil(page.Next)
	s.Require().NotNil(page.Previous)
	s.Equal("http://example.com/users/", *page.Previous)

	page = dto.Page[dto.UserResponse]{}
	s.decode(s.as(http.MethodGet, "/users/?page=last", ""), &page)
	s.Require().Len(page.Results, 1)
	s.Equal("test2", page.Results[0].Username)

	for _, bad := range []string{"3", "0", "x", "922337203685477582", "9223372036854775807"} {
		s.assertDetail(s.as(http.MethodGet, "/users/?page="+bad, ""), http.StatusNotFound, dto.MsgInvalidPage, dto.CodeNotFound)
	}
}

func (s *FlowSuite) TestPagination_Comments() {
	s.cfg.PageSize = 1
	s.rebuild()

	w := s.request(http.MethodGet, "/comments/?page=2", s.token, "")
	s.Require().Equal(http.StatusOK, w.Code)
	var page dto.Page[dto.CommentResponse]
	s.decode(w, &page)
	s.Equal(int64(2), page.Count)
	s.Require().Len(page.Results, 1)
	s.Equal(int64(1), page.Results[0].ID)
	s.Len(page.Results[0].Replies, 1)
}

func (s *FlowSuite) TestResponseCache_ServesStaleUntilExpiry() {
	s.cfg.CacheEnabled = true
	store, err := cache.NewMemoryStore(16)
	s.Require().NoError(err)
	s.store = store
	s.rebuild()

	first := s.as(http.MethodGet, "/users/1/", "")
	s.Equal(http.StatusOK, first.Code)
	s.Equal("MISS", first.Header().Get("X-Cache"))

	s.Require().Equal(http.StatusOK, s.as(http.MethodPatch, "/users/1/", `{"first_name":"changed"}`).Code)

	second := s.as(http.MethodGet, "/users/1/", "")
	s.Equal("HIT", second.Header().Get("X-Cache"))
	s.JSONEq(first.Body.String(), second.Body.String())

	// the key is the URL only, so other callers see the same entry
	third := s.request(http.MethodGet, "/users/1/", s.token2, "")
	s.Equal("HIT", third.Header().Get("X-Cache"))

	// the permission gate still runs first
	s.assertNotAuthenticated(s.anon(http.MethodGet, "/users/1/", ""))

	// errors are not cached
	s.Equal("MISS", s.as(http.MethodGet, "/users/9/", "").Header().Get("X-Cache"))
	s.Equal("MISS", s.as(http.MethodGet, "/users/9/", "").Header().Get("X-Cache"))
}

func (s *FlowSuite) TestThrottle_AnonymousWrites() {
	s.cfg.RateLimitRPS = 0.001
	s.cfg.RateLimitBurst = 1
	s.rebuild()

	body := `{"username":"test1","password":"string"}`
	s.Equal(http.StatusOK, s.anon(http.MethodPost, "/api/token/", body).Code)

	w := s.anon(http.MethodPost, "/api/token/", body)
	s.assertDetail(w, http.StatusTooManyRequests, dto.MsgThrottled, dto.CodeThrottled)
	s.NotEmpty(w.Header().Get("Retry-After"))

	// reads are not throttled
	for range 3 {
		s.Equal(http.StatusOK, s.as(http.MethodGet, "/users/", "").Code)
	}
}

func (s *FlowSuite) TestThrottle_ZeroRateDisabled() {
	s.cfg.RateLimitRPS = 0
	s.cfg.RateLimitBurst = 0
	s.rebuild()

	body := `{"username":"test1","password":"string"}`
	for range 5 {
		s.Equal(http.StatusOK, s.anon(http.MethodPost, "/api/token/", body).Code)
	}
}

func (s *FlowSuite) TestCORS() {
	req := httptest.NewRequest(http.MethodOptions, "/users/", nil)
	req.Header.Set("Origin", "http://frontend.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	s.Equal(http.StatusNoContent, w.Code)
	s.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
	s.True(strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "PATCH"))
}
