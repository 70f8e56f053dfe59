package client

// http_client.go = handles HTTP client functionality for the commentshub CLI.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	clidto "commentshub/cmd/cli/dto"
	"commentshub/internal/microservices/http-api/dto"
)

// ErrUnauthorized is returned for any 401 so callers can try a token refresh.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// ListResult is one page of a list endpoint. Servers running without
// pagination return everything with Next and Previous unset.
type ListResult[T any] struct {
	Count    int64
	Next     *string
	Previous *string
	Results  []T
}

// defines the HTTP client structure and methods
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// set token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do sends body as JSON and decodes a 2xx answer into out, when out is non-nil.
func (c *HTTPClient) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // Ensure the response body is closed

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// decodeAPIError reads either {"detail","code"} or a field error map.
func decodeAPIError(status int, data []byte) error {
	apiErr := &APIError{Status: status, Message: http.StatusText(status)}

	var detail dto.ErrorResponse
	if err := json.Unmarshal(data, &detail); err == nil && detail.Detail != "" {
		apiErr.Code = detail.Code
		apiErr.Message = detail.Detail
		return apiErr
	}

	var fields map[string][]string
	if err := json.Unmarshal(data, &fields); err == nil && len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+strings.Join(fields[k], " "))
		}
		apiErr.Code = "invalid"
		apiErr.Message = strings.Join(parts, "; ")
	}
	return apiErr
}

func list[T any](c *HTTPClient, path string, page string) (*ListResult[T], error) {
	if page != "" {
		path += "?page=" + url.QueryEscape(page)
	}

	var raw json.RawMessage
	if err := c.do(http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return &ListResult[T]{Count: int64(len(items)), Results: items}, nil
	}

	var envelope dto.Page[T]
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	return &ListResult[T]{
		Count:    envelope.Count,
		Next:     envelope.Next,
		Previous: envelope.Previous,
		Results:  envelope.Results,
	}, nil
}

func idPath(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10) + "/"
}

// Tokens

func (c *HTTPClient) Login(request *clidto.LoginRequest) (*dto.TokenPairResponse, error) {
	var result dto.TokenPairResponse
	if err := c.do(http.MethodPost, "/api/token/", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) RefreshToken(refresh string) (*dto.TokenPairResponse, error) {
	var result dto.TokenPairResponse
	if err := c.do(http.MethodPost, "/api/token/refresh/", clidto.RefreshTokenRequest{Refresh: refresh}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) RevokeToken(refresh string) error {
	return c.do(http.MethodPost, "/api/token/revoke/", clidto.RefreshTokenRequest{Refresh: refresh}, nil)
}

func (c *HTTPClient) VerifyToken(token string) error {
	return c.do(http.MethodPost, "/api/token/verify/", map[string]string{"token": token}, nil)
}

// Users

func (c *HTTPClient) Register(request *clidto.RegisterRequest) (*dto.UserResponse, error) {
	var result dto.UserResponse
	if err := c.do(http.MethodPost, "/users/", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListUsers(page string) (*ListResult[dto.UserResponse], error) {
	return list[dto.UserResponse](c, "/users/", page)
}

func (c *HTTPClient) GetUser(id int64) (*dto.UserResponse, error) {
	var result dto.UserResponse
	if err := c.do(http.MethodGet, idPath("/users/", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) UpdateUser(id int64, request *clidto.UpdateUserRequest) (*dto.UserResponse, error) {
	var result dto.UserResponse
	if err := c.do(http.MethodPatch, idPath("/users/", id), request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteUser(id int64) error {
	return c.do(http.MethodDelete, idPath("/users/", id), nil, nil)
}

// Comments

func (c *HTTPClient) ListComments(page string) (*ListResult[dto.CommentResponse], error) {
	return list[dto.CommentResponse](c, "/comments/", page)
}

func (c *HTTPClient) GetComment(id int64) (*dto.CommentResponse, error) {
	var result dto.CommentResponse
	if err := c.do(http.MethodGet, idPath("/comments/", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) CreateComment(request *clidto.CommentRequest) (*dto.CommentResponse, error) {
	var result dto.CommentResponse
	if err := c.do(http.MethodPost, "/comments/", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) UpdateComment(id int64, request *clidto.CommentRequest) (*dto.CommentResponse, error) {
	var result dto.CommentResponse
	if err := c.do(http.MethodPatch, idPath("/comments/", id), request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteComment(id int64) error {
	return c.do(http.MethodDelete, idPath("/comments/", id), nil, nil)
}

// Notifications

func (c *HTTPClient) UnreadNotifications() ([]dto.NotificationResponse, error) {
	var result struct {
		Notifications []dto.NotificationResponse `json:"notifications"`
	}
	if err := c.do(http.MethodGet, "/notifications/unread/", nil, &result); err != nil {
		return nil, err
	}
	return result.Notifications, nil
}

func (c *HTTPClient) MarkNotificationRead(id int64) error {
	return c.do(http.MethodPut, "/notifications/"+strconv.FormatInt(id, 10)+"/read/", nil, nil)
}

func (c *HTTPClient) MarkAllNotificationsRead() error {
	return c.do(http.MethodPut, "/notifications/read-all/", nil, nil)
}
