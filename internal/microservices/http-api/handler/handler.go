package handler

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"commentshub/internal/microservices/http-api/dto"
	"commentshub/internal/microservices/http-api/middleware"
	"commentshub/internal/microservices/http-api/policy"
	"commentshub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 5 * time.Second

// RouteOptions are the optional middlewares handlers compose into their routes.
type RouteOptions struct {
	// Cache wraps list and retrieve.
	Cache gin.HandlerFunc
	// Throttle guards anonymous write endpoints.
	Throttle gin.HandlerFunc
}

func (o RouteOptions) cache() gin.HandlerFunc {
	if o.Cache == nil {
		return passthrough
	}
	return o.Cache
}

func (o RouteOptions) throttle() gin.HandlerFunc {
	if o.Throttle == nil {
		return passthrough
	}
	return o.Throttle
}

func passthrough(c *gin.Context) { c.Next() }

// respondError maps service, policy and validation errors onto HTTP responses.
func respondError(c *gin.Context, err error) {
	var verr *dto.ValidationError
	var perr *dto.ParseError

	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, verr.Body())
	case errors.As(err, &perr):
		middleware.AbortWithError(c, http.StatusBadRequest, perr.Error(), dto.CodeParseError)
	case errors.Is(err, policy.ErrNotAuthenticated), errors.Is(err, policy.ErrPermissionDenied):
		middleware.AbortWithPolicyError(c, err)
	case errors.Is(err, service.ErrInvalidToken):
		middleware.AbortUnauthorized(c, dto.MsgTokenNotValid, dto.CodeTokenNotValid)
	case errors.Is(err, service.ErrUserNotFound):
		middleware.AbortUnauthorized(c, dto.MsgUserNotFound, dto.CodeUserNotFound)
	case errors.Is(err, service.ErrInvalidCredentials):
		middleware.AbortUnauthorized(c, dto.MsgNoActiveAccount, dto.CodeNoActiveAccount)
	case errors.Is(err, dto.ErrInvalidPage):
		middleware.AbortWithError(c, http.StatusNotFound, dto.MsgInvalidPage, dto.CodeNotFound)
	case errors.Is(err, service.ErrNotFound):
		middleware.AbortWithError(c, http.StatusNotFound, dto.MsgNotFound, dto.CodeNotFound)
	default:
		_ = c.Error(err)
		middleware.AbortWithError(c, http.StatusInternalServerError, dto.MsgServerError, dto.CodeError)
	}
}

// parseID reads the :id path parameter; anything but an integer cannot name a
// record.
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, service.ErrNotFound
	}
	return id, nil
}

func readPayload(c *gin.Context) (dto.Payload, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	return dto.ParsePayload(body)
}

type fetchFunc[T any] func(ctx context.Context, offset, limit int) ([]T, int64, error)

// respondList renders a plain array when pageSize is zero and a page envelope
// selected by ?page= otherwise.
func respondList[T any](c *gin.Context, ctx context.Context, pageSize int, fetch fetchFunc[T]) {
	if pageSize <= 0 {
		items, _, err := fetch(ctx, 0, 0)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
		return
	}

	number, last, err := dto.ParsePageNumber(c.Query(dto.PageQueryParam))
	if err != nil {
		respondError(c, err)
		return
	}
	if last {
		number = 1
	}
	// no table holds enough rows for this page, and its offset would overflow
	if number > math.MaxInt/pageSize {
		respondError(c, dto.ErrInvalidPage)
		return
	}

	req := dto.PageRequest{Number: number, Size: pageSize}
	items, total, err := fetch(ctx, req.Offset(), req.Size)
	if err != nil {
		respondError(c, err)
		return
	}

	pages := dto.PageCount(total, pageSize)
	if last && pages > 1 {
		req.Number = pages
		if items, total, err = fetch(ctx, req.Offset(), req.Size); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.Number > pages {
		respondError(c, dto.ErrInvalidPage)
		return
	}

	c.JSON(http.StatusOK, dto.NewPage(items, total, req, requestURL(c)))
}

func requestURL(c *gin.Context) *url.URL {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return &url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
	}
}
