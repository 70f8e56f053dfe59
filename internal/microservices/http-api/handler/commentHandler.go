package handler

import (
	"context"
	"net/http"

	"commentshub/internal/microservices/http-api/dto"
	"commentshub/internal/microservices/http-api/middleware"
	"commentshub/internal/microservices/http-api/models"
	"commentshub/internal/microservices/http-api/policy"
	"commentshub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
	policy         policy.Authorizer
	pageSize       int
}

func NewCommentHandler(commentService service.CommentService, pageSize int) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		policy:         policy.CommentPolicy{},
		pageSize:       pageSize,
	}
}

// RegisterRoutes registers comment-related routes
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup, opts RouteOptions) {
	gate := func(op policy.Operation) gin.HandlerFunc { return middleware.RequirePermission(h.policy, op) }

	comments := rg.Group("/comments")
	{
		comments.GET("/", gate(policy.OpList), opts.cache(), h.List)
		comments.POST("/", gate(policy.OpCreate), h.Create)
		comments.GET("/:id/", gate(policy.OpRetrieve), opts.cache(), h.Retrieve)
		comments.PUT("/:id/", gate(policy.OpUpdate), h.Update)
		comments.PATCH("/:id/", gate(policy.OpPartialUpdate), h.PartialUpdate)
		comments.DELETE("/:id/", gate(policy.OpDestroy), h.Destroy)
	}
}

// List returns comments newest first with their replies
// GET /comments/
func (h *CommentHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	respondList[dto.CommentResponse](c, ctx, h.pageSize, h.commentService.List)
}

// Create stores a comment owned by the caller
// POST /comments/
func (h *CommentHandler) Create(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	payload, err := readPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	comment, err := h.commentService.Create(ctx, middleware.CallerFrom(c), payload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// GET /comments/:id/
func (h *CommentHandler) Retrieve(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	comment, ok := h.load(ctx, c, policy.OpRetrieve)
	if !ok {
		return
	}

	resp, err := h.commentService.Render(ctx, comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PUT /comments/:id/
func (h *CommentHandler) Update(c *gin.Context) {
	h.update(c, policy.OpUpdate, false)
}

// PATCH /comments/:id/
func (h *CommentHandler) PartialUpdate(c *gin.Context) {
	h.update(c, policy.OpPartialUpdate, true)
}

func (h *CommentHandler) update(c *gin.Context, op policy.Operation, partial bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	comment, ok := h.load(ctx, c, op)
	if !ok {
		return
	}

	payload, err := readPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.commentService.Update(ctx, comment, payload, partial)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DELETE /comments/:id/
func (h *CommentHandler) Destroy(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	comment, ok := h.load(ctx, c, policy.OpDestroy)
	if !ok {
		return
	}

	if err := h.commentService.Delete(ctx, comment); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) load(ctx context.Context, c *gin.Context, op policy.Operation) (*models.Comment, bool) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	comment, err := h.commentService.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	if err := h.policy.HasObjectPermission(middleware.CallerFrom(c), op, comment); err != nil {
		respondError(c, err)
		return nil, false
	}
	return comment, true
}
