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

type UserHandler struct {
	userService service.UserService
	policy      policy.Authorizer
	pageSize    int
}

func NewUserHandler(userService service.UserService, pageSize int) *UserHandler {
	return &UserHandler{
		userService: userService,
		policy:      policy.UserPolicy{},
		pageSize:    pageSize,
	}
}

// RegisterRoutes mounts /users/ on rg.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, opts RouteOptions) {
	gate := func(op policy.Operation) gin.HandlerFunc { return middleware.RequirePermission(h.policy, op) }

	users := rg.Group("/users")
	{
		users.GET("/", gate(policy.OpList), opts.cache(), h.List)
		users.POST("/", opts.throttle(), gate(policy.OpCreate), h.Create)
		users.GET("/:id/", gate(policy.OpRetrieve), opts.cache(), h.Retrieve)
		users.PUT("/:id/", gate(policy.OpUpdate), h.Update)
		users.PATCH("/:id/", gate(policy.OpPartialUpdate), h.PartialUpdate)
		users.DELETE("/:id/", gate(policy.OpDestroy), h.Destroy)
	}
}

// List returns non-staff users
// GET /users/
func (h *UserHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	respondList[dto.UserResponse](c, ctx, h.pageSize, func(ctx context.Context, offset, limit int) ([]dto.UserResponse, int64, error) {
		users, total, err := h.userService.List(ctx, offset, limit)
		if err != nil {
			return nil, 0, err
		}
		return dto.FromModelsToUserResponses(users), total, nil
	})
}

// Create signs a new user up
// POST /users/
func (h *UserHandler) Create(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	payload, err := readPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.userService.Create(ctx, payload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromModelToUserResponse(user))
}

// GET /users/:id/
func (h *UserHandler) Retrieve(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, ok := h.load(ctx, c, policy.OpRetrieve)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToUserResponse(user))
}

// PUT /users/:id/
func (h *UserHandler) Update(c *gin.Context) {
	h.update(c, policy.OpUpdate, false)
}

// PATCH /users/:id/
func (h *UserHandler) PartialUpdate(c *gin.Context) {
	h.update(c, policy.OpPartialUpdate, true)
}

func (h *UserHandler) update(c *gin.Context, op policy.Operation, partial bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, ok := h.load(ctx, c, op)
	if !ok {
		return
	}

	payload, err := readPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.userService.Update(ctx, user, payload, partial)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToUserResponse(updated))
}

// Destroy deletes the account and everything it owns
// DELETE /users/:id/
func (h *UserHandler) Destroy(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, ok := h.load(ctx, c, policy.OpDestroy)
	if !ok {
		return
	}

	if err := h.userService.Delete(ctx, user); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// load resolves :id and applies the object-level check.
func (h *UserHandler) load(ctx context.Context, c *gin.Context, op policy.Operation) (*models.User, bool) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	user, err := h.userService.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	if err := h.policy.HasObjectPermission(middleware.CallerFrom(c), op, user); err != nil {
		respondError(c, err)
		return nil, false
	}
	return user, true
}
