package middleware

import (
	"errors"
	"net/http"
	"strings"

	"commentshub/internal/microservices/http-api/dto"
	"commentshub/internal/microservices/http-api/models"
	"commentshub/internal/microservices/http-api/policy"
	"commentshub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const (
	callerKey = "caller"
	userIDKey = "userID"

	authHeaderType = "Bearer"
	authenticate   = `Bearer realm="api"`
)

// Authenticate resolves the bearer token, when one is sent, into the calling
// user. Requests without a bearer header continue anonymously.
func Authenticate(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.Fields(header)
		if len(parts) == 0 || parts[0] != authHeaderType {
			// another scheme; leave it to whoever understands it
			c.Next()
			return
		}
		if len(parts) != 2 {
			AbortUnauthorized(c, dto.MsgInvalidAuthHeader, dto.CodeBadAuthHeader)
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), parts[1])
		switch {
		case err == nil:
		case errors.Is(err, service.ErrInvalidToken):
			AbortUnauthorized(c, dto.MsgTokenNotValid, dto.CodeTokenNotValid)
			return
		case errors.Is(err, service.ErrUserNotFound):
			AbortUnauthorized(c, dto.MsgUserNotFound, dto.CodeUserNotFound)
			return
		default:
			_ = c.Error(err)
			AbortWithError(c, http.StatusInternalServerError, dto.MsgServerError, dto.CodeError)
			return
		}

		c.Set(callerKey, user)
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// CallerFrom returns the authenticated user, or nil for anonymous requests.
func CallerFrom(c *gin.Context) policy.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// RequirePermission applies the request-level half of an Authorizer.
func RequirePermission(authorizer policy.Authorizer, op policy.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authorizer.HasPermission(CallerFrom(c), op); err != nil {
			AbortWithPolicyError(c, err)
			return
		}
		c.Next()
	}
}

// AbortWithPolicyError renders a policy failure.
func AbortWithPolicyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, policy.ErrNotAuthenticated):
		AbortUnauthorized(c, dto.MsgNotAuthenticated, dto.CodeNotAuthenticated)
	case errors.Is(err, policy.ErrPermissionDenied):
		AbortWithError(c, http.StatusForbidden, dto.MsgPermissionDenied, dto.CodePermissionDenied)
	default:
		_ = c.Error(err)
		AbortWithError(c, http.StatusInternalServerError, dto.MsgServerError, dto.CodeError)
	}
}

// AbortUnauthorized renders a 401 with the bearer challenge.
func AbortUnauthorized(c *gin.Context, detail, code string) {
	c.Header("WWW-Authenticate", authenticate)
	AbortWithError(c, http.StatusUnauthorized, detail, code)
}

// AbortWithError renders a {"detail", "code"} body.
func AbortWithError(c *gin.Context, status int, detail, code string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Detail: detail, Code: code})
}
