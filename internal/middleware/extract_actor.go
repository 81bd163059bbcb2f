package middleware

import (
	"net/http"

	"staffdesk/internal/domain"
	"staffdesk/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// ActorFromContext rebuilds the session Actor set by AuthMiddleware. The
// second return is false when the request never passed authentication.
func ActorFromContext(c *gin.Context) (domain.Actor, bool) {
	userID := c.GetString(CtxUserID)
	role := domain.Role(c.GetString(CtxRole))
	if userID == "" || !role.Valid() {
		return domain.Actor{}, false
	}

	staffType := domain.StaffType(c.GetString(CtxStaffType))
	if !staffType.Valid() {
		staffType = domain.StaffTypeOffice
	}

	return domain.Actor{
		ID:        userID,
		Name:      c.GetString(CtxUserName),
		Role:      role,
		Division:  c.GetString(CtxDivision),
		StaffType: staffType,
	}, true
}

// RequireActor aborts requests whose auth context is missing or malformed and
// re-sets the validated actor for downstream handlers.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User is not authenticated", nil)
			c.Abort()
			return
		}

		c.Set("actor_validated", actor)
		c.Next()
	}
}
