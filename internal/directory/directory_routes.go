package directory

import (
	"staffdesk/internal/middleware"
	"staffdesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware(), middleware.RequireActor())
	{
		// Officer pickers are open to every authenticated user; the full
		// directory is gated by role.
		users.GET("/officer-options", h.GetOfficerOptions)
		users.PUT("/me", h.UpdateProfile)

		users.GET("", middleware.RBACAuthorize(rbacService, "directory", "read"), h.List)
		users.GET("/:id", middleware.RBACAuthorize(rbacService, "directory", "read"), h.GetByID)
		users.POST("", middleware.RBACAuthorize(rbacService, "directory", "manage"), h.Create)
		users.PUT("/:id", middleware.RBACAuthorize(rbacService, "directory", "manage"), h.Update)
		users.DELETE("/:id", middleware.RBACAuthorize(rbacService, "directory", "manage"), h.Delete)
	}
}
