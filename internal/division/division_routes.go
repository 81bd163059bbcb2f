package division

import (
	"staffdesk/internal/middleware"
	"staffdesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	divisions := r.Group("/divisions")
	divisions.Use(middleware.AuthMiddleware(), middleware.RequireActor())
	{
		divisions.GET("", middleware.RBACAuthorize(rbacService, "division", "read"), h.GetAll)
		divisions.GET("/:id", middleware.RBACAuthorize(rbacService, "division", "read"), h.GetByID)
		divisions.POST("", middleware.RBACAuthorize(rbacService, "division", "manage"), h.Create)
		divisions.PUT("/:id", middleware.RBACAuthorize(rbacService, "division", "manage"), h.Rename)
		divisions.DELETE("/:id", middleware.RBACAuthorize(rbacService, "division", "manage"), h.Delete)
	}
}
