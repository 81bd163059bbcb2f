package leave

import (
	"staffdesk/internal/middleware"
	"staffdesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(), middleware.RequireActor())
	{
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), h.Submit)
		leaves.GET("/mine", middleware.RBACAuthorize(rbacService, "leave", "read"), h.ListMine)
		leaves.GET("/to-recommend", middleware.RBACAuthorize(rbacService, "leave", "recommend"), h.ListToRecommend)
		leaves.GET("/to-approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), h.ListToApprove)
		leaves.GET("/approved", middleware.RBACAuthorize(rbacService, "leave", "download"), h.ListApproved)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), h.GetByID)
		leaves.PATCH("/:id/recommendation", middleware.RBACAuthorize(rbacService, "leave", "recommend"), h.Recommend)
		leaves.PATCH("/:id/approval", middleware.RBACAuthorize(rbacService, "leave", "approve"), h.Approve)
	}
}
