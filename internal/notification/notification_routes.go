package notification

import (
	"staffdesk/internal/middleware"
	"staffdesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(), middleware.RequireActor())
	{
		notifications.GET("", middleware.RBACAuthorize(rbacService, "notification", "read"), h.List)
		notifications.GET("/unread-count", middleware.RBACAuthorize(rbacService, "notification", "read"), h.UnreadCount)
		notifications.PATCH("/:id/read", middleware.RBACAuthorize(rbacService, "notification", "read"), h.MarkRead)
		notifications.PATCH("/read-all", middleware.RBACAuthorize(rbacService, "notification", "read"), h.MarkAllRead)
	}
}
