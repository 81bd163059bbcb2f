package program

import (
	"staffdesk/internal/middleware"
	"staffdesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	programs := r.Group("/programs")
	programs.Use(middleware.AuthMiddleware(), middleware.RequireActor())
	{
		programs.PUT("", middleware.RBACAuthorize(rbacService, "program", "save"), h.Save)
		programs.POST("/submit", middleware.RBACAuthorize(rbacService, "program", "save"), h.Submit)
		programs.GET("/mine", middleware.RBACAuthorize(rbacService, "program", "read"), h.ListMine)
		programs.GET("/for-approval", middleware.RBACAuthorize(rbacService, "program", "decide"), h.ListForApproval)
		programs.PATCH("/:id/decision", middleware.RBACAuthorize(rbacService, "program", "decide"), h.Decide)
	}
}
