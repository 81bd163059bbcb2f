package app

import (
	"database/sql"

	"staffdesk/internal/auth"
	"staffdesk/internal/directory"
	"staffdesk/internal/division"
	"staffdesk/internal/leave"
	"staffdesk/internal/messaging/kafka"
	"staffdesk/internal/middleware"
	"staffdesk/internal/notification"
	"staffdesk/internal/program"
	"staffdesk/internal/rbac"
	"staffdesk/internal/rbac/infra"
	"staffdesk/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	directoryRepo := directory.NewRepository(gormDB)
	divisionRepo := division.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	programRepo := program.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer)
	if err != nil {
		return err
	}

	// --- Services ---
	dispatcher := notification.NewDispatcher(outboxRepo)
	authService := auth.NewService(directoryRepo)
	directoryService := directory.NewService(db, directoryRepo, rdb)
	divisionService := division.NewService(db, divisionRepo)
	leaveService := leave.NewService(db, leaveRepo, counterRepo, dispatcher)
	programService := program.NewService(programRepo, dispatcher)
	notificationService := notification.NewService(notificationRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	directoryHandler := directory.NewHandler(directoryService)
	divisionHandler := division.NewHandler(divisionService)
	leaveHandler := leave.NewHandler(leaveService)
	programHandler := program.NewHandler(programService)
	notificationHandler := notification.NewHandler(notificationService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	// Double-click protection on the submit surfaces.
	api.Use(middleware.Idempotency(rdb))
	{
		auth.RegisterRoutes(api, authHandler)
		directory.RegisterRoutes(api, directoryHandler, rbacService)
		division.RegisterRoutes(api, divisionHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		program.RegisterRoutes(api, programHandler, rbacService)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
	}

	return nil
}
