package app

import (
	"context"
	"time"

	"go-leave/internal/approval"
	"go-leave/internal/batch"
	"go-leave/internal/config"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"
	"go-leave/internal/manager"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/report"
	"go-leave/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	apiPrefix      = "/api/v1"
	idempotencyTTL = 24 * time.Hour

	healthRPS   = 5
	healthBurst = 10
)

// identityMiddleware verifies bearer tokens, or outside production with no
// JWT_SECRET set, treats every caller as an admin.
func identityMiddleware(cfg *config.Config) gin.HandlerFunc {
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		zap.L().Warn("JWT_SECRET is empty, every request runs as admin")
		return middleware.DevIdentity()
	}
	return middleware.AuthMiddleware(cfg.JWTSecret)
}

func registerModules(ctx context.Context, router *gin.Engine, in *Infra) error {
	cfg := in.Config
	db, gormDB, rdb := in.DB, in.GormDB, in.Redis

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	managerRepo := manager.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	approvalRepo := approval.NewRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)
	if err := rbacService.Reload(ctx); err != nil {
		return err
	}

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo, counterRepo, rdb)
	leaveTypeService := leavetype.NewService(db, leaveTypeRepo, rdb)
	managerService := manager.NewService(db, managerRepo)
	leaveService := leave.NewService(db, leaveRepo, outboxRepo)
	approvalService := approval.NewService(db, approvalRepo, approval.Deps{
		Requests:  leaveRepo,
		Managers:  managerRepo,
		Employees: employeeRepo,
		Outbox:    outboxRepo,
	})
	reportService := report.NewService(reportRepo, rdb, cfg.CacheTTL)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	managerHandler := manager.NewHandler(managerService)
	leaveHandler := leave.NewHandler(leaveService)
	approvalHandler := approval.NewHandler(approvalService)
	reportHandler := report.NewHandler(reportService)
	rbacHandler := rbac.NewHandler(rbacService)
	batchHandler := batch.NewHandler(router, apiPrefix, batch.DefaultMaxItems)

	router.GET("/healthz", middleware.RateLimitByIP(healthRPS, healthBurst), Healthz(in))

	// --- Routes Registration ---
	api := router.Group(apiPrefix,
		identityMiddleware(cfg),
		middleware.ContextLogger(zap.L()),
		middleware.RateLimitByUser(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	)
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
		manager.RegisterRoutes(api, managerHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		approval.RegisterRoutes(api, approvalHandler, rbacService, rdb, idempotencyTTL)
		report.RegisterRoutes(api, reportHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler)
		batch.RegisterRoutes(api, batchHandler)
	}

	return nil
}
