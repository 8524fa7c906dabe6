package app

import (
	"context"
	"database/sql"

	"go-leave/internal/approval"
	"go-leave/internal/bootstrap"
	"go-leave/internal/config"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"
	"go-leave/internal/manager"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/connection"
	"go-leave/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the connections shared by every module.
type Infra struct {
	Config *config.Config
	GormDB *gorm.DB
	DB     *sql.DB
	Redis  *redis.Client
}

// Connect opens the database and, when withRedis is set, redis.
func Connect(cfg *config.Config, withRedis bool) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB(), cfg.DBRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	infra := &Infra{Config: cfg, GormDB: gormDB, DB: sqlDB}
	if withRedis {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DBRetries)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		infra.Redis = rdb
	}
	return infra, nil
}

func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.DB != nil {
		_ = i.DB.Close()
	}
}

// Models lists every table the service owns.
func Models() []any {
	return []any{
		&employee.Employee{},
		&leavetype.LeaveType{},
		&manager.Manager{},
		&leave.LeaveRequest{},
		&approval.Approval{},
		&counter.Counter{},
		&kafka.OutboxEvent{},
		&rbac.Rule{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// BuildApp connects infrastructure, migrates the schema and registers every
// module on router. The caller owns the returned Infra.
func BuildApp(ctx context.Context, router *gin.Engine, cfg *config.Config) (*Infra, error) {
	logger := zap.L().Named("app")

	infra, err := Connect(cfg, true)
	if err != nil {
		return nil, err
	}
	logger.Info("database and redis connections established")

	if err := Migrate(infra.GormDB); err != nil {
		infra.Close()
		return nil, err
	}

	router.Use(middleware.RequestID())
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		router.Use(bootstrap.CORS(origins))
	}

	if err := registerModules(ctx, router, infra); err != nil {
		infra.Close()
		return nil, err
	}
	return infra, nil
}
