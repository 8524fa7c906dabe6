package app

import (
	"context"

	"go-leave/internal/config"
	"go-leave/internal/employee"
	"go-leave/internal/leavetype"
	"go-leave/internal/manager"
	"go-leave/internal/rbac"
	"go-leave/internal/seed"
	"go-leave/internal/shared/counter"

	"go.uber.org/zap"
)

// RunSeed migrates the schema and loads the seed file at path. Cached lists
// are left to expire on their own.
func RunSeed(ctx context.Context, cfg *config.Config, path string) (seed.Report, error) {
	logger := zap.L().Named("app.seed")

	data, err := seed.LoadFile(path)
	if err != nil {
		return seed.Report{}, err
	}

	in, err := Connect(cfg, false)
	if err != nil {
		return seed.Report{}, err
	}
	defer in.Close()

	if err := Migrate(in.GormDB); err != nil {
		return seed.Report{}, err
	}

	managerRepo := manager.NewRepository(in.GormDB)
	seeder := seed.NewSeeder(seed.Deps{
		LeaveTypes: leavetype.NewService(in.DB, leavetype.NewRepository(in.GormDB), in.Redis),
		Managers:   manager.NewService(in.DB, managerRepo),
		ManagerDir: managerRepo,
		Employees:  employee.NewService(in.DB, employee.NewRepository(in.GormDB), counter.NewRepository(in.GormDB), in.Redis),
		Rules:      rbac.NewRepository(in.GormDB),
	})

	rep, err := seeder.Apply(ctx, data)
	if err != nil {
		return rep, err
	}
	logger.Info("seed applied",
		zap.String("file", path),
		zap.Int("created", rep.Created),
		zap.Int("skipped", rep.Skipped),
	)
	return rep, nil
}
