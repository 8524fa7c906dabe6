package main

import (
	"context"
	"flag"

	"go-leave/internal/app"
	"go-leave/internal/config"
	"go-leave/internal/shared/apperror"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	file := flag.String("file", cfg.SeedFile, "seed YAML file")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if _, err := app.RunSeed(context.Background(), cfg, *file); err != nil {
		logger.Fatal("run seed failed", zap.Error(err))
	}
}
