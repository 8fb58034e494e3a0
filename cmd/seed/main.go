package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ambernegi/rha/internal/resources"
	"github.com/ambernegi/rha/pkg/config"
	"github.com/ambernegi/rha/pkg/db"
	"github.com/ambernegi/rha/pkg/logger"
	"github.com/ambernegi/rha/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "seed"
	if cfg.App.IsProd() {
		logg.Error(ctx, "refusing to seed", fmt.Errorf("seed is disabled when %s=%s", config.EnvAppEnv, cfg.App.Env))
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.Open(ctx, cfg, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	requireResource(ctx, logg, "migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	catalog, err := resources.SeedVilla(ctx, resources.NewRepository(dbClient.DB()))
	requireResource(ctx, logg, "villa seed", err)

	logg.Info(logg.WithFields(ctx, map[string]any{
		"villa":        catalog.Villa.String(),
		"unit_3bhk":    catalog.Unit3BHK.String(),
		"room_garden":  catalog.RoomGarden.String(),
		"room_terrace": catalog.RoomTerrace.String(),
		"entire_villa": catalog.EntireVilla.String(),
		"three_bhk":    catalog.ThreeBHK.String(),
		"single_room":  catalog.SingleRoom.String(),
	}), "villa catalog seeded")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
