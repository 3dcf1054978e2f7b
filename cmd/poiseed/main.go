// Command poiseed fills the POI catalog around a center point with
// procedurally generated locations.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/jengzang/survival-explorer-go/internal/database"
	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/poigen"
	"github.com/jengzang/survival-explorer-go/internal/repository"
)

func main() {
	dbPath := flag.String("db", envOr("DB_PATH", "./data/explorer.db"), "sqlite database path")
	lat := flag.Float64("lat", 39.9042, "center latitude (WGS-84)")
	lon := flag.Float64("lon", 116.4074, "center longitude (WGS-84)")
	radius := flag.Float64("radius", 2000, "catalog radius in meters")
	cell := flag.Float64("cell", 150, "sampling grid spacing in meters")
	threshold := flag.Float64("threshold", 0.55, "noise threshold (0-1) for placing a POI")
	seed := flag.Int64("seed", 1, "noise seed")
	flag.Parse()

	center := models.NewCoordinate(*lat, *lon)
	if !center.Valid() {
		slog.Error("invalid center", "lat", *lat, "lon", *lon)
		os.Exit(2)
	}

	cfg := poigen.DefaultConfig(center)
	cfg.RadiusMeters = *radius
	cfg.CellMeters = *cell
	cfg.Threshold = *threshold
	cfg.Seed = *seed

	pois, err := poigen.Generate(cfg)
	if err != nil {
		slog.Error("failed to generate POIs", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(database.Config{Path: *dbPath})
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := repository.NewPOIRepository(db)
	if err := repo.Upsert(context.Background(), pois); err != nil {
		slog.Error("failed to store POIs", "error", err)
		os.Exit(1)
	}

	total, err := repo.Count(context.Background())
	if err != nil {
		slog.Error("failed to count POIs", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog seeded", "generated", len(pois), "total", total, "seed", *seed)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
