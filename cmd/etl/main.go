// Command etl runs the daily box-office pipeline once and exits.  It is
// meant to be invoked by cron (or by hand); scheduling lives outside the
// binary.  Exit code 0 means the run reached DONE, anything else means
// the run failed and the cause is in the console output and the etl_log
// table.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/minhlq/boxoffice-etl/internal/config"
	"github.com/minhlq/boxoffice-etl/internal/database"
	"github.com/minhlq/boxoffice-etl/internal/extract"
	"github.com/minhlq/boxoffice-etl/internal/pipeline"
	"github.com/minhlq/boxoffice-etl/internal/queue"
	"github.com/minhlq/boxoffice-etl/internal/repository"
	"github.com/minhlq/boxoffice-etl/internal/runlog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "etl:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load() // .env is optional

	cfgPath := os.Getenv("CONFIG_FILE")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	start := time.Now()
	console := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.TimeOnly,
	})
	recorder := runlog.NewRecorder(runlog.SourceFileName(start), console)
	log := recorder.Logger()

	stagingDB, err := openDB(cfg, config.DBStaging)
	if err != nil {
		return err
	}
	defer stagingDB.Close()
	warehouseDB, err := openDB(cfg, config.DBWarehouse)
	if err != nil {
		return err
	}
	defer warehouseDB.Close()
	datamartDB, err := openDB(cfg, config.DBDatamart)
	if err != nil {
		return err
	}
	defer datamartDB.Close()
	controlDB, err := openDB(cfg, config.DBControl)
	if err != nil {
		return err
	}
	defer controlDB.Close()

	stores := pipeline.Stores{
		Staging:   repository.NewStagingRepo(stagingDB),
		Warehouse: repository.NewWarehouseRepo(warehouseDB),
		Datamart:  repository.NewDatamartRepo(datamartDB),
		RunLog:    repository.NewRunLogRepo(controlDB),
	}

	source := extract.NewExtractor(cfg.Pipeline.SourceURL, log)
	orch := pipeline.New(source, stores, recorder, pipeline.Options{
		RawDataPath:       cfg.Pipeline.RawDataPath,
		AggregateDataPath: cfg.Pipeline.AggregateDataPath,
		Publisher:         queue.NewPublisher(),
	})

	state, err := orch.Run(context.Background())
	if state != pipeline.StateDone {
		return fmt.Errorf("pipeline ended in %s: %w", state, err)
	}
	return nil
}

func openDB(cfg *config.Config, key string) (*sql.DB, error) {
	target, err := cfg.DB(key)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(target)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", key, err)
	}
	return db, nil
}
