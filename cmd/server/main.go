// Command server serves the dashboard: the static chart page plus the
// /api endpoints reading the datamart.  It also runs the RabbitMQ run
// consumer in the background so finished pipeline runs show up in
// logs/pipeline_runs.log on the dashboard host.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/minhlq/boxoffice-etl/internal/config"
	"github.com/minhlq/boxoffice-etl/internal/database"
	"github.com/minhlq/boxoffice-etl/internal/handler"
	"github.com/minhlq/boxoffice-etl/internal/queue"
	"github.com/minhlq/boxoffice-etl/internal/repository"
	"github.com/minhlq/boxoffice-etl/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfgPath := os.Getenv("CONFIG_FILE")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	target, err := cfg.DB(config.DBDatamart)
	if err != nil {
		log.Fatal(err)
	}
	datamartDB, err := database.Open(target)
	if err != nil {
		log.Fatalf("open datamart database: %v", err)
	}
	defer datamartDB.Close()

	e := echo.New()
	router.RegisterRoutes(e)

	h := &handler.DashboardHandler{DatamartRepo: repository.NewDatamartRepo(datamartDB)}
	// A nil Redis client disables caching; the API then hits MySQL directly.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable, response cache disabled")
	}
	router.RegisterDashboard(e, h, config.LoadCacheConfig(), rdb)

	go func() {
		if err := queue.StartRunConsumer(); err != nil {
			log.Printf("run consumer stopped: %v", err)
		}
	}()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	addr := fmt.Sprintf(":%s", port)
	log.Printf("dashboard listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
