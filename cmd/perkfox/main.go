package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/perkfox/perkfox/app/repository"
	"github.com/perkfox/perkfox/internal/pkg/cache"
	"github.com/perkfox/perkfox/internal/pkg/clicks"
	"github.com/perkfox/perkfox/internal/pkg/constants"
	"github.com/perkfox/perkfox/internal/pkg/database"
	"github.com/perkfox/perkfox/internal/pkg/env"
	"github.com/perkfox/perkfox/internal/pkg/router"
	"github.com/perkfox/perkfox/internal/pkg/voucher"
)

func main() {
	app, sweeper := NewApplication()
	defer sweeper.Stop()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() (*fiber.App, *voucher.Sweeper) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/perkfox to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName: "PerkFox",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: constants.DocsRoute,
		FilePath: basePath + constants.OpenAPIFile,
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	// Background voucher expiry sweep
	sweeper := voucher.NewSweeper(voucher.NewStoreFromDB(database.GetDB()), 5*time.Minute)
	sweeper.Start()

	// Periodic click counter flush
	go flushClickCounters()

	return app, sweeper
}

func flushClickCounters() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		if err := clicks.FlushPendingCounters(); err != nil {
			log.Printf("Error flushing click counters: %v", err)
		}
	}
}
