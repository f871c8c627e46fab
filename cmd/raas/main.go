package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/RAAS/app/controllers"
	"github.com/ManuelReschke/RAAS/app/repository"
	"github.com/ManuelReschke/RAAS/internal/pkg/cache"
	"github.com/ManuelReschke/RAAS/internal/pkg/constants"
	"github.com/ManuelReschke/RAAS/internal/pkg/database"
	"github.com/ManuelReschke/RAAS/internal/pkg/env"
	"github.com/ManuelReschke/RAAS/internal/pkg/router"
	"github.com/ManuelReschke/RAAS/internal/pkg/subjectlock"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitializeFactory(database.GetDB())
	controllers.InitializeControllers(newLocker())

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/raas to project root
		"../../../", // Fallback
	}

	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public/docs/v1/openapi.yml"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	app := fiber.New(fiber.Config{
		AppName:   "RAAS",
		BodyLimit: 1 << 20,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// SWAGGER / OPENAPI
	if basePath != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: constants.DocsRoute,
			FilePath: basePath + "public/docs/v1/openapi.yml",
			Path:     constants.DocsVersion,
			Title:    "RAAS API",
		}))
	} else {
		log.Println("openapi.yml not found, API docs disabled")
	}

	// ROUTER
	router.InstallRouter(app, controllers.GetControllers())

	return app
}

// newLocker shares subject locks across instances through Redis when it is
// reachable. Without Redis only this process is serialized.
func newLocker() subjectlock.Locker {
	wait := time.Duration(env.GetEnvInt("SUBJECT_LOCK_WAIT_MS", 3000)) * time.Millisecond
	if cache.IsAvailable() {
		ttl := time.Duration(env.GetEnvInt("SUBJECT_LOCK_TTL_MS", 15000)) * time.Millisecond
		return subjectlock.NewRedisLocker(cache.GetClient(), ttl, wait)
	}
	log.Println("Redis unavailable, using in-process subject locks")
	return subjectlock.NewLocalLocker(wait)
}
