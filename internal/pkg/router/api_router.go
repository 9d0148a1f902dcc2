package router

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/coursebridge/coursebridge/app/controllers"
	"github.com/coursebridge/coursebridge/internal/pkg/env"
	"github.com/coursebridge/coursebridge/internal/pkg/middleware"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Storage:    newLimiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes, all behind API key auth
	v1 := api.Group("/v1", middleware.APIKeyAuthMiddleware())
	v1.Get("/ping", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"message": "pong"})
	})

	// Prices
	v1.Post("/prices", controllers.HandleCreatePrice)
	v1.Get("/prices/:id", controllers.HandleGetPrice)
	v1.Put("/prices/:id", controllers.HandleUpdatePrice)
	v1.Delete("/prices/:id", controllers.HandleDeletePrice)
	v1.Post("/prices/:id/propagate", controllers.HandlePropagatePrice)

	// Category views
	v1.Get("/categories/:id/prices", controllers.HandleGetCategoryPrices)
	v1.Get("/categories/:id/prices/active", controllers.HandleGetActivePrice)
	v1.Get("/categories/:id/prices/stats", controllers.HandleGetPriceStats)

	// Enrolments
	v1.Get("/courses/:id/enrolments", controllers.HandleGetCourseEnrolments)
	v1.Post("/courses/:id/enrolments/init", controllers.HandleInitializeCourseEnrolments)
	v1.Post("/courses/:id/enrolments/import", controllers.HandleImportPrices)

	// WordPress sync
	v1.Get("/sync/stats", controllers.HandleGetSyncStatus)
	v1.Post("/sync/categories", controllers.HandleSyncAllCategories)
	v1.Post("/sync/categories/:id", controllers.HandleSyncCategory)
	v1.Post("/sync/courses", controllers.HandleSyncAllCourses)
	v1.Post("/sync/courses/:id", controllers.HandleSyncCourse)
	v1.Post("/sync/prices/:id", controllers.HandleSyncPrice)

	// Account
	v1.Get("/user/account", controllers.HandleGetUserAccount)

	// Admin-only user management
	users := v1.Group("/users", middleware.AdminOnly())
	users.Post("/:id/password/reset", controllers.HandleResetUserPassword)
}

// newLimiterStorage backs the rate limiter with Redis database 1 so limits
// survive restarts and are shared between instances.
func newLimiterStorage() *redisstorage.Storage {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redisstorage.New(redisstorage.Config{
		Host:     env.GetEnv("CACHE_HOST", "localhost"),
		Port:     port,
		Database: 1,
		Reset:    false,
	})
}
