package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/coursebridge/coursebridge/app/repository"
	"github.com/coursebridge/coursebridge/internal/pkg/wpsync"
)

// HandleSyncCategory pushes one category to WordPress (?force=1 re-pushes
// an already synced mapping).
// Security: API Key required via router middleware
func HandleSyncCategory(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	category, err := repository.GetGlobalFactory().GetCategoryRepository().GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Category not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load category")
	}

	_, _, syncer := getServices()
	pushed, err := syncer.SyncCategory(c.Context(), category, c.QueryBool("force"))
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "sync_failed", err.Error())
	}
	return c.JSON(fiber.Map{"pushed": pushed})
}

// HandleSyncAllCategories pushes every category, parents first, and
// returns the run summary.
func HandleSyncAllCategories(c *fiber.Ctx) error {
	_, _, syncer := getServices()
	summary, err := syncer.SyncAllCategories(c.Context(), c.QueryBool("force"))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Category sync failed")
	}
	return c.JSON(summary)
}

// HandleSyncCourse pushes one course post to WordPress.
func HandleSyncCourse(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	course, err := repository.GetGlobalFactory().GetCourseRepository().GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Course not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load course")
	}

	_, _, syncer := getServices()
	pushed, err := syncer.SyncCourse(c.Context(), course, c.QueryBool("force"))
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "sync_failed", err.Error())
	}
	return c.JSON(fiber.Map{"pushed": pushed})
}

// HandleSyncAllCourses pushes every course and returns the run summary.
func HandleSyncAllCourses(c *fiber.Ctx) error {
	_, _, syncer := getServices()
	summary, err := syncer.SyncAllCourses(c.Context(), c.QueryBool("force"))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Course sync failed")
	}
	return c.JSON(summary)
}

// HandleSyncPrice pushes one price through the bulk pricing endpoint.
func HandleSyncPrice(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	_, _, syncer := getServices()
	if err := syncer.SyncPrice(c.Context(), id); err != nil {
		if errors.Is(err, wpsync.ErrPriceNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Price not found")
		}
		return jsonError(c, fiber.StatusBadGateway, "sync_failed", err.Error())
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleGetSyncStatus returns the per-status mapping counters.
func HandleGetSyncStatus(c *fiber.Ctx) error {
	_, _, syncer := getServices()
	stats, err := syncer.Mappings().GetStats()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load sync status")
	}
	return c.JSON(fiber.Map{"mappings": stats})
}
