package controllers

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/coursebridge/coursebridge/internal/pkg/database"
	"github.com/coursebridge/coursebridge/internal/pkg/enrolment"
	"github.com/coursebridge/coursebridge/internal/pkg/pricing"
	"github.com/coursebridge/coursebridge/internal/pkg/wpsync"
)

var (
	servicesOnce     sync.Once
	priceService     *pricing.Service
	enrolProvisioner *enrolment.Provisioner
	wpSyncer         *wpsync.Syncer
)

// getServices lazily builds the shared service instances on first use so
// controllers stay plain package-level handlers like the rest of the app.
func getServices() (*pricing.Service, *enrolment.Provisioner, *wpsync.Syncer) {
	servicesOnce.Do(func() {
		db := database.GetDB()
		priceService = pricing.NewServiceFromDB(db)
		enrolProvisioner = enrolment.NewProvisionerFromDB(db)
		wpSyncer = wpsync.NewSyncerFromDB(db)
	})
	return priceService, enrolProvisioner, wpSyncer
}

// parseUintParam reads a positive integer route parameter.
func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return 0, errors.New("invalid " + name)
	}
	return uint(v), nil
}

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

// handlePricingError maps service errors onto the API error taxonomy.
func handlePricingError(c *fiber.Ctx, err error) error {
	var valErr *pricing.ValidationError
	if errors.As(err, &valErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": "Validation failed",
			"fields":  valErr.Fields,
		})
	}
	switch {
	case errors.Is(err, pricing.ErrPriceNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "Price not found")
	case errors.Is(err, pricing.ErrCategoryNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "Category not found")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Operation failed")
	}
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
