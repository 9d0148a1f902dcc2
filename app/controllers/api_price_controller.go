package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/coursebridge/coursebridge/internal/pkg/pricing"
)

// HandleCreatePrice creates a category price.
// Security: API Key required via router middleware
func HandleCreatePrice(c *fiber.Ctx) error {
	var input pricing.PriceInput
	if err := c.BodyParser(&input); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON payload")
	}

	svc, _, _ := getServices()
	price, err := svc.Create(input)
	if err != nil {
		return handlePricingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(price)
}

// HandleGetPrice returns a single category price.
func HandleGetPrice(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	svc, _, _ := getServices()
	price, err := svc.Get(id)
	if err != nil {
		return handlePricingError(c, err)
	}
	return c.JSON(price)
}

// HandleUpdatePrice applies a partial update to a price. Omitted fields are
// left untouched; the merged result is re-validated including overlaps.
func HandleUpdatePrice(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	var update pricing.PriceUpdate
	if err := c.BodyParser(&update); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON payload")
	}

	svc, _, _ := getServices()
	price, err := svc.Update(id, update)
	if err != nil {
		return handlePricingError(c, err)
	}
	return c.JSON(price)
}

// HandleDeletePrice removes a price permanently. Enrolment instances that
// reference it are left alone and cleaned up by the background sweep.
func HandleDeletePrice(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	svc, _, _ := getServices()
	if err := svc.Delete(id); err != nil {
		return handlePricingError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleGetCategoryPrices lists the prices of a category, optionally only
// the active ones (?active=1).
func HandleGetCategoryPrices(c *fiber.Ctx) error {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	svc, _, _ := getServices()
	prices, err := svc.GetCategoryPrices(categoryID, c.QueryBool("active"))
	if err != nil {
		return handlePricingError(c, err)
	}
	return c.JSON(prices)
}

// HandleGetActivePrice resolves the price in effect for a category at a
// given instant (?at=unix, defaults to now). The body is null when no
// price covers the instant.
func HandleGetActivePrice(c *fiber.Ctx) error {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	var at int64
	if raw := c.Query("at"); raw != "" {
		at, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid at timestamp")
		}
	}

	svc, _, _ := getServices()
	price, err := svc.GetActivePrice(categoryID, at)
	if err != nil {
		return handlePricingError(c, err)
	}
	if price == nil {
		return c.JSON(nil)
	}
	return c.JSON(price)
}

// HandleGetPriceStats returns the per-category price counters.
func HandleGetPriceStats(c *fiber.Ctx) error {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	svc, _, _ := getServices()
	stats, err := svc.GetStats(categoryID)
	if err != nil {
		return handlePricingError(c, err)
	}
	return c.JSON(stats)
}
