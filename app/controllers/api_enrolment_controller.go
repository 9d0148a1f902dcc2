package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/coursebridge/coursebridge/app/repository"
	"github.com/coursebridge/coursebridge/internal/pkg/enrolment"
)

func handleEnrolmentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, enrolment.ErrCourseNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "Course not found")
	case errors.Is(err, enrolment.ErrPriceNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "Price not found")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Operation failed")
	}
}

// HandleInitializeCourseEnrolments provisions the default enrolment
// instances for a course: a fee instance when the category has an active
// price, and a manual fallback either way. Safe to call repeatedly.
func HandleInitializeCourseEnrolments(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	_, provisioner, _ := getServices()
	if err := provisioner.InitializeCourseEnrolments(courseID); err != nil {
		return handleEnrolmentError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

type importPricesRequest struct {
	PriceIDs []uint `json:"price_ids"`
}

// HandleImportPrices creates fee enrolment instances on a course from a
// list of its category's prices. Failures are reported per price, the rest
// of the batch proceeds.
func HandleImportPrices(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	var req importPricesRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON payload")
	}
	if len(req.PriceIDs) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "price_ids is required")
	}

	_, provisioner, _ := getServices()
	result, err := provisioner.ImportCategoryPricesToCourse(courseID, req.PriceIDs)
	if err != nil {
		return handleEnrolmentError(c, err)
	}
	return c.JSON(result)
}

// HandlePropagatePrice pushes the current state of a price into every
// enrolment instance that was created from it.
func HandlePropagatePrice(c *fiber.Ctx) error {
	priceID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	_, provisioner, _ := getServices()
	updated, err := provisioner.UpdateEnrolmentsFromPrice(priceID)
	if err != nil {
		return handleEnrolmentError(c, err)
	}
	return c.JSON(fiber.Map{"updated": updated})
}

// HandleGetCourseEnrolments lists the enrolment instances of a course.
func HandleGetCourseEnrolments(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	repo := repository.GetGlobalFactory().GetEnrolmentRepository()
	enrolments, err := repo.GetByCourse(courseID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load enrolments")
	}
	return c.JSON(enrolments)
}
