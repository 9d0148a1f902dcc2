package enrolment

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/coursebridge/coursebridge/app/models"
	"github.com/coursebridge/coursebridge/app/repository"
	"github.com/coursebridge/coursebridge/internal/pkg/env"
)

// ErrCourseNotFound is returned when a course ID does not resolve to a row.
var ErrCourseNotFound = errors.New("course not found")

// ErrPriceNotFound is returned when a price ID does not resolve to a row.
var ErrPriceNotFound = errors.New("category price not found")

// ImportResult aggregates the per-price outcome of a bulk import.
type ImportResult struct {
	Created []uint   `json:"created"`
	Errors  []string `json:"errors"`
}

// Provisioner keeps course enrolment instances in step with category
// prices: it seeds fee/manual instances on courses and propagates price
// changes into instances created from a price import.
type Provisioner struct {
	courses    repository.CourseRepository
	enrolments repository.EnrolmentRepository
	prices     repository.PriceRepository

	// feeEnabled mirrors whether the host's fee enrolment plugin is
	// available. When false, fee provisioning is a silent no-op.
	feeEnabled bool
	currency   string
	now        func() time.Time
}

// NewProvisioner creates a provisioner from injected repositories.
func NewProvisioner(
	courses repository.CourseRepository,
	enrolments repository.EnrolmentRepository,
	prices repository.PriceRepository,
	feeEnabled bool,
	currency string,
) *Provisioner {
	if currency == "" {
		currency = "EUR"
	}
	return &Provisioner{
		courses:    courses,
		enrolments: enrolments,
		prices:     prices,
		feeEnabled: feeEnabled,
		currency:   currency,
		now:        time.Now,
	}
}

// NewProvisionerFromDB creates a provisioner from a GORM DB handle with
// fee support and currency taken from the environment.
func NewProvisionerFromDB(db *gorm.DB) *Provisioner {
	return NewProvisioner(
		repository.NewCourseRepository(db),
		repository.NewEnrolmentRepository(db),
		repository.NewPriceRepository(db),
		env.GetEnv("ENROL_FEE_ENABLED", "true") == "true",
		env.GetEnv("ENROL_CURRENCY", "EUR"),
	)
}

// InitializeCourseEnrolments makes sure a course carries the enrolment
// instances its category's current price calls for. Idempotent: repeated
// calls never create duplicate fee or manual instances. A manual instance
// is always ensured so free/admin access stays possible.
func (p *Provisioner) InitializeCourseEnrolments(courseID uint) error {
	course, err := p.getCourse(courseID)
	if err != nil {
		return err
	}

	active, err := p.prices.GetActiveAt(course.CategoryID, p.now().Unix())
	if err != nil {
		return fmt.Errorf("resolve active price: %w", err)
	}

	if active != nil {
		if err := p.ensureFeeEnrolment(course, active); err != nil {
			return err
		}
	}

	return p.ensureManualEnrolment(course)
}

// ImportCategoryPricesToCourse creates one dedicated enrolment instance per
// requested price. Prices from a different category than the course's are
// rejected as per-item errors; one bad price never aborts the rest.
func (p *Provisioner) ImportCategoryPricesToCourse(courseID uint, priceIDs []uint) (*ImportResult, error) {
	course, err := p.getCourse(courseID)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, priceID := range priceIDs {
		price, err := p.prices.GetByID(priceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Errors = append(result.Errors, fmt.Sprintf("price %d not found", priceID))
				continue
			}
			return nil, fmt.Errorf("load price %d: %w", priceID, err)
		}

		if price.CategoryID != course.CategoryID {
			result.Errors = append(result.Errors,
				fmt.Sprintf("price %d belongs to category %d, not to the course's category %d",
					price.ID, price.CategoryID, course.CategoryID))
			continue
		}

		existing, err := p.enrolments.GetByPriceRef(price.ID)
		if err != nil {
			return nil, fmt.Errorf("check existing import for price %d: %w", price.ID, err)
		}
		alreadyImported := false
		for _, e := range existing {
			if e.CourseID == course.ID {
				alreadyImported = true
				break
			}
		}
		if alreadyImported {
			result.Errors = append(result.Errors,
				fmt.Sprintf("price %d is already imported into course %d", price.ID, course.ID))
			continue
		}

		instance := p.instanceFromPrice(course.ID, price)
		if err := p.enrolments.Create(instance); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("create enrolment for price %d: %v", price.ID, err))
			continue
		}
		result.Created = append(result.Created, instance.ID)
	}

	return result, nil
}

// UpdateEnrolmentsFromPrice re-applies a price's fields to every enrolment
// instance back-referencing it and returns how many were updated. A single
// failing instance is logged and skipped.
func (p *Provisioner) UpdateEnrolmentsFromPrice(priceID uint) (int, error) {
	price, err := p.prices.GetByID(priceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrPriceNotFound
		}
		return 0, fmt.Errorf("load price %d: %w", priceID, err)
	}

	linked, err := p.enrolments.GetByPriceRef(priceID)
	if err != nil {
		return 0, fmt.Errorf("load linked enrolments: %w", err)
	}

	updated := 0
	for i := range linked {
		instance := linked[i]
		p.applyPrice(&instance, price)
		if err := p.enrolments.Update(&instance); err != nil {
			log.Warnf("[Enrolment] skipping instance %d while propagating price %d: %v",
				instance.ID, priceID, err)
			continue
		}
		updated++
	}

	return updated, nil
}

// instanceFromPrice builds the dedicated enrolment instance for an imported
// price: inverted status encoding, custom-slot back references and verbatim
// window dates.
func (p *Provisioner) instanceFromPrice(courseID uint, price *models.CategoryPrice) *models.Enrolment {
	instance := &models.Enrolment{
		CourseID: courseID,
		Method:   models.EnrolMethodFee,
		Currency: p.currency,
	}
	p.applyPrice(instance, price)
	return instance
}

func (p *Provisioner) applyPrice(instance *models.Enrolment, price *models.CategoryPrice) {
	instance.Status = ToEnrolmentStatus(price.Status)
	instance.Cost = price.Price
	instance.EnrolStartDate = price.StartDate
	instance.EnrolEndDate = price.EndDate
	instance.CustomInt1 = int64(price.ID)
	instance.CustomInt2 = int64(flag(price.IsPromotional))
	instance.CustomInt3 = int64(flag(price.IsEnrollmentFee))
	instance.CustomInt4 = int64(price.Installments)
	// Installment prices are watched by the overdue-payment task.
	instance.CustomInt5 = 0
	if price.Installments > 0 {
		instance.CustomInt5 = 1
	}
}

// ensureFeeEnrolment creates or refreshes the course's fee instance from
// the active price. Missing fee plugin support is a soft no-op, not an
// error.
func (p *Provisioner) ensureFeeEnrolment(course *models.Course, active *models.CategoryPrice) error {
	if !p.feeEnabled {
		return nil
	}

	existing, err := p.enrolments.GetByCourseAndMethod(course.ID, models.EnrolMethodFee)
	if err != nil {
		return fmt.Errorf("load fee enrolments: %w", err)
	}

	if len(existing) == 0 {
		instance := p.instanceFromPrice(course.ID, active)
		if err := p.enrolments.Create(instance); err != nil {
			return fmt.Errorf("create fee enrolment: %w", err)
		}
		return nil
	}

	// Keep the first instance's cost in step with the active price.
	fee := existing[0]
	if fee.Cost == active.Price && fee.Currency == p.currency {
		return nil
	}
	fee.Cost = active.Price
	fee.Currency = p.currency
	if err := p.enrolments.Update(&fee); err != nil {
		return fmt.Errorf("update fee enrolment: %w", err)
	}
	return nil
}

func (p *Provisioner) ensureManualEnrolment(course *models.Course) error {
	existing, err := p.enrolments.GetByCourseAndMethod(course.ID, models.EnrolMethodManual)
	if err != nil {
		return fmt.Errorf("load manual enrolments: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	instance := &models.Enrolment{
		CourseID: course.ID,
		Method:   models.EnrolMethodManual,
		Status:   models.EnrolStatusEnabled,
		Cost:     0,
		Currency: p.currency,
	}
	if err := p.enrolments.Create(instance); err != nil {
		return fmt.Errorf("create manual enrolment: %w", err)
	}
	return nil
}

func (p *Provisioner) getCourse(courseID uint) (*models.Course, error) {
	course, err := p.courses.GetByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}
	return course, nil
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
