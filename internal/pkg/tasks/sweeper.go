package tasks

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/coursebridge/coursebridge/app/models"
	"github.com/coursebridge/coursebridge/app/repository"
)

// Sweeper walks fee enrolments that carry the scheduled-task flag and
// reconciles them against their source price: enrolments whose price is
// gone, deactivated or past its validity window are disabled, and stale
// costs are refreshed from the current price.
type Sweeper struct {
	enrolments repository.EnrolmentRepository
	prices     repository.PriceRepository
	now        func() time.Time
}

// NewSweeper creates a sweeper from injected repositories.
func NewSweeper(enrolments repository.EnrolmentRepository, prices repository.PriceRepository) *Sweeper {
	return &Sweeper{enrolments: enrolments, prices: prices, now: time.Now}
}

// NewSweeperFromDB creates a sweeper backed by GORM repositories.
func NewSweeperFromDB(db *gorm.DB) *Sweeper {
	return NewSweeper(repository.NewEnrolmentRepository(db), repository.NewPriceRepository(db))
}

// SweepResult summarises one reconciliation pass.
type SweepResult struct {
	Scanned  int
	Disabled int
	Updated  int
	Errors   []string
}

// SweepOverdue runs one reconciliation pass over all scheduled enrolments.
// Per-item failures are collected and never abort the sweep.
func (s *Sweeper) SweepOverdue() (*SweepResult, error) {
	enrolments, err := s.enrolments.GetScheduled()
	if err != nil {
		return nil, fmt.Errorf("load scheduled enrolments: %w", err)
	}

	result := &SweepResult{}
	nowUnix := s.now().Unix()

	for i := range enrolments {
		enrolment := &enrolments[i]
		result.Scanned++

		if err := s.sweepOne(enrolment, nowUnix, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("enrolment %d: %v", enrolment.ID, err))
		}
	}

	if result.Disabled > 0 || result.Updated > 0 || len(result.Errors) > 0 {
		log.Infof("[Tasks] overdue sweep: %d scanned, %d disabled, %d updated, %d errors",
			result.Scanned, result.Disabled, result.Updated, len(result.Errors))
	}
	return result, nil
}

func (s *Sweeper) sweepOne(enrolment *models.Enrolment, nowUnix int64, result *SweepResult) error {
	price, err := s.prices.GetByID(enrolment.PriceID())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.disable(enrolment, result)
		}
		return err
	}

	if !price.IsActive() || (price.EndDate != 0 && price.EndDate < nowUnix) {
		return s.disable(enrolment, result)
	}

	if enrolment.Cost != price.Price {
		enrolment.Cost = price.Price
		if err := s.enrolments.Update(enrolment); err != nil {
			return err
		}
		result.Updated++
	}
	return nil
}

func (s *Sweeper) disable(enrolment *models.Enrolment, result *SweepResult) error {
	if !enrolment.IsEnabled() {
		return nil
	}
	enrolment.Status = models.EnrolStatusDisabled
	if err := s.enrolments.Update(enrolment); err != nil {
		return err
	}
	result.Disabled++
	return nil
}
