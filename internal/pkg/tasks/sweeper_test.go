package tasks

import (
	"testing"
	"time"

	"github.com/coursebridge/coursebridge/app/models"
	"github.com/coursebridge/coursebridge/internal/pkg/testutil"
)

func newTestSweeper(t *testing.T, nowUnix int64) (*Sweeper, *testutil.EnrolmentRepo, *testutil.PriceRepo) {
	t.Helper()
	enrolments := testutil.NewEnrolmentRepo()
	prices := testutil.NewPriceRepo()
	s := NewSweeper(enrolments, prices)
	s.now = func() time.Time { return time.Unix(nowUnix, 0) }
	return s, enrolments, prices
}

func addScheduledEnrolment(t *testing.T, repo *testutil.EnrolmentRepo, priceID uint, cost float64) *models.Enrolment {
	t.Helper()
	e := &models.Enrolment{
		CourseID:   1,
		Method:     models.EnrolMethodFee,
		Status:     models.EnrolStatusEnabled,
		Cost:       cost,
		Currency:   "EUR",
		CustomInt1: int64(priceID),
		CustomInt5: 1,
	}
	if err := repo.Create(e); err != nil {
		t.Fatalf("create enrolment: %v", err)
	}
	return e
}

func TestSweepDisablesExpiredWindow(t *testing.T) {
	s, enrolments, prices := newTestSweeper(t, 1000)
	if err := prices.Create(&models.CategoryPrice{
		ID: 5, CategoryID: 1, Name: "Promo", Price: 50,
		StartDate: 100, EndDate: 500, Status: models.PriceStatusActive,
	}); err != nil {
		t.Fatalf("create price: %v", err)
	}
	e := addScheduledEnrolment(t, enrolments, 5, 50)

	result, err := s.SweepOverdue()
	if err != nil {
		t.Fatalf("SweepOverdue: %v", err)
	}
	if result.Scanned != 1 || result.Disabled != 1 {
		t.Fatalf("result = %+v, want 1 disabled", result)
	}

	got, _ := enrolments.GetByID(e.ID)
	if got.IsEnabled() {
		t.Fatal("expected expired enrolment to be disabled")
	}
}

func TestSweepDisablesInactiveAndMissingPrice(t *testing.T) {
	s, enrolments, prices := newTestSweeper(t, 1000)
	if err := prices.Create(&models.CategoryPrice{
		ID: 5, CategoryID: 1, Name: "Retired", Price: 50,
		StartDate: 100, Status: models.PriceStatusInactive,
	}); err != nil {
		t.Fatalf("create price: %v", err)
	}
	inactive := addScheduledEnrolment(t, enrolments, 5, 50)
	orphan := addScheduledEnrolment(t, enrolments, 99, 80)

	result, err := s.SweepOverdue()
	if err != nil {
		t.Fatalf("SweepOverdue: %v", err)
	}
	if result.Disabled != 2 {
		t.Fatalf("result = %+v, want 2 disabled", result)
	}
	for _, id := range []uint{inactive.ID, orphan.ID} {
		got, _ := enrolments.GetByID(id)
		if got.IsEnabled() {
			t.Fatalf("enrolment %d still enabled", id)
		}
	}
}

func TestSweepRefreshesStaleCost(t *testing.T) {
	s, enrolments, prices := newTestSweeper(t, 1000)
	if err := prices.Create(&models.CategoryPrice{
		ID: 5, CategoryID: 1, Name: "Standard", Price: 75,
		StartDate: 100, EndDate: 0, Status: models.PriceStatusActive,
	}); err != nil {
		t.Fatalf("create price: %v", err)
	}
	e := addScheduledEnrolment(t, enrolments, 5, 50)

	result, err := s.SweepOverdue()
	if err != nil {
		t.Fatalf("SweepOverdue: %v", err)
	}
	if result.Updated != 1 || result.Disabled != 0 {
		t.Fatalf("result = %+v, want 1 updated", result)
	}

	got, _ := enrolments.GetByID(e.ID)
	if got.Cost != 75 {
		t.Fatalf("cost = %v, want 75", got.Cost)
	}
	if !got.IsEnabled() {
		t.Fatal("cost refresh must not disable the enrolment")
	}
}

func TestSweepLeavesCurrentEnrolmentAlone(t *testing.T) {
	s, enrolments, prices := newTestSweeper(t, 1000)
	if err := prices.Create(&models.CategoryPrice{
		ID: 5, CategoryID: 1, Name: "Standard", Price: 50,
		StartDate: 100, EndDate: 2000, Status: models.PriceStatusActive,
	}); err != nil {
		t.Fatalf("create price: %v", err)
	}
	addScheduledEnrolment(t, enrolments, 5, 50)

	result, err := s.SweepOverdue()
	if err != nil {
		t.Fatalf("SweepOverdue: %v", err)
	}
	if result.Scanned != 1 || result.Disabled != 0 || result.Updated != 0 {
		t.Fatalf("result = %+v, want untouched", result)
	}
}

func TestSweepCollectsPerItemErrors(t *testing.T) {
	s, enrolments, prices := newTestSweeper(t, 1000)
	if err := prices.Create(&models.CategoryPrice{
		ID: 5, CategoryID: 1, Name: "Standard", Price: 75,
		StartDate: 100, Status: models.PriceStatusActive,
	}); err != nil {
		t.Fatalf("create price: %v", err)
	}
	broken := addScheduledEnrolment(t, enrolments, 5, 50)
	fine := addScheduledEnrolment(t, enrolments, 5, 50)
	enrolments.FailUpdateID = broken.ID

	result, err := s.SweepOverdue()
	if err != nil {
		t.Fatalf("SweepOverdue: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want 1", result.Errors)
	}
	if result.Updated != 1 {
		t.Fatalf("result = %+v, want the healthy row updated", result)
	}

	got, _ := enrolments.GetByID(fine.ID)
	if got.Cost != 75 {
		t.Fatalf("cost = %v, want 75", got.Cost)
	}
}
