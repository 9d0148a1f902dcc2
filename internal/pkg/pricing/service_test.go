package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/coursebridge/coursebridge/app/models"
	"github.com/coursebridge/coursebridge/internal/pkg/testutil"
)

func newTestService() (*Service, *testutil.PriceRepo, *testutil.CategoryRepo) {
	prices := testutil.NewPriceRepo()
	categories := testutil.NewCategoryRepo()
	categories.Create(&models.CourseCategory{ID: 1, Name: "Languages"})
	categories.Create(&models.CourseCategory{ID: 2, Name: "Science"})
	svc := NewService(prices, categories, nil)
	return svc, prices, categories
}

func TestCreate_RoundTrip(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(PriceInput{
		CategoryID:   1,
		Name:         "  Early bird  ",
		Price:        fptr(120.50),
		StartDate:    100,
		EndDate:      200,
		Installments: 3,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected server-assigned id")
	}

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Early bird" {
		t.Fatalf("name = %q, want sanitized %q", got.Name, "Early bird")
	}
	if got.Price != 120.50 || got.StartDate != 100 || got.EndDate != 200 || got.Installments != 3 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Status != models.PriceStatusActive {
		t.Fatalf("status = %d, want default active", got.Status)
	}
}

func TestCreate_MissingRequired(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(PriceInput{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"category_id", "name", "price"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("expected field error for %q, got %v", field, verr.Fields)
		}
	}
}

func TestCreate_OmittedPriceRejected(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(PriceInput{CategoryID: 1, Name: "no amount"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["price"] != "price is required" {
		t.Fatalf("expected price required error, got %v", verr.Fields)
	}

	// An explicit zero is a legitimate free price.
	if _, err := svc.Create(PriceInput{CategoryID: 1, Name: "free", Price: fptr(0)}); err != nil {
		t.Fatalf("explicit zero price rejected: %v", err)
	}
}

func TestCreate_UnknownCategory(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(PriceInput{CategoryID: 99, Name: "p", Price: fptr(1)})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["category_id"]; !ok {
		t.Fatalf("expected category_id error, got %v", verr.Fields)
	}
}

func TestCreate_OverlapRejected(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Create(PriceInput{CategoryID: 1, Name: "base", Price: fptr(10), StartDate: 100, EndDate: 200}); err != nil {
		t.Fatalf("seed price: %v", err)
	}

	_, err := svc.Create(PriceInput{CategoryID: 1, Name: "clash", Price: fptr(20), StartDate: 150, EndDate: 300})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected overlap rejection, got %v", err)
	}

	// Adjacent window starting exactly at the previous end must pass.
	if _, err := svc.Create(PriceInput{CategoryID: 1, Name: "next", Price: fptr(20), StartDate: 200, EndDate: 300}); err != nil {
		t.Fatalf("adjacent window rejected: %v", err)
	}

	// Same window in another category is fine too.
	if _, err := svc.Create(PriceInput{CategoryID: 2, Name: "other", Price: fptr(20), StartDate: 150, EndDate: 300}); err != nil {
		t.Fatalf("other category rejected: %v", err)
	}
}

func TestUpdate_SelfExclusionAndPartial(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(PriceInput{CategoryID: 1, Name: "base", Price: fptr(10), StartDate: 100, EndDate: 200})
	if err != nil {
		t.Fatalf("seed price: %v", err)
	}

	newPrice := 15.0
	updated, err := svc.Update(created.ID, PriceUpdate{Price: &newPrice})
	if err != nil {
		t.Fatalf("partial update against own window failed: %v", err)
	}
	if updated.Price != 15.0 || updated.Name != "base" || updated.StartDate != 100 {
		t.Fatalf("partial update clobbered fields: %+v", updated)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Update(42, PriceUpdate{}); !errors.Is(err, ErrPriceNotFound) {
		t.Fatalf("expected ErrPriceNotFound, got %v", err)
	}
}

func TestGetActivePrice_WindowResolution(t *testing.T) {
	svc, prices, _ := newTestService()

	prices.Create(&models.CategoryPrice{CategoryID: 1, Name: "a", Price: 10, Status: 1, StartDate: 100, EndDate: 200})
	prices.Create(&models.CategoryPrice{CategoryID: 1, Name: "b", Price: 20, Status: 1, StartDate: 300, EndDate: 0})
	prices.Create(&models.CategoryPrice{CategoryID: 1, Name: "off", Price: 5, Status: 0, StartDate: 0, EndDate: 0})

	got, err := svc.GetActivePrice(1, 150)
	if err != nil {
		t.Fatalf("GetActivePrice: %v", err)
	}
	if got == nil || got.Name != "a" {
		t.Fatalf("at 150: got %+v, want price a", got)
	}

	got, _ = svc.GetActivePrice(1, 500)
	if got == nil || got.Name != "b" {
		t.Fatalf("at 500: got %+v, want open-ended price b", got)
	}

	got, _ = svc.GetActivePrice(1, 50)
	if got != nil {
		t.Fatalf("before all windows: got %+v, want none", got)
	}

	got, _ = svc.GetActivePrice(1, 250)
	if got != nil {
		t.Fatalf("in the gap between windows: got %+v, want none", got)
	}
}

func TestGetActivePrice_LatestStartWinsOnOverlap(t *testing.T) {
	svc, prices, _ := newTestService()

	// Two overlapping active windows, as left behind by the known
	// validation race. The later start must win.
	prices.Create(&models.CategoryPrice{CategoryID: 1, Name: "older", Price: 10, Status: 1, StartDate: 100, EndDate: 400})
	prices.Create(&models.CategoryPrice{CategoryID: 1, Name: "newer", Price: 20, Status: 1, StartDate: 200, EndDate: 400})

	got, err := svc.GetActivePrice(1, 300)
	if err != nil {
		t.Fatalf("GetActivePrice: %v", err)
	}
	if got == nil || got.Name != "newer" {
		t.Fatalf("got %+v, want latest-start price", got)
	}
}

func TestDelete_HardDelete(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(PriceInput{CategoryID: 1, Name: "base", Price: fptr(10)})
	if err != nil {
		t.Fatalf("seed price: %v", err)
	}
	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, ErrPriceNotFound) {
		t.Fatalf("expected ErrPriceNotFound after delete, got %v", err)
	}
	if err := svc.Delete(created.ID); !errors.Is(err, ErrPriceNotFound) {
		t.Fatalf("double delete: expected ErrPriceNotFound, got %v", err)
	}
}

func TestGetStats(t *testing.T) {
	svc, prices, _ := newTestService()

	prices.Create(&models.CategoryPrice{CategoryID: 1, Name: "a", Price: 10, Status: 1, IsPromotional: true})
	prices.Create(&models.CategoryPrice{CategoryID: 1, Name: "b", Price: 30, Status: 0, IsEnrollmentFee: true})
	prices.Create(&models.CategoryPrice{CategoryID: 2, Name: "c", Price: 99, Status: 1})

	stats, err := svc.GetStats(1)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Total != 2 || stats.Active != 1 || stats.Promotional != 1 || stats.EnrollmentFees != 1 {
		t.Fatalf("unexpected counters: %+v", stats)
	}
	if stats.MinPrice != 10 || stats.MaxPrice != 30 {
		t.Fatalf("unexpected min/max: %+v", stats)
	}
}

func TestGetStats_UnknownCategory(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.GetStats(99); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestGetActivePrice_NowPathUsesClock(t *testing.T) {
	svc, prices, _ := newTestService()
	svc.now = func() time.Time { return time.Unix(150, 0) }

	prices.Create(&models.CategoryPrice{CategoryID: 1, Name: "a", Price: 10, Status: 1, StartDate: 100, EndDate: 200})

	got, err := svc.GetActivePrice(1, 0)
	if err != nil {
		t.Fatalf("GetActivePrice: %v", err)
	}
	if got == nil || got.Name != "a" {
		t.Fatalf("now path: got %+v, want price a", got)
	}
}
