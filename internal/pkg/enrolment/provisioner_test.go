package enrolment

import (
	"errors"
	"testing"
	"time"

	"github.com/coursebridge/coursebridge/app/models"
	"github.com/coursebridge/coursebridge/internal/pkg/testutil"
)

type testEnv struct {
	prov       *Provisioner
	courses    *testutil.CourseRepo
	enrolments *testutil.EnrolmentRepo
	prices     *testutil.PriceRepo
}

func newTestEnv(feeEnabled bool) *testEnv {
	courses := testutil.NewCourseRepo()
	enrolments := testutil.NewEnrolmentRepo()
	prices := testutil.NewPriceRepo()

	courses.Create(&models.Course{ID: 10, CategoryID: 1, FullName: "Go Basics", ShortName: "go101"})

	prov := NewProvisioner(courses, enrolments, prices, feeEnabled, "EUR")
	prov.now = func() time.Time { return time.Unix(150, 0) }

	return &testEnv{prov: prov, courses: courses, enrolments: enrolments, prices: prices}
}

func TestInitialize_NoActivePrice_CreatesManualOnly(t *testing.T) {
	env := newTestEnv(true)

	if err := env.prov.InitializeCourseEnrolments(10); err != nil {
		t.Fatalf("InitializeCourseEnrolments: %v", err)
	}

	manual, _ := env.enrolments.GetByCourseAndMethod(10, models.EnrolMethodManual)
	if len(manual) != 1 {
		t.Fatalf("manual instances = %d, want 1", len(manual))
	}
	fee, _ := env.enrolments.GetByCourseAndMethod(10, models.EnrolMethodFee)
	if len(fee) != 0 {
		t.Fatalf("fee instances = %d, want 0", len(fee))
	}
}

func TestInitialize_ActivePrice_CreatesFeeAndManual(t *testing.T) {
	env := newTestEnv(true)
	env.prices.Create(&models.CategoryPrice{ID: 5, CategoryID: 1, Name: "std", Price: 49.9, Status: 1, StartDate: 100, EndDate: 200})

	if err := env.prov.InitializeCourseEnrolments(10); err != nil {
		t.Fatalf("InitializeCourseEnrolments: %v", err)
	}

	fee, _ := env.enrolments.GetByCourseAndMethod(10, models.EnrolMethodFee)
	if len(fee) != 1 {
		t.Fatalf("fee instances = %d, want 1", len(fee))
	}
	if fee[0].Cost != 49.9 {
		t.Fatalf("fee cost = %v, want 49.9", fee[0].Cost)
	}
	manual, _ := env.enrolments.GetByCourseAndMethod(10, models.EnrolMethodManual)
	if len(manual) != 1 {
		t.Fatalf("manual instances = %d, want 1", len(manual))
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	env := newTestEnv(true)
	env.prices.Create(&models.CategoryPrice{ID: 5, CategoryID: 1, Name: "std", Price: 49.9, Status: 1, StartDate: 100, EndDate: 200})

	if err := env.prov.InitializeCourseEnrolments(10); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if err := env.prov.InitializeCourseEnrolments(10); err != nil {
		t.Fatalf("second call: %v", err)
	}

	fee, _ := env.enrolments.GetByCourseAndMethod(10, models.EnrolMethodFee)
	manual, _ := env.enrolments.GetByCourseAndMethod(10, models.EnrolMethodManual)
	if len(fee) != 1 || len(manual) != 1 {
		t.Fatalf("duplicates after repeat call: fee=%d manual=%d", len(fee), len(manual))
	}
}

func TestInitialize_FeeDisabled_SoftNoop(t *testing.T) {
	env := newTestEnv(false)
	env.prices.Create(&models.CategoryPrice{ID: 5, CategoryID: 1, Name: "std", Price: 49.9, Status: 1, StartDate: 100, EndDate: 200})

	if err := env.prov.InitializeCourseEnrolments(10); err != nil {
		t.Fatalf("expected soft no-op, got %v", err)
	}

	fee, _ := env.enrolments.GetByCourseAndMethod(10, models.EnrolMethodFee)
	if len(fee) != 0 {
		t.Fatalf("fee instance created despite disabled fee support")
	}
	manual, _ := env.enrolments.GetByCourseAndMethod(10, models.EnrolMethodManual)
	if len(manual) != 1 {
		t.Fatalf("manual instance still expected, got %d", len(manual))
	}
}

func TestInitialize_UnknownCourse(t *testing.T) {
	env := newTestEnv(true)
	if err := env.prov.InitializeCourseEnrolments(404); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestImport_StatusInversion(t *testing.T) {
	env := newTestEnv(true)
	env.prices.Create(&models.CategoryPrice{ID: 5, CategoryID: 1, Name: "active", Price: 10, Status: 1, StartDate: 100, EndDate: 200})
	env.prices.Create(&models.CategoryPrice{ID: 6, CategoryID: 1, Name: "inactive", Price: 20, Status: 0, StartDate: 300, EndDate: 400})

	result, err := env.prov.ImportCategoryPricesToCourse(10, []uint{5, 6})
	if err != nil {
		t.Fatalf("ImportCategoryPricesToCourse: %v", err)
	}
	if len(result.Created) != 2 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	fromActive, _ := env.enrolments.GetByPriceRef(5)
	if len(fromActive) != 1 || fromActive[0].Status != models.EnrolStatusEnabled {
		t.Fatalf("active price must yield enabled (0) instance, got %+v", fromActive)
	}
	fromInactive, _ := env.enrolments.GetByPriceRef(6)
	if len(fromInactive) != 1 || fromInactive[0].Status != models.EnrolStatusDisabled {
		t.Fatalf("inactive price must yield disabled (1) instance, got %+v", fromInactive)
	}
}

func TestImport_CopiesFieldsAndBackRefs(t *testing.T) {
	env := newTestEnv(true)
	env.prices.Create(&models.CategoryPrice{
		ID: 5, CategoryID: 1, Name: "promo", Price: 12.5, Status: 1,
		StartDate: 100, EndDate: 200, IsPromotional: true, Installments: 6,
	})

	if _, err := env.prov.ImportCategoryPricesToCourse(10, []uint{5}); err != nil {
		t.Fatalf("import: %v", err)
	}

	instances, _ := env.enrolments.GetByPriceRef(5)
	if len(instances) != 1 {
		t.Fatalf("instances = %d, want 1", len(instances))
	}
	e := instances[0]
	if e.Cost != 12.5 || e.EnrolStartDate != 100 || e.EnrolEndDate != 200 {
		t.Fatalf("fields not copied verbatim: %+v", e)
	}
	if e.CustomInt1 != 5 || e.CustomInt2 != 1 || e.CustomInt3 != 0 || e.CustomInt4 != 6 || e.CustomInt5 != 1 {
		t.Fatalf("back references wrong: %+v", e)
	}
}

func TestImport_CrossCategoryRejectedPerItem(t *testing.T) {
	env := newTestEnv(true)
	env.prices.Create(&models.CategoryPrice{ID: 5, CategoryID: 1, Name: "own", Price: 10, Status: 1})
	env.prices.Create(&models.CategoryPrice{ID: 6, CategoryID: 2, Name: "foreign", Price: 20, Status: 1})

	result, err := env.prov.ImportCategoryPricesToCourse(10, []uint{6, 5})
	if err != nil {
		t.Fatalf("cross-category import must not abort the batch: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want one cross-category rejection", result.Errors)
	}
	if len(result.Created) != 1 {
		t.Fatalf("created = %v, want the own-category price imported", result.Created)
	}
	if foreign, _ := env.enrolments.GetByPriceRef(6); len(foreign) != 0 {
		t.Fatalf("no instance may be created for the foreign price")
	}
}

func TestImport_DuplicateRejected(t *testing.T) {
	env := newTestEnv(true)
	env.prices.Create(&models.CategoryPrice{ID: 5, CategoryID: 1, Name: "own", Price: 10, Status: 1})

	if _, err := env.prov.ImportCategoryPricesToCourse(10, []uint{5}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	result, err := env.prov.ImportCategoryPricesToCourse(10, []uint{5})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(result.Created) != 0 || len(result.Errors) != 1 {
		t.Fatalf("duplicate import not rejected: %+v", result)
	}
}

func TestUpdateEnrolmentsFromPrice(t *testing.T) {
	env := newTestEnv(true)
	env.prices.Create(&models.CategoryPrice{ID: 5, CategoryID: 1, Name: "p", Price: 10, Status: 1, StartDate: 100, EndDate: 200})
	env.courses.Create(&models.Course{ID: 11, CategoryID: 1, FullName: "Go Advanced", ShortName: "go201"})

	if _, err := env.prov.ImportCategoryPricesToCourse(10, []uint{5}); err != nil {
		t.Fatalf("import into course 10: %v", err)
	}
	if _, err := env.prov.ImportCategoryPricesToCourse(11, []uint{5}); err != nil {
		t.Fatalf("import into course 11: %v", err)
	}

	// Deactivate and reprice, then propagate.
	price, _ := env.prices.GetByID(5)
	price.Status = 0
	price.Price = 99
	env.prices.Update(price)

	updated, err := env.prov.UpdateEnrolmentsFromPrice(5)
	if err != nil {
		t.Fatalf("UpdateEnrolmentsFromPrice: %v", err)
	}
	if updated != 2 {
		t.Fatalf("updated = %d, want 2", updated)
	}

	linked, _ := env.enrolments.GetByPriceRef(5)
	for _, e := range linked {
		if e.Status != models.EnrolStatusDisabled {
			t.Fatalf("instance %d status = %d, want disabled", e.ID, e.Status)
		}
		if e.Cost != 99 {
			t.Fatalf("instance %d cost = %v, want 99", e.ID, e.Cost)
		}
	}
}

func TestUpdateEnrolmentsFromPrice_PartialFailure(t *testing.T) {
	env := newTestEnv(true)
	env.prices.Create(&models.CategoryPrice{ID: 5, CategoryID: 1, Name: "p", Price: 10, Status: 1})
	env.courses.Create(&models.Course{ID: 11, CategoryID: 1, FullName: "Go Advanced", ShortName: "go201"})

	res1, _ := env.prov.ImportCategoryPricesToCourse(10, []uint{5})
	if _, err := env.prov.ImportCategoryPricesToCourse(11, []uint{5}); err != nil {
		t.Fatalf("import: %v", err)
	}

	env.enrolments.FailUpdateID = res1.Created[0]

	updated, err := env.prov.UpdateEnrolmentsFromPrice(5)
	if err != nil {
		t.Fatalf("partial failure must not abort: %v", err)
	}
	if updated != 1 {
		t.Fatalf("updated = %d, want 1 (one instance fails)", updated)
	}
}

func TestUpdateEnrolmentsFromPrice_UnknownPrice(t *testing.T) {
	env := newTestEnv(true)
	if _, err := env.prov.UpdateEnrolmentsFromPrice(404); !errors.Is(err, ErrPriceNotFound) {
		t.Fatalf("expected ErrPriceNotFound, got %v", err)
	}
}
