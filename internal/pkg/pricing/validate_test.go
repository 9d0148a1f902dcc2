package pricing

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/coursebridge/coursebridge/app/models"
)

func fptr(v float64) *float64 { return &v }

func TestCheckFields_ValidInput(t *testing.T) {
	in := PriceInput{
		CategoryID: 1,
		Name:       "Standard",
		Price:      fptr(49.99),
		StartDate:  100,
		EndDate:    200,
	}
	if errs := checkFields(in); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckFields_Required(t *testing.T) {
	errs := checkFields(PriceInput{})
	for _, field := range []string{"category_id", "name", "price"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("expected error for %q, got %v", field, errs)
		}
	}
}

func TestCheckFields_NegativePrice(t *testing.T) {
	errs := checkFields(PriceInput{CategoryID: 1, Name: "p", Price: fptr(-1)})
	if errs["price"] != "price must not be negative" {
		t.Fatalf("expected negative price error, got %v", errs)
	}
}

func TestCheckFields_DateRange(t *testing.T) {
	tests := []struct {
		name    string
		start   int64
		end     int64
		wantErr bool
	}{
		{name: "start before end", start: 100, end: 200, wantErr: false},
		{name: "end equals start", start: 100, end: 100, wantErr: true},
		{name: "end before start", start: 200, end: 100, wantErr: true},
		{name: "open ended", start: 100, end: 0, wantErr: false},
	}

	for _, tt := range tests {
		in := PriceInput{CategoryID: 1, Name: "p", Price: fptr(1), StartDate: tt.start, EndDate: tt.end}
		_, got := checkFields(in)["end_date"]
		if got != tt.wantErr {
			t.Fatalf("%s: end_date error = %v, want %v", tt.name, got, tt.wantErr)
		}
	}
}

func TestCheckFields_Installments(t *testing.T) {
	for _, n := range []int{0, 1, 12} {
		in := PriceInput{CategoryID: 1, Name: "p", Price: fptr(1), Installments: n}
		if _, ok := checkFields(in)["installments"]; ok {
			t.Fatalf("installments=%d unexpectedly rejected", n)
		}
	}
	for _, n := range []int{-1, 13, 100} {
		in := PriceInput{CategoryID: 1, Name: "p", Price: fptr(1), Installments: n}
		if _, ok := checkFields(in)["installments"]; !ok {
			t.Fatalf("installments=%d unexpectedly accepted", n)
		}
	}
}

func TestSanitize(t *testing.T) {
	long := strings.Repeat("x", models.PriceNameMaxLen+50)
	in := Sanitize(PriceInput{Name: "  " + long + "  ", IsPromotional: 7, IsEnrollmentFee: -3})

	if len(in.Name) != models.PriceNameMaxLen {
		t.Fatalf("name length = %d, want %d", len(in.Name), models.PriceNameMaxLen)
	}
	if strings.HasPrefix(in.Name, " ") {
		t.Fatalf("name not trimmed: %q", in.Name[:5])
	}
	if in.IsPromotional != 1 || in.IsEnrollmentFee != 1 {
		t.Fatalf("flags not normalized: promo=%d fee=%d", in.IsPromotional, in.IsEnrollmentFee)
	}
}

func TestSanitize_MultiByteName(t *testing.T) {
	long := strings.Repeat("ü", models.PriceNameMaxLen+10)
	in := Sanitize(PriceInput{Name: long})

	if !utf8.ValidString(in.Name) {
		t.Fatalf("truncated name is not valid UTF-8")
	}
	if got := utf8.RuneCountInString(in.Name); got != models.PriceNameMaxLen {
		t.Fatalf("rune count = %d, want %d", got, models.PriceNameMaxLen)
	}
	if errs := checkFields(PriceInput{CategoryID: 1, Name: in.Name, Price: fptr(1)}); len(errs) != 0 {
		t.Fatalf("sanitized name rejected: %v", errs)
	}
}

func TestWindowsOverlap(t *testing.T) {
	tests := []struct {
		name             string
		newStart, newEnd int64
		exStart, exEnd   int64
		want             bool
	}{
		{name: "new start inside", newStart: 150, newEnd: 300, exStart: 100, exEnd: 200, want: true},
		{name: "new end inside", newStart: 50, newEnd: 150, exStart: 100, exEnd: 200, want: true},
		{name: "new contains existing", newStart: 50, newEnd: 300, exStart: 100, exEnd: 200, want: true},
		{name: "identical windows", newStart: 100, newEnd: 200, exStart: 100, exEnd: 200, want: true},
		{name: "adjacent after", newStart: 200, newEnd: 300, exStart: 100, exEnd: 200, want: false},
		{name: "adjacent before", newStart: 50, newEnd: 100, exStart: 100, exEnd: 200, want: false},
		{name: "disjoint", newStart: 300, newEnd: 400, exStart: 100, exEnd: 200, want: false},
		{name: "existing open ended, new after start", newStart: 500, newEnd: 600, exStart: 100, exEnd: 0, want: true},
		{name: "existing open ended, new before start", newStart: 50, newEnd: 80, exStart: 100, exEnd: 0, want: false},
		{name: "new open ended containing existing", newStart: 50, newEnd: 0, exStart: 100, exEnd: 200, want: true},
	}

	for _, tt := range tests {
		if got := windowsOverlap(tt.newStart, tt.newEnd, tt.exStart, tt.exEnd); got != tt.want {
			t.Fatalf("%s: windowsOverlap = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFindOverlap_InactiveNeverConflicts(t *testing.T) {
	existing := []models.CategoryPrice{
		{ID: 1, CategoryID: 1, Status: models.PriceStatusActive, StartDate: 100, EndDate: 200},
	}
	inactive := 0
	in := PriceInput{CategoryID: 1, Name: "p", Price: fptr(1), StartDate: 150, EndDate: 180, Status: &inactive}
	if conflict := findOverlap(in, existing, 0); conflict != nil {
		t.Fatalf("inactive price should not conflict, got %v", conflict.ID)
	}
}

func TestFindOverlap_SelfExclusion(t *testing.T) {
	existing := []models.CategoryPrice{
		{ID: 7, CategoryID: 1, Status: models.PriceStatusActive, StartDate: 100, EndDate: 200},
	}
	in := PriceInput{CategoryID: 1, Name: "p", Price: fptr(1), StartDate: 100, EndDate: 200}
	if conflict := findOverlap(in, existing, 7); conflict != nil {
		t.Fatalf("price should not conflict with itself")
	}
	if conflict := findOverlap(in, existing, 0); conflict == nil {
		t.Fatalf("expected conflict without self exclusion")
	}
}
