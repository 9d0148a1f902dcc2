package pricing

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/coursebridge/coursebridge/app/models"
)

// FieldErrors maps a field name to a human readable validation message.
type FieldErrors map[string]string

// ValidationError wraps field errors so callers can distinguish them from
// infrastructure failures.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// checkFields runs the pure field-level checks shared by Validate and
// ValidateComplete. Category existence is checked by the service on top.
func checkFields(in PriceInput) FieldErrors {
	errs := FieldErrors{}

	if in.CategoryID == 0 {
		errs["category_id"] = "category is required"
	}
	if in.Name == "" {
		errs["name"] = "name is required"
	} else if utf8.RuneCountInString(in.Name) > models.PriceNameMaxLen {
		errs["name"] = fmt.Sprintf("name must not exceed %d characters", models.PriceNameMaxLen)
	}
	if in.Price == nil {
		errs["price"] = "price is required"
	} else if *in.Price < 0 {
		errs["price"] = "price must not be negative"
	}
	if in.StartDate < 0 {
		errs["start_date"] = "start date must be a valid timestamp"
	}
	if in.EndDate < 0 {
		errs["end_date"] = "end date must be a valid timestamp"
	}
	if in.StartDate > 0 && in.EndDate > 0 && in.EndDate <= in.StartDate {
		errs["end_date"] = "end date must be after start date"
	}
	if in.Installments < 0 || in.Installments > models.MaxInstallments {
		errs["installments"] = fmt.Sprintf("installments must be between 0 and %d", models.MaxInstallments)
	}
	if in.Status != nil && *in.Status != models.PriceStatusActive && *in.Status != models.PriceStatusInactive {
		errs["status"] = "status must be 0 or 1"
	}
	if in.IsPromotional != 0 && in.IsPromotional != 1 {
		errs["is_promotional"] = "promotional flag must be 0 or 1"
	}
	if in.IsEnrollmentFee != 0 && in.IsEnrollmentFee != 1 {
		errs["is_enrollment_fee"] = "enrollment fee flag must be 0 or 1"
	}

	return errs
}

// windowsOverlap reports whether a new active window conflicts with an
// existing active window of the same category. End bounds of 0 mean
// open-ended. Windows are half-open, so a window starting exactly at
// another's end does not conflict.
func windowsOverlap(newStart, newEnd, exStart, exEnd int64) bool {
	// Existing window never ends: everything starting at or after it collides.
	if exEnd == 0 && newStart >= exStart {
		return true
	}
	// New start falls inside the existing window.
	if exEnd > 0 && newStart >= exStart && newStart < exEnd {
		return true
	}
	// New end falls inside the existing window.
	if exEnd > 0 && newEnd > 0 && newEnd > exStart && newEnd < exEnd {
		return true
	}
	// New window fully contains the existing one (an open-ended new window
	// starting earlier counts as containing).
	if newStart <= exStart && (newEnd == 0 || (exEnd > 0 && newEnd >= exEnd)) {
		return true
	}
	return false
}

// findOverlap returns the first existing active price whose window
// conflicts with the candidate window, skipping excludeID (self-exclusion
// on update). Inactive candidates never conflict.
func findOverlap(in PriceInput, existing []models.CategoryPrice, excludeID uint) *models.CategoryPrice {
	if in.EffectiveStatus() != models.PriceStatusActive {
		return nil
	}
	for i := range existing {
		ex := &existing[i]
		if ex.ID == excludeID || ex.Status != models.PriceStatusActive {
			continue
		}
		if windowsOverlap(in.StartDate, in.EndDate, ex.StartDate, ex.EndDate) {
			return ex
		}
	}
	return nil
}
