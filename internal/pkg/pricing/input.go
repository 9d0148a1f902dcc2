package pricing

import (
	"strings"
	"unicode/utf8"

	"github.com/coursebridge/coursebridge/app/models"
)

// PriceInput is the sanitized creation payload for a category price.
// Timestamps are unix seconds, EndDate 0 means open-ended. Flags use the
// 0/1 encoding the webservice callers send. Status and Price are pointers
// so an omitted status can default to active and an omitted price is
// rejected instead of read as zero.
type PriceInput struct {
	CategoryID      uint     `json:"category_id"`
	Name            string   `json:"name"`
	Price           *float64 `json:"price"`
	StartDate       int64    `json:"start_date"`
	EndDate         int64    `json:"end_date"`
	Status          *int     `json:"status"`
	IsPromotional   int      `json:"is_promotional"`
	IsEnrollmentFee int      `json:"is_enrollment_fee"`
	Installments    int      `json:"installments"`
}

// PriceUpdate carries a partial update; nil fields are left untouched.
type PriceUpdate struct {
	Name            *string  `json:"name"`
	Price           *float64 `json:"price"`
	StartDate       *int64   `json:"start_date"`
	EndDate         *int64   `json:"end_date"`
	Status          *int     `json:"status"`
	IsPromotional   *int     `json:"is_promotional"`
	IsEnrollmentFee *int     `json:"is_enrollment_fee"`
	Installments    *int     `json:"installments"`
}

// EffectiveStatus returns the requested status, defaulting to active when
// the caller omitted the field.
func (in PriceInput) EffectiveStatus() int {
	if in.Status == nil {
		return models.PriceStatusActive
	}
	return *in.Status
}

// Sanitize normalizes an input payload before validation: the name is
// trimmed and truncated to the storage limit, flag values are collapsed to
// 0/1. Range violations are left in place for Validate to report.
func Sanitize(in PriceInput) PriceInput {
	out := in
	out.Name = strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(out.Name) > models.PriceNameMaxLen {
		out.Name = string([]rune(out.Name)[:models.PriceNameMaxLen])
	}
	out.IsPromotional = normalizeFlag(in.IsPromotional)
	out.IsEnrollmentFee = normalizeFlag(in.IsEnrollmentFee)
	if in.Status != nil {
		s := normalizeFlag(*in.Status)
		out.Status = &s
	}
	return out
}

func normalizeFlag(v int) int {
	if v != 0 {
		return 1
	}
	return 0
}
