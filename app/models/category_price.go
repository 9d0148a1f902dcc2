package models

import "time"

const (
	PriceStatusInactive = 0
	PriceStatusActive   = 1

	// PriceNameMaxLen is the hard cap applied during input sanitization.
	PriceNameMaxLen = 255

	// MaxInstallments bounds the installment count accepted on a price.
	MaxInstallments = 12
)

// CategoryPrice is a date-windowed price attached to a course category.
// StartDate/EndDate are unix seconds; EndDate 0 means the window is
// open-ended. Within a category at most one active price window may overlap
// another; this is enforced by the pricing validator, not by the schema.
type CategoryPrice struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CategoryID      uint      `gorm:"not null;index:idx_category_prices_active,priority:1" json:"category_id" validate:"required"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Price           float64   `gorm:"type:decimal(10,2);not null" json:"price" validate:"gte=0"`
	StartDate       int64     `gorm:"default:0;index:idx_category_prices_active,priority:3" json:"start_date"`
	EndDate         int64     `gorm:"default:0" json:"end_date"`
	IsPromotional   bool      `gorm:"default:false" json:"is_promotional"`
	IsEnrollmentFee bool      `gorm:"default:false" json:"is_enrollment_fee"`
	Status          int       `gorm:"default:1;index:idx_category_prices_active,priority:2" json:"status" validate:"oneof=0 1"`
	Installments    int       `gorm:"default:0" json:"installments" validate:"gte=0,lte=12"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the price row itself is flagged active,
// independent of its validity window.
func (p *CategoryPrice) IsActive() bool {
	return p.Status == PriceStatusActive
}

// IsOpenEnded reports whether the validity window has no end bound.
func (p *CategoryPrice) IsOpenEnded() bool {
	return p.EndDate == 0
}

// CoversInstant reports whether the validity window contains the given unix
// instant. The end bound is inclusive, matching the active-price resolver.
func (p *CategoryPrice) CoversInstant(at int64) bool {
	if p.StartDate > at {
		return false
	}
	return p.EndDate == 0 || p.EndDate >= at
}
