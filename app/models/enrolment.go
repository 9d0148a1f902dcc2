package models

import "time"

const (
	EnrolMethodFee          = "fee"
	EnrolMethodManual       = "manual"
	EnrolMethodCustomStatus = "customstatus"

	// Host LMS convention: 0 enables an enrolment instance, 1 disables it.
	// This is inverted relative to CategoryPrice.Status.
	EnrolStatusEnabled  = 0
	EnrolStatusDisabled = 1
)

// Enrolment mirrors a host-LMS enrolment instance. The CustomInt slots
// carry back-references for instances created from an imported category
// price:
//
//	CustomInt1 — source CategoryPrice ID
//	CustomInt2 — promotional flag (0/1)
//	CustomInt3 — enrollment-fee flag (0/1)
//	CustomInt4 — installment count
//	CustomInt5 — scheduled-task flag (0/1)
type Enrolment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CourseID       uint      `gorm:"not null;index" json:"course_id" validate:"required"`
	Method         string    `gorm:"type:varchar(20);not null;index" json:"method" validate:"oneof=fee manual customstatus"`
	Status         int       `gorm:"default:0" json:"status" validate:"oneof=0 1"`
	Cost           float64   `gorm:"type:decimal(10,2);default:0" json:"cost" validate:"gte=0"`
	Currency       string    `gorm:"type:varchar(3);default:'EUR'" json:"currency"`
	EnrolStartDate int64     `gorm:"default:0" json:"enrol_start_date"`
	EnrolEndDate   int64     `gorm:"default:0" json:"enrol_end_date"`
	CustomInt1     int64     `gorm:"default:0;index" json:"custom_int1"`
	CustomInt2     int64     `gorm:"default:0" json:"custom_int2"`
	CustomInt3     int64     `gorm:"default:0" json:"custom_int3"`
	CustomInt4     int64     `gorm:"default:0" json:"custom_int4"`
	CustomInt5     int64     `gorm:"default:0" json:"custom_int5"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsEnabled reports whether the instance is enabled in host convention.
func (e *Enrolment) IsEnabled() bool {
	return e.Status == EnrolStatusEnabled
}

// PriceID returns the linked CategoryPrice ID, 0 when the instance was not
// created from a price import.
func (e *Enrolment) PriceID() uint {
	if e.CustomInt1 < 0 {
		return 0
	}
	return uint(e.CustomInt1)
}

// HasScheduledTask reports whether the scheduled-task flag is set on the
// instance.
func (e *Enrolment) HasScheduledTask() bool {
	return e.CustomInt5 == 1
}
