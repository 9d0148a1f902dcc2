package enrolment

import "github.com/coursebridge/coursebridge/app/models"

// ToEnrolmentStatus converts a category price status flag into the host
// LMS enrolment status encoding. The two encodings are inverted: a price
// with status 1 (active) maps to enrolment status 0 (enabled), a price with
// status 0 maps to 1 (disabled). Always convert through this function;
// inlining the negation is how the inversion gets lost.
func ToEnrolmentStatus(priceStatus int) int {
	if priceStatus == models.PriceStatusActive {
		return models.EnrolStatusEnabled
	}
	return models.EnrolStatusDisabled
}

// FromEnrolmentStatus is the reverse conversion, used when reading price
// state back out of an enrolment instance.
func FromEnrolmentStatus(enrolStatus int) int {
	if enrolStatus == models.EnrolStatusEnabled {
		return models.PriceStatusActive
	}
	return models.PriceStatusInactive
}
