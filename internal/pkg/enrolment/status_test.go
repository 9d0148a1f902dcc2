package enrolment

import (
	"testing"

	"github.com/coursebridge/coursebridge/app/models"
)

func TestToEnrolmentStatus_Inversion(t *testing.T) {
	tests := []struct {
		priceStatus int
		want        int
	}{
		{priceStatus: models.PriceStatusActive, want: models.EnrolStatusEnabled},
		{priceStatus: models.PriceStatusInactive, want: models.EnrolStatusDisabled},
	}

	for _, tt := range tests {
		if got := ToEnrolmentStatus(tt.priceStatus); got != tt.want {
			t.Fatalf("ToEnrolmentStatus(%d) = %d, want %d", tt.priceStatus, got, tt.want)
		}
	}
}

func TestFromEnrolmentStatus_RoundTrip(t *testing.T) {
	for _, status := range []int{models.PriceStatusActive, models.PriceStatusInactive} {
		if got := FromEnrolmentStatus(ToEnrolmentStatus(status)); got != status {
			t.Fatalf("round trip of price status %d gave %d", status, got)
		}
	}
}
