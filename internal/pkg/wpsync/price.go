package wpsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/coursebridge/coursebridge/app/models"
	"github.com/coursebridge/coursebridge/internal/pkg/wordpress"
)

// ErrPriceNotFound is returned when a price sync targets a missing row.
var ErrPriceNotFound = errors.New("category price not found")

// SyncPrice pushes a single price through the bulk pricing endpoint and
// refreshes the owning category's mapping timestamp on success.
func (s *Syncer) SyncPrice(ctx context.Context, priceID uint) error {
	price, err := s.prices.GetByID(priceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPriceNotFound
		}
		return fmt.Errorf("load price %d: %w", priceID, err)
	}

	payload := wordpress.PricingPayload{Items: []wordpress.PricingItem{s.pricingItem(price, 0)}}
	if err := s.api.SyncPricing(ctx, payload); err != nil {
		return err
	}

	if err := s.mappings.Touch(models.MoodleTypeCategory, price.CategoryID); err != nil {
		log.Warnf("[WPSync] could not refresh mapping for category %d: %v", price.CategoryID, err)
	}
	return nil
}
