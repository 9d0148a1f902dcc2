package pricing

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/coursebridge/coursebridge/app/models"
	"github.com/coursebridge/coursebridge/internal/pkg/cache"
)

const (
	activePriceKeyPrefix = "pricing:active:"
	activePriceTTL       = 60 * time.Second
)

// redisActivePriceCache stores the currently valid price per category with a
// short TTL. "No active price" is cached too (as a null payload) so repeated
// lookups on unpriced categories stay cheap.
type redisActivePriceCache struct{}

// NewRedisActivePriceCache returns the shared redis-backed cache.
func NewRedisActivePriceCache() ActivePriceCache {
	return &redisActivePriceCache{}
}

func (c *redisActivePriceCache) GetActive(categoryID uint) (*models.CategoryPrice, bool) {
	raw, err := cache.Get(activePriceKey(categoryID))
	if err != nil {
		return nil, false
	}
	if raw == "null" {
		return nil, true
	}
	var price models.CategoryPrice
	if err := json.Unmarshal([]byte(raw), &price); err != nil {
		return nil, false
	}
	return &price, true
}

func (c *redisActivePriceCache) SetActive(categoryID uint, price *models.CategoryPrice) {
	payload := []byte("null")
	if price != nil {
		var err error
		payload, err = json.Marshal(price)
		if err != nil {
			return
		}
	}
	// Best effort; a failed cache write only costs the next DB lookup.
	_ = cache.Set(activePriceKey(categoryID), string(payload), activePriceTTL)
}

func (c *redisActivePriceCache) Invalidate(categoryID uint) {
	_ = cache.Delete(activePriceKey(categoryID))
}

func activePriceKey(categoryID uint) string {
	return fmt.Sprintf("%s%d", activePriceKeyPrefix, categoryID)
}
