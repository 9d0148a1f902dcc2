package pricing

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/coursebridge/coursebridge/app/models"
	"github.com/coursebridge/coursebridge/app/repository"
)

// ErrPriceNotFound is returned when a price ID does not resolve to a row.
var ErrPriceNotFound = errors.New("category price not found")

// ErrCategoryNotFound is returned when a referenced category is missing.
var ErrCategoryNotFound = errors.New("category not found")

// ActivePriceCache caches the currently valid price per category. A nil
// cache on the service disables caching entirely.
type ActivePriceCache interface {
	GetActive(categoryID uint) (*models.CategoryPrice, bool)
	SetActive(categoryID uint, price *models.CategoryPrice)
	Invalidate(categoryID uint)
}

// Service implements validation, sanitization and CRUD for category prices.
type Service struct {
	prices     repository.PriceRepository
	categories repository.CategoryRepository
	cache      ActivePriceCache
	now        func() time.Time
}

// NewService creates a pricing service from injected repositories. The
// cache may be nil.
func NewService(prices repository.PriceRepository, categories repository.CategoryRepository, cache ActivePriceCache) *Service {
	return &Service{
		prices:     prices,
		categories: categories,
		cache:      cache,
		now:        time.Now,
	}
}

// NewServiceFromDB creates a pricing service from a GORM DB handle with the
// redis-backed active-price cache attached.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(
		repository.NewPriceRepository(db),
		repository.NewCategoryRepository(db),
		NewRedisActivePriceCache(),
	)
}

// Validate runs field-level checks plus the category existence check.
// It never mutates state.
func (s *Service) Validate(in PriceInput) (FieldErrors, error) {
	errs := checkFields(in)
	if _, ok := errs["category_id"]; !ok {
		exists, err := s.categories.Exists(in.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("category lookup: %w", err)
		}
		if !exists {
			errs["category_id"] = "category does not exist"
		}
	}
	return errs, nil
}

// ValidateComplete runs Validate plus overlap detection against the
// category's existing active prices. excludeID allows a price to be
// validated against its own update.
func (s *Service) ValidateComplete(in PriceInput, excludeID uint) (FieldErrors, error) {
	errs, err := s.Validate(in)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return errs, nil
	}

	existing, err := s.prices.GetByCategory(in.CategoryID, true)
	if err != nil {
		return nil, fmt.Errorf("overlap lookup: %w", err)
	}
	if conflict := findOverlap(in, existing, excludeID); conflict != nil {
		errs["start_date"] = fmt.Sprintf("date range overlaps active price %q (id %d)", conflict.Name, conflict.ID)
	}
	return errs, nil
}

// Create sanitizes, validates and stores a new price. Defaults are filled
// for omitted status (active), flags and installments. Returns a
// *ValidationError when the input is rejected.
func (s *Service) Create(in PriceInput) (*models.CategoryPrice, error) {
	in = Sanitize(in)
	errs, err := s.ValidateComplete(in, 0)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	price := &models.CategoryPrice{
		CategoryID:      in.CategoryID,
		Name:            in.Name,
		Price:           *in.Price,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		Status:          in.EffectiveStatus(),
		IsPromotional:   in.IsPromotional == 1,
		IsEnrollmentFee: in.IsEnrollmentFee == 1,
		Installments:    in.Installments,
	}
	if err := s.prices.Create(price); err != nil {
		return nil, fmt.Errorf("create price: %w", err)
	}
	s.invalidate(price.CategoryID)
	return price, nil
}

// Update applies a partial update to an existing price and re-validates the
// merged record, excluding the price itself from overlap checks.
func (s *Service) Update(id uint, upd PriceUpdate) (*models.CategoryPrice, error) {
	price, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	cost := price.Price
	merged := PriceInput{
		CategoryID:      price.CategoryID,
		Name:            price.Name,
		Price:           &cost,
		StartDate:       price.StartDate,
		EndDate:         price.EndDate,
		Installments:    price.Installments,
		IsPromotional:   boolToFlag(price.IsPromotional),
		IsEnrollmentFee: boolToFlag(price.IsEnrollmentFee),
	}
	status := price.Status
	merged.Status = &status

	if upd.Name != nil {
		merged.Name = *upd.Name
	}
	if upd.Price != nil {
		merged.Price = upd.Price
	}
	if upd.StartDate != nil {
		merged.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		merged.EndDate = *upd.EndDate
	}
	if upd.Status != nil {
		status = *upd.Status
		merged.Status = &status
	}
	if upd.IsPromotional != nil {
		merged.IsPromotional = *upd.IsPromotional
	}
	if upd.IsEnrollmentFee != nil {
		merged.IsEnrollmentFee = *upd.IsEnrollmentFee
	}
	if upd.Installments != nil {
		merged.Installments = *upd.Installments
	}

	merged = Sanitize(merged)
	errs, err := s.ValidateComplete(merged, id)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	price.Name = merged.Name
	price.Price = *merged.Price
	price.StartDate = merged.StartDate
	price.EndDate = merged.EndDate
	price.Status = merged.EffectiveStatus()
	price.IsPromotional = merged.IsPromotional == 1
	price.IsEnrollmentFee = merged.IsEnrollmentFee == 1
	price.Installments = merged.Installments

	if err := s.prices.Update(price); err != nil {
		return nil, fmt.Errorf("update price: %w", err)
	}
	s.invalidate(price.CategoryID)
	return price, nil
}

// Get returns a single price or ErrPriceNotFound.
func (s *Service) Get(id uint) (*models.CategoryPrice, error) {
	price, err := s.prices.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPriceNotFound
		}
		return nil, err
	}
	return price, nil
}

// Delete removes a price permanently. Linked enrolment instances are not
// touched; propagation is the caller's responsibility.
func (s *Service) Delete(id uint) error {
	price, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.prices.Delete(id); err != nil {
		return fmt.Errorf("delete price: %w", err)
	}
	s.invalidate(price.CategoryID)
	return nil
}

// GetCategoryPrices lists a category's prices, optionally only active ones.
func (s *Service) GetCategoryPrices(categoryID uint, activeOnly bool) ([]models.CategoryPrice, error) {
	exists, err := s.categories.Exists(categoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}
	return s.prices.GetByCategory(categoryID, activeOnly)
}

// GetActivePrice resolves the price valid at the given unix instant; at <= 0
// means now (the only path served from cache). Returns nil when no price
// covers the instant. When overlapping active windows exist despite
// validation, the latest start date wins.
func (s *Service) GetActivePrice(categoryID uint, at int64) (*models.CategoryPrice, error) {
	nowPath := at <= 0
	if nowPath {
		at = s.now().Unix()
		if s.cache != nil {
			if price, ok := s.cache.GetActive(categoryID); ok {
				return price, nil
			}
		}
	}

	price, err := s.prices.GetActiveAt(categoryID, at)
	if err != nil {
		return nil, err
	}
	if nowPath && s.cache != nil {
		s.cache.SetActive(categoryID, price)
	}
	return price, nil
}

// Stats summarizes a category's price records.
type Stats struct {
	Total          int64   `json:"total"`
	Active         int64   `json:"active"`
	Promotional    int64   `json:"promotional"`
	EnrollmentFees int64   `json:"enrollment_fees"`
	MinPrice       float64 `json:"min_price"`
	MaxPrice       float64 `json:"max_price"`
}

// GetStats aggregates counters over all prices of a category.
func (s *Service) GetStats(categoryID uint) (*Stats, error) {
	prices, err := s.GetCategoryPrices(categoryID, false)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: int64(len(prices))}
	for i, p := range prices {
		if p.Status == models.PriceStatusActive {
			stats.Active++
		}
		if p.IsPromotional {
			stats.Promotional++
		}
		if p.IsEnrollmentFee {
			stats.EnrollmentFees++
		}
		if i == 0 || p.Price < stats.MinPrice {
			stats.MinPrice = p.Price
		}
		if p.Price > stats.MaxPrice {
			stats.MaxPrice = p.Price
		}
	}
	return stats, nil
}

func (s *Service) invalidate(categoryID uint) {
	if s.cache != nil {
		s.cache.Invalidate(categoryID)
	}
}

func boolToFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}
