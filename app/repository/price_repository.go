package repository

import (
	"errors"

	"github.com/coursebridge/coursebridge/app/models"
	"gorm.io/gorm"
)

// priceRepository implements the PriceRepository interface
type priceRepository struct {
	db *gorm.DB
}

// NewPriceRepository creates a new price repository instance
func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db}
}

func (r *priceRepository) Create(price *models.CategoryPrice) error {
	return r.db.Create(price).Error
}

func (r *priceRepository) GetByID(id uint) (*models.CategoryPrice, error) {
	var price models.CategoryPrice
	err := r.db.First(&price, id).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *priceRepository) GetByCategory(categoryID uint, activeOnly bool) ([]models.CategoryPrice, error) {
	var prices []models.CategoryPrice
	q := r.db.Where("category_id = ?", categoryID)
	if activeOnly {
		q = q.Where("status = ?", models.PriceStatusActive)
	}
	err := q.Order("start_date ASC, id ASC").Find(&prices).Error
	return prices, err
}

// GetActiveAt resolves the price valid at the given instant: latest start
// date not after `at` among active rows whose window has not ended. When
// overlapping active windows exist despite validation, the latest start
// wins. Returns nil without error when no price matches.
func (r *priceRepository) GetActiveAt(categoryID uint, at int64) (*models.CategoryPrice, error) {
	var price models.CategoryPrice
	err := r.db.
		Where("category_id = ? AND status = ? AND start_date <= ?", categoryID, models.PriceStatusActive, at).
		Where("end_date = 0 OR end_date >= ?", at).
		Order("start_date DESC, id DESC").
		First(&price).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

func (r *priceRepository) Update(price *models.CategoryPrice) error {
	return r.db.Save(price).Error
}

// Delete removes a price row permanently. Enrolment cleanup is left to the
// caller.
func (r *priceRepository) Delete(id uint) error {
	return r.db.Delete(&models.CategoryPrice{}, id).Error
}

func (r *priceRepository) CountByCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CategoryPrice{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}
