package repository

import (
	"github.com/coursebridge/coursebridge/app/models"
	"gorm.io/gorm"
)

// categoryRepository implements the CategoryRepository interface
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *models.CourseCategory) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) GetByID(id uint) (*models.CourseCategory, error) {
	var category models.CourseCategory
	err := r.db.First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Exists reports whether a category row with the given ID is present.
func (r *categoryRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CourseCategory{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) GetChildren(parentID uint) ([]models.CourseCategory, error) {
	var categories []models.CourseCategory
	err := r.db.Where("parent = ?", parentID).Order("name ASC").Find(&categories).Error
	return categories, err
}

// ListOrderedByDepth returns all categories with parents before children so
// bulk sync can resolve parent term linkage top-down.
func (r *categoryRepository) ListOrderedByDepth() ([]models.CourseCategory, error) {
	var categories []models.CourseCategory
	err := r.db.Order("depth ASC, id ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(category *models.CourseCategory) error {
	return r.db.Save(category).Error
}

func (r *categoryRepository) Delete(id uint) error {
	return r.db.Delete(&models.CourseCategory{}, id).Error
}

func (r *categoryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.CourseCategory{}).Count(&count).Error
	return count, err
}
