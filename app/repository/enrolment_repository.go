package repository

import (
	"github.com/coursebridge/coursebridge/app/models"
	"gorm.io/gorm"
)

// enrolmentRepository implements the EnrolmentRepository interface
type enrolmentRepository struct {
	db *gorm.DB
}

// NewEnrolmentRepository creates a new enrolment repository instance
func NewEnrolmentRepository(db *gorm.DB) EnrolmentRepository {
	return &enrolmentRepository{db: db}
}

func (r *enrolmentRepository) Create(enrolment *models.Enrolment) error {
	return r.db.Create(enrolment).Error
}

func (r *enrolmentRepository) GetByID(id uint) (*models.Enrolment, error) {
	var enrolment models.Enrolment
	err := r.db.First(&enrolment, id).Error
	if err != nil {
		return nil, err
	}
	return &enrolment, nil
}

func (r *enrolmentRepository) GetByCourse(courseID uint) ([]models.Enrolment, error) {
	var enrolments []models.Enrolment
	err := r.db.Where("course_id = ?", courseID).Order("id ASC").Find(&enrolments).Error
	return enrolments, err
}

func (r *enrolmentRepository) GetByCourseAndMethod(courseID uint, method string) ([]models.Enrolment, error) {
	var enrolments []models.Enrolment
	err := r.db.Where("course_id = ? AND method = ?", courseID, method).Order("id ASC").Find(&enrolments).Error
	return enrolments, err
}

// GetByPriceRef returns all instances back-referencing the given category
// price via CustomInt1.
func (r *enrolmentRepository) GetByPriceRef(priceID uint) ([]models.Enrolment, error) {
	var enrolments []models.Enrolment
	err := r.db.Where("custom_int1 = ?", int64(priceID)).Order("id ASC").Find(&enrolments).Error
	return enrolments, err
}

// GetScheduled returns fee instances flagged for scheduled-task handling.
func (r *enrolmentRepository) GetScheduled() ([]models.Enrolment, error) {
	var enrolments []models.Enrolment
	err := r.db.
		Where("method = ? AND custom_int5 = 1", models.EnrolMethodFee).
		Order("id ASC").Find(&enrolments).Error
	return enrolments, err
}

func (r *enrolmentRepository) Update(enrolment *models.Enrolment) error {
	return r.db.Save(enrolment).Error
}

func (r *enrolmentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Enrolment{}, id).Error
}
