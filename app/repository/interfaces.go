package repository

import (
	"github.com/coursebridge/coursebridge/app/models"
	"gorm.io/gorm"
)

// CategoryRepository defines the interface for course category operations
type CategoryRepository interface {
	Create(category *models.CourseCategory) error
	GetByID(id uint) (*models.CourseCategory, error)
	Exists(id uint) (bool, error)
	GetChildren(parentID uint) ([]models.CourseCategory, error)
	ListOrderedByDepth() ([]models.CourseCategory, error)
	Update(category *models.CourseCategory) error
	Delete(id uint) error
	Count() (int64, error)
}

// CourseRepository defines the interface for course operations
type CourseRepository interface {
	Create(course *models.Course) error
	GetByID(id uint) (*models.Course, error)
	GetByCategory(categoryID uint) ([]models.Course, error)
	List(offset, limit int) ([]models.Course, error)
	Update(course *models.Course) error
	Delete(id uint) error
	Count() (int64, error)
}

// PriceRepository defines the interface for category price operations
type PriceRepository interface {
	Create(price *models.CategoryPrice) error
	GetByID(id uint) (*models.CategoryPrice, error)
	GetByCategory(categoryID uint, activeOnly bool) ([]models.CategoryPrice, error)
	GetActiveAt(categoryID uint, at int64) (*models.CategoryPrice, error)
	Update(price *models.CategoryPrice) error
	Delete(id uint) error
	CountByCategory(categoryID uint) (int64, error)
}

// EnrolmentRepository defines the interface for enrolment instance operations
type EnrolmentRepository interface {
	Create(enrolment *models.Enrolment) error
	GetByID(id uint) (*models.Enrolment, error)
	GetByCourse(courseID uint) ([]models.Enrolment, error)
	GetByCourseAndMethod(courseID uint, method string) ([]models.Enrolment, error)
	GetByPriceRef(priceID uint) ([]models.Enrolment, error)
	GetScheduled() ([]models.Enrolment, error)
	Update(enrolment *models.Enrolment) error
	Delete(id uint) error
}

// MappingRepository defines the interface for WordPress mapping operations
type MappingRepository interface {
	Create(mapping *models.WordPressMapping) error
	GetByID(id uint) (*models.WordPressMapping, error)
	GetByEntity(moodleType string, moodleID uint) (*models.WordPressMapping, error)
	Update(mapping *models.WordPressMapping) error
	Delete(id uint) error
	DeleteByEntity(moodleType string, moodleID uint) error
	CountByStatus() (map[string]int64, error)
}

// UserRepository defines the interface for user operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Category  CategoryRepository
	Course    CourseRepository
	Price     PriceRepository
	Enrolment EnrolmentRepository
	Mapping   MappingRepository
	User      UserRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Category:  NewCategoryRepository(db),
		Course:    NewCourseRepository(db),
		Price:     NewPriceRepository(db),
		Enrolment: NewEnrolmentRepository(db),
		Mapping:   NewMappingRepository(db),
		User:      NewUserRepository(db),
	}
}
