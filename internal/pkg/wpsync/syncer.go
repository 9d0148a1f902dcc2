package wpsync

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/coursebridge/coursebridge/app/repository"
	"github.com/coursebridge/coursebridge/internal/pkg/wordpress"
)

// RemoteAPI is the slice of the WordPress client the drivers call. Keeping
// it an interface lets retry/backoff wrap the client later without touching
// call sites.
type RemoteAPI interface {
	CreateTerm(ctx context.Context, payload wordpress.TermPayload) (*wordpress.Term, error)
	UpdateTerm(ctx context.Context, id int64, payload wordpress.TermPayload) (*wordpress.Term, error)
	CreatePost(ctx context.Context, payload wordpress.PostPayload) (*wordpress.Post, error)
	UpdatePost(ctx context.Context, id int64, payload wordpress.PostPayload) (*wordpress.Post, error)
	SyncPricing(ctx context.Context, payload wordpress.PricingPayload) error
}

// Syncer pushes categories, courses and prices to the remote WordPress
// site one-way and records each outcome in the mapping table.
type Syncer struct {
	api        RemoteAPI
	mappings   *MappingService
	categories repository.CategoryRepository
	courses    repository.CourseRepository
	enrolments repository.EnrolmentRepository
	prices     repository.PriceRepository

	taxonomy string
	postType string
	currency string
	now      func() time.Time
}

// NewSyncer creates a syncer from injected dependencies.
func NewSyncer(
	api RemoteAPI,
	mappings *MappingService,
	categories repository.CategoryRepository,
	courses repository.CourseRepository,
	enrolments repository.EnrolmentRepository,
	prices repository.PriceRepository,
	taxonomy, postType, currency string,
) *Syncer {
	if taxonomy == "" {
		taxonomy = "course_category"
	}
	if postType == "" {
		postType = "course"
	}
	if currency == "" {
		currency = "EUR"
	}
	return &Syncer{
		api:        api,
		mappings:   mappings,
		categories: categories,
		courses:    courses,
		enrolments: enrolments,
		prices:     prices,
		taxonomy:   taxonomy,
		postType:   postType,
		currency:   currency,
		now:        time.Now,
	}
}

// NewSyncerFromDB wires a syncer against the env-configured WordPress
// client and GORM repositories.
func NewSyncerFromDB(db *gorm.DB) *Syncer {
	client := wordpress.NewClientFromEnv()
	return NewSyncer(
		client,
		NewMappingService(repository.NewMappingRepository(db)),
		repository.NewCategoryRepository(db),
		repository.NewCourseRepository(db),
		repository.NewEnrolmentRepository(db),
		repository.NewPriceRepository(db),
		client.Taxonomy,
		client.PostType,
		"",
	)
}

// Mappings exposes the mapping service for callers that only need sync
// state (stats endpoint).
func (s *Syncer) Mappings() *MappingService {
	return s.mappings
}
