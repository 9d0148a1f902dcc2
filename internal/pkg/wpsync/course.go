package wpsync

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/coursebridge/coursebridge/app/models"
	"github.com/coursebridge/coursebridge/internal/pkg/wordpress"
)

// SyncCourse pushes one course post plus its derived price metadata. Same
// skip/update/create/self-heal skeleton as SyncCategory.
func (s *Syncer) SyncCourse(ctx context.Context, course *models.Course, force bool) (bool, error) {
	outcome, err := s.syncCourse(ctx, course, force)
	if err != nil {
		return false, err
	}
	return outcome != outcomeSkipped, nil
}

func (s *Syncer) syncCourse(ctx context.Context, course *models.Course, force bool) (outcome, error) {
	mapping, err := s.mappings.GetMapping(models.MoodleTypeCourse, course.ID)
	if err != nil {
		return outcomeSkipped, fmt.Errorf("load mapping: %w", err)
	}

	if mapping != nil && mapping.IsSynced() && !force {
		return outcomeSkipped, nil
	}

	payload, err := s.postPayload(course)
	if err != nil {
		return outcomeSkipped, err
	}

	result := outcomeCreated
	var remoteID int64

	if mapping != nil && mapping.HasRemote() {
		_, err := s.api.UpdatePost(ctx, mapping.WordPressID, payload)
		if err == nil {
			remoteID = mapping.WordPressID
			result = outcomeUpdated
		} else if !wordpress.IsNotFound(err) {
			s.recordCourseError(course.ID, err)
			return outcomeSkipped, err
		} else {
			log.Warnf("[WPSync] remote post %d for course %d is gone, recreating", mapping.WordPressID, course.ID)
			if err := s.mappings.Drop(mapping); err != nil {
				return outcomeSkipped, fmt.Errorf("drop stale mapping: %w", err)
			}
			mapping = nil
		}
	}

	if remoteID == 0 {
		post, err := s.api.CreatePost(ctx, payload)
		if err != nil {
			s.recordCourseError(course.ID, err)
			return outcomeSkipped, err
		}
		remoteID = post.ID
	}

	if _, err := s.mappings.MarkSynced(models.MoodleTypeCourse, course.ID, models.WordPressTypePost, remoteID, s.postType); err != nil {
		return outcomeSkipped, err
	}

	// Push the bulk pricing metadata separately; the post itself is already
	// synced, so a pricing failure is logged rather than rolled back.
	if err := s.pushCoursePricing(ctx, course); err != nil {
		log.Warnf("[WPSync] pricing sync for course %d failed: %v", course.ID, err)
	}

	return result, nil
}

// postPayload builds the remote post payload including price metadata
// derived from the first enabled fee enrolment instance on the course.
func (s *Syncer) postPayload(course *models.Course) (wordpress.PostPayload, error) {
	payload := wordpress.PostPayload{
		Title:   course.FullName,
		Content: course.Summary,
		Status:  "publish",
	}
	if !course.Visible {
		payload.Status = "draft"
	}

	fee, err := s.firstEnabledFeeEnrolment(course.ID)
	if err != nil {
		return payload, err
	}
	if fee != nil {
		payload.Meta = map[string]interface{}{
			"course_price":        fee.Cost,
			"course_currency":     fee.Currency,
			"course_installments": fee.CustomInt4,
			"course_promotional":  fee.CustomInt2 == 1,
			"course_price_id":     fee.CustomInt1,
		}
	}

	return payload, nil
}

func (s *Syncer) firstEnabledFeeEnrolment(courseID uint) (*models.Enrolment, error) {
	enrolments, err := s.enrolments.GetByCourseAndMethod(courseID, models.EnrolMethodFee)
	if err != nil {
		return nil, fmt.Errorf("load fee enrolments: %w", err)
	}
	for i := range enrolments {
		if enrolments[i].IsEnabled() {
			return &enrolments[i], nil
		}
	}
	return nil, nil
}

// pushCoursePricing sends the course's active category prices through the
// bulk pricing endpoint.
func (s *Syncer) pushCoursePricing(ctx context.Context, course *models.Course) error {
	prices, err := s.prices.GetByCategory(course.CategoryID, true)
	if err != nil {
		return fmt.Errorf("load category prices: %w", err)
	}
	if len(prices) == 0 {
		return nil
	}

	payload := wordpress.PricingPayload{}
	for _, p := range prices {
		payload.Items = append(payload.Items, s.pricingItem(&p, course.ID))
	}
	return s.api.SyncPricing(ctx, payload)
}

func (s *Syncer) pricingItem(price *models.CategoryPrice, courseID uint) wordpress.PricingItem {
	return wordpress.PricingItem{
		PriceID:       price.ID,
		CategoryID:    price.CategoryID,
		CourseID:      courseID,
		Name:          price.Name,
		Price:         price.Price,
		Currency:      s.currency,
		StartDate:     price.StartDate,
		EndDate:       price.EndDate,
		Promotional:   price.IsPromotional,
		EnrollmentFee: price.IsEnrollmentFee,
		Installments:  price.Installments,
		Status:        price.Status,
	}
}

// SyncAllCourses pushes every course, aggregating per-item failures.
func (s *Syncer) SyncAllCourses(ctx context.Context, force bool) (*Summary, error) {
	courses, err := s.courses.List(0, 0)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	summary := newSummary()
	for i := range courses {
		course := &courses[i]
		outcome, err := s.syncCourse(ctx, course, force)
		if err != nil {
			summary.recordError(fmt.Sprintf("course %d (%s): %v", course.ID, course.ShortName, err))
			continue
		}
		summary.record(outcome)
	}

	log.Infof("[WPSync] course run %s: %d total, %d created, %d updated, %d skipped, %d errors",
		summary.RunID, summary.Total, summary.Created, summary.Updated, summary.Skipped, summary.Errors)
	return summary, nil
}

func (s *Syncer) recordCourseError(courseID uint, cause error) {
	if err := s.mappings.MarkError(models.MoodleTypeCourse, courseID, models.WordPressTypePost, s.postType, cause.Error()); err != nil {
		log.Errorf("[WPSync] failed to record error for course %d: %v", courseID, err)
	}
}
