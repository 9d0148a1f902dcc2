package wpsync

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/coursebridge/coursebridge/app/models"
	"github.com/coursebridge/coursebridge/internal/pkg/wordpress"
)

// SyncCategory pushes one category to the remote taxonomy. It reports true
// when a remote call was made, false when the mapping was already synced
// and force is unset. Unrecoverable API errors are recorded on the mapping
// and returned.
func (s *Syncer) SyncCategory(ctx context.Context, category *models.CourseCategory, force bool) (bool, error) {
	outcome, err := s.syncCategory(ctx, category, force)
	if err != nil {
		return false, err
	}
	return outcome != outcomeSkipped, nil
}

func (s *Syncer) syncCategory(ctx context.Context, category *models.CourseCategory, force bool) (outcome, error) {
	mapping, err := s.mappings.GetMapping(models.MoodleTypeCategory, category.ID)
	if err != nil {
		return outcomeSkipped, fmt.Errorf("load mapping: %w", err)
	}

	if mapping != nil && mapping.IsSynced() && !force {
		return outcomeSkipped, nil
	}

	payload := s.termPayload(category)

	// Update path: we know a remote term; a 404 means it was deleted on the
	// WordPress side, so drop the stale mapping and recreate below.
	if mapping != nil && mapping.HasRemote() {
		_, err := s.api.UpdateTerm(ctx, mapping.WordPressID, payload)
		if err == nil {
			if _, err := s.mappings.MarkSynced(models.MoodleTypeCategory, category.ID, models.WordPressTypeTerm, mapping.WordPressID, s.taxonomy); err != nil {
				return outcomeSkipped, err
			}
			return outcomeUpdated, nil
		}
		if !wordpress.IsNotFound(err) {
			s.recordCategoryError(category.ID, err)
			return outcomeSkipped, err
		}
		log.Warnf("[WPSync] remote term %d for category %d is gone, recreating", mapping.WordPressID, category.ID)
		if err := s.mappings.Drop(mapping); err != nil {
			return outcomeSkipped, fmt.Errorf("drop stale mapping: %w", err)
		}
	}

	term, err := s.api.CreateTerm(ctx, payload)
	if err != nil {
		s.recordCategoryError(category.ID, err)
		return outcomeSkipped, err
	}
	if _, err := s.mappings.MarkSynced(models.MoodleTypeCategory, category.ID, models.WordPressTypeTerm, term.ID, s.taxonomy); err != nil {
		return outcomeSkipped, err
	}
	return outcomeCreated, nil
}

// termPayload builds the remote term payload. The parent field is only set
// when the parent category's own mapping is already synced; callers are
// expected to sync top-down (depth ascending) so parents resolve.
func (s *Syncer) termPayload(category *models.CourseCategory) wordpress.TermPayload {
	payload := wordpress.TermPayload{
		Name:        category.Name,
		Description: category.Description,
	}

	if category.Parent != 0 {
		parentMapping, err := s.mappings.GetMapping(models.MoodleTypeCategory, category.Parent)
		if err == nil && parentMapping != nil && parentMapping.IsSynced() && parentMapping.HasRemote() {
			payload.Parent = parentMapping.WordPressID
		}
	}

	return payload
}

// SyncAllCategories pushes every category, parents before children, and
// aggregates per-item failures instead of aborting the batch.
func (s *Syncer) SyncAllCategories(ctx context.Context, force bool) (*Summary, error) {
	categories, err := s.categories.ListOrderedByDepth()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	summary := newSummary()
	for i := range categories {
		category := &categories[i]
		outcome, err := s.syncCategory(ctx, category, force)
		if err != nil {
			summary.recordError(fmt.Sprintf("category %d (%s): %v", category.ID, category.Name, err))
			continue
		}
		summary.record(outcome)
	}

	log.Infof("[WPSync] category run %s: %d total, %d created, %d updated, %d skipped, %d errors",
		summary.RunID, summary.Total, summary.Created, summary.Updated, summary.Skipped, summary.Errors)
	return summary, nil
}

func (s *Syncer) recordCategoryError(categoryID uint, cause error) {
	if err := s.mappings.MarkError(models.MoodleTypeCategory, categoryID, models.WordPressTypeTerm, s.taxonomy, cause.Error()); err != nil {
		log.Errorf("[WPSync] failed to record error for category %d: %v", categoryID, err)
	}
}
