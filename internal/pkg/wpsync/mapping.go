package wpsync

import (
	"fmt"
	"time"

	"github.com/coursebridge/coursebridge/app/models"
	"github.com/coursebridge/coursebridge/app/repository"
)

// MappingService is the state machine over the local mapping table. Valid
// transitions: no row ("not_synced") moves to synced or error on the first
// attempt; error moves back to synced on a later success; a synced row
// whose remote entity 404s is deleted so the entity re-enters not_synced
// and is recreated in the same sync pass.
type MappingService struct {
	mappings repository.MappingRepository
	now      func() time.Time
}

// NewMappingService creates a mapping service from an injected repository.
func NewMappingService(mappings repository.MappingRepository) *MappingService {
	return &MappingService{mappings: mappings, now: time.Now}
}

// GetMapping returns the mapping for a local entity, nil when the entity
// has never been synced.
func (s *MappingService) GetMapping(moodleType string, moodleID uint) (*models.WordPressMapping, error) {
	return s.mappings.GetByEntity(moodleType, moodleID)
}

// IsSynced reports whether the entity's last sync attempt succeeded.
func (s *MappingService) IsSynced(moodleType string, moodleID uint) (bool, error) {
	m, err := s.mappings.GetByEntity(moodleType, moodleID)
	if err != nil {
		return false, err
	}
	return m != nil && m.IsSynced(), nil
}

// MarkSynced records a successful sync attempt, creating the mapping row if
// the entity was not mapped yet. Earlier error text is cleared.
func (s *MappingService) MarkSynced(moodleType string, moodleID uint, wordpressType string, wordpressID int64, remoteLabel string) (*models.WordPressMapping, error) {
	now := s.now()

	m, err := s.mappings.GetByEntity(moodleType, moodleID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = &models.WordPressMapping{
			MoodleType:    moodleType,
			MoodleID:      moodleID,
			WordPressType: wordpressType,
			WordPressID:   wordpressID,
			RemoteLabel:   remoteLabel,
			SyncStatus:    models.SyncStatusSynced,
			LastSyncedAt:  &now,
		}
		if err := s.mappings.Create(m); err != nil {
			return nil, fmt.Errorf("create mapping: %w", err)
		}
		return m, nil
	}

	m.WordPressType = wordpressType
	m.WordPressID = wordpressID
	m.RemoteLabel = remoteLabel
	m.SyncStatus = models.SyncStatusSynced
	m.SyncError = ""
	m.LastSyncedAt = &now
	if err := s.mappings.Update(m); err != nil {
		return nil, fmt.Errorf("update mapping: %w", err)
	}
	return m, nil
}

// MarkError records a failed sync attempt with its message, creating the
// mapping row if the entity was not mapped yet.
func (s *MappingService) MarkError(moodleType string, moodleID uint, wordpressType, remoteLabel, message string) error {
	m, err := s.mappings.GetByEntity(moodleType, moodleID)
	if err != nil {
		return err
	}
	if m == nil {
		m = &models.WordPressMapping{
			MoodleType:    moodleType,
			MoodleID:      moodleID,
			WordPressType: wordpressType,
			RemoteLabel:   remoteLabel,
			SyncStatus:    models.SyncStatusError,
			SyncError:     message,
		}
		return s.mappings.Create(m)
	}

	m.SyncStatus = models.SyncStatusError
	m.SyncError = message
	return s.mappings.Update(m)
}

// Touch refreshes LastSyncedAt on an existing synced mapping without
// changing its state, used after auxiliary pushes like pricing metadata.
func (s *MappingService) Touch(moodleType string, moodleID uint) error {
	m, err := s.mappings.GetByEntity(moodleType, moodleID)
	if err != nil || m == nil {
		return err
	}
	now := s.now()
	m.LastSyncedAt = &now
	return s.mappings.Update(m)
}

// Drop removes a stale mapping so its entity re-enters not_synced.
func (s *MappingService) Drop(m *models.WordPressMapping) error {
	return s.mappings.Delete(m.ID)
}

// GetStats returns the per-status mapping counts.
func (s *MappingService) GetStats() (map[string]int64, error) {
	return s.mappings.CountByStatus()
}
