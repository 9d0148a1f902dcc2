package repository

import (
	"errors"

	"github.com/coursebridge/coursebridge/app/models"
	"gorm.io/gorm"
)

// mappingRepository implements the MappingRepository interface
type mappingRepository struct {
	db *gorm.DB
}

// NewMappingRepository creates a new mapping repository instance
func NewMappingRepository(db *gorm.DB) MappingRepository {
	return &mappingRepository{db: db}
}

func (r *mappingRepository) Create(mapping *models.WordPressMapping) error {
	return r.db.Create(mapping).Error
}

func (r *mappingRepository) GetByID(id uint) (*models.WordPressMapping, error) {
	var mapping models.WordPressMapping
	err := r.db.First(&mapping, id).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// GetByEntity resolves the mapping for a local entity. Returns nil without
// error when no mapping exists (the entity is not_synced). If stale
// duplicate rows exist the newest one wins and the others are dropped.
func (r *mappingRepository) GetByEntity(moodleType string, moodleID uint) (*models.WordPressMapping, error) {
	var mappings []models.WordPressMapping
	err := r.db.
		Where("moodle_type = ? AND moodle_id = ?", moodleType, moodleID).
		Order("id DESC").
		Find(&mappings).Error
	if err != nil {
		return nil, err
	}
	if len(mappings) == 0 {
		return nil, nil
	}
	// Stale duplicates violate the one-row-per-entity invariant.
	for _, stale := range mappings[1:] {
		r.db.Delete(&models.WordPressMapping{}, stale.ID)
	}
	return &mappings[0], nil
}

func (r *mappingRepository) Update(mapping *models.WordPressMapping) error {
	return r.db.Save(mapping).Error
}

func (r *mappingRepository) Delete(id uint) error {
	return r.db.Delete(&models.WordPressMapping{}, id).Error
}

func (r *mappingRepository) DeleteByEntity(moodleType string, moodleID uint) error {
	err := r.db.
		Where("moodle_type = ? AND moodle_id = ?", moodleType, moodleID).
		Delete(&models.WordPressMapping{}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (r *mappingRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		SyncStatus string
		Total      int64
	}
	var rows []row
	err := r.db.Model(&models.WordPressMapping{}).
		Select("sync_status, COUNT(*) AS total").
		Group("sync_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	stats := map[string]int64{
		models.SyncStatusNotSynced: 0,
		models.SyncStatusSynced:    0,
		models.SyncStatusPending:   0,
		models.SyncStatusError:     0,
	}
	for _, r := range rows {
		stats[r.SyncStatus] = r.Total
	}
	return stats, nil
}
