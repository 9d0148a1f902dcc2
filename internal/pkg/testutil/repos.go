// Package testutil provides in-memory repository implementations used by
// service tests that would otherwise need a MySQL instance.
package testutil

import (
	"sort"

	"gorm.io/gorm"

	"github.com/coursebridge/coursebridge/app/models"
	"github.com/coursebridge/coursebridge/app/repository"
)

// CategoryRepo is an in-memory repository.CategoryRepository.
type CategoryRepo struct {
	Rows   map[uint]*models.CourseCategory
	nextID uint
}

func NewCategoryRepo() *CategoryRepo {
	return &CategoryRepo{Rows: map[uint]*models.CourseCategory{}}
}

func (r *CategoryRepo) Create(c *models.CourseCategory) error {
	if c.ID == 0 {
		r.nextID++
		c.ID = r.nextID
	} else if c.ID > r.nextID {
		r.nextID = c.ID
	}
	cp := *c
	r.Rows[c.ID] = &cp
	return nil
}

func (r *CategoryRepo) GetByID(id uint) (*models.CourseCategory, error) {
	c, ok := r.Rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CategoryRepo) Exists(id uint) (bool, error) {
	_, ok := r.Rows[id]
	return ok, nil
}

func (r *CategoryRepo) GetChildren(parentID uint) ([]models.CourseCategory, error) {
	var out []models.CourseCategory
	for _, c := range r.Rows {
		if c.Parent == parentID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) ListOrderedByDepth() ([]models.CourseCategory, error) {
	var out []models.CourseCategory
	for _, c := range r.Rows {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CategoryRepo) Update(c *models.CourseCategory) error {
	if _, ok := r.Rows[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *c
	r.Rows[c.ID] = &cp
	return nil
}

func (r *CategoryRepo) Delete(id uint) error {
	delete(r.Rows, id)
	return nil
}

func (r *CategoryRepo) Count() (int64, error) {
	return int64(len(r.Rows)), nil
}

// PriceRepo is an in-memory repository.PriceRepository.
type PriceRepo struct {
	Rows   map[uint]*models.CategoryPrice
	nextID uint

	// FailUpdateID makes Update fail for one row, for partial-failure tests.
	FailUpdateID uint
}

func NewPriceRepo() *PriceRepo {
	return &PriceRepo{Rows: map[uint]*models.CategoryPrice{}}
}

func (r *PriceRepo) Create(p *models.CategoryPrice) error {
	if p.ID == 0 {
		r.nextID++
		p.ID = r.nextID
	} else if p.ID > r.nextID {
		r.nextID = p.ID
	}
	cp := *p
	r.Rows[p.ID] = &cp
	return nil
}

func (r *PriceRepo) GetByID(id uint) (*models.CategoryPrice, error) {
	p, ok := r.Rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PriceRepo) GetByCategory(categoryID uint, activeOnly bool) ([]models.CategoryPrice, error) {
	var out []models.CategoryPrice
	for _, p := range r.Rows {
		if p.CategoryID != categoryID {
			continue
		}
		if activeOnly && p.Status != models.PriceStatusActive {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate < out[j].StartDate
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PriceRepo) GetActiveAt(categoryID uint, at int64) (*models.CategoryPrice, error) {
	var best *models.CategoryPrice
	for _, p := range r.Rows {
		if p.CategoryID != categoryID || p.Status != models.PriceStatusActive {
			continue
		}
		if p.StartDate > at {
			continue
		}
		if p.EndDate != 0 && p.EndDate < at {
			continue
		}
		if best == nil || p.StartDate > best.StartDate ||
			(p.StartDate == best.StartDate && p.ID > best.ID) {
			best = p
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (r *PriceRepo) Update(p *models.CategoryPrice) error {
	if p.ID == r.FailUpdateID && r.FailUpdateID != 0 {
		return gorm.ErrInvalidData
	}
	if _, ok := r.Rows[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	r.Rows[p.ID] = &cp
	return nil
}

func (r *PriceRepo) Delete(id uint) error {
	delete(r.Rows, id)
	return nil
}

func (r *PriceRepo) CountByCategory(categoryID uint) (int64, error) {
	var n int64
	for _, p := range r.Rows {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// CourseRepo is an in-memory repository.CourseRepository.
type CourseRepo struct {
	Rows   map[uint]*models.Course
	nextID uint
}

func NewCourseRepo() *CourseRepo {
	return &CourseRepo{Rows: map[uint]*models.Course{}}
}

func (r *CourseRepo) Create(c *models.Course) error {
	if c.ID == 0 {
		r.nextID++
		c.ID = r.nextID
	} else if c.ID > r.nextID {
		r.nextID = c.ID
	}
	cp := *c
	r.Rows[c.ID] = &cp
	return nil
}

func (r *CourseRepo) GetByID(id uint) (*models.Course, error) {
	c, ok := r.Rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CourseRepo) GetByCategory(categoryID uint) ([]models.Course, error) {
	var out []models.Course
	for _, c := range r.Rows {
		if c.CategoryID == categoryID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CourseRepo) List(offset, limit int) ([]models.Course, error) {
	var out []models.Course
	for _, c := range r.Rows {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *CourseRepo) Update(c *models.Course) error {
	if _, ok := r.Rows[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *c
	r.Rows[c.ID] = &cp
	return nil
}

func (r *CourseRepo) Delete(id uint) error {
	delete(r.Rows, id)
	return nil
}

func (r *CourseRepo) Count() (int64, error) {
	return int64(len(r.Rows)), nil
}

// EnrolmentRepo is an in-memory repository.EnrolmentRepository.
type EnrolmentRepo struct {
	Rows   map[uint]*models.Enrolment
	nextID uint

	// FailUpdateID makes Update fail for one row, for partial-failure tests.
	FailUpdateID uint
}

func NewEnrolmentRepo() *EnrolmentRepo {
	return &EnrolmentRepo{Rows: map[uint]*models.Enrolment{}}
}

func (r *EnrolmentRepo) Create(e *models.Enrolment) error {
	if e.ID == 0 {
		r.nextID++
		e.ID = r.nextID
	} else if e.ID > r.nextID {
		r.nextID = e.ID
	}
	cp := *e
	r.Rows[e.ID] = &cp
	return nil
}

func (r *EnrolmentRepo) GetByID(id uint) (*models.Enrolment, error) {
	e, ok := r.Rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *EnrolmentRepo) GetByCourse(courseID uint) ([]models.Enrolment, error) {
	var out []models.Enrolment
	for _, e := range r.Rows {
		if e.CourseID == courseID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *EnrolmentRepo) GetByCourseAndMethod(courseID uint, method string) ([]models.Enrolment, error) {
	var out []models.Enrolment
	for _, e := range r.Rows {
		if e.CourseID == courseID && e.Method == method {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *EnrolmentRepo) GetByPriceRef(priceID uint) ([]models.Enrolment, error) {
	var out []models.Enrolment
	for _, e := range r.Rows {
		if e.CustomInt1 == int64(priceID) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *EnrolmentRepo) GetScheduled() ([]models.Enrolment, error) {
	var out []models.Enrolment
	for _, e := range r.Rows {
		if e.Method == models.EnrolMethodFee && e.CustomInt5 == 1 {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *EnrolmentRepo) Update(e *models.Enrolment) error {
	if e.ID == r.FailUpdateID && r.FailUpdateID != 0 {
		return gorm.ErrInvalidData
	}
	if _, ok := r.Rows[e.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *e
	r.Rows[e.ID] = &cp
	return nil
}

func (r *EnrolmentRepo) Delete(id uint) error {
	delete(r.Rows, id)
	return nil
}

// MappingRepo is an in-memory repository.MappingRepository.
type MappingRepo struct {
	Rows   map[uint]*models.WordPressMapping
	nextID uint
}

func NewMappingRepo() *MappingRepo {
	return &MappingRepo{Rows: map[uint]*models.WordPressMapping{}}
}

func (r *MappingRepo) Create(m *models.WordPressMapping) error {
	if m.ID == 0 {
		r.nextID++
		m.ID = r.nextID
	} else if m.ID > r.nextID {
		r.nextID = m.ID
	}
	cp := *m
	r.Rows[m.ID] = &cp
	return nil
}

func (r *MappingRepo) GetByID(id uint) (*models.WordPressMapping, error) {
	m, ok := r.Rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *MappingRepo) GetByEntity(moodleType string, moodleID uint) (*models.WordPressMapping, error) {
	var best *models.WordPressMapping
	for _, m := range r.Rows {
		if m.MoodleType != moodleType || m.MoodleID != moodleID {
			continue
		}
		if best == nil || m.ID > best.ID {
			best = m
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (r *MappingRepo) Update(m *models.WordPressMapping) error {
	if _, ok := r.Rows[m.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *m
	r.Rows[m.ID] = &cp
	return nil
}

func (r *MappingRepo) Delete(id uint) error {
	delete(r.Rows, id)
	return nil
}

func (r *MappingRepo) DeleteByEntity(moodleType string, moodleID uint) error {
	for id, m := range r.Rows {
		if m.MoodleType == moodleType && m.MoodleID == moodleID {
			delete(r.Rows, id)
		}
	}
	return nil
}

func (r *MappingRepo) CountByStatus() (map[string]int64, error) {
	stats := map[string]int64{
		models.SyncStatusNotSynced: 0,
		models.SyncStatusSynced:    0,
		models.SyncStatusPending:   0,
		models.SyncStatusError:     0,
	}
	for _, m := range r.Rows {
		stats[m.SyncStatus]++
	}
	return stats, nil
}

var (
	_ repository.CategoryRepository  = (*CategoryRepo)(nil)
	_ repository.PriceRepository     = (*PriceRepo)(nil)
	_ repository.CourseRepository    = (*CourseRepo)(nil)
	_ repository.EnrolmentRepository = (*EnrolmentRepo)(nil)
	_ repository.MappingRepository   = (*MappingRepo)(nil)
)
