package models

import "time"

// CourseCategory is a node in the course catalog tree. Depth is 1 for top
// level categories; remote term syncing walks the tree depth ascending so
// parents are pushed before their children.
type CourseCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Parent      uint      `gorm:"default:0;index" json:"parent"`
	Depth       int       `gorm:"default:1;index" json:"depth"`
	IDNumber    string    `gorm:"type:varchar(100);default:null" json:"idnumber"`
	Description string    `gorm:"type:text" json:"description"`
	Visible     bool      `gorm:"default:true" json:"visible"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsTopLevel reports whether the category has no parent.
func (c *CourseCategory) IsTopLevel() bool {
	return c.Parent == 0
}
