package models

import "time"

// Course belongs to exactly one category. StartDate/EndDate are unix
// seconds, 0 meaning open.
type Course struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CategoryID uint      `gorm:"not null;index" json:"category_id" validate:"required"`
	FullName   string    `gorm:"type:varchar(255);not null" json:"fullname" validate:"required,max=255"`
	ShortName  string    `gorm:"type:varchar(255);uniqueIndex" json:"shortname" validate:"required,max=255"`
	IDNumber   string    `gorm:"type:varchar(100);default:null" json:"idnumber"`
	Summary    string    `gorm:"type:text" json:"summary"`
	Visible    bool      `gorm:"default:true" json:"visible"`
	StartDate  int64     `gorm:"default:0" json:"startdate"`
	EndDate    int64     `gorm:"default:0" json:"enddate"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
