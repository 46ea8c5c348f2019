package models

import (
	"time"

	"gorm.io/datatypes"
)

// CourseStrategy is one persisted course-specific strategy reply, stored
// verbatim like Analysis.Result.
type CourseStrategy struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID uint   `gorm:"index;not null" json:"user_id"`

	CourseName string         `gorm:"size:255;not null" json:"course_name"`
	TeeSet     string         `gorm:"size:64" json:"tee_set"`
	Notes      string         `gorm:"size:1024" json:"notes"`
	Strategy   datatypes.JSON `gorm:"type:json;not null" json:"strategy"`

	CreatedAt time.Time `json:"created_at"`
}
