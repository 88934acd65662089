package models

import "time"

// Course groups exams under a common subject.
type Course struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	InstructorID uint       `gorm:"not null" json:"instructor_id"`
	Code         string     `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Instructor   Instructor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
