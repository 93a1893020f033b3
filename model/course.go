package model

import (
	"time"
)

// Course represents a university course (e.g., CMPS 271)
type Course struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	CourseNumber string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"course_number"`
	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	Department   string    `gorm:"type:varchar(100);index" json:"department"`
	Credits      int       `gorm:"default:3" json:"credits"`
	Description  string    `gorm:"type:text" json:"description"`

	// Relationships
	Sections []CourseSection `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
	Reviews  []Review        `gorm:"foreignKey:CourseID" json:"-"`
}

// Professor represents a course instructor
type Professor struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	FullName   string    `gorm:"type:varchar(200);not null;index" json:"full_name"`
	Department string    `gorm:"type:varchar(100);index" json:"department"`
	Email      string    `gorm:"type:varchar(255)" json:"-"`

	// Relationships
	Sections []CourseSection `gorm:"foreignKey:ProfessorID" json:"-"`
	Reviews  []Review        `gorm:"foreignKey:ProfessorID" json:"-"`
}

// CourseSection is one offering of a course by a professor in a given term
type CourseSection struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
	ProfessorID uint      `gorm:"not null;index" json:"professor_id"`
	Semester    string    `gorm:"type:varchar(20);index" json:"semester"` // e.g., "Fall", "Spring"
	Year        int       `gorm:"index" json:"year"`
	SectionCode string    `gorm:"type:varchar(10)" json:"section_code"`

	// Relationships
	Course    Course    `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Professor Professor `gorm:"foreignKey:ProfessorID" json:"professor,omitempty"`
	Reviews   []Review  `gorm:"foreignKey:SectionID" json:"-"`
}

// TableName specifies the table name for CourseSection
func (CourseSection) TableName() string {
	return "course_sections"
}
