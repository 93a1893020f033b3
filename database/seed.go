package database

import (
	"fmt"
	"log"

	"github.com/nkk09/Cmps271/model"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedCourses(); err != nil {
		return fmt.Errorf("failed to seed courses: %w", err)
	}
	if err := s.SeedProfessors(); err != nil {
		return fmt.Errorf("failed to seed professors: %w", err)
	}
	if err := s.SeedSections(); err != nil {
		return fmt.Errorf("failed to seed sections: %w", err)
	}

	log.Println("Database seeding completed")
	return nil
}

// SeedCourses inserts a baseline course catalog if none exists
func (s *Seeder) SeedCourses() error {
	var count int64
	if err := s.db.Model(&model.Course{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	courses := []model.Course{
		{CourseNumber: "CMPS 271", Title: "Software Engineering", Department: "Computer Science", Credits: 3},
		{CourseNumber: "CMPS 200", Title: "Introduction to Programming", Department: "Computer Science", Credits: 3},
		{CourseNumber: "MATH 201", Title: "Calculus and Analytic Geometry III", Department: "Mathematics", Credits: 3},
	}
	return s.db.Create(&courses).Error
}

// SeedProfessors inserts placeholder professors if none exist
func (s *Seeder) SeedProfessors() error {
	var count int64
	if err := s.db.Model(&model.Professor{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	professors := []model.Professor{
		{FullName: "Rami Haddad", Department: "Computer Science"},
		{FullName: "Lina Khoury", Department: "Computer Science"},
		{FullName: "Samir Aoun", Department: "Mathematics"},
	}
	return s.db.Create(&professors).Error
}

// SeedSections links seeded courses and professors for the current term
func (s *Seeder) SeedSections() error {
	var count int64
	if err := s.db.Model(&model.CourseSection{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var courses []model.Course
	var professors []model.Professor
	if err := s.db.Order("id").Find(&courses).Error; err != nil {
		return err
	}
	if err := s.db.Order("id").Find(&professors).Error; err != nil {
		return err
	}
	if len(courses) == 0 || len(professors) == 0 {
		return nil
	}

	sections := []model.CourseSection{}
	for i, course := range courses {
		prof := professors[i%len(professors)]
		sections = append(sections, model.CourseSection{
			CourseID:    course.ID,
			ProfessorID: prof.ID,
			Semester:    "Fall",
			Year:        2025,
			SectionCode: "1",
		})
	}
	return s.db.Create(&sections).Error
}
