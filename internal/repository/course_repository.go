package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/fairway-edge/internal/database"
	"github.com/yourusername/fairway-edge/internal/models"
)

// PostgresCourseRepository implements CourseRepository for PostgreSQL
type PostgresCourseRepository struct {
	db *database.DB
}

// NewPostgresCourseRepository creates a new course repository
func NewPostgresCourseRepository(db *database.DB) CourseRepository {
	return &PostgresCourseRepository{db: db}
}

// Upsert inserts or replaces a course profile
func (c *PostgresCourseRepository) Upsert(ctx context.Context, profile *models.CourseProfile) error {
	ratings, err := json.Marshal(profile.SkillRatings)
	if err != nil {
		return fmt.Errorf("failed to marshal skill ratings: %w", err)
	}

	query := `
		INSERT INTO course_profiles (course_id, course_name, par, yardage, skill_ratings, related_courses)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (course_id) DO UPDATE SET
			course_name = EXCLUDED.course_name,
			par = EXCLUDED.par,
			yardage = EXCLUDED.yardage,
			skill_ratings = EXCLUDED.skill_ratings,
			related_courses = EXCLUDED.related_courses
	`

	_, err = c.db.GetPool().Exec(ctx, query,
		profile.CourseID, profile.CourseName, profile.Par, profile.Yardage, ratings, profile.RelatedCourses,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert course profile: %w", err)
	}
	return nil
}

// GetByID retrieves a course profile
func (c *PostgresCourseRepository) GetByID(ctx context.Context, courseID string) (*models.CourseProfile, error) {
	query := `
		SELECT course_id, course_name, par, yardage, skill_ratings, related_courses
		FROM course_profiles WHERE course_id = $1
	`

	profile := &models.CourseProfile{}
	var ratings []byte
	err := c.db.GetPool().QueryRow(ctx, query, courseID).Scan(
		&profile.CourseID, &profile.CourseName, &profile.Par, &profile.Yardage, &ratings, &profile.RelatedCourses,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course profile: %w", err)
	}

	if len(ratings) > 0 {
		if err := json.Unmarshal(ratings, &profile.SkillRatings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal skill ratings: %w", err)
		}
	}
	return profile, nil
}
