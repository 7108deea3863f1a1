package models

import "strings"

// Difficulty is the qualitative label a course profile assigns to how much
// a skill category separates the field at this course
type Difficulty string

const (
	DifficultyVeryHard Difficulty = "very difficult"
	DifficultyHard     Difficulty = "difficult"
	DifficultyAverage  Difficulty = "average"
	DifficultyEasy     Difficulty = "easy"
	DifficultyVeryEasy Difficulty = "very easy"
)

// difficultyMultipliers maps a label to the weight multiplier applied to
// that category in course-fit scoring. "Very difficult" means the skill
// separates players a lot at this course, so it is weighted up.
var difficultyMultipliers = map[Difficulty]float64{
	DifficultyVeryHard: 1.5,
	DifficultyHard:     1.25,
	DifficultyAverage:  1.0,
	DifficultyEasy:     0.75,
	DifficultyVeryEasy: 0.6,
}

// Multiplier returns the weight multiplier for a difficulty label.
// Unknown or empty labels are neutral.
func (d Difficulty) Multiplier() float64 {
	m, ok := difficultyMultipliers[Difficulty(strings.ToLower(strings.TrimSpace(string(d))))]
	if !ok {
		return 1.0
	}
	return m
}

// CourseProfile holds per-course characteristics derived from field-wide
// variance in external decomposition data. Generated once per course,
// read-only during scoring.
type CourseProfile struct {
	CourseID       string                    `db:"course_id" json:"course_id" validate:"required"`
	CourseName     string                    `db:"course_name" json:"course_name"`
	Par            int                       `db:"par" json:"par"`
	Yardage        int                       `db:"yardage" json:"yardage"`
	SkillRatings   map[SGCategory]Difficulty `json:"skill_ratings"`
	RelatedCourses []string                  `json:"related_courses"`
}

// CategoryMultiplier returns the difficulty multiplier for a strokes-gained
// category, neutral when the profile has no rating for it
func (cp *CourseProfile) CategoryMultiplier(cat SGCategory) float64 {
	if cp == nil || cp.SkillRatings == nil {
		return 1.0
	}
	d, ok := cp.SkillRatings[cat]
	if !ok {
		return 1.0
	}
	return d.Multiplier()
}
