// internal/domain/template.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DistanceType is the target triathlon race distance of a plan template.
type DistanceType string

const (
	DistanceSprint  DistanceType = "sprint"
	DistanceOlympic DistanceType = "olympic"
	DistanceHalf    DistanceType = "70.3"
	DistanceIronman DistanceType = "ironman"
)

// ExperienceLevel is the athlete level a template targets.
type ExperienceLevel string

const (
	LevelBeginner     ExperienceLevel = "beginner"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelAdvanced     ExperienceLevel = "advanced"
)

// Discipline is the sport of a single planned workout.
type Discipline string

const (
	DisciplineSwim     Discipline = "swim"
	DisciplineBike     Discipline = "bike"
	DisciplineRun      Discipline = "run"
	DisciplineBrick    Discipline = "brick"
	DisciplineStrength Discipline = "strength"
	DisciplineRest     Discipline = "rest"
)

// PlanTemplate is a reusable, catalog-defined training plan blueprint.
// Templates are seeded by the catalog and never mutated by normal
// operation; athletes instantiate them into TrainingPlans.
type PlanTemplate struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Slug            string             `bson:"slug" json:"slug"` // Unique, URL-friendly
	DistanceType    DistanceType       `bson:"distanceType" json:"distanceType"`
	ExperienceLevel ExperienceLevel    `bson:"experienceLevel" json:"experienceLevel"`
	DurationWeeks   int                `bson:"durationWeeks" json:"durationWeeks"`
	WeeklyHoursMin  float64            `bson:"weeklyHoursMin" json:"weeklyHoursMin"`
	WeeklyHoursMax  float64            `bson:"weeklyHoursMax" json:"weeklyHoursMax"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	IsActive        bool               `bson:"isActive" json:"isActive"`
	CreatedBy       string             `bson:"createdBy" json:"createdBy"` // "system" for catalog seeds
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TemplateWorkout is one planned workout slot within a template, addressed
// by (week number, day of week). Week numbers are 1-based up to the
// template's DurationWeeks; days run 1 (Monday) through 7 (Sunday).
type TemplateWorkout struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TemplateID      primitive.ObjectID `bson:"templateId" json:"templateId"`
	WeekNumber      int                `bson:"weekNumber" json:"weekNumber"`
	DayOfWeek       int                `bson:"dayOfWeek" json:"dayOfWeek"` // 1 (Mon) - 7 (Sun)
	Discipline      Discipline         `bson:"discipline" json:"discipline"`
	WorkoutType     string             `bson:"workoutType,omitempty" json:"workoutType,omitempty"` // e.g. "base", "tempo", "long"
	DurationMinutes int                `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	DistanceMiles   float64            `bson:"distanceMiles,omitempty" json:"distanceMiles,omitempty"`
	Intensity       string             `bson:"intensity,omitempty" json:"intensity,omitempty"` // e.g. "Zone 2", "Threshold"
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// TemplateFilters narrows catalog listings.
type TemplateFilters struct {
	DistanceType    DistanceType
	ExperienceLevel ExperienceLevel
	MinWeeks        int
	MaxWeeks        int
	MinHours        float64
	MaxHours        float64
}
