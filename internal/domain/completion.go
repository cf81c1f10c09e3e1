// internal/domain/completion.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutCompletion records that a planned workout within a specific plan
// was performed or explicitly skipped. PlannedWorkoutID may be nil for a
// completion logged before auto-matching associates it with a slot.
// At most one completion exists per (plan, planned workout).
type WorkoutCompletion struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PlanID           primitive.ObjectID  `bson:"planId" json:"planId"`
	PlannedWorkoutID *primitive.ObjectID `bson:"plannedWorkoutId,omitempty" json:"plannedWorkoutId,omitempty"`
	ScheduledDate    Date                `bson:"scheduledDate" json:"scheduledDate"`
	CompletedDate    *Date               `bson:"completedDate,omitempty" json:"completedDate,omitempty"`
	Skipped          bool                `bson:"skipped" json:"skipped"`
	SkipReason       string              `bson:"skipReason,omitempty" json:"skipReason,omitempty"`
	// Actuals, filled in by the athlete or from a matched external activity.
	ActualDurationMinutes int                 `bson:"actualDurationMinutes,omitempty" json:"actualDurationMinutes,omitempty"`
	ActualDistanceMiles   float64             `bson:"actualDistanceMiles,omitempty" json:"actualDistanceMiles,omitempty"`
	PerceivedEffort       int                 `bson:"perceivedEffort,omitempty" json:"perceivedEffort,omitempty"` // 1-10
	ActivityID            *int64              `bson:"activityId,omitempty" json:"activityId,omitempty"`           // External activity reference
	AttachmentID          *primitive.ObjectID `bson:"attachmentId,omitempty" json:"attachmentId,omitempty"`
	Notes                 string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt             time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Completed reports whether this record carries an actual completion date.
func (c *WorkoutCompletion) Completed() bool {
	return c.CompletedDate != nil
}

// CompletionFilters narrows completion listings for a plan.
type CompletionFilters struct {
	Completed   *bool
	Skipped     *bool
	HasActivity bool
}
