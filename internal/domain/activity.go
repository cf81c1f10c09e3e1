// internal/domain/activity.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity is a raw activity record synced from an external fitness
// tracker. Records arrive through the ingest API already deserialized;
// this service never talks to the tracker itself. ExternalID is the
// tracker's own identifier and is unique per user.
type Activity struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	ExternalID        int64              `bson:"externalId" json:"externalId"`
	Name              string             `bson:"name" json:"name"`
	SportType         string             `bson:"sportType" json:"sportType"` // e.g. "Run", "Ride", "VirtualRide", "Swim"
	StartDate         time.Time          `bson:"startDate" json:"startDate"` // Instant, as reported by the tracker
	MovingTimeSeconds int                `bson:"movingTimeSeconds" json:"movingTimeSeconds"`
	DistanceMeters    float64            `bson:"distanceMeters" json:"distanceMeters"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

// sportDisciplines maps tracker sport types onto plan disciplines.
var sportDisciplines = map[string]Discipline{
	"Swim":           DisciplineSwim,
	"Ride":           DisciplineBike,
	"VirtualRide":    DisciplineBike,
	"EBikeRide":      DisciplineBike,
	"Run":            DisciplineRun,
	"VirtualRun":     DisciplineRun,
	"WeightTraining": DisciplineStrength,
	"Workout":        DisciplineStrength,
}

// Discipline maps the activity's sport type to a plan discipline.
// The second return is false for unsupported sport types.
func (a *Activity) Discipline() (Discipline, bool) {
	d, ok := sportDisciplines[a.SportType]
	return d, ok
}

// MovingMinutes returns the moving time rounded to whole minutes.
func (a *Activity) MovingMinutes() int {
	return int(float64(a.MovingTimeSeconds)/60 + 0.5)
}

const metersPerMile = 1609.34

// DistanceMilesValue converts the recorded distance to miles, the unit the
// plan model stores.
func (a *Activity) DistanceMilesValue() float64 {
	return a.DistanceMeters / metersPerMile
}
