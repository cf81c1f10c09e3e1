package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAthlete Role = "athlete"
	RoleAdmin   Role = "admin" // Catalog management
)

// Units is the athlete's preferred display unit system. Distances are
// stored in miles everywhere; conversion for display is the client's job.
type Units string

const (
	UnitsImperial Units = "imperial"
	UnitsMetric   Units = "metric"
)

// User represents an account in the system (an athlete, or an admin who
// maintains the template catalog).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	// Timezone is the IANA zone used to resolve "today" for this user's
	// date computations, e.g. "America/New_York". Empty means UTC.
	Timezone       string    `bson:"timezone,omitempty" json:"timezone,omitempty"`
	PreferredUnits Units     `bson:"preferredUnits,omitempty" json:"preferredUnits,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Location resolves the user's timezone, falling back to UTC when unset
// or unknown.
func (u *User) Location() *time.Location {
	if u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
