package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Date is a calendar date with no time-of-day and no timezone.
// Plan start dates and workout scheduled dates are dates, not instants:
// keeping them free of wall-clock time avoids off-by-one-day errors when
// the same record is read in different timezones. Conversion from an
// instant happens once, at the boundary, via DateIn.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateIn(t, time.UTC), nil
}

// DateIn converts an instant to the calendar date observed at that instant
// in the given location. This is the single place a timestamp becomes a
// date; callers must supply the timezone policy explicitly.
func DateIn(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns the date as midnight UTC. Used internally for arithmetic.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateIn(d.Time().AddDate(0, 0, n), time.UTC)
}

// DaysUntil returns the number of whole days from d to other.
// Negative when other is before d.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()) / (24 * time.Hour))
}

func (d Date) Equal(other Date) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string. Full RFC3339 timestamps are
// also accepted and truncated to their UTC date, so payloads produced by
// clients that serialize dates as instants still load.
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", data)
	}
	s := string(data[1 : len(data)-1])
	parsed, err := ParseDate(s)
	if err != nil {
		t, tsErr := time.Parse(time.RFC3339, s)
		if tsErr != nil {
			return err
		}
		parsed = DateIn(t, time.UTC)
	}
	*d = parsed
	return nil
}

// MarshalBSONValue stores the date as its string form.
func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.String())
}

// UnmarshalBSONValue reads a date stored either as a string or as a BSON
// datetime (legacy rows written before the date-only representation).
func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bson.TypeString:
		var s string
		if err := bson.UnmarshalValue(t, data, &s); err != nil {
			return err
		}
		parsed, err := ParseDate(s)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case bson.TypeDateTime:
		var dt primitive.DateTime
		if err := bson.UnmarshalValue(t, data, &dt); err != nil {
			return err
		}
		*d = DateIn(dt.Time(), time.UTC)
		return nil
	case bson.TypeNull:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot decode %v into a calendar date", t)
	}
}
