package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/tigerswim/raceprep-sub001/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2025, time.January, 6), d)
	assert.Equal(t, "2025-01-06", d.String())

	_, err = domain.ParseDate("06/01/2025")
	assert.Error(t, err)
	_, err = domain.ParseDate("2025-13-40")
	assert.Error(t, err)
}

func TestDateIn_TimezoneBoundary(t *testing.T) {
	// 2025-06-05 03:00 UTC is still 2025-06-04 in New York.
	instant := time.Date(2025, time.June, 5, 3, 0, 0, 0, time.UTC)
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	assert.Equal(t, domain.NewDate(2025, time.June, 5), domain.DateIn(instant, time.UTC))
	assert.Equal(t, domain.NewDate(2025, time.June, 4), domain.DateIn(instant, ny))
	assert.Equal(t, domain.NewDate(2025, time.June, 5), domain.DateIn(instant, nil))
}

func TestDateArithmetic(t *testing.T) {
	d := domain.NewDate(2025, time.January, 30)

	assert.Equal(t, domain.NewDate(2025, time.February, 6), d.AddDays(7))
	assert.Equal(t, domain.NewDate(2025, time.January, 23), d.AddDays(-7))
	assert.Equal(t, 7, d.DaysUntil(d.AddDays(7)))
	assert.Equal(t, -3, d.DaysUntil(d.AddDays(-3)))
	assert.Equal(t, 0, d.DaysUntil(d))

	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.After(d.AddDays(-1)))
	assert.True(t, d.Equal(domain.NewDate(2025, time.January, 30)))
}

func TestDateJSONRoundTrip(t *testing.T) {
	type payload struct {
		Start domain.Date  `json:"start"`
		End   *domain.Date `json:"end,omitempty"`
	}

	in := payload{Start: domain.NewDate(2025, time.June, 2)}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2025-06-02"}`, string(raw))

	var out payload
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in.Start, out.Start)
	assert.Nil(t, out.End)
}

func TestDateJSONAcceptsTimestamps(t *testing.T) {
	var d domain.Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-06-05T03:00:00Z"`), &d))
	assert.Equal(t, domain.NewDate(2025, time.June, 5), d)

	assert.Error(t, json.Unmarshal([]byte(`42`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
}
