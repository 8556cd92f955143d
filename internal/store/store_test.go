package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/careflow/booking-api/internal/models"
)

func TestServiceMatches(t *testing.T) {
	tests := []struct {
		service string
		query   string
		want    bool
	}{
		{"Dermatology", "derm", true},
		{"DERM clinic", "derm", true},
		{"dermatology", "DERM", true},
		{"Cardiology", "derm", false},
		{"", "derm", false},
		{"Dermatology", "", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ServiceMatches(tt.service, tt.query),
			"service=%q query=%q", tt.service, tt.query)
	}
}

func TestSearchFilter_Matches_Empty(t *testing.T) {
	apt := models.Appointment{
		Location: "Downtown",
		Service:  "Dermatology",
	}
	assert.True(t, SearchFilter{}.Matches(apt))
}

func TestSearchFilter_Matches_LocationAndProvider(t *testing.T) {
	provider := primitive.NewObjectID()
	apt := models.Appointment{Location: "Downtown", Provider: provider}

	assert.True(t, SearchFilter{Location: "Downtown"}.Matches(apt))
	assert.False(t, SearchFilter{Location: "Uptown"}.Matches(apt))

	assert.True(t, SearchFilter{Provider: &provider}.Matches(apt))
	other := primitive.NewObjectID()
	assert.False(t, SearchFilter{Provider: &other}.Matches(apt))
}

func TestSearchFilter_Matches_DateBounds(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("bad date %q: %v", s, err)
		}
		return d
	}
	start := day("2024-01-01")
	end := day("2024-01-31").AddDate(0, 0, 1).Add(-time.Nanosecond)
	closed := SearchFilter{StartDate: &start, EndDate: &end}

	at := func(s string) models.Appointment {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t.Fatalf("bad time %q: %v", s, err)
		}
		return models.Appointment{StartTime: ts}
	}

	assert.True(t, closed.Matches(at("2024-01-01T00:00:00Z")), "lower bound is inclusive")
	assert.True(t, closed.Matches(at("2024-01-15T09:30:00Z")))
	assert.True(t, closed.Matches(at("2024-01-31T23:59:59Z")), "upper bound covers the whole end day")
	assert.False(t, closed.Matches(at("2023-12-31T23:59:59Z")))
	assert.False(t, closed.Matches(at("2024-02-01T00:00:00Z")))

	// Bounds are independent: each alone leaves the other side open.
	lower := SearchFilter{StartDate: &start}
	assert.True(t, lower.Matches(at("2030-06-01T00:00:00Z")))
	assert.False(t, lower.Matches(at("2023-12-31T00:00:00Z")))

	upper := SearchFilter{EndDate: &end}
	assert.True(t, upper.Matches(at("2001-01-01T00:00:00Z")))
	assert.False(t, upper.Matches(at("2024-02-01T00:00:00Z")))
}
