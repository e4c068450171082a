package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShowtimeOverlaps(t *testing.T) {
	base := time.Date(2030, 1, 1, 18, 0, 0, 0, time.UTC)
	st := &Showtime{StartTime: base, EndTime: EndTimeFor(base, 120)}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside", base.Add(30 * time.Minute), base.Add(150 * time.Minute), true},
		{"same slot", base, base.Add(120 * time.Minute), true},
		{"spans", base.Add(-time.Hour), base.Add(3 * time.Hour), true},
		{"touches end", base.Add(120 * time.Minute), base.Add(4 * time.Hour), true},
		{"touches start", base.Add(-time.Hour), base, true},
		{"before", base.Add(-3 * time.Hour), base.Add(-time.Minute), false},
		{"after", base.Add(121 * time.Minute), base.Add(4 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, st.Overlaps(tt.start, tt.end))
		})
	}
}

func TestEndTimeFor(t *testing.T) {
	start := time.Date(2030, 1, 1, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, start.Add(2*time.Hour), EndTimeFor(start, 120))
}
