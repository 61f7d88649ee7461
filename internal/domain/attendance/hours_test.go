package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 15, hour, minute, 0, 0, time.UTC)
}

func TestComputeHours(t *testing.T) {
	tests := []struct {
		name     string
		punches  []Punch
		expected float64
	}{
		{
			name:     "empty",
			punches:  nil,
			expected: 0,
		},
		{
			name: "two sessions",
			punches: []Punch{
				{Type: PunchIn, Time: at(9, 0)},
				{Type: PunchOut, Time: at(13, 0)},
				{Type: PunchIn, Time: at(14, 0)},
				{Type: PunchOut, Time: at(18, 0)},
			},
			expected: 8,
		},
		{
			name:     "unmatched in",
			punches:  []Punch{{Type: PunchIn, Time: at(9, 0)}},
			expected: 0,
		},
		{
			name:     "leading out is ignored",
			punches:  []Punch{{Type: PunchOut, Time: at(8, 0)}, {Type: PunchIn, Time: at(9, 0)}, {Type: PunchOut, Time: at(10, 30)}},
			expected: 1.5,
		},
		{
			name: "rounds to two decimals",
			punches: []Punch{
				{Type: PunchIn, Time: at(9, 0)},
				{Type: PunchOut, Time: at(9, 20)},
			},
			expected: 0.33,
		},
		{
			name: "rounds half away from zero",
			punches: []Punch{
				{Type: PunchIn, Time: at(9, 0)},
				{Type: PunchOut, Time: at(9, 0).Add(18 * time.Second)},
			},
			expected: 0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeHours(tt.punches))
		})
	}
}

func TestComputeHours_TrailingInIsNeutral(t *testing.T) {
	sequences := [][]Punch{
		{},
		{{Type: PunchIn, Time: at(9, 0)}, {Type: PunchOut, Time: at(12, 10)}},
		{{Type: PunchIn, Time: at(8, 5)}, {Type: PunchOut, Time: at(11, 47)}, {Type: PunchIn, Time: at(12, 30)}, {Type: PunchOut, Time: at(17, 3)}},
	}

	for _, seq := range sequences {
		withTrailing := append(append([]Punch{}, seq...), Punch{Type: PunchIn, Time: at(20, 0)})
		assert.Equal(t, ComputeHours(seq), ComputeHours(withTrailing))
	}
}

func TestRoundHours(t *testing.T) {
	assert.Equal(t, 4.67, RoundHours(14.0/3.0))
	assert.Equal(t, 0.13, RoundHours(0.125))
	assert.Equal(t, 7.5, RoundHours(7.5))
}

func TestAttendance_Helpers(t *testing.T) {
	att := Attendance{}
	assert.Nil(t, att.LastPunch())
	assert.False(t, att.IsFinalized())

	att.Punches = []Punch{{Type: PunchIn, Time: at(9, 0)}, {Type: PunchOut, Time: at(17, 0)}}
	assert.Equal(t, PunchOut, att.LastPunch().Type)
	assert.True(t, att.IsFinalized())

	local := time.Date(2024, 1, 16, 1, 30, 0, 0, time.FixedZone("WIB", 7*3600))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), DateOf(local))
	assert.Equal(t, "emp-1|2024-01-15", DayKey("emp-1", local))
}

func TestStatus_IsSettable(t *testing.T) {
	assert.True(t, StatusLeave.IsSettable())
	assert.True(t, StatusHalfDay.IsValid())
	assert.False(t, StatusHalfDay.IsSettable())
	assert.False(t, Status("Sick").IsValid())
}
