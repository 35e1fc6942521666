package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSpanUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeSpan
		wantErr bool
	}{
		{name: "string", input: `"19:30:00"`, want: TimeSpan{Hours: 19, Minutes: 30}},
		{name: "string with fraction", input: `"07:05:09.0000000"`, want: TimeSpan{Hours: 7, Minutes: 5, Seconds: 9}},
		{name: "object", input: `{"hours":20,"minutes":15,"seconds":5}`, want: TimeSpan{Hours: 20, Minutes: 15, Seconds: 5}},
		{name: "null", input: `null`, want: TimeSpan{}},
		{name: "garbage", input: `"soon"`, wantErr: true},
		{name: "out of range", input: `"25:00:00"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts TimeSpan
			err := json.Unmarshal([]byte(tt.input), &ts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ts)
		})
	}
}

func TestTimeSpanMarshal(t *testing.T) {
	b, err := json.Marshal(struct {
		Start TimeSpan `json:"startTime"`
	}{Start: TimeSpan{Hours: 9, Minutes: 5}})

	require.NoError(t, err)
	assert.JSONEq(t, `{"startTime":"09:05:00"}`, string(b))
}

func TestPerformanceStartsAt(t *testing.T) {
	p := Performance{
		PerformanceDate: "2025-03-14T00:00:00",
		StartTime:       TimeSpan{Hours: 18, Minutes: 45},
	}

	got, err := p.StartsAt(time.UTC)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 18, 45, 0, 0, time.UTC), got)
}

func TestPerformanceBookable(t *testing.T) {
	assert.True(t, Performance{Active: true}.Bookable())
	assert.False(t, Performance{Active: true, SoldOut: true}.Bookable())
	assert.False(t, Performance{Active: true, Cancel: true}.Bookable())
	assert.True(t, Performance{}.Bookable(), "inactive but open performances stay bookable")
	assert.False(t, Performance{Cancel: true, SoldOut: true}.Bookable())
}
