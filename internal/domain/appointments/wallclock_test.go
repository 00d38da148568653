package appointments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_CorrectsForOffset(t *testing.T) {
	utcMinus3 := time.FixedZone("UTC-3", -3*60*60)

	got, err := Compose("2024-03-15", "14:30", utcMinus3)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestCompose_DecomposeRoundTrip(t *testing.T) {
	zones := []*time.Location{
		time.UTC,
		time.FixedZone("UTC-3", -3*60*60),
		time.FixedZone("UTC+5:30", 5*60*60+30*60),
		time.FixedZone("UTC-11", -11*60*60),
	}
	for _, loc := range zones {
		t.Run(loc.String(), func(t *testing.T) {
			instant, err := Compose("2024-03-15", "14:30", loc)
			require.NoError(t, err)

			// lo que devolvería la API: el instante serializado y vuelto a leer
			back := ParseInstant(instant.Format(time.RFC3339))
			require.True(t, back.Valid)

			date, clock := Decompose(back.Time, loc)
			assert.Equal(t, "2024-03-15", date)
			assert.Equal(t, "14:30", clock)
		})
	}
}

func TestCompose_CrossesUTCDay(t *testing.T) {
	utcMinus3 := time.FixedZone("UTC-3", -3*60*60)

	got, err := Compose("2024-03-15", "23:30", utcMinus3)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 16, 2, 30, 0, 0, time.UTC), got)

	date, clock := Decompose(got, utcMinus3)
	assert.Equal(t, "2024-03-15", date)
	assert.Equal(t, "23:30", clock)
}

func TestCompose_RejectsMalformed(t *testing.T) {
	_, err := Compose("15/03/2024", "14:30", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = Compose("2024-03-15", "2pm", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestParseInstant(t *testing.T) {
	cases := map[string]struct {
		in    string
		valid bool
		want  time.Time
	}{
		"rfc3339 utc":    {"2024-03-15T17:30:00Z", true, time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC)},
		"rfc3339 offset": {"2024-03-15T14:30:00-03:00", true, time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC)},
		"millis":         {"2024-03-15T17:30:00.000Z", true, time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC)},
		"naive as utc":   {"2024-03-15T17:30:00", true, time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC)},
		"empty":          {"", false, time.Time{}},
		"garbage":        {"not a date", false, time.Time{}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := ParseInstant(tc.in)
			assert.Equal(t, tc.valid, got.Valid)
			if tc.valid {
				assert.True(t, tc.want.Equal(got.Time), "got %s", got.Time)
			}
		})
	}
}
