package cursor_test

import (
	"errors"
	"testing"
	"time"

	"github.com/BradenHooton/orderdesk/pkg/cursor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Format(t *testing.T) {
	ts := time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)
	c := cursor.New(ts, "b7d3c2a4-0000-4000-8000-000000000001")

	assert.Equal(t, "2025-05-01T10:30:00Z_b7d3c2a4-0000-4000-8000-000000000001", c.Encode())
}

func TestEncode_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2025, 5, 1, 16, 0, 0, 0, loc)

	assert.Equal(t, "2025-05-01T10:30:00Z_a", cursor.New(ts, "a").Encode())
}

func TestDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		id   string
	}{
		{"uuid id", time.Date(2025, 4, 24, 8, 0, 0, 123456000, time.UTC), "0f8fad5b-d9cb-469f-a165-70867728950e"},
		{"id containing separator", time.Date(2025, 4, 24, 8, 0, 0, 0, time.UTC), "ORD_2025_0001"},
		{"nanosecond precision", time.Date(2025, 4, 24, 8, 0, 0, 999999999, time.UTC), "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := cursor.Decode(cursor.New(tt.ts, tt.id).Encode())
			require.NoError(t, err)
			assert.True(t, tt.ts.Equal(decoded.CreatedAt))
			assert.Equal(t, tt.id, decoded.ID)
		})
	}
}

func TestDecode_AcceptsMillisecondTimestamps(t *testing.T) {
	decoded, err := cursor.Decode("2025-05-24T10:15:30.250Z_abc")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 5, 24, 10, 15, 30, 250000000, time.UTC), decoded.CreatedAt)
	assert.Equal(t, "abc", decoded.ID)
}

func TestDecode_Malformed(t *testing.T) {
	tokens := []string{
		"",
		"no-separator",
		"2025-05-24T10:15:30Z_",
		"not-a-time_abc",
		"2025-05-24_abc",
		"_abc",
	}

	for _, token := range tokens {
		_, err := cursor.Decode(token)
		assert.Error(t, err, "token %q", token)
		assert.True(t, errors.Is(err, cursor.ErrMalformed), "token %q", token)
	}
}

func TestBefore(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Second)
	c := cursor.New(t2, "m")

	assert.True(t, c.Before(t1, "z"), "older timestamp follows")
	assert.True(t, c.Before(t2, "a"), "same timestamp, smaller id follows")
	assert.False(t, c.Before(t2, "m"), "cursor row itself is excluded")
	assert.False(t, c.Before(t2, "n"), "same timestamp, larger id precedes")
	assert.False(t, c.Before(t2.Add(time.Second), "a"), "newer timestamp precedes")
}
