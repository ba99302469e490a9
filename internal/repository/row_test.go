package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_String(t *testing.T) {
	row := Row{"s": "text", "b": []byte("bytes"), "n": 1}

	s, err := row.String("s")
	require.NoError(t, err)
	assert.Equal(t, "text", s)

	s, err = row.String("b")
	require.NoError(t, err)
	assert.Equal(t, "bytes", s)

	_, err = row.String("n")
	assert.ErrorIs(t, err, ErrMalformedRow)
	_, err = row.String("missing")
	assert.ErrorIs(t, err, ErrMalformedRow)
}

func TestRow_Time(t *testing.T) {
	want := time.Date(2025, 7, 19, 12, 30, 45, 0, time.UTC)
	jst := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		name  string
		value any
		want  time.Time
	}{
		{name: "time.Time", value: want.In(jst), want: want},
		{name: "RFC3339", value: "2025-07-19T12:30:45Z", want: want},
		{name: "RFC3339 with offset", value: "2025-07-19T21:30:45+09:00", want: want},
		{name: "sqlite CURRENT_TIMESTAMP", value: "2025-07-19 12:30:45", want: want},
		{name: "sqlite millis", value: []byte("2025-07-19 12:30:45.250"), want: want.Add(250 * time.Millisecond)},
		{name: "postgrest timestamptz", value: "2025-07-19T12:30:45.5+00:00", want: want.Add(500 * time.Millisecond)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Row{"created": tt.value}.Time("created")
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	_, err := Row{"created": "yesterday"}.Time("created")
	assert.ErrorIs(t, err, ErrMalformedRow)
	_, err = Row{"created": 12}.Time("created")
	assert.ErrorIs(t, err, ErrMalformedRow)
}
