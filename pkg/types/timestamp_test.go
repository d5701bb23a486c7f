package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)

	tests := []struct {
		name    string
		in      string
		loc     *time.Location
		want    time.Time
		wantErr bool
	}{
		{
			name: "rfc3339 utc",
			in:   "2025-01-01T10:00:00Z",
			want: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "rfc3339 with offset ignores location",
			in:   "2025-01-01T10:00:00+05:30",
			loc:  time.UTC,
			want: time.Date(2025, 1, 1, 4, 30, 0, 0, time.UTC),
		},
		{
			name: "naive uses location",
			in:   "2025-01-01T10:00:00",
			loc:  kolkata,
			want: time.Date(2025, 1, 1, 10, 0, 0, 0, kolkata),
		},
		{
			name: "naive without seconds",
			in:   "2025-01-01T10:00",
			want: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "space separator with fraction",
			in:   "2025-01-01 10:00:00.5",
			want: time.Date(2025, 1, 1, 10, 0, 0, 500000000, time.UTC),
		},
		{name: "empty", in: "  ", wantErr: true},
		{name: "garbage", in: "tomorrow", wantErr: true},
		{name: "date only", in: "2025-01-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in, tt.loc)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimestamp)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}
