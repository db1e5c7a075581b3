package utils

import (
	"testing"
	"time"

	apperrors "github.com/Kosench/shortlink-analytics/internal/errors"
)

func TestParseExpiry(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    *time.Time
		wantErr bool
	}{
		{
			name: "empty means no expiry",
			raw:  "",
		},
		{
			name: "only spaces",
			raw:  "   ",
		},
		{
			name: "RFC 3339 with zone",
			raw:  "2025-03-01T10:00:00+02:00",
			want: ptrTime(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)),
		},
		{
			name: "local date time",
			raw:  "2025-03-01T10:00:00",
			want: ptrTime(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)),
		},
		{
			name:    "garbage",
			raw:     "tomorrow",
			wantErr: true,
		},
		{
			name:    "date only",
			raw:     "2025-03-01",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExpiry(tt.raw)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseExpiry(%q) expected error, got nil", tt.raw)
				}
				if !apperrors.IsValidationError(err) {
					t.Errorf("ParseExpiry(%q) expected validation error, got %T", tt.raw, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseExpiry(%q) unexpected error = %v", tt.raw, err)
			}

			if tt.want == nil {
				if got != nil {
					t.Errorf("ParseExpiry(%q) = %v, want nil", tt.raw, got)
				}
				return
			}

			if got == nil || !got.Equal(*tt.want) {
				t.Errorf("ParseExpiry(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
