package timezone

import (
	"testing"
	"time"
)

func TestParseTimezone(t *testing.T) {
	tests := []struct {
		name    string
		tz      string
		wantErr bool
	}{
		{
			name:    "UTC",
			tz:      "UTC",
			wantErr: false,
		},
		{
			name:    "empty string defaults to UTC",
			tz:      "",
			wantErr: false,
		},
		{
			name:    "Asia/Shanghai",
			tz:      "Asia/Shanghai",
			wantErr: false,
		},
		{
			name:    "America/New_York",
			tz:      "America/New_York",
			wantErr: false,
		},
		{
			name:    "invalid timezone",
			tz:      "Invalid/Timezone",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseTimezone(tt.tz)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimezone() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if loc == nil {
				t.Error("ParseTimezone() location should never be nil")
			}
			if tt.wantErr && loc != UTC {
				t.Error("ParseTimezone() should fall back to UTC on error")
			}
		})
	}
}

func TestIsValidTimezone(t *testing.T) {
	tests := []struct {
		name string
		tz   string
		want bool
	}{
		{"UTC", "UTC", true},
		{"empty", "", true},
		{"Asia/Shanghai", "Asia/Shanghai", true},
		{"America/New_York", "America/New_York", true},
		{"invalid", "Invalid/Timezone", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidTimezone(tt.tz); got != tt.want {
				t.Errorf("IsValidTimezone() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStartOfDay(t *testing.T) {
	shanghai := MustParseTimezone("Asia/Shanghai")

	// 2024-06-15 18:00 UTC is already 2024-06-16 02:00 in Shanghai.
	instant := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	got := StartOfDay(instant, shanghai)

	want := time.Date(2024, 6, 16, 0, 0, 0, 0, shanghai)
	if !got.Equal(want) {
		t.Errorf("StartOfDay() = %v, want %v", got, want)
	}
}

func TestStartOfDay_NilLocationDefaultsToUTC(t *testing.T) {
	instant := time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)
	got := StartOfDay(instant, nil)

	want := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfDay() = %v, want %v", got, want)
	}
}
