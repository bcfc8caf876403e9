package sqlite

import (
	"testing"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{
			dsn:  "taskvine_dev.db",
			want: "taskvine_dev.db?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)",
		},
		{
			dsn:  "file:taskvine.db?mode=rwc",
			want: "file:taskvine.db?mode=rwc&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)",
		},
		{
			dsn:  "file::memory:?cache=shared",
			want: "file::memory:?cache=shared&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)",
		},
	}

	for _, tt := range tests {
		if got := buildDSN(tt.dsn); got != tt.want {
			t.Errorf("buildDSN(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}
