package test

import (
	"context"
	"os"
	"testing"

	"github.com/taskvine/taskvine/internal/profile"
	"github.com/taskvine/taskvine/store"
	"github.com/taskvine/taskvine/store/db"
)

func getDriverFromEnv() string {
	driver := os.Getenv("TASKVINE_TEST_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	return driver
}

// NewTestingStore creates a store backed by a real database: a fresh
// sqlite file per test by default, or postgres when
// TASKVINE_TEST_DRIVER=postgres and POSTGRES_TEST_DSN point at one.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	driver := getDriverFromEnv()

	testProfile := &profile.Profile{
		Mode:   "dev",
		Driver: driver,
		Data:   t.TempDir(),
	}
	if driver == "postgres" {
		dsn := os.Getenv("POSTGRES_TEST_DSN")
		if dsn == "" {
			t.Skip("postgres tests require POSTGRES_TEST_DSN")
		}
		testProfile.DSN = dsn
	}
	if err := testProfile.Validate(); err != nil {
		t.Fatalf("failed to validate test profile: %v", err)
	}

	dbDriver, err := db.NewDBDriver(testProfile)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}
	ts := store.New(dbDriver, testProfile)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if err := ts.Close(); err != nil {
			t.Logf("failed to close test store: %v", err)
		}
	})
	return ts
}

func createTestingUser(ctx context.Context, t *testing.T, ts *store.Store, username string, tz *string) *store.User {
	user, err := ts.CreateUser(ctx, &store.User{
		Username: username,
		Timezone: tz,
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}
