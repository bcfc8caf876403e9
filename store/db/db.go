package db

import (
	"github.com/pkg/errors"

	"github.com/taskvine/taskvine/internal/profile"
	"github.com/taskvine/taskvine/store"
	"github.com/taskvine/taskvine/store/db/postgres"
	"github.com/taskvine/taskvine/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// SQLite is the default for single-user installs; PostgreSQL is supported
// for hosted deployments. No other engine is supported.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'sqlite' and 'postgres' are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
