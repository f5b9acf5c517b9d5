package test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/hrygo/yotei/internal/profile"
	"github.com/hrygo/yotei/internal/version"
	"github.com/hrygo/yotei/store"
	"github.com/hrygo/yotei/store/db"
)

// NewTestingStore opens a migrated store. The driver comes from the DRIVER
// environment variable (sqlite by default); postgres additionally needs
// POSTGRES_TEST_DSN.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()
	p := getTestingProfile(t)
	dbDriver, err := db.NewDBDriver(p)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	s := store.New(dbDriver, p)
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func getTestingProfile(t *testing.T) *profile.Profile {
	t.Helper()
	mode := "prod"
	driver := getDriverFromEnv()

	p := &profile.Profile{
		Mode:    mode,
		Data:    t.TempDir(),
		Driver:  driver,
		Version: version.GetCurrentVersion(mode),
	}
	switch driver {
	case "sqlite":
		p.DSN = fmt.Sprintf("%s/yotei_%s.db", p.Data, mode)
	case "postgres":
		p.DSN = getPostgresDSN(t)
	default:
		t.Fatalf("unsupported test driver %q", driver)
	}
	return p
}

func getDriverFromEnv() string {
	if driver := os.Getenv("DRIVER"); driver != "" {
		return driver
	}
	return "sqlite"
}

func getPostgresDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN is not set")
	}
	return dsn
}
