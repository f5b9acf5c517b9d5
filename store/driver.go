package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// ParseLog model related methods.
	CreateParseLog(ctx context.Context, create *ParseLog) (*ParseLog, error)
	ListParseLogs(ctx context.Context, find *FindParseLog) ([]*ParseLog, error)
	DeleteParseLogs(ctx context.Context, delete *DeleteParseLog) (int64, error)

	// SystemSetting model related methods.
	UpsertSystemSetting(ctx context.Context, upsert *SystemSetting) (*SystemSetting, error)
	ListSystemSettings(ctx context.Context, find *FindSystemSetting) ([]*SystemSetting, error)
}
