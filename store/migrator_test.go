package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSchemaVersionOfMigrateScript(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"migration/sqlite/0.2/00__parse_log_timezone.sql", "0.2.1", false},
		{"migration/postgres/0.3/04__index.sql", "0.3.5", false},
		{"migration/sqlite/0.2/index.sql", "", true},
		{"migration/sqlite/0.2/xx__index.sql", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := getSchemaVersionOfMigrateScript(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShouldApplyMigration(t *testing.T) {
	assert.True(t, shouldApplyMigration("0.2.1", "0.1.3", "0.2.1"))
	assert.True(t, shouldApplyMigration("0.2.1", "", "0.2.1"))
	assert.False(t, shouldApplyMigration("0.2.1", "0.2.1", "0.2.1"))
	assert.False(t, shouldApplyMigration("0.3.1", "0.2.1", "0.2.1"))
}

func TestSplitSQL(t *testing.T) {
	script := `-- parse_log
CREATE TABLE parse_log (
  id SERIAL PRIMARY KEY, -- surrogate key
  title TEXT NOT NULL DEFAULT 'a;b'
);
/* index; with a semicolon */
CREATE INDEX idx ON parse_log (title);
INSERT INTO parse_log (title) VALUES ('it''s; fine')`

	got := splitSQL(script)
	require.Len(t, got, 3)
	assert.Contains(t, got[0], "DEFAULT 'a;b'")
	assert.NotContains(t, got[0], "surrogate")
	assert.Equal(t, "CREATE INDEX idx ON parse_log (title);", got[1])
	assert.Equal(t, "INSERT INTO parse_log (title) VALUES ('it''s; fine')", got[2])
}
