package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8081", c.Server.Addr)
	assert.Equal(t, []string{"*"}, c.Server.AllowOrigins)
	assert.Equal(t, DriverSQLite, c.Storage.Driver)
	assert.Equal(t, "data/campus.db", c.Storage.Path)
	assert.True(t, c.Storage.Seed)
	assert.False(t, c.Listing.HideInaccessible)
	assert.Len(t, c.Server.SessionSecret, 64)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	body := `{
  "server": {"addr": ":9000", "session_secret": "from-file", "admin_emails": ["ops@example.edu"]},
  "storage": {"driver": "mongo", "mongo_database": "campus_test"},
  "listing": {"hide_inaccessible": true}
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0644))
	t.Setenv("CAMPUS_SERVER_ADDR", ":9100")
	t.Setenv("CAMPUS_LOG_LEVEL", "debug")

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9100", c.Server.Addr)
	assert.Equal(t, "from-file", c.Server.SessionSecret)
	assert.Equal(t, []string{"ops@example.edu"}, c.Server.AdminEmails)
	assert.Equal(t, DriverMongo, c.Storage.Driver)
	assert.Equal(t, "campus_test", c.Storage.MongoDatabase)
	assert.Equal(t, "mongodb://127.0.0.1:27017", c.Storage.MongoURI)
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Listing.HideInaccessible)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("CAMPUS_STORAGE_DRIVER", "postgres")
	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "unknown storage.driver")
}
