package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[telegram]
token = "123:abc"

[admins]
ids = [100, 200]

[storage]
type = "file"
dir = "data"

[reminders]
hour = 10

[logs]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, []int64{100, 200}, cfg.Admins.IDs)
	assert.Equal(t, StorageFile, cfg.Storage.Type)
	assert.Equal(t, 10, cfg.Reminders.Hour)
	assert.Equal(t, 30, cfg.Telegram.PollTimeout, "default poll timeout")
	assert.Equal(t, ":9091", cfg.Metrics.Address, "default metrics address")
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing token",
			body: "[storage]\ntype = \"file\"\ndir = \"data\"\n",
		},
		{
			name: "unknown storage type",
			body: "[telegram]\ntoken = \"t\"\n[storage]\ntype = \"redis\"\n",
		},
		{
			name: "postgres without dbname",
			body: "[telegram]\ntoken = \"t\"\n[storage]\ntype = \"postgres\"\n",
		},
		{
			name: "reminder hour out of range",
			body: "[telegram]\ntoken = \"t\"\n[reminders]\nhour = 24\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestIsAdmin(t *testing.T) {
	admins := Admins{IDs: []int64{100, 200}}
	assert.True(t, admins.IsAdmin(100))
	assert.False(t, admins.IsAdmin(300))
}

func TestDSN(t *testing.T) {
	d := Database{Host: "db", Port: 5432, User: "bot", Password: "secret", DBName: "lessons", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=bot password=secret dbname=lessons sslmode=disable", d.DSN())
}
