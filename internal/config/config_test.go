package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"

	util "github.com/bietkhonhungvandi212/bufmgr/internal/utils"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bufmgr.ini")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("EmptyPath", func(t *testing.T) {
		opts, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, util.DefaultOptions(), opts)
	})

	t.Run("AllKeys", func(t *testing.T) {
		path := writeConfig(t, `
[storage]
path = /tmp/data.db
initial_pages = 64
sync_writes = true

[buffer]
pool_size = 32

[log]
level = debug
path = /tmp/bufmgr.log
`)
		opts, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, util.Options{
			Path:           "/tmp/data.db",
			BufferPoolSize: 32,
			InitialPages:   64,
			SyncWrites:     true,
			LogLevel:       "debug",
			LogPath:        "/tmp/bufmgr.log",
		}, opts)
	})

	t.Run("MissingKeysKeepDefaults", func(t *testing.T) {
		path := writeConfig(t, "[buffer]\npool_size = 8\n")
		opts, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 8, opts.BufferPoolSize)
		assert.Equal(t, util.DefaultOptions().InitialPages, opts.InitialPages)
		assert.Equal(t, util.DefaultOptions().Path, opts.Path)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
		assert.Error(t, err)
	})
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectedErr error
	}{
		{"ZeroPoolSize", "[buffer]\npool_size = 0\n", util.ErrInvalidPoolSize},
		{"NegativeInitialPages", "[storage]\ninitial_pages = -3\n", util.ErrInvalidInitialPages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ini.Load([]byte(tt.body))
			require.NoError(t, err)
			_, err = Parse(raw)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}
