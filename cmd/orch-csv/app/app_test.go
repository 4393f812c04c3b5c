package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bricesodini/orch-csv/pkg/errors"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"default", Config{}, "info"},
		{"verbose", Config{Verbose: true}, "debug"},
		{"quiet", Config{Quiet: true}, "warn"},
		{"both prefers quiet", Config{Verbose: true, Quiet: true}, "warn"},
		{"explicit wins over verbose", Config{Verbose: true, LogLevel: "error"}, "error"},
		{"invalid falls back to info", Config{LogLevel: "loud"}, "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineLogLevel(&tt.config))
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"config error", errors.NewConfigError("extras", "bad shape", nil), 2},
		{"validation error", errors.NewValidationError("id-key", "", "must not be empty"), 2},
		{"io error", errors.NewIOError("read", "/x", errors.New("boom")), 1},
		{"plain error", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestResolveOutputDirectory(t *testing.T) {
	t.Run("out", func(t *testing.T) {
		dir, err := resolveOutputDirectory(&syncFlags{out: "/tmp/contacts"})
		require.NoError(t, err)
		assert.Equal(t, "/tmp/contacts", dir)
	})

	t.Run("vault plus subpath", func(t *testing.T) {
		dir, err := resolveOutputDirectory(&syncFlags{vault: "/vaults/main", outSubpath: "Contacts"})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/vaults/main", "Contacts"), dir)
	})

	t.Run("vault without subpath is not enough", func(t *testing.T) {
		_, err := resolveOutputDirectory(&syncFlags{vault: "/vaults/main"})
		require.Error(t, err)
		var cerr *errors.ConfigError
		assert.ErrorAs(t, err, &cerr)
	})

	t.Run("nothing given", func(t *testing.T) {
		_, err := resolveOutputDirectory(&syncFlags{})
		require.Error(t, err)
	})

	t.Run("missing icloud vault", func(t *testing.T) {
		_, err := resolveOutputDirectory(&syncFlags{vaultName: "no-such-vault-anywhere"})
		require.Error(t, err)
		var cerr *errors.ConfigError
		assert.ErrorAs(t, err, &cerr)
	})
}

func TestExpandUser(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "exports", "list.csv"),
		expandUser("~"+string(filepath.Separator)+filepath.Join("exports", "list.csv")))
	assert.Equal(t, "/abs/list.csv", expandUser("/abs/list.csv"))
	assert.Equal(t, "relative.csv", expandUser("relative.csv"))
}

func TestLoadMappingDefaults(t *testing.T) {
	cfg, err := loadMapping("")
	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.CSVDelimiter)
	assert.True(t, cfg.Extras.All)
}

func TestLoadMappingMissingFile(t *testing.T) {
	_, err := loadMapping(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
