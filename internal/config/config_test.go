package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/tasklanes/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklanes/internal/storage"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

func TestInitAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DefaultDir)

	cfg, err := Init(dir, "Groceries")
	require.NoError(t, err)
	assert.FileExists(t, cfg.ConfigPath())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, loaded.Version)
	assert.Equal(t, "Groceries", loaded.Board.Name)
	assert.Equal(t, storage.KindFile, loaded.StorageKind())
	assert.Equal(t, DefaultKey, loaded.StorageKey())
	assert.Equal(t, task.StatusAvailable, loaded.DefaultStatus())
	assert.Equal(t, log.InfoLevel, loaded.LogLevel())
	assert.Equal(t, DefaultBodyLines, loaded.BodyLines())
	assert.Equal(t, filepath.Join(loaded.Dir(), DefaultLogFile), loaded.LogPath())
	assert.Empty(t, loaded.HTMLPath())
	assert.Equal(t, "Groceries", loaded.HTMLTitle())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"future version", "version: 9\nboard:\n  name: x\n"},
		{"zero version", "version: 0\nboard:\n  name: x\n"},
		{"missing name", "version: 2\nstorage:\n  backend: file\n  key: tasks\ndefaults:\n  status: Available\n"},
		{"unknown backend", "version: 2\nboard:\n  name: x\nstorage:\n  backend: s3\n  key: tasks\ndefaults:\n  status: Available\n"},
		{"bad key", "version: 2\nboard:\n  name: x\nstorage:\n  backend: file\n  key: ../up\ndefaults:\n  status: Available\n"},
		{"bad status", "version: 2\nboard:\n  name: x\nstorage:\n  backend: file\n  key: tasks\ndefaults:\n  status: Bogus\n"},
		{"bad level", "version: 2\nboard:\n  name: x\nstorage:\n  backend: file\n  key: tasks\ndefaults:\n  status: Available\nlog:\n  level: loud\n"},
		{"body lines", "version: 2\nboard:\n  name: x\nstorage:\n  backend: file\n  key: tasks\ndefaults:\n  status: Available\ntui:\n  body_lines: 9\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(tt.yaml), 0o600))
			_, err := Load(dir)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("version: [\n"), 0o600))
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestMigrateV1(t *testing.T) {
	dir := t.TempDir()
	v1 := "version: 1\nboard:\n  name: Old board\ndefaults:\n  status: doing\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(v1), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, DefaultBackend, cfg.Storage.Backend)
	assert.Equal(t, DefaultKey, cfg.Storage.Key)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFile, cfg.Log.File)
	assert.Equal(t, task.StatusInProgress, cfg.DefaultStatus(), "aliases accepted")

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	var saved Config
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, CurrentVersion, saved.Version, "migrated config written back")
}

func TestValidate(t *testing.T) {
	cfg := NewDefault("ok")
	require.NoError(t, cfg.Validate())

	cfg.Storage.Backend = string(storage.KindMemory)
	require.NoError(t, cfg.Validate())

	cfg.Board.Name = ""
	assert.True(t, errors.Is(cfg.Validate(), ErrInvalid))
}

func TestPathsResolveAgainstDir(t *testing.T) {
	cfg := NewDefault("b")
	cfg.SetDir("/boards/home")
	cfg.HTML.Path = "out/board.html"
	assert.Equal(t, filepath.Join("/boards/home", "out", "board.html"), cfg.HTMLPath())

	cfg.HTML.Path = "/var/www/board.html"
	assert.Equal(t, "/var/www/board.html", cfg.HTMLPath())

	cfg.Log.File = ""
	assert.Empty(t, cfg.LogPath())
}

func TestHTMLTitleFallbacks(t *testing.T) {
	cfg := NewDefault("")
	assert.Equal(t, DefaultHTMLTitle, cfg.HTMLTitle())
	cfg.Board.Name = "Home"
	assert.Equal(t, "Home", cfg.HTMLTitle())
	cfg.HTML.Title = "Family chores"
	assert.Equal(t, "Family chores", cfg.HTMLTitle())
}

func TestFindDir(t *testing.T) {
	root := t.TempDir()
	boardDir := filepath.Join(root, DefaultDir)
	_, err := Init(boardDir, "found")
	require.NoError(t, err)

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	got, err := FindDir(nested)
	require.NoError(t, err)
	want, _ := filepath.EvalSymlinks(boardDir)
	gotReal, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, want, gotReal)

	got, err = FindDir(boardDir)
	require.NoError(t, err)
	gotReal, _ = filepath.EvalSymlinks(got)
	assert.Equal(t, want, gotReal, "inside the board directory itself")
}

func TestFindDirNotFound(t *testing.T) {
	_, err := FindDir(t.TempDir())
	if err == nil {
		t.Skip("a board exists above the temp directory")
	}
	assert.True(t, clierr.HasCode(err, clierr.BoardNotFound))
}
