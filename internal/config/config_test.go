package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noEnv keeps tests independent of the developer's environment.
var noEnv = map[string]string{}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "tblcfg", cfg.App.Name)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, Colors{HeaderFG: "12", HeaderBG: "236", Key: "14", Value: "248", Separator: "240"}, cfg.Display.Colors)
	assert.Equal(t, []string{"messages", "records", "shifts", "staff"}, cfg.TableIDs())

	staff := cfg.Tables["staff"]
	require.NotEmpty(t, staff.Columns)
	assert.Equal(t, "name", staff.Columns[0].ID)
	assert.True(t, staff.Columns[0].Fixed)

	notes := cfg.Tables["shifts"].Columns[6]
	require.NotNil(t, notes.DefaultVisible)
	assert.False(t, *notes.DefaultVisible)
}

func TestDefaultConfigYAMLIsACopy(t *testing.T) {
	a := DefaultConfigYAML()
	a[0] = '#'
	assert.NotEqual(t, a[0], DefaultConfigYAML()[0])
}

func TestLoadOverlaysUserFile(t *testing.T) {
	path := writeFile(t, `
storage:
  driver: SQLite
  path: /tmp/tblcfg-test.db
display:
  max_column_width: 12
tables:
  payroll:
    title: Payroll
    columns:
      - id: employee
      - id: amount
        default_visible: false
`)
	cfg, err := Loader{Environment: noEnv}.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/tblcfg-test.db", cfg.Storage.Path)
	assert.Equal(t, 12, cfg.Display.MaxColumnWidth)
	assert.True(t, cfg.Display.RowNumbers, "fields absent from the user file keep their defaults")
	assert.Contains(t, cfg.Tables, "staff")
	assert.Contains(t, cfg.Tables, "payroll")
	assert.Equal(t, "tblcfg", cfg.App.Name)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	cfg, err := Loader{Environment: map[string]string{
		"TBLCFG_STORAGE_DRIVER": "memory",
		"TBLCFG_NO_COLOR":       "true",
		"TBLCFG_DEBUG":          "1",
	}}.Load("")
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.True(t, cfg.Display.NoColor)
	assert.True(t, cfg.App.Debug)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		missing bool
	}{
		{name: "missing file", missing: true},
		{name: "bad yaml", content: "storage: [unterminated"},
		{name: "unknown driver", content: "storage:\n  driver: redis\n"},
		{name: "duplicate column", content: "tables:\n  t:\n    columns:\n      - id: a\n      - id: a\n"},
		{name: "empty column id", content: "tables:\n  t:\n    columns:\n      - label: A\n"},
		{name: "bad env value", content: "app:\n  name: x\n", env: map[string]string{"TBLCFG_DEBUG": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absent.yaml")
			if !tt.missing {
				path = writeFile(t, tt.content)
			}
			environment := tt.env
			if environment == nil {
				environment = noEnv
			}
			_, err := Loader{Environment: environment}.Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoaderCustomDefaults(t *testing.T) {
	cfg, err := Loader{
		Defaults:    []byte("storage:\n  driver: memory\ntables:\n  only:\n    columns:\n      - id: a\n"),
		Environment: noEnv,
	}.Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, cfg.TableIDs())
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "/explicit.yaml", ResolveConfigPath("/explicit.yaml"))

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	assert.Equal(t, "", ResolveConfigPath(""))

	path := filepath.Join(xdg, AppName, "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("app: {}\n"), 0o600))
	assert.Equal(t, path, ResolveConfigPath(""))
}

func TestStoragePath(t *testing.T) {
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)

	assert.Equal(t, "/x.db", Storage{Driver: "sqlite", Path: "/x.db"}.StoragePath())
	assert.Equal(t, filepath.Join(data, AppName, "settings.db"), Storage{Driver: "sqlite"}.StoragePath())
	assert.Equal(t, filepath.Join(data, AppName, "settings.json"), Storage{Driver: "file"}.StoragePath())
	assert.Equal(t, "", Storage{Driver: "memory"}.StoragePath())

	opts := Storage{Driver: "memory", MaxBytes: 64}.PersistOptions()
	assert.Equal(t, "memory", opts.Driver)
	assert.Equal(t, 64, opts.MaxBytes)
}
