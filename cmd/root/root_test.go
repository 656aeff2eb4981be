package root_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ebill-csv/cmd/root"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	root.Init()
	os.Exit(m.Run())
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "ebill-csv", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "e-bill")
	assert.Contains(t, root.Cmd.Long, "HTML e-mail")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	flags := root.Cmd.PersistentFlags()

	tests := []struct {
		name      string
		shorthand string
	}{
		{"input", "i"},
		{"output", "o"},
		{"validate", "v"},
		{"config", ""},
		{"log-level", ""},
		{"log-format", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := flags.Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestInit_Idempotent(t *testing.T) {
	assert.NotPanics(t, root.Init)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("log:\n  level: warn\nstatement:\n  account: Visa\n"), 0600))

	root.ConfigFile = configFile
	root.LogLevel = "debug"
	root.LogFormat = "json"
	t.Cleanup(func() {
		root.ConfigFile, root.LogLevel, root.LogFormat = "", "", ""
	})

	cfg, err := root.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "Visa", cfg.Statement.Account)
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root.LogFormat = "xml"
	t.Cleanup(func() { root.LogFormat = "" })

	_, err := root.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestExecute_InitializesContainer(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EBILL_LOG_LEVEL", "error")

	root.Cmd.SetArgs([]string{})
	require.NoError(t, root.Cmd.Execute())
	require.NotNil(t, root.GetContainer())
	assert.NotNil(t, root.GetLogger())
	assert.Equal(t, "error", root.GetContainer().GetConfig().Log.Level)
}

func TestExecute_MissingConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	root.Cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	t.Cleanup(func() { root.ConfigFile = "" })
	err := root.Cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}
