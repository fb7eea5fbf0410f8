package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/pullwatch/internal/vcs"
)

func writeReposFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repos.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBasic(t *testing.T) {
	path := writeReposFile(t, `
[dotfiles]
dest = "/home/me/dotfiles"
source = "https://example.com/dotfiles.git"
type = "git"

[notes]
dest = "/home/me/notes"
source = "https://example.com/notes"
type = "hg"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Repos, 2)

	// Repos come back sorted by name so tab order is stable
	assert.Equal(t, "dotfiles", cfg.Repos[0].Name)
	assert.Equal(t, vcs.KindGit, cfg.Repos[0].Kind)
	assert.Equal(t, "notes", cfg.Repos[1].Name)
	assert.Equal(t, vcs.KindMercurial, cfg.Repos[1].Kind)
}

func TestLoadDefaultsTable(t *testing.T) {
	path := writeReposFile(t, `
[_DEFAULTS]
type = "git"

[alpha]
dest = "/clones/alpha"
source = "https://example.com/alpha.git"

[bravo]
dest = "/clones/bravo"
source = "https://example.com/bravo"
type = "hg"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Repos, 2)

	assert.Equal(t, vcs.KindGit, cfg.Repos[0].Kind, "alpha inherits the default type")
	assert.Equal(t, vcs.KindMercurial, cfg.Repos[1].Kind, "bravo overrides it")

	for _, d := range cfg.Repos {
		assert.NotEqual(t, "_defaults", d.Name, "the defaults table is not a repository")
	}
}

func TestLoadMissingRequiredKey(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "missing dest",
			content: "[alpha]\nsource = \"https://example.com/a\"\ntype = \"git\"\n",
			wantMsg: "dest",
		},
		{
			name:    "missing source",
			content: "[alpha]\ndest = \"/clones/a\"\ntype = \"git\"\n",
			wantMsg: "source",
		},
		{
			name:    "missing type with no defaults",
			content: "[alpha]\ndest = \"/clones/a\"\nsource = \"https://example.com/a\"\n",
			wantMsg: "type",
		},
		{
			name:    "unknown vcs type",
			content: "[alpha]\ndest = \"/clones/a\"\nsource = \"https://example.com/a\"\ntype = \"svn\"\n",
			wantMsg: "svn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeReposFile(t, tt.content)
			_, err := Load(path)
			require.Error(t, err)

			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			assert.Contains(t, cerr.Error(), tt.wantMsg)
			assert.Contains(t, cerr.Error(), "alpha")
		})
	}
}

func TestLoadZeroRepos(t *testing.T) {
	path := writeReposFile(t, "[_DEFAULTS]\ntype = \"git\"\n")

	_, err := Load(path)
	require.Error(t, err)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Error(), "no repositories configured")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)

	var cerr *Error
	assert.ErrorAs(t, err, &cerr)
}

func TestLoadExpandsHome(t *testing.T) {
	path := writeReposFile(t, `
[alpha]
dest = "~/clones/alpha"
source = "https://example.com/alpha.git"
type = "git"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	home, herr := os.UserHomeDir()
	require.NoError(t, herr)
	assert.Equal(t, filepath.Join(home, "clones", "alpha"), cfg.Repos[0].Dest)
}

func TestLoadDefaults(t *testing.T) {
	path := writeReposFile(t, `
[alpha]
dest = "/clones/alpha"
source = "https://example.com/alpha.git"
type = "git"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.UI.CollapseThreshold)
	assert.Equal(t, 10*time.Minute, cfg.Sync.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Sync.GracePeriod)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, filepath.Dir(path), filepath.Dir(cfg.Logging.Output), "log lands next to the repos file")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PULLWATCH_LOG_LEVEL", "debug")
	t.Setenv("PULLWATCH_COLLAPSE_THRESHOLD", "3")
	t.Setenv("PULLWATCH_SYNC_TIMEOUT", "90s")

	path := writeReposFile(t, `
[alpha]
dest = "/clones/alpha"
source = "https://example.com/alpha.git"
type = "git"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.UI.CollapseThreshold)
	assert.Equal(t, 90*time.Second, cfg.Sync.Timeout)
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_PW_DURATION", "not-a-duration")
	assert.Equal(t, time.Minute, getEnvDuration("TEST_PW_DURATION", time.Minute))

	t.Setenv("TEST_PW_DURATION", "30s")
	assert.Equal(t, 30*time.Second, getEnvDuration("TEST_PW_DURATION", time.Minute))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("WARN"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("bogus"))
}

func TestConfigErrorFormatting(t *testing.T) {
	err := &Error{Path: "/tmp/repos.toml", Msg: "no repositories configured"}
	assert.Contains(t, err.Error(), "/tmp/repos.toml")
	assert.Contains(t, err.Error(), "no repositories configured")
}
