// Package config loads the pullwatch configuration: the repos.toml file
// mapping repository names to their local clone and upstream source, plus
// environment overrides for the ambient knobs.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tildaslashalef/pullwatch/internal/vcs"
)

// defaultsTable is the reserved repos.toml section supplying per-repo
// defaults, most importantly the vcs type
const defaultsTable = "_DEFAULTS"

// Error is a configuration-time failure. It is fatal and pre-run: no sync
// starts after one, so it is never mixed into per-repository failures.
type Error struct {
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := "configuration error"
	if e.Path != "" {
		s += " (" + e.Path + ")"
	}
	s += ": " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Config is the complete application configuration
type Config struct {
	Repos   []vcs.Descriptor
	Logging LoggingConfig
	UI      UIConfig
	Sync    SyncConfig
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	Output string // file path, stderr, or discard
}

// UIConfig holds presentation knobs
type UIConfig struct {
	// CollapseThreshold is the hunk count above which a file's diff
	// section starts collapsed
	CollapseThreshold int
}

// SyncConfig bounds the external VCS processes
type SyncConfig struct {
	// Timeout bounds one repository's sync job; zero disables the bound
	Timeout time.Duration
	// GracePeriod is how long a cancelled subprocess may linger before
	// being killed
	GracePeriod time.Duration
	// CloneMissing controls whether a missing destination is cloned from
	// its source; when false it is reported as a failed repository
	CloneMissing bool
}

// DefaultPath returns the default repos file location
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "repos.toml"
	}
	return filepath.Join(home, ".config", "pullwatch", "repos.toml")
}

// Load reads the repos file at path and applies environment overrides.
// Every validation problem is reported as a *Error before any sync starts.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: filepath.Join(filepath.Dir(path), "pullwatch.log"),
		},
		UI:   UIConfig{CollapseThreshold: 10},
		Sync: SyncConfig{Timeout: 10 * time.Minute, GracePeriod: 5 * time.Second, CloneMissing: true},
	}
	cfg.applyEnv()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, &Error{Path: path, Msg: "reading repos file", Err: err}
	}

	defaults := map[string]any{}
	if d := v.GetStringMap(defaultsTable); d != nil {
		defaults = d
	}

	var names []string
	for key := range v.AllSettings() {
		if strings.EqualFold(key, strings.ToLower(defaultsTable)) {
			continue
		}
		names = append(names, key)
	}
	// TOML tables arrive as an unordered map; sorted names keep the tab
	// order stable run to run
	sort.Strings(names)

	for _, name := range names {
		entry := v.GetStringMap(name)
		if entry == nil {
			return nil, &Error{Path: path, Msg: fmt.Sprintf("repository %q is not a table", name)}
		}
		desc, err := buildDescriptor(name, entry, defaults)
		if err != nil {
			return nil, &Error{Path: path, Msg: fmt.Sprintf("repository %q", name), Err: err}
		}
		cfg.Repos = append(cfg.Repos, desc)
	}

	if len(cfg.Repos) == 0 {
		return nil, &Error{Path: path, Msg: "no repositories configured"}
	}

	return cfg, nil
}

// buildDescriptor merges the _DEFAULTS table under one repo entry and
// validates the result
func buildDescriptor(name string, entry, defaults map[string]any) (vcs.Descriptor, error) {
	merged := make(map[string]any, len(defaults)+len(entry))
	for k, val := range defaults {
		merged[strings.ToLower(k)] = val
	}
	for k, val := range entry {
		merged[strings.ToLower(k)] = val
	}

	dest := stringValue(merged["dest"])
	source := stringValue(merged["source"])
	typ := stringValue(merged["type"])

	if dest == "" {
		return vcs.Descriptor{}, fmt.Errorf("missing required key %q", "dest")
	}
	if source == "" {
		return vcs.Descriptor{}, fmt.Errorf("missing required key %q", "source")
	}
	if typ == "" {
		return vcs.Descriptor{}, fmt.Errorf("missing required key %q (set it here or in %s)", "type", defaultsTable)
	}
	kind, err := vcs.ParseKind(typ)
	if err != nil {
		return vcs.Descriptor{}, err
	}

	return vcs.Descriptor{
		Name:   name,
		Dest:   ExpandHome(dest),
		Source: ExpandHome(source),
		Kind:   kind,
	}, nil
}

// ExpandHome resolves a leading ~ in a configured path
func ExpandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(p, "~"), "/"))
		}
	}
	return p
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// ParseLogLevel converts a config string to a slog level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
