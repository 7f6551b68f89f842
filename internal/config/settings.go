package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Settings holds ccsession's own configuration.
type Settings struct {
	Source SourceSettings `toml:"source"`
	Resume ResumeSettings `toml:"resume"`
}

// SourceSettings controls which sessions are listed.
type SourceSettings struct {
	All          bool     `toml:"all"`           // List sessions of every project
	ProjectPaths []string `toml:"project_paths"` // Projects to list (empty = cwd)
}

// ResumeSettings controls how a session is resumed.
type ResumeSettings struct {
	AgentCommand         string   `toml:"agent_command"`
	AgentArgs            []string `toml:"agent_args"` // %{sessionId} is replaced with the session id
	TerminalOpenModifier string   `toml:"terminal_open_modifier"`
	MaxSelections        int      `toml:"max_selections"`
}

// DefaultSettings returns settings with every default set.
func DefaultSettings() Settings {
	return Settings{
		Source: SourceSettings{
			ProjectPaths: []string{},
		},
		Resume: ResumeSettings{
			AgentCommand:  "claude",
			AgentArgs:     []string{"--resume", "%{sessionId}"},
			MaxSelections: 1,
		},
	}
}

// SettingsPath returns the path of the settings file.
func SettingsPath(env Env) (string, error) {
	if p := getenv(env, "CCSESSION_CONFIG"); p != "" {
		return p, nil
	}
	if xdg := getenv(env, "XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ccsession", "config.toml"), nil
	}
	if home := getenv(env, "HOME"); home != "" {
		return filepath.Join(home, ".config", "ccsession", "config.toml"), nil
	}
	return "", errors.New("cannot locate settings file: HOME is not set")
}

// LoadSettings reads the settings file at path. Missing keys keep their
// defaults and a missing file yields DefaultSettings.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	md, err := toml.DecodeFile(path, &s)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("load settings %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Settings{}, fmt.Errorf("load settings %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if s.Resume.MaxSelections < 1 {
		s.Resume.MaxSelections = 1
	}
	return s, nil
}
