package config

import (
	"errors"
	"path/filepath"
)

// ErrConfigDirectory is matched by DirectoryDetectionError.
var ErrConfigDirectory = errors.New("failed to detect Claude Code config directory")

// DirectoryDetectionError is returned when none of the variables used to
// locate the Claude Code config directory is set.
type DirectoryDetectionError struct {
	Tried []string
}

func (e *DirectoryDetectionError) Error() string {
	return ErrConfigDirectory.Error()
}

// Is reports whether target is ErrConfigDirectory.
func (e *DirectoryDetectionError) Is(target error) bool {
	return target == ErrConfigDirectory
}

// claudeDirCandidates lists, in priority order, an environment variable and
// the path elements joined to its value.
var claudeDirCandidates = []struct {
	env   string
	parts []string
}{
	{"CLAUDE_CONFIG_DIR", nil},
	{"XDG_CONFIG_HOME", []string{"claude"}},
	{"HOME", []string{".config", "claude"}},
	{"HOME", []string{".claude"}},
}

// ClaudeDir returns the Claude Code configuration directory.
func ClaudeDir(env Env) (string, error) {
	tried := make([]string, 0, len(claudeDirCandidates))
	for _, c := range claudeDirCandidates {
		if v := getenv(env, c.env); v != "" {
			return filepath.Join(append([]string{v}, c.parts...)...), nil
		}
		tried = append(tried, c.env)
	}
	return "", &DirectoryDetectionError{Tried: tried}
}
