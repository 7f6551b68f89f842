package config

import (
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

const (
	projectsDirName = "projects"
	sessionFileExt  = ".jsonl"

	// readDirBatch is how many directory entries are read per syscall.
	readDirBatch = 64
)

// FileEntry is a named file or directory.
type FileEntry struct {
	Name string
	Path string
}

// Resolver locates project state directories and session files under the
// Claude Code config directory.
type Resolver struct {
	env Env
}

// NewResolver creates a resolver reading variables from env.
func NewResolver(env Env) *Resolver {
	if env == nil {
		env = OSEnv{}
	}
	return &Resolver{env: env}
}

// ClaudeDir returns the Claude Code configuration directory.
func (r *Resolver) ClaudeDir() (string, error) {
	return ClaudeDir(r.env)
}

// ProjectsDir returns <claudeDir>/projects.
func (r *Resolver) ProjectsDir() (string, error) {
	dir, err := r.ClaudeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, projectsDirName), nil
}

// ProjectStateDirs yields every directory under <claudeDir>/projects.
// A missing projects directory yields nothing. Any other error is yielded
// once and ends the sequence.
func (r *Resolver) ProjectStateDirs() iter.Seq2[FileEntry, error] {
	return func(yield func(FileEntry, error) bool) {
		projectsDir, err := r.ProjectsDir()
		if err != nil {
			yield(FileEntry{}, err)
			return
		}
		err = readDir(projectsDir, func(e fs.DirEntry) bool {
			if !e.IsDir() {
				return true
			}
			return yield(FileEntry{Name: e.Name(), Path: filepath.Join(projectsDir, e.Name())}, nil)
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			yield(FileEntry{}, err)
		}
	}
}

// FindProjectDir returns the state directory recorded for projectPath, or ""
// when there is none. Errors are treated as "not found".
func (r *Resolver) FindProjectDir(projectPath string) string {
	projectsDir, err := r.ProjectsDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(projectsDir, ProjectDirName(projectPath))
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	return dir
}

// SessionFiles yields every *.jsonl file in dir. Unlike ProjectStateDirs, a
// missing dir is an error.
func SessionFiles(dir string) iter.Seq2[FileEntry, error] {
	return func(yield func(FileEntry, error) bool) {
		err := readDir(dir, func(e fs.DirEntry) bool {
			if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), sessionFileExt) {
				return true
			}
			return yield(FileEntry{Name: e.Name(), Path: filepath.Join(dir, e.Name())}, nil)
		})
		if err != nil {
			yield(FileEntry{}, err)
		}
	}
}

// ProjectDirName maps an absolute project path to the name of its state
// directory: every "/" and "." becomes "-". The mapping is lossy, so two
// different paths may share a directory.
func ProjectDirName(path string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '.' {
			return '-'
		}
		return r
	}, path)
}

// readDir lists dir in batches, calling fn per entry until fn returns false.
func readDir(dir string, fn func(fs.DirEntry) bool) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()

	for {
		entries, err := f.ReadDir(readDirBatch)
		for _, e := range entries {
			if !fn(e) {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
