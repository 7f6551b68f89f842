// Package config resolves where Claude Code keeps its state and loads
// ccsession's own settings.
package config

import "os"

// Env is a source of environment variables.
type Env interface {
	LookupEnv(key string) (string, bool)
}

// OSEnv reads the process environment.
type OSEnv struct{}

// LookupEnv implements Env.
func (OSEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnv is a fixed set of variables, mainly for tests.
type MapEnv map[string]string

// LookupEnv implements Env.
func (m MapEnv) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// getenv returns the value of key, or "" when it is unset.
func getenv(env Env, key string) string {
	if env == nil {
		return ""
	}
	v, _ := env.LookupEnv(key)
	return v
}
