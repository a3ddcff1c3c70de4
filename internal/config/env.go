package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override file and default locations.
const (
	EnvDB      = "KINETYPE_DB"
	EnvConfig  = "KINETYPE_CONFIG"
	EnvLearner = "KINETYPE_LEARNER"
)

// DefaultLearner is used when no learner is configured.
const DefaultLearner = "default"

// Env holds settings taken from the process environment and optional .env
// files. Empty fields mean "not set".
type Env struct {
	DBPath     string
	ConfigPath string
	Learner    string
}

// LoadEnv reads the given .env files (missing files are skipped) and layers
// the process environment on top. The process environment is not modified.
func LoadEnv(paths ...string) (Env, error) {
	values := map[string]string{}
	for _, path := range paths {
		file, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Env{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		for k, v := range file {
			values[k] = v
		}
	}
	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return values[key]
	}
	return Env{
		DBPath:     lookup(EnvDB),
		ConfigPath: lookup(EnvConfig),
		Learner:    lookup(EnvLearner),
	}, nil
}

// DB returns the database path, falling back to the XDG default.
func (e Env) DB() string {
	if e.DBPath != "" {
		return e.DBPath
	}
	return DefaultDBPath()
}

// Config returns the config file path, falling back to the XDG default.
func (e Env) Config() string {
	if e.ConfigPath != "" {
		return e.ConfigPath
	}
	return DefaultConfigPath()
}

// LearnerID returns the learner id, falling back to DefaultLearner.
func (e Env) LearnerID() string {
	if e.Learner != "" {
		return e.Learner
	}
	return DefaultLearner
}
