// Package config holds the runtime settings for the temporal analysis
// server: where the case database lives, how the HTTP transport binds, and
// the detector vocabularies the engine runs with. Defaults work out of the
// box; a YAML file and a couple of environment variables override them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the full runtime configuration.
type Settings struct {
	DataDir string `yaml:"data_dir"`
	Port    string `yaml:"port"`

	Engine EngineSettings `yaml:"engine"`
}

// EngineSettings tunes the analysis engine. Empty lists mean "use the
// built-in vocabulary".
type EngineSettings struct {
	DefaultDurationMinutes int      `yaml:"default_duration_minutes"`
	EthicsKeywords         []string `yaml:"ethics_keywords"`
	KnowledgePhrases       []string `yaml:"knowledge_phrases"`
	RolePhrases            []string `yaml:"role_phrases"`
	DeadlinePhrases        []string `yaml:"deadline_phrases"`
}

// Load builds Settings from defaults, an optional YAML file, and the
// environment, in that order. A missing file at the default path is fine; a
// file that exists but fails to parse is an error.
func Load(path string) (Settings, error) {
	s := Settings{
		DataDir: "./data",
		Port:    "8081",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return s, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("PROETHICA_DATA_DIR"); v != "" {
		s.DataDir = v
	}
	if v := os.Getenv("PORT"); v != "" {
		s.Port = v
	}

	return s, nil
}
