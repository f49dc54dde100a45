package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config names the files the registry reads and writes. Values come from
// an optional YAML file, then environment variables, then defaults.
type Config struct {
	PeopleFile   string `yaml:"people_file"`
	CoursesFile  string `yaml:"courses_file"`
	PlanningFile string `yaml:"planning_file"`
	AuthFile     string `yaml:"auth_file"`
}

// DefaultConfig keeps the historical file names next to the binary.
func DefaultConfig() Config {
	return Config{
		PeopleFile:   "people.dat",
		CoursesFile:  "courses.dat",
		PlanningFile: "planning.res",
		AuthFile:     "registry.auth",
	}
}

// LoadConfig reads the YAML config at path and applies TRAINING_*
// environment overrides. A missing file just means defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.PeopleFile = getEnv("TRAINING_PEOPLE_FILE", cfg.PeopleFile)
	cfg.CoursesFile = getEnv("TRAINING_COURSES_FILE", cfg.CoursesFile)
	cfg.PlanningFile = getEnv("TRAINING_PLANNING_FILE", cfg.PlanningFile)
	cfg.AuthFile = getEnv("TRAINING_AUTH_FILE", cfg.AuthFile)
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
