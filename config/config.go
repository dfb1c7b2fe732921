// Package config loads and saves the on-disk environment descriptor
// (reldb.yml) that records where an environment's storage file lives and
// which process id to show in the REPL prompt (§6's "DB_<id>> ").
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// FileName is the descriptor's name within an environment directory.
const FileName = "reldb.yml"

// Environment is the on-disk descriptor for one storage environment.
type Environment struct {
	Dir       string `yaml:"dir"`
	ProcessID string `yaml:"process_id"`
}

// Load reads dir's reldb.yml. If the file does not exist, it returns a
// fresh Environment pointing at dir with no process id assigned yet.
func Load(dir string) (*Environment, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Environment{Dir: dir}, nil
	}
	if err != nil {
		return nil, err
	}
	var env Environment
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	env.Dir = dir
	return &env, nil
}

// Save writes e back to its directory's reldb.yml.
func (e *Environment) Save() error {
	data, err := yaml.Marshal(e)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(e.Dir, FileName), data, 0o644)
}
