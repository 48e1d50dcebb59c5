// Package project loads a realm project: a directory holding realm.yaml,
// an optional .env file and whatever the config points at (lord roster,
// credential file, file store).
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ChicagoDave/realmmap/internal/logger"
	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/ChicagoDave/realmmap/pkg/store"
)

// FileName is the project file inside a project directory.
const FileName = "realm.yaml"

// AccessConfig points at the write credential.
type AccessConfig struct {
	CredentialFile string `yaml:"credential_file"`
	WriteHash      string `yaml:"write_hash"` // bcrypt hash of the credential
}

// LordsConfig locates the lord roster.
type LordsConfig struct {
	Roster string `yaml:"roster"`
}

// ServerConfig configures `realmmap serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Project is the parsed realm.yaml.
type Project struct {
	Map     realm.Params  `yaml:"map"`
	Storage store.Config  `yaml:"storage"`
	Access  AccessConfig  `yaml:"access"`
	Lords   LordsConfig   `yaml:"lords"`
	Server  ServerConfig  `yaml:"server"`
	Log     logger.Config `yaml:"log"`

	dir string
}

// Default returns a project rooted at dir with documented defaults.
func Default(dir string) *Project {
	return &Project{
		Map:     realm.DefaultParams(),
		Storage: store.Config{Driver: store.DriverFile, DSN: "data"},
		Access:  AccessConfig{CredentialFile: "admin.auth"},
		Lords:   LordsConfig{Roster: "lords.yaml"},
		Server:  ServerConfig{Addr: ":8080"},
		Log:     logger.Config{Level: "info", Format: "text"},
		dir:     dir,
	}
}

// Load reads a project file. Fields absent from the file keep their
// defaults.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	p := Default(filepath.Dir(path))
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing project YAML: %w", err)
	}
	return p, nil
}

// LoadProject loads realm.yaml from projectDir after reading projectDir/.env
// into the process environment, then applies REALM_* overrides.
func LoadProject(projectDir string) (*Project, error) {
	envPath := filepath.Join(projectDir, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envPath, err)
	}

	p, err := Load(filepath.Join(projectDir, FileName))
	if err != nil {
		return nil, err
	}
	if err := p.ApplyEnv(nil); err != nil {
		return nil, err
	}
	return p, nil
}

// Dir is the project directory.
func (p *Project) Dir() string {
	return p.dir
}

// Resolve returns path relative to the project directory unless it is
// already absolute. Empty stays empty.
func (p *Project) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.dir, path)
}

// StoreConfig returns the storage config with file paths resolved.
func (p *Project) StoreConfig() store.Config {
	cfg := p.Storage
	switch cfg.Driver {
	case store.DriverFile, store.DriverSQLite, "":
		cfg.DSN = p.Resolve(cfg.DSN)
	}
	return cfg
}

// Write saves the project as dir/realm.yaml, refusing to overwrite.
func Write(dir string, p *Project) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating project dir: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding project YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing project file: %w", err)
	}
	return path, nil
}
