package project

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Overrides are environment variables that take precedence over realm.yaml.
type Overrides struct {
	Seed           *int64 `env:"REALM_SEED"`
	Provinces      *int   `env:"REALM_PROVINCES"`
	StorageDriver  string `env:"REALM_STORAGE_DRIVER"`
	StorageDSN     string `env:"REALM_STORAGE_DSN"`
	LogLevel       string `env:"REALM_LOG_LEVEL"`
	LogFormat      string `env:"REALM_LOG_FORMAT"`
	ServerAddr     string `env:"REALM_SERVER_ADDR"`
	CredentialFile string `env:"REALM_CREDENTIAL_FILE"`
	Roster         string `env:"REALM_LORDS_ROSTER"`
}

// ApplyEnv applies REALM_* overrides. A nil environ reads the process
// environment.
func (p *Project) ApplyEnv(environ map[string]string) error {
	var ov Overrides
	var err error
	if environ == nil {
		err = env.Parse(&ov)
	} else {
		err = env.ParseWithOptions(&ov, env.Options{Environment: environ})
	}
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if ov.Seed != nil {
		p.Map.Seed = *ov.Seed
	}
	if ov.Provinces != nil {
		p.Map.Provinces = *ov.Provinces
	}
	setString(&p.Storage.Driver, ov.StorageDriver)
	setString(&p.Storage.DSN, ov.StorageDSN)
	setString(&p.Log.Level, ov.LogLevel)
	setString(&p.Log.Format, ov.LogFormat)
	setString(&p.Server.Addr, ov.ServerAddr)
	setString(&p.Access.CredentialFile, ov.CredentialFile)
	setString(&p.Lords.Roster, ov.Roster)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
