package project

import (
	"fmt"
	"net"
	"slices"
	"strings"

	"github.com/pixil98/go-errors"

	"github.com/ChicagoDave/realmmap/pkg/store"
	"github.com/ChicagoDave/realmmap/pkg/validation"
)

// Validate checks the operational sections: storage, access, server and
// log. Generation parameters are checked by ValidateParams.
func (p *Project) Validate() error {
	el := errors.NewErrorList()
	el.Add(p.validateStorage())
	el.Add(p.validateAccess())
	el.Add(p.validateServer())
	el.Add(p.validateLog())
	return el.Err()
}

// ValidateParams checks the map section.
func (p *Project) ValidateParams() *validation.Report {
	return validation.ValidateSchema(p.Map)
}

func (p *Project) validateStorage() error {
	el := errors.NewErrorList()
	driver := strings.ToLower(p.Storage.Driver)
	if !slices.Contains(store.Drivers(), driver) {
		el.Add(fmt.Errorf("storage.driver %q must be one of %s", p.Storage.Driver, strings.Join(store.Drivers(), ", ")))
	}
	switch driver {
	case store.DriverSQLite, store.DriverPostgres:
		if strings.TrimSpace(p.Storage.DSN) == "" {
			el.Add(fmt.Errorf("storage.dsn is required for %s", driver))
		}
	}
	return el.Err()
}

func (p *Project) validateAccess() error {
	el := errors.NewErrorList()
	if p.Access.WriteHash != "" && !strings.HasPrefix(p.Access.WriteHash, "$2") {
		el.Add(fmt.Errorf("access.write_hash is not a bcrypt hash"))
	}
	return el.Err()
}

func (p *Project) validateServer() error {
	el := errors.NewErrorList()
	if p.Server.Addr == "" {
		el.Add(fmt.Errorf("server.addr is required"))
	} else if _, _, err := net.SplitHostPort(p.Server.Addr); err != nil {
		el.Add(fmt.Errorf("parsing server.addr: %w", err))
	}
	return el.Err()
}

func (p *Project) validateLog() error {
	el := errors.NewErrorList()
	switch strings.ToLower(p.Log.Format) {
	case "", "text", "json":
	default:
		el.Add(fmt.Errorf("log.format %q must be text or json", p.Log.Format))
	}
	return el.Err()
}
