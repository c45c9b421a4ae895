package storage

import (
	"fmt"
	"strings"
)

// Supported values of Config.Driver.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMariaDB  = "mariadb"
)

// Config selects where todos are stored.
type Config struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"memory"`
}

// Validate normalises Driver and rejects unknown values.
func (c *Config) Validate() error {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	if c.Driver == "" {
		c.Driver = DriverMemory
	}
	switch c.Driver {
	case DriverMemory, DriverPostgres, DriverSQLite, DriverMariaDB:
		return nil
	case "mysql":
		c.Driver = DriverMariaDB
		return nil
	default:
		return fmt.Errorf("unsupported storage driver %q (want one of %s)", c.Driver,
			strings.Join([]string{DriverMemory, DriverPostgres, DriverSQLite, DriverMariaDB}, ", "))
	}
}
