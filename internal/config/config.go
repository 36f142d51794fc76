// Package config loads configuration from files, env vars, and flags, and
// validates it.
package config

import (
	"time"

	"crudkit/internal/naming"
)

// Config holds the application configuration.
type Config struct {
	Database  Database      `mapstructure:"database"`
	Logging   Logging       `mapstructure:"logging"`
	Naming    naming.Config `mapstructure:"naming"`
	Resources []Resource    `mapstructure:"resources"`
}

// Database holds database connection parameters.
type Database struct {
	// ConnectionString is a complete go-sql-driver/mysql Data Source Name.
	// Format: user:password@tcp(host:port)/database?params
	// When set, overrides Host/Port/User/Password/Database fields.
	// Configured via "dsn" in YAML or CRUDKIT_DATABASE_DSN env var.
	ConnectionString string `mapstructure:"dsn"`

	// Discrete connection fields (used when DSN is not set)
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	PasswordFile   string `mapstructure:"password_file"`
	PasswordPrompt bool   `mapstructure:"password_prompt"`
	Database       string `mapstructure:"database"`

	// Connection pool settings
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// Logging holds structured logging parameters.
type Logging struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Resource configures accessor generation for one schema.
type Resource struct {
	// Name is the schema identifier, e.g. "BlogPost".
	Name string `mapstructure:"name"`
	// Table overrides the backing table name. Defaults to the pluralized
	// snake form of Name.
	Table string `mapstructure:"table"`
	// PrimaryKey overrides the primary key column (default "id").
	PrimaryKey string `mapstructure:"primary_key"`
	// UUIDPrimaryKey marks the primary key as a generated UUID string.
	UUIDPrimaryKey bool `mapstructure:"uuid_primary_key"`
	// Suffix toggles name suffixing. Unset means enabled.
	Suffix *bool `mapstructure:"suffix"`
	// Access is a shorthand selector preset: "read" or "read_write".
	// Mutually exclusive with Only/Except.
	Access string `mapstructure:"access"`
	// Only keeps exactly the listed operation ids.
	Only []string `mapstructure:"only"`
	// Except drops exactly the listed operation ids.
	Except []string `mapstructure:"except"`
	// Required lists columns the changeset treats as mandatory.
	Required []string `mapstructure:"required"`
	// Columns declares the table columns. Empty means introspect.
	Columns []string `mapstructure:"columns"`
}

// SuffixDisabled reports whether the resource opts out of suffixing.
func (r Resource) SuffixDisabled() bool {
	return r.Suffix != nil && !*r.Suffix
}

// SelectorInput returns the loose selector shape for this resource, in
// the form the resolver's selector parsing accepts. Precedence between
// conflicting settings is rejected by Validate, not resolved here.
func (r Resource) SelectorInput() any {
	if r.Access != "" {
		return r.Access
	}
	if len(r.Only) > 0 {
		return map[string]any{"only": r.Only}
	}
	if len(r.Except) > 0 {
		return map[string]any{"except": r.Except}
	}
	return nil
}
