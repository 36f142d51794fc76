package config

import (
	"fmt"
	"strings"
)

// DSN returns a MySQL-compatible data source name.
// If ConnectionString is set, it is used directly; otherwise the DSN is
// built from the discrete fields. parseTime and a UTC location are always
// ensured so timestamp columns scan as time.Time.
func (d *Database) DSN() string {
	if d.ConnectionString != "" {
		dsn := d.ConnectionString
		if !strings.Contains(dsn, "parseTime") {
			if strings.Contains(dsn, "?") {
				dsn += "&parseTime=true"
			} else {
				dsn += "?parseTime=true"
			}
		}
		if !strings.Contains(dsn, "loc=") {
			dsn += "&loc=UTC"
		}
		return dsn
	}

	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}
