package store

import "strings"

// quoteIdentifier quotes a SQL identifier (table or column name) with
// backticks and escapes any backticks within the identifier.
func quoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, "`", "``")
	return "`" + escaped + "`"
}
