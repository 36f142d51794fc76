// Package schema describes the resources accessors are generated for: a
// named model bound to a database table, its columns, and its primary key.
package schema

// Column represents a database column
type Column struct {
	Name       string
	DataType   string
	IsNullable bool
	HasDefault bool
}

// Model binds a schema identifier to a storage table. The identifier is
// the source of the naming suffix; the table and columns drive the
// storage delegate.
type Model struct {
	// Name is the schema identifier, e.g. "BlogPost".
	Name string
	// Table is the backing table name, e.g. "blog_posts".
	Table string
	// PrimaryKey is the primary key column. Defaults to "id".
	PrimaryKey string
	// UUIDPrimaryKey marks a string primary key that should receive a
	// generated UUID on insert when the caller does not supply one.
	UUIDPrimaryKey bool
	// Required lists columns the changeset treats as mandatory.
	Required []string
	Columns  []Column
}

// PrimaryKeyColumn returns the primary key column name, defaulting to "id".
func (m Model) PrimaryKeyColumn() string {
	if m.PrimaryKey != "" {
		return m.PrimaryKey
	}
	return "id"
}

// HasColumn reports whether the model declares the named column. A model
// with no declared columns accepts any column name.
func (m Model) HasColumn(name string) bool {
	if len(m.Columns) == 0 {
		return true
	}
	for _, col := range m.Columns {
		if col.Name == name {
			return true
		}
	}
	return false
}

// ColumnNames returns the declared column names in declaration order.
func (m Model) ColumnNames() []string {
	names := make([]string, len(m.Columns))
	for i, col := range m.Columns {
		names[i] = col.Name
	}
	return names
}

// IsRequired reports whether the named column is listed as mandatory.
func (m Model) IsRequired(name string) bool {
	for _, req := range m.Required {
		if req == name {
			return true
		}
	}
	return false
}
