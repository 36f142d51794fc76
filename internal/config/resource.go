package config

import (
	"crudkit/internal/naming"
	"crudkit/internal/schema"
)

// Model converts the resource configuration into a schema model. The
// table name defaults to the pluralized snake form of the resource name
// ("BlogPost" -> "blog_posts").
func (r Resource) Model(namer *naming.Namer) schema.Model {
	if namer == nil {
		namer = naming.Default()
	}

	table := r.Table
	if table == "" {
		table = namer.Pluralize(naming.ToSnakeCase(r.Name))
	}

	columns := make([]schema.Column, len(r.Columns))
	for i, name := range r.Columns {
		columns[i] = schema.Column{Name: name}
	}

	return schema.Model{
		Name:           r.Name,
		Table:          table,
		PrimaryKey:     r.PrimaryKey,
		UUIDPrimaryKey: r.UUIDPrimaryKey,
		Required:       append([]string(nil), r.Required...),
		Columns:        columns,
	}
}
