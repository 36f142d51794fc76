package schema

import (
	"context"
	"database/sql"
	"fmt"
)

// Queryer provides query access for schema introspection.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// IntrospectColumns discovers a table's columns from
// INFORMATION_SCHEMA.COLUMNS in ordinal position order.
func IntrospectColumns(ctx context.Context, db Queryer, databaseName, tableName string) ([]Column, error) {
	query := `
		SELECT
			COLUMN_NAME,
			DATA_TYPE,
			IS_NULLABLE,
			COLUMN_DEFAULT
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`

	rows, err := db.QueryContext(ctx, query, databaseName, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for %s: %w", tableName, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var columns []Column
	for rows.Next() {
		var col Column
		var isNullable string
		var columnDefault sql.NullString
		if err := rows.Scan(&col.Name, &col.DataType, &isNullable, &columnDefault); err != nil {
			return nil, err
		}
		col.IsNullable = isNullable == "YES"
		col.HasDefault = columnDefault.Valid
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return columns, nil
}

// IntrospectPrimaryKey discovers the table's primary key column from
// INFORMATION_SCHEMA.KEY_COLUMN_USAGE. Returns an empty string when the
// table has no primary key; composite keys return the first column.
func IntrospectPrimaryKey(ctx context.Context, db Queryer, databaseName, tableName string) (string, error) {
	query := `
		SELECT COLUMN_NAME
		FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE
		WHERE TABLE_SCHEMA = ?
		AND TABLE_NAME = ?
		AND CONSTRAINT_NAME = 'PRIMARY'
		ORDER BY ORDINAL_POSITION
	`

	rows, err := db.QueryContext(ctx, query, databaseName, tableName)
	if err != nil {
		return "", fmt.Errorf("failed to get primary key for %s: %w", tableName, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var pk string
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return "", err
		}
		if pk == "" {
			pk = col
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return pk, nil
}

// Introspect fills in a model's columns and primary key from the live
// database. Declared values win; only missing pieces are discovered.
func Introspect(ctx context.Context, db Queryer, databaseName string, model Model) (Model, error) {
	if len(model.Columns) == 0 {
		columns, err := IntrospectColumns(ctx, db, databaseName, model.Table)
		if err != nil {
			return model, err
		}
		model.Columns = columns
	}
	if model.PrimaryKey == "" {
		pk, err := IntrospectPrimaryKey(ctx, db, databaseName, model.Table)
		if err != nil {
			return model, err
		}
		model.PrimaryKey = pk
	}
	return model, nil
}
