// Package store implements the storage primitives the generated accessors
// forward to: list, get, get-by, insert, update, and delete against a
// configured table. It builds SQL with squirrel and scans rows into
// generic records; it knows nothing about accessor naming.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"crudkit/internal/schema"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
// Strict accessor semantics are layered on top by the binding package.
var ErrNotFound = errors.New("record not found")

// Record is one table row keyed by column name.
type Record map[string]any

// Executor abstracts SQL execution so tests can swap in a mock handle.
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Repo executes CRUD primitives for models against a database handle.
type Repo struct {
	db     Executor
	logger *slog.Logger
}

// New creates a Repo. A nil logger falls back to slog.Default.
func New(db Executor, logger *slog.Logger) *Repo {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repo{db: db, logger: logger}
}

// ListOptions controls All queries.
type ListOptions struct {
	OrderBy string `mapstructure:"order_by"`
	Limit   uint64 `mapstructure:"limit"`
}

// All returns every row of the model's table.
func (r *Repo) All(ctx context.Context, model schema.Model, opts ListOptions) ([]Record, error) {
	builder := sq.Select("*").
		From(quoteIdentifier(model.Table)).
		PlaceholderFormat(sq.Question)
	if opts.OrderBy != "" {
		builder = builder.OrderBy(quoteIdentifier(opts.OrderBy))
	}
	if opts.Limit > 0 {
		builder = builder.Limit(opts.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", model.Table, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanRecords(rows)
}

// Get returns the row with the given primary key value, or ErrNotFound.
func (r *Repo) Get(ctx context.Context, model schema.Model, id any) (Record, error) {
	return r.GetBy(ctx, model, map[string]any{model.PrimaryKeyColumn(): id})
}

// GetBy returns the first row matching all the given column clauses, or
// ErrNotFound when nothing matches.
func (r *Repo) GetBy(ctx context.Context, model schema.Model, clauses map[string]any) (Record, error) {
	if len(clauses) == 0 {
		return nil, fmt.Errorf("get by on %s: clauses cannot be empty", model.Table)
	}

	where := sq.Eq{}
	for col, val := range clauses {
		where[quoteIdentifier(col)] = val
	}
	query, args, err := sq.Select("*").
		From(quoteIdentifier(model.Table)).
		Where(where).
		Limit(1).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", model.Table, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}

// Insert stores a new row and returns it as read back from the table.
// Models with a UUID primary key get a generated key when the attributes
// do not carry one; auto-increment keys are read from the insert result.
func (r *Repo) Insert(ctx context.Context, model schema.Model, attrs Record) (Record, error) {
	pk := model.PrimaryKeyColumn()
	if model.UUIDPrimaryKey {
		if _, ok := attrs[pk]; !ok {
			attrs = cloneRecord(attrs)
			attrs[pk] = uuid.NewString()
		}
	}

	columns := make([]string, 0, len(attrs))
	for _, col := range model.ColumnNames() {
		if _, ok := attrs[col]; ok {
			columns = append(columns, col)
		}
	}
	if len(model.Columns) == 0 {
		columns = sortedKeys(attrs)
	}

	quoted := make([]string, len(columns))
	values := make([]any, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdentifier(col)
		values[i] = attrs[col]
	}

	query, args, err := sq.Insert(quoteIdentifier(model.Table)).
		Columns(quoted...).
		Values(values...).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return nil, err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", model.Table, err)
	}

	id, ok := attrs[pk]
	if !ok {
		lastID, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("insert %s: %w", model.Table, err)
		}
		id = lastID
	}

	r.logger.Debug("record inserted",
		slog.String("table", model.Table),
		slog.Any("id", id),
	)
	return r.Get(ctx, model, id)
}

// Update applies the given attributes to the row with the primary key
// value and returns the updated row. Updating a missing row yields
// ErrNotFound from the read-back.
func (r *Repo) Update(ctx context.Context, model schema.Model, id any, attrs Record) (Record, error) {
	if len(attrs) == 0 {
		return nil, fmt.Errorf("update %s: attributes cannot be empty", model.Table)
	}

	setMap := make(map[string]any, len(attrs))
	for col, val := range attrs {
		setMap[quoteIdentifier(col)] = val
	}
	pk := model.PrimaryKeyColumn()
	query, args, err := sq.Update(quoteIdentifier(model.Table)).
		SetMap(setMap).
		Where(sq.Eq{quoteIdentifier(pk): id}).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update %s: %w", model.Table, err)
	}
	return r.Get(ctx, model, id)
}

// Delete removes the row with the primary key value. Deleting a missing
// row yields ErrNotFound.
func (r *Repo) Delete(ctx context.Context, model schema.Model, id any) error {
	query, args, err := sq.Delete(quoteIdentifier(model.Table)).
		Where(sq.Eq{quoteIdentifier(model.PrimaryKeyColumn()): id}).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", model.Table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", model.Table, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	r.logger.Debug("record deleted",
		slog.String("table", model.Table),
		slog.Any("id", id),
	)
	return nil
}

func cloneRecord(rec Record) Record {
	out := make(Record, len(rec)+1)
	for k, v := range rec {
		out[k] = v
	}
	return out
}
