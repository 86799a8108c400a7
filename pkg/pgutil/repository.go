package pgutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/geep/geep-go-sdk/pkg/logutil"
)

// DB is the query surface the repository needs. *pgxpool.Pool, pgx.Tx and
// pgxmock all satisfy it, so the same repository runs standalone, inside a
// caller-controlled transaction (see Tx) and under test.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// UpsertOutcome tags which path InsertOrUpdate took.
type UpsertOutcome int

const (
	// Inserted means the row did not exist and was created.
	Inserted UpsertOutcome = iota
	// Updated means a unique constraint matched an existing row, which
	// was updated instead.
	Updated
)

func (o UpsertOutcome) String() string {
	if o == Updated {
		return "updated"
	}
	return "inserted"
}

// Repository provides generic CRUD operations for one entity type against
// a caller-supplied database handle. It holds no state besides the handle;
// construct one per request scope and discard it with the session.
//
// Transaction discipline is the caller's responsibility: bind the
// repository to a pool for statement-level autocommit, or to a pgx.Tx
// (via Tx) when multiple writes must be atomic.
type Repository[T Entity] struct {
	db DB
}

// NewRepository binds the entity type T to a database handle.
func NewRepository[T Entity](db DB) *Repository[T] {
	return &Repository[T]{db: db}
}

func (r *Repository[T]) tableName() string {
	var zero T
	return zero.TableName()
}

func (r *Repository[T]) uniqueColumns() []string {
	var zero T
	return zero.UniqueColumns()
}

type selectQuery struct {
	filters    []Condition
	orderBy    []string
	descending bool
}

// SelectOption modifies a Select query.
type SelectOption func(*selectQuery)

// Where adds filter conditions; all conditions must match.
func Where(conds ...Condition) SelectOption {
	return func(q *selectQuery) {
		q.filters = append(q.filters, conds...)
	}
}

// OrderBy sorts the result by the given columns, in listed order.
func OrderBy(columns ...string) SelectOption {
	return func(q *selectQuery) {
		q.orderBy = append(q.orderBy, columns...)
	}
}

// Descending flips the sort direction for all OrderBy columns.
func Descending() SelectOption {
	return func(q *selectQuery) {
		q.descending = true
	}
}

// Select returns all rows matching the query options.
func (r *Repository[T]) Select(ctx context.Context, opts ...SelectOption) ([]T, error) {
	q := selectQuery{}
	for _, opt := range opts {
		opt(&q)
	}

	args := []any{}
	sql := "SELECT * FROM " + r.tableName() + whereClause(q.filters, &args)

	if len(q.orderBy) > 0 {
		direction := " ASC"
		if q.descending {
			direction = " DESC"
		}

		ordered := make([]string, len(q.orderBy))
		for i, column := range q.orderBy {
			ordered[i] = column + direction
		}
		sql += " ORDER BY " + strings.Join(ordered, ", ")
	}

	entities, err := r.query(ctx, sql, args)
	if err != nil {
		logutil.Get(ctx).Error("error occurred during select operation", "error", err)
		return nil, err
	}

	return entities, nil
}

// SelectOne returns exactly one matching row. With no boundary condition
// it fails on zero (pgx.ErrNoRows) or multiple (pgx.ErrTooManyRows)
// matches. A Gt condition selects the next row relative to the boundary
// (identity order ascending, limit 1); Lt selects the previous one
// (descending). The ordering applies regardless of how many other filters
// are present.
func (r *Repository[T]) SelectOne(ctx context.Context, conds ...Condition) (T, error) {
	var zero T

	args := []any{}
	sql := "SELECT * FROM " + r.tableName() + whereClause(conds, &args)

	switch {
	case hasOperator(conds, operatorLt):
		sql += " ORDER BY id DESC LIMIT 1"
	case hasOperator(conds, operatorGt):
		sql += " ORDER BY id ASC LIMIT 1"
	}

	entities, err := r.query(ctx, sql, args)
	if err != nil {
		logutil.Get(ctx).Error("error occurred during select one operation", "error", err)
		return zero, err
	}

	switch len(entities) {
	case 0:
		return zero, pgx.ErrNoRows
	case 1:
		return entities[0], nil
	default:
		return zero, pgx.ErrTooManyRows
	}
}

// Insert persists a new row and returns it with the store-generated
// columns populated.
func (r *Repository[T]) Insert(ctx context.Context, entity T) (T, error) {
	var zero T

	columns, values := writableColumns(entity)
	sql := insertSQL(r.tableName(), columns) + " RETURNING *"

	inserted, err := r.query(ctx, sql, values)
	if err != nil {
		logutil.Get(ctx).Error("error occurred during insert operation", "error", err)
		return zero, err
	}
	if len(inserted) != 1 {
		return zero, fmt.Errorf("insert into %s returned %d rows", r.tableName(), len(inserted))
	}

	return inserted[0], nil
}

// Update applies the changes to all rows matching the filters and returns
// the number of rows updated. updated_at is refreshed automatically.
func (r *Repository[T]) Update(ctx context.Context, filters []Condition, changes []Change) (int64, error) {
	args := []any{}

	assignments := make([]string, 0, len(changes)+1)
	for _, c := range changes {
		args = append(args, c.value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", c.column, len(args)))
	}
	assignments = append(assignments, "updated_at = now()")

	sql := "UPDATE " + r.tableName() + " SET " + strings.Join(assignments, ", ") +
		whereClause(filters, &args)

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logutil.Get(ctx).Error("error occurred during update operation", "error", err)
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// InsertOrUpdate inserts the entity, or updates the existing row matched
// by the entity's unique columns when the insert conflicts. The returned
// entity is the row as written (RETURNING), and the outcome tags which
// path was taken. A conflicting concurrent delete between the two
// statements surfaces as pgx.ErrNoRows.
func (r *Repository[T]) InsertOrUpdate(ctx context.Context, entity T) (T, UpsertOutcome, error) {
	var zero T

	unique := r.uniqueColumns()
	if len(unique) == 0 {
		err := fmt.Errorf("entity %s declares no unique columns", r.tableName())
		logutil.Get(ctx).Error("error occurred during upsert operation", "error", err)
		return zero, Inserted, err
	}

	columns, values := writableColumns(entity)

	sql := insertSQL(r.tableName(), columns) +
		" ON CONFLICT (" + strings.Join(unique, ", ") + ") DO NOTHING RETURNING *"

	inserted, err := r.query(ctx, sql, values)
	if err != nil {
		logutil.Get(ctx).Error("error occurred during upsert operation", "error", err)
		return zero, Inserted, err
	}
	if len(inserted) == 1 {
		return inserted[0], Inserted, nil
	}

	logutil.Get(ctx).Info("record already exists, updating instead",
		"table", r.tableName())

	uniqueSet := map[string]bool{}
	for _, column := range unique {
		uniqueSet[column] = true
	}

	var (
		filters []Condition
		changes []Change
	)
	for i, column := range columns {
		if uniqueSet[column] {
			filters = append(filters, Eq(column, values[i]))
		} else {
			changes = append(changes, Set(column, values[i]))
		}
	}

	args := []any{}
	assignments := make([]string, 0, len(changes)+1)
	for _, c := range changes {
		args = append(args, c.value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", c.column, len(args)))
	}
	assignments = append(assignments, "updated_at = now()")

	sql = "UPDATE " + r.tableName() + " SET " + strings.Join(assignments, ", ") +
		whereClause(filters, &args) + " RETURNING *"

	updated, err := r.query(ctx, sql, args)
	if err != nil {
		logutil.Get(ctx).Error("error occurred during upsert operation", "error", err)
		return zero, Updated, err
	}
	if len(updated) == 0 {
		return zero, Updated, pgx.ErrNoRows
	}

	return updated[0], Updated, nil
}

// Delete removes all rows matching the filters and returns the number of
// rows deleted. USE WITH CARE! As a rule we should not be deleting data;
// there is no soft delete and no cascade handling.
func (r *Repository[T]) Delete(ctx context.Context, filters []Condition) (int64, error) {
	args := []any{}
	sql := "DELETE FROM " + r.tableName() + whereClause(filters, &args)

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logutil.Get(ctx).Error("error occurred during delete operation", "error", err)
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (r *Repository[T]) query(ctx context.Context, sql string, args []any) ([]T, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
}

func insertSQL(table string, columns []string) string {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return "INSERT INTO " + table +
		" (" + strings.Join(columns, ", ") + ")" +
		" VALUES (" + strings.Join(placeholders, ", ") + ")"
}

func hasOperator(conds []Condition, op operator) bool {
	for _, c := range conds {
		if c.op == op {
			return true
		}
	}
	return false
}
