package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "github.com/waqas1412/ReAgentWABot-sub001/pkg/errors"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/metrics"
	"github.com/waqas1412/ReAgentWABot-sub001/pkg/tracing"
)

// Filter is an exact-match conjunction over named columns.
type Filter map[string]any

// Fields maps column names to values for inserts and updates.
type Fields map[string]any

// FindOptions control result count, offset and ordering for FindAll.
type FindOptions struct {
	Limit   int
	Offset  int
	OrderBy string
}

// Collection is a generic data access contract over one table of homogeneous
// records. T is the db-tagged row struct. Every call runs under the access
// level the collection view is bound to; Access returns a rebound view and
// never mutates the receiver.
type Collection[T any] struct {
	handles *Handles
	level   AccessLevel
	table   string
	columns []string
	logger  ectologger.Logger
	timeout time.Duration
}

func NewCollection[T any](handles *Handles, logger ectologger.Logger, timeout time.Duration, table string, columns ...string) *Collection[T] {
	return &Collection[T]{
		handles: handles,
		level:   AccessRestricted,
		table:   table,
		columns: columns,
		logger:  logger,
		timeout: timeout,
	}
}

// Access returns a copy of the collection bound to the given level.
func (c *Collection[T]) Access(level AccessLevel) *Collection[T] {
	view := *c
	view.level = level
	return &view
}

func (c *Collection[T]) Table() string {
	return c.table
}

func (c *Collection[T]) db() DB {
	return c.handles.ForLevel(c.level)
}

func (c *Collection[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// FindByID returns the record with the given id, or nil when absent.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return c.FindOne(ctx, Filter{"id": id})
}

// FindOne returns a single record matching the filter, or nil when nothing
// matches. A missing row is a normal result, not an error.
func (c *Collection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("collection.%s.FindOne", c.table))
	defer span.End()

	sb := NewSelectBuilder()
	sb.Select(c.columns...)
	sb.From(c.table)
	applyFilter(sb, filter)
	sb.Limit(1)

	query, args := sb.Build()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var row T
	err := c.db().GetContext(ctx, &row, query, args...)
	metrics.StoreCallDuration.WithLabelValues(c.table, "find_one").Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		c.logger.WithContext(ctx).WithError(err).Errorf("failed to query %s", c.table)
		return nil, c.mapError("find_one", err)
	}

	return &row, nil
}

// FindAll returns every record matching the filter, ordered by creation
// unless the caller supplies an order. An empty result is not an error.
func (c *Collection[T]) FindAll(ctx context.Context, filter Filter, opts FindOptions) ([]T, error) {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("collection.%s.FindAll", c.table))
	defer span.End()

	sb := NewSelectBuilder()
	sb.Select(c.columns...)
	sb.From(c.table)
	applyFilter(sb, filter)

	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = "created_at ASC"
	}
	sb.OrderBy(orderBy)

	if opts.Limit > 0 {
		sb.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		sb.Offset(opts.Offset)
	}

	query, args := sb.Build()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rows := []T{}
	err := c.db().SelectContext(ctx, &rows, query, args...)
	metrics.StoreCallDuration.WithLabelValues(c.table, "find_all").Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Errorf("failed to list %s", c.table)
		return nil, c.mapError("find_all", err)
	}

	return rows, nil
}

// Create inserts a new record. A generated id and created_at are supplied
// when the caller did not set them. The inserted row is returned.
func (c *Collection[T]) Create(ctx context.Context, fields Fields) (*T, error) {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("collection.%s.Create", c.table))
	defer span.End()

	if _, ok := fields["id"]; !ok {
		fields["id"] = uuid.New().String()
	}
	if _, ok := fields["created_at"]; !ok {
		fields["created_at"] = time.Now().UTC()
	}

	cols := sortedKeys(fields)
	values := make([]any, 0, len(cols))
	for _, col := range cols {
		values = append(values, fields[col])
	}

	sb := NewInsertBuilder()
	sb.InsertInto(c.table)
	sb.Cols(cols...)
	sb.Values(values...)
	sb = sb.Returning(c.columns...)

	query, args := sb.Build()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var row T
	err := c.db().GetContext(ctx, &row, query, args...)
	metrics.StoreCallDuration.WithLabelValues(c.table, "create").Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Errorf("failed to insert into %s", c.table)
		return nil, c.mapError("create", err)
	}

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"table":  c.table,
		"id":     fields["id"],
		"access": c.level.String(),
	}).Info("created record")

	return &row, nil
}

// UpdateByID applies the given fields to the record with the given id and
// returns the updated row, or nil when no such record exists.
func (c *Collection[T]) UpdateByID(ctx context.Context, id string, fields Fields) (*T, error) {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("collection.%s.UpdateByID", c.table))
	defer span.End()

	// Nothing to set; an UPDATE without assignments is not valid SQL.
	if len(fields) == 0 {
		return c.FindByID(ctx, id)
	}

	ub := NewUpdateBuilder()
	ub.Update(c.table)

	assignments := make([]string, 0, len(fields))
	for _, col := range sortedKeys(fields) {
		assignments = append(assignments, ub.Assign(col, fields[col]))
	}
	ub.Set(assignments...)
	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	result, err := c.db().ExecContext(ctx, query, args...)
	metrics.StoreCallDuration.WithLabelValues(c.table, "update").Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Errorf("failed to update %s", c.table)
		return nil, c.mapError("update", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, nil
	}

	return c.FindByID(ctx, id)
}

// DeleteByID removes the record with the given id. Returns true iff a row
// existed and was removed.
func (c *Collection[T]) DeleteByID(ctx context.Context, id string) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("collection.%s.DeleteByID", c.table))
	defer span.End()

	db := NewDeleteBuilder()
	db.DeleteFrom(c.table)
	db.Where(db.Equal("id", id))

	query, args := db.Build()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	result, err := c.db().ExecContext(ctx, query, args...)
	metrics.StoreCallDuration.WithLabelValues(c.table, "delete").Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Errorf("failed to delete from %s", c.table)
		return false, c.mapError("delete", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// Count returns the number of records matching the filter.
func (c *Collection[T]) Count(ctx context.Context, filter Filter) (int, error) {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("collection.%s.Count", c.table))
	defer span.End()

	sb := NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From(c.table)
	applyFilter(sb, filter)

	query, args := sb.Build()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var count int
	err := c.db().GetContext(ctx, &count, query, args...)
	metrics.StoreCallDuration.WithLabelValues(c.table, "count").Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Errorf("failed to count %s", c.table)
		return 0, c.mapError("count", err)
	}

	return count, nil
}

// Exists reports whether any record matches the filter.
func (c *Collection[T]) Exists(ctx context.Context, filter Filter) (bool, error) {
	count, err := c.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (c *Collection[T]) mapError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewStoreTimeout(fmt.Sprintf("%s.%s", c.table, op))
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" {
			return apperrors.NewConstraintViolation(pqErr.Constraint, err)
		}
		return apperrors.NewStoreError(string(pqErr.Code), err)
	}

	return apperrors.NewStoreError("", err)
}

// applyFilter adds one equality condition per filter entry, in column order
// so generated SQL is deterministic.
func applyFilter(sb *SelectBuilder, filter Filter) {
	for _, col := range sortedKeys(filter) {
		sb.Where(sb.Equal(col, filter[col]))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
