package querybuilder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuery is returned by Build when the builder state cannot form a statement
var ErrInvalidQuery = errors.New("invalid query")

type joinOp int

const (
	opAnd joinOp = iota + 1
	opOr
)

func (o joinOp) String() string {
	if o == opOr {
		return "OR"
	}
	return "AND"
}

// condition is either a single clause or a parenthesized group of conditions
type condition struct {
	op    joinOp
	query string
	args  []interface{}
	group []condition
}

func (c condition) isGroup() bool {
	return c.group != nil
}

// QueryBuilder assembles SQL with "?" placeholders; callers rebind them for their driver.
type QueryBuilder interface {
	Select(cols ...string) QueryBuilder
	From(table string) QueryBuilder
	Into(table string) QueryBuilder
	Where(clause string, args ...interface{}) QueryBuilder

	Or(clause string, args ...interface{}) QueryBuilder
	And(clause string, args ...interface{}) QueryBuilder

	AndGroup(fn func(qb QueryBuilder)) QueryBuilder
	OrGroup(fn func(qb QueryBuilder)) QueryBuilder

	OrderBy(col string, asc bool) QueryBuilder
	Limit(n int) QueryBuilder

	Insert(cols ...string) QueryBuilder
	Values(values ...interface{}) QueryBuilder
	OnConflict(cols ...string) QueryBuilder
	SetExclude(cols ...string) QueryBuilder

	Delete(table string) QueryBuilder
	Build() (string, []interface{}, error)

	getConditions() []condition
}

type queryBuilder struct {
	schema      string
	table       string
	cols        []string
	conditions  []condition
	values      [][]interface{}
	orderBy     []string
	limit       int
	isDelete    bool
	onConflict  []string
	excludeCols []string
}

func NewQueryBuilder(schema string) QueryBuilder {
	return &queryBuilder{schema: schema}
}

func (q *queryBuilder) getConditions() []condition {
	return q.conditions
}

func (q *queryBuilder) Select(cols ...string) QueryBuilder {
	q.cols = append(q.cols, cols...)
	return q
}

func (q *queryBuilder) From(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Into(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Insert(cols ...string) QueryBuilder {
	q.cols = cols
	return q
}

func (q *queryBuilder) Values(values ...interface{}) QueryBuilder {
	q.values = append(q.values, values)
	return q
}

func (q *queryBuilder) OnConflict(cols ...string) QueryBuilder {
	q.onConflict = cols
	return q
}

// SetExclude lists the columns overwritten from EXCLUDED on conflict; none means DO NOTHING
func (q *queryBuilder) SetExclude(cols ...string) QueryBuilder {
	q.excludeCols = cols
	return q
}

func (q *queryBuilder) Delete(table string) QueryBuilder {
	q.table = table
	q.isDelete = true
	return q
}

func (q *queryBuilder) Where(clause string, args ...interface{}) QueryBuilder {
	return q.And(clause, args...)
}

func (q *queryBuilder) And(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, condition{op: opAnd, query: clause, args: args})
	return q
}

func (q *queryBuilder) Or(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, condition{op: opOr, query: clause, args: args})
	return q
}

func (q *queryBuilder) group(op joinOp, fn func(qb QueryBuilder)) QueryBuilder {
	sub := NewQueryBuilder(q.schema)
	fn(sub)
	group := sub.getConditions()
	if group == nil {
		group = []condition{}
	}
	q.conditions = append(q.conditions, condition{op: op, group: group})
	return q
}

func (q *queryBuilder) AndGroup(fn func(qb QueryBuilder)) QueryBuilder {
	return q.group(opAnd, fn)
}

func (q *queryBuilder) OrGroup(fn func(qb QueryBuilder)) QueryBuilder {
	return q.group(opOr, fn)
}

func (q *queryBuilder) OrderBy(col string, asc bool) QueryBuilder {
	dir := "ASC"
	if !asc {
		dir = "DESC"
	}
	q.orderBy = append(q.orderBy, fmt.Sprintf("%s %s", col, dir))
	return q
}

func (q *queryBuilder) Limit(n int) QueryBuilder {
	q.limit = n
	return q
}

func (q *queryBuilder) Build() (string, []interface{}, error) {
	if q.table == "" {
		return "", nil, fmt.Errorf("%w: no table", ErrInvalidQuery)
	}
	switch {
	case len(q.values) > 0:
		return q.buildInsert()
	case q.isDelete:
		return q.buildDelete()
	default:
		return q.buildSelect()
	}
}

func (q *queryBuilder) qualified() string {
	if q.schema == "" {
		return q.table
	}
	return q.schema + "." + q.table
}

func (q *queryBuilder) buildSelect() (string, []interface{}, error) {
	if len(q.cols) == 0 {
		return "", nil, fmt.Errorf("%w: no columns selected", ErrInvalidQuery)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(q.cols, ", "), q.qualified())

	var args []interface{}
	if len(q.conditions) > 0 {
		cond, condArgs := buildCondition(q.conditions)
		query += " WHERE " + cond
		args = append(args, condArgs...)
	}
	if len(q.orderBy) > 0 {
		query += " ORDER BY " + strings.Join(q.orderBy, ", ")
	}
	if q.limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.limit)
	}
	return query, args, nil
}

func (q *queryBuilder) buildInsert() (string, []interface{}, error) {
	width := len(q.cols)
	if width == 0 {
		return "", nil, fmt.Errorf("%w: no insert columns", ErrInvalidQuery)
	}

	tuples := make([]string, 0, len(q.values))
	args := make([]interface{}, 0, width*len(q.values))
	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", width), ", ") + ")"
	for i, row := range q.values {
		if len(row) != width {
			return "", nil, fmt.Errorf("%w: row %d has %d values for %d columns", ErrInvalidQuery, i, len(row), width)
		}
		tuples = append(tuples, placeholders)
		args = append(args, row...)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		q.qualified(), strings.Join(q.cols, ", "), strings.Join(tuples, ", "))

	if len(q.onConflict) > 0 {
		query += fmt.Sprintf(" ON CONFLICT (%s)", strings.Join(q.onConflict, ", "))
		if len(q.excludeCols) == 0 {
			return query + " DO NOTHING", args, nil
		}
		sets := make([]string, 0, len(q.excludeCols))
		for _, col := range q.excludeCols {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
		query += " DO UPDATE SET " + strings.Join(sets, ", ")
	}
	return query, args, nil
}

func (q *queryBuilder) buildDelete() (string, []interface{}, error) {
	// unconditional deletes are never what a caller of this builder wants
	if len(q.conditions) == 0 {
		return "", nil, fmt.Errorf("%w: delete without conditions", ErrInvalidQuery)
	}
	cond, args := buildCondition(q.conditions)
	return fmt.Sprintf("DELETE FROM %s WHERE %s", q.qualified(), cond), args, nil
}

func buildCondition(conditions []condition) (string, []interface{}) {
	parts := make([]string, 0, len(conditions)*2)
	args := make([]interface{}, 0)

	for _, cond := range conditions {
		if cond.isGroup() && len(cond.group) == 0 {
			continue
		}
		if len(parts) > 0 {
			parts = append(parts, cond.op.String())
		}
		if cond.isGroup() {
			clause, subArgs := buildCondition(cond.group)
			parts = append(parts, "("+clause+")")
			args = append(args, subArgs...)
			continue
		}
		parts = append(parts, cond.query)
		args = append(args, cond.args...)
	}

	return strings.Join(parts, " "), args
}
