package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// argList accumulates bind values and hands out $N placeholders in order.
type argList struct {
	values []any
}

func (a *argList) bind(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// expand replaces each ? in expr with the next placeholder from params.
func (a *argList) expand(expr string, params []any) string {
	if len(params) == 0 {
		return expr
	}
	var out strings.Builder
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(params) {
			out.WriteString(a.bind(params[next]))
			next++
			continue
		}
		out.WriteByte(expr[i])
	}
	return out.String()
}

type Condition interface {
	render(args *argList) string
}

type compareCondition struct {
	column string
	op     string
	value  any
}

func (c compareCondition) render(args *argList) string {
	return c.column + " " + c.op + " " + args.bind(c.value)
}

func Eq(column string, value any) Condition  { return compareCondition{column, "=", value} }
func Gt(column string, value any) Condition  { return compareCondition{column, ">", value} }
func Gte(column string, value any) Condition { return compareCondition{column, ">=", value} }
func Lt(column string, value any) Condition  { return compareCondition{column, "<", value} }

type isNullCondition string

func (c isNullCondition) render(*argList) string { return string(c) + " IS NULL" }

func IsNull(column string) Condition { return isNullCondition(column) }

type exprCondition struct {
	expr   string
	params []any
}

func (c exprCondition) render(args *argList) string { return args.expand(c.expr, c.params) }

// Expr is a raw SQL fragment with ? placeholders.
func Expr(expr string, params ...any) Condition {
	return exprCondition{expr: expr, params: params}
}

func writeWhere(buf *strings.Builder, conditions []Condition, args *argList) {
	for i, c := range conditions {
		if i == 0 {
			buf.WriteString(" WHERE ")
		} else {
			buf.WriteString(" AND ")
		}
		buf.WriteString(c.render(args))
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var buf strings.Builder
	args := &argList{}
	buf.WriteString("SELECT " + strings.Join(b.columns, ", ") + " FROM " + b.table)
	writeWhere(&buf, b.where, args)
	if len(b.orderBy) > 0 {
		buf.WriteString(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		buf.WriteString(" LIMIT " + strconv.Itoa(b.limit))
	}
	return buf.String(), args.values, nil
}

type setClause struct {
	column string
	value  any
	expr   *exprCondition
}

type UpdateBuilder struct {
	table     string
	sets      []setClause
	where     []Condition
	returning []string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, value: value})
	return b
}

func (b *UpdateBuilder) SetExpr(column, expr string, params ...any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, expr: &exprCondition{expr: expr, params: params}})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	b.returning = append(b.returning, columns...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var buf strings.Builder
	args := &argList{}
	buf.WriteString("UPDATE " + b.table + " SET ")
	for i, s := range b.sets {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(s.column + " = ")
		if s.expr != nil {
			buf.WriteString(s.expr.render(args))
			continue
		}
		buf.WriteString(args.bind(s.value))
	}
	writeWhere(&buf, b.where, args)
	if len(b.returning) > 0 {
		buf.WriteString(" RETURNING " + strings.Join(b.returning, ", "))
	}
	return buf.String(), args.values, nil
}
