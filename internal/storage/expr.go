package storage

import (
	"fmt"
	"strings"
)

// Expr is one filter predicate translated to a SQL fragment with
// placeholder args. Predicates on a query are ANDed; absent predicates
// are simply not built.
type Expr interface {
	Clause() (string, []any)
}

type eqExpr struct {
	column string
	value  any
}

func (e eqExpr) Clause() (string, []any) {
	return e.column + " = ?", []any{e.value}
}

// Eq matches rows where column equals value exactly.
func Eq(column string, value any) Expr {
	return eqExpr{column: column, value: value}
}

type ilikeExpr struct {
	column string
	substr string
}

func (e ilikeExpr) Clause() (string, []any) {
	return e.column + " ILIKE ?", []any{"%" + e.substr + "%"}
}

// ILike matches rows where column contains substr case-insensitively.
func ILike(column, substr string) Expr {
	return ilikeExpr{column: column, substr: substr}
}

type rangeExpr struct {
	column   string
	min, max *int
}

func (e rangeExpr) Clause() (string, []any) {
	switch {
	case e.min != nil && e.max != nil:
		return fmt.Sprintf("%s >= ? AND %s <= ?", e.column, e.column), []any{*e.min, *e.max}
	case e.min != nil:
		return e.column + " >= ?", []any{*e.min}
	case e.max != nil:
		return e.column + " <= ?", []any{*e.max}
	default:
		// 양쪽 모두 없으면 호출부에서 Range 자체를 만들지 않는다
		return "TRUE", nil
	}
}

// Range matches rows where column falls in [min, max]; a nil bound is
// unbounded on that side.
func Range(column string, min, max *int) Expr {
	return rangeExpr{column: column, min: min, max: max}
}

type tagMemberExpr struct {
	value string
}

func (e tagMemberExpr) Clause() (string, []any) {
	return "? = ANY(tags)", []any{e.value}
}

// TagMember matches rows whose tags array contains value as an exact element.
func TagMember(value string) Expr {
	return tagMemberExpr{value: value}
}

type orExpr struct {
	exprs []Expr
}

func (e orExpr) Clause() (string, []any) {
	parts := make([]string, 0, len(e.exprs))
	var args []any
	for _, sub := range e.exprs {
		sql, subArgs := sub.Clause()
		parts = append(parts, sql)
		args = append(args, subArgs...)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// Or matches rows satisfying any of the given predicates.
func Or(exprs ...Expr) Expr {
	return orExpr{exprs: exprs}
}
