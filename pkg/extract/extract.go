// Package extract implements the reference extractor: a purely functional
// visitor over the pkg/core AST that yields the set of table references a
// statement list depends upon.
package extract

import (
	"strings"

	"github.com/datastx/featherflow/pkg/core"
)

// builtins is the case-insensitive filter of scalar/aggregate function
// names that must never be mistaken for table references.
var builtins = map[string]bool{
	"COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true,
	"DATE": true, "TIME": true, "TIMESTAMP": true, "EXTRACT": true,
	"CONCAT": true, "SUBSTRING": true, "UPPER": true, "LOWER": true,
	"COALESCE": true, "NULLIF": true, "CAST": true, "CONVERT": true,
	"ROUND": true, "FLOOR": true, "CEILING": true, "ABS": true,
	"DATE_TRUNC": true, "DATE_PART": true, "DATE_DIFF": true,
	"DATE_ADD": true, "DATE_SUB": true, "CURRENT_DATE": true,
	"CURRENT_TIME": true, "CURRENT_TIMESTAMP": true, "CASE": true,
	"IF": true, "IFNULL": true, "NVL": true, "IIF": true,
}

// IsBuiltin reports whether name (case-insensitively) is in the built-in
// function filter.
func IsBuiltin(name string) bool {
	return builtins[strings.ToUpper(name)]
}

// Names returns every table reference found while walking stmts, in
// traversal order, including bare CTE aliases.
// Duplicates are preserved here; callers that need a set should dedupe.
func Names(stmts []core.Stmt) []string {
	var names []string
	for _, stmt := range stmts {
		if sel, ok := stmt.(*core.SelectStmt); ok {
			walkSelectStmt(sel, &names)
		}
	}
	return names
}

// External returns the subset of Names(stmts) that contain a '.', as a
// deduplicated, insertion-ordered slice.
func External(stmts []core.Stmt) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range Names(stmts) {
		if strings.Contains(n, ".") && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func walkSelectStmt(stmt *core.SelectStmt, names *[]string) {
	if stmt == nil {
		return
	}
	if stmt.With != nil {
		for _, cte := range stmt.With.CTEs {
			*names = append(*names, cte.Name)
			walkSelectStmt(cte.Select, names)
		}
	}
	walkSelectBody(stmt.Body, names)
}

func walkSelectBody(body *core.SelectBody, names *[]string) {
	if body == nil {
		return
	}
	switch {
	case body.Right != nil:
		// Set operation: recurse into both sides.
		walkSelectCore(body.Left, names)
		walkSelectBody(body.Right, names)
	default:
		walkSelectCore(body.Left, names)
	}
}

func walkSelectCore(sel *core.SelectCore, names *[]string) {
	if sel == nil {
		return
	}
	if sel.From != nil {
		walkTableRef(sel.From.Source, names)
		for _, join := range sel.From.Joins {
			walkTableRef(join.Right, names)
			if join.Condition != nil {
				walkExpr(join.Condition, names)
			}
		}
	}
	if sel.Where != nil {
		walkExpr(sel.Where, names)
	}
	for _, item := range sel.Columns {
		if item.Expr != nil {
			walkExpr(item.Expr, names)
		}
	}
	if sel.Having != nil {
		walkExpr(sel.Having, names)
	}
}

func walkTableRef(ref core.TableRef, names *[]string) {
	switch t := ref.(type) {
	case *core.TableName:
		*names = append(*names, qualifiedTableName(t))
	case *core.DerivedTable:
		walkSelectStmt(t.Select, names)
	case *core.LateralTable:
		walkSelectStmt(t.Select, names)
	case *core.TableFunction:
		if t.Call != nil {
			walkExpr(t.Call, names)
		}
	case *core.NestedJoin:
		if t.From != nil {
			walkTableRef(t.From.Source, names)
			for _, join := range t.From.Joins {
				walkTableRef(join.Right, names)
			}
		}
	}
}

func qualifiedTableName(t *core.TableName) string {
	switch {
	case t.Catalog != "":
		return t.Catalog + "." + t.Schema + "." + t.Name
	case t.Schema != "":
		return t.Schema + "." + t.Name
	default:
		return t.Name
	}
}

// walkExpr dispatches over the expression forms that may carry a table
// reference. Function arguments are deliberately not walked: a call like
// coalesce(a.x, b.y) never refers to tables named by its arguments, and
// walking them would pull identifier-shaped function arguments in as
// false positives.
func walkExpr(e core.Expr, names *[]string) {
	switch ex := e.(type) {
	case *core.SubqueryExpr:
		walkSelectStmt(ex.Select, names)
	case *core.ExistsExpr:
		walkSelectStmt(ex.Select, names)
	case *core.InExpr:
		if ex.Query != nil {
			walkSelectStmt(ex.Query, names)
		}
		for _, v := range ex.Values {
			walkExpr(v, names)
		}
	case *core.BinaryExpr:
		walkExpr(ex.Left, names)
		walkExpr(ex.Right, names)
	case *core.UnaryExpr:
		walkExpr(ex.Expr, names)
	case *core.CastExpr:
		walkExpr(ex.Expr, names)
	case *core.ParenExpr:
		walkExpr(ex.Expr, names)
	case *core.BetweenExpr:
		walkExpr(ex.Expr, names)
		walkExpr(ex.Low, names)
		walkExpr(ex.High, names)
	case *core.LikeExpr:
		walkExpr(ex.Expr, names)
		walkExpr(ex.Pattern, names)
	case *core.IsNullExpr:
		walkExpr(ex.Expr, names)
	case *core.IsBoolExpr:
		walkExpr(ex.Expr, names)
	case *core.FuncCall:
		if !IsBuiltin(ex.Name) {
			*names = append(*names, ex.Name)
		}
		// Arguments are not walked; see walkExpr's doc comment.
	case *core.CaseExpr:
		if ex.Operand != nil {
			walkExpr(ex.Operand, names)
		}
		for _, w := range ex.Whens {
			walkExpr(w.Condition, names)
			walkExpr(w.Result, names)
		}
		if ex.Else != nil {
			walkExpr(ex.Else, names)
		}
	}
}
