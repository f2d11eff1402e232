package parser

import (
	"fmt"

	"github.com/datastx/featherflow/pkg/core"
	"github.com/datastx/featherflow/pkg/token"
)

// ParseError is returned when the input cannot be parsed. It carries the
// position of the offending token alongside a human-readable message.
type ParseError struct {
	Message string
	Pos     token.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Parser is a recursive-descent parser over the token stream produced by
// Lexer, building the pkg/core AST. It keeps three tokens of lookahead
// (tok/peek/peek2) so the `t.*` projection form can be distinguished from
// a qualified column reference without backtracking.
type Parser struct {
	lex     *Lexer
	dialect *core.Dialect
	tok     token.Token
	peek    token.Token
	peek2   token.Token
	err     error
}

// New creates a Parser for the given SQL text and dialect. dialect may be
// nil, in which case ANSI defaults apply.
func New(sql string, dialect *core.Dialect) *Parser {
	lex := NewLexer(sql)
	if dialect != nil {
		if dialect.IdentQuote != 0 {
			lex.identQuote = dialect.IdentQuote
		}
		lex.foldIdents = dialect.FoldIdents
	}
	p := &Parser{lex: lex, dialect: dialect}
	p.tok = p.lex.NextToken()
	p.peek = p.lex.NextToken()
	p.peek2 = p.lex.NextToken()
	return p
}

// ParseStatements parses the input SQL text and returns the AST as an
// ordered sequence of statements.
func ParseStatements(sql string, dialect *core.Dialect) ([]core.Stmt, error) {
	p := New(sql, dialect)
	stmts := p.parseStatements()
	if p.err != nil {
		return nil, p.err
	}
	return stmts, nil
}

func (p *Parser) next() {
	p.tok = p.peek
	p.peek = p.peek2
	p.peek2 = p.lex.NextToken()
}

func (p *Parser) at(t token.TokenType) bool { return p.tok.Type == t }

func (p *Parser) match(t token.TokenType) bool {
	if p.at(t) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(t token.TokenType) bool {
	if p.match(t) {
		return true
	}
	p.fail(fmt.Sprintf("expected %s, got %q", t, p.tok.Literal))
	return false
}

func (p *Parser) fail(msg string) {
	if p.err == nil {
		p.err = &ParseError{Message: msg, Pos: p.tok.Pos}
	}
}

// parseStatements parses a sequence of query statements, separated by
// optional semicolons. Only SELECT statements are recognized; the core
// has no need for DDL/DML.
func (p *Parser) parseStatements() []core.Stmt {
	var stmts []core.Stmt
	for p.match(token.SEMI) {
	}
	for !p.at(token.EOF) && p.err == nil {
		stmt := p.parseSelectStmt()
		if p.err != nil {
			return nil
		}
		stmts = append(stmts, stmt)
		for p.match(token.SEMI) {
		}
		if p.at(token.EOF) {
			break
		}
	}
	return stmts
}

// parseSelectStmt parses a full SELECT statement including its optional
// WITH clause.
func (p *Parser) parseSelectStmt() *core.SelectStmt {
	start := p.tok.Pos
	var with *core.WithClause
	if p.at(token.WITH) {
		with = p.parseWithClause()
	}
	body := p.parseSelectBody()
	return &core.SelectStmt{
		NodeInfo: core.NodeInfo{Start: start, Stop: p.tok.Pos},
		With:     with,
		Body:     body,
	}
}

func (p *Parser) parseWithClause() *core.WithClause {
	start := p.tok.Pos
	p.next() // WITH
	recursive := p.match(token.RECURSIVE)

	var ctes []*core.CTE
	for {
		cteStart := p.tok.Pos
		name := p.parseIdentText()
		p.expect(token.AS)
		p.expect(token.LPAREN)
		sel := p.parseSelectStmt()
		p.expect(token.RPAREN)
		ctes = append(ctes, &core.CTE{
			NodeInfo: core.NodeInfo{Start: cteStart, Stop: p.tok.Pos},
			Name:     name,
			Select:   sel,
		})
		if !p.match(token.COMMA) {
			break
		}
	}

	return &core.WithClause{
		NodeInfo:  core.NodeInfo{Start: start, Stop: p.tok.Pos},
		Recursive: recursive,
		CTEs:      ctes,
	}
}

// parseSelectBody parses the query body, handling set operations
// (UNION/INTERSECT/EXCEPT) as a right-recursive chain.
func (p *Parser) parseSelectBody() *core.SelectBody {
	left := p.parseSelectCoreOrNested()

	switch {
	case p.at(token.UNION):
		p.next()
		all := p.match(token.ALL)
		op := core.SetOpUnion
		if all {
			op = core.SetOpUnionAll
		}
		right := p.parseSelectBody()
		return &core.SelectBody{Left: left, Op: op, All: all, Right: right}
	case p.at(token.INTERSECT):
		p.next()
		right := p.parseSelectBody()
		return &core.SelectBody{Left: left, Op: core.SetOpIntersect, Right: right}
	case p.at(token.EXCEPT):
		p.next()
		right := p.parseSelectBody()
		return &core.SelectBody{Left: left, Op: core.SetOpExcept, Right: right}
	default:
		return &core.SelectBody{Left: left}
	}
}

// parseSelectCoreOrNested handles a parenthesized nested query used as a
// set-expression operand, or a plain SELECT core.
func (p *Parser) parseSelectCoreOrNested() *core.SelectCore {
	if p.at(token.LPAREN) {
		p.next()
		inner := p.parseSelectBody()
		p.expect(token.RPAREN)
		if inner.Right == nil && inner.Op == core.SetOpNone {
			return inner.Left
		}
		// A nested set operation used as an operand: wrap it as a derived
		// table so its references are still reachable from one FROM item.
		return &core.SelectCore{
			From: &core.FromClause{
				Source: &core.DerivedTable{Select: &core.SelectStmt{Body: inner}},
			},
		}
	}
	return p.parseSelectCore()
}

func (p *Parser) parseSelectCore() *core.SelectCore {
	start := p.tok.Pos
	p.expect(token.SELECT)
	distinct := p.match(token.DISTINCT)
	if p.at(token.ALL) {
		p.next()
	}

	columns := p.parseSelectItems()

	var from *core.FromClause
	if p.match(token.FROM) {
		from = p.parseFromClause()
	}

	var where core.Expr
	if p.match(token.WHERE) {
		where = p.parseExpression()
	}

	var groupBy []core.Expr
	if p.at(token.GROUP) {
		p.next()
		p.expect(token.BY)
		groupBy = p.parseExprList()
	}

	var having core.Expr
	if p.match(token.HAVING) {
		having = p.parseExpression()
	}

	var orderBy []core.OrderByItem
	if p.at(token.ORDER) {
		p.next()
		p.expect(token.BY)
		orderBy = p.parseOrderByItems()
	}

	var limit, offset core.Expr
	if p.match(token.LIMIT) {
		limit = p.parseExpression()
	}
	if p.match(token.OFFSET) {
		offset = p.parseExpression()
	}

	return &core.SelectCore{
		NodeInfo: core.NodeInfo{Start: start, Stop: p.tok.Pos},
		Distinct: distinct,
		Columns:  columns,
		From:     from,
		Where:    where,
		GroupBy:  groupBy,
		Having:   having,
		OrderBy:  orderBy,
		Limit:    limit,
		Offset:   offset,
	}
}

func (p *Parser) parseSelectItems() []core.SelectItem {
	var items []core.SelectItem
	for {
		items = append(items, p.parseSelectItem())
		if !p.match(token.COMMA) {
			break
		}
	}
	return items
}

func (p *Parser) parseSelectItem() core.SelectItem {
	if p.at(token.STAR) {
		p.next()
		return core.SelectItem{Star: true}
	}
	// t.* requires three tokens of lookahead (IDENT DOT STAR).
	if p.at(token.IDENT) && p.peek.Type == token.DOT && p.peek2.Type == token.STAR {
		table := p.tok.Literal
		p.next()
		p.next()
		p.next()
		return core.SelectItem{TableStar: table}
	}
	expr := p.parseExpression()
	return p.finishSelectItem(expr)
}

func (p *Parser) finishSelectItem(expr core.Expr) core.SelectItem {
	alias := ""
	if p.match(token.AS) {
		alias = p.parseIdentText()
	} else if p.at(token.IDENT) {
		alias = p.parseIdentText()
	}
	return core.SelectItem{Expr: expr, Alias: alias}
}

func (p *Parser) parseExprList() []core.Expr {
	var exprs []core.Expr
	for {
		exprs = append(exprs, p.parseExpression())
		if !p.match(token.COMMA) {
			break
		}
	}
	return exprs
}

func (p *Parser) parseOrderByItems() []core.OrderByItem {
	var items []core.OrderByItem
	for {
		expr := p.parseExpression()
		desc := p.match(token.DESC)
		if !desc {
			p.match(token.ASC)
		}
		items = append(items, core.OrderByItem{Expr: expr, Desc: desc})
		if !p.match(token.COMMA) {
			break
		}
	}
	return items
}

func (p *Parser) parseIdentText() string {
	lit := p.tok.Literal
	if p.at(token.IDENT) || token.IsKeyword(p.tok.Type) {
		p.next()
		return lit
	}
	p.fail(fmt.Sprintf("expected identifier, got %q", p.tok.Literal))
	return ""
}
