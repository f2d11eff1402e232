package parser

import (
	"github.com/datastx/featherflow/pkg/core"
	"github.com/datastx/featherflow/pkg/token"
)

// parsePrimary parses a primary expression: literal, identifier/compound
// identifier, function call, CASE, CAST, (sub)query, EXISTS, or a
// parenthesized expression.
func (p *Parser) parsePrimary() core.Expr {
	switch p.tok.Type {
	case token.NUMBER:
		lit := p.tok.Literal
		p.next()
		return &core.Literal{Type: core.LiteralNumber, Value: lit}
	case token.STRING:
		lit := p.tok.Literal
		p.next()
		return &core.Literal{Type: core.LiteralString, Value: lit}
	case token.TRUE:
		p.next()
		return &core.Literal{Type: core.LiteralBool, Value: "true"}
	case token.FALSE:
		p.next()
		return &core.Literal{Type: core.LiteralBool, Value: "false"}
	case token.NULL:
		p.next()
		return &core.Literal{Type: core.LiteralNull}
	case token.CASE:
		return p.parseCaseExpr()
	case token.CAST:
		return p.parseCastExpr()
	case token.EXISTS:
		p.next()
		p.expect(token.LPAREN)
		sub := p.parseSelectStmt()
		p.expect(token.RPAREN)
		return &core.ExistsExpr{Select: sub}
	case token.LPAREN:
		return p.parseParenOrSubqueryExpr()
	case token.IDENT:
		return p.parseIdentOrCallExpr()
	default:
		if token.IsKeyword(p.tok.Type) {
			// A bare keyword used as a function/identifier name (e.g.
			// CURRENT_DATE spelled as separate keyword tokens is not
			// modeled; treat any other keyword-as-primary as an
			// identifier so dialect keyword drift degrades gracefully).
			return p.parseIdentOrCallExpr()
		}
		p.fail("expected expression, got " + p.tok.Literal)
		p.next()
		return &core.Literal{Type: core.LiteralNull}
	}
}

func (p *Parser) parseParenOrSubqueryExpr() core.Expr {
	p.next() // (
	if p.at(token.SELECT) || p.at(token.WITH) {
		sub := p.parseSelectStmt()
		p.expect(token.RPAREN)
		return &core.SubqueryExpr{Select: sub}
	}
	inner := p.parseExpression()
	p.expect(token.RPAREN)
	return &core.ParenExpr{Expr: inner}
}

// parseIdentOrCallExpr parses a (possibly qualified) identifier, or a
// function call if it is followed by '('.
func (p *Parser) parseIdentOrCallExpr() core.Expr {
	parts := []string{p.parseIdentText()}
	for p.at(token.DOT) && p.peek.Type != token.STAR {
		p.next()
		parts = append(parts, p.parseIdentText())
	}
	name := joinParts(parts)

	if p.at(token.LPAREN) {
		return p.finishFuncCall(name)
	}

	if len(parts) == 1 {
		return &core.ColumnRef{Column: parts[0]}
	}
	table := joinParts(parts[:len(parts)-1])
	return &core.ColumnRef{Table: table, Column: parts[len(parts)-1]}
}

// finishFuncCall parses the "(args)" suffix of a call whose name has
// already been consumed.
func (p *Parser) finishFuncCall(name string) *core.FuncCall {
	p.expect(token.LPAREN)
	call := &core.FuncCall{Name: name}

	if p.at(token.STAR) {
		p.next()
		call.Star = true
	} else if !p.at(token.RPAREN) {
		call.Distinct = p.match(token.DISTINCT)
		call.Args = p.parseExprList()
	}
	p.expect(token.RPAREN)

	if p.match(token.FILTER) {
		p.expect(token.LPAREN)
		p.expect(token.WHERE)
		call.Filter = p.parseExpression()
		p.expect(token.RPAREN)
	}

	if p.match(token.OVER) {
		call.Window = p.parseWindowSpec()
	}

	return call
}

func (p *Parser) parseWindowSpec() *core.WindowSpec {
	if p.at(token.IDENT) {
		name := p.tok.Literal
		p.next()
		return &core.WindowSpec{Name: name}
	}
	p.expect(token.LPAREN)
	spec := &core.WindowSpec{}
	if p.match(token.PARTITION) {
		p.expect(token.BY)
		spec.PartitionBy = p.parseExprList()
	}
	if p.at(token.ORDER) {
		p.next()
		p.expect(token.BY)
		spec.OrderBy = p.parseOrderByItems()
	}
	// Frame clauses (ROWS/RANGE/GROUPS ...) are not needed by the
	// reference extractor and are skipped up to the closing paren.
	depth := 1
	for depth > 0 && p.tok.Type != token.EOF {
		if p.at(token.LPAREN) {
			depth++
		} else if p.at(token.RPAREN) {
			depth--
			if depth == 0 {
				break
			}
		}
		p.next()
	}
	p.expect(token.RPAREN)
	return spec
}

func (p *Parser) parseCaseExpr() core.Expr {
	p.next() // CASE
	expr := &core.CaseExpr{}
	if !p.at(token.WHEN) {
		expr.Operand = p.parseExpression()
	}
	for p.match(token.WHEN) {
		cond := p.parseExpression()
		p.expect(token.THEN)
		result := p.parseExpression()
		expr.Whens = append(expr.Whens, core.WhenClause{Condition: cond, Result: result})
	}
	if p.match(token.ELSE) {
		expr.Else = p.parseExpression()
	}
	p.expect(token.END)
	return expr
}

func (p *Parser) parseCastExpr() core.Expr {
	p.next() // CAST
	p.expect(token.LPAREN)
	inner := p.parseExpression()
	p.expect(token.AS)
	typeName := p.parseTypeName()
	p.expect(token.RPAREN)
	return &core.CastExpr{Expr: inner, TypeName: typeName}
}

// parseTypeName parses a (possibly parameterized, e.g. VARCHAR(255)) type
// name. Only the textual form matters to the extractor, which never
// inspects CastExpr.TypeName.
func (p *Parser) parseTypeName() string {
	name := p.parseIdentText()
	if p.match(token.LPAREN) {
		for !p.at(token.RPAREN) && p.tok.Type != token.EOF {
			p.next()
		}
		p.expect(token.RPAREN)
	}
	return name
}
