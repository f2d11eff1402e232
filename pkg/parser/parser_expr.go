package parser

// Expression precedence parsing, lowest to highest:
//
//	expression     → or_expr
//	or_expr        → and_expr (OR and_expr)*
//	and_expr       → not_expr (AND not_expr)*
//	not_expr       → NOT not_expr | comparison
//	comparison     → concat ([NOT] (IN|BETWEEN|LIKE) ... | IS [NOT] NULL | cmp_op concat)?
//	concat         → addition ("||" addition)*
//	addition       → multiplication (("+"|"-") multiplication)*
//	multiplication → unary (("*"|"/"|"%") unary)*
//	unary          → ("-"|"+") unary | primary

import (
	"github.com/datastx/featherflow/pkg/core"
	"github.com/datastx/featherflow/pkg/token"
)

func (p *Parser) parseExpression() core.Expr { return p.parseOrExpr() }

func (p *Parser) parseOrExpr() core.Expr {
	left := p.parseAndExpr()
	for p.match(token.OR) {
		right := p.parseAndExpr()
		left = &core.BinaryExpr{Left: left, Op: token.OR, Right: right}
	}
	return left
}

func (p *Parser) parseAndExpr() core.Expr {
	left := p.parseNotExpr()
	for p.match(token.AND) {
		right := p.parseNotExpr()
		left = &core.BinaryExpr{Left: left, Op: token.AND, Right: right}
	}
	return left
}

func (p *Parser) parseNotExpr() core.Expr {
	if p.match(token.NOT) {
		return &core.UnaryExpr{Op: token.NOT, Expr: p.parseNotExpr()}
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() core.Expr {
	left := p.parseConcat()

	not := p.match(token.NOT)
	switch {
	case p.at(token.IN):
		return p.parseInExpr(left, not)
	case p.at(token.BETWEEN):
		return p.parseBetweenExpr(left, not)
	case p.at(token.LIKE):
		return p.parseLikeExpr(left, not)
	}
	if not {
		return &core.UnaryExpr{Op: token.NOT, Expr: left}
	}

	if p.match(token.IS) {
		isNot := p.match(token.NOT)
		switch {
		case p.match(token.NULL):
			return &core.IsNullExpr{Expr: left, Not: isNot}
		case p.match(token.TRUE):
			return &core.IsBoolExpr{Expr: left, Not: isNot, Value: true}
		case p.match(token.FALSE):
			return &core.IsBoolExpr{Expr: left, Not: isNot, Value: false}
		}
		p.fail("expected NULL/TRUE/FALSE after IS")
		return left
	}

	switch p.tok.Type {
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE:
		op := p.tok.Type
		p.next()
		return &core.BinaryExpr{Left: left, Op: op, Right: p.parseConcat()}
	}
	return left
}

func (p *Parser) parseInExpr(left core.Expr, not bool) core.Expr {
	p.next() // IN
	p.expect(token.LPAREN)
	if p.at(token.SELECT) || p.at(token.WITH) {
		sub := p.parseSelectStmt()
		p.expect(token.RPAREN)
		return &core.InExpr{Expr: left, Not: not, Query: sub}
	}
	values := p.parseExprList()
	p.expect(token.RPAREN)
	return &core.InExpr{Expr: left, Not: not, Values: values}
}

func (p *Parser) parseBetweenExpr(left core.Expr, not bool) core.Expr {
	p.next() // BETWEEN
	low := p.parseConcat()
	p.expect(token.AND)
	high := p.parseConcat()
	return &core.BetweenExpr{Expr: left, Not: not, Low: low, High: high}
}

func (p *Parser) parseLikeExpr(left core.Expr, not bool) core.Expr {
	op := p.tok.Type
	p.next() // LIKE
	pattern := p.parseConcat()
	return &core.LikeExpr{Expr: left, Not: not, Pattern: pattern, Op: op}
}

func (p *Parser) parseConcat() core.Expr {
	left := p.parseAddition()
	for p.at(token.DPIPE) {
		p.next()
		right := p.parseAddition()
		left = &core.BinaryExpr{Left: left, Op: token.DPIPE, Right: right}
	}
	return left
}

func (p *Parser) parseAddition() core.Expr {
	left := p.parseMultiplication()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := p.tok.Type
		p.next()
		right := p.parseMultiplication()
		left = &core.BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplication() core.Expr {
	left := p.parseUnary()
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.MOD) {
		op := p.tok.Type
		p.next()
		right := p.parseUnary()
		left = &core.BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() core.Expr {
	if p.at(token.MINUS) || p.at(token.PLUS) {
		op := p.tok.Type
		p.next()
		return &core.UnaryExpr{Op: op, Expr: p.parseUnary()}
	}
	return p.parsePrimary()
}
