package parser

import (
	"github.com/datastx/featherflow/pkg/core"
	"github.com/datastx/featherflow/pkg/token"
)

// parseFromClause parses a FROM clause: a head relation followed by zero or
// more JOINs (explicit keyword joins or implicit comma joins).
func (p *Parser) parseFromClause() *core.FromClause {
	start := p.tok.Pos
	source := p.parseTableRef()
	from := &core.FromClause{NodeInfo: core.NodeInfo{Start: start}, Source: source}

	for {
		if p.match(token.COMMA) {
			right := p.parseTableRef()
			from.Joins = append(from.Joins, &core.Join{Type: core.JoinComma, Right: right})
			continue
		}
		joinType, ok := p.matchJoinKeyword()
		if !ok {
			break
		}
		right := p.parseTableRef()
		join := &core.Join{Type: joinType, Right: right}
		if p.match(token.ON) {
			join.Condition = p.parseExpression()
		} else if p.match(token.USING) {
			p.expect(token.LPAREN)
			for {
				join.Using = append(join.Using, p.parseIdentText())
				if !p.match(token.COMMA) {
					break
				}
			}
			p.expect(token.RPAREN)
		}
		from.Joins = append(from.Joins, join)
	}

	from.Stop = p.tok.Pos
	return from
}

// matchJoinKeyword consumes a JOIN-introducing keyword sequence and
// returns the resolved join type.
func (p *Parser) matchJoinKeyword() (core.JoinType, bool) {
	switch {
	case p.at(token.JOIN):
		p.next()
		return core.JoinType(core.JoinInner), true
	case p.at(token.INNER):
		p.next()
		p.expect(token.JOIN)
		return core.JoinType(core.JoinInner), true
	case p.at(token.LEFT):
		p.next()
		p.match(token.OUTER)
		p.expect(token.JOIN)
		return core.JoinType(core.JoinLeft), true
	case p.at(token.RIGHT):
		p.next()
		p.match(token.OUTER)
		p.expect(token.JOIN)
		return core.JoinType(core.JoinRight), true
	case p.at(token.FULL):
		p.next()
		p.match(token.OUTER)
		p.expect(token.JOIN)
		return core.JoinType(core.JoinFull), true
	case p.at(token.CROSS):
		p.next()
		p.expect(token.JOIN)
		return core.JoinType(core.JoinCross), true
	default:
		return "", false
	}
}

// parseTableRef parses one FROM-clause relation: a named table, a derived
// (sub)query, a table function, or a parenthesized nested join.
func (p *Parser) parseTableRef() core.TableRef {
	start := p.tok.Pos

	if p.at(token.LPAREN) {
		return p.parseParenRelation(start)
	}

	if p.match(token.LATERAL) {
		p.expect(token.LPAREN)
		sel := p.parseSelectStmt()
		p.expect(token.RPAREN)
		alias := p.parseOptionalAlias()
		return &core.LateralTable{
			NodeInfo: core.NodeInfo{Start: start, Stop: p.tok.Pos},
			Select:   sel,
			Alias:    alias,
		}
	}

	parts := []string{p.parseIdentText()}
	for p.match(token.DOT) {
		parts = append(parts, p.parseIdentText())
	}
	name := parts[len(parts)-1]
	var schema, catalog string
	switch len(parts) {
	case 2:
		schema = parts[0]
	case 3:
		catalog, schema = parts[0], parts[1]
	}

	if p.at(token.LPAREN) {
		call := p.finishFuncCall(joinParts(parts))
		alias := p.parseOptionalAlias()
		return &core.TableFunction{
			NodeInfo: core.NodeInfo{Start: start, Stop: p.tok.Pos},
			Call:     call,
			Alias:    alias,
		}
	}

	alias := p.parseOptionalAlias()
	return &core.TableName{
		NodeInfo: core.NodeInfo{Start: start, Stop: p.tok.Pos},
		Catalog:  catalog,
		Schema:   schema,
		Name:     name,
		Alias:    alias,
	}
}

func joinParts(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "." + p
	}
	return out
}

// parseParenRelation disambiguates `(` starting a derived subquery from `(`
// starting a nested join, e.g. FROM (a JOIN b ON ...) JOIN c ON ...
func (p *Parser) parseParenRelation(start token.Position) core.TableRef {
	p.next() // consume '('
	if p.at(token.SELECT) || p.at(token.WITH) {
		sel := p.parseSelectStmt()
		p.expect(token.RPAREN)
		alias := p.parseOptionalAlias()
		return &core.DerivedTable{
			NodeInfo: core.NodeInfo{Start: start, Stop: p.tok.Pos},
			Select:   sel,
			Alias:    alias,
		}
	}
	inner := p.parseFromClause()
	p.expect(token.RPAREN)
	return &core.NestedJoin{
		NodeInfo: core.NodeInfo{Start: start, Stop: p.tok.Pos},
		From:     inner,
	}
}

func (p *Parser) parseOptionalAlias() string {
	if p.match(token.AS) {
		return p.parseIdentText()
	}
	if p.at(token.IDENT) && !token.IsKeyword(p.tok.Type) {
		return p.parseIdentText()
	}
	return ""
}
