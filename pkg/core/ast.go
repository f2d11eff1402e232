// Package core defines the SQL abstract syntax tree the reference extractor
// walks, plus the Model record the loader and collection build around it.
package core

import "github.com/datastx/featherflow/pkg/token"

// Node is the base interface every AST node satisfies.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() token.Position
	// End returns the position of the character immediately after the node.
	End() token.Position
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a marker interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// TableRef is anything that can appear as a FROM-clause relation.
type TableRef interface {
	Node
	tableRefNode()
}

// NodeInfo carries source position information shared by every node.
// Embed it in concrete node types rather than duplicating Pos()/End().
type NodeInfo struct {
	Start token.Position
	Stop  token.Position
}

// Pos returns the node's starting position.
func (n NodeInfo) Pos() token.Position { return n.Start }

// End returns the node's ending position.
func (n NodeInfo) End() token.Position { return n.Stop }
