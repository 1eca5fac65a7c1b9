// Package exprtree is the in-memory expression tree the parser builds and
// the bytecode writer flattens.
package exprtree

import "github.com/cwbudde/clc/internal/token"

// Node owns its Token and up to two children. Child1/Child2 ownership flows
// downward only; Parent is a navigation-only back-pointer that must never
// be used to manage lifetime.
type Node struct {
	Tok token.Token
	Child1 *Node
	Child2 *Node
	Parent *Node
}

// New builds a leaf node for tok.
func New(tok token.Token) *Node {
	return &Node{Tok: tok}
}

// SetChild1 attaches child as Child1, wiring its Parent back-pointer.
func (n *Node) SetChild1(child *Node) {
	n.Child1 = child
	if child != nil {
		child.Parent = n
	}
}

// SetChild2 attaches child as Child2, wiring its Parent back-pointer.
func (n *Node) SetChild2(child *Node) {
	n.Child2 = child
	if child != nil {
		child.Parent = n
	}
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return n.Child1 == nil && n.Child2 == nil }

// Flatten walks n in [op, child1, child2] order, matching the bytecode
// writer's flattening procedure: for a binary operator the
// left operand is emitted before the right; a ternary `?` emits itself,
// then its condition (Child1), then its `:` node (Child2), whose own
// Child1/Child2 are the true/false branches in that order. Because `?`
// and `:` already carry that shape via Child1/Child2, the same recursive
// walk produces the correct order for every node kind.
func Flatten(root *Node) []token.Token {
	var out []token.Token
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		out = append(out, n.Tok)
		walk(n.Child1)
		walk(n.Child2)
	}
	walk(root)
	return out
}
