package ast

import (
	"math"

	"github.com/segmentio/fasthash/fnv1a"

	"github.com/pontaoski/pasgo/symtab"
	"github.com/pontaoski/pasgo/types"
)

type NodeKind int

const (
	PROGRAM NodeKind = iota
	COMPOUND
	ASSIGN
	LOOP
	TEST
	NOT
	WRITE
	WRITELN
	IF
	SELECT
	SELECT_BRANCH
	SELECT_CONSTANTS
	NEGATE
	ADD
	SUBTRACT
	MULTIPLY
	DIVIDE
	EQ
	LT
	LE
	GT
	GE
	NE
	AND
	OR
	VARIABLE
	INTEGER_CONSTANT
	REAL_CONSTANT
	STRING_CONSTANT
)

func (k NodeKind) String() string {
	data := map[NodeKind]string{
		PROGRAM:          "PROGRAM",
		COMPOUND:         "COMPOUND",
		ASSIGN:           "ASSIGN",
		LOOP:             "LOOP",
		TEST:             "TEST",
		NOT:              "NOT",
		WRITE:            "WRITE",
		WRITELN:          "WRITELN",
		IF:               "IF",
		SELECT:           "SELECT",
		SELECT_BRANCH:    "SELECT_BRANCH",
		SELECT_CONSTANTS: "SELECT_CONSTANTS",
		NEGATE:           "NEGATE",
		ADD:              "ADD",
		SUBTRACT:         "SUBTRACT",
		MULTIPLY:         "MULTIPLY",
		DIVIDE:           "DIVIDE",
		EQ:               "EQ",
		LT:               "LT",
		LE:               "LE",
		GT:               "GT",
		GE:               "GE",
		NE:               "NE",
		AND:              "AND",
		OR:               "OR",
		VARIABLE:         "VARIABLE",
		INTEGER_CONSTANT: "INTEGER_CONSTANT",
		REAL_CONSTANT:    "REAL_CONSTANT",
		STRING_CONSTANT:  "STRING_CONSTANT",
	}
	return data[k]
}

// Node is one parse tree node. Every node belongs to exactly one parent; the
// Entry pointer on VARIABLE nodes is a non-owning reference into the symbol
// table, which outlives the tree.
type Node struct {
	Kind     NodeKind
	Line     int
	Text     string
	Entry    *symtab.Entry
	Value    types.Literal
	Children []*Node
}

func New(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// Adopt appends child. Nil children are dropped so that recovered parse
// errors leave a well-formed (if incomplete) tree.
func (n *Node) Adopt(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

// Clone deep-copies the subtree. The symbol table entry is shared, not
// copied; it is a back-reference, not a child.
func (n *Node) Clone() *Node {
	copied := *n
	copied.Children = make([]*Node, 0, len(n.Children))
	for _, child := range n.Children {
		copied.Children = append(copied.Children, child.Clone())
	}
	return &copied
}

// Fingerprint hashes the tree's structure: kinds, texts, literal values and
// child order. Line numbers and symbol entries are left out, so two parses
// of the same token stream fingerprint identically.
func (n *Node) Fingerprint() uint64 {
	return n.fingerprint(fnv1a.Init64)
}

func (n *Node) fingerprint(h uint64) uint64 {
	h = fnv1a.AddUint64(h, uint64(n.Kind))
	h = fnv1a.AddString64(h, n.Text)

	switch v := n.Value.(type) {
	case types.Integer:
		h = fnv1a.AddUint64(h, uint64(v))
	case types.Real:
		h = fnv1a.AddUint64(h, math.Float64bits(float64(v)))
	case types.String:
		h = fnv1a.AddString64(h, string(v))
	}

	h = fnv1a.AddUint64(h, uint64(len(n.Children)))
	for _, child := range n.Children {
		h = child.fingerprint(h)
	}
	return h
}
