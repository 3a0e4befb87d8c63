package ast

import (
	"testing"

	"github.com/pontaoski/pasgo/symtab"
	"github.com/pontaoski/pasgo/types"
)

func TestAdoptKeepsOrderAndDropsNil(t *testing.T) {
	parent := New(COMPOUND)
	first := New(ASSIGN)
	second := New(WRITE)

	parent.Adopt(first)
	parent.Adopt(nil)
	parent.Adopt(second)

	if len(parent.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(parent.Children))
	}
	if parent.Children[0] != first || parent.Children[1] != second {
		t.Fatalf("children out of order")
	}
}

func TestCloneCopiesTreeButSharesEntry(t *testing.T) {
	st := symtab.New()
	entry := st.Enter("i")

	variable := New(VARIABLE)
	variable.Text = "i"
	variable.Entry = entry

	op := New(ADD)
	op.Adopt(variable)

	clone := op.Clone()
	if clone == op || clone.Children[0] == variable {
		t.Fatalf("clone shares nodes with the original")
	}
	if clone.Children[0].Entry != entry {
		t.Fatalf("clone should keep the symbol table back-reference")
	}

	clone.Children[0].Text = "j"
	if variable.Text != "i" {
		t.Fatalf("mutating the clone reached the original")
	}
}

func buildSmallTree(value types.Literal) *Node {
	program := New(PROGRAM)
	program.Text = "t"

	compound := New(COMPOUND)
	compound.Line = 2

	constant := New(INTEGER_CONSTANT)
	constant.Value = value

	write := New(WRITE)
	write.Adopt(constant)
	compound.Adopt(write)
	program.Adopt(compound)
	return program
}

func TestFingerprintIsStructural(t *testing.T) {
	a := buildSmallTree(types.Integer(7))
	b := buildSmallTree(types.Integer(7))

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("identical trees fingerprint differently")
	}

	// Line numbers are not structure.
	b.Children[0].Line = 99
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("line number changed the fingerprint")
	}

	c := buildSmallTree(types.Integer(8))
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("different literals fingerprint identically")
	}

	d := buildSmallTree(types.Integer(7))
	d.Children[0].Children[0].Kind = WRITELN
	if a.Fingerprint() == d.Fingerprint() {
		t.Fatalf("different kinds fingerprint identically")
	}
}
