// Package executor walks the parse tree and runs the program.
package executor

import (
	"fmt"
	"io"
	"os"

	"github.com/ztrue/tracerr"

	"github.com/pontaoski/pasgo/ast"
	"github.com/pontaoski/pasgo/errors"
	"github.com/pontaoski/pasgo/types"
)

// Value is the result of evaluating an expression node. Statement nodes
// yield nil.
type Value interface {
	isValue()
}

type Real float64

func (v Real) isValue() {}

type Boolean bool

func (v Boolean) isValue() {}

type String string

func (v String) isValue() {}

type Executor struct {
	out      io.Writer
	reporter *errors.Reporter
	line     int
}

func New(out io.Writer, reporter *errors.Reporter) *Executor {
	if out == nil {
		out = os.Stdout
	}
	return &Executor{
		out:      out,
		reporter: reporter,
	}
}

// Execute runs the program in one depth-first traversal. A runtime error is
// reported, stops the traversal immediately and comes back as a
// errors.Diagnostic; anything else escaping the walk is a programming error
// and comes back wrapped with its stack.
func (ex *Executor) Execute(programNode *ast.Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if d, ok := r.(errors.Diagnostic); ok {
				err = d
				return
			}
			if rerr, ok := r.(error); ok {
				err = tracerr.Wrap(rerr)
				return
			}
			panic(r)
		}
	}()

	ex.visit(programNode)
	return nil
}

func (ex *Executor) visit(node *ast.Node) Value {
	switch node.Kind {
	case ast.PROGRAM:
		return ex.visit(node.Children[0])
	case ast.COMPOUND, ast.ASSIGN, ast.LOOP, ast.WRITE, ast.WRITELN, ast.IF, ast.SELECT:
		return ex.visitStatement(node)
	case ast.TEST:
		return Boolean(ex.boolean(node.Children[0]))
	case ast.NOT:
		return Boolean(!ex.boolean(node.Children[0]))
	}
	return ex.visitExpression(node)
}

func (ex *Executor) visitStatement(statementNode *ast.Node) Value {
	ex.line = statementNode.Line

	switch statementNode.Kind {
	case ast.COMPOUND:
		for _, child := range statementNode.Children {
			ex.visit(child)
		}
	case ast.ASSIGN:
		ex.visitAssign(statementNode)
	case ast.LOOP:
		ex.visitLoop(statementNode)
	case ast.WRITE:
		ex.printValue(statementNode.Children)
	case ast.WRITELN:
		if len(statementNode.Children) > 0 {
			ex.printValue(statementNode.Children)
		}
		fmt.Fprintln(ex.out)
	case ast.IF:
		ex.visitIf(statementNode)
	case ast.SELECT:
		ex.visitSelect(statementNode)
	}
	return nil
}

func (ex *Executor) visitAssign(assignNode *ast.Node) {
	lhs := assignNode.Children[0]
	rhs := assignNode.Children[1]

	// Only reals can be assigned.
	value := ex.real(rhs)

	if lhs.Entry == nil {
		panic(fmt.Errorf("assignment to unresolved variable '%s' on line %d", lhs.Text, ex.line))
	}
	lhs.Entry.SetValue(value)
}

// visitLoop runs the children in order until a TEST child evaluates true.
// The test may sit anywhere in the sequence, ending that pass early; the
// children before it always run at least once.
func (ex *Executor) visitLoop(loopNode *ast.Node) {
	for {
		exit := false
		for _, child := range loopNode.Children {
			value := ex.visit(child)

			if child.Kind == ast.TEST && bool(value.(Boolean)) {
				exit = true
				break
			}
		}
		if exit {
			break
		}
	}
}

func (ex *Executor) visitIf(ifNode *ast.Node) {
	if ex.boolean(ifNode.Children[0]) {
		ex.visit(ifNode.Children[1])
	} else if len(ifNode.Children) >= 3 {
		ex.visit(ifNode.Children[len(ifNode.Children)-1])
	}
}

// visitSelect evaluates the discriminant once and runs the statement of the
// first branch with a matching constant. No fallthrough; no match, no
// effect.
func (ex *Executor) visitSelect(selectNode *ast.Node) {
	value := ex.visit(selectNode.Children[0])

	for _, branch := range selectNode.Children[1:] {
		if len(branch.Children) < 2 {
			continue
		}
		for _, constantNode := range branch.Children[0].Children {
			if equalValues(value, ex.visit(constantNode)) {
				ex.visit(branch.Children[1])
				return
			}
		}
	}
}

func (ex *Executor) printValue(children []*ast.Node) {
	fieldWidth := -1
	decimalPlaces := 0

	if len(children) > 1 {
		fieldWidth = int(ex.real(children[1]))

		if len(children) > 2 {
			decimalPlaces = int(ex.real(children[2]))
		}
	}

	valueNode := children[0]
	if valueNode.Kind == ast.VARIABLE {
		value := ex.real(valueNode)
		if fieldWidth >= 0 {
			fmt.Fprintf(ex.out, "%*.*f", fieldWidth, decimalPlaces, value)
		} else {
			fmt.Fprintf(ex.out, "%v", value)
		}
	} else { // STRING_CONSTANT
		value := ex.str(valueNode)
		if fieldWidth > 0 {
			fmt.Fprintf(ex.out, "%*s", fieldWidth, string(value))
		} else {
			fmt.Fprint(ex.out, string(value))
		}
	}
}

func (ex *Executor) visitExpression(expressionNode *ast.Node) Value {
	switch expressionNode.Kind {
	case ast.VARIABLE:
		if expressionNode.Entry == nil {
			panic(fmt.Errorf("unresolved variable '%s' on line %d", expressionNode.Text, ex.line))
		}
		return Real(expressionNode.Entry.Value())

	case ast.INTEGER_CONSTANT:
		value, ok := expressionNode.Value.(types.Integer)
		if !ok {
			panic(fmt.Errorf("integer constant without a value on line %d", ex.line))
		}
		return Real(float64(value))

	case ast.REAL_CONSTANT:
		value, ok := expressionNode.Value.(types.Real)
		if !ok {
			panic(fmt.Errorf("real constant without a value on line %d", ex.line))
		}
		return Real(float64(value))

	case ast.STRING_CONSTANT:
		value, ok := expressionNode.Value.(types.String)
		if !ok {
			panic(fmt.Errorf("string constant without a value on line %d", ex.line))
		}
		return String(value)

	case ast.NEGATE:
		return Real(-ex.real(expressionNode.Children[0]))

	// AND and OR evaluate both operands, always; the language has no
	// short-circuit.
	case ast.AND:
		first := ex.boolean(expressionNode.Children[0])
		second := ex.boolean(expressionNode.Children[1])
		return Boolean(first && second)

	case ast.OR:
		first := ex.boolean(expressionNode.Children[0])
		second := ex.boolean(expressionNode.Children[1])
		return Boolean(first || second)
	}

	// Binary operators over two reals.
	value1 := ex.real(expressionNode.Children[0])
	value2 := ex.real(expressionNode.Children[1])

	switch expressionNode.Kind {
	case ast.EQ:
		return Boolean(value1 == value2)
	case ast.LT:
		return Boolean(value1 < value2)
	case ast.LE:
		return Boolean(value1 <= value2)
	case ast.GT:
		return Boolean(value1 > value2)
	case ast.GE:
		return Boolean(value1 >= value2)
	case ast.NE:
		return Boolean(value1 != value2)
	case ast.ADD:
		return Real(value1 + value2)
	case ast.SUBTRACT:
		return Real(value1 - value2)
	case ast.MULTIPLY:
		return Real(value1 * value2)
	case ast.DIVIDE:
		if value2 == 0.0 {
			ex.runtimeError(expressionNode, "Division by zero")
		}
		return Real(value1 / value2)
	}

	panic(fmt.Errorf("%s is not an expression node", expressionNode.Kind))
}

// real evaluates node and requires a Real result. Any other tag is a broken
// evaluation contract, not a user error.
func (ex *Executor) real(node *ast.Node) float64 {
	value, ok := ex.visit(node).(Real)
	if !ok {
		panic(fmt.Errorf("%s node did not evaluate to a real on line %d", node.Kind, ex.line))
	}
	return float64(value)
}

func (ex *Executor) boolean(node *ast.Node) bool {
	value, ok := ex.visit(node).(Boolean)
	if !ok {
		panic(fmt.Errorf("%s node did not evaluate to a boolean on line %d", node.Kind, ex.line))
	}
	return bool(value)
}

func (ex *Executor) str(node *ast.Node) String {
	value, ok := ex.visit(node).(String)
	if !ok {
		panic(fmt.Errorf("%s node did not evaluate to a string on line %d", node.Kind, ex.line))
	}
	return value
}

func equalValues(a, b Value) bool {
	switch av := a.(type) {
	case Real:
		bv, ok := b.(Real)
		return ok && av == bv
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	}
	return false
}

// runtimeError reports and halts the run; there is no state to recover to.
func (ex *Executor) runtimeError(node *ast.Node, message string) {
	d := errors.Diagnostic{
		Kind:    errors.Runtime,
		Line:    ex.line,
		Message: message,
		Text:    node.Text,
	}
	ex.reporter.Report(d)
	panic(d)
}
