// Package parser builds the parse tree with a one-token-lookahead recursive
// descent over the token stream.
package parser

import (
	"github.com/pontaoski/pasgo/ast"
	"github.com/pontaoski/pasgo/errors"
	"github.com/pontaoski/pasgo/lexer"
	"github.com/pontaoski/pasgo/symtab"
	"github.com/pontaoski/pasgo/types"
)

// Token classification tables. Initialized once, read-only afterwards.
var (
	statementStarters = map[types.TokenKind]bool{
		types.BEGIN:      true,
		types.IDENTIFIER: true,
		types.REPEAT:     true,
		types.WRITE:      true,
		types.WRITELN:    true,
		types.WHILE:      true,
		types.IF:         true,
		types.FOR:        true,
		types.CASE:       true,
	}

	// Tokens that can immediately follow a statement; error recovery skips
	// forward until one of these.
	statementFollowers = map[types.TokenKind]bool{
		types.SEMICOLON:   true,
		types.END:         true,
		types.UNTIL:       true,
		types.END_OF_FILE: true,
	}

	relationalOperators = map[types.TokenKind]ast.NodeKind{
		types.EQUALS:         ast.EQ,
		types.LESS_THAN:      ast.LT,
		types.LESS_EQUALS:    ast.LE,
		types.GREATER_THAN:   ast.GT,
		types.GREATER_EQUALS: ast.GE,
		types.NOT_EQUALS:     ast.NE,
	}

	simpleExpressionOperators = map[types.TokenKind]ast.NodeKind{
		types.PLUS:  ast.ADD,
		types.MINUS: ast.SUBTRACT,
	}

	termOperators = map[types.TokenKind]ast.NodeKind{
		types.STAR:  ast.MULTIPLY,
		types.SLASH: ast.DIVIDE,
		types.AND:   ast.AND,
		types.OR:    ast.OR,
	}
)

type Parser struct {
	lexer    *lexer.Lexer
	symtab   *symtab.Symtab
	reporter *errors.Reporter
	current  types.Token
	line     int

	// Strict reports a SEMANTIC error when an identifier is read before any
	// entry for it exists. The language auto-declares either way.
	Strict bool
}

func NewParser(l *lexer.Lexer, st *symtab.Symtab, reporter *errors.Reporter) *Parser {
	return &Parser{
		lexer:    l,
		symtab:   st,
		reporter: reporter,
		line:     1,
	}
}

// ErrorCount is the number of diagnostics reported so far, token errors
// included.
func (p *Parser) ErrorCount() int {
	return p.reporter.Count()
}

func (p *Parser) next() {
	p.current = p.lexer.NextToken()
}

// ParseProgram parses PROGRAM <name> ; <compound-statement> . and returns
// the tree. Errors are recovered; the tree is always returned.
func (p *Parser) ParseProgram() *ast.Node {
	programNode := ast.New(ast.PROGRAM)

	p.next() // first token

	if p.current.Kind == types.PROGRAM {
		p.next() // consume PROGRAM
	} else {
		p.syntaxError("Expecting PROGRAM")
	}

	if p.current.Kind == types.IDENTIFIER {
		programName := p.current.Text
		p.symtab.Enter(programName)
		programNode.Text = programName

		p.next() // consume program name
	} else {
		p.syntaxError("Expecting program name")
	}

	if p.current.Kind == types.SEMICOLON {
		p.next() // consume ;
	} else {
		p.syntaxError("Missing ;")
	}

	if p.current.Kind != types.BEGIN {
		p.syntaxError("Expecting BEGIN")
	}

	programNode.Adopt(p.parseCompoundStatement())

	if p.current.Kind != types.PERIOD {
		p.syntaxError("Expecting .")
	}
	return programNode
}

func (p *Parser) parseStatement() *ast.Node {
	var stmtNode *ast.Node
	savedLine := p.current.Line
	p.line = savedLine

	switch p.current.Kind {
	case types.IDENTIFIER:
		stmtNode = p.parseAssignmentStatement()
	case types.BEGIN:
		stmtNode = p.parseCompoundStatement()
	case types.REPEAT:
		stmtNode = p.parseRepeatStatement()
	case types.WRITE:
		stmtNode = p.parseWriteStatement()
	case types.WRITELN:
		stmtNode = p.parseWritelnStatement()
	case types.WHILE:
		stmtNode = p.parseWhileStatement()
	case types.IF:
		stmtNode = p.parseIfStatement()
	case types.FOR:
		stmtNode = p.parseForStatement()
	case types.CASE:
		stmtNode = p.parseCaseStatement()
	case types.SEMICOLON:
		stmtNode = nil // empty statement
	default:
		p.syntaxError("Unexpected token")

		// Recovery stops at statement followers. A follower reaching this
		// point cannot close the surrounding list (its own terminal never
		// enters parseStatement), so it must be consumed; every error path
		// has to advance the token position or the statement loop stalls.
		if statementFollowers[p.current.Kind] && p.current.Kind != types.END_OF_FILE {
			p.next()
		}
	}

	if stmtNode != nil {
		stmtNode.Line = savedLine
	}
	return stmtNode
}

func (p *Parser) parseStatementList(parentNode *ast.Node, terminal types.TokenKind) {
	for p.current.Kind != terminal && p.current.Kind != types.END_OF_FILE {
		parentNode.Adopt(p.parseStatement())

		// A semicolon separates statements.
		if p.current.Kind == types.SEMICOLON {
			for p.current.Kind == types.SEMICOLON {
				p.next() // consume ;
			}
		} else if statementStarters[p.current.Kind] {
			p.syntaxError("Missing ;")
		}
	}
}

func (p *Parser) parseAssignmentStatement() *ast.Node {
	// The current token is the left-hand-side variable name.
	assignmentNode := ast.New(ast.ASSIGN)

	variableName := p.current.Text
	variableID := p.symtab.Lookup(variableName)
	if variableID == nil {
		variableID = p.symtab.Enter(variableName)
	}

	lhsNode := ast.New(ast.VARIABLE)
	lhsNode.Text = variableName
	lhsNode.Entry = variableID
	assignmentNode.Adopt(lhsNode)

	p.next() // consume the LHS variable

	if p.current.Kind == types.COLON_EQUALS {
		p.next() // consume :=
	} else {
		p.syntaxError("Missing :=")
	}

	assignmentNode.Adopt(p.parseExpression())
	return assignmentNode
}

func (p *Parser) parseCompoundStatement() *ast.Node {
	compoundNode := ast.New(ast.COMPOUND)
	compoundNode.Line = p.current.Line

	p.next() // consume BEGIN
	p.parseStatementList(compoundNode, types.END)

	if p.current.Kind == types.END {
		p.next() // consume END
	} else {
		p.syntaxError("Expecting END")
	}

	return compoundNode
}

func (p *Parser) parseRepeatStatement() *ast.Node {
	loopNode := ast.New(ast.LOOP)
	p.next() // consume REPEAT

	p.parseStatementList(loopNode, types.UNTIL)

	if p.current.Kind == types.UNTIL {
		testNode := ast.New(ast.TEST)
		p.line = p.current.Line
		testNode.Line = p.line
		p.next() // consume UNTIL

		testNode.Adopt(p.parseExpression())

		// The TEST node is the LOOP node's final child.
		loopNode.Adopt(testNode)
	} else {
		p.syntaxError("Expecting UNTIL")
	}

	return loopNode
}

// parseWhileStatement desugars WHILE into the repeat-until loop primitive:
// the test condition is negated so the loop exits once the while condition
// turns false.
func (p *Parser) parseWhileStatement() *ast.Node {
	loopNode := ast.New(ast.LOOP)
	p.next() // consume WHILE

	testNode := ast.New(ast.TEST)
	notNode := ast.New(ast.NOT)
	testNode.Adopt(notNode)

	p.line = p.current.Line
	testNode.Line = p.line

	notNode.Adopt(p.parseExpression())
	loopNode.Adopt(testNode)

	if p.current.Kind == types.DO {
		p.next() // consume DO
	} else {
		p.syntaxError("Expecting DO")
	}

	loopNode.Adopt(p.parseStatement())
	return loopNode
}

func (p *Parser) parseIfStatement() *ast.Node {
	ifNode := ast.New(ast.IF)
	p.line = p.current.Line
	ifNode.Line = p.line
	p.next() // consume IF

	ifNode.Adopt(p.parseExpression())

	if p.current.Kind == types.THEN {
		p.next() // consume THEN
		ifNode.Adopt(p.parseStatement())
	} else {
		p.syntaxError("Expecting THEN")
	}

	if p.current.Kind == types.ELSE {
		p.next() // consume ELSE
		ifNode.Adopt(p.parseStatement())
	}
	return ifNode
}

// parseForStatement desugars FOR into a compound holding the initializing
// assignment and a loop that tests the control variable against the bound,
// runs the body, then increments or decrements by 1. The control variable
// node is cloned into each synthetic statement; children are never shared.
func (p *Parser) parseForStatement() *ast.Node {
	p.next() // consume FOR

	compoundNode := ast.New(ast.COMPOUND)

	assignNode := p.parseAssignmentStatement()
	variable := assignNode.Children[0]
	compoundNode.Adopt(assignNode)

	loopNode := ast.New(ast.LOOP)
	testNode := ast.New(ast.TEST)

	// > exits an ascending loop, < a descending one.
	ascending := true
	switch p.current.Kind {
	case types.TO:
		p.next() // consume TO
	case types.DOWNTO:
		ascending = false
		p.next() // consume DOWNTO
	default:
		p.syntaxError("Expecting TO or DOWNTO")
	}

	operatorNode := ast.New(ast.GT)
	if !ascending {
		operatorNode = ast.New(ast.LT)
	}
	operatorNode.Adopt(variable.Clone())
	if p.current.Kind == types.INTEGER {
		operatorNode.Adopt(p.parseIntegerConstant())
	} else {
		p.syntaxError("Expecting integer constant")
	}
	testNode.Adopt(operatorNode)
	loopNode.Adopt(testNode)

	if p.current.Kind == types.DO {
		p.next() // consume DO
	} else {
		p.syntaxError("Expecting DO")
	}
	loopNode.Adopt(p.parseStatement())

	// The trailing assignment steps the control variable.
	stepNode := ast.New(ast.ASSIGN)
	stepNode.Adopt(variable.Clone())

	modifyNode := ast.New(ast.ADD)
	if !ascending {
		modifyNode = ast.New(ast.SUBTRACT)
	}
	one := ast.New(ast.INTEGER_CONSTANT)
	one.Value = types.Integer(1)
	modifyNode.Adopt(variable.Clone())
	modifyNode.Adopt(one)
	stepNode.Adopt(modifyNode)

	loopNode.Adopt(stepNode)
	compoundNode.Adopt(loopNode)
	return compoundNode
}

func (p *Parser) parseCaseStatement() *ast.Node {
	selectNode := ast.New(ast.SELECT)
	selectNode.Line = p.current.Line
	p.line = p.current.Line
	p.next() // consume CASE

	selectNode.Adopt(p.parseExpression())

	if p.current.Kind != types.OF {
		p.syntaxError("Missing OF")
		return selectNode
	}
	p.next() // consume OF

	for p.current.Kind != types.END && p.current.Kind != types.END_OF_FILE {
		branchNode := ast.New(ast.SELECT_BRANCH)
		selectNode.Adopt(branchNode)
		constantsNode := ast.New(ast.SELECT_CONSTANTS)
		branchNode.Adopt(constantsNode)

		// The branch constants: integers, single characters, or negated
		// integers, separated by commas.
	constants:
		for p.current.Kind != types.COLON && p.current.Kind != types.END_OF_FILE {
			switch p.current.Kind {
			case types.COMMA:
				p.next() // consume ,
			case types.CHARACTER:
				stringNode := ast.New(ast.STRING_CONSTANT)
				stringNode.Text = p.current.Text
				stringNode.Value = p.current.Value
				constantsNode.Adopt(stringNode)
				p.next() // consume the character
			case types.INTEGER:
				constantsNode.Adopt(p.parseIntegerConstant())
			case types.MINUS:
				constantsNode.Adopt(p.parseNegate())
			default:
				p.syntaxError("Invalid CASE constant")
				break constants
			}
		}

		if p.current.Kind == types.COLON {
			p.next() // consume :
		}
		branchNode.Adopt(p.parseStatement())
		if p.current.Kind == types.SEMICOLON {
			p.next() // consume ;
		}
	}
	if p.current.Kind == types.END {
		p.next() // consume END
	} else {
		p.syntaxError("Expecting END")
	}

	return selectNode
}

func (p *Parser) parseWriteStatement() *ast.Node {
	writeNode := ast.New(ast.WRITE)
	p.next() // consume WRITE

	p.parseWriteArguments(writeNode)
	if len(writeNode.Children) == 0 {
		p.syntaxError("Invalid WRITE statement")
	}

	return writeNode
}

// parseWritelnStatement parses WRITELN, whose argument list is optional: a
// bare WRITELN emits only the line break.
func (p *Parser) parseWritelnStatement() *ast.Node {
	writelnNode := ast.New(ast.WRITELN)
	p.next() // consume WRITELN

	if p.current.Kind == types.LPAREN {
		p.parseWriteArguments(writelnNode)
	}
	return writelnNode
}

// parseWriteArguments parses ( <variable-or-string> [: width [: decimals]] ).
func (p *Parser) parseWriteArguments(node *ast.Node) {
	hasArgument := false

	if p.current.Kind == types.LPAREN {
		p.next() // consume (
	} else {
		p.syntaxError("Missing left parenthesis")
	}

	if p.current.Kind == types.IDENTIFIER {
		node.Adopt(p.parseVariable())
		hasArgument = true
	} else if p.current.Kind == types.CHARACTER || p.current.Kind == types.STRING {
		node.Adopt(p.parseStringConstant())
		hasArgument = true
	} else {
		p.syntaxError("Invalid WRITE or WRITELN statement")
	}

	// Look for a field width and a count of decimal places.
	if hasArgument && p.current.Kind == types.COLON {
		p.next() // consume :

		if p.current.Kind == types.INTEGER {
			node.Adopt(p.parseIntegerConstant()) // field width

			if p.current.Kind == types.COLON {
				p.next() // consume :

				if p.current.Kind == types.INTEGER {
					node.Adopt(p.parseIntegerConstant()) // decimal places
				} else {
					p.syntaxError("Invalid count of decimal places")
				}
			}
		} else {
			p.syntaxError("Invalid field width")
		}
	}

	if p.current.Kind == types.RPAREN {
		p.next() // consume )
	} else {
		p.syntaxError("Missing right parenthesis")
	}
}

func (p *Parser) parseExpression() *ast.Node {
	exprNode := p.parseSimpleExpression()

	// The current token might now be a relational operator.
	if kind, ok := relationalOperators[p.current.Kind]; ok {
		opNode := ast.New(kind)
		opNode.Text = p.current.Text
		p.next() // consume the operator

		opNode.Adopt(exprNode)
		opNode.Adopt(p.parseSimpleExpression())
		exprNode = opNode
	}

	return exprNode
}

// parseSimpleExpression chains terms over + and -. Each operator adopts the
// tree built so far as its left child, so chains lean left and evaluate
// left to right.
func (p *Parser) parseSimpleExpression() *ast.Node {
	simpExprNode := p.parseTerm()

	for {
		kind, ok := simpleExpressionOperators[p.current.Kind]
		if !ok {
			break
		}

		opNode := ast.New(kind)
		opNode.Text = p.current.Text
		p.next() // consume the operator

		opNode.Adopt(simpExprNode)
		opNode.Adopt(p.parseTerm())
		simpExprNode = opNode
	}

	return simpExprNode
}

func (p *Parser) parseTerm() *ast.Node {
	termNode := p.parseFactor()

	for {
		kind, ok := termOperators[p.current.Kind]
		if !ok {
			break
		}

		opNode := ast.New(kind)
		opNode.Text = p.current.Text
		p.next() // consume the operator

		opNode.Adopt(termNode)
		opNode.Adopt(p.parseFactor())
		termNode = opNode
	}

	return termNode
}

func (p *Parser) parseFactor() *ast.Node {
	switch p.current.Kind {
	case types.IDENTIFIER:
		return p.parseVariable()
	case types.INTEGER:
		return p.parseIntegerConstant()
	case types.REAL:
		return p.parseRealConstant()
	case types.MINUS:
		return p.parseNegate()
	case types.NOT:
		return p.parseNot()
	case types.LPAREN:
		p.next() // consume (
		exprNode := p.parseExpression()

		if p.current.Kind == types.RPAREN {
			p.next() // consume )
		} else {
			p.syntaxError("Expecting )")
		}

		return exprNode
	}

	p.syntaxError("Unexpected token")
	return nil
}

func (p *Parser) parseNot() *ast.Node {
	notNode := ast.New(ast.NOT)
	p.next() // consume NOT
	notNode.Adopt(p.parseExpression())
	return notNode
}

func (p *Parser) parseNegate() *ast.Node {
	negateNode := ast.New(ast.NEGATE)
	negateNode.Text = p.current.Text
	p.next() // consume -
	negateNode.Adopt(p.parseFactor())
	return negateNode
}

// parseVariable looks the name up, creating the entry on first occurrence.
// Strict mode reports a read of a name that was never entered.
func (p *Parser) parseVariable() *ast.Node {
	variableName := p.current.Text
	variableID := p.symtab.Lookup(variableName)
	if variableID == nil {
		if p.Strict {
			p.semanticError("Undeclared identifier")
		}
		variableID = p.symtab.Enter(variableName)
	}

	node := ast.New(ast.VARIABLE)
	node.Text = variableName
	node.Entry = variableID

	p.next() // consume the identifier
	return node
}

func (p *Parser) parseIntegerConstant() *ast.Node {
	integerNode := ast.New(ast.INTEGER_CONSTANT)
	integerNode.Text = p.current.Text
	integerNode.Value = p.current.Value

	p.next() // consume the number
	return integerNode
}

func (p *Parser) parseRealConstant() *ast.Node {
	realNode := ast.New(ast.REAL_CONSTANT)
	realNode.Text = p.current.Text
	realNode.Value = p.current.Value

	p.next() // consume the number
	return realNode
}

func (p *Parser) parseStringConstant() *ast.Node {
	stringNode := ast.New(ast.STRING_CONSTANT)
	stringNode.Text = p.current.Text
	stringNode.Value = p.current.Value

	p.next() // consume the string
	return stringNode
}

// syntaxError reports and recovers by skipping to a token that can follow a
// statement.
func (p *Parser) syntaxError(message string) {
	p.reporter.Report(errors.Diagnostic{
		Kind:    errors.Syntax,
		Line:    p.line,
		Message: message,
		Text:    p.current.Text,
	})

	for !statementFollowers[p.current.Kind] {
		p.next()
	}
}

func (p *Parser) semanticError(message string) {
	p.reporter.Report(errors.Diagnostic{
		Kind:    errors.Semantic,
		Line:    p.line,
		Message: message,
		Text:    p.current.Text,
	})
}
