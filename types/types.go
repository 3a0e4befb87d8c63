package types

type TokenKind int

const (
	END_OF_FILE TokenKind = iota
	ERROR

	// reserved words
	PROGRAM
	BEGIN
	END
	REPEAT
	UNTIL
	WRITE
	WRITELN
	DIV
	MOD
	AND
	OR
	NOT
	CONST
	TYPE
	VAR
	PROCEDURE
	FUNCTION
	WHILE
	DO
	FOR
	TO
	DOWNTO
	IF
	THEN
	ELSE
	CASE
	OF

	// special symbols
	PERIOD
	COMMA
	COLON
	COLON_EQUALS
	SEMICOLON
	PLUS
	MINUS
	STAR
	SLASH
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	CARAT
	EQUALS
	NOT_EQUALS
	LESS_THAN
	LESS_EQUALS
	GREATER_THAN
	GREATER_EQUALS
	DOT_DOT

	IDENTIFIER
	INTEGER
	REAL
	CHARACTER
	STRING
)

func (t TokenKind) String() string {
	data := map[TokenKind]string{
		END_OF_FILE:    "END_OF_FILE",
		ERROR:          "ERROR",
		PROGRAM:        "PROGRAM",
		BEGIN:          "BEGIN",
		END:            "END",
		REPEAT:         "REPEAT",
		UNTIL:          "UNTIL",
		WRITE:          "WRITE",
		WRITELN:        "WRITELN",
		DIV:            "DIV",
		MOD:            "MOD",
		AND:            "AND",
		OR:             "OR",
		NOT:            "NOT",
		CONST:          "CONST",
		TYPE:           "TYPE",
		VAR:            "VAR",
		PROCEDURE:      "PROCEDURE",
		FUNCTION:       "FUNCTION",
		WHILE:          "WHILE",
		DO:             "DO",
		FOR:            "FOR",
		TO:             "TO",
		DOWNTO:         "DOWNTO",
		IF:             "IF",
		THEN:           "THEN",
		ELSE:           "ELSE",
		CASE:           "CASE",
		OF:             "OF",
		PERIOD:         "PERIOD",
		COMMA:          "COMMA",
		COLON:          "COLON",
		COLON_EQUALS:   "COLON_EQUALS",
		SEMICOLON:      "SEMICOLON",
		PLUS:           "PLUS",
		MINUS:          "MINUS",
		STAR:           "STAR",
		SLASH:          "SLASH",
		LPAREN:         "LPAREN",
		RPAREN:         "RPAREN",
		LBRACKET:       "LBRACKET",
		RBRACKET:       "RBRACKET",
		CARAT:          "CARAT",
		EQUALS:         "EQUALS",
		NOT_EQUALS:     "NOT_EQUALS",
		LESS_THAN:      "LESS_THAN",
		LESS_EQUALS:    "LESS_EQUALS",
		GREATER_THAN:   "GREATER_THAN",
		GREATER_EQUALS: "GREATER_EQUALS",
		DOT_DOT:        "DOT_DOT",
		IDENTIFIER:     "IDENTIFIER",
		INTEGER:        "INTEGER",
		REAL:           "REAL",
		CHARACTER:      "CHARACTER",
		STRING:         "STRING",
	}
	return data[t]
}

// Literal is the value carried by INTEGER, REAL, CHARACTER and STRING tokens
// and by the constant nodes of the tree.
type Literal interface {
	isLiteral()
}

type Integer int64

func (v Integer) isLiteral() {}

type Real float64

func (v Real) isLiteral() {}

type String string

func (v String) isLiteral() {}

type Token struct {
	Kind  TokenKind
	Text  string
	Line  int
	Value Literal
}
