// Package lexer turns source text into the token stream the parser consumes.
package lexer

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/pontaoski/pasgo/errors"
	"github.com/pontaoski/pasgo/types"
)

var reservedWords = map[string]types.TokenKind{
	"PROGRAM":   types.PROGRAM,
	"BEGIN":     types.BEGIN,
	"END":       types.END,
	"REPEAT":    types.REPEAT,
	"UNTIL":     types.UNTIL,
	"WRITE":     types.WRITE,
	"WRITELN":   types.WRITELN,
	"DIV":       types.DIV,
	"MOD":       types.MOD,
	"AND":       types.AND,
	"OR":        types.OR,
	"NOT":       types.NOT,
	"CONST":     types.CONST,
	"TYPE":      types.TYPE,
	"VAR":       types.VAR,
	"PROCEDURE": types.PROCEDURE,
	"FUNCTION":  types.FUNCTION,
	"WHILE":     types.WHILE,
	"DO":        types.DO,
	"FOR":       types.FOR,
	"TO":        types.TO,
	"DOWNTO":    types.DOWNTO,
	"IF":        types.IF,
	"THEN":      types.THEN,
	"ELSE":      types.ELSE,
	"CASE":      types.CASE,
	"OF":        types.OF,
}

type Lexer struct {
	reader   *bufio.Reader
	reporter *errors.Reporter
	line     int
	last     rune
}

func NewLexer(reader io.Reader, reporter *errors.Reporter) *Lexer {
	return &Lexer{
		reader:   bufio.NewReader(reader),
		reporter: reporter,
		line:     1,
	}
}

func (l *Lexer) read() (rune, bool) {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0, false
		}
		panic(err)
	}

	if r == '\n' {
		l.line++
	}
	l.last = r
	return r, true
}

func (l *Lexer) backup() {
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}

	if l.last == '\n' {
		l.line--
	}
}

func (l *Lexer) kinded(kind types.TokenKind, text string, line int) types.Token {
	return types.Token{
		Kind: kind,
		Text: text,
		Line: line,
	}
}

func (l *Lexer) tokenError(tok types.Token, message string) types.Token {
	tok.Kind = types.ERROR
	l.reporter.Report(errors.Diagnostic{
		Kind:    errors.Token,
		Line:    tok.Line,
		Message: message,
		Text:    tok.Text,
	})
	return tok
}

// NextToken extracts the next token. Once the source is exhausted it keeps
// returning END_OF_FILE tokens.
func (l *Lexer) NextToken() types.Token {
	r, ok := l.nextNonblank()
	if !ok {
		return l.kinded(types.END_OF_FILE, "", l.line)
	}

	switch {
	case unicode.IsLetter(r):
		return l.word(r)
	case unicode.IsDigit(r):
		return l.number(r)
	case r == '\'':
		return l.characterOrString()
	}
	return l.specialSymbol(r)
}

// nextNonblank skips whitespace and { } comments.
func (l *Lexer) nextNonblank() (rune, bool) {
	for {
		r, ok := l.read()
		if !ok {
			return 0, false
		}

		if r == '{' {
			for r != '}' {
				if r, ok = l.read(); !ok {
					return 0, false
				}
			}
			continue
		}

		if unicode.IsSpace(r) {
			continue
		}
		return r, true
	}
}

func (l *Lexer) word(first rune) types.Token {
	line := l.line
	text := string(first)

	for {
		r, ok := l.read()
		if !ok {
			break
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			l.backup()
			break
		}
		text += string(r)
	}

	if kind, ok := reservedWords[strings.ToUpper(text)]; ok {
		return l.kinded(kind, text, line)
	}
	return l.kinded(types.IDENTIFIER, text, line)
}

func (l *Lexer) number(first rune) types.Token {
	line := l.line
	text := string(first)
	pointCount := 0

	for {
		r, ok := l.read()
		if !ok {
			break
		}
		if !unicode.IsDigit(r) && r != '.' {
			l.backup()
			break
		}
		if r == '.' {
			pointCount++
		}
		text += string(r)
	}

	tok := l.kinded(types.INTEGER, text, line)

	switch pointCount {
	case 0:
		value, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return l.tokenError(tok, "Invalid integer constant")
		}
		tok.Value = types.Integer(value)
	case 1:
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return l.tokenError(tok, "Invalid real constant")
		}
		tok.Kind = types.REAL
		tok.Value = types.Real(value)
	default:
		return l.tokenError(tok, "Invalid real constant")
	}

	return tok
}

// characterOrString lexes a '...' literal. A '' inside stands for one quote.
// A one-character literal is a CHARACTER token, anything else a STRING.
func (l *Lexer) characterOrString() types.Token {
	line := l.line
	text := "'"
	value := ""

	for {
		r, ok := l.read()
		if !ok {
			return l.tokenError(l.kinded(types.STRING, text, line), "Unterminated string")
		}

		if r == '\'' {
			next, ok := l.read()
			if ok && next == '\'' {
				text += "''"
				value += "'"
				continue
			}
			if ok {
				l.backup()
			}
			text += "'"
			break
		}

		text += string(r)
		value += string(r)
	}

	kind := types.STRING
	if len([]rune(value)) == 1 {
		kind = types.CHARACTER
	}

	tok := l.kinded(kind, text, line)
	tok.Value = types.String(value)
	return tok
}

func (l *Lexer) specialSymbol(first rune) types.Token {
	line := l.line
	text := string(first)

	singles := map[rune]types.TokenKind{
		',': types.COMMA,
		';': types.SEMICOLON,
		'+': types.PLUS,
		'-': types.MINUS,
		'*': types.STAR,
		'/': types.SLASH,
		'=': types.EQUALS,
		'(': types.LPAREN,
		')': types.RPAREN,
		'[': types.LBRACKET,
		']': types.RBRACKET,
		'^': types.CARAT,
	}

	if kind, ok := singles[first]; ok {
		return l.kinded(kind, text, line)
	}

	pair := func(follow rune, twoKind, oneKind types.TokenKind) types.Token {
		if r, ok := l.read(); ok {
			if r == follow {
				return l.kinded(twoKind, text+string(follow), line)
			}
			l.backup()
		}
		return l.kinded(oneKind, text, line)
	}

	switch first {
	case ':':
		return pair('=', types.COLON_EQUALS, types.COLON)
	case '>':
		return pair('=', types.GREATER_EQUALS, types.GREATER_THAN)
	case '.':
		return pair('.', types.DOT_DOT, types.PERIOD)
	case '<':
		if r, ok := l.read(); ok {
			switch r {
			case '=':
				return l.kinded(types.LESS_EQUALS, "<=", line)
			case '>':
				return l.kinded(types.NOT_EQUALS, "<>", line)
			}
			l.backup()
		}
		return l.kinded(types.LESS_THAN, text, line)
	}

	return l.tokenError(l.kinded(types.ERROR, text, line), "Unexpected character")
}
