package lexer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pontaoski/pasgo/errors"
	"github.com/pontaoski/pasgo/types"
)

func lexAll(t *testing.T, source string) ([]types.Token, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	l := NewLexer(strings.NewReader(source), errors.NewReporter(&out))

	var tokens []types.Token
	for i := 0; i < 1000; i++ {
		tok := l.NextToken()
		if tok.Kind == types.END_OF_FILE {
			return tokens, &out
		}
		tokens = append(tokens, tok)
	}
	t.Fatalf("lexer did not reach END_OF_FILE")
	return nil, nil
}

func kindsOf(tokens []types.Token) []types.TokenKind {
	kinds := make([]types.TokenKind, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

func TestKeywordsAndSymbols(t *testing.T) {
	tokens, _ := lexAll(t, "PROGRAM hello; BEGIN x := 1 END.")
	want := []types.TokenKind{
		types.PROGRAM, types.IDENTIFIER, types.SEMICOLON,
		types.BEGIN, types.IDENTIFIER, types.COLON_EQUALS, types.INTEGER,
		types.END, types.PERIOD,
	}

	got := kindsOf(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestReservedWordsAreCaseInsensitive(t *testing.T) {
	tokens, _ := lexAll(t, "begin End rEpEaT writeln")
	want := []types.TokenKind{types.BEGIN, types.END, types.REPEAT, types.WRITELN}

	got := kindsOf(tokens)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTwoCharacterSymbols(t *testing.T) {
	tokens, _ := lexAll(t, ":= <= >= <> < > = ..")
	want := []types.TokenKind{
		types.COLON_EQUALS, types.LESS_EQUALS, types.GREATER_EQUALS,
		types.NOT_EQUALS, types.LESS_THAN, types.GREATER_THAN,
		types.EQUALS, types.DOT_DOT,
	}

	got := kindsOf(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	tokens, _ := lexAll(t, "7 3.14")

	if tokens[0].Kind != types.INTEGER || tokens[0].Value != types.Integer(7) {
		t.Fatalf("unexpected integer token %#v", tokens[0])
	}
	if tokens[1].Kind != types.REAL || tokens[1].Value != types.Real(3.14) {
		t.Fatalf("unexpected real token %#v", tokens[1])
	}
}

func TestCharacterAndStringLiterals(t *testing.T) {
	tokens, _ := lexAll(t, "'a' 'abc' 'don''t'")

	if tokens[0].Kind != types.CHARACTER || tokens[0].Value != types.String("a") {
		t.Fatalf("unexpected character token %#v", tokens[0])
	}
	if tokens[1].Kind != types.STRING || tokens[1].Value != types.String("abc") {
		t.Fatalf("unexpected string token %#v", tokens[1])
	}
	if tokens[2].Kind != types.STRING || tokens[2].Value != types.String("don't") {
		t.Fatalf("quote escape not applied: %#v", tokens[2])
	}
}

func TestMalformedRealIsTokenError(t *testing.T) {
	tokens, out := lexAll(t, "3.14.15")

	if tokens[0].Kind != types.ERROR {
		t.Fatalf("expected ERROR token, got %s", tokens[0].Kind)
	}
	if !strings.Contains(out.String(), "ERROR at line 1: Invalid real constant at '3.14.15'") {
		t.Fatalf("unexpected diagnostic output %q", out.String())
	}
}

func TestUnterminatedString(t *testing.T) {
	tokens, out := lexAll(t, "'oops")

	if tokens[0].Kind != types.ERROR {
		t.Fatalf("expected ERROR token, got %s", tokens[0].Kind)
	}
	if !strings.Contains(out.String(), "Unterminated string") {
		t.Fatalf("unexpected diagnostic output %q", out.String())
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	tokens, out := lexAll(t, "@")

	if tokens[0].Kind != types.ERROR {
		t.Fatalf("expected ERROR token, got %s", tokens[0].Kind)
	}
	if !strings.Contains(out.String(), "Unexpected character at '@'") {
		t.Fatalf("unexpected diagnostic output %q", out.String())
	}
}

func TestCommentsAndLineNumbers(t *testing.T) {
	tokens, _ := lexAll(t, "BEGIN { a comment\nspanning lines }\nx\nEND")

	if tokens[0].Line != 1 {
		t.Fatalf("BEGIN on line %d, want 1", tokens[0].Line)
	}
	if tokens[1].Text != "x" || tokens[1].Line != 3 {
		t.Fatalf("x token %#v, want line 3", tokens[1])
	}
	if tokens[2].Kind != types.END || tokens[2].Line != 4 {
		t.Fatalf("END token %#v, want line 4", tokens[2])
	}
}

func TestEndOfFileSentinelRepeats(t *testing.T) {
	l := NewLexer(strings.NewReader("x"), errors.NewReporter(&bytes.Buffer{}))
	l.NextToken() // consume x

	for i := 0; i < 3; i++ {
		if tok := l.NextToken(); tok.Kind != types.END_OF_FILE {
			t.Fatalf("call %d: got %s, want END_OF_FILE", i, tok.Kind)
		}
	}
}
