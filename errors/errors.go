package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

type Kind int

const (
	Token Kind = iota
	Syntax
	Semantic
	Runtime
)

func (k Kind) String() string {
	data := map[Kind]string{
		Token:    "TOKEN",
		Syntax:   "SYNTAX",
		Semantic: "SEMANTIC",
		Runtime:  "RUNTIME",
	}
	return data[k]
}

// Diagnostic is a single reported error. Text is the offending token or node
// text.
type Diagnostic struct {
	Kind    Kind
	Line    int
	Message string
	Text    string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s ERROR at line %d: %s at '%s'", d.Kind, d.Line, d.Message, d.Text)
}

// IsRuntime tells whether err is a fatal runtime diagnostic, which carries a
// distinguished exit status.
func IsRuntime(err error) bool {
	d, ok := err.(Diagnostic)
	return ok && d.Kind == Runtime
}

var severity = map[Kind]*color.Color{
	Token:    color.New(color.FgYellow),
	Syntax:   color.New(color.FgRed),
	Semantic: color.New(color.FgRed),
	Runtime:  color.New(color.FgRed, color.Bold),
}

// Reporter prints diagnostics one per line and counts the ones the front end
// recovers from. Runtime diagnostics are printed but not counted; they end
// the run instead.
type Reporter struct {
	Out   io.Writer
	count int
}

func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{Out: out}
}

func (r *Reporter) Report(d Diagnostic) {
	fmt.Fprintf(r.Out, "%s ERROR at line %d: %s at '%s'\n",
		severity[d.Kind].Sprint(d.Kind), d.Line, d.Message, d.Text)
	if d.Kind != Runtime {
		r.count++
	}
}

func (r *Reporter) Count() int {
	return r.count
}
