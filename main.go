package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/pasgo/ast"
	"github.com/pontaoski/pasgo/errors"
	"github.com/pontaoski/pasgo/executor"
	"github.com/pontaoski/pasgo/lexer"
	"github.com/pontaoski/pasgo/parser"
	"github.com/pontaoski/pasgo/symtab"
)

// parseFile scans and parses one source file. Diagnostics go to stdout
// through the reporter; only infrastructure failures come back as errors.
func parseFile(path string, strict bool) (tree *ast.Node, reporter *errors.Reporter, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	handle, err := os.Open(path)
	if err != nil {
		return nil, nil, tracerr.Wrap(err)
	}
	defer handle.Close()

	reporter = errors.NewReporter(os.Stdout)
	p := parser.NewParser(lexer.NewLexer(handle, reporter), symtab.New(), reporter)
	p.Strict = strict

	tree = p.ParseProgram()
	return tree, reporter, nil
}

// sourcePath resolves the program file: the command argument if given,
// otherwise the manifest's Program entry.
func sourcePath(c *cli.Context) (string, error) {
	if path := c.Args().First(); path != "" {
		return path, nil
	}

	doc, err := readManifest()
	if err != nil {
		return "", fmt.Errorf("no source file given and no %s: %w", manifestName, err)
	}
	if doc.Program == "" {
		return "", fmt.Errorf("%s has no Program entry", manifestName)
	}
	return doc.Program, nil
}

func main() {
	app := &cli.App{
		Name:  "pasgo",
		Usage: "pas interpreter",
		ExitErrHandler: func(context *cli.Context, err error) {
			if err != nil {
				log.Fatalf("error with pasgo: %v", err)
			}
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "init a program directory",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						fmt.Printf("no program name provided\n")
						os.Exit(1)
					}
					if !strings.HasSuffix(name, ".pas") {
						name += ".pas"
					}

					if err := writeManifest(pasModule{Program: name}); err != nil {
						fmt.Printf("error creating %s: %s\n", manifestName, err)
						os.Exit(1)
					}
					return nil
				},
			},
			{
				Name:  "check",
				Usage: "parse a program and report its diagnostics",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "strict",
						Value: false,
					},
				},
				Action: func(c *cli.Context) error {
					path, err := sourcePath(c)
					if err != nil {
						return err
					}

					_, reporter, err := parseFile(path, c.Bool("strict"))
					if err != nil {
						tracerr.PrintSourceColor(err)
						os.Exit(1)
					}

					if reporter.Count() > 0 {
						fmt.Printf("%d error(s)\n", reporter.Count())
						os.Exit(1)
					}
					return nil
				},
			},
			{
				Name:  "dump",
				Usage: "parse a program and print its tree",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "fingerprint",
						Value: false,
					},
				},
				Action: func(c *cli.Context) error {
					path, err := sourcePath(c)
					if err != nil {
						return err
					}

					tree, _, err := parseFile(path, false)
					if err != nil {
						tracerr.PrintSourceColor(err)
						os.Exit(1)
					}

					if c.Bool("fingerprint") {
						fmt.Printf("%016x\n", tree.Fingerprint())
					} else {
						repr.Println(tree)
					}
					return nil
				},
			},
			{
				Name:  "run",
				Usage: "run a program",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "strict",
						Value: false,
					},
				},
				Action: func(c *cli.Context) error {
					path, err := sourcePath(c)
					if err != nil {
						return err
					}

					tree, reporter, err := parseFile(path, c.Bool("strict"))
					if err != nil {
						tracerr.PrintSourceColor(err)
						os.Exit(1)
					}

					// Don't execute a broken parse.
					if reporter.Count() > 0 {
						os.Exit(1)
					}

					if err := executor.New(os.Stdout, reporter).Execute(tree); err != nil {
						// A runtime diagnostic was already reported at the
						// point of failure.
						if errors.IsRuntime(err) {
							os.Exit(2)
						}
						tracerr.PrintSourceColor(err)
						os.Exit(1)
					}
					return nil
				},
			},
		},
	}
	app.Run(os.Args)
}
