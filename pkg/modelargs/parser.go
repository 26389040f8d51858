// SPDX-License-Identifier: MPL-2.0

// Package modelargs derives a command-line parser from a declarative
// struct model. Field tags describe flags, pointer fields are nullable,
// nested structs become commands, and parsed values are decoded and
// validated back into an instance of the model.
//
//	type Args struct {
//		Name    string `help:"who to greet"`
//		Retries int    `help:"attempt count" default:"3"`
//		Verbose bool   `help:"chatty output" default:"false"`
//	}
//
//	args, err := modelargs.New[Args](
//		modelargs.WithProg("greet"),
//		modelargs.WithVersion("1.2.0"),
//	)
package modelargs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/charmbracelet/log"

	"modelargs/internal/argspec"
	"modelargs/internal/assemble"
	"modelargs/internal/decode"
	"modelargs/internal/render"
	"modelargs/internal/report"
	"modelargs/internal/tokenize"
)

// Parser parses command-line arguments into values of the model type T.
// A Parser is immutable after construction and safe for concurrent use;
// each Parse call builds its own flag state.
type Parser[T any] struct {
	def  *argspec.Definition
	opts settings

	// Overridable in tests.
	stdout io.Writer
	stderr io.Writer
	exit   func(int)
}

// New builds a Parser for the model type T. T must be a struct type (or
// pointer to one); any malformed model field is reported as an
// *argerr.ConfigurationError.
func New[T any](opts ...Option) (*Parser[T], error) {
	s := settings{
		prog:        filepath.Base(os.Args[0]),
		addHelp:     true,
		exitOnError: true,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "modelargs",
		})
	}

	model := reflect.TypeOf((*T)(nil)).Elem()
	def, err := assemble.Assemble(model, assemble.Meta{
		Prog:        s.prog,
		Description: s.description,
		Version:     s.version,
		Epilog:      s.epilog,
		AddHelp:     s.addHelp,
	}, s.logger)
	if err != nil {
		return nil, err
	}

	return &Parser[T]{
		def:    def,
		opts:   s,
		stdout: os.Stdout,
		stderr: os.Stderr,
		exit:   os.Exit,
	}, nil
}

// MustNew is New, panicking on construction failure. Intended for
// package-level parser variables where the model is fixed at compile
// time.
func MustNew[T any](opts ...Option) *Parser[T] {
	p, err := New[T](opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse parses args into a fresh model value. A nil slice means
// os.Args[1:]. With exiting enabled (the default), usage failures print
// to stderr and terminate the process with code 2, and -h/--help and
// -v/--version print to stdout and terminate with code 0. With
// WithoutExit, those paths return the underlying error wrapped as an
// *argerr.ArgumentError (or the help/version interrupt itself).
func (p *Parser[T]) Parse(args []string) (*T, error) {
	if args == nil {
		args = os.Args[1:]
	}
	p.opts.logger.Debug("parsing arguments", "prog", p.def.Prog, "argc", len(args))

	ns, err := tokenize.Parse(p.def, args)
	if err != nil {
		return nil, p.interrupt(err)
	}

	values, fieldErrs, err := decode.Result(p.def, ns)
	if err != nil {
		// Decode failures are internal defects and configuration errors;
		// they bypass the reporter.
		return nil, err
	}

	out := new(T)
	if err := decode.Validate(p.def, values, fieldErrs, out); err != nil {
		return nil, p.fail(err)
	}
	return out, nil
}

// MustParse is Parse, panicking on error. With exiting enabled the only
// errors Parse can return are internal defects, so MustParse suits main
// functions that have no error path of their own.
func (p *Parser[T]) MustParse(args []string) *T {
	out, err := p.Parse(args)
	if err != nil {
		panic(err)
	}
	return out
}

// Help returns the rendered help text for the root definition.
func (p *Parser[T]) Help() string { return render.Help(p.def) }

// Usage returns the one-line usage summary for the root definition.
func (p *Parser[T]) Usage() string { return render.Usage(p.def) }

// interrupt routes tokenization outcomes: help and version requests go
// to stdout and exit 0, everything else is a usage failure.
func (p *Parser[T]) interrupt(err error) error {
	var help *tokenize.HelpRequest
	if errors.As(err, &help) {
		fmt.Fprint(p.stdout, render.Help(help.Def))
		if p.opts.exitOnError {
			p.exit(0)
		}
		return err
	}
	var version *tokenize.VersionRequest
	if errors.As(err, &version) {
		fmt.Fprintln(p.stdout, version.Version)
		if p.opts.exitOnError {
			p.exit(0)
		}
		return err
	}
	return p.fail(err)
}

// fail hands a usage failure to the reporter.
func (p *Parser[T]) fail(err error) error {
	r := &report.Reporter{
		Prog:        p.def.Prog,
		Usage:       render.Usage(p.def),
		ExitOnError: p.opts.exitOnError,
		Stderr:      p.stderr,
		Exit:        p.exit,
	}
	return r.Report(err)
}
