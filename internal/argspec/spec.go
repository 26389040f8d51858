// SPDX-License-Identifier: MPL-2.0

// Package argspec defines the assembled parser artifacts: argument
// specifications, command specifications and the immutable parser
// definition consumed by the tokenizer, the decoder and the help renderer.
package argspec

import (
	"reflect"

	"modelargs/pkg/schema"
)

const (
	// ArityNone marks a specification that consumes no tokens at all
	// (commands, which consume a positional name instead).
	ArityNone Arity = "none"
	// ArityZero marks a presence flag: the flag itself is the value.
	ArityZero Arity = "zero"
	// ArityOne marks a flag consuming exactly one value token.
	ArityOne Arity = "one"
	// ArityOneOrMore marks a flag accepting one or more values, supplied
	// as repeated occurrences or comma-separated lists.
	ArityOneOrMore Arity = "one_or_more"

	// SpecValue is an argument carrying a value token.
	SpecValue SpecKind = "value"
	// SpecBooleanFlag is a presence flag, possibly with a negated form.
	SpecBooleanFlag SpecKind = "boolean_flag"
)

type (
	// Arity is the number of raw tokens an argument consumes.
	Arity string

	// SpecKind distinguishes value arguments from presence flags.
	SpecKind string

	// ArgumentSpec is the concrete specification of one command-line
	// argument, derived from a classified field descriptor.
	ArgumentSpec struct {
		// Field is the descriptor this spec was built from.
		Field schema.FieldDescriptor
		// Long is the positive long flag name, without dashes. Empty for
		// optional default-true booleans, which expose only the negated
		// form.
		Long string
		// NegLong is the negated long flag name ("no-<name>"), without
		// dashes. Set for required booleans and default-true optionals.
		NegLong string
		// Short is the one-character short flag, if any.
		Short string
		// Flags is the ordered display set, dashes included.
		Flags []string
		// Arity is the token consumption of this argument.
		Arity Arity
		// Kind distinguishes value arguments from presence flags.
		Kind SpecKind
		// Required is true when the argument must be supplied.
		Required bool
		// HasDefault and Default mirror the descriptor's typed default.
		HasDefault bool
		Default    any
		// Help is the full help text, including the default annotation
		// for optional arguments.
		Help string
		// Choices is the ordered display set for enum arguments.
		Choices []string
		// Metavar is the value placeholder shown in usage and help.
		Metavar string
		// Dest is the namespace key the parsed value is stored under.
		Dest string
	}

	// CommandSpec is a nested model rendered as a dispatch branch with its
	// own disjoint flag namespace.
	CommandSpec struct {
		// Name is the command token on the command line.
		Name string
		// Description is the command's help text.
		Description string
		// Field is the descriptor of the sub-model field.
		Field schema.FieldDescriptor
		// Def is the recursively assembled child definition.
		Def *Definition
	}

	// Definition is the fully assembled parser artifact: buckets of
	// required and optional arguments, command branches and program
	// metadata. It is built once per parser construction and treated as
	// immutable afterwards; the tokenizer derives a fresh flag set from it
	// on every parse.
	Definition struct {
		// Prog is the program (or nested command) invocation name.
		Prog string
		// Description, Version and Epilog are the program metadata.
		Description string
		Version     string
		Epilog      string
		// AddHelp controls whether -h/--help is registered.
		AddHelp bool
		// Required and Optional hold argument specs in declaration order.
		Required []*ArgumentSpec
		Optional []*ArgumentSpec
		// Commands holds the dispatch branches in declaration order.
		Commands []*CommandSpec
		// CommandsRequired is true when exactly one command must be
		// selected; false when omission is legal.
		CommandsRequired bool
		// Model is the struct type the definition was derived from.
		Model reflect.Type
	}
)

// TakesValue reports whether the argument consumes a value token, which the
// tokenizer needs when scanning for the command split point.
func (s *ArgumentSpec) TakesValue() bool {
	return s.Arity == ArityOne || s.Arity == ArityOneOrMore
}

// Specs returns the required and optional argument specs in section order.
func (d *Definition) Specs() []*ArgumentSpec {
	out := make([]*ArgumentSpec, 0, len(d.Required)+len(d.Optional))
	out = append(out, d.Required...)
	return append(out, d.Optional...)
}

// Command returns the command spec registered under name, or nil.
func (d *Definition) Command(name string) *CommandSpec {
	for _, c := range d.Commands {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// CommandNames returns the command tokens in declaration order.
func (d *Definition) CommandNames() []string {
	names := make([]string, len(d.Commands))
	for i, c := range d.Commands {
		names[i] = c.Name
	}
	return names
}
