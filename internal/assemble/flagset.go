// SPDX-License-Identifier: MPL-2.0

package assemble

import (
	"io"

	"github.com/spf13/pflag"

	"modelargs/internal/argspec"
	"modelargs/pkg/schema"
)

// FlagSet registers every argument of a definition with a fresh pflag flag
// set. The definition itself stays immutable; the tokenizer calls this once
// per parse because pflag flag sets accumulate state across Parse calls.
//
// Registration is deliberately string-typed: the tokenizer's contract is a
// namespace of raw strings, and all coercion belongs to the validation
// engine downstream.
func FlagSet(def *argspec.Definition) *pflag.FlagSet {
	fs := pflag.NewFlagSet(def.Prog, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false

	for _, s := range def.Specs() {
		registerSpec(fs, s)
	}
	if def.AddHelp {
		fs.BoolP("help", "h", false, "show this help message and exit")
	}
	if def.Version != "" {
		fs.BoolP("version", "v", false, "show program's version number and exit")
	}
	return fs
}

// registerSpec registers the flag (and negated form, for booleans) backing
// one argument spec.
func registerSpec(fs *pflag.FlagSet, s *argspec.ArgumentSpec) {
	switch {
	case s.Kind == argspec.SpecBooleanFlag:
		if s.Long != "" {
			boolFlag(fs, s.Long, s.Short, s.Help)
		}
		if s.NegLong != "" {
			// The short flag belongs to the positive form, so a lone
			// negated flag (optional default-true) carries the short
			// instead.
			short := ""
			if s.Long == "" {
				short = s.Short
			}
			boolFlag(fs, s.NegLong, short, s.Help)
		}

	case s.Field.Kind == schema.KindMapping:
		// Mapping flags keep raw key=value tokens; the decoder splits
		// them so malformed tokens flow into validation, not tokenizing.
		if s.Short != "" {
			fs.StringArrayP(s.Long, s.Short, nil, s.Help)
		} else {
			fs.StringArray(s.Long, nil, s.Help)
		}

	case s.Arity == argspec.ArityOneOrMore:
		if s.Short != "" {
			fs.StringSliceP(s.Long, s.Short, nil, s.Help)
		} else {
			fs.StringSlice(s.Long, nil, s.Help)
		}

	default:
		if s.Short != "" {
			fs.StringP(s.Long, s.Short, "", s.Help)
		} else {
			fs.String(s.Long, "", s.Help)
		}
	}
}

// boolFlag registers a presence flag with an optional short form.
func boolFlag(fs *pflag.FlagSet, name, short, help string) {
	if short != "" {
		fs.BoolP(name, short, false, help)
	} else {
		fs.Bool(name, false, help)
	}
}
