// SPDX-License-Identifier: MPL-2.0

// Package tokenize adapts the underlying pflag tokenizer to the parser
// definition: it derives a flag set, splits the raw argument vector at the
// command boundary, enforces required flags and boolean polarity pairs, and
// produces the raw namespace consumed by the decoder.
package tokenize

import (
	"fmt"
	"strings"

	"modelargs/internal/argspec"
	"modelargs/internal/assemble"
	"modelargs/pkg/argerr"
)

type (
	// HelpRequest is returned when -h/--help was supplied. Def is the
	// definition help should be rendered for, which for nested commands
	// is the child definition.
	HelpRequest struct {
		Def *argspec.Definition
	}

	// VersionRequest is returned when -v/--version was supplied on a
	// parser constructed with a version.
	VersionRequest struct {
		Version string
	}
)

// Error implements the error interface for HelpRequest.
func (e *HelpRequest) Error() string { return "help requested" }

// Error implements the error interface for VersionRequest.
func (e *VersionRequest) Error() string { return "version requested" }

// Parse tokenizes args against the definition. All user-facing failures are
// *argerr.TokenizationError values; help and version interrupts surface as
// *HelpRequest and *VersionRequest.
func Parse(def *argspec.Definition, args []string) (*Namespace, error) {
	own, cmdName, rest, err := splitCommand(def, args)
	if err != nil {
		return nil, err
	}

	fs := assemble.FlagSet(def)
	if err := fs.Parse(own); err != nil {
		return nil, &argerr.TokenizationError{Reason: err.Error(), Err: err}
	}

	if def.AddHelp {
		if v, _ := fs.GetBool("help"); v {
			return nil, &HelpRequest{Def: def}
		}
	}
	if def.Version != "" {
		if v, _ := fs.GetBool("version"); v {
			return nil, &VersionRequest{Version: def.Version}
		}
	}

	if extra := fs.Args(); len(extra) > 0 {
		return nil, &argerr.TokenizationError{
			Reason: "unrecognized arguments: " + strings.Join(extra, " "),
		}
	}
	if err := enforceRequired(def, fs, cmdName); err != nil {
		return nil, err
	}

	ns := extract(def, fs)

	if cmdName != "" {
		sub, err := Parse(def.Command(cmdName).Def, rest)
		if err != nil {
			return nil, err
		}
		ns.Command = cmdName
		ns.Sub = sub
	}
	return ns, nil
}

// splitCommand scans the argument vector for the first bare token and, if it
// names a command, splits the vector there: everything before belongs to
// this definition, everything after to the command's child definition.
// Commands are disjoint namespaces, so no parent flag may follow the
// command token.
func splitCommand(def *argspec.Definition, args []string) (own []string, cmd string, rest []string, err error) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			// Everything after the terminator is positional; no command
			// token can follow it.
			return args, "", nil, nil
		case strings.HasPrefix(a, "--"):
			name := strings.TrimPrefix(a, "--")
			if !strings.Contains(name, "=") && takesValue(def, name) {
				i++
			}
		case strings.HasPrefix(a, "-") && len(a) > 1:
			shorts := strings.TrimPrefix(a, "-")
			if !strings.Contains(shorts, "=") && takesValue(def, shorts[len(shorts)-1:]) {
				i++
			}
		default:
			if c := def.Command(a); c != nil {
				return args[:i], a, args[i+1:], nil
			}
			if len(def.Commands) > 0 {
				return nil, "", nil, &argerr.TokenizationError{
					Reason: fmt.Sprintf("invalid choice: %q (choose from %s)",
						a, strings.Join(def.CommandNames(), ", ")),
				}
			}
			// No commands declared; leave the token for the flag set,
			// which reports it as unrecognized.
			return args, "", nil, nil
		}
	}
	return args, "", nil, nil
}

// takesValue reports whether the named flag consumes a following token,
// which the command scanner needs to avoid mistaking flag values for
// command names.
func takesValue(def *argspec.Definition, name string) bool {
	for _, s := range def.Specs() {
		if !s.TakesValue() {
			continue
		}
		if name == s.Long || (s.Short != "" && name == s.Short) {
			return true
		}
	}
	return false
}

// enforceRequired checks that every required flag was supplied, that
// required boolean pairs received exactly one pole, and that a mandatory
// command selection was made. These guarantees are the tokenizer's, so a
// violation surfacing downstream is a decoder-level defect.
func enforceRequired(def *argspec.Definition, fs flagChecker, cmdName string) error {
	var missing []string
	for _, s := range def.Required {
		if s.Kind == argspec.SpecBooleanFlag {
			pos := fs.Changed(s.Long)
			neg := fs.Changed(s.NegLong)
			if pos && neg {
				return &argerr.TokenizationError{
					Reason: fmt.Sprintf("--%s and --%s are mutually exclusive", s.Long, s.NegLong),
				}
			}
			if !pos && !neg {
				missing = append(missing, strings.Join(s.Flags, " | "))
			}
			continue
		}
		if !fs.Changed(s.Long) {
			missing = append(missing, "--"+s.Long)
		}
	}
	if def.CommandsRequired && cmdName == "" {
		missing = append(missing, "{"+strings.Join(def.CommandNames(), ",")+"}")
	}
	if len(missing) > 0 {
		return &argerr.TokenizationError{
			Reason: "the following arguments are required: " + strings.Join(missing, ", "),
		}
	}
	return nil
}

// flagChecker is the slice of *pflag.FlagSet the enforcement step needs.
type flagChecker interface {
	Changed(name string) bool
}

// extract pulls the raw values out of the parsed flag set into a namespace,
// resolving boolean polarity. Absent optionals are left out entirely; the
// decoder substitutes their defaults.
func extract(def *argspec.Definition, fs valueReader) *Namespace {
	ns := newNamespace()
	for _, s := range def.Specs() {
		if s.Kind == argspec.SpecBooleanFlag {
			pos := s.Long != "" && fs.Changed(s.Long)
			neg := s.NegLong != "" && fs.Changed(s.NegLong)
			if pos || neg {
				ns.Seen[s.Dest] = true
				ns.Bools[s.Dest] = pos
			}
			continue
		}
		if !fs.Changed(s.Long) {
			continue
		}
		ns.Seen[s.Dest] = true
		if s.Arity == argspec.ArityOneOrMore {
			ns.Lists[s.Dest] = listValue(fs, s)
			continue
		}
		v, _ := fs.GetString(s.Long)
		ns.Strings[s.Dest] = v
	}
	return ns
}

// listValue reads a multi-valued flag, preferring the raw token array for
// mappings so the decoder can split key=value pairs itself.
func listValue(fs valueReader, s *argspec.ArgumentSpec) []string {
	if v, err := fs.GetStringArray(s.Long); err == nil {
		return v
	}
	v, _ := fs.GetStringSlice(s.Long)
	return v
}

// valueReader is the slice of *pflag.FlagSet the extraction step needs.
type valueReader interface {
	Changed(name string) bool
	GetString(name string) (string, error)
	GetStringSlice(name string) ([]string, error)
	GetStringArray(name string) ([]string, error)
	GetBool(name string) (bool, error)
}
