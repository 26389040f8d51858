// SPDX-License-Identifier: MPL-2.0

// Package decode reshapes the tokenizer's flat raw namespace into the
// nested raw-value tree matching the model's structure, then hands the tree
// to the validation engine to produce the final typed instance.
//
// The decoder trusts the tokenizer: required flags and mandatory command
// selection were already enforced there, so their absence here is an
// internal invariant violation (a DecodeError), never a user-facing error.
package decode

import (
	"encoding/json"
	"fmt"
	"strings"

	"modelargs/internal/argspec"
	"modelargs/internal/tokenize"
	"modelargs/pkg/argerr"
	"modelargs/pkg/schema"
)

// Result builds the nested raw-value tree for a parsed namespace in a
// single bottom-up pass. It returns the tree, any per-field violations
// detected while reshaping (choice-set membership), and a *argerr.DecodeError
// on invariant violations.
func Result(def *argspec.Definition, ns *tokenize.Namespace) (map[string]any, []argerr.FieldError, error) {
	values := make(map[string]any, len(def.Required)+len(def.Optional)+len(def.Commands))
	var fieldErrs []argerr.FieldError

	for _, s := range def.Specs() {
		if ns.Seen[s.Dest] {
			v, ferr := supplied(s, ns)
			if ferr != nil {
				fieldErrs = append(fieldErrs, *ferr)
				continue
			}
			values[s.Dest] = v
			continue
		}
		if s.Required {
			return nil, nil, &argerr.DecodeError{
				Reason: fmt.Sprintf("required argument %q missing from namespace", s.Dest),
			}
		}
		if s.HasDefault {
			// Substituted as-is: defaults were typed at build time and
			// are not re-validated.
			values[s.Dest] = s.Default
		}
		// Nullable without a default stays absent and decodes to nil.
	}

	cmdValues, cmdErrs, err := commands(def, ns)
	if err != nil {
		return nil, nil, err
	}
	for k, v := range cmdValues {
		values[k] = v
	}
	return values, append(fieldErrs, cmdErrs...), nil
}

// supplied resolves the raw value for an argument present in the namespace.
func supplied(s *argspec.ArgumentSpec, ns *tokenize.Namespace) (any, *argerr.FieldError) {
	switch {
	case s.Kind == argspec.SpecBooleanFlag:
		return ns.Bools[s.Dest], nil

	case s.Field.Kind == schema.KindMapping:
		return mappingValue(ns.Lists[s.Dest]), nil

	case s.Arity == argspec.ArityOneOrMore:
		return ns.Lists[s.Dest], nil

	case s.Field.Kind == schema.KindJSON:
		raw := ns.Strings[s.Dest]
		if !json.Valid([]byte(raw)) {
			return nil, &argerr.FieldError{
				Field:   s.Dest,
				Message: fmt.Sprintf("invalid JSON value %q", raw),
			}
		}
		return json.RawMessage(raw), nil

	default:
		raw := ns.Strings[s.Dest]
		if len(s.Choices) > 0 && !member(raw, s.Choices) {
			return nil, &argerr.FieldError{
				Field: s.Dest,
				Message: fmt.Sprintf("invalid choice %q (choose from %s)",
					raw, strings.Join(s.Choices, ", ")),
			}
		}
		return raw, nil
	}
}

// mappingValue re-splits raw key=value tokens on the first '='. A malformed
// token (no '=') keeps the whole raw token list, which the validation
// engine then rejects as the field's type.
func mappingValue(tokens []string) any {
	out := make(map[string]string, len(tokens))
	for _, t := range tokens {
		k, v, ok := strings.Cut(t, "=")
		if !ok {
			return tokens
		}
		out[k] = v
	}
	return out
}

// commands resolves the command bucket: recurse into the selected branch,
// leave every sibling absent.
func commands(def *argspec.Definition, ns *tokenize.Namespace) (map[string]any, []argerr.FieldError, error) {
	if len(def.Commands) == 0 {
		return nil, nil, nil
	}
	if ns.Command == "" {
		if def.CommandsRequired {
			return nil, nil, &argerr.DecodeError{
				Reason: "mandatory command selection missing from namespace",
			}
		}
		return nil, nil, nil
	}

	cs := def.Command(ns.Command)
	if cs == nil || ns.Sub == nil {
		return nil, nil, &argerr.DecodeError{
			Reason: fmt.Sprintf("selected command %q has no namespace", ns.Command),
		}
	}
	subValues, subErrs, err := Result(cs.Def, ns.Sub)
	if err != nil {
		return nil, nil, err
	}
	for i := range subErrs {
		subErrs[i].Field = ns.Command + "." + subErrs[i].Field
	}
	return map[string]any{cs.Field.Ident: subValues}, subErrs, nil
}

// member reports whether raw matches a choice, case-sensitively.
func member(raw string, choices []string) bool {
	for _, c := range choices {
		if raw == c {
			return true
		}
	}
	return false
}
