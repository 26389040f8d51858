// SPDX-License-Identifier: MPL-2.0

package argspec

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"modelargs/pkg/schema"
)

// Build derives the concrete argument specification for a classified,
// non-command field descriptor.
func Build(fd schema.FieldDescriptor) *ArgumentSpec {
	s := &ArgumentSpec{
		Field:      fd,
		Short:      fd.Short,
		Required:   fd.Required,
		HasDefault: fd.HasDefault,
		Default:    fd.Default,
		Choices:    fd.Choices,
		Dest:       fd.Ident,
	}

	name := FlagName(fd)
	switch fd.Kind {
	case schema.KindBoolean:
		buildBoolean(s, name)
	case schema.KindContainer, schema.KindMapping:
		s.Kind = SpecValue
		s.Arity = ArityOneOrMore
		s.Long = name
	default:
		s.Kind = SpecValue
		s.Arity = ArityOne
		s.Long = name
	}

	s.Flags = displayFlags(s)
	s.Metavar = metavar(fd)
	s.Help = helpText(s)
	return s
}

// buildBoolean applies the polarity rule: required booleans expose both
// --name and --no-name and the caller must supply exactly one; optional
// booleans expose the single flag pointing away from their default pole.
func buildBoolean(s *ArgumentSpec, name string) {
	s.Kind = SpecBooleanFlag
	s.Arity = ArityZero
	switch {
	case s.Required:
		s.Long = name
		s.NegLong = "no-" + name
	case defaultTrue(s):
		s.NegLong = "no-" + name
	default:
		s.Long = name
	}
}

// defaultTrue reports whether an optional boolean defaults to true. A
// nullable boolean without an explicit default biases false, matching the
// polarity of an explicit false default.
func defaultTrue(s *ArgumentSpec) bool {
	if !s.HasDefault {
		return false
	}
	v, ok := s.Default.(bool)
	return ok && v
}

// FlagName derives the long flag name for a field: the alias verbatim when
// set, otherwise the snake_case identifier with underscores as hyphens.
func FlagName(fd schema.FieldDescriptor) string {
	if fd.Alias != "" {
		return fd.Alias
	}
	return strings.ReplaceAll(fd.Ident, "_", "-")
}

// CommandName derives the command token for a sub-model field.
func CommandName(fd schema.FieldDescriptor) string {
	return FlagName(fd)
}

// displayFlags builds the ordered flag display set: positive long form,
// negated form, then the short flag.
func displayFlags(s *ArgumentSpec) []string {
	var flags []string
	if s.Long != "" {
		flags = append(flags, "--"+s.Long)
	}
	if s.NegLong != "" {
		flags = append(flags, "--"+s.NegLong)
	}
	if s.Short != "" {
		flags = append(flags, "-"+s.Short)
	}
	return flags
}

// metavar derives the value placeholder: the choice set for enums, the
// upper-cased identifier otherwise. Presence flags have no metavar.
func metavar(fd schema.FieldDescriptor) string {
	switch fd.Kind {
	case schema.KindBoolean, schema.KindCommand:
		return ""
	case schema.KindEnum:
		return "{" + strings.Join(fd.Choices, ",") + "}"
	default:
		return strings.ToUpper(fd.Ident)
	}
}

// helpText augments the field description with a default annotation for
// optional arguments. Required arguments show the description as supplied.
func helpText(s *ArgumentSpec) string {
	if s.Required {
		return s.Field.Description
	}
	annotation := fmt.Sprintf("(default: %s)", defaultRepr(s))
	if s.Field.Description == "" {
		return annotation
	}
	return s.Field.Description + " " + annotation
}

// defaultRepr renders the default value for display. Nullable fields
// without an explicit default render as "none"; optional booleans render
// their actual polarity.
func defaultRepr(s *ArgumentSpec) string {
	if !s.HasDefault {
		if s.Kind == SpecBooleanFlag && !s.Field.Nullable {
			return "false"
		}
		return "none"
	}
	if repr, err := cast.ToStringE(s.Default); err == nil {
		return repr
	}
	return fmt.Sprintf("%v", s.Default)
}
