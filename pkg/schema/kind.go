// SPDX-License-Identifier: MPL-2.0

package schema

const (
	// KindScalar is a single-valued field: strings, numbers, durations,
	// timestamps and any type whose pointer implements encoding.TextUnmarshaler.
	KindScalar Kind = "scalar"
	// KindBoolean is a bool field, rendered as a presence flag (or a
	// mutually exclusive --x / --no-x pair when required).
	KindBoolean Kind = "boolean"
	// KindEnum is a field restricted to a fixed choice set, declared either
	// via a `choices` tag or by a type implementing ChoiceSource.
	KindEnum Kind = "enum"
	// KindJSON is a json.RawMessage field; it accepts one structured JSON
	// token, checked for well-formedness before validation.
	KindJSON Kind = "json"
	// KindContainer is a homogeneous slice or array of a non-model element
	// type; it accepts one or more values.
	KindContainer Kind = "container"
	// KindMapping is a map of scalar keys to scalar values; it accepts
	// repeated key=value tokens.
	KindMapping Kind = "mapping"
	// KindCommand is a nested argument model, rendered as a subcommand
	// with its own disjoint flag namespace.
	KindCommand Kind = "command"
)

type (
	// Kind is the closed classification of a model field. It is computed
	// exactly once, at parser build time, and drives flag registration,
	// decoding and help rendering downstream.
	Kind string

	// ChoiceSource is implemented by enum-like types to expose their
	// member set in declaration order. The displayed choice strings are
	// matched case-sensitively against the raw command-line value.
	ChoiceSource interface {
		Choices() []string
	}
)

// IsValid reports whether the Kind is one of the defined classifications.
func (k Kind) IsValid() bool {
	switch k {
	case KindScalar, KindBoolean, KindEnum, KindJSON, KindContainer, KindMapping, KindCommand:
		return true
	default:
		return false
	}
}
