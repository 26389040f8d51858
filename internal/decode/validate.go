// SPDX-License-Identifier: MPL-2.0

package decode

import (
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"modelargs/internal/argspec"
	"modelargs/pkg/argerr"
)

// Validate hands the decoded raw-value tree to the validation engine,
// coercing it into the typed model instance pointed to by out. Engine
// failures are merged with the decoder's own per-field violations into a
// single *argerr.ValidationError; on success with no violations it returns
// nil and out is fully populated.
func Validate(def *argspec.Definition, values map[string]any, fieldErrs []argerr.FieldError, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		MatchName:        matchName,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		// Decoder construction only fails on a nil result target, which
		// the parser never passes; treat it as the defect it is.
		return &argerr.DecodeError{Reason: "validation engine rejected the model: " + err.Error()}
	}

	if err := dec.Decode(values); err != nil {
		fieldErrs = append(fieldErrs, engineFailures(def, err)...)
	}
	if len(fieldErrs) > 0 {
		return &argerr.ValidationError{Fields: fieldErrs}
	}
	return nil
}

// engineFailures converts the engine's aggregated error into per-field
// violations. The engine joins its individual failures, so they are
// recovered through the Unwrap() []error chain; each failure names the
// field in single quotes.
func engineFailures(def *argspec.Definition, err error) []argerr.FieldError {
	out := make([]argerr.FieldError, 0, 1)
	for _, leaf := range leafErrors(err) {
		msg := leaf.Error()
		out = append(out, argerr.FieldError{
			Field:   destForField(def, quotedName(msg)),
			Message: msg,
		})
	}
	return out
}

// leafErrors flattens a joined error tree into its individual failures.
// An error that joins nothing is its own leaf.
func leafErrors(err error) []error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	wrapped := joined.Unwrap()
	if len(wrapped) == 0 {
		return []error{err}
	}
	var out []error
	for _, e := range wrapped {
		out = append(out, leafErrors(e)...)
	}
	return out
}

// quotedName extracts the first single-quoted name from an engine message,
// e.g. "cannot parse 'Integer' as int" yields "Integer".
func quotedName(msg string) string {
	_, rest, ok := strings.Cut(msg, "'")
	if !ok {
		return ""
	}
	name, _, ok := strings.Cut(rest, "'")
	if !ok {
		return ""
	}
	return name
}

// destForField maps an engine field path back to the argument destination
// key it was decoded from, so violations are reported against the flag
// identifier users see.
func destForField(def *argspec.Definition, path string) string {
	if path == "" {
		return ""
	}
	head, rest, nested := strings.Cut(path, ".")
	for _, s := range def.Specs() {
		if normalize(s.Dest) == normalize(head) {
			return s.Dest
		}
	}
	for _, c := range def.Commands {
		if normalize(c.Field.Ident) != normalize(head) {
			continue
		}
		if !nested {
			return c.Field.Ident
		}
		return c.Name + "." + destForField(c.Def, rest)
	}
	return strings.ToLower(path)
}

// matchName matches namespace keys against model field names, ignoring
// case and separator characters ("second_flag" matches "SecondFlag").
func matchName(mapKey, fieldName string) bool {
	return normalize(mapKey) == normalize(fieldName)
}

// normalize lower-cases a name and strips underscores and hyphens.
func normalize(name string) string {
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, "-", "")
	return strings.ToLower(name)
}
