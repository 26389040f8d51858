// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"

	"modelargs/pkg/argerr"
)

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	choiceSourceType    = reflect.TypeOf((*ChoiceSource)(nil)).Elem()
	durationType        = reflect.TypeOf(time.Duration(0))
	jsonRawType         = reflect.TypeOf(json.RawMessage{})
)

// FieldDescriptor is the derived, read-only view of one model field. It is
// computed fresh from the model's reflect metadata each time a parser is
// assembled and never mutated afterwards.
type FieldDescriptor struct {
	// Name is the Go field name on the model struct.
	Name string
	// Ident is the snake_case identifier used as the namespace key.
	Ident string
	// Kind is the field's classification.
	Kind Kind
	// Type is the field's declared type, pointer wrapper included.
	Type reflect.Type
	// Base is the declared type with any pointer wrapper stripped.
	Base reflect.Type
	// Elem is the element type for container fields.
	Elem reflect.Type
	// Key and Value are the key/value types for mapping fields.
	Key, Value reflect.Type
	// Model is the nested model struct type for command fields.
	Model reflect.Type
	// Required is true when no default exists and the type is not
	// pointer-wrapped. Orthogonal to Nullable.
	Required bool
	// Nullable is true when the declared type is pointer-wrapped, meaning
	// omission yields nil. Orthogonal to Required.
	Nullable bool
	// HasDefault is true when the field carries a `default` tag.
	HasDefault bool
	// Default is the typed default value; only meaningful if HasDefault.
	Default any
	// Description is the `help` tag text, if any.
	Description string
	// Alias overrides the primary displayed flag name, if set.
	Alias string
	// Short is a one-character short flag, if set.
	Short string
	// Choices is the ordered display set for enum fields.
	Choices []string
	// Index is the field's declaration position within the model.
	Index int
}

// Extract computes the FieldDescriptor list for an argument model type in
// declaration order. The model must be a struct type (a pointer wrapper is
// accepted and stripped). Unexported and embedded fields are ignored.
//
// All classification failures surface here as a *argerr.ConfigurationError;
// parse time never classifies.
func Extract(model reflect.Type) ([]FieldDescriptor, error) {
	if model.Kind() == reflect.Pointer {
		model = model.Elem()
	}
	if model.Kind() != reflect.Struct {
		return nil, &argerr.ConfigurationError{
			Model:  model.String(),
			Reason: "argument model must be a struct type",
		}
	}

	fields := make([]FieldDescriptor, 0, model.NumField())
	for i := 0; i < model.NumField(); i++ {
		sf := model.Field(i)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		fd, err := describe(model, sf, len(fields))
		if err != nil {
			return nil, err
		}
		fields = append(fields, fd)
	}
	return fields, nil
}

// describe derives the full descriptor for a single struct field.
func describe(model reflect.Type, sf reflect.StructField, index int) (FieldDescriptor, error) {
	fd := FieldDescriptor{
		Name:        sf.Name,
		Ident:       snakeCase(sf.Name),
		Type:        sf.Type,
		Base:        sf.Type,
		Description: sf.Tag.Get(tagHelp),
		Index:       index,
	}
	if fd.Base.Kind() == reflect.Pointer {
		fd.Nullable = true
		fd.Base = fd.Base.Elem()
	}

	fail := func(reason string, err error) (FieldDescriptor, error) {
		return FieldDescriptor{}, &argerr.ConfigurationError{
			Model:  model.String(),
			Field:  sf.Name,
			Reason: reason,
			Err:    err,
		}
	}

	if alias, ok := sf.Tag.Lookup(tagAlias); ok {
		if !validFlagName(alias) {
			return fail(fmt.Sprintf("malformed alias %q", alias), nil)
		}
		fd.Alias = alias
	}
	if short, ok := sf.Tag.Lookup(tagShort); ok {
		if len([]rune(short)) != 1 || !validFlagName(short) {
			return fail(fmt.Sprintf("short flag %q must be a single character", short), nil)
		}
		fd.Short = short
	}

	if err := classify(&fd, sf); err != nil {
		return fail("cannot classify field type "+sf.Type.String(), err)
	}

	rawDefault, ok := sf.Tag.Lookup(tagDefault)
	fd.HasDefault = ok
	if ok {
		def, err := coerceDefault(rawDefault, &fd)
		if err != nil {
			return fail(fmt.Sprintf("malformed default %q", rawDefault), err)
		}
		fd.Default = def
	}

	// Requiredness and nullability are deliberately orthogonal: an explicit
	// default wins over the pointer wrapper, which only grants nil on
	// omission.
	fd.Required = !fd.HasDefault && !fd.Nullable
	return fd, nil
}

// classify assigns the field's Kind following a fixed priority order:
// boolean, enum/choices, container, mapping, nested model, scalar. The first
// matching rule wins. A pointer wrapper around a non-model type classifies
// per the wrapped type; the wrapper itself only affects requiredness.
func classify(fd *FieldDescriptor, sf reflect.StructField) error {
	base := fd.Base

	if base.Kind() == reflect.Bool {
		fd.Kind = KindBoolean
		return nil
	}

	if choices, err := choiceSet(base, sf); err != nil {
		return err
	} else if choices != nil {
		fd.Kind = KindEnum
		fd.Choices = choices
		return nil
	}

	// JSON fields take one structured token; the check precedes the slice
	// rule because json.RawMessage is itself a byte slice.
	if base == jsonRawType {
		fd.Kind = KindJSON
		return nil
	}

	// Text-unmarshaling types (time.Time, net.IP, ...) are scalars even
	// when their underlying kind is a struct or a byte slice.
	if reflect.PointerTo(base).Implements(textUnmarshalerType) {
		fd.Kind = KindScalar
		return nil
	}

	switch base.Kind() {
	case reflect.Slice, reflect.Array:
		elem := base.Elem()
		if !scalarType(elem) {
			return fmt.Errorf("container element type %s is not a scalar", elem)
		}
		fd.Kind = KindContainer
		fd.Elem = elem
		return nil

	case reflect.Map:
		if !scalarType(base.Key()) || !scalarType(base.Elem()) {
			return fmt.Errorf("mapping key/value types (%s, %s) are not scalars", base.Key(), base.Elem())
		}
		fd.Kind = KindMapping
		fd.Key = base.Key()
		fd.Value = base.Elem()
		return nil

	case reflect.Struct:
		fd.Kind = KindCommand
		fd.Model = base
		return nil
	}

	if scalarType(base) {
		fd.Kind = KindScalar
		return nil
	}
	return fmt.Errorf("unsupported kind %s", base.Kind())
}

// choiceSet resolves the field's choice set, if any: a `choices` tag on a
// scalar-kinded field, or a field type implementing ChoiceSource. A tag with
// fewer than two members is a configuration mistake.
func choiceSet(base reflect.Type, sf reflect.StructField) ([]string, error) {
	if raw, ok := sf.Tag.Lookup(tagChoices); ok {
		members := splitList(raw)
		if len(members) < 2 {
			return nil, fmt.Errorf("choices %q needs at least two members", raw)
		}
		if !scalarType(base) {
			return nil, fmt.Errorf("choices tag on non-scalar type %s", base)
		}
		return members, nil
	}
	if base.Implements(choiceSourceType) || reflect.PointerTo(base).Implements(choiceSourceType) {
		src, ok := reflect.New(base).Interface().(ChoiceSource)
		if !ok {
			return nil, fmt.Errorf("type %s does not expose its choices", base)
		}
		members := src.Choices()
		if len(members) < 2 {
			return nil, fmt.Errorf("type %s exposes fewer than two choices", base)
		}
		return members, nil
	}
	return nil, nil
}

// scalarType reports whether t can serve as a single-token value: strings,
// booleans, numbers, and text-unmarshaling types.
func scalarType(t reflect.Type) bool {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// coerceDefault converts the raw `default` tag into the typed default value
// stored on the descriptor. Defaults are coerced once, here, so parse-time
// substitution is identity-preserving.
func coerceDefault(raw string, fd *FieldDescriptor) (any, error) {
	switch fd.Kind {
	case KindBoolean:
		return cast.ToBoolE(raw)

	case KindEnum:
		for _, c := range fd.Choices {
			if raw == c {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("%q is not one of %v", raw, fd.Choices)

	case KindJSON:
		if !json.Valid([]byte(raw)) {
			return nil, fmt.Errorf("%q is not well-formed JSON", raw)
		}
		return json.RawMessage(raw), nil

	case KindContainer:
		return splitList(raw), nil

	case KindMapping:
		return splitPairs(splitList(raw))

	case KindCommand:
		// A default on a command field only marks the command optional;
		// there is no value to coerce.
		return nil, nil

	default:
		return coerceScalar(raw, fd.Base)
	}
}

// coerceScalar converts a raw default string for a scalar field. Types the
// validation engine parses from text (durations, timestamps) keep the raw
// string and are converted by its decode hooks.
func coerceScalar(raw string, base reflect.Type) (any, error) {
	if base == durationType || reflect.PointerTo(base).Implements(textUnmarshalerType) {
		return raw, nil
	}
	switch base.Kind() {
	case reflect.String:
		return raw, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cast.ToInt64E(raw)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cast.ToUint64E(raw)
	case reflect.Float32, reflect.Float64:
		return cast.ToFloat64E(raw)
	default:
		return nil, fmt.Errorf("no default coercion for %s", base)
	}
}

// splitPairs turns raw key=value members into a string map, preserving a
// malformed member as an error since defaults are developer-supplied.
func splitPairs(members []string) (map[string]string, error) {
	out := make(map[string]string, len(members))
	for _, m := range members {
		k, v, ok := strings.Cut(m, "=")
		if !ok {
			return nil, fmt.Errorf("%q is not a key=value pair", m)
		}
		out[k] = v
	}
	return out, nil
}
