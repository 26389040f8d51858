// SPDX-License-Identifier: MPL-2.0

package argspec

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"modelargs/pkg/schema"
)

func descriptorFor(t *testing.T, model any, ident string) schema.FieldDescriptor {
	t.Helper()
	fields, err := schema.Extract(reflect.TypeOf(model))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	for _, fd := range fields {
		if fd.Ident == ident {
			return fd
		}
	}
	t.Fatalf("no field with ident %q", ident)
	return schema.FieldDescriptor{}
}

// ---- boolean polarity ----

func TestBuildBooleanPolarity(t *testing.T) {
	type model struct {
		Flag       bool `help:"a required flag"`
		SecondFlag bool `help:"an optional flag" default:"false"`
		ThirdFlag  bool `help:"an optional flag" default:"true"`
	}

	tests := []struct {
		name     string
		ident    string
		long     string
		negLong  string
		required bool
	}{
		{"required exposes both poles", "flag", "flag", "no-flag", true},
		{"default false exposes positive", "second_flag", "second-flag", "", false},
		{"default true exposes negated", "third_flag", "", "no-third-flag", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Build(descriptorFor(t, model{}, tt.ident))
			if s.Kind != SpecBooleanFlag {
				t.Fatalf("expected boolean flag spec, got %s", s.Kind)
			}
			if s.Long != tt.long {
				t.Errorf("expected long %q, got %q", tt.long, s.Long)
			}
			if s.NegLong != tt.negLong {
				t.Errorf("expected negated %q, got %q", tt.negLong, s.NegLong)
			}
			if s.Required != tt.required {
				t.Errorf("expected required=%v", tt.required)
			}
			if s.Arity != ArityZero {
				t.Errorf("expected zero arity, got %s", s.Arity)
			}
			if s.Metavar != "" {
				t.Errorf("expected no metavar for a presence flag, got %q", s.Metavar)
			}
		})
	}
}

func TestBuildNullableBooleanBiasesFalse(t *testing.T) {
	type model struct {
		Maybe *bool `help:"a nullable flag"`
	}
	s := Build(descriptorFor(t, model{}, "maybe"))
	if s.Long != "maybe" || s.NegLong != "" {
		t.Errorf("expected only the positive pole, got long=%q neg=%q", s.Long, s.NegLong)
	}
	if s.Required {
		t.Error("expected nullable flag to be optional")
	}
}

// ---- flag name derivation ----

func TestBuildFlagNames(t *testing.T) {
	type model struct {
		SecondFlag string `help:"hyphens from snake case"`
		Custom     string `help:"alias verbatim" alias:"my_name"`
		Short      string `help:"short rides along" short:"s"`
	}

	tests := []struct {
		ident string
		long  string
		flags []string
	}{
		{"second_flag", "second-flag", []string{"--second-flag"}},
		{"custom", "my_name", []string{"--my_name"}},
		{"short", "short", []string{"--short", "-s"}},
	}
	for _, tt := range tests {
		s := Build(descriptorFor(t, model{}, tt.ident))
		if s.Long != tt.long {
			t.Errorf("%s: expected long %q, got %q", tt.ident, tt.long, s.Long)
		}
		if diff := cmp.Diff(tt.flags, s.Flags); diff != "" {
			t.Errorf("%s: display flags mismatch (-want +got):\n%s", tt.ident, diff)
		}
		if s.Dest != tt.ident {
			t.Errorf("%s: alias must not change the destination, got %q", tt.ident, s.Dest)
		}
	}
}

func TestBuildRequiredBooleanFlags(t *testing.T) {
	type model struct {
		Flag bool `help:"a required flag" short:"f"`
	}
	s := Build(descriptorFor(t, model{}, "flag"))
	want := []string{"--flag", "--no-flag", "-f"}
	if diff := cmp.Diff(want, s.Flags); diff != "" {
		t.Errorf("display flags mismatch (-want +got):\n%s", diff)
	}
}

// ---- arity ----

func TestBuildArity(t *testing.T) {
	type model struct {
		Name   string            `help:"one value"`
		Tags   []string          `help:"repeated values"`
		Labels map[string]string `help:"repeated pairs"`
	}
	tests := []struct {
		ident string
		arity Arity
	}{
		{"name", ArityOne},
		{"tags", ArityOneOrMore},
		{"labels", ArityOneOrMore},
	}
	for _, tt := range tests {
		s := Build(descriptorFor(t, model{}, tt.ident))
		if s.Arity != tt.arity {
			t.Errorf("%s: expected arity %s, got %s", tt.ident, tt.arity, s.Arity)
		}
		if !s.TakesValue() {
			t.Errorf("%s: expected a value-taking spec", tt.ident)
		}
	}
}

// ---- metavar and help ----

func TestBuildMetavar(t *testing.T) {
	type model struct {
		OutputDir string `help:"a scalar"`
		Mode      string `help:"an enum" choices:"fast,slow"`
	}
	if got := Build(descriptorFor(t, model{}, "output_dir")).Metavar; got != "OUTPUT_DIR" {
		t.Errorf("expected OUTPUT_DIR, got %q", got)
	}
	if got := Build(descriptorFor(t, model{}, "mode")).Metavar; got != "{fast,slow}" {
		t.Errorf("expected {fast,slow}, got %q", got)
	}
}

func TestBuildHelpAnnotations(t *testing.T) {
	type model struct {
		Name  string  `help:"a required string"`
		Count int     `help:"an optional int" default:"3"`
		Quiet bool    `help:"an optional flag" default:"false"`
		Label *string `help:"a nullable string"`
	}

	tests := []struct {
		ident string
		help  string
	}{
		{"name", "a required string"},
		{"count", "an optional int (default: 3)"},
		{"quiet", "an optional flag (default: false)"},
		{"label", "a nullable string (default: none)"},
	}
	for _, tt := range tests {
		if got := Build(descriptorFor(t, model{}, tt.ident)).Help; got != tt.help {
			t.Errorf("%s: expected help %q, got %q", tt.ident, tt.help, got)
		}
	}
}
