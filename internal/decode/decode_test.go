// SPDX-License-Identifier: MPL-2.0

package decode

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"modelargs/internal/argspec"
	"modelargs/internal/assemble"
	"modelargs/internal/tokenize"
	"modelargs/pkg/argerr"
)

func defFor(t *testing.T, model any) *argspec.Definition {
	t.Helper()
	def, err := assemble.Assemble(reflect.TypeOf(model), assemble.Meta{
		Prog:    "tool",
		AddHelp: true,
	}, log.New(io.Discard))
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	return def
}

func parse(t *testing.T, def *argspec.Definition, args []string) *tokenize.Namespace {
	t.Helper()
	ns, err := tokenize.Parse(def, args)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return ns
}

// ---- raw-value tree ----

func TestResultFlat(t *testing.T) {
	type model struct {
		Name    string   `help:"required"`
		Flag    bool     `help:"required"`
		Count   int      `help:"defaulted" default:"3"`
		Quiet   bool     `help:"defaulted" default:"true"`
		Tags    []string `help:"optional list" default:"x"`
		Label   *string  `help:"nullable"`
	}
	def := defFor(t, model{})
	ns := parse(t, def, []string{"--name", "hello", "--no-flag"})

	values, fieldErrs, err := Result(def, ns)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if len(fieldErrs) != 0 {
		t.Fatalf("unexpected field errors: %+v", fieldErrs)
	}

	want := map[string]any{
		"name":  "hello",
		"flag":  false,
		"count": int64(3),
		"quiet": true,
		"tags":  []string{"x"},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("raw tree mismatch (-want +got):\n%s", diff)
	}
	if _, present := values["label"]; present {
		t.Error("nullable without default must stay absent")
	}
}

func TestResultSuppliedBeatsDefault(t *testing.T) {
	type model struct {
		Count int `help:"defaulted" default:"3"`
	}
	def := defFor(t, model{})
	ns := parse(t, def, []string{"--count", "9"})

	values, _, err := Result(def, ns)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if values["count"] != "9" {
		t.Errorf("supplied raw value must win over the default, got %v", values["count"])
	}
}

func TestResultChoiceViolation(t *testing.T) {
	type model struct {
		Mode string `help:"enum" choices:"fast,slow"`
	}
	def := defFor(t, model{})
	ns := parse(t, def, []string{"--mode", "warp"})

	_, fieldErrs, err := Result(def, ns)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if len(fieldErrs) != 1 {
		t.Fatalf("expected one field error, got %+v", fieldErrs)
	}
	if fieldErrs[0].Field != "mode" {
		t.Errorf("expected field mode, got %q", fieldErrs[0].Field)
	}
	if !strings.Contains(fieldErrs[0].Message, `invalid choice "warp"`) {
		t.Errorf("unexpected message: %s", fieldErrs[0].Message)
	}
}

// ---- mappings ----

func TestMappingValue(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   any
	}{
		{"well-formed pairs", []string{"a=1", "b=2"}, map[string]string{"a": "1", "b": "2"}},
		{"value containing equals", []string{"url=http://x?a=b"}, map[string]string{"url": "http://x?a=b"}},
		{"malformed token keeps raw list", []string{"a=1", "oops"}, []string{"a=1", "oops"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, mappingValue(tt.tokens)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// ---- json fields ----

func TestResultJSONField(t *testing.T) {
	type model struct {
		Payload json.RawMessage `help:"structured token"`
	}
	def := defFor(t, model{})
	ns := parse(t, def, []string{"--payload", `{"a":1}`})

	values, fieldErrs, err := Result(def, ns)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if len(fieldErrs) != 0 {
		t.Fatalf("unexpected field errors: %+v", fieldErrs)
	}

	var out model
	if err := Validate(def, values, fieldErrs, &out); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if diff := cmp.Diff(json.RawMessage(`{"a":1}`), out.Payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestResultJSONFieldMalformed(t *testing.T) {
	type model struct {
		Payload json.RawMessage `help:"structured token"`
	}
	def := defFor(t, model{})
	ns := parse(t, def, []string{"--payload", "{not json"})

	_, fieldErrs, err := Result(def, ns)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if len(fieldErrs) != 1 || fieldErrs[0].Field != "payload" {
		t.Fatalf("expected a payload violation, got %+v", fieldErrs)
	}
	if !strings.Contains(fieldErrs[0].Message, "invalid JSON") {
		t.Errorf("unexpected message: %s", fieldErrs[0].Message)
	}
}

// ---- commands ----

func TestResultCommandRecursion(t *testing.T) {
	type deploy struct {
		Target string `help:"target"`
		Force  bool   `help:"force" default:"false"`
	}
	type model struct {
		Verbose bool   `help:"chatty" default:"false"`
		Deploy  deploy `help:"deploy"`
	}
	def := defFor(t, model{})
	ns := parse(t, def, []string{"--verbose", "deploy", "--target", "prod"})

	values, fieldErrs, err := Result(def, ns)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if len(fieldErrs) != 0 {
		t.Fatalf("unexpected field errors: %+v", fieldErrs)
	}

	want := map[string]any{
		"verbose": true,
		"deploy": map[string]any{
			"target": "prod",
			"force":  false,
		},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("nested tree mismatch (-want +got):\n%s", diff)
	}
}

func TestResultNestedFieldErrorPrefix(t *testing.T) {
	type deploy struct {
		Mode string `help:"enum" choices:"fast,slow"`
	}
	type model struct {
		Deploy deploy `help:"deploy"`
	}
	def := defFor(t, model{})
	ns := parse(t, def, []string{"deploy", "--mode", "warp"})

	_, fieldErrs, err := Result(def, ns)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if len(fieldErrs) != 1 || fieldErrs[0].Field != "deploy.mode" {
		t.Errorf("expected deploy.mode violation, got %+v", fieldErrs)
	}
}

// ---- decoder invariants ----

func TestResultMissingRequiredIsDefect(t *testing.T) {
	type model struct {
		Name string `help:"required"`
	}
	def := defFor(t, model{})

	// Bypass the tokenizer to violate its guarantee.
	_, _, err := Result(def, &tokenize.Namespace{Seen: map[string]bool{}})
	if !errors.Is(err, argerr.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

// ---- validation ----

func TestValidateTypedPopulation(t *testing.T) {
	type model struct {
		Name     string            `help:"string"`
		Count    int               `help:"int"`
		Rate     float64           `help:"float" default:"0.5"`
		Flag     bool              `help:"flag"`
		Wait     time.Duration     `help:"duration" default:"250ms"`
		Tags     []string          `help:"list"`
		Ports    []int             `help:"numeric list"`
		Labels   map[string]string `help:"mapping"`
		Nickname *string           `help:"nullable"`
	}
	def := defFor(t, model{})
	ns := parse(t, def, []string{
		"--name", "hello", "--count", "42", "--flag",
		"--tags", "a,b", "--ports", "80,443",
		"--labels", "env=prod", "--labels", "tier=web",
	})
	values, fieldErrs, err := Result(def, ns)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	var out model
	if err := Validate(def, values, fieldErrs, &out); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := model{
		Name:   "hello",
		Count:  42,
		Rate:   0.5,
		Flag:   true,
		Wait:   250 * time.Millisecond,
		Tags:   []string{"a", "b"},
		Ports:  []int{80, 443},
		Labels: map[string]string{"env": "prod", "tier": "web"},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("decoded model mismatch (-want +got):\n%s", diff)
	}
	if out.Nickname != nil {
		t.Errorf("absent nullable must stay nil, got %v", *out.Nickname)
	}
}

func TestValidateCoercionFailure(t *testing.T) {
	type model struct {
		Integer int `help:"int"`
	}
	def := defFor(t, model{})
	ns := parse(t, def, []string{"--integer", "notanumber"})
	values, fieldErrs, err := Result(def, ns)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	var out model
	verr := Validate(def, values, fieldErrs, &out)
	if !errors.Is(verr, argerr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", verr)
	}
	var v *argerr.ValidationError
	if !errors.As(verr, &v) {
		t.Fatalf("expected *ValidationError, got %T", verr)
	}
	if len(v.Fields) != 1 {
		t.Fatalf("expected one violation, got %+v", v.Fields)
	}
	if v.Fields[0].Field != "integer" {
		t.Errorf("expected violation against integer, got %q", v.Fields[0].Field)
	}
}

func TestValidateAggregatesViolations(t *testing.T) {
	type model struct {
		Integer int    `help:"int"`
		Mode    string `help:"enum" choices:"fast,slow"`
	}
	def := defFor(t, model{})
	ns := parse(t, def, []string{"--integer", "no", "--mode", "warp"})
	values, fieldErrs, err := Result(def, ns)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	var out model
	verr := Validate(def, values, fieldErrs, &out)
	var v *argerr.ValidationError
	if !errors.As(verr, &v) {
		t.Fatalf("expected *ValidationError, got %v", verr)
	}
	if len(v.Fields) != 2 {
		t.Fatalf("expected both violations reported at once, got %+v", v.Fields)
	}
	fields := map[string]bool{}
	for _, f := range v.Fields {
		fields[f.Field] = true
	}
	if !fields["integer"] || !fields["mode"] {
		t.Errorf("violations must be attributed to their fields, got %+v", v.Fields)
	}
}

func TestValidateNestedCommand(t *testing.T) {
	type deploy struct {
		Target string `help:"target"`
		Count  int    `help:"count" default:"1"`
	}
	type model struct {
		Verbose bool   `help:"chatty" default:"false"`
		Deploy  deploy `help:"deploy"`
	}
	def := defFor(t, model{})
	ns := parse(t, def, []string{"deploy", "--target", "prod"})
	values, fieldErrs, err := Result(def, ns)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	var out model
	if err := Validate(def, values, fieldErrs, &out); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	want := model{Deploy: deploy{Target: "prod", Count: 1}}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("nested model mismatch (-want +got):\n%s", diff)
	}
}
