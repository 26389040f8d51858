// SPDX-License-Identifier: MPL-2.0

package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"modelargs/pkg/argerr"
)

func TestReportExitsWithUsageCode(t *testing.T) {
	var out bytes.Buffer
	var code = -1
	r := &Reporter{
		Prog:        "tool",
		Usage:       "usage: tool [-h] --name NAME",
		ExitOnError: true,
		Stderr:      &out,
		Exit:        func(c int) { code = c },
	}

	r.Report(&argerr.TokenizationError{Reason: "the following arguments are required: --name"})

	if code != ExitUsage {
		t.Errorf("expected exit code %d, got %d", ExitUsage, code)
	}
	text := out.String()
	if !strings.Contains(text, "usage: tool [-h] --name NAME") {
		t.Errorf("usage line missing:\n%s", text)
	}
	if !strings.Contains(text, "tool: error:") {
		t.Errorf("error prefix missing:\n%s", text)
	}
	if !strings.Contains(text, "the following arguments are required: --name") {
		t.Errorf("failure summary missing:\n%s", text)
	}
}

func TestReportReturnsArgumentError(t *testing.T) {
	var out bytes.Buffer
	cause := &argerr.TokenizationError{Reason: "unknown flag: --bogus"}
	r := &Reporter{
		Prog:   "tool",
		Usage:  "usage: tool",
		Stderr: &out,
		Exit:   func(int) { t.Fatal("Exit must not be called with exiting disabled") },
	}

	err := r.Report(cause)
	if !errors.Is(err, argerr.ErrArgument) {
		t.Fatalf("expected ErrArgument, got %v", err)
	}

	var wrapped *argerr.ArgumentError
	if !errors.As(err, &wrapped) {
		t.Fatalf("expected *ArgumentError, got %T", err)
	}
	if wrapped.Prog != "tool" {
		t.Errorf("expected prog tool, got %q", wrapped.Prog)
	}

	var tok *argerr.TokenizationError
	if !errors.As(err, &tok) {
		t.Error("the original cause must stay reachable through the wrapper")
	}
}

func TestReportMultiLineValidationSummary(t *testing.T) {
	var out bytes.Buffer
	r := &Reporter{
		Prog:        "tool",
		ExitOnError: true,
		Stderr:      &out,
		Exit:        func(int) {},
	}

	r.Report(&argerr.ValidationError{Fields: []argerr.FieldError{
		{Field: "integer", Message: "cannot parse as int"},
		{Field: "mode", Message: `invalid choice "warp"`},
	}})

	text := out.String()
	if !strings.Contains(text, "2 validation error(s)") {
		t.Errorf("aggregate count missing:\n%s", text)
	}
	if !strings.Contains(text, "integer: cannot parse as int") {
		t.Errorf("first violation missing:\n%s", text)
	}
	if !strings.Contains(text, `mode: invalid choice "warp"`) {
		t.Errorf("second violation missing:\n%s", text)
	}
}
