// SPDX-License-Identifier: MPL-2.0

package tokenize

// Namespace is the raw parse result handed to the decoder: a flat mapping
// from destination key to raw string value(s), plus the selected command
// branch, recursively. Values stay uncoerced; typing is the validation
// engine's job.
type Namespace struct {
	// Strings holds single-valued raw values by destination key.
	Strings map[string]string
	// Lists holds multi-valued raw token lists by destination key.
	Lists map[string][]string
	// Bools holds resolved presence-flag values by destination key.
	Bools map[string]bool
	// Seen marks destinations that were supplied on the command line.
	Seen map[string]bool
	// Command is the selected command name, or "" if none was given.
	Command string
	// Sub is the namespace parsed under the selected command.
	Sub *Namespace
}

// newNamespace returns an empty namespace.
func newNamespace() *Namespace {
	return &Namespace{
		Strings: map[string]string{},
		Lists:   map[string][]string{},
		Bools:   map[string]bool{},
		Seen:    map[string]bool{},
	}
}
