// SPDX-License-Identifier: MPL-2.0

package modelargs

import (
	"github.com/charmbracelet/log"
)

// Option configures a Parser at construction time.
type Option func(*settings)

// settings holds the resolved construction options.
type settings struct {
	prog        string
	description string
	version     string
	epilog      string
	addHelp     bool
	exitOnError bool
	logger      *log.Logger
}

// WithProg overrides the program name shown in usage and error output.
// The default is the base name of os.Args[0].
func WithProg(prog string) Option {
	return func(s *settings) { s.prog = prog }
}

// WithDescription sets the description rendered below the usage line.
func WithDescription(desc string) Option {
	return func(s *settings) { s.description = desc }
}

// WithVersion enables -v/--version with the given version string.
func WithVersion(version string) Option {
	return func(s *settings) { s.version = version }
}

// WithEpilog sets trailing help text.
func WithEpilog(epilog string) Option {
	return func(s *settings) { s.epilog = epilog }
}

// WithoutHelp disables the automatic -h/--help flag.
func WithoutHelp() Option {
	return func(s *settings) { s.addHelp = false }
}

// WithoutExit makes Parse return errors instead of printing to stderr
// and terminating the process.
func WithoutExit() Option {
	return func(s *settings) { s.exitOnError = false }
}

// WithLogger installs a logger for construction and parse tracing.
// Tracing is emitted at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(s *settings) { s.logger = logger }
}
