// SPDX-License-Identifier: MPL-2.0

// Package cobracli bridges a model-derived parser into a cobra command
// tree, so a schema-driven tool can be mounted inside a larger cobra
// application. Flags and subcommands are mirrored onto the tree for
// help and completion; actual parsing is delegated to the model
// pipeline, which keeps boolean polarity, required-argument enforcement
// and aggregated validation identical to the standalone parser.
package cobracli

import (
	"errors"
	"io"
	"reflect"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"modelargs/internal/argspec"
	"modelargs/internal/assemble"
	"modelargs/internal/render"
	"modelargs/internal/tokenize"
	"modelargs/pkg/argerr"
	"modelargs/pkg/modelargs"
	"modelargs/pkg/schema"
)

// Config carries the program metadata for a bridged command.
type Config struct {
	// Prog is the command name (cobra's Use for the root).
	Prog        string
	Description string
	Version     string
	Epilog      string
}

// Command builds a cobra command whose interface is derived from the
// model type T. The returned command parses its full argument vector
// through the model pipeline and invokes run with the decoded model.
func Command[T any](cfg Config, run func(cmd *cobra.Command, model *T) error) (*cobra.Command, error) {
	logger := log.NewWithOptions(io.Discard, log.Options{Prefix: "cobracli"})

	model := reflect.TypeOf((*T)(nil)).Elem()
	def, err := assemble.Assemble(model, assemble.Meta{
		Prog:        cfg.Prog,
		Description: cfg.Description,
		Version:     cfg.Version,
		Epilog:      cfg.Epilog,
		AddHelp:     true,
	}, logger)
	if err != nil {
		return nil, err
	}

	parser, err := modelargs.New[T](
		modelargs.WithProg(cfg.Prog),
		modelargs.WithDescription(cfg.Description),
		modelargs.WithVersion(cfg.Version),
		modelargs.WithEpilog(cfg.Epilog),
		modelargs.WithoutExit(),
	)
	if err != nil {
		return nil, err
	}

	root := mirror(def)
	root.Short = cfg.Description
	root.Version = cfg.Version
	root.SilenceErrors = true
	root.SilenceUsage = true
	// The model pipeline owns tokenization, including -h and --version.
	root.DisableFlagParsing = true
	root.RunE = func(cmd *cobra.Command, args []string) error {
		decoded, err := parser.Parse(args)
		if err != nil {
			// Help and version interrupts have already written their
			// output; they are not failures.
			var help *tokenize.HelpRequest
			var version *tokenize.VersionRequest
			if errors.As(err, &help) || errors.As(err, &version) {
				return nil
			}
			return err
		}
		return run(cmd, decoded)
	}
	return root, nil
}

// ExitCode maps a bridged command's error to a process exit code:
// usage failures exit 2, anything else 1, nil 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, argerr.ErrArgument) {
		return 2
	}
	return 1
}

// mirror builds the display tree for a definition: one cobra command
// per command spec, with the definition's flags registered so help and
// shell completion reflect the schema.
func mirror(def *argspec.Definition) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use(def),
		Short: def.Description,
	}
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		c.Println(render.Help(def))
	})
	for _, s := range def.Specs() {
		registerFlag(cmd, s)
	}
	for _, sub := range def.Commands {
		child := mirror(sub.Def)
		child.Short = sub.Description
		cmd.AddCommand(child)
	}
	return cmd
}

// use derives the cobra Use string from the definition's prog, which
// for nested commands includes the parent prefix.
func use(def *argspec.Definition) string {
	parts := def.Prog
	if i := lastSpace(parts); i >= 0 {
		parts = parts[i+1:]
	}
	if len(def.Commands) > 0 {
		parts += " [command]"
	}
	return parts
}

func lastSpace(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' {
			return i
		}
	}
	return -1
}

// registerFlag mirrors one argument spec onto the cobra flag set. The
// registrations are string-typed for display; values are never read
// from them.
func registerFlag(cmd *cobra.Command, s *argspec.ArgumentSpec) {
	fs := cmd.Flags()
	switch {
	case s.Kind == argspec.SpecBooleanFlag:
		if s.Long != "" {
			if s.Short != "" {
				fs.BoolP(s.Long, s.Short, false, s.Help)
			} else {
				fs.Bool(s.Long, false, s.Help)
			}
		}
		if s.NegLong != "" {
			if s.Short != "" && s.Long == "" {
				fs.BoolP(s.NegLong, s.Short, false, s.Help)
			} else {
				fs.Bool(s.NegLong, false, s.Help)
			}
		}
	case s.Field.Kind == schema.KindMapping || s.Arity == argspec.ArityOneOrMore:
		if s.Short != "" {
			fs.StringSliceP(s.Long, s.Short, nil, s.Help)
		} else {
			fs.StringSlice(s.Long, nil, s.Help)
		}
	default:
		if s.Short != "" {
			fs.StringP(s.Long, s.Short, "", s.Help)
		} else {
			fs.String(s.Long, "", s.Help)
		}
	}
	if s.Required && s.Long != "" {
		_ = cmd.MarkFlagRequired(s.Long)
	}
}
