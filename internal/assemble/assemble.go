// SPDX-License-Identifier: MPL-2.0

// Package assemble compiles an argument model into an immutable parser
// definition: it extracts and classifies the model's fields, derives their
// argument specifications, recursively assembles nested command definitions
// and registers every flag against the underlying tokenizer.
package assemble

import (
	"fmt"
	"reflect"

	"github.com/charmbracelet/log"

	"modelargs/internal/argspec"
	"modelargs/pkg/argerr"
	"modelargs/pkg/schema"
)

// Meta carries the program metadata a definition is assembled with.
type Meta struct {
	// Prog is the invocation name; for nested commands it includes the
	// parent prog as a prefix.
	Prog string
	// Description, Version and Epilog are surfaced in help output.
	Description string
	Version     string
	Epilog      string
	// AddHelp controls registration of -h/--help.
	AddHelp bool
}

// Assemble builds the definition tree for a model type, depth-first. Nested
// command definitions inherit the help convention but not the parent's
// flags or version; commands are disjoint namespaces.
//
// All failures are *argerr.ConfigurationError values: construction is for
// developers, so it fails loud and is never routed through the reporter.
func Assemble(model reflect.Type, meta Meta, logger *log.Logger) (*argspec.Definition, error) {
	fields, err := schema.Extract(model)
	if err != nil {
		return nil, err
	}
	if model.Kind() == reflect.Pointer {
		model = model.Elem()
	}

	def := &argspec.Definition{
		Prog:        meta.Prog,
		Description: meta.Description,
		Version:     meta.Version,
		Epilog:      meta.Epilog,
		AddHelp:     meta.AddHelp,
		Model:       model,
	}

	// Reserved flags participate in collision detection so a model field
	// cannot shadow them.
	taken := map[string]string{}
	if meta.AddHelp {
		taken["help"] = "built-in help flag"
		taken["h"] = "built-in help flag"
	}
	if meta.Version != "" {
		taken["version"] = "built-in version flag"
		taken["v"] = "built-in version flag"
	}
	commands := map[string]string{}

	for _, fd := range fields {
		logger.Debug("classified model field",
			"model", model.String(), "field", fd.Name, "kind", fd.Kind,
			"required", fd.Required, "nullable", fd.Nullable)

		if fd.Kind == schema.KindCommand {
			cs, err := assembleCommand(model, fd, meta, logger)
			if err != nil {
				return nil, err
			}
			if prev, dup := commands[cs.Name]; dup {
				return nil, collision(model, fd, cs.Name, prev)
			}
			commands[cs.Name] = "field " + fd.Name
			def.Commands = append(def.Commands, cs)
			if fd.Required {
				def.CommandsRequired = true
			}
			continue
		}

		spec := argspec.Build(fd)
		for _, name := range registeredNames(spec) {
			if prev, dup := taken[name]; dup {
				return nil, collision(model, fd, name, prev)
			}
			taken[name] = "field " + fd.Name
		}
		if spec.Required {
			def.Required = append(def.Required, spec)
		} else {
			def.Optional = append(def.Optional, spec)
		}
	}

	return def, nil
}

// assembleCommand recursively assembles the child definition for a
// sub-model field. The child prog is scoped under the command name.
func assembleCommand(model reflect.Type, fd schema.FieldDescriptor, meta Meta, logger *log.Logger) (*argspec.CommandSpec, error) {
	name := argspec.CommandName(fd)
	child, err := Assemble(fd.Model, Meta{
		Prog:        meta.Prog + " " + name,
		Description: fd.Description,
		AddHelp:     meta.AddHelp,
	}, logger)
	if err != nil {
		return nil, err
	}
	return &argspec.CommandSpec{
		Name:        name,
		Description: fd.Description,
		Field:       fd,
		Def:         child,
	}, nil
}

// registeredNames lists every tokenizer name a spec claims: long form,
// negated form and short form.
func registeredNames(s *argspec.ArgumentSpec) []string {
	var names []string
	if s.Long != "" {
		names = append(names, s.Long)
	}
	if s.NegLong != "" {
		names = append(names, s.NegLong)
	}
	if s.Short != "" {
		names = append(names, s.Short)
	}
	return names
}

// collision builds the ConfigurationError for two specs resolving to the
// same flag or command name.
func collision(model reflect.Type, fd schema.FieldDescriptor, name, prev string) error {
	return &argerr.ConfigurationError{
		Model:  model.String(),
		Field:  fd.Name,
		Reason: fmt.Sprintf("flag name %q already registered by %s", name, prev),
	}
}
