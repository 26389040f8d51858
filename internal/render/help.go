// SPDX-License-Identifier: MPL-2.0

// Package render formats the user-facing help and usage text for an
// assembled parser definition. Section order is fixed: usage, description,
// required arguments, optional arguments, commands, help/version flags,
// epilog.
package render

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"modelargs/internal/argspec"
)

const (
	// helpWidth is the wrap limit for description columns.
	helpWidth = 80
	// leftColumn is the width reserved for the flag column; longer flag
	// sets push their description onto the next line.
	leftColumn = 26
)

// Help renders the full help message for a definition.
func Help(def *argspec.Definition) string {
	var b strings.Builder
	b.WriteString(Usage(def))
	b.WriteString("\n")

	if def.Description != "" {
		b.WriteString("\n")
		b.WriteString(wordwrap.WrapString(def.Description, helpWidth))
		b.WriteString("\n")
	}

	if len(def.Required) > 0 {
		b.WriteString("\nrequired arguments:\n")
		for _, s := range def.Required {
			writeRow(&b, flagColumn(s), s.Help)
		}
	}
	if len(def.Optional) > 0 {
		b.WriteString("\noptional arguments:\n")
		for _, s := range def.Optional {
			writeRow(&b, flagColumn(s), s.Help)
		}
	}
	if len(def.Commands) > 0 {
		b.WriteString("\ncommands:\n")
		for _, c := range def.Commands {
			writeRow(&b, c.Name, c.Description)
		}
	}
	if def.AddHelp || def.Version != "" {
		b.WriteString("\nhelp:\n")
		if def.AddHelp {
			writeRow(&b, "-h, --help", "show this help message and exit")
		}
		if def.Version != "" {
			writeRow(&b, "-v, --version", "show program's version number and exit")
		}
	}

	if def.Epilog != "" {
		b.WriteString("\n")
		b.WriteString(wordwrap.WrapString(def.Epilog, helpWidth))
		b.WriteString("\n")
	}
	return b.String()
}

// Usage renders the usage line for a definition. Wrapping happens at item
// boundaries so a multi-token item is never split across lines.
func Usage(def *argspec.Definition) string {
	var items []string
	if def.AddHelp {
		items = append(items, "[-h]")
	}
	if def.Version != "" {
		items = append(items, "[-v]")
	}
	for _, s := range def.Required {
		items = append(items, usageItem(s, true))
	}
	for _, s := range def.Optional {
		items = append(items, usageItem(s, false))
	}
	if len(def.Commands) > 0 {
		choice := "{" + strings.Join(def.CommandNames(), ",") + "} ..."
		if !def.CommandsRequired {
			choice = "[" + choice + "]"
		}
		items = append(items, choice)
	}

	var b strings.Builder
	line := "usage: " + def.Prog
	for _, it := range items {
		if len(line)+1+len(it) > helpWidth {
			b.WriteString(line)
			b.WriteString("\n")
			line = "        " + it
			continue
		}
		line += " " + it
	}
	b.WriteString(line)
	return b.String()
}

// usageItem renders one argument's usage fragment.
func usageItem(s *argspec.ArgumentSpec, required bool) string {
	var item string
	switch {
	case s.Kind == argspec.SpecBooleanFlag && s.NegLong != "" && s.Long != "":
		item = "(--" + s.Long + " | --" + s.NegLong + ")"
	case s.Kind == argspec.SpecBooleanFlag:
		item = "--" + flagOf(s)
	default:
		item = "--" + s.Long + " " + s.Metavar
	}
	if !required {
		item = "[" + item + "]"
	}
	return item
}

// flagOf returns the single long flag of a one-sided boolean.
func flagOf(s *argspec.ArgumentSpec) string {
	if s.Long != "" {
		return s.Long
	}
	return s.NegLong
}

// flagColumn renders the flag display set plus metavar for a help row.
func flagColumn(s *argspec.ArgumentSpec) string {
	col := strings.Join(s.Flags, ", ")
	if s.Metavar != "" {
		col += " " + s.Metavar
	}
	return col
}

// writeRow writes one two-column help row, wrapping the description and
// aligning continuation lines under the description column.
func writeRow(b *strings.Builder, left, help string) {
	b.WriteString("  ")
	b.WriteString(left)
	if help == "" {
		b.WriteString("\n")
		return
	}
	if len(left) > leftColumn {
		b.WriteString("\n" + strings.Repeat(" ", leftColumn+4))
	} else {
		b.WriteString(strings.Repeat(" ", leftColumn-len(left)+2))
	}
	wrapped := wordwrap.WrapString(help, uint(helpWidth-leftColumn-6))
	indent := "\n" + strings.Repeat(" ", leftColumn+4)
	b.WriteString(strings.ReplaceAll(wrapped, "\n", indent))
	b.WriteString("\n")
}
