// SPDX-License-Identifier: MPL-2.0

// Package schema derives read-only field descriptors from a Go argument
// model.
//
// An argument model is a plain struct; each exported field declares one
// command-line argument (or one nested command) through its type and tags:
//
//	type Args struct {
//		Name    string            `help:"user name"`
//		Count   int               `default:"1" help:"how many"`
//		Debug   bool              `help:"enable debug output"`
//		Labels  map[string]string `help:"extra labels"`
//		Mode    string            `choices:"fast,slow" default:"fast"`
//		Build   BuildArgs         `help:"build the project"`
//		Deploy  *DeployArgs       `help:"deploy the project"`
//	}
//
// Extract walks the model once and classifies every field into a closed set
// of kinds. All classification happens here, at parser build time; nothing
// downstream inspects reflect types ad hoc. Fields that cannot be classified
// produce a ConfigurationError, aborting parser construction.
package schema
