// Package starter bootstraps a project for dcx.
//
// It detects the project's framework with CEL expressions (see
// [Frameworks]), installs an embedded starter pack of rule documents, and
// appends usage guidelines to the instruction files read by coding agents.
package starter
