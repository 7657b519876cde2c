// SPDX-License-Identifier: MPL-2.0

// Package riotfile models the declarative test matrix of a project.
//
// A riotfile describes a tree of Venv nodes. Each node may declare a name, a
// command template, interpreter versions, package version axes, environment
// variable axes and child nodes. Children inherit everything from their
// ancestors: scalar fields are overridden by the most specific non-empty value
// while package and environment axes are merged key by key.
//
// Instances walks the tree, prunes named subtrees that do not match the
// selection pattern, resolves every node against its ancestor chain and expands
// the resolved axes into concrete Instance values. The expansion order is
// environment combinations outermost, then interpreters, then package
// combinations, and it is stable across runs.
//
// Riotfiles are written in CUE and validated against the embedded
// riotfile_schema.cue before being converted into a Venv tree (see Load).
package riotfile
