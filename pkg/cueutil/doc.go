// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE plumbing shared by the riotfile loader and the
// runner configuration.
//
// Both follow the same flow: compile the embedded schema, compile the user
// file, unify the file with a schema definition and validate the result.
// Compile stops there and hands back the unified value for callers that need
// to walk it in declaration order (riotfiles); ParseAndDecode additionally
// decodes into a Go value.
//
//	//go:embed riotfile_schema.cue
//	var schema []byte
//
//	v, err := cueutil.Compile(schema, data, "#Riotfile", cueutil.WithFilename("riotfile.cue"))
package cueutil
