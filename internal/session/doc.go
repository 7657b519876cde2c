// SPDX-License-Identifier: MPL-2.0

// Package session runs a riotfile's instance matrix.
//
// A Session owns the root venv of a riotfile together with the provisioner
// that materializes environments and the executor that runs commands in
// them. It exposes three operations:
//
//   - List prints the matching instances without side effects.
//   - Provision creates the base environment of every interpreter the
//     matching instances need.
//   - Run provisions, then runs every matching instance in its own derived
//     environment and prints a summary.
//
// Instance failures (clone, package install or a non-zero command exit) are
// contained: they fail that instance's Result and the run continues. A
// failed dev install into a base environment aborts with *BaseInstallError,
// cancellation stops the loop keeping the partial results, and anything else
// is returned wrapped in ErrInternal.
package session
