// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries what riot was doing, the file or environment
// involved and suggested fixes. The issue catalog holds longer Markdown
// guidance for the failures users hit most, rendered with glamour when the
// CLI reports a fatal error.
package issue
