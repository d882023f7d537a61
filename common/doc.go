// Package common provides shared constants, types, utilities, and interfaces
// used throughout the System Settings application.
//
// This package serves as the foundation for cross-cutting concerns:
//
//   - Constants: Application-wide constants like timeouts, file names, and UI dimensions
//   - Errors: Sentinel errors forming the page-visible failure taxonomy
//   - Interfaces: Abstractions for the OS domain adapters (accounts, sound, locale, ...)
//   - Logger: Structured logging with multiple output destinations
//   - Utils: Common utility functions for file operations and string manipulation
//
// # Usage
//
// Import the package to access shared functionality:
//
//	import "github.com/yllada/system-settings/common"
//
//	// Use logger
//	common.LogInfo("Loaded %d user accounts", len(users))
//
//	// Check errors
//	if errors.Is(err, common.ErrConflict) {
//	    // Refresh the snapshot and keep unsent edits
//	}
//
// # Design Principles
//
// Every domain adapter is described here as a small interface so that page
// state machines depend on abstractions, never on a concrete backend. The
// adapters themselves are stateless query/command façades; any caching lives
// in the page state that consumed the snapshot.
package common
