// Package ui provides the terminal user interface for System Settings.
//
// This package implements the Bubble Tea shell around the settings
// pages:
//
//   - App: root model owning every page state and the current selector
//   - Sidebar: the page list rendered beside the active page
//   - Message routing: completion messages reach their owning page
//     even while another page is shown
//
// # Architecture
//
// The shell is the only component that sees the full message stream.
// Keyboard input goes to the current page; messages implementing
// pages.Routed are delivered to the page they belong to, so a commit
// started on one page lands correctly after the user switches away.
// Switching pages never resets the outgoing page's state.
//
// # Thread Safety
//
// Bubble Tea drives Update and View on a single goroutine. Effects
// returned from pages run on worker goroutines managed by the host
// and come back as messages; no page state is touched off-loop.
package ui
