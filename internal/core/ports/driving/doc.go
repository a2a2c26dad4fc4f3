// Package driving defines the interfaces external actors (CLI, serve
// loop, TUI) use to drive the resolution core.
package driving
