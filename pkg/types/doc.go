// Package types defines the core types and interfaces shared by the
// planner, the installer and the command line: link requests, link
// outcomes and states, the per-run context and the filesystem interface.
package types
