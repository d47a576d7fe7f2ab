// Package filesystem provides the OS implementation of types.FS together
// with the few helpers that need real file handles: recursive copy and a
// scoped change of the working directory.
package filesystem
