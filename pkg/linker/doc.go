// Package linker makes a destination path point at a source path.
//
// An Installer handles one request at a time and moves through these states:
//
//	ABSENT       -> link                         -> LINKED
//	OCCUPIED     -> backup, link                 -> LINKED
//	BROKEN_LINK  -> link fails, remove, relink   -> LINKED
//
// The existence check follows symlinks, so a dangling link is not backed
// up. The link call then fails because the entry exists, and the stale
// entry is removed before a single retry.
//
// How the link is made is decided by a Strategy: a symlink, or a copy that
// is marked hidden afterwards on platforms without unprivileged symlinks.
//
// The Inspector implements the same interface without touching anything;
// it records the state of each destination for the status command.
package linker
