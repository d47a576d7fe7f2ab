// Package output renders the progress lines printed on stdout.
//
// Every link action is announced as a bracketed label followed by the
// source and destination:
//
//	[SYMLINK] /home/me/.dotfiles/src/vim -> /home/me/.vim
//	[BACKUP ] /home/me/.vimrc -> /home/me/.vimrc.07032024T090503
//
// In a dry run each line is prefixed with [DRY-RUN] and Finish prints a
// reminder that nothing was changed. Labels and arrows are colored with
// lipgloss when the writer is a terminal; the plain text is identical
// either way.
package output
