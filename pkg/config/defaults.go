package config

import "strings"

// Default returns the built-in link configuration written on first run.
func Default() *Configuration {
	return &Configuration{
		Dirs: []DirRoot{
			{
				Root: "~/.",
				Dirs: []DirEntry{
					{Name: "bash", Files: []string{"bashrc", "bash_profile"}},
					{Name: "dir_colors.d", Files: []string{"dir_colors"}},
					{Name: "gem", Files: []string{"gemrc"}},
					{Name: "git.d", Files: []string{"gitconfig"}},
					{Name: "hidden.d", Files: []string{"hidden"}},
					{Name: "neomutt", Files: []string{"neomuttrc"}},
					{Name: "vim", Files: []string{"vimrc"}},
					{Name: "zsh", Files: []string{"zshrc"}},
				},
			},
		},
		Files: []FileRoot{
			{
				Root: "~/.config/Code/User/",
				Files: []string{
					"vscode.d/settings.json",
					"vscode.d/keybindings.json",
				},
			},
		},
	}
}

// headerLines explain the file to whoever opens it first.
var headerLines = []string{
	"--- autogenerated default conf ---",
	"entries are grouped by symlink destination.",
	"sources are relative to the dotfiles source tree.",
	"",
	"the dirs key pairs destinations with directories and their files.",
	"each directory is linked from the source tree to its destination",
	"and each file is then linked out of that directory's new link.",
	"",
	"e.g. bash in ~/. in dirs            <source>/bash   -> ~/.bash",
	"     bashrc in bash in ~/. in dirs  ~/.bash/bashrc  -> ~/.bashrc",
	"",
	"the files key pairs destinations with lists of individual files or",
	"directories that are linked one by one under their basename.",
}

// Header returns the comment block prepended to a generated config.
func Header() string {
	var b strings.Builder
	for _, line := range headerLines {
		b.WriteString("#")
		if line != "" {
			b.WriteString(" ")
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}
