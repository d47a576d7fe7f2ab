// Package planner expands a link configuration into link requests and
// hands each one to an installer as soon as it is computed.
//
// Requests are not collected up front: the files of a directory entry are
// sourced from the directory's destination-side link, so that link must
// exist on disk before their requests are made.
package planner

import (
	"path/filepath"

	"github.com/arthur-debert/dotfiles/pkg/config"
	"github.com/arthur-debert/dotfiles/pkg/logging"
	"github.com/arthur-debert/dotfiles/pkg/paths"
	"github.com/arthur-debert/dotfiles/pkg/types"
)

// Summary counts outcomes of a run.
type Summary struct {
	Requests int
	Outcomes map[types.LinkOutcome]int
}

// Count returns how many requests ended with o.
func (s *Summary) Count(o types.LinkOutcome) int {
	return s.Outcomes[o]
}

func (s *Summary) record(o types.LinkOutcome) {
	if s.Outcomes == nil {
		s.Outcomes = make(map[types.LinkOutcome]int)
	}
	s.Requests++
	s.Outcomes[o]++
}

// Planner walks a configuration in declaration order.
type Planner struct {
	home      string
	source    string
	installer types.Installer
	summary   Summary
}

// New returns a Planner resolving destination roots against home and
// directory and file names against source.
func New(home, source string, installer types.Installer) *Planner {
	return &Planner{home: home, source: source, installer: installer}
}

// Run links every directory entry, then every file entry, stopping at the
// first error.
func (p *Planner) Run(cfg *config.Configuration) (Summary, error) {
	logger := logging.GetLogger("planner")
	done := logging.LogOperationStart(logger, "link configuration")
	defer done()

	if err := p.PlanDirectories(cfg.Dirs); err != nil {
		return p.summary, err
	}
	if err := p.PlanFiles(cfg.Files); err != nil {
		return p.summary, err
	}
	logger.Info().Int("requests", p.summary.Requests).Msg("configuration linked")
	return p.summary, nil
}

// PlanDirectories links each directory under its root, then each of its
// files out of the directory's new destination.
func (p *Planner) PlanDirectories(roots []config.DirRoot) error {
	for _, root := range roots {
		prefix := p.destinationPrefix(root.Root)
		for _, dir := range root.Dirs {
			dirDst := prefix + dir.Name
			if err := p.install(filepath.Join(p.source, dir.Name), dirDst); err != nil {
				return err
			}
			for _, file := range dir.Files {
				if err := p.install(filepath.Join(dirDst, file), prefix+file); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// PlanFiles links each file under its root by basename.
func (p *Planner) PlanFiles(roots []config.FileRoot) error {
	for _, root := range roots {
		prefix := p.destinationPrefix(root.Root)
		for _, file := range root.Files {
			if err := p.install(filepath.Join(p.source, file), prefix+filepath.Base(file)); err != nil {
				return err
			}
		}
	}
	return nil
}

// destinationPrefix expands a leading ~ only. The result is prepended to
// names as is, so "~/." yields "/home/me/." and "vim" becomes "/home/me/.vim".
func (p *Planner) destinationPrefix(root string) string {
	return paths.ExpandUser(p.home, root)
}

func (p *Planner) install(source, destination string) error {
	outcome, err := p.installer.Install(types.LinkRequest{Source: source, Destination: destination})
	if err != nil {
		return err
	}
	p.summary.record(outcome)
	return nil
}
