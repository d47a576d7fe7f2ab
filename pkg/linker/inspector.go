package linker

import (
	stderrors "errors"
	"io/fs"

	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/types"
)

// Inspection is the observed state of one request.
type Inspection struct {
	Request types.LinkRequest
	State   types.LinkState
	// Target is the link target when the destination is a symlink
	Target string
	// SourceMissing is true when the source does not resolve
	SourceMissing bool
}

// Inspector records the state of each request instead of linking it.
type Inspector struct {
	fs      types.FS
	Results []Inspection
}

// NewInspector returns an Inspector reading through fsys.
func NewInspector(fsys types.FS) *Inspector {
	return &Inspector{fs: fsys}
}

// Install classifies req and never modifies the filesystem.
func (in *Inspector) Install(req types.LinkRequest) (types.LinkOutcome, error) {
	result, err := Classify(in.fs, req)
	if err != nil {
		return types.OutcomeUnknown, err
	}
	in.Results = append(in.Results, result)
	return types.OutcomeInspected, nil
}

// Classify reports which state the destination of req is in.
func Classify(fsys types.FS, req types.LinkRequest) (Inspection, error) {
	result := Inspection{Request: req}

	if _, err := fsys.Stat(req.Source); err != nil {
		result.SourceMissing = true
	}

	info, err := fsys.Lstat(req.Destination)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			result.State = types.StateAbsent
			return result, nil
		}
		return result, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", req.Destination)
	}

	if info.Mode()&fs.ModeSymlink == 0 {
		result.State = types.StateOccupied
		return result, nil
	}

	target, err := fsys.Readlink(req.Destination)
	if err != nil {
		return result, errors.Wrapf(err, errors.ErrFileAccess, "failed to read link %s", req.Destination)
	}
	result.Target = target

	switch _, err := fsys.Stat(req.Destination); {
	case err != nil:
		result.State = types.StateBrokenLink
	case target == req.Source:
		result.State = types.StateLinked
	default:
		result.State = types.StateOccupied
	}
	return result, nil
}
