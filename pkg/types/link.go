package types

import "fmt"

// LinkRequest pairs a source with the destination that must end up
// pointing at it. Requests are built on the fly and never stored.
type LinkRequest struct {
	Source      string
	Destination string
}

func (r LinkRequest) String() string {
	return fmt.Sprintf("%s -> %s", r.Source, r.Destination)
}

// LinkOutcome reports how an install request finished.
type LinkOutcome int

const (
	// OutcomeUnknown is returned alongside an error
	OutcomeUnknown LinkOutcome = iota

	// OutcomeLinked means the destination now points at the source
	OutcomeLinked

	// OutcomeRelinkedStale means a dangling entry was removed and the link retried
	OutcomeRelinkedStale

	// OutcomeSourceMissing means the source is absent and nothing was linked
	OutcomeSourceMissing

	// OutcomeDestinationParentMissing means the destination's directory does not exist
	OutcomeDestinationParentMissing

	// OutcomePlanned means the link was only announced (dry run)
	OutcomePlanned

	// OutcomeInspected means the request was classified without changes
	OutcomeInspected
)

var outcomeNames = map[LinkOutcome]string{
	OutcomeUnknown:                  "unknown",
	OutcomeLinked:                   "linked",
	OutcomeRelinkedStale:            "relinked-stale",
	OutcomeSourceMissing:            "source-missing",
	OutcomeDestinationParentMissing: "destination-parent-missing",
	OutcomePlanned:                  "planned",
	OutcomeInspected:                "inspected",
}

func (o LinkOutcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Skipped reports whether the request left the destination untouched
// because of a missing path.
func (o LinkOutcome) Skipped() bool {
	return o == OutcomeSourceMissing || o == OutcomeDestinationParentMissing
}

// LinkState is the observed state of a destination path.
type LinkState string

const (
	// StateAbsent means nothing exists at the destination
	StateAbsent LinkState = "ABSENT"

	// StateLinked means the destination resolves to the requested source
	StateLinked LinkState = "LINKED"

	// StateOccupied means a file, directory or foreign valid link is in the way
	StateOccupied LinkState = "OCCUPIED"

	// StateBrokenLink means the destination is a dangling symlink
	StateBrokenLink LinkState = "BROKEN_LINK"
)
