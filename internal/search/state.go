package search

import "github.com/yildizm/countrylookup/internal/countries"

const (
	// FailureText is shown when a lookup fails for any reason
	FailureText = "Oops, there is no country with that name"

	// TooManyText is shown when a lookup matches more than the list limit
	TooManyText = "Too many matches found. Please enter a more specific name."

	// DefaultMaxMatches is the largest result set rendered as a list
	DefaultMaxMatches = 10
)

// NoticeKind classifies user-visible notifications
type NoticeKind string

const (
	// NoticeFailure reports a lookup that found nothing or failed
	NoticeFailure NoticeKind = "failure"

	// NoticeInfo asks the user to narrow the search
	NoticeInfo NoticeKind = "info"
)

// Notice is a transient message for the user. It is an event, not part of
// the pane state.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

// Mode is the controller's modal state
type Mode int

const (
	// ModeIdle is the default mode; Escape does nothing
	ModeIdle Mode = iota

	// ModeClickedDetail is entered when a list entry is selected. Escape
	// returns to the stored list.
	ModeClickedDetail
)

func (m Mode) String() string {
	switch m {
	case ModeClickedDetail:
		return "clicked-detail"
	default:
		return "idle"
	}
}

// View names the UI state derived from the most recent outcome
type View int

const (
	ViewEmpty View = iota
	ViewErrorNotice
	ViewInfoNotice
	ViewDetail
	ViewList
)

func (v View) String() string {
	switch v {
	case ViewErrorNotice:
		return "error-notice"
	case ViewInfoNotice:
		return "info-notice"
	case ViewDetail:
		return "detail"
	case ViewList:
		return "list"
	default:
		return "empty"
	}
}

// State is a read-only snapshot of the panes
type State struct {
	List   []countries.Country
	Detail *countries.Country
	Mode   Mode
}

// Outcome reports what a controller operation did
type Outcome struct {
	// Changed reports whether the panes were rewritten. Notice-only
	// outcomes leave it false.
	Changed bool
	// Notice is set when the operation produced a notification
	Notice *Notice
	// View is the UI state after the operation
	View View
}
