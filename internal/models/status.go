package models

// StatusState is the aggregated signal derived from the current snapshot.
type StatusState string

const (
	// StatusUnknown covers both "no scan yet" and "last scan failed".
	StatusUnknown StatusState = "unknown"
	StatusClear   StatusState = "clear"
	StatusBlocked StatusState = "blocked"
	StatusDenied  StatusState = "denied"
)

// Status is the compact value the presentation layer renders to an icon
// or badge.
type Status struct {
	State StatusState `json:"state"`
	Count int         `json:"count"`

	// Stale is set when the last scan failed without a permission error;
	// Count then carries the previous good value so the UI can keep
	// showing it grayed out instead of flashing to zero.
	Stale bool `json:"stale"`
}

// ActionResult reports the outcome of one termination attempt.
type ActionResult string

const (
	ActionOK ActionResult = "ok"
	// ActionNotFound means the PID no longer exists. The process already
	// exited, so this is a soft success, reported distinctly.
	ActionNotFound        ActionResult = "not_found"
	ActionAccessDenied    ActionResult = "access_denied"
	ActionInvalidArgument ActionResult = "invalid_argument"
	ActionOther           ActionResult = "other"
)
