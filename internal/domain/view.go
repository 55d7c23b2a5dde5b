package domain

// ViewMode selects which subset of tickets a view shows.
type ViewMode string

const (
	ViewAll          ViewMode = "all"
	ViewMine         ViewMode = "my"
	ViewAssignedToMe ViewMode = "assigned-to-me"
	ViewUnassigned   ViewMode = "unassigned"
	ViewFixed        ViewMode = "fixed"
	ViewFailed       ViewMode = "failed"
)

// ViewModes lists every supported mode in menu order.
var ViewModes = []ViewMode{
	ViewAll,
	ViewMine,
	ViewAssignedToMe,
	ViewUnassigned,
	ViewFixed,
	ViewFailed,
}

// ParseViewMode maps a raw `type` query value to a mode. Unknown or empty values
// report ok=false. The returned mode never aliases raw.
func ParseViewMode(raw string) (ViewMode, bool) {
	for _, known := range ViewModes {
		if string(known) == raw {
			return known, true
		}
	}
	return "", false
}

// NeedsUser reports whether the mode filters against the current user.
func (m ViewMode) NeedsUser() bool {
	return m == ViewMine || m == ViewAssignedToMe
}
