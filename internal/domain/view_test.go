package domain

import "testing"

func TestParseViewMode(t *testing.T) {
	tests := []struct {
		raw    string
		want   ViewMode
		wantOK bool
	}{
		{"all", ViewAll, true},
		{"my", ViewMine, true},
		{"assigned-to-me", ViewAssignedToMe, true},
		{"unassigned", ViewUnassigned, true},
		{"fixed", ViewFixed, true},
		{"failed", ViewFailed, true},
		{"", "", false},
		{"ALL", "", false},
		{"in-progress", "", false},
		{" all", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseViewMode(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseViewMode(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNeedsUser(t *testing.T) {
	for _, mode := range ViewModes {
		want := mode == ViewMine || mode == ViewAssignedToMe
		if mode.NeedsUser() != want {
			t.Errorf("%s.NeedsUser() = %v, want %v", mode, mode.NeedsUser(), want)
		}
	}
}

func TestAssigneeID(t *testing.T) {
	if got := (Ticket{}).AssigneeID(); got != "" {
		t.Errorf("unassigned ticket AssigneeID() = %q, want empty", got)
	}
	ticket := Ticket{Assignee: &UserRef{ID: "u9", Name: "Nine"}}
	if got := ticket.AssigneeID(); got != "u9" {
		t.Errorf("AssigneeID() = %q, want u9", got)
	}
}
