package proposal

var transitions = map[Status][]Status{
	StatusDraft:            {StatusSent},
	StatusSent:             {StatusViewed, StatusApproved, StatusChangesRequested},
	StatusViewed:           {StatusApproved, StatusChangesRequested},
	StatusChangesRequested: {StatusSent, StatusApproved},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusViewed, StatusApproved, StatusChangesRequested:
		return true
	}
	return false
}

// CanBecome reports whether the workflow allows moving from s to next.
// Approved is final.
func (s Status) CanBecome(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Final reports whether no further transition is possible.
func (s Status) Final() bool {
	return len(transitions[s]) == 0
}
