package game

import "fmt"

// MinTeamsToActivate is the roster size a game needs before it can start.
const MinTeamsToActivate = 2

var transitions = map[Status][]Status{
	StatusDraft:     {StatusActive, StatusDeleted},
	StatusActive:    {StatusCompleted, StatusDeleted},
	StatusCompleted: {StatusDeleted},
	StatusDeleted:   nil,
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidateTransition(from, to Status) error {
	if _, ok := AllStatuses[to]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// ValidateStatusChange checks the transition table and the roster guard for
// entering active.
func ValidateStatusChange(g Game, to Status) error {
	if err := ValidateTransition(g.Status, to); err != nil {
		return err
	}
	if to == StatusActive && len(g.Teams) < MinTeamsToActivate {
		return fmt.Errorf("%w: need at least %d, got %d", ErrInsufficientTeams, MinTeamsToActivate, len(g.Teams))
	}
	return nil
}
