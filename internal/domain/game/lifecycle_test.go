package game

import (
	"errors"
	"testing"
)

func TestValidateTransition(t *testing.T) {
	all := []Status{StatusDraft, StatusActive, StatusCompleted, StatusDeleted}
	allowed := map[Status]map[Status]bool{
		StatusDraft:     {StatusActive: true, StatusDeleted: true},
		StatusActive:    {StatusCompleted: true, StatusDeleted: true},
		StatusCompleted: {StatusDeleted: true},
		StatusDeleted:   {},
	}

	for _, from := range all {
		for _, to := range all {
			err := ValidateTransition(from, to)
			if allowed[from][to] {
				if err != nil {
					t.Fatalf("%s -> %s: unexpected error %v", from, to, err)
				}
				continue
			}
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("%s -> %s: expected ErrInvalidTransition, got %v", from, to, err)
			}
		}
	}
}

func TestValidateTransition_UnknownTarget(t *testing.T) {
	err := ValidateTransition(StatusDraft, Status("archived"))
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestValidateStatusChange_ActivationNeedsTwoTeams(t *testing.T) {
	g := Game{ID: "g1", Status: StatusDraft, Teams: []TeamEntry{{Team: Team{ID: "a"}}}}

	err := ValidateStatusChange(g, StatusActive)
	if !errors.Is(err, ErrInsufficientTeams) {
		t.Fatalf("expected ErrInsufficientTeams, got %v", err)
	}

	g.Teams = append(g.Teams, TeamEntry{Team: Team{ID: "b"}})
	if err := ValidateStatusChange(g, StatusActive); err != nil {
		t.Fatalf("expected activation with two teams, got %v", err)
	}

	if err := ValidateStatusChange(Game{Status: StatusDraft}, StatusDeleted); err != nil {
		t.Fatalf("delete of empty draft should be allowed: %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" Active ")
	if err != nil {
		t.Fatalf("parse status: %v", err)
	}
	if status != StatusActive {
		t.Fatalf("unexpected status: %s", status)
	}
	if _, err := ParseStatus("paused"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
