package game

import "errors"

var (
	ErrInvalidStatus     = errors.New("invalid game status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInsufficientTeams = errors.New("insufficient teams")
	ErrWrongStatus       = errors.New("operation not allowed in current game status")
	ErrDuplicateTeam     = errors.New("team already in game")
	ErrTeamNotFound      = errors.New("team not found in game")
	ErrInvalidMatch      = errors.New("invalid match")
	ErrIndexOutOfRange   = errors.New("match index out of range")

	// ErrConditionFailed is returned by Repository.Update when the stored item
	// no longer satisfies the write condition.
	ErrConditionFailed = errors.New("condition failed")
)
