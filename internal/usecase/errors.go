package usecase

import (
	"errors"

	"github.com/riskibarqy/game-tracker/internal/domain/game"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflicting concurrent update")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ErrorKind is the transport-neutral classification of a service error.
type ErrorKind string

const (
	KindNotFound              ErrorKind = "NotFound"
	KindValidation            ErrorKind = "ValidationError"
	KindInvalidTransition     ErrorKind = "InvalidTransition"
	KindInsufficientTeams     ErrorKind = "InsufficientTeams"
	KindDuplicateTeam         ErrorKind = "DuplicateTeam"
	KindTeamNotFound          ErrorKind = "TeamNotFound"
	KindInvalidMatch          ErrorKind = "InvalidMatch"
	KindIndexOutOfRange       ErrorKind = "IndexOutOfRange"
	KindConflict              ErrorKind = "Conflict"
	KindUnauthorized          ErrorKind = "Unauthorized"
	KindDependencyUnavailable ErrorKind = "DependencyUnavailable"
	KindInternal              ErrorKind = "Internal"
)

var kindBySentinel = []struct {
	target error
	kind   ErrorKind
}{
	{ErrConflict, KindConflict},
	{game.ErrConditionFailed, KindConflict},
	{ErrNotFound, KindNotFound},
	{game.ErrInvalidTransition, KindInvalidTransition},
	{game.ErrInsufficientTeams, KindInsufficientTeams},
	{game.ErrDuplicateTeam, KindDuplicateTeam},
	{game.ErrTeamNotFound, KindTeamNotFound},
	{game.ErrInvalidMatch, KindInvalidMatch},
	{game.ErrIndexOutOfRange, KindIndexOutOfRange},
	{game.ErrWrongStatus, KindValidation},
	{game.ErrInvalidStatus, KindValidation},
	{ErrInvalidInput, KindValidation},
	{ErrUnauthorized, KindUnauthorized},
	{ErrDependencyUnavailable, KindDependencyUnavailable},
}

// KindOf classifies err. Unknown errors are KindInternal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, item := range kindBySentinel {
		if errors.Is(err, item.target) {
			return item.kind
		}
	}
	return KindInternal
}
