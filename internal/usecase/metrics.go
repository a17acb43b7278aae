package usecase

import "time"

// Mutation outcomes reported to a MutationRecorder.
const (
	OutcomeOK         = "ok"
	OutcomeConflict   = "conflict"
	OutcomeValidation = "validation"
	OutcomeNotFound   = "not_found"
	OutcomeError      = "error"
)

// MutationRecorder receives one observation per pipeline run.
type MutationRecorder interface {
	ObserveMutation(operation, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveMutation(string, string, time.Duration) {}

func outcomeOf(err error) string {
	switch KindOf(err) {
	case "":
		return OutcomeOK
	case KindConflict:
		return OutcomeConflict
	case KindNotFound:
		return OutcomeNotFound
	case KindInternal, KindDependencyUnavailable, KindUnauthorized:
		return OutcomeError
	default:
		return OutcomeValidation
	}
}
