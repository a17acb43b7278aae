package httpapi

import (
	"context"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/game-tracker/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "game-tracker"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var mappedErrorByKind = map[usecase.ErrorKind]mappedError{
	usecase.KindNotFound:              {HTTPStatus: http.StatusNotFound, Reason: "notFound", Status: "NOT_FOUND"},
	usecase.KindValidation:            {HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"},
	usecase.KindInvalidTransition:     {HTTPStatus: http.StatusUnprocessableEntity, Reason: "invalidTransition", Status: "FAILED_PRECONDITION"},
	usecase.KindInsufficientTeams:     {HTTPStatus: http.StatusUnprocessableEntity, Reason: "insufficientTeams", Status: "FAILED_PRECONDITION"},
	usecase.KindDuplicateTeam:         {HTTPStatus: http.StatusUnprocessableEntity, Reason: "duplicateTeam", Status: "FAILED_PRECONDITION"},
	usecase.KindTeamNotFound:          {HTTPStatus: http.StatusUnprocessableEntity, Reason: "teamNotFound", Status: "FAILED_PRECONDITION"},
	usecase.KindInvalidMatch:          {HTTPStatus: http.StatusUnprocessableEntity, Reason: "invalidMatch", Status: "FAILED_PRECONDITION"},
	usecase.KindIndexOutOfRange:       {HTTPStatus: http.StatusUnprocessableEntity, Reason: "indexOutOfRange", Status: "OUT_OF_RANGE"},
	usecase.KindConflict:              {HTTPStatus: http.StatusConflict, Reason: "conflict", Status: "ABORTED"},
	usecase.KindUnauthorized:          {HTTPStatus: http.StatusUnauthorized, Reason: "unauthorized", Status: "UNAUTHENTICATED"},
	usecase.KindDependencyUnavailable: {HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"},
}

var internalMappedError = mappedError{
	HTTPStatus: http.StatusInternalServerError,
	Reason:     "internalError",
	Status:     "INTERNAL",
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(err)
	message := err.Error()
	// Internal details stay in logs.
	if mapped.HTTPStatus == http.StatusInternalServerError {
		message = "internal server error"
	}

	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: message,
				},
			},
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  internalMappedError.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  internalMappedError.Reason,
					Message: msg,
				},
			},
		},
	})
}

func mapError(err error) mappedError {
	if mapped, ok := mappedErrorByKind[usecase.KindOf(err)]; ok {
		return mapped
	}
	return internalMappedError
}
