package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"tarjetas/internal/core"
	"tarjetas/internal/ledger"
	"tarjetas/internal/log"
)

var (
	// errBadRequest marks requests whose path or body could not be read.
	errBadRequest = errors.New("bad request")
	// errInvalidInput marks well-formed requests with unacceptable values.
	errInvalidInput = errors.New("invalid input")
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps an error to the status the API reports it with.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errInvalidInput),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidClosingDate),
		errors.Is(err, core.ErrInvalidClosingDay):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError reports err as {"error": "..."}. Internal failures are
// logged with their cause and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", log.FieldError, err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

// statementView is a statement together with its display summary.
type statementView struct {
	CreditIndex    int                   `json:"credit_id"`
	StatementIndex int                   `json:"statement_id"`
	Statement      core.Statement        `json:"statement"`
	Summary        core.StatementSummary `json:"summary"`
}

func newStatementView(ci, si int, s core.Statement) statementView {
	return statementView{
		CreditIndex:    ci,
		StatementIndex: si,
		Statement:      s,
		Summary:        core.Summarize(s),
	}
}
