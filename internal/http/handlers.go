package http

import (
	"fmt"
	"net/http"

	"tarjetas/internal/core"
	"tarjetas/internal/log"
)

func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "OK")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ready",
		"location":        s.book.Location(),
		"credits":         len(s.book.Credits()),
		"unsaved_changes": s.book.Dirty(),
	})
}

func (s *Server) handleCredits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.book.Credits())
}

func (s *Server) handleCredit(w http.ResponseWriter, r *http.Request) {
	ci, err := pathIndex(r, "credit_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.book.Credit(ci)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	ci, si, err := s.statementIndices(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeStatement(w, r, ci, si)
}

func (s *Server) handleDefaultStatement(w http.ResponseWriter, r *http.Request) {
	ci, err := pathIndex(r, "credit_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	si, err := s.book.ResolveStatementIndex(ci, s.opts.DefaultStatementIndex)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeStatement(w, r, ci, si)
}

func (s *Server) writeStatement(w http.ResponseWriter, r *http.Request, ci, si int) {
	st, err := s.book.Statement(ci, si)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStatementView(ci, si, st))
}

func (s *Server) handleCreateNext(w http.ResponseWriter, r *http.Request) {
	next, err := s.book.CreateNextStatements(s.opts.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Next statements created",
		log.FieldOperation, log.OpNextStatements, "created", len(next))
	if err := s.book.Save(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleUpdateStatement(w http.ResponseWriter, r *http.Request) {
	ci, si, err := s.statementIndices(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req statementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}
	st, err := s.book.UpdateStatement(ci, si, in)
	s.finishMutation(w, r, log.OpUpdateStatement, ci, si, -1, st, err)
}

func (s *Server) handleReplacePayments(w http.ResponseWriter, r *http.Request) {
	ci, si, err := s.statementIndices(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req []paymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	payments := make([]core.Payment, len(req))
	for i, p := range req {
		if payments[i], err = p.toPayment(); err != nil {
			writeError(w, r, fmt.Errorf("payment %d: %w", i, err))
			return
		}
	}
	st, err := s.book.ReplacePayments(ci, si, payments)
	s.finishMutation(w, r, log.OpReplacePayments, ci, si, -1, st, err)
}

func (s *Server) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	ci, si, err := s.statementIndices(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pi, err := pathIndex(r, "payment_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req paymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := req.toPayment()
	if err != nil {
		writeError(w, r, err)
		return
	}
	st, err := s.book.UpdatePayment(ci, si, pi, p)
	s.finishMutation(w, r, log.OpUpdatePayment, ci, si, pi, st, err)
}

func (s *Server) handleNewPayment(w http.ResponseWriter, r *http.Request) {
	ci, si, err := s.statementIndices(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	st, err := s.book.AddPayment(ci, si)
	s.finishMutation(w, r, log.OpAddPayment, ci, si, st.NumberOfPayments-1, st, err)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.book.Save(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "saved",
		"location": s.book.Location(),
	})
}

// statementIndices reads credit_id and statement_id. A negative
// statement_id counts from the end of the credit's statements.
func (s *Server) statementIndices(r *http.Request) (int, int, error) {
	ci, err := pathIndex(r, "credit_id")
	if err != nil {
		return 0, 0, err
	}
	si, err := pathIndex(r, "statement_id")
	if err != nil {
		return 0, 0, err
	}
	if si < 0 {
		if si, err = s.book.ResolveStatementIndex(ci, si); err != nil {
			return 0, 0, err
		}
	}
	return ci, si, nil
}

// finishMutation saves when AutoSave is on and answers with the
// recomputed statement.
func (s *Server) finishMutation(w http.ResponseWriter, r *http.Request, op string, ci, si, pi int, st core.Statement, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	fields := log.NewFields().WithOperation(op).WithIndices(ci, si, pi)
	log.FromContext(r.Context()).InfoContext(r.Context(), "Statement updated", fields.ToSlice()...)

	if s.opts.AutoSave {
		if err := s.book.Save(r.Context()); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, newStatementView(ci, si, st))
}
