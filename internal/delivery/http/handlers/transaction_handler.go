package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hashperks/loyalty-service/internal/delivery/http/dto/response"
	ledgerdto "github.com/hashperks/loyalty-service/internal/usecase/dto/ledger"
)

const idempotencyHeader = "Idempotency-Key"

func (s *Server) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var input ledgerdto.RecordInput
	if err := decodeJSON(w, r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}
	input.IdempotencyKey = strings.TrimSpace(r.Header.Get(idempotencyHeader))

	tx, err := s.ledger.Record(r.Context(), principalFrom(r.Context()), &input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, response.NewTransactionResponse(tx))
}

func (s *Server) ListMyTransactions(w http.ResponseWriter, r *http.Request) {
	views, err := s.ledger.ListForMember(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "programID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewTransactionList(views))
}
