package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hashperks/loyalty-service/internal/delivery/http/dto/request"
	"github.com/hashperks/loyalty-service/internal/delivery/http/dto/response"
	storedto "github.com/hashperks/loyalty-service/internal/usecase/dto/store"
)

func (s *Server) ListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := s.stores.ListStores(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewStoreList(stores))
}

func (s *Server) GetStore(w http.ResponseWriter, r *http.Request) {
	details, err := s.stores.GetStore(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewStoreDetailsResponse(details))
}

func (s *Server) MyStores(w http.ResponseWriter, r *http.Request) {
	stores, err := s.stores.GetMyStores(r.Context(), principalFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewStoreList(stores))
}

func (s *Server) CreateStore(w http.ResponseWriter, r *http.Request) {
	var input storedto.CreateStoreInput
	if err := decodeJSON(w, r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}
	store, err := s.stores.CreateStore(r.Context(), principalFrom(r.Context()), &input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, response.NewStoreResponse(store))
}

func (s *Server) UpdateStore(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateStoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	store, err := s.stores.UpdateStore(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "storeID"), req.Patch())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewStoreResponse(store))
}

func (s *Server) DeleteStore(w http.ResponseWriter, r *http.Request) {
	if err := s.stores.DeleteStore(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "storeID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ListStoreTransactions(w http.ResponseWriter, r *http.Request) {
	views, err := s.ledger.ListForStore(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "storeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewTransactionList(views))
}
