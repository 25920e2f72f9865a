package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hashperks/loyalty-service/internal/delivery/http/dto/request"
	"github.com/hashperks/loyalty-service/internal/delivery/http/dto/response"
	accountdto "github.com/hashperks/loyalty-service/internal/usecase/dto/account"
)

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var input accountdto.RegisterInput
	if err := decodeJSON(w, r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.accounts.Register(r.Context(), &input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, response.NewUserResponse(user))
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var input accountdto.LoginInput
	if err := decodeJSON(w, r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.accounts.Login(r.Context(), &input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.LoginResponse{
		Token: out.Token,
		User:  response.NewUserResponse(out.User),
	})
}

func (s *Server) GetAccount(w http.ResponseWriter, r *http.Request) {
	user, err := s.accounts.GetAccount(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewUserResponse(user))
}

func (s *Server) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.accounts.UpdateAccount(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "userID"), req.Patch())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewUserResponse(user))
}

func (s *Server) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.DeleteAccount(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "userID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) TokenBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.ledger.TokenBalance(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewTokenBalanceResponse(balance))
}
