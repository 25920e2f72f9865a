package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hashperks/loyalty-service/internal/delivery/http/dto/response"
)

func (s *Server) Join(w http.ResponseWriter, r *http.Request) {
	membership, err := s.memberships.Join(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "programID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, response.NewMembershipResponse(membership))
}

func (s *Server) JoinDefault(w http.ResponseWriter, r *http.Request) {
	membership, err := s.memberships.JoinDefault(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "storeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, response.NewMembershipResponse(membership))
}

func (s *Server) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.memberships.ListMembers(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "programID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewMemberList(members))
}

func (s *Server) ListStoreMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.memberships.ListMembersForStore(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "storeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewMemberList(members))
}

func (s *Server) MyMemberships(w http.ResponseWriter, r *http.Request) {
	rows, err := s.memberships.ListProgramsForMember(r.Context(), principalFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewMemberProgramList(rows))
}
