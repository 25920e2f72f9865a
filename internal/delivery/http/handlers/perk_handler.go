package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hashperks/loyalty-service/internal/delivery/http/dto/request"
	"github.com/hashperks/loyalty-service/internal/delivery/http/dto/response"
	perkdto "github.com/hashperks/loyalty-service/internal/usecase/dto/perk"
)

func (s *Server) ListPerks(w http.ResponseWriter, r *http.Request) {
	perks, err := s.perks.ListPerks(r.Context(), chi.URLParam(r, "programID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewPerkList(perks))
}

func (s *Server) CreatePerk(w http.ResponseWriter, r *http.Request) {
	var input perkdto.CreatePerkInput
	if err := decodeJSON(w, r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}
	input.LoyaltyProgramID = chi.URLParam(r, "programID")
	perk, err := s.perks.CreatePerk(r.Context(), principalFrom(r.Context()), &input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, response.NewPerkResponse(perk))
}

func (s *Server) UpdatePerk(w http.ResponseWriter, r *http.Request) {
	var req request.UpdatePerkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	perk, err := s.perks.UpdatePerk(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "perkID"), req.Patch())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewPerkResponse(perk))
}
