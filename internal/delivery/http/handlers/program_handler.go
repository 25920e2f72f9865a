package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hashperks/loyalty-service/internal/delivery/http/dto/request"
	"github.com/hashperks/loyalty-service/internal/delivery/http/dto/response"
	programdto "github.com/hashperks/loyalty-service/internal/usecase/dto/program"
)

func (s *Server) CreateDefaultProgram(w http.ResponseWriter, r *http.Request) {
	var input programdto.CreateProgramInput
	if err := decodeJSON(w, r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}
	input.StoreID = chi.URLParam(r, "storeID")
	program, err := s.programs.CreateDefaultProgram(r.Context(), principalFrom(r.Context()), &input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, response.NewProgramResponse(program))
}

func (s *Server) ListStorePrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := s.programs.ListProgramsForStore(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewProgramList(programs))
}

func (s *Server) GetDefaultProgram(w http.ResponseWriter, r *http.Request) {
	program, err := s.programs.GetDefaultProgram(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewProgramResponse(program))
}

func (s *Server) GetProgram(w http.ResponseWriter, r *http.Request) {
	program, err := s.programs.GetProgram(r.Context(), chi.URLParam(r, "programID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewProgramResponse(program))
}

func (s *Server) UpdateProgram(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateProgramRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	program, err := s.programs.UpdateProgram(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "programID"), req.Patch())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.NewProgramResponse(program))
}

func (s *Server) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	if err := s.programs.DeleteProgram(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "programID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
