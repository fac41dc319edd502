package api

import (
	"net/http"

	"github.com/manna-app/manna-go/internal/search"
)

// handleSearchManhwas runs a catalog query. Malformed parameters never
// fail the request; they fall back to permissive defaults. Only a
// complete engine failure produces an error response.
func (s *Server) handleSearchManhwas(w http.ResponseWriter, r *http.Request) {
	q := search.ParseQuery(r.URL.Query())

	result, err := s.engine.Search(r.Context(), q)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Erro na busca")
		return
	}
	RespondWithJSON(w, http.StatusOK, result)
}

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.engine.Genres(r.Context())
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Erro na busca")
		return
	}
	RespondWithJSON(w, http.StatusOK, genres)
}
