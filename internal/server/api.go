package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/chyiyaqing/diszeroer/internal/filter"
)

// JSON response types for the REST API.

type apiListResponse struct {
	Count    int           `json:"count"`
	Articles []ArticleView `json:"articles"`
}

type apiError struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

// GET /api/articles?likes_limit=3&comments_limit=3&max_result_count=20&chosen_collections=...
func (s *Server) handleAPIArticles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
		return
	}

	opts, problems := s.checkOptions(r.URL.Query())
	if len(problems) > 0 {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid options", Problems: problems})
		return
	}

	articles, err := s.finder.Find(r.Context(), opts)
	var p filter.Problems
	if errors.As(err, &p) {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid options", Problems: p})
		return
	}
	if err != nil {
		s.logger.Error("api lookup failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, apiError{Error: "failed to fetch articles"})
		return
	}

	items := views(articles, opts)
	writeJSON(w, http.StatusOK, apiListResponse{
		Count:    len(items),
		Articles: items,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
