package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/v0xg/elementscout/internal/crawler"
	"github.com/v0xg/elementscout/internal/snapshot"
)

const maxBodyBytes = 4 << 20

type interactionsResponse struct {
	Results []string `json:"results"`
}

type elementResponse struct {
	Element string `json:"element"`
}

type scriptResponse struct {
	Script string `json:"script"`
}

func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		writeError(w, http.StatusBadRequest, "URL was not provided")
		return
	}

	results, err := s.analyzer.Results(r.Context(), url)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if results == nil {
		results = []string{}
	}
	writeJSON(w, http.StatusOK, interactionsResponse{Results: results})
}

func (s *Server) handleElement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	url := strings.TrimSpace(query.Get("url"))
	if url == "" {
		writeError(w, http.StatusBadRequest, "URL was not provided")
		return
	}
	goal := strings.TrimSpace(query.Get("goal"))
	if goal == "" {
		writeError(w, http.StatusBadRequest, "Goal was not provided")
		return
	}

	results, err := s.analyzer.Results(r.Context(), url)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	element, err := s.locator.Locate(r.Context(), results, goal)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, elementResponse{Element: element})
}

func (s *Server) handleActionScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	goal, okGoal := stringField(fields["goal"])
	rawInteractions, okInteractions := fields["interactions"]
	if !okGoal || !okInteractions {
		writeError(w, http.StatusBadRequest, "Malformed request, you must include goal and interactions")
		return
	}

	// A JSON string is used verbatim, anything else as its JSON text
	interactions, isString := stringField(rawInteractions)
	if !isString {
		interactions = string(rawInteractions)
	}

	script, err := s.synthesizer.Script(r.Context(), goal, interactions)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scriptResponse{Script: script})
}

func (s *Server) handleModifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	url := strings.TrimSpace(query.Get("url"))
	if url == "" {
		writeError(w, http.StatusBadRequest, "URL was not provided")
		return
	}
	alternatives := false
	if raw := query.Get("alternatives"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "alternatives must be true or false")
			return
		}
		alternatives = v
	}

	changes, err := s.changes.Modifications(r.Context(), url, alternatives)
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		writeError(w, http.StatusNotFound, "No snapshot stored for URL")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, changes)
}

func stringField(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return v, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var fe *crawler.FetchError
	if errors.As(err, &fe) {
		s.log(r).Error().Err(err).Str("url", fe.URL).Msg("page fetch failed")
	} else {
		s.log(r).Error().Err(err).Msg("request failed")
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
