package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/abhisek/careertree/internal/eligibility"
	"github.com/abhisek/careertree/internal/progress"
	"github.com/abhisek/careertree/internal/questionnaire"
	"github.com/abhisek/careertree/internal/skilltree"
	"github.com/abhisek/careertree/internal/store"
	"github.com/abhisek/careertree/internal/tracker"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"questions": questionnaire.Bank()})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request, user string) {
	c, err := s.tracker.Catalog(r.Context(), user)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	nodes := c.Nodes()
	if raw := r.URL.Query().Get("category"); raw != "" {
		cat := skilltree.Category(strings.ToLower(raw))
		if !cat.Valid() {
			writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Sprintf("unknown category %q", raw))
			return
		}
		nodes = c.ByCategory(cat)
	}
	if nodes == nil {
		nodes = []skilltree.Node{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"revision": strconv.FormatUint(c.Revision(), 16),
		"nodes":    nodes,
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request, user string) {
	g, err := s.tracker.Graph(r.Context(), user)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type nodeResponse struct {
	Node                 skilltree.Node     `json:"node"`
	Status               eligibility.Status `json:"status"`
	MissingPrerequisites []string           `json:"missingPrerequisites"`
	InProgress           bool               `json:"inProgress"`
	Dependents           []string           `json:"dependents"`
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request, user string) {
	c, p, err := s.tracker.State(r.Context(), user)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	n, err := c.Lookup(r.PathValue("node"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := nodeResponse{
		Node:                 n,
		Status:               eligibility.ResolveStatus(n, p),
		MissingPrerequisites: eligibility.MissingPrerequisites(n, p),
		InProgress:           p.IsInProgress(n.ID),
		Dependents:           []string{},
	}
	if resp.MissingPrerequisites == nil {
		resp.MissingPrerequisites = []string{}
	}
	for _, d := range c.Dependents(n.ID) {
		resp.Dependents = append(resp.Dependents, d.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}

type progressResponse struct {
	progress.Progress
	XPToNextLevel int `json:"xpToNextLevel"`
	LevelProgress int `json:"levelProgress"`
}

func newProgressResponse(p progress.Progress) progressResponse {
	return progressResponse{Progress: p, XPToNextLevel: p.XPToNextLevel(), LevelProgress: p.LevelProgress()}
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request, user string) {
	p, err := s.tracker.Progress(r.Context(), user)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProgressResponse(p))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, user string) {
	var opts store.QueryOpts
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be a non-negative integer")
			return
		}
		opts.Limit = n
	}
	a, err := s.tracker.History(r.Context(), user, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if a.Completions == nil {
		a.Completions = []store.CompletionEvent{}
	}
	if a.Merges == nil {
		a.Merges = []store.MergeEvent{}
	}
	writeJSON(w, http.StatusOK, a)
}

type nodeRequest struct {
	NodeID string `json:"nodeId"`
}

type completeResponse struct {
	Outcome  tracker.Outcome  `json:"outcome"`
	Progress progressResponse `json:"progress"`
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request, user string) {
	var req nodeRequest
	if !s.decodeNodeRequest(w, r, &req) {
		return
	}
	out, p, err := s.tracker.Complete(r.Context(), user, req.NodeID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if out.Achievements == nil {
		out.Achievements = []progress.Achievement{}
	}
	writeJSON(w, http.StatusOK, completeResponse{Outcome: out, Progress: newProgressResponse(p)})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request, user string) {
	var req nodeRequest
	if !s.decodeNodeRequest(w, r, &req) {
		return
	}
	changed, p, err := s.tracker.Start(r.Context(), user, req.NodeID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"changed": changed, "progress": newProgressResponse(p)})
}

type personalizeRequest struct {
	Answers questionnaire.Answers `json:"answers"`
}

type personalizeResponse struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Recommendations []string         `json:"recommendations"`
	RecommendedPath []string         `json:"recommendedPath"`
	Added           []string         `json:"added"`
	Replaced        []string         `json:"replaced"`
	Kept            []string         `json:"kept"`
	Warnings        []string         `json:"warnings"`
	Nodes           []skilltree.Node `json:"nodes"`
}

func (s *Server) handlePersonalize(w http.ResponseWriter, r *http.Request, user string) {
	var req personalizeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	res, err := s.tracker.Personalize(r.Context(), user, req.Answers)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, personalizeResponse{
		Title:           res.Title,
		Description:     res.Description,
		Recommendations: orEmpty(res.Recommendations),
		RecommendedPath: orEmpty(res.RecommendedPath),
		Added:           orEmpty(res.Added),
		Replaced:        orEmpty(res.Replaced),
		Kept:            orEmpty(res.Kept),
		Warnings:        orEmpty(res.Warnings),
		Nodes:           orEmpty(res.Delta),
	})
}

func (s *Server) decodeNodeRequest(w http.ResponseWriter, r *http.Request, req *nodeRequest) bool {
	if err := decodeBody(w, r, req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return false
	}
	if strings.TrimSpace(req.NodeID) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "nodeId is required")
		return false
	}
	return true
}

// decodeBody reads one JSON object from the request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return fmt.Errorf("request body exceeds %d bytes", maxBodySize)
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		default:
			return fmt.Errorf("invalid JSON body: %v", err)
		}
	}
	return nil
}

// orEmpty keeps nil slices from encoding as null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
