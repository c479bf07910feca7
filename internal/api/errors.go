package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/abhisek/careertree/internal/llm"
	"github.com/abhisek/careertree/internal/personalize"
	"github.com/abhisek/careertree/internal/questionnaire"
	"github.com/abhisek/careertree/internal/skilltree"
	"github.com/abhisek/careertree/internal/store"
	"github.com/abhisek/careertree/internal/tracker"
)

// Stable error codes returned in the "code" field. external_rejected
// means the AI provider refused the request and a retry will not help.
const (
	codeBadRequest       = "bad_request"
	codeInvalidAnswers   = "invalid_answers"
	codeNodeNotFound     = "node_not_found"
	codeNodeIneligible   = "node_ineligible"
	codeMergeConflict    = "merge_conflict"
	codeVersionConflict  = "version_conflict"
	codeExternalService  = "external_service"
	codeExternalRejected = "external_rejected"
	codeRateLimited      = "rate_limited"
	codeInternal         = "internal"
)

// defaultRetryAfter is suggested when the generator gives no better hint.
const defaultRetryAfter = 30 * time.Second

type errorBody struct {
	Error    string   `json:"error"`
	Code     string   `json:"code"`
	Missing  []string `json:"missingPrerequisites,omitempty"`
	Problems []string `json:"problems,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// respondError maps err to a status and stable code. Unexpected errors
// are logged and answered with a generic message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound   *skilltree.ErrNodeNotFound
		ineligible *tracker.ErrIneligibleNode
		merge      *personalize.ErrMergeConflict
		version    *store.ErrVersionConflict
		external   *personalize.ErrExternalService
		answers    *questionnaire.ErrInvalidAnswers
	)
	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, codeNodeNotFound, notFound.Error())
	case errors.As(err, &ineligible):
		writeJSON(w, http.StatusConflict, errorBody{
			Error:   ineligible.Error(),
			Code:    codeNodeIneligible,
			Missing: ineligible.Missing,
		})
	case errors.As(err, &merge):
		writeError(w, http.StatusConflict, codeMergeConflict, merge.Error())
	case errors.As(err, &version):
		writeError(w, http.StatusConflict, codeVersionConflict, "progress changed concurrently, try again")
	case errors.As(err, &answers):
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:    "invalid answers",
			Code:     codeInvalidAnswers,
			Problems: answers.Problems,
		})
	case errors.As(err, &external) && !external.Retryable:
		s.logger.ErrorContext(r.Context(), "career path generation rejected", "error", err)
		writeError(w, http.StatusBadGateway, codeExternalRejected, "the career path generator rejected the request")
	case errors.As(err, &external):
		s.logger.WarnContext(r.Context(), "career path generation failed", "error", err)
		w.Header().Set("Retry-After", retryAfterSeconds(retryAfter(err)))
		writeError(w, http.StatusServiceUnavailable, codeExternalService, "career path generation is unavailable, try again later")
	case errors.Is(err, tracker.ErrPersonalizationDisabled):
		writeError(w, http.StatusServiceUnavailable, codeExternalService, "personalization is not configured on this server")
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

// retryAfter prefers the provider's rate limit hint.
func retryAfter(err error) time.Duration {
	if d := llm.RetryAfter(err); d > 0 {
		return d
	}
	return defaultRetryAfter
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return strconv.Itoa(max(secs, 1))
}
