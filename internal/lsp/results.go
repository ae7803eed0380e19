package lsp

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"gfmlint/internal/diagfmt"
	"gfmlint/internal/validate"
)

// methodValidationResults returns the classified results of a document,
// optionally narrowed to a single category.
const methodValidationResults = "gfmlint/validationResults"

func (s *Server) handleValidationResults(msg *rpcMessage) error {
	if len(msg.ID) == 0 {
		return nil
	}
	var params validationResultsParams
	if err := json.Unmarshal(msg.Params, &params); err != nil || params.URI == "" {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	var category validate.Category
	if params.Category != "" {
		c, err := validate.ParseCategory(params.Category)
		if err != nil {
			return s.sendError(msg.ID, codeInvalidParams, err.Error())
		}
		category = c
	}

	uri := canonicalURI(params.URI)
	results, err := s.resultsFor(uri)
	if err != nil {
		return s.sendError(msg.ID, codeInvalidRequest, err.Error())
	}
	counts := validate.CountByCategory(results)
	if category != "" {
		results = validate.ResultsByCategory(results, category)
	}

	loc := s.localizer()
	out := make([]diagfmt.ResultJSON, 0, len(results))
	for _, r := range results {
		out = append(out, diagfmt.ResultJSON{
			ValidationResult: r,
			LocalizedMessage: loc.Localize(r.Message, r.RuleID),
		})
	}
	return s.sendResponse(msg.ID, validationResultsResponse{
		URI:     uri,
		Results: out,
		Counts:  counts,
	})
}

// resultsFor returns published results when they match the open text,
// validates the open text otherwise, and falls back to the file on disk
// for documents the client never opened.
func (s *Server) resultsFor(uri string) ([]validate.ValidationResult, error) {
	s.mu.Lock()
	if cached, ok := s.cachedResultsLocked(uri); ok {
		s.mu.Unlock()
		return cached, nil
	}
	doc, open := s.docs[uri]
	var text string
	var state docState
	if open {
		text, state = doc.text, doc.state
	}
	opts := s.opts
	ctx := s.baseCtx
	s.mu.Unlock()

	path := uriToPath(uri)
	if !open {
		if path == "" {
			return nil, os.ErrNotExist
		}
		// #nosec G304 -- path comes from the client
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		text = string(content)
	}
	if path == "" {
		path = uri
	}
	results := s.analyze(ctx, path, text, opts)
	if open {
		s.mu.Lock()
		if got, ok := s.docStateLocked(uri); ok && got == state {
			s.results[uri] = docResults{state: state, results: results}
		}
		s.mu.Unlock()
	}
	s.log.Debug("validation results", zap.String("uri", uri), zap.Int("results", len(results)))
	return results, nil
}
