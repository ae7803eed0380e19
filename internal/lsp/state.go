package lsp

import (
	"gfmlint/internal/locale"
	"gfmlint/internal/validate"
)

type docState struct {
	version    int
	snapshotID int64
}

type document struct {
	text  string
	state docState
}

// docResults are the unfiltered-by-request results of one analysed snapshot.
type docResults struct {
	state   docState
	results []validate.ValidationResult
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdownRequested
}

func (s *Server) localizer() *locale.Localizer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loc
}

func (s *Server) currentTrace() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.traceLSP
}

func (s *Server) docStateLocked(uri string) (docState, bool) {
	doc, ok := s.docs[uri]
	if !ok {
		return docState{}, false
	}
	return doc.state, true
}

// cachedResultsLocked returns the stored results when they still describe
// the open text of uri.
func (s *Server) cachedResultsLocked(uri string) ([]validate.ValidationResult, bool) {
	cached, ok := s.results[uri]
	if !ok {
		return nil, false
	}
	state, open := s.docStateLocked(uri)
	if !open || state != cached.state {
		return nil, false
	}
	return cached.results, true
}
