package lsp

import (
	"context"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"gfmlint/internal/locale"
	"gfmlint/internal/source"
	"gfmlint/internal/validate"
)

const diagnosticSource = "gfmlint"

// LSP DiagnosticSeverity values.
const (
	severityError       = 1
	severityWarning     = 2
	severityInformation = 3
)

func lspSeverity(s validate.Severity) int {
	switch s {
	case validate.SeverityError:
		return severityError
	case validate.SeverityWarning:
		return severityWarning
	default:
		return severityInformation
	}
}

type analysisPlan struct {
	seq   uint64
	docs  map[string]docState
	texts map[string]string
	opts  validate.Options
}

func (s *Server) scheduleDiagnostics() {
	s.mu.Lock()
	seq := atomic.AddUint64(&s.analysisSeq, 1)
	atomic.StoreUint64(&s.latestSeq, seq)
	if s.diagCancel != nil {
		s.diagCancel()
	}
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		s.runDiagnostics(seq)
	})
	s.mu.Unlock()
}

func (s *Server) stopDiagnostics() {
	s.mu.Lock()
	atomic.StoreUint64(&s.latestSeq, 0)
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	if s.diagCancel != nil {
		s.diagCancel()
		s.diagCancel = nil
	}
	s.mu.Unlock()
}

// runDiagnostics validates every open document and publishes the results
// that still describe the current text. A newer schedule cancels the run.
func (s *Server) runDiagnostics(seq uint64) {
	if !s.isLatestSeq(seq) {
		return
	}
	s.mu.Lock()
	if s.diagCancel != nil {
		s.diagCancel()
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.diagCancel = cancel
	plan := analysisPlan{
		seq:   seq,
		docs:  make(map[string]docState, len(s.docs)),
		texts: make(map[string]string, len(s.docs)),
		opts:  s.opts,
	}
	for uri, doc := range s.docs {
		plan.docs[uri] = doc.state
		plan.texts[uri] = doc.text
	}
	trace := s.traceLSP
	s.mu.Unlock()
	defer cancel()

	uris := make([]string, 0, len(plan.docs))
	for uri := range plan.docs {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	for _, uri := range uris {
		if ctx.Err() != nil || !s.isLatestSeq(seq) {
			if trace {
				s.log.Debug("analysis discard", zap.Uint64("seq", seq), zap.String("reason", "superseded"))
			}
			return
		}
		path := uriToPath(uri)
		if path == "" {
			path = uri
		}
		start := time.Now()
		results := s.analyze(ctx, path, plan.texts[uri], plan.opts)
		if ctx.Err() != nil {
			return
		}
		if trace {
			s.log.Debug("analysis done",
				zap.Uint64("seq", seq),
				zap.String("uri", uri),
				zap.Int("results", len(results)),
				zap.Duration("elapsed", time.Since(start)))
		}
		s.publishDiagnostics(plan, uri, results)
	}
}

// publishDiagnostics sends results for uri unless the document moved on
// since the plan was taken.
func (s *Server) publishDiagnostics(plan analysisPlan, uri string, results []validate.ValidationResult) {
	s.mu.Lock()
	want := plan.docs[uri]
	got, open := s.docStateLocked(uri)
	if !open || got != want || !s.isLatestSeq(plan.seq) {
		s.mu.Unlock()
		if s.currentTrace() {
			s.log.Debug("analysis discard", zap.Uint64("seq", plan.seq), zap.String("uri", uri), zap.String("reason", "stale"))
		}
		return
	}
	s.results[uri] = docResults{state: want, results: results}
	s.published[uri] = struct{}{}
	loc := s.loc
	s.mu.Unlock()

	list := toLSPDiagnostics(uri, plan.texts[uri], results, loc)
	version := want.version
	if err := s.sendPublish(uri, &version, list); err != nil {
		s.log.Warn("failed to publish diagnostics", zap.String("uri", uri), zap.Error(err))
	}
}

func toLSPDiagnostics(uri, text string, results []validate.ValidationResult, loc *locale.Localizer) []lspDiagnostic {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(uri, []byte(text)))
	list := make([]lspDiagnostic, 0, len(results))
	for _, r := range results {
		list = append(list, lspDiagnostic{
			Range:    rangeForResult(file, r.Line, r.Column),
			Severity: lspSeverity(r.Severity),
			Code:     r.RuleID,
			Source:   diagnosticSource,
			Message:  loc.Localize(r.Message, r.RuleID),
			Data: diagnosticData{
				Category: r.Category,
				Original: r.Message,
			},
		})
	}
	return list
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	if len(s.published) == 0 {
		s.mu.Unlock()
		return
	}
	prev := s.published
	s.published = make(map[string]struct{})
	s.mu.Unlock()
	for uri := range prev {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.log.Warn("failed to clear diagnostics", zap.String("uri", uri), zap.Error(err))
		}
	}
}

func canonicalPath(path string) string {
	if path == "" {
		return ""
	}
	candidate := filepath.FromSlash(path)
	if abs, err := filepath.Abs(candidate); err == nil {
		candidate = abs
	}
	return filepath.ToSlash(filepath.Clean(candidate))
}
