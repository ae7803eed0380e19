package lsp

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"gfmlint/internal/locale"
	"gfmlint/internal/validate"
)

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	if len(params.Settings) == 0 {
		return nil
	}
	var settings lspSettings
	if err := json.Unmarshal(params.Settings, &settings); err != nil {
		s.log.Warn("ignoring malformed settings", zap.Error(err))
		return nil
	}
	if s.applySettings(settings.Gfmlint) {
		s.scheduleDiagnostics()
	}
	return nil
}

// applySettings reports whether published diagnostics went stale.
func (s *Server) applySettings(settings gfmlintSettings) bool {
	var categories []validate.Category
	if settings.Categories != nil {
		parsed, err := validate.ParseCategories(strings.Join(settings.Categories, ","))
		if err != nil {
			s.log.Warn("ignoring categories setting", zap.Error(err))
		} else {
			categories = parsed
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	if settings.Language != nil {
		loc := locale.Parse(*settings.Language)
		changed = changed || loc != s.loc
		s.loc = loc
	}
	if categories != nil {
		s.opts.Categories = categories
		s.results = make(map[string]docResults)
		changed = true
	}
	if settings.Trace != nil {
		s.traceLSP = *settings.Trace
	}
	return changed
}
