package diagfmt

import (
	"encoding/json"
	"io"

	"gfmlint/internal/validate"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string        `json:"id"`
	ShortDescription *sarifMessage `json:"shortDescription,omitempty"`
	Properties       sarifRuleProp `json:"properties"`
}

type sarifRuleProp struct {
	Category validate.Category `json:"category"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

// Sarif форматирует результаты в SARIF (v2.1.0). Сообщения не переводятся:
// SARIF-потребители ожидают исходный текст правила.
func Sarif(w io.Writer, reports []FileReport, meta SarifRunMeta) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           meta.ToolName,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
			Rules:          []sarifRule{},
		}},
		Results: []sarifResult{},
	}
	if run.Tool.Driver.Name == "" {
		run.Tool.Driver.Name = "gfmlint"
	}
	ruleIndex := make(map[string]int)
	for _, rep := range reports {
		uri := displayPath(rep.Path, meta.PathMode, meta.BaseDir)
		for _, r := range rep.Results {
			idx, ok := ruleIndex[r.RuleID]
			if !ok {
				idx = len(run.Tool.Driver.Rules)
				ruleIndex[r.RuleID] = idx
				rule := sarifRule{ID: r.RuleID, Properties: sarifRuleProp{Category: r.Category}}
				if s := meta.RuleSummaries[r.RuleID]; s != "" {
					rule.ShortDescription = &sarifMessage{Text: s}
				}
				run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, rule)
			}
			loc := sarifLocation{PhysicalLocation: sarifPhysical{ArtifactLocation: sarifArtifact{URI: uri}}}
			if r.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{StartLine: r.Line, StartColumn: r.Column}
			}
			run.Results = append(run.Results, sarifResult{
				RuleID:    r.RuleID,
				RuleIndex: idx,
				Level:     sarifLevel(r.Severity),
				Message:   sarifMessage{Text: r.Message},
				Locations: []sarifLocation{loc},
			})
		}
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}})
}

func sarifLevel(s validate.Severity) string {
	switch s {
	case validate.SeverityError:
		return "error"
	case validate.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
