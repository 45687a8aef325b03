package diagfmt

import (
	"encoding/json"
	"io"

	"bobbin/internal/diag"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
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
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations,omitempty"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	ID               int                   `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

// SARIF regions are 1-based; columns count UTF-16 code units by default.
type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0)
func Sarif(w io.Writer, reports []FileReport, meta SarifRunMeta) error {
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: meta.ToolName, Version: meta.ToolVersion}},
		Results: []sarifResult{},
	}
	failed := false
	for _, r := range reports {
		opts := JSONOpts{IncludePositions: true, UTF16Columns: true}
		for _, d := range r.Diagnostics {
			if d.Severity == diag.SevError {
				failed = true
			}
			text := d.Message
			for _, n := range d.Notes {
				text += "\n" + n
			}
			res := sarifResult{Level: sarifLevel(d.Severity), Message: sarifMessage{Text: text}}
			if p, ok := d.PrimaryLabel(); ok {
				res.Locations = []sarifLocation{sarifLoc(makeLocation(p.Span, r.File, opts), r.File.Path, 0, "")}
			}
			for i, l := range d.Secondaries() {
				res.RelatedLocations = append(res.RelatedLocations,
					sarifLoc(makeLocation(l.Span, r.File, opts), r.File.Path, i+1, l.Message))
			}
			run.Results = append(run.Results, res)
		}
	}
	if meta.InvocationArgs != nil {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: !failed}}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}

func sarifLoc(loc LocationJSON, uri string, id int, msg string) sarifLocation {
	sl := sarifLocation{
		ID: id,
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifact{URI: uri},
			Region: sarifRegion{
				StartLine:   loc.StartLine,
				StartColumn: loc.StartCol,
				EndLine:     loc.EndLine,
				EndColumn:   loc.EndCol,
				ByteOffset:  loc.StartByte,
				ByteLength:  loc.EndByte - loc.StartByte,
			},
		},
	}
	if msg != "" {
		sl.Message = &sarifMessage{Text: msg}
	}
	return sl
}
